package dbn

import (
	"crypto/sha256"
	"fmt"
)

// CramApiKeyLength is the expected length of a Databento API key.
const CramApiKeyLength = 32

// CramBucketIdLength is the width of the API key suffix used as the CRAM
// bucket id, both the client-side tag and the server-side key lookup index.
const CramBucketIdLength = 5

// CramResponse computes the CRAM (Challenge-Response Authentication
// Mechanism) reply for a gateway challenge and API key (spec §4.4):
//
//	response(challenge, api_key) = hex(sha256(challenge + "|" + api_key)) + "-" + last5(api_key)
//
// CRAM is used exactly once per authentication exchange.
func CramResponse(challenge string, apiKey string) string {
	request := fmt.Sprintf("%s|%s", challenge, apiKey)

	hasher := sha256.New()
	hasher.Write([]byte(request))
	checksum := hasher.Sum(nil)

	bucketID := apiKey
	if len(apiKey) >= CramBucketIdLength {
		bucketID = apiKey[len(apiKey)-CramBucketIdLength:]
	}
	return fmt.Sprintf("%x-%s", checksum, bucketID)
}
