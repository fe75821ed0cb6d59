// Copyright (c) 2024 Neomantra Corp

package dbn_hist

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// A **half**-closed date interval with an inclusive start date and an exclusive end date.
type DateRange struct {
	// The start date (inclusive).
	Start time.Time `json:"start"`
	// The end date (exclusive).
	End time.Time `json:"end"`
}

type RequestError struct {
	Case       string `json:"case"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
	Docs       string `json:"docs,omitempty"`
	Payload    string `json:"payload,omitempty"`
}

type RequestErrorResp struct {
	Detail RequestError `json:"detail"`
}

//////////////////////////////////////////////////////////////////////////////

// httpClient is a package-level retryablehttp.Client shared across requests.
// Historical API calls are idempotent GETs and form-encoded POSTs against a
// rate-limited REST endpoint, so transient 5xx/connection failures are
// retried with exponential backoff rather than surfaced immediately.
var httpClient = newRetryableClient()

func newRetryableClient() *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = 3
	c.Logger = nil // the teacher's slog wiring lives in LiveConfig; hist calls are one-shot
	return c
}

func basicAuthHeader(apiKey string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(apiKey+":"))
}

func doRequest(req *retryablehttp.Request) ([]byte, error) {
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	badStatusCode := resp.StatusCode != 200

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if badStatusCode {
			return nil, fmt.Errorf("HTTP %d %s %s %w", resp.StatusCode, resp.Status, string(body), err)
		}
		return nil, err
	}

	if badStatusCode {
		return nil, fmt.Errorf("HTTP %d %s %s", resp.StatusCode, resp.Status, string(body))
	}
	return body, nil
}

//////////////////////////////////////////////////////////////////////////////

func databentoGetRequest(urlStr string, apiKey string) ([]byte, error) {
	apiUrl, err := url.Parse(urlStr)
	if err != nil {
		return nil, err
	}
	req, err := retryablehttp.NewRequest("GET", apiUrl.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Add("Authorization", basicAuthHeader(apiKey))

	return doRequest(req)
}

//////////////////////////////////////////////////////////////////////////////

func databentoPostFormRequest(urlStr string, apiKey string, form url.Values, accept string) ([]byte, error) {
	apiUrl, err := url.Parse(urlStr)
	if err != nil {
		return nil, err
	}

	formBody := strings.NewReader(form.Encode())
	req, err := retryablehttp.NewRequest("POST", apiUrl.String(), formBody)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if accept != "" {
		req.Header.Set("Accept-Encoding", accept)
	}
	req.Header.Add("Authorization", basicAuthHeader(apiKey))

	return doRequest(req)
}
