package dbn_test

import (
	dbn "github.com/databento/dbn-go"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("CramResponse", func() {
	It("computes hex(sha256(challenge|api_key))-last5(api_key)", func() {
		challenge := "3ade68b6-7c31-4e12-bf91-a0a5f3b2e401"
		apiKey := "db-" + "aaaaaaaaaaaaaaaaaaaaaaaaaaaaa" // 32 chars total

		got := dbn.CramResponse(challenge, apiKey)
		want := "be6eb1f82dc8c57dda67323a2e6b7d0c41493679db1c67079cda959776a3663e-aaaaa"
		Expect(got).To(Equal(want))
	})

	It("is deterministic for the same inputs", func() {
		a := dbn.CramResponse("chal", "db-key")
		b := dbn.CramResponse("chal", "db-key")
		Expect(a).To(Equal(b))
	})

	It("changes with the challenge", func() {
		a := dbn.CramResponse("chal-1", "db-key")
		b := dbn.CramResponse("chal-2", "db-key")
		Expect(a).ToNot(Equal(b))
	})
})
