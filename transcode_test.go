package dbn_test

import (
	"bytes"
	"errors"
	"strings"

	dbn "github.com/databento/dbn-go"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Transcoder", func() {
	Context("CSV output", func() {
		It("writes a header row once per schema and one row per record", func() {
			var raw bytes.Buffer
			writeMbp0Raw(&raw, 15144, 476370000000, 1)
			writeMbp0Raw(&raw, 15144, 476380000000, 2)

			var out bytes.Buffer
			tc := dbn.NewTranscoder(dbn.TranscodeFormat_CSV, &out, dbn.PriceType_Float, false, 22)
			_, err := tc.Write(raw.Bytes())
			Expect(err).NotTo(HaveOccurred())
			Expect(tc.Flush()).To(Succeed())

			lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
			Expect(lines).To(HaveLen(3))
			Expect(lines[0]).To(ContainSubstring("price"))
			Expect(lines[1]).To(ContainSubstring("476.37"))
		})

		It("reports Corrupt{truncated} on a partial trailing record", func() {
			var raw bytes.Buffer
			writeMbp0Raw(&raw, 15144, 476370000000, 1)
			truncated := raw.Bytes()[:len(raw.Bytes())-4]

			var out bytes.Buffer
			tc := dbn.NewTranscoder(dbn.TranscodeFormat_CSV, &out, dbn.PriceType_Fixed, false, 22)
			_, err := tc.Write(truncated)
			Expect(err).NotTo(HaveOccurred())

			err = tc.Flush()
			Expect(err).To(HaveOccurred())
			var corrupt *dbn.CorruptError
			Expect(errors.As(err, &corrupt)).To(BeTrue())
			Expect(corrupt.Reason).To(Equal("truncated"))
		})

		It("accepts a record split across two Write calls", func() {
			var raw bytes.Buffer
			writeMbp0Raw(&raw, 15144, 476370000000, 1)
			full := raw.Bytes()
			split := len(full) / 2

			var out bytes.Buffer
			tc := dbn.NewTranscoder(dbn.TranscodeFormat_CSV, &out, dbn.PriceType_Fixed, false, 22)
			_, err := tc.Write(full[:split])
			Expect(err).NotTo(HaveOccurred())
			_, err = tc.Write(full[split:])
			Expect(err).NotTo(HaveOccurred())
			Expect(tc.Flush()).To(Succeed())

			lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
			Expect(lines).To(HaveLen(2))
		})
	})

	Context("JSON output", func() {
		It("writes one JSON object per line", func() {
			var raw bytes.Buffer
			writeMbp0Raw(&raw, 15144, 476370000000, 1)

			var out bytes.Buffer
			tc := dbn.NewTranscoder(dbn.TranscodeFormat_JSON, &out, dbn.PriceType_Float, false, 22)
			_, err := tc.Write(raw.Bytes())
			Expect(err).NotTo(HaveOccurred())
			Expect(tc.Flush()).To(Succeed())

			lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
			Expect(lines).To(HaveLen(1))
			Expect(lines[0]).To(ContainSubstring(`"price"`))
		})
	})

	Context("price formatting", func() {
		It("formats fixed as the raw integer", func() {
			var raw bytes.Buffer
			writeMbp0Raw(&raw, 15144, 476370000000, 1)

			var out bytes.Buffer
			tc := dbn.NewTranscoder(dbn.TranscodeFormat_CSV, &out, dbn.PriceType_Fixed, false, 22)
			_, _ = tc.Write(raw.Bytes())
			Expect(tc.Flush()).To(Succeed())
			Expect(out.String()).To(ContainSubstring("476370000000"))
		})

		It("formats decimal with nine fractional digits", func() {
			var raw bytes.Buffer
			writeMbp0Raw(&raw, 15144, 476370000000, 1)

			var out bytes.Buffer
			tc := dbn.NewTranscoder(dbn.TranscodeFormat_CSV, &out, dbn.PriceType_Decimal, false, 22)
			_, _ = tc.Write(raw.Bytes())
			Expect(tc.Flush()).To(Succeed())
			Expect(out.String()).To(ContainSubstring("476.370000000"))
		})
	})
})
