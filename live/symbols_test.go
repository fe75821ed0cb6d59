// Copyright (c) 2025 Neomantra Corp

package dbn_live

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("NormalizeSymbols", func() {
	It("trims and uppercases plain symbols", func() {
		Expect(NormalizeSymbols([]string{" esh4 ", "clz4"})).To(Equal([]string{"ESH4", "CLZ4"}))
	})

	It("drops blank entries", func() {
		Expect(NormalizeSymbols([]string{"esh4", "  ", ""})).To(Equal([]string{"ESH4"}))
	})

	It("preserves the ALL_SYMBOLS sentinel regardless of case", func() {
		Expect(NormalizeSymbols([]string{"all_symbols"})).To(Equal([]string{AllSymbols}))
	})

	It("lowercases the middle segment of continuous symbology", func() {
		Expect(NormalizeSymbols([]string{"es.c.0"})).To(Equal([]string{"ES.c.0"}))
	})

	It("leaves non-continuous dotted symbols fully uppercased", func() {
		Expect(NormalizeSymbols([]string{"es.fut"})).To(Equal([]string{"ES.FUT"}))
	})
})
