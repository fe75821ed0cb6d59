package dbn_test

import (
	dbn "github.com/databento/dbn-go"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func ymdNanos(ymd uint32) uint64 {
	return uint64(dbn.YMDToTime(ymd).UnixNano())
}

var _ = Describe("InstrumentMap", func() {
	It("is empty on construction", func() {
		m := dbn.NewInstrumentMap()
		Expect(m.IsEmpty()).To(BeTrue())
	})

	Context("InsertMetadata", func() {
		It("resolves an instrument_id -> raw_symbol mapping (stype_out == instrument_id)", func() {
			meta := &dbn.Metadata{
				StypeIn:  dbn.SType_RawSymbol,
				StypeOut: dbn.SType_InstrumentId,
				Mappings: []dbn.SymbolMapping{
					{
						RawSymbol: "ESH4",
						Intervals: []dbn.MappingInterval{
							{StartDate: 20240101, EndDate: 20240201, Symbol: "15144"},
						},
					},
				},
			}
			m := dbn.NewInstrumentMap()
			Expect(m.InsertMetadata(meta)).To(Succeed())
			Expect(m.IsEmpty()).To(BeFalse())

			sym, ok := m.Resolve(15144, 20240115)
			Expect(ok).To(BeTrue())
			Expect(sym).To(Equal("ESH4"))

			_, ok = m.Resolve(15144, 20240301)
			Expect(ok).To(BeFalse())
		})

		It("swaps roles for an inverse mapping (stype_in == instrument_id)", func() {
			meta := &dbn.Metadata{
				StypeIn:  dbn.SType_InstrumentId,
				StypeOut: dbn.SType_RawSymbol,
				Mappings: []dbn.SymbolMapping{
					{
						RawSymbol: "15144",
						Intervals: []dbn.MappingInterval{
							{StartDate: 20240101, EndDate: 20240201, Symbol: "ESH4"},
						},
					},
				},
			}
			m := dbn.NewInstrumentMap()
			Expect(m.InsertMetadata(meta)).To(Succeed())

			sym, ok := m.Resolve(15144, 20240115)
			Expect(ok).To(BeTrue())
			Expect(sym).To(Equal("ESH4"))
		})

		It("skips duplicate intervals", func() {
			interval := dbn.MappingInterval{StartDate: 20240101, EndDate: 20240201, Symbol: "15144"}
			meta := &dbn.Metadata{
				StypeIn:  dbn.SType_RawSymbol,
				StypeOut: dbn.SType_InstrumentId,
				Mappings: []dbn.SymbolMapping{
					{RawSymbol: "ESH4", Intervals: []dbn.MappingInterval{interval, interval}},
				},
			}
			m := dbn.NewInstrumentMap()
			Expect(m.InsertMetadata(meta)).To(Succeed())
			// Only one of the two identical intervals should have been kept; Resolve
			// still finds exactly one match either way, so assert indirectly via Len
			// semantics is not exposed -- re-insert and confirm resolve is unaffected.
			Expect(m.InsertMetadata(meta)).To(Succeed())
			sym, ok := m.Resolve(15144, 20240115)
			Expect(ok).To(BeTrue())
			Expect(sym).To(Equal("ESH4"))
		})
	})

	Context("InsertSymbolMapping", func() {
		It("appends an interval from a streamed mapping record", func() {
			msg := &dbn.SymbolMappingMsg{
				Header:         dbn.RHeader{InstrumentID: 15144},
				StypeOutSymbol: "ESH4",
				StartTs:        ymdNanos(20240101),
				EndTs:          ymdNanos(20240201),
			}
			m := dbn.NewInstrumentMap()
			Expect(m.InsertSymbolMapping(msg)).To(Succeed())

			sym, ok := m.Resolve(15144, 20240115)
			Expect(ok).To(BeTrue())
			Expect(sym).To(Equal("ESH4"))
		})
	})

	Context("InsertJson", func() {
		It("resolves when stype_out is instrument_id", func() {
			data := []byte(`{
				"result": {"ESH4": [{"d0":"2024-01-01","d1":"2024-02-01","s":"15144"}]},
				"stype_in": "raw_symbol",
				"stype_out": "instrument_id"
			}`)
			m := dbn.NewInstrumentMap()
			Expect(m.InsertJson(data)).To(Succeed())
			sym, ok := m.Resolve(15144, 20240115)
			Expect(ok).To(BeTrue())
			Expect(sym).To(Equal("ESH4"))
		})

		It("fails when neither side is instrument_id", func() {
			data := []byte(`{
				"result": {"ESH4": [{"d0":"2024-01-01","d1":"2024-02-01","s":"ES.FUT"}]},
				"stype_in": "raw_symbol",
				"stype_out": "parent"
			}`)
			m := dbn.NewInstrumentMap()
			err := m.InsertJson(data)
			Expect(err).To(HaveOccurred())
			var mappingErr *dbn.InvalidMappingError
			Expect(err).To(BeAssignableToTypeOf(mappingErr))
		})
	})
})
