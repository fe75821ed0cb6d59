package dbn_test

import (
	"bytes"

	"github.com/apache/arrow-go/v18/arrow"
	dbn "github.com/databento/dbn-go"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("DBNStore arrow projections", func() {
	It("yields one batch with a row per record via ToNdarray", func() {
		dir := GinkgoT().TempDir()
		path := writeDbnFile(dir, "trades.dbn", dbn.Schema_Trades, func(buf *bytes.Buffer) {
			writeMbp0Raw(buf, 15144, 476370000000, 1)
			writeMbp0Raw(buf, 15144, 476380000000, 2)
		})

		store, err := dbn.OpenDBNStore(path, false)
		Expect(err).NotTo(HaveOccurred())

		var batches []arrow.Record
		err = store.ToNdarray(dbn.Schema_Trades, 0, func(rec arrow.Record) error {
			rec.Retain()
			batches = append(batches, rec)
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
		defer func() {
			for _, b := range batches {
				b.Release()
			}
		}()

		Expect(batches).To(HaveLen(1))
		Expect(batches[0].NumRows()).To(Equal(int64(2)))
		Expect(batches[0].ColumnName(0)).To(Equal("ts_event"))
		Expect(batches[0].ColumnName(1)).To(Equal("instrument_id"))
	})

	It("splits into multiple batches when count bounds each batch", func() {
		dir := GinkgoT().TempDir()
		path := writeDbnFile(dir, "trades.dbn", dbn.Schema_Trades, func(buf *bytes.Buffer) {
			writeMbp0Raw(buf, 15144, 476370000000, 1)
			writeMbp0Raw(buf, 15144, 476380000000, 2)
			writeMbp0Raw(buf, 15144, 476390000000, 3)
		})

		store, err := dbn.OpenDBNStore(path, false)
		Expect(err).NotTo(HaveOccurred())

		var rowCounts []int64
		err = store.ToNdarray(dbn.Schema_Trades, 2, func(rec arrow.Record) error {
			rowCounts = append(rowCounts, rec.NumRows())
			rec.Release()
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(rowCounts).To(Equal([]int64{2, 1}))
	})

	It("adds a resolved symbol column via ToDataFrame when mapSymbols is set", func() {
		dir := GinkgoT().TempDir()
		path := writeDbnFile(dir, "trades.dbn", dbn.Schema_Trades, func(buf *bytes.Buffer) {
			writeMbp0Raw(buf, 15144, 476370000000, 1)
		})

		store, err := dbn.OpenDBNStore(path, false)
		Expect(err).NotTo(HaveOccurred())

		var schema *arrow.Schema
		err = store.ToDataFrame(dbn.Schema_Trades, dbn.PriceType_Float, true, true, 0, func(rec arrow.Record) error {
			schema = rec.Schema()
			rec.Release()
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(schema).NotTo(BeNil())

		found := false
		for _, f := range schema.Fields() {
			if f.Name == "symbol" {
				found = true
			}
		}
		Expect(found).To(BeTrue())
	})

	It("rejects a schema with no ndarray projection", func() {
		dir := GinkgoT().TempDir()
		path := writeDbnFile(dir, "trades.dbn", dbn.Schema_Trades, func(buf *bytes.Buffer) {
			writeMbp0Raw(buf, 15144, 476370000000, 1)
		})

		store, err := dbn.OpenDBNStore(path, false)
		Expect(err).NotTo(HaveOccurred())

		err = store.ToNdarray(dbn.Schema_Mixed, 0, func(rec arrow.Record) error {
			return nil
		})
		Expect(err).To(HaveOccurred())
	})
})
