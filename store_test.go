package dbn_test

import (
	"bytes"
	"os"
	"path/filepath"

	dbn "github.com/databento/dbn-go"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func writeDbnFile(dir string, name string, schema dbn.Schema, records func(*bytes.Buffer)) string {
	var buf bytes.Buffer
	buf.Write(newMinimalMetadataBytes(dbn.DBN_VERSION, schema))
	records(&buf)

	path := filepath.Join(dir, name)
	Expect(os.WriteFile(path, buf.Bytes(), 0o644)).To(Succeed())
	return path
}

var _ = Describe("DBNStore", func() {
	It("returns ErrNotFound for a missing file", func() {
		_, err := dbn.OpenDBNStore(filepath.Join(GinkgoT().TempDir(), "nope.dbn"), false)
		Expect(err).To(Equal(dbn.ErrNotFound))
	})

	It("exposes Metadata and Schema after opening", func() {
		dir := GinkgoT().TempDir()
		path := writeDbnFile(dir, "trades.dbn", dbn.Schema_Trades, func(buf *bytes.Buffer) {
			writeMbp0Raw(buf, 15144, 476370000000, 1)
		})

		store, err := dbn.OpenDBNStore(path, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(store.Metadata()).NotTo(BeNil())

		schema, ok := store.Schema()
		Expect(ok).To(BeTrue())
		Expect(schema).To(Equal(dbn.Schema_Trades))
	})

	It("iterates every record through a Visitor", func() {
		dir := GinkgoT().TempDir()
		path := writeDbnFile(dir, "trades.dbn", dbn.Schema_Trades, func(buf *bytes.Buffer) {
			writeMbp0Raw(buf, 15144, 476370000000, 1)
			writeMbp0Raw(buf, 15144, 476380000000, 2)
		})

		store, err := dbn.OpenDBNStore(path, false)
		Expect(err).NotTo(HaveOccurred())

		seen := 0
		visitor := &countingVisitor{onMbp0: func(r *dbn.Mbp0Msg) error {
			seen++
			return nil
		}}
		Expect(store.Iter(visitor)).To(Succeed())
		Expect(seen).To(Equal(2))
	})

	It("round-trips through RawReader and WriteDbn", func() {
		dir := GinkgoT().TempDir()
		path := writeDbnFile(dir, "trades.dbn", dbn.Schema_Trades, func(buf *bytes.Buffer) {
			writeMbp0Raw(buf, 15144, 476370000000, 1)
		})

		store, err := dbn.OpenDBNStore(path, false)
		Expect(err).NotTo(HaveOccurred())

		orig, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())

		destPath := filepath.Join(dir, "copy.dbn")
		Expect(store.WriteDbn(destPath)).To(Succeed())

		copied, err := os.ReadFile(destPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(copied).To(Equal(orig))
	})

	It("streams decoded records past the Metadata prologue via DecodedReader", func() {
		dir := GinkgoT().TempDir()
		path := writeDbnFile(dir, "trades.dbn", dbn.Schema_Trades, func(buf *bytes.Buffer) {
			writeMbp0Raw(buf, 15144, 476370000000, 1)
		})

		store, err := dbn.OpenDBNStore(path, false)
		Expect(err).NotTo(HaveOccurred())

		reader, closer, err := store.DecodedReader()
		Expect(err).NotTo(HaveOccurred())
		defer closer.Close()

		scanner := dbn.NewDbnScanner(reader)
		Expect(scanner.Next()).To(BeTrue())
	})

	It("exports CSV with a header and one row per record", func() {
		dir := GinkgoT().TempDir()
		path := writeDbnFile(dir, "trades.dbn", dbn.Schema_Trades, func(buf *bytes.Buffer) {
			writeMbp0Raw(buf, 15144, 476370000000, 1)
			writeMbp0Raw(buf, 15144, 476380000000, 2)
		})

		store, err := dbn.OpenDBNStore(path, false)
		Expect(err).NotTo(HaveOccurred())

		var out bytes.Buffer
		Expect(store.ToCSV(&out, dbn.PriceType_Float, false, false)).To(Succeed())

		lines := bytes.Split(bytes.TrimRight(out.Bytes(), "\n"), []byte("\n"))
		Expect(len(lines)).To(Equal(3)) // header + 2 records
	})

	It("exports newline-delimited JSON with one object per record", func() {
		dir := GinkgoT().TempDir()
		path := writeDbnFile(dir, "trades.dbn", dbn.Schema_Trades, func(buf *bytes.Buffer) {
			writeMbp0Raw(buf, 15144, 476370000000, 1)
		})

		store, err := dbn.OpenDBNStore(path, false)
		Expect(err).NotTo(HaveOccurred())

		var out bytes.Buffer
		Expect(store.ToJSON(&out, dbn.PriceType_Float, false, false)).To(Succeed())

		lines := bytes.Split(bytes.TrimRight(out.Bytes(), "\n"), []byte("\n"))
		Expect(lines).To(HaveLen(1))
		Expect(lines[0]).To(ContainSubstring("\"price\""))
	})
})
