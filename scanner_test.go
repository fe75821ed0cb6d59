package dbn_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	dbn "github.com/databento/dbn-go"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// Test Launcher
func TestDbn(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "dbn-go suite")
}

// writeMbp0Raw appends one raw Mbp0Msg record (length-prefixed in 32-bit
// words, per spec §3) to buf.
func writeMbp0Raw(buf *bytes.Buffer, instrumentID uint32, price int64, sequence uint32) {
	var body bytes.Buffer
	// RHeader
	binary.Write(&body, binary.LittleEndian, uint8(dbn.Mbp0Msg_Size/4)) // Length in words
	binary.Write(&body, binary.LittleEndian, uint8(dbn.RType_Mbp0))
	binary.Write(&body, binary.LittleEndian, uint16(2))            // PublisherID
	binary.Write(&body, binary.LittleEndian, instrumentID)         // InstrumentID
	binary.Write(&body, binary.LittleEndian, uint64(1704186000000000000)) // TsEvent
	// Mbp0Msg body
	binary.Write(&body, binary.LittleEndian, uint64(1704186000000100000)) // TsRecv
	binary.Write(&body, binary.LittleEndian, uint64(price))
	binary.Write(&body, binary.LittleEndian, uint32(40)) // Size
	binary.Write(&body, binary.LittleEndian, uint8(dbn.Action_Trade))
	binary.Write(&body, binary.LittleEndian, uint8(dbn.Side_Bid))
	binary.Write(&body, binary.LittleEndian, uint8(0)) // Flags
	binary.Write(&body, binary.LittleEndian, uint8(0)) // Depth
	binary.Write(&body, binary.LittleEndian, int32(167146)) // TsInDelta
	binary.Write(&body, binary.LittleEndian, sequence)
	buf.Write(body.Bytes())
}

func newMinimalMetadataBytes(version uint8, schema dbn.Schema) []byte {
	m := dbn.Metadata{
		VersionNum: version,
		Dataset:    "XNAS.ITCH",
		Schema:     schema,
		Start:      1704186000000000000,
		End:        dbn.UNDEF_TIMESTAMP,
		StypeIn:    dbn.SType_RawSymbol,
		StypeOut:   dbn.SType_InstrumentId,
	}
	var buf bytes.Buffer
	Expect(m.Write(&buf)).To(Succeed())
	return buf.Bytes()
}

var _ = Describe("DbnScanner", func() {
	Context("raw Mbp0Msg stream", func() {
		It("decodes metadata and records, fixing the Sequence-offset bug", func() {
			var buf bytes.Buffer
			buf.Write(newMinimalMetadataBytes(dbn.DBN_VERSION, dbn.Schema_Trades))
			writeMbp0Raw(&buf, 15144, 476370000000, 277449)
			writeMbp0Raw(&buf, 15144, 476380000000, 277450)

			records, metadata, err := dbn.ReadDBNToSlice[dbn.Mbp0Msg](bytes.NewReader(buf.Bytes()))
			Expect(err).To(BeNil())
			Expect(metadata).ToNot(BeNil())
			Expect(metadata.Schema).To(Equal(dbn.Schema_Trades))
			Expect(records).To(HaveLen(2))
			Expect(records[0].Price).To(Equal(int64(476370000000)))
			Expect(records[0].Sequence).To(Equal(uint32(277449)))
			Expect(records[1].Sequence).To(Equal(uint32(277450)))
		})

		It("dispatches through the Visitor interface", func() {
			var buf bytes.Buffer
			buf.Write(newMinimalMetadataBytes(dbn.DBN_VERSION, dbn.Schema_Trades))
			writeMbp0Raw(&buf, 15144, 476370000000, 1)

			scanner := dbn.NewDbnScanner(bytes.NewReader(buf.Bytes()))
			Expect(scanner.Next()).To(BeTrue())

			seen := 0
			visitor := &countingVisitor{onMbp0: func(r *dbn.Mbp0Msg) error {
				seen++
				Expect(r.Sequence).To(Equal(uint32(1)))
				return nil
			}}
			Expect(scanner.Visit(visitor)).To(Succeed())
			Expect(seen).To(Equal(1))
		})
	})
})

// countingVisitor is a minimal dbn.Visitor used only to assert dispatch in tests.
type countingVisitor struct {
	dbn.NullVisitor
	onMbp0 func(*dbn.Mbp0Msg) error
}

func (v *countingVisitor) OnMbp0(r *dbn.Mbp0Msg) error {
	if v.onMbp0 != nil {
		return v.onMbp0(r)
	}
	return nil
}
