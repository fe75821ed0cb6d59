package dbn_test

import (
	"strings"

	dbn "github.com/databento/dbn-go"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("JsonScanner", func() {
	Context("json records", func() {
		It("should read a JSONL stream of Ohlcv records correctly", func() {
			jsonl := `{"hd":{"ts_event":"1609160400000000000","rtype":32,"publisher_id":1,"instrument_id":5482},"open":"372025000000000","high":"372050000000000","low":"372025000000000","close":"372050000000000","volume":"57"}
{"hd":{"ts_event":"1609160401000000000","rtype":32,"publisher_id":1,"instrument_id":5482},"open":"372050000000000","high":"372050000000000","low":"372050000000000","close":"372050000000000","volume":"13"}
`
			records, err := dbn.ReadJsonToSlice[dbn.OhlcvMsg](strings.NewReader(jsonl))
			Expect(err).To(BeNil())
			Expect(len(records)).To(Equal(2))

			r0, r0h := records[0], records[0].Header
			Expect(r0h.TsEvent).To(Equal(uint64(1609160400000000000)))
			Expect(r0h.RType).To(Equal(dbn.RType(32)))
			Expect(r0h.PublisherID).To(Equal(uint16(1)))
			Expect(r0h.InstrumentID).To(Equal(uint32(5482)))
			Expect(r0.Open).To(Equal(int64(372025000000000)))
			Expect(r0.High).To(Equal(int64(372050000000000)))
			Expect(r0.Low).To(Equal(int64(372025000000000)))
			Expect(r0.Close).To(Equal(int64(372050000000000)))
			Expect(r0.Volume).To(Equal(uint64(57)))

			r1, r1h := records[1], records[1].Header
			Expect(r1h.TsEvent).To(Equal(uint64(1609160401000000000)))
			Expect(r1h.RType).To(Equal(dbn.RType(32)))
			Expect(r1.Close).To(Equal(int64(372050000000000)))
			Expect(r1.Volume).To(Equal(uint64(13)))
		})

		It("dispatches records through the Visitor interface", func() {
			jsonl := `{"hd":{"ts_event":"1704186000000000000","rtype":0,"publisher_id":2,"instrument_id":15144},"ts_recv":"1704186000000100000","price":"476370000000","size":40,"action":"T","side":"B","flags":0,"depth":0,"ts_in_delta":167146,"sequence":277449}
`
			scanner := dbn.NewJsonScanner(strings.NewReader(jsonl))
			Expect(scanner.Next()).To(BeTrue())

			seen := 0
			visitor := &countingVisitor{onMbp0: func(r *dbn.Mbp0Msg) error {
				seen++
				Expect(r.Price).To(Equal(int64(476370000000)))
				Expect(r.Sequence).To(Equal(uint32(277449)))
				return nil
			}}
			Expect(scanner.Visit(visitor)).To(Succeed())
			Expect(seen).To(Equal(1))
		})
	})
})
