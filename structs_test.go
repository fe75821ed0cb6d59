package dbn_test

import (
	"bytes"
	"encoding/binary"

	dbn "github.com/databento/dbn-go"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// Test launcher lives in scanner_test.go (TestDbn); ginkgo registers all
// Describe/Context blocks across the package into that single suite run.

///////////////////////////////////////////////////////////////////////////////
// Helpers to synthesize raw record bytes directly, without relying on
// external .dbn fixture files (none ship in this repo).

func writeRHeader(body *bytes.Buffer, length uint8, rtype dbn.RType, publisherID uint16, instrumentID uint32, tsEvent uint64) {
	binary.Write(body, binary.LittleEndian, length)
	binary.Write(body, binary.LittleEndian, uint8(rtype))
	binary.Write(body, binary.LittleEndian, publisherID)
	binary.Write(body, binary.LittleEndian, instrumentID)
	binary.Write(body, binary.LittleEndian, tsEvent)
}

func writeBidAskPair(body *bytes.Buffer, bidPx, askPx int64, bidSz, askSz, bidCt, askCt uint32) {
	binary.Write(body, binary.LittleEndian, bidPx)
	binary.Write(body, binary.LittleEndian, askPx)
	binary.Write(body, binary.LittleEndian, bidSz)
	binary.Write(body, binary.LittleEndian, askSz)
	binary.Write(body, binary.LittleEndian, bidCt)
	binary.Write(body, binary.LittleEndian, askCt)
}

var _ = Describe("Record structs", func() {
	Context("Mbp1Msg", func() {
		It("decodes the single top-of-book level", func() {
			var body bytes.Buffer
			writeRHeader(&body, uint8(dbn.Mbp1Msg_Size/4), dbn.RType_Mbp1, 2, 15144, 1704186000000000000)
			binary.Write(&body, binary.LittleEndian, uint64(1704186000000100000)) // TsRecv
			binary.Write(&body, binary.LittleEndian, int64(3720250000000))        // Price
			binary.Write(&body, binary.LittleEndian, uint32(24))                  // Size
			binary.Write(&body, binary.LittleEndian, uint8(dbn.Action_Trade))
			binary.Write(&body, binary.LittleEndian, uint8(dbn.Side_Bid))
			binary.Write(&body, binary.LittleEndian, uint8(0)) // Flags
			binary.Write(&body, binary.LittleEndian, uint8(0)) // Depth
			binary.Write(&body, binary.LittleEndian, int32(167146))
			binary.Write(&body, binary.LittleEndian, uint32(1))
			writeBidAskPair(&body, 3720250000000, 3720500000000, 24, 11, 15, 9)

			var r dbn.Mbp1Msg
			Expect(r.Fill_Raw(body.Bytes())).To(Succeed())
			Expect(r.Level.BidPx).To(Equal(int64(3720250000000)))
			Expect(r.Level.AskPx).To(Equal(int64(3720500000000)))
			Expect(r.Level.BidSize).To(Equal(uint32(24)))
			Expect(r.Level.AskSize).To(Equal(uint32(11)))
			Expect(r.Level.BidCt).To(Equal(uint32(15)))
			Expect(r.Level.AskCt).To(Equal(uint32(9)))
		})
	})

	Context("Mbp10Msg", func() {
		It("decodes all 10 book levels in order", func() {
			var body bytes.Buffer
			writeRHeader(&body, uint8(dbn.Mbp10Msg_Size/4), dbn.RType_Mbp10, 2, 15144, 1704186000000000000)
			binary.Write(&body, binary.LittleEndian, uint64(1704186000000100000))
			binary.Write(&body, binary.LittleEndian, int64(3720250000000))
			binary.Write(&body, binary.LittleEndian, uint32(24))
			binary.Write(&body, binary.LittleEndian, uint8(dbn.Action_Add))
			binary.Write(&body, binary.LittleEndian, uint8(dbn.Side_Ask))
			binary.Write(&body, binary.LittleEndian, uint8(0))
			binary.Write(&body, binary.LittleEndian, uint8(0))
			binary.Write(&body, binary.LittleEndian, int32(0))
			binary.Write(&body, binary.LittleEndian, uint32(5))
			for i := 0; i < 10; i++ {
				writeBidAskPair(&body, int64(1000+i), int64(2000+i), uint32(i), uint32(i+1), uint32(i+2), uint32(i+3))
			}

			var r dbn.Mbp10Msg
			Expect(r.Fill_Raw(body.Bytes())).To(Succeed())
			Expect(r.Action).To(Equal(dbn.Action_Add))
			for i := 0; i < 10; i++ {
				Expect(r.Levels[i].BidPx).To(Equal(int64(1000 + i)))
				Expect(r.Levels[i].AskPx).To(Equal(int64(2000 + i)))
			}
		})
	})

	Context("MboMsg", func() {
		It("decodes order-level fields", func() {
			var body bytes.Buffer
			writeRHeader(&body, uint8(dbn.MboMsg_Size/4), dbn.RType_Mbo, 2, 15144, 1704186000000000000)
			binary.Write(&body, binary.LittleEndian, uint64(98765)) // OrderID
			binary.Write(&body, binary.LittleEndian, int64(3720250000000))
			binary.Write(&body, binary.LittleEndian, uint32(10))
			binary.Write(&body, binary.LittleEndian, uint8(0)) // Flags
			binary.Write(&body, binary.LittleEndian, uint8(1)) // ChannelID
			binary.Write(&body, binary.LittleEndian, uint8(dbn.Action_Cancel))
			binary.Write(&body, binary.LittleEndian, uint8(dbn.Side_Bid))
			binary.Write(&body, binary.LittleEndian, uint64(1704186000000100000))
			binary.Write(&body, binary.LittleEndian, int32(1200))
			binary.Write(&body, binary.LittleEndian, uint32(42))

			var r dbn.MboMsg
			Expect(r.Fill_Raw(body.Bytes())).To(Succeed())
			Expect(r.OrderID).To(Equal(uint64(98765)))
			Expect(r.ChannelID).To(Equal(uint8(1)))
			Expect(r.Action).To(Equal(dbn.Action_Cancel))
			Expect(r.Sequence).To(Equal(uint32(42)))
		})
	})

	Context("OhlcvMsg", func() {
		It("reports the header's RType rather than a fixed cadence", func() {
			var body bytes.Buffer
			writeRHeader(&body, uint8(dbn.OhlcvMsg_Size/4), dbn.RType_Ohlcv1S, 2, 15144, 1704186000000000000)
			binary.Write(&body, binary.LittleEndian, int64(472600000000)) // Open
			binary.Write(&body, binary.LittleEndian, int64(472700000000)) // High
			binary.Write(&body, binary.LittleEndian, int64(472500000000)) // Low
			binary.Write(&body, binary.LittleEndian, int64(472650000000)) // Close
			binary.Write(&body, binary.LittleEndian, uint64(300))         // Volume

			var r dbn.OhlcvMsg
			Expect(r.Fill_Raw(body.Bytes())).To(Succeed())
			Expect(r.Header.RType).To(Equal(dbn.RType_Ohlcv1S))
			Expect(r.Volume).To(Equal(uint64(300)))
		})
	})

	Context("ImbalanceMsg", func() {
		It("decodes auction-imbalance fields", func() {
			var body bytes.Buffer
			writeRHeader(&body, uint8(dbn.ImbalanceMsg_Size/4), dbn.RType_Imbalance, 2, 17598, 1711027500000776211)
			binary.Write(&body, binary.LittleEndian, uint64(1711027500000942123)) // TsRecv
			binary.Write(&body, binary.LittleEndian, int64(0))                    // RefPrice
			binary.Write(&body, binary.LittleEndian, uint64(0))                   // AuctionTime
			binary.Write(&body, binary.LittleEndian, int64(0))                    // ContBookClrPrice
			binary.Write(&body, binary.LittleEndian, int64(0))                    // AuctInterestClrPrice
			binary.Write(&body, binary.LittleEndian, int64(0))                    // SsrFillingPrice
			binary.Write(&body, binary.LittleEndian, int64(0))                    // IndMatchPrice
			binary.Write(&body, binary.LittleEndian, int64(0))                    // UpperCollar
			binary.Write(&body, binary.LittleEndian, int64(0))                    // LowerCollar
			binary.Write(&body, binary.LittleEndian, uint32(0))                   // PairedQty
			binary.Write(&body, binary.LittleEndian, uint32(0))                   // TotalImbalanceQty
			binary.Write(&body, binary.LittleEndian, uint32(0))                   // MarketImbalanceQty
			binary.Write(&body, binary.LittleEndian, int32(0))                    // UnpairedQty
			binary.Write(&body, binary.LittleEndian, uint8('O'))                  // AuctionType
			binary.Write(&body, binary.LittleEndian, uint8('N'))                  // Side
			binary.Write(&body, binary.LittleEndian, uint8(0))                    // AuctionStatus
			binary.Write(&body, binary.LittleEndian, uint8(0))                    // FreezeStatus
			binary.Write(&body, binary.LittleEndian, uint8(0))                    // NumExtensions
			binary.Write(&body, binary.LittleEndian, uint8('N'))                  // UnpairedSide
			binary.Write(&body, binary.LittleEndian, uint8('~'))                  // SignificantImbalance
			binary.Write(&body, binary.LittleEndian, uint8(0))                    // Reserved

			var r dbn.ImbalanceMsg
			Expect(r.Fill_Raw(body.Bytes())).To(Succeed())
			Expect(r.AuctionType).To(Equal(uint8('O')))
			Expect(string(r.UnpairedSide)).To(Equal("N"))
			Expect(string(r.SignificantImbalance)).To(Equal("~"))
		})
	})

	Context("StatMsg", func() {
		It("decodes publisher-disseminated statistics", func() {
			var body bytes.Buffer
			writeRHeader(&body, uint8(dbn.StatMsg_Size/4), dbn.RType_Statistics, 2, 15144, 1704186000000000000)
			binary.Write(&body, binary.LittleEndian, uint64(1704186000000100000)) // TsRecv
			binary.Write(&body, binary.LittleEndian, uint64(1704153600000000000)) // TsRef
			binary.Write(&body, binary.LittleEndian, int64(472600000000))         // Price
			binary.Write(&body, binary.LittleEndian, int32(100))                  // Quantity
			binary.Write(&body, binary.LittleEndian, uint32(7))                   // Sequence
			binary.Write(&body, binary.LittleEndian, int32(0))                    // TsInDelta
			binary.Write(&body, binary.LittleEndian, uint16(dbn.StatType_OpeningPrice))
			binary.Write(&body, binary.LittleEndian, uint16(1)) // ChannelID
			binary.Write(&body, binary.LittleEndian, uint8(dbn.StatUpdateAction_New))
			binary.Write(&body, binary.LittleEndian, uint8(0)) // StatFlags
			for body.Len() < dbn.StatMsg_Size {
				binary.Write(&body, binary.LittleEndian, uint8(0))
			}

			var r dbn.StatMsg
			Expect(r.Fill_Raw(body.Bytes())).To(Succeed())
			Expect(r.Quantity).To(Equal(int32(100)))
			Expect(r.StatType).To(Equal(dbn.StatType_OpeningPrice))
			Expect(r.UpdateAction).To(Equal(dbn.StatUpdateAction_New))
		})
	})

	Context("StatusMsg", func() {
		It("decodes a trading-status update", func() {
			var body bytes.Buffer
			writeRHeader(&body, uint8(dbn.StatusMsg_Size/4), dbn.RType_Status, 2, 15144, 1704186000000000000)
			binary.Write(&body, binary.LittleEndian, uint64(1704186000000100000))
			binary.Write(&body, binary.LittleEndian, uint16(dbn.StatusAction_Trading))
			binary.Write(&body, binary.LittleEndian, uint16(dbn.StatusReason_Scheduled))
			binary.Write(&body, binary.LittleEndian, uint16(dbn.TradingEvent_None))
			binary.Write(&body, binary.LittleEndian, uint8('Y')) // IsTrading
			binary.Write(&body, binary.LittleEndian, uint8('Y')) // IsQuoting
			binary.Write(&body, binary.LittleEndian, uint8('N')) // IsShortSellRestricted
			for body.Len() < dbn.StatusMsg_Size {
				binary.Write(&body, binary.LittleEndian, uint8(0))
			}

			var r dbn.StatusMsg
			Expect(r.Fill_Raw(body.Bytes())).To(Succeed())
			Expect(r.Action).To(Equal(dbn.StatusAction_Trading))
			Expect(string(r.IsTrading)).To(Equal("Y"))
			Expect(string(r.IsShortSellRestricted)).To(Equal("N"))
		})
	})

	Context("ErrorMsg and SystemMsg", func() {
		It("carry gateway control-plane text", func() {
			var errMsg dbn.ErrorMsg
			errMsg.Header = dbn.RHeader{RType: dbn.RType_Error, PublisherID: 1, InstrumentID: 0, TsEvent: 1704186000000000000}
			errMsg.Err = "auth failed"
			errMsg.Code = 1
			Expect(errMsg.Err).To(Equal("auth failed"))

			var sysMsg dbn.SystemMsg
			sysMsg.Msg = "Heartbeat"
			Expect(sysMsg.IsHeartbeat()).To(BeTrue())
			sysMsg.Msg = "subscribed"
			Expect(sysMsg.IsHeartbeat()).To(BeFalse())
		})
	})
})
