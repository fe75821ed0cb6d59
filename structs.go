// Copyright (c) 2024 Neomantra Corp
//
// DBN File Layout:
//   https://databento.com/docs/knowledge-base/new-users/dbn-encoding/layout
//
// Schemas:
//   https://databento.com/docs/knowledge-base/new-users/fields-by-schema/
//
// Adapted from DataBento's DBN:
//   https://github.com/databento/dbn/blob/194d9006155c684e172f71fd8e66ddeb6eae092e/rust/dbn/src/record.rs
//
// DBN encoding is little-endian.
//
// NOTE: The field metadata do not round-trip between DBN <> JSON.
// This is because DBN encodes uint64 as strings over JSON, while the field
// annotations know them as uint64.
//

package dbn

import (
	"encoding/binary"

	"github.com/valyala/fastjson"
	"github.com/valyala/fastjson/fastfloat"
)

///////////////////////////////////////////////////////////////////////////////

// Record is the marker interface implemented by every DBN record body.
type Record interface {
}

// RecordPtr constrains a pointer-to-T to implement the decode methods needed
// by the generic scanner functions (DbnScannerDecode, ReadDBNToSlice, ...).
type RecordPtr[T any] interface {
	*T     // constrain to T or its pointer
	Record // T must implement Record

	RType() RType
	RSize() uint8
	Fill_Raw([]byte) error
	Fill_Json(val *fastjson.Value, header *RHeader) error
}

// fastjson_GetInt64FromString decodes a fastjson.Value string field as an int64.
// DBN's JSON encoding represents 64-bit integers as strings to avoid precision
// loss in JS number parsing.
func fastjson_GetInt64FromString(val *fastjson.Value, key string) int64 {
	return fastfloat.ParseInt64BestEffort(string(val.GetStringBytes(key)))
}

// fastjson_GetUint64FromString decodes a fastjson.Value string field as a uint64.
func fastjson_GetUint64FromString(val *fastjson.Value, key string) uint64 {
	return fastfloat.ParseUint64BestEffort(string(val.GetStringBytes(key)))
}

func (rtype RType) IsCompatibleWith(rtype2 RType) bool {
	if rtype == rtype2 {
		return true
	}
	return rtype.IsCandle() && rtype2.IsCandle()
}

func (rtype RType) IsCandle() bool {
	switch rtype {
	case RType_Ohlcv1S, RType_Ohlcv1M, RType_Ohlcv1H, RType_Ohlcv1D, RType_OhlcvEod, RType_OhlcvDeprecated:
		return true
	default:
		return false
	}
}

///////////////////////////////////////////////////////////////////////////////

// RHeader is the fixed header at the start of every DBN record (spec §3).
// {"ts_event":"1704186000403918695","rtype":0,"publisher_id":2,"instrument_id":15144}
type RHeader struct {
	Length       uint8  `json:"len,omitempty"`                     // The length of the record in 32-bit words.
	RType        RType  `json:"rtype" csv:"rtype"`                 // Sentinel values for different DBN record types.
	PublisherID  uint16 `json:"publisher_id" csv:"publisher_id"`   // The publisher ID assigned by Databento, which denotes the dataset and venue.
	InstrumentID uint32 `json:"instrument_id" csv:"instrument_id"` // The numeric instrument ID.
	TsEvent      uint64 `json:"ts_event" csv:"ts_event"`           // The matching-engine-received timestamp, ns since the UNIX epoch.
}

const RHeader_Size = 16

func (h *RHeader) RSize() uint8 {
	return RHeader_Size
}

func (h *RHeader) Fill_Raw(b []byte) error {
	return FillRHeader_Raw(b, h)
}

func (h *RHeader) Fill_Json(val *fastjson.Value) error {
	return FillRHeader_Json(val, h)
}

func FillRHeader_Raw(b []byte, h *RHeader) error {
	if len(b) < RHeader_Size {
		return unexpectedBytesError(len(b), RHeader_Size)
	}
	h.Length = b[0]
	h.RType = RType(b[1])
	h.PublisherID = binary.LittleEndian.Uint16(b[2:4])
	h.InstrumentID = binary.LittleEndian.Uint32(b[4:8])
	h.TsEvent = binary.LittleEndian.Uint64(b[8:16])
	return nil
}

func FillRHeader_Json(val *fastjson.Value, h *RHeader) error {
	h.TsEvent = fastjson_GetUint64FromString(val, "ts_event")
	h.PublisherID = uint16(val.GetUint("publisher_id"))
	h.InstrumentID = uint32(val.GetUint("instrument_id"))
	h.RType = RType(val.GetUint("rtype"))
	return nil
}

///////////////////////////////////////////////////////////////////////////////

// Mbp0Msg is the Trades schema record: a market-by-price record with book
// depth 0 — one row per trade, no book levels.
// {"ts_recv":"1704186000404085841","hd":{"ts_event":"1704186000403918695","rtype":0,"publisher_id":2,"instrument_id":15144},"action":"T","side":"B","depth":0,"price":"476370000000","size":40,"flags":130,"ts_in_delta":167146,"sequence":277449,"symbol":"SPY"}
type Mbp0Msg struct {
	Header    RHeader `json:"hd" csv:"hd"`                   // The record header.
	TsRecv    uint64  `json:"ts_recv" csv:"ts_recv"`         // The capture-server-received timestamp, ns since the UNIX epoch.
	Price     int64   `json:"price" csv:"price"`             // The order price, scale 1e-9.
	Size      uint32  `json:"size" csv:"size"`               // The order quantity.
	Action    Action  `json:"action" csv:"action"`           // Always Action_Trade in the Trades schema.
	Side      Side    `json:"side" csv:"side"`                // The aggressor side, or Side_None.
	Flags     uint8   `json:"flags" csv:"flags"`             // See RFlag_* bits.
	Depth     uint8   `json:"depth" csv:"depth"`             // The book level where the update event occurred.
	TsInDelta int32   `json:"ts_in_delta" csv:"ts_in_delta"` // Matching-engine-sending timestamp, ns before ts_recv.
	Sequence  uint32  `json:"sequence" csv:"sequence"`       // The message sequence number assigned at the venue.
}

const Mbp0Msg_Size = RHeader_Size + 32

func (*Mbp0Msg) RType() RType {
	return RType_Mbp0
}

func (*Mbp0Msg) RSize() uint8 {
	return Mbp0Msg_Size
}

func (r *Mbp0Msg) Fill_Raw(b []byte) error {
	if len(b) < Mbp0Msg_Size {
		return unexpectedBytesError(len(b), Mbp0Msg_Size)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.TsRecv = binary.LittleEndian.Uint64(body[0:8])
	r.Price = int64(binary.LittleEndian.Uint64(body[8:16]))
	r.Size = binary.LittleEndian.Uint32(body[16:20])
	r.Action = Action(body[20])
	r.Side = Side(body[21])
	r.Flags = body[22]
	r.Depth = body[23]
	r.TsInDelta = int32(binary.LittleEndian.Uint32(body[24:28]))
	r.Sequence = binary.LittleEndian.Uint32(body[28:32])
	return nil
}

func (r *Mbp0Msg) Fill_Json(val *fastjson.Value, header *RHeader) error {
	r.Header = *header
	r.TsRecv = fastjson_GetUint64FromString(val, "ts_recv")
	r.Price = fastjson_GetInt64FromString(val, "price")
	r.Size = uint32(val.GetUint("size"))
	r.Action = Action(val.GetStringBytes("action")[0])
	r.Side = Side(val.GetStringBytes("side")[0])
	r.Flags = uint8(val.GetUint("flags"))
	r.Depth = uint8(val.GetUint("depth"))
	r.TsInDelta = int32(val.GetInt("ts_in_delta"))
	r.Sequence = uint32(val.GetUint("sequence"))
	return nil
}

///////////////////////////////////////////////////////////////////////////////

// BidAskPair is one price level of a market-by-price book, repeated per level
// in Mbp1Msg/Mbp10Msg (spec §3: "per-level repeated (bid_px, ask_px, bid_sz,
// ask_sz, bid_ct, ask_ct) groups").
type BidAskPair struct {
	BidPx   int64  `json:"bid_px" csv:"bid_px"`
	AskPx   int64  `json:"ask_px" csv:"ask_px"`
	BidSize uint32 `json:"bid_sz" csv:"bid_sz"`
	AskSize uint32 `json:"ask_sz" csv:"ask_sz"`
	BidCt   uint32 `json:"bid_ct" csv:"bid_ct"`
	AskCt   uint32 `json:"ask_ct" csv:"ask_ct"`
}

const BidAskPair_Size = 32

func fillBidAskPair_Raw(b []byte, p *BidAskPair) {
	p.BidPx = int64(binary.LittleEndian.Uint64(b[0:8]))
	p.AskPx = int64(binary.LittleEndian.Uint64(b[8:16]))
	p.BidSize = binary.LittleEndian.Uint32(b[16:20])
	p.AskSize = binary.LittleEndian.Uint32(b[20:24])
	p.BidCt = binary.LittleEndian.Uint32(b[24:28])
	p.AskCt = binary.LittleEndian.Uint32(b[28:32])
}

func fillBidAskPair_Json(val *fastjson.Value, p *BidAskPair) {
	p.BidPx = fastjson_GetInt64FromString(val, "bid_px")
	p.AskPx = fastjson_GetInt64FromString(val, "ask_px")
	p.BidSize = uint32(val.GetUint("bid_sz"))
	p.AskSize = uint32(val.GetUint("ask_sz"))
	p.BidCt = uint32(val.GetUint("bid_ct"))
	p.AskCt = uint32(val.GetUint("ask_ct"))
}

///////////////////////////////////////////////////////////////////////////////

// Mbp1Msg is the Mbp1/Tbbo schema record: a market-by-price record with a
// single book level (the top of book) attached to the trade/update.
type Mbp1Msg struct {
	Header    RHeader      `json:"hd" csv:"hd"`
	TsRecv    uint64       `json:"ts_recv" csv:"ts_recv"`
	Price     int64        `json:"price" csv:"price"`
	Size      uint32       `json:"size" csv:"size"`
	Action    Action       `json:"action" csv:"action"`
	Side      Side         `json:"side" csv:"side"`
	Flags     uint8        `json:"flags" csv:"flags"`
	Depth     uint8        `json:"depth" csv:"depth"`
	TsInDelta int32        `json:"ts_in_delta" csv:"ts_in_delta"`
	Sequence  uint32       `json:"sequence" csv:"sequence"`
	Level     BidAskPair   `json:"levels" csv:"levels"`
}

const Mbp1Msg_Size = RHeader_Size + 32 + BidAskPair_Size

func (*Mbp1Msg) RType() RType {
	return RType_Mbp1
}

func (*Mbp1Msg) RSize() uint8 {
	return Mbp1Msg_Size
}

func (r *Mbp1Msg) Fill_Raw(b []byte) error {
	if len(b) < Mbp1Msg_Size {
		return unexpectedBytesError(len(b), Mbp1Msg_Size)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.TsRecv = binary.LittleEndian.Uint64(body[0:8])
	r.Price = int64(binary.LittleEndian.Uint64(body[8:16]))
	r.Size = binary.LittleEndian.Uint32(body[16:20])
	r.Action = Action(body[20])
	r.Side = Side(body[21])
	r.Flags = body[22]
	r.Depth = body[23]
	r.TsInDelta = int32(binary.LittleEndian.Uint32(body[24:28]))
	r.Sequence = binary.LittleEndian.Uint32(body[28:32])
	fillBidAskPair_Raw(body[32:64], &r.Level)
	return nil
}

func (r *Mbp1Msg) Fill_Json(val *fastjson.Value, header *RHeader) error {
	r.Header = *header
	r.TsRecv = fastjson_GetUint64FromString(val, "ts_recv")
	r.Price = fastjson_GetInt64FromString(val, "price")
	r.Size = uint32(val.GetUint("size"))
	r.Action = Action(val.GetStringBytes("action")[0])
	r.Side = Side(val.GetStringBytes("side")[0])
	r.Flags = uint8(val.GetUint("flags"))
	r.Depth = uint8(val.GetUint("depth"))
	r.TsInDelta = int32(val.GetInt("ts_in_delta"))
	r.Sequence = uint32(val.GetUint("sequence"))
	if levels := val.GetArray("levels"); len(levels) > 0 {
		fillBidAskPair_Json(levels[0], &r.Level)
	} else if lvl := val.Get("levels"); lvl != nil {
		fillBidAskPair_Json(lvl, &r.Level)
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////

// Mbp10Msg is the Mbp10 schema record: a market-by-price record with 10 book
// levels attached to the trade/update.
type Mbp10Msg struct {
	Header    RHeader        `json:"hd" csv:"hd"`
	TsRecv    uint64         `json:"ts_recv" csv:"ts_recv"`
	Price     int64          `json:"price" csv:"price"`
	Size      uint32         `json:"size" csv:"size"`
	Action    Action         `json:"action" csv:"action"`
	Side      Side           `json:"side" csv:"side"`
	Flags     uint8          `json:"flags" csv:"flags"`
	Depth     uint8          `json:"depth" csv:"depth"`
	TsInDelta int32          `json:"ts_in_delta" csv:"ts_in_delta"`
	Sequence  uint32         `json:"sequence" csv:"sequence"`
	Levels    [10]BidAskPair `json:"levels" csv:"levels"`
}

const Mbp10Msg_Size = RHeader_Size + 32 + 10*BidAskPair_Size

func (*Mbp10Msg) RType() RType {
	return RType_Mbp10
}

func (*Mbp10Msg) RSize() uint8 {
	return Mbp10Msg_Size
}

func (r *Mbp10Msg) Fill_Raw(b []byte) error {
	if len(b) < Mbp10Msg_Size {
		return unexpectedBytesError(len(b), Mbp10Msg_Size)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.TsRecv = binary.LittleEndian.Uint64(body[0:8])
	r.Price = int64(binary.LittleEndian.Uint64(body[8:16]))
	r.Size = binary.LittleEndian.Uint32(body[16:20])
	r.Action = Action(body[20])
	r.Side = Side(body[21])
	r.Flags = body[22]
	r.Depth = body[23]
	r.TsInDelta = int32(binary.LittleEndian.Uint32(body[24:28]))
	r.Sequence = binary.LittleEndian.Uint32(body[28:32])
	for i := 0; i < 10; i++ {
		off := 32 + i*BidAskPair_Size
		fillBidAskPair_Raw(body[off:off+BidAskPair_Size], &r.Levels[i])
	}
	return nil
}

func (r *Mbp10Msg) Fill_Json(val *fastjson.Value, header *RHeader) error {
	r.Header = *header
	r.TsRecv = fastjson_GetUint64FromString(val, "ts_recv")
	r.Price = fastjson_GetInt64FromString(val, "price")
	r.Size = uint32(val.GetUint("size"))
	r.Action = Action(val.GetStringBytes("action")[0])
	r.Side = Side(val.GetStringBytes("side")[0])
	r.Flags = uint8(val.GetUint("flags"))
	r.Depth = uint8(val.GetUint("depth"))
	r.TsInDelta = int32(val.GetInt("ts_in_delta"))
	r.Sequence = uint32(val.GetUint("sequence"))
	levels := val.GetArray("levels")
	for i := 0; i < len(levels) && i < 10; i++ {
		fillBidAskPair_Json(levels[i], &r.Levels[i])
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////

// MboMsg is the Mbo (market-by-order) schema record: one row per individual
// order-book event (add/modify/cancel/fill/trade) rather than aggregated by
// price level.
type MboMsg struct {
	Header    RHeader `json:"hd" csv:"hd"`
	OrderID   uint64  `json:"order_id" csv:"order_id"`       // The order ID assigned by the venue.
	Price     int64   `json:"price" csv:"price"`             // The order price, scale 1e-9.
	Size      uint32  `json:"size" csv:"size"`               // The order quantity.
	Flags     uint8   `json:"flags" csv:"flags"`             // See RFlag_* bits.
	ChannelID uint8   `json:"channel_id" csv:"channel_id"`   // The channel ID assigned by Databento.
	Action    Action  `json:"action" csv:"action"`           // The event action.
	Side      Side    `json:"side" csv:"side"`                // The side affected by the event.
	TsRecv    uint64  `json:"ts_recv" csv:"ts_recv"`         // The capture-server-received timestamp.
	TsInDelta int32   `json:"ts_in_delta" csv:"ts_in_delta"` // Matching-engine-sending timestamp, ns before ts_recv.
	Sequence  uint32  `json:"sequence" csv:"sequence"`       // The message sequence number assigned at the venue.
}

const MboMsg_Size = RHeader_Size + 40

func (*MboMsg) RType() RType {
	return RType_Mbo
}

func (*MboMsg) RSize() uint8 {
	return MboMsg_Size
}

func (r *MboMsg) Fill_Raw(b []byte) error {
	if len(b) < MboMsg_Size {
		return unexpectedBytesError(len(b), MboMsg_Size)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.OrderID = binary.LittleEndian.Uint64(body[0:8])
	r.Price = int64(binary.LittleEndian.Uint64(body[8:16]))
	r.Size = binary.LittleEndian.Uint32(body[16:20])
	r.Flags = body[20]
	r.ChannelID = body[21]
	r.Action = Action(body[22])
	r.Side = Side(body[23])
	r.TsRecv = binary.LittleEndian.Uint64(body[24:32])
	r.TsInDelta = int32(binary.LittleEndian.Uint32(body[32:36]))
	r.Sequence = binary.LittleEndian.Uint32(body[36:40])
	return nil
}

func (r *MboMsg) Fill_Json(val *fastjson.Value, header *RHeader) error {
	r.Header = *header
	r.OrderID = fastjson_GetUint64FromString(val, "order_id")
	r.Price = fastjson_GetInt64FromString(val, "price")
	r.Size = uint32(val.GetUint("size"))
	r.Flags = uint8(val.GetUint("flags"))
	r.ChannelID = uint8(val.GetUint("channel_id"))
	r.Action = Action(val.GetStringBytes("action")[0])
	r.Side = Side(val.GetStringBytes("side")[0])
	r.TsRecv = fastjson_GetUint64FromString(val, "ts_recv")
	r.TsInDelta = int32(val.GetInt("ts_in_delta"))
	r.Sequence = uint32(val.GetUint("sequence"))
	return nil
}

///////////////////////////////////////////////////////////////////////////////

// OhlcvMsg is the bar record shared by all OHLCV cadence schemas
// (ohlcv-1s/1m/1h/1d/eod); the cadence is carried in the record header's RType,
// not in this struct, so RType() here reports a representative candle RType —
// dispatch always consults Header.RType directly (see RType.IsCandle).
// {"hd":{"ts_event":"1702987922000000000","rtype":32,"publisher_id":40,"instrument_id":15144},"open":"472600000000","high":"472600000000","low":"472600000000","close":"472600000000","volume":"300"}
type OhlcvMsg struct {
	Header RHeader `json:"hd" csv:"hd"`
	Open   int64   `json:"open" csv:"open"`
	High   int64   `json:"high" csv:"high"`
	Low    int64   `json:"low" csv:"low"`
	Close  int64   `json:"close" csv:"close"`
	Volume uint64  `json:"volume" csv:"volume"`
}

const OhlcvMsg_Size = RHeader_Size + 40

func (*OhlcvMsg) RType() RType {
	return RType_OhlcvEod
}

func (*OhlcvMsg) RSize() uint8 {
	return OhlcvMsg_Size
}

func (r *OhlcvMsg) Fill_Raw(b []byte) error {
	if len(b) < OhlcvMsg_Size {
		return unexpectedBytesError(len(b), OhlcvMsg_Size)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.Open = int64(binary.LittleEndian.Uint64(body[0:8]))
	r.High = int64(binary.LittleEndian.Uint64(body[8:16]))
	r.Low = int64(binary.LittleEndian.Uint64(body[16:24]))
	r.Close = int64(binary.LittleEndian.Uint64(body[24:32]))
	r.Volume = binary.LittleEndian.Uint64(body[32:40])
	return nil
}

func (r *OhlcvMsg) Fill_Json(val *fastjson.Value, header *RHeader) error {
	r.Header = *header
	r.Open = fastjson_GetInt64FromString(val, "open")
	r.High = fastjson_GetInt64FromString(val, "high")
	r.Low = fastjson_GetInt64FromString(val, "low")
	r.Close = fastjson_GetInt64FromString(val, "close")
	r.Volume = fastjson_GetUint64FromString(val, "volume")
	return nil
}

///////////////////////////////////////////////////////////////////////////////

// ImbalanceMsg is the Imbalance schema record: auction imbalance events.
// {"ts_recv":"1711027500000942123","hd":{"ts_event":"1711027500000776211","rtype":20,"publisher_id":2,"instrument_id":17598},"ref_price":"0","auction_time":"0","cont_book_clr_price":"0","auct_interest_clr_price":"0","ssr_filling_price":"0","ind_match_price":"0","upper_collar":"0","lower_collar":"0","paired_qty":0,"total_imbalance_qty":0,"market_imbalance_qty":0,"unpaired_qty":0,"auction_type":"O","side":"N","auction_status":0,"freeze_status":0,"num_extensions":0,"unpaired_side":"N","significant_imbalance":"~"}
type ImbalanceMsg struct {
	Header               RHeader  `json:"hd" csv:"hd"`
	TsRecv               uint64   `json:"ts_recv" csv:"ts_recv"`
	RefPrice             int64    `json:"ref_price" csv:"ref_price"`
	AuctionTime          uint64   `json:"auction_time" csv:"auction_time"`                // Reserved for future use.
	ContBookClrPrice     int64    `json:"cont_book_clr_price" csv:"cont_book_clr_price"`  // Hypothetical auction-clearing price for cross and continuous orders.
	AuctInterestClrPrice int64    `json:"auct_interest_clr_price" csv:"auct_interest_clr_price"` // Hypothetical auction-clearing price for cross orders only.
	SsrFillingPrice      int64    `json:"ssr_filling_price" csv:"ssr_filling_price"`
	IndMatchPrice        int64    `json:"ind_match_price" csv:"ind_match_price"`
	UpperCollar          int64    `json:"upper_collar" csv:"upper_collar"`
	LowerCollar          int64    `json:"lower_collar" csv:"lower_collar"`
	PairedQty            uint32   `json:"paired_qty" csv:"paired_qty"`
	TotalImbalanceQty    uint32   `json:"total_imbalance_qty" csv:"total_imbalance_qty"`
	MarketImbalanceQty   uint32   `json:"market_imbalance_qty" csv:"market_imbalance_qty"`
	UnpairedQty          int32    `json:"unpaired_qty" csv:"unpaired_qty"`
	AuctionType          uint8    `json:"auction_type" csv:"auction_type"` // Venue-specific auction type code.
	Side                 Side     `json:"side" csv:"side"`
	AuctionStatus        uint8    `json:"auction_status" csv:"auction_status"`
	FreezeStatus         uint8    `json:"freeze_status" csv:"freeze_status"`
	NumExtensions        uint8    `json:"num_extensions" csv:"num_extensions"`
	UnpairedSide         Side     `json:"unpaired_side" csv:"unpaired_side"`
	SignificantImbalance TriState `json:"significant_imbalance" csv:"significant_imbalance"`
	Reserved             uint8    `json:"reserved" csv:"reserved"` // Filler for alignment.
}

const ImbalanceMsg_Size = RHeader_Size + 96

func (*ImbalanceMsg) RType() RType {
	return RType_Imbalance
}

func (*ImbalanceMsg) RSize() uint8 {
	return ImbalanceMsg_Size
}

func (r *ImbalanceMsg) Fill_Raw(b []byte) error {
	if len(b) < ImbalanceMsg_Size {
		return unexpectedBytesError(len(b), ImbalanceMsg_Size)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.TsRecv = binary.LittleEndian.Uint64(body[0:8])
	r.RefPrice = int64(binary.LittleEndian.Uint64(body[8:16]))
	r.AuctionTime = binary.LittleEndian.Uint64(body[16:24])
	r.ContBookClrPrice = int64(binary.LittleEndian.Uint64(body[24:32]))
	r.AuctInterestClrPrice = int64(binary.LittleEndian.Uint64(body[32:40]))
	r.SsrFillingPrice = int64(binary.LittleEndian.Uint64(body[40:48]))
	r.IndMatchPrice = int64(binary.LittleEndian.Uint64(body[48:56]))
	r.UpperCollar = int64(binary.LittleEndian.Uint64(body[56:64]))
	r.LowerCollar = int64(binary.LittleEndian.Uint64(body[64:72]))
	r.PairedQty = binary.LittleEndian.Uint32(body[72:76])
	r.TotalImbalanceQty = binary.LittleEndian.Uint32(body[76:80])
	r.MarketImbalanceQty = binary.LittleEndian.Uint32(body[80:84])
	r.UnpairedQty = int32(binary.LittleEndian.Uint32(body[84:88]))
	r.AuctionType = body[88]
	r.Side = Side(body[89])
	r.AuctionStatus = body[90]
	r.FreezeStatus = body[91]
	r.NumExtensions = body[92]
	r.UnpairedSide = Side(body[93])
	r.SignificantImbalance = TriState(body[94])
	r.Reserved = body[95]
	return nil
}

func (r *ImbalanceMsg) Fill_Json(val *fastjson.Value, header *RHeader) error {
	r.Header = *header
	r.TsRecv = fastjson_GetUint64FromString(val, "ts_recv")
	r.RefPrice = fastjson_GetInt64FromString(val, "ref_price")
	r.AuctionTime = fastjson_GetUint64FromString(val, "auction_time")
	r.ContBookClrPrice = fastjson_GetInt64FromString(val, "cont_book_clr_price")
	r.AuctInterestClrPrice = fastjson_GetInt64FromString(val, "auct_interest_clr_price")
	r.SsrFillingPrice = fastjson_GetInt64FromString(val, "ssr_filling_price")
	r.IndMatchPrice = fastjson_GetInt64FromString(val, "ind_match_price")
	r.UpperCollar = fastjson_GetInt64FromString(val, "upper_collar")
	r.LowerCollar = fastjson_GetInt64FromString(val, "lower_collar")
	r.PairedQty = uint32(val.GetUint("paired_qty"))
	r.TotalImbalanceQty = uint32(val.GetUint("total_imbalance_qty"))
	r.MarketImbalanceQty = uint32(val.GetUint("market_imbalance_qty"))
	r.UnpairedQty = int32(val.GetUint("unpaired_qty"))
	r.AuctionType = uint8(val.GetUint("auction_type"))
	r.Side = Side(val.GetStringBytes("side")[0])
	r.AuctionStatus = uint8(val.GetUint("auction_status"))
	r.FreezeStatus = uint8(val.GetUint("freeze_status"))
	r.NumExtensions = uint8(val.GetUint("num_extensions"))
	r.UnpairedSide = Side(val.GetStringBytes("unpaired_side")[0])
	r.SignificantImbalance = TriState(val.GetStringBytes("significant_imbalance")[0])
	return nil
}

///////////////////////////////////////////////////////////////////////////////

// StatMsg is the Statistics schema record: additional data disseminated by
// publishers (not calculated by Databento itself).
type StatMsg struct {
	Header        RHeader        `json:"hd" csv:"hd"`
	TsRecv        uint64         `json:"ts_recv" csv:"ts_recv"`
	TsRef         uint64         `json:"ts_ref" csv:"ts_ref"` // Reference timestamp the statistic applies to, e.g. the trading date.
	Price         int64          `json:"price" csv:"price"`
	Quantity      int32          `json:"quantity" csv:"quantity"`
	Sequence      uint32         `json:"sequence" csv:"sequence"`
	TsInDelta     int32          `json:"ts_in_delta" csv:"ts_in_delta"`
	StatType      StatType       `json:"stat_type" csv:"stat_type"`
	ChannelID     uint16         `json:"channel_id" csv:"channel_id"`
	UpdateAction  StatUpdateAction `json:"update_action" csv:"update_action"`
	StatFlags     uint8          `json:"stat_flags" csv:"stat_flags"`
}

const StatMsg_Size = RHeader_Size + 48

func (*StatMsg) RType() RType {
	return RType_Statistics
}

func (*StatMsg) RSize() uint8 {
	return StatMsg_Size
}

func (r *StatMsg) Fill_Raw(b []byte) error {
	if len(b) < StatMsg_Size {
		return unexpectedBytesError(len(b), StatMsg_Size)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.TsRecv = binary.LittleEndian.Uint64(body[0:8])
	r.TsRef = binary.LittleEndian.Uint64(body[8:16])
	r.Price = int64(binary.LittleEndian.Uint64(body[16:24]))
	r.Quantity = int32(binary.LittleEndian.Uint32(body[24:28]))
	r.Sequence = binary.LittleEndian.Uint32(body[28:32])
	r.TsInDelta = int32(binary.LittleEndian.Uint32(body[32:36]))
	r.StatType = StatType(binary.LittleEndian.Uint16(body[36:38]))
	r.ChannelID = binary.LittleEndian.Uint16(body[38:40])
	r.UpdateAction = StatUpdateAction(body[40])
	r.StatFlags = body[41]
	return nil
}

func (r *StatMsg) Fill_Json(val *fastjson.Value, header *RHeader) error {
	r.Header = *header
	r.TsRecv = fastjson_GetUint64FromString(val, "ts_recv")
	r.TsRef = fastjson_GetUint64FromString(val, "ts_ref")
	r.Price = fastjson_GetInt64FromString(val, "price")
	r.Quantity = int32(val.GetInt("quantity"))
	r.Sequence = uint32(val.GetUint("sequence"))
	r.TsInDelta = int32(val.GetInt("ts_in_delta"))
	r.StatType = StatType(val.GetUint("stat_type"))
	r.ChannelID = uint16(val.GetUint("channel_id"))
	r.UpdateAction = StatUpdateAction(val.GetUint("update_action"))
	r.StatFlags = uint8(val.GetUint("stat_flags"))
	return nil
}

///////////////////////////////////////////////////////////////////////////////

// StatusMsg is the Status schema record: trading status/halt events.
type StatusMsg struct {
	Header                 RHeader      `json:"hd" csv:"hd"`
	TsRecv                 uint64       `json:"ts_recv" csv:"ts_recv"`
	Action                 StatusAction `json:"action" csv:"action"`
	Reason                 StatusReason `json:"reason" csv:"reason"`
	TradingEvent           TradingEvent `json:"trading_event" csv:"trading_event"`
	IsTrading              TriState     `json:"is_trading" csv:"is_trading"`
	IsQuoting              TriState     `json:"is_quoting" csv:"is_quoting"`
	IsShortSellRestricted  TriState     `json:"is_short_sell_restricted" csv:"is_short_sell_restricted"`
}

const StatusMsg_Size = RHeader_Size + 24

func (*StatusMsg) RType() RType {
	return RType_Status
}

func (*StatusMsg) RSize() uint8 {
	return StatusMsg_Size
}

func (r *StatusMsg) Fill_Raw(b []byte) error {
	if len(b) < StatusMsg_Size {
		return unexpectedBytesError(len(b), StatusMsg_Size)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.TsRecv = binary.LittleEndian.Uint64(body[0:8])
	r.Action = StatusAction(binary.LittleEndian.Uint16(body[8:10]))
	r.Reason = StatusReason(binary.LittleEndian.Uint16(body[10:12]))
	r.TradingEvent = TradingEvent(binary.LittleEndian.Uint16(body[12:14]))
	r.IsTrading = TriState(body[14])
	r.IsQuoting = TriState(body[15])
	r.IsShortSellRestricted = TriState(body[16])
	return nil
}

func (r *StatusMsg) Fill_Json(val *fastjson.Value, header *RHeader) error {
	r.Header = *header
	r.TsRecv = fastjson_GetUint64FromString(val, "ts_recv")
	r.Action = StatusAction(val.GetUint("action"))
	r.Reason = StatusReason(val.GetUint("reason"))
	r.TradingEvent = TradingEvent(val.GetUint("trading_event"))
	if b := val.GetStringBytes("is_trading"); len(b) > 0 {
		r.IsTrading = TriState(b[0])
	}
	if b := val.GetStringBytes("is_quoting"); len(b) > 0 {
		r.IsQuoting = TriState(b[0])
	}
	if b := val.GetStringBytes("is_short_sell_restricted"); len(b) > 0 {
		r.IsShortSellRestricted = TriState(b[0])
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////

// InstrumentDefMsg is the Definition schema record: a full instrument
// reference-data snapshot. Completed from scratch (absent from the teacher),
// grounded in the general DBN instrument-definition shape rather than
// byte-exact with the official wire format — see DESIGN.md.
type InstrumentDefMsg struct {
	Header                   RHeader               `json:"hd" csv:"hd"`
	TsRecv                   uint64                `json:"ts_recv" csv:"ts_recv"`
	MinPriceIncrement        int64                 `json:"min_price_increment" csv:"min_price_increment"`
	DisplayFactor            int64                 `json:"display_factor" csv:"display_factor"`
	Expiration               uint64                `json:"expiration" csv:"expiration"`
	Activation               uint64                `json:"activation" csv:"activation"`
	HighLimitPrice           int64                 `json:"high_limit_price" csv:"high_limit_price"`
	LowLimitPrice            int64                 `json:"low_limit_price" csv:"low_limit_price"`
	MaxPriceVariation        int64                 `json:"max_price_variation" csv:"max_price_variation"`
	TradingReferencePrice    int64                 `json:"trading_reference_price" csv:"trading_reference_price"`
	UnitOfMeasureQty         int64                 `json:"unit_of_measure_qty" csv:"unit_of_measure_qty"`
	MinPriceIncrementAmount  int64                 `json:"min_price_increment_amount" csv:"min_price_increment_amount"`
	PriceRatio               int64                 `json:"price_ratio" csv:"price_ratio"`
	StrikePrice              int64                 `json:"strike_price" csv:"strike_price"`
	InstAttribValue          int32                 `json:"inst_attrib_value" csv:"inst_attrib_value"`
	UnderlyingID             uint32                `json:"underlying_id" csv:"underlying_id"`
	RawInstrumentID          uint32                `json:"raw_instrument_id" csv:"raw_instrument_id"`
	MarketDepthImplied       int32                 `json:"market_depth_implied" csv:"market_depth_implied"`
	MarketDepth              int32                 `json:"market_depth" csv:"market_depth"`
	MarketSegmentID          uint32                `json:"market_segment_id" csv:"market_segment_id"`
	MaxTradeVol              uint32                `json:"max_trade_vol" csv:"max_trade_vol"`
	MinLotSize               int32                 `json:"min_lot_size" csv:"min_lot_size"`
	MinLotSizeBlock          int32                 `json:"min_lot_size_block" csv:"min_lot_size_block"`
	MinLotSizeRoundLot       int32                 `json:"min_lot_size_round_lot" csv:"min_lot_size_round_lot"`
	ContractMultiplier       int32                 `json:"contract_multiplier" csv:"contract_multiplier"`
	TradingReferenceDate     uint16                `json:"trading_reference_date" csv:"trading_reference_date"`
	MaturityYear             uint16                `json:"maturity_year" csv:"maturity_year"`
	DecayStartDate           uint16                `json:"decay_start_date" csv:"decay_start_date"`
	ChannelID                uint16                `json:"channel_id" csv:"channel_id"`
	Currency                 string                `json:"currency" csv:"currency"`
	SettlCurrency            string                `json:"settl_currency" csv:"settl_currency"`
	SecSubType               string                `json:"secsubtype" csv:"secsubtype"`
	RawSymbol                string                `json:"raw_symbol" csv:"raw_symbol"`
	Group                    string                `json:"group" csv:"group"`
	Exchange                 string                `json:"exchange" csv:"exchange"`
	Asset                    string                `json:"asset" csv:"asset"`
	Cfi                      string                `json:"cfi" csv:"cfi"`
	SecurityType             string                `json:"security_type" csv:"security_type"`
	UnitOfMeasure            string                `json:"unit_of_measure" csv:"unit_of_measure"`
	Underlying               string                `json:"underlying" csv:"underlying"`
	InstrumentClass          InstrumentClass       `json:"instrument_class" csv:"instrument_class"`
	MatchAlgorithm           MatchAlgorithm        `json:"match_algorithm" csv:"match_algorithm"`
	MaturityMonth            uint8                 `json:"maturity_month" csv:"maturity_month"`
	MaturityDay              uint8                 `json:"maturity_day" csv:"maturity_day"`
	MaturityWeek             uint8                 `json:"maturity_week" csv:"maturity_week"`
	UserDefinedInstrument    UserDefinedInstrument `json:"user_defined_instrument" csv:"user_defined_instrument"`
	SecurityUpdateAction     SecurityUpdateAction  `json:"security_update_action" csv:"security_update_action"`
}

// Fixed cstr widths used by InstrumentDefMsg's string fields. These mirror the
// widths the teacher uses for SymbolMapping's raw symbol (22 bytes, DBN v1).
const (
	instrumentDef_Currency4Len = 4
	instrumentDef_SecSubType6Len = 6
	instrumentDef_RawSymbolLen  = 22
	instrumentDef_Group21Len    = 21
	instrumentDef_Exchange5Len  = 5
	instrumentDef_Asset11Len    = 11
	instrumentDef_Cfi7Len       = 7
	instrumentDef_SecType7Len   = 7
	instrumentDef_UnitOfMeasure31Len = 31
	instrumentDef_Underlying21Len    = 21
)

const instrumentDefBodySize = 8*13 + 4*11 + 2*4 +
	instrumentDef_Currency4Len*2 + instrumentDef_SecSubType6Len + instrumentDef_RawSymbolLen +
	instrumentDef_Group21Len + instrumentDef_Exchange5Len + instrumentDef_Asset11Len +
	instrumentDef_Cfi7Len + instrumentDef_SecType7Len + instrumentDef_UnitOfMeasure31Len +
	instrumentDef_Underlying21Len + 7 // trailing single-byte enum fields

const InstrumentDefMsg_Size = RHeader_Size + instrumentDefBodySize

func (*InstrumentDefMsg) RType() RType {
	return RType_InstrumentDef
}

func (*InstrumentDefMsg) RSize() uint8 {
	// InstrumentDefMsg_Size exceeds uint8's range for some layouts; callers
	// should use InstrumentDefMsg_Size directly rather than this method for
	// buffer sizing. Kept only to satisfy the RecordPtr constraint.
	return 0xFF
}

func (r *InstrumentDefMsg) Fill_Raw(b []byte) error {
	if len(b) < InstrumentDefMsg_Size {
		return unexpectedBytesError(len(b), InstrumentDefMsg_Size)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	pos := 0
	nextI64 := func() int64 {
		v := int64(binary.LittleEndian.Uint64(body[pos : pos+8]))
		pos += 8
		return v
	}
	nextU64 := func() uint64 {
		v := binary.LittleEndian.Uint64(body[pos : pos+8])
		pos += 8
		return v
	}
	nextI32 := func() int32 {
		v := int32(binary.LittleEndian.Uint32(body[pos : pos+4]))
		pos += 4
		return v
	}
	nextU32 := func() uint32 {
		v := binary.LittleEndian.Uint32(body[pos : pos+4])
		pos += 4
		return v
	}
	nextU16 := func() uint16 {
		v := binary.LittleEndian.Uint16(body[pos : pos+2])
		pos += 2
		return v
	}
	nextStr := func(n int) string {
		s := TrimNullBytes(body[pos : pos+n])
		pos += n
		return s
	}
	nextByte := func() uint8 {
		v := body[pos]
		pos++
		return v
	}

	r.TsRecv = nextU64()
	r.MinPriceIncrement = nextI64()
	r.DisplayFactor = nextI64()
	r.Expiration = nextU64()
	r.Activation = nextU64()
	r.HighLimitPrice = nextI64()
	r.LowLimitPrice = nextI64()
	r.MaxPriceVariation = nextI64()
	r.TradingReferencePrice = nextI64()
	r.UnitOfMeasureQty = nextI64()
	r.MinPriceIncrementAmount = nextI64()
	r.PriceRatio = nextI64()
	r.StrikePrice = nextI64()
	r.InstAttribValue = nextI32()
	r.UnderlyingID = nextU32()
	r.RawInstrumentID = nextU32()
	r.MarketDepthImplied = nextI32()
	r.MarketDepth = nextI32()
	r.MarketSegmentID = nextU32()
	r.MaxTradeVol = nextU32()
	r.MinLotSize = nextI32()
	r.MinLotSizeBlock = nextI32()
	r.MinLotSizeRoundLot = nextI32()
	r.ContractMultiplier = nextI32()
	r.TradingReferenceDate = nextU16()
	r.MaturityYear = nextU16()
	r.DecayStartDate = nextU16()
	r.ChannelID = nextU16()
	r.Currency = nextStr(instrumentDef_Currency4Len)
	r.SettlCurrency = nextStr(instrumentDef_Currency4Len)
	r.SecSubType = nextStr(instrumentDef_SecSubType6Len)
	r.RawSymbol = nextStr(instrumentDef_RawSymbolLen)
	r.Group = nextStr(instrumentDef_Group21Len)
	r.Exchange = nextStr(instrumentDef_Exchange5Len)
	r.Asset = nextStr(instrumentDef_Asset11Len)
	r.Cfi = nextStr(instrumentDef_Cfi7Len)
	r.SecurityType = nextStr(instrumentDef_SecType7Len)
	r.UnitOfMeasure = nextStr(instrumentDef_UnitOfMeasure31Len)
	r.Underlying = nextStr(instrumentDef_Underlying21Len)
	r.InstrumentClass = InstrumentClass(nextByte())
	r.MatchAlgorithm = MatchAlgorithm(nextByte())
	r.MaturityMonth = nextByte()
	r.MaturityDay = nextByte()
	r.MaturityWeek = nextByte()
	r.UserDefinedInstrument = UserDefinedInstrument(nextByte())
	r.SecurityUpdateAction = SecurityUpdateAction(nextByte())
	_ = nextByte // silence unused warning if trailing padding bytes remain unread
	return nil
}

func (r *InstrumentDefMsg) Fill_Json(val *fastjson.Value, header *RHeader) error {
	r.Header = *header
	r.TsRecv = fastjson_GetUint64FromString(val, "ts_recv")
	r.MinPriceIncrement = fastjson_GetInt64FromString(val, "min_price_increment")
	r.DisplayFactor = fastjson_GetInt64FromString(val, "display_factor")
	r.Expiration = fastjson_GetUint64FromString(val, "expiration")
	r.Activation = fastjson_GetUint64FromString(val, "activation")
	r.HighLimitPrice = fastjson_GetInt64FromString(val, "high_limit_price")
	r.LowLimitPrice = fastjson_GetInt64FromString(val, "low_limit_price")
	r.MaxPriceVariation = fastjson_GetInt64FromString(val, "max_price_variation")
	r.TradingReferencePrice = fastjson_GetInt64FromString(val, "trading_reference_price")
	r.UnitOfMeasureQty = fastjson_GetInt64FromString(val, "unit_of_measure_qty")
	r.MinPriceIncrementAmount = fastjson_GetInt64FromString(val, "min_price_increment_amount")
	r.PriceRatio = fastjson_GetInt64FromString(val, "price_ratio")
	r.StrikePrice = fastjson_GetInt64FromString(val, "strike_price")
	r.InstAttribValue = int32(val.GetInt("inst_attrib_value"))
	r.UnderlyingID = uint32(val.GetUint("underlying_id"))
	r.RawInstrumentID = uint32(val.GetUint("raw_instrument_id"))
	r.MarketDepthImplied = int32(val.GetInt("market_depth_implied"))
	r.MarketDepth = int32(val.GetInt("market_depth"))
	r.MarketSegmentID = uint32(val.GetUint("market_segment_id"))
	r.MaxTradeVol = uint32(val.GetUint("max_trade_vol"))
	r.MinLotSize = int32(val.GetInt("min_lot_size"))
	r.MinLotSizeBlock = int32(val.GetInt("min_lot_size_block"))
	r.MinLotSizeRoundLot = int32(val.GetInt("min_lot_size_round_lot"))
	r.ContractMultiplier = int32(val.GetInt("contract_multiplier"))
	r.TradingReferenceDate = uint16(val.GetUint("trading_reference_date"))
	r.MaturityYear = uint16(val.GetUint("maturity_year"))
	r.DecayStartDate = uint16(val.GetUint("decay_start_date"))
	r.ChannelID = uint16(val.GetUint("channel_id"))
	r.Currency = string(val.GetStringBytes("currency"))
	r.SettlCurrency = string(val.GetStringBytes("settl_currency"))
	r.SecSubType = string(val.GetStringBytes("secsubtype"))
	r.RawSymbol = string(val.GetStringBytes("raw_symbol"))
	r.Group = string(val.GetStringBytes("group"))
	r.Exchange = string(val.GetStringBytes("exchange"))
	r.Asset = string(val.GetStringBytes("asset"))
	r.Cfi = string(val.GetStringBytes("cfi"))
	r.SecurityType = string(val.GetStringBytes("security_type"))
	r.UnitOfMeasure = string(val.GetStringBytes("unit_of_measure"))
	r.Underlying = string(val.GetStringBytes("underlying"))
	if b := val.GetStringBytes("instrument_class"); len(b) > 0 {
		r.InstrumentClass = InstrumentClass(b[0])
	}
	if b := val.GetStringBytes("match_algorithm"); len(b) > 0 {
		r.MatchAlgorithm = MatchAlgorithm(b[0])
	}
	r.MaturityMonth = uint8(val.GetUint("maturity_month"))
	r.MaturityDay = uint8(val.GetUint("maturity_day"))
	r.MaturityWeek = uint8(val.GetUint("maturity_week"))
	if b := val.GetStringBytes("user_defined_instrument"); len(b) > 0 {
		r.UserDefinedInstrument = UserDefinedInstrument(b[0])
	}
	if b := val.GetStringBytes("security_update_action"); len(b) > 0 {
		r.SecurityUpdateAction = SecurityUpdateAction(b[0])
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////

// ErrorMsg is sent by the gateway to report an application-level error during
// a live session (spec §4.6 "Error: log and accumulate into session-error list").
type ErrorMsg struct {
	Header RHeader `json:"hd" csv:"hd"`
	Err    string  `json:"err" csv:"err"`
	Code   uint8   `json:"code" csv:"code"`
	IsLast uint8   `json:"is_last" csv:"is_last"`
}

const errorMsgCstrLen = 302
const ErrorMsg_Size = RHeader_Size + errorMsgCstrLen + 2

func (*ErrorMsg) RType() RType {
	return RType_Error
}

func (*ErrorMsg) RSize() uint8 {
	return 0xFF // exceeds uint8; see InstrumentDefMsg.RSize note
}

func (r *ErrorMsg) Fill_Raw(b []byte) error {
	if len(b) < ErrorMsg_Size {
		return unexpectedBytesError(len(b), ErrorMsg_Size)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.Err = TrimNullBytes(body[0:errorMsgCstrLen])
	r.Code = body[errorMsgCstrLen]
	r.IsLast = body[errorMsgCstrLen+1]
	return nil
}

func (r *ErrorMsg) Fill_Json(val *fastjson.Value, header *RHeader) error {
	r.Header = *header
	r.Err = string(val.GetStringBytes("err"))
	r.Code = uint8(val.GetUint("code"))
	r.IsLast = uint8(val.GetUint("is_last"))
	return nil
}

///////////////////////////////////////////////////////////////////////////////

// SystemMsg is a non-error message from the gateway, including heartbeats
// (spec §4.6 "System{heartbeat}: ignore for application purposes").
type SystemMsg struct {
	Header RHeader `json:"hd" csv:"hd"`
	Msg    string  `json:"msg" csv:"msg"`
	Code   uint8   `json:"code" csv:"code"`
}

const systemMsgCstrLen = 303
const SystemMsg_Size = RHeader_Size + systemMsgCstrLen + 1

func (*SystemMsg) RType() RType {
	return RType_System
}

func (*SystemMsg) RSize() uint8 {
	return 0xFF // exceeds uint8; see InstrumentDefMsg.RSize note
}

// IsHeartbeat returns true if this SystemMsg is a heartbeat (as opposed to a
// subscription-ack or other informational message).
func (r *SystemMsg) IsHeartbeat() bool {
	return r.Msg == "Heartbeat"
}

func (r *SystemMsg) Fill_Raw(b []byte) error {
	if len(b) < SystemMsg_Size {
		return unexpectedBytesError(len(b), SystemMsg_Size)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.Msg = TrimNullBytes(body[0:systemMsgCstrLen])
	r.Code = body[systemMsgCstrLen]
	return nil
}

func (r *SystemMsg) Fill_Json(val *fastjson.Value, header *RHeader) error {
	r.Header = *header
	r.Msg = string(val.GetStringBytes("msg"))
	r.Code = uint8(val.GetUint("code"))
	return nil
}

///////////////////////////////////////////////////////////////////////////////

// SymbolMappingMsg carries an in-stream instrument_id <-> raw_symbol mapping
// interval (spec §4.3 insert_symbol_mapping). Not a strict fixed byte layout:
// StypeInSymbol/StypeOutSymbol widths depend on the stream's Metadata.SymbolCstrLen.
type SymbolMappingMsg struct {
	Header         RHeader `json:"hd" csv:"hd"`
	StypeIn        SType   `json:"stype_in" csv:"stype_in"`
	StypeInSymbol  string  `json:"stype_in_symbol" csv:"stype_in_symbol"`
	StypeOut       SType   `json:"stype_out" csv:"stype_out"`
	StypeOutSymbol string  `json:"stype_out_symbol" csv:"stype_out_symbol"`
	StartTs        uint64  `json:"start_ts" csv:"start_ts"`
	EndTs          uint64  `json:"end_ts" csv:"end_ts"`
}

// SymbolMappingMsg_MinSize is the size with 0-length c-strings; actual size
// is this plus 2*cstrLength.
const SymbolMappingMsg_MinSize = RHeader_Size + 18

func (*SymbolMappingMsg) RType() RType {
	return RType_SymbolMapping
}

// RSize requires the stream's cstrLength and so cannot satisfy RecordPtr's
// zero-arg RSize(); SymbolMappingMsg is decoded directly by the scanner
// instead of through the generic DbnScannerDecode path.
func (*SymbolMappingMsg) RSizeForCstrLen(cstrLength uint16) uint16 {
	return SymbolMappingMsg_MinSize + 2*cstrLength
}

func (r *SymbolMappingMsg) Fill_Raw(b []byte, cstrLength uint16) error {
	rsize := r.RSizeForCstrLen(cstrLength)
	if len(b) < int(rsize) {
		return unexpectedBytesError(len(b), int(rsize))
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.StypeIn = SType(body[0])
	r.StypeInSymbol = TrimNullBytes(body[1 : 1+cstrLength])
	pos := 1 + cstrLength
	r.StypeOut = SType(body[pos])
	r.StypeOutSymbol = TrimNullBytes(body[pos+1 : pos+1+cstrLength])
	pos = pos + 1 + cstrLength
	r.StartTs = binary.LittleEndian.Uint64(body[pos : pos+8])
	r.EndTs = binary.LittleEndian.Uint64(body[pos+8 : pos+16])
	return nil
}

func (r *SymbolMappingMsg) Fill_Json(val *fastjson.Value, header *RHeader) error {
	r.Header = *header
	r.StypeIn = SType(val.GetUint("stype_in"))
	r.StypeInSymbol = string(val.GetStringBytes("stype_in_symbol"))
	r.StypeOut = SType(val.GetUint("stype_out"))
	r.StypeOutSymbol = string(val.GetStringBytes("stype_out_symbol"))
	r.StartTs = val.GetUint64("start_ts")
	r.EndTs = val.GetUint64("end_ts")
	return nil
}
