// Copyright (c) 2025 Neomantra Corp

package dbn

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	sjson "github.com/segmentio/encoding/json"
)

// TranscodeFormat selects the output format of a Transcoder.
type TranscodeFormat int

const (
	TranscodeFormat_CSV TranscodeFormat = iota
	TranscodeFormat_JSON
)

// PriceType controls how Transcoder formats fixed-point price fields (spec
// §4.2 "Price formatting"). The arrow projections always emit float64 prices.
type PriceType int

const (
	PriceType_Fixed PriceType = iota
	PriceType_Float
	PriceType_Decimal
)

// formatPrice renders a raw fixed-point price per the requested PriceType.
// UNDEF_PRICE becomes an empty string for every PriceType, matching the CSV
// null convention; callers doing float formatting should prefer
// Fixed9ToFloat64 directly so NaN survives as a numeric type.
func formatPrice(raw int64, pt PriceType) string {
	if raw == UNDEF_PRICE {
		return ""
	}
	switch pt {
	case PriceType_Float:
		return strconv.FormatFloat(Fixed9ToFloat64(raw), 'f', -1, 64)
	case PriceType_Decimal:
		neg := ""
		if raw < 0 {
			neg = "-"
			raw = -raw
		}
		whole := raw / FIXED_PRICE_SCALE
		frac := raw % FIXED_PRICE_SCALE
		return fmt.Sprintf("%s%d.%09d", neg, whole, frac)
	default:
		return strconv.FormatInt(raw, 10)
	}
}

// formatTs renders a ns-since-epoch timestamp, optionally as an RFC3339Nano
// UTC instant (spec §4.2 "pretty_ts"). UNDEF_TIMESTAMP formats as empty.
func formatTs(raw uint64, pretty bool) string {
	if raw == UNDEF_TIMESTAMP {
		return ""
	}
	if !pretty {
		return strconv.FormatUint(raw, 10)
	}
	return TimestampToTime(raw).Format("2006-01-02T15:04:05.000000000Z")
}

// Transcoder is a streaming byte-in/byte-out filter that turns a decoded DBN
// record stream into CSV or newline-delimited JSON (spec §4.2 "Transcoder
// contract"). Callers feed it whole, already-framed records (as produced by
// DbnScanner/DecodedReader); Write buffers any partial trailing record across
// calls and Flush reports Corrupt{"truncated"} if a partial record remains.
type Transcoder struct {
	format     TranscodeFormat
	out        io.Writer
	csvw       *csv.Writer
	priceType  PriceType
	prettyTs   bool
	mapSymbols bool
	imap       *InstrumentMap

	// symbolCstrLen is the wire width of SymbolMapping's fixed cstr fields,
	// taken from the stream's Metadata (spec §4.1 "Upgrade policy" --
	// version-dependent record shapes).
	symbolCstrLen uint16

	buf         []byte
	wroteHeader bool
	lastSchema  Schema
}

// NewTranscoder creates a Transcoder writing format-encoded records to out.
// symbolCstrLen is the stream's Metadata.SymbolCstrLen, needed to decode
// SymbolMapping records; pass 0 if the stream contains none.
func NewTranscoder(format TranscodeFormat, out io.Writer, priceType PriceType, prettyTs bool, symbolCstrLen uint16) *Transcoder {
	t := &Transcoder{
		format:        format,
		out:           out,
		priceType:     priceType,
		prettyTs:      prettyTs,
		symbolCstrLen: symbolCstrLen,
	}
	if format == TranscodeFormat_CSV {
		t.csvw = csv.NewWriter(out)
	}
	return t
}

// SetInstrumentMap fills the CSV `symbol` column, resolved per-row from m
// by the row's ts_event date. Without it the column is written empty.
func (t *Transcoder) SetInstrumentMap(m *InstrumentMap) {
	t.imap = m
	t.mapSymbols = (m != nil)
}

// Write implements io.Writer over a stream of whole or partial DBN records.
// Any bytes that don't make up a complete record are buffered for the next
// call.
func (t *Transcoder) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	for {
		if len(t.buf) < 1 {
			break
		}
		recordLen := 4 * int(t.buf[0])
		if recordLen < RHeader_Size || len(t.buf) < recordLen {
			break
		}
		record := t.buf[:recordLen]
		if err := t.emit(record); err != nil {
			return len(p), err
		}
		t.buf = t.buf[recordLen:]
	}
	return len(p), nil
}

// Flush finalizes the output. A non-empty internal buffer indicates the
// input ended mid-record and is reported as Corrupt{"truncated"}.
func (t *Transcoder) Flush() error {
	if t.csvw != nil {
		t.csvw.Flush()
		if err := t.csvw.Error(); err != nil {
			return err
		}
	}
	if len(t.buf) != 0 {
		return newCorruptError("truncated")
	}
	return nil
}

func (t *Transcoder) symbolFor(header *RHeader) string {
	if !t.mapSymbols {
		return ""
	}
	date := TimeToYMD(TimestampToTime(header.TsEvent))
	sym, _ := t.imap.Resolve(header.InstrumentID, date)
	return sym
}

// emit decodes one raw record and writes it in the configured format.
func (t *Transcoder) emit(raw []byte) error {
	var header RHeader
	if err := header.Fill_Raw(raw[:RHeader_Size]); err != nil {
		return err
	}

	switch header.RType {
	case RType_Mbp0:
		var r Mbp0Msg
		if err := r.Fill_Raw(raw); err != nil {
			return err
		}
		return t.emitRow(Schema_Trades, &r.Header, []string{"ts_recv", "ts_event", "instrument_id", "action", "side", "price", "size", "flags", "sequence", "symbol"},
			[]string{
				formatTs(r.TsRecv, t.prettyTs), formatTs(r.Header.TsEvent, t.prettyTs), strconv.FormatUint(uint64(r.Header.InstrumentID), 10),
				string(rune(r.Action)), string(rune(r.Side)), formatPrice(r.Price, t.priceType), strconv.FormatUint(uint64(r.Size), 10),
				strconv.Itoa(int(r.Flags)), strconv.FormatUint(uint64(r.Sequence), 10), t.symbolFor(&r.Header),
			}, &r)
	case RType_Mbp1:
		var r Mbp1Msg
		if err := r.Fill_Raw(raw); err != nil {
			return err
		}
		return t.emitRow(Schema_Mbp1, &r.Header, []string{"ts_recv", "ts_event", "instrument_id", "action", "side", "price", "size", "bid_px", "ask_px", "bid_sz", "ask_sz", "symbol"},
			[]string{
				formatTs(r.TsRecv, t.prettyTs), formatTs(r.Header.TsEvent, t.prettyTs), strconv.FormatUint(uint64(r.Header.InstrumentID), 10),
				string(rune(r.Action)), string(rune(r.Side)), formatPrice(r.Price, t.priceType), strconv.FormatUint(uint64(r.Size), 10),
				formatPrice(r.Level.BidPx, t.priceType), formatPrice(r.Level.AskPx, t.priceType),
				strconv.FormatUint(uint64(r.Level.BidSize), 10), strconv.FormatUint(uint64(r.Level.AskSize), 10), t.symbolFor(&r.Header),
			}, &r)
	case RType_Mbp10:
		var r Mbp10Msg
		if err := r.Fill_Raw(raw); err != nil {
			return err
		}
		return t.emitRow(Schema_Mbp10, &r.Header, []string{"ts_recv", "ts_event", "instrument_id", "action", "side", "price", "size", "symbol"},
			[]string{
				formatTs(r.TsRecv, t.prettyTs), formatTs(r.Header.TsEvent, t.prettyTs), strconv.FormatUint(uint64(r.Header.InstrumentID), 10),
				string(rune(r.Action)), string(rune(r.Side)), formatPrice(r.Price, t.priceType), strconv.FormatUint(uint64(r.Size), 10), t.symbolFor(&r.Header),
			}, &r)
	case RType_Mbo:
		var r MboMsg
		if err := r.Fill_Raw(raw); err != nil {
			return err
		}
		return t.emitRow(Schema_Mbo, &r.Header, []string{"ts_recv", "ts_event", "instrument_id", "order_id", "action", "side", "price", "size", "symbol"},
			[]string{
				formatTs(r.TsRecv, t.prettyTs), formatTs(r.Header.TsEvent, t.prettyTs), strconv.FormatUint(uint64(r.Header.InstrumentID), 10),
				strconv.FormatUint(r.OrderID, 10), string(rune(r.Action)), string(rune(r.Side)), formatPrice(r.Price, t.priceType),
				strconv.FormatUint(uint64(r.Size), 10), t.symbolFor(&r.Header),
			}, &r)
	case RType_Ohlcv1S, RType_Ohlcv1M, RType_Ohlcv1H, RType_Ohlcv1D, RType_OhlcvEod:
		var r OhlcvMsg
		if err := r.Fill_Raw(raw); err != nil {
			return err
		}
		return t.emitRow(Schema_Ohlcv1S, &r.Header, []string{"ts_event", "instrument_id", "open", "high", "low", "close", "volume", "symbol"},
			[]string{
				formatTs(r.Header.TsEvent, t.prettyTs), strconv.FormatUint(uint64(r.Header.InstrumentID), 10),
				formatPrice(r.Open, t.priceType), formatPrice(r.High, t.priceType), formatPrice(r.Low, t.priceType),
				formatPrice(r.Close, t.priceType), strconv.FormatUint(r.Volume, 10), t.symbolFor(&r.Header),
			}, &r)
	case RType_Imbalance:
		var r ImbalanceMsg
		if err := r.Fill_Raw(raw); err != nil {
			return err
		}
		return t.emitRow(Schema_Imbalance, &r.Header, []string{"ts_recv", "ts_event", "instrument_id", "ref_price", "paired_qty", "total_imbalance_qty", "symbol"},
			[]string{
				formatTs(r.TsRecv, t.prettyTs), formatTs(r.Header.TsEvent, t.prettyTs), strconv.FormatUint(uint64(r.Header.InstrumentID), 10),
				formatPrice(r.RefPrice, t.priceType), strconv.FormatUint(uint64(r.PairedQty), 10), strconv.FormatUint(uint64(r.TotalImbalanceQty), 10), t.symbolFor(&r.Header),
			}, &r)
	case RType_Statistics:
		var r StatMsg
		if err := r.Fill_Raw(raw); err != nil {
			return err
		}
		return t.emitRow(Schema_Statistics, &r.Header, []string{"ts_recv", "ts_event", "instrument_id", "stat_type", "price", "quantity", "symbol"},
			[]string{
				formatTs(r.TsRecv, t.prettyTs), formatTs(r.Header.TsEvent, t.prettyTs), strconv.FormatUint(uint64(r.Header.InstrumentID), 10),
				strconv.Itoa(int(r.StatType)), formatPrice(r.Price, t.priceType), strconv.FormatInt(int64(r.Quantity), 10), t.symbolFor(&r.Header),
			}, &r)
	case RType_Status:
		var r StatusMsg
		if err := r.Fill_Raw(raw); err != nil {
			return err
		}
		return t.emitRow(Schema_Status, &r.Header, []string{"ts_recv", "ts_event", "instrument_id", "action", "reason", "trading_event", "symbol"},
			[]string{
				formatTs(r.TsRecv, t.prettyTs), formatTs(r.Header.TsEvent, t.prettyTs), strconv.FormatUint(uint64(r.Header.InstrumentID), 10),
				strconv.Itoa(int(r.Action)), strconv.Itoa(int(r.Reason)), strconv.Itoa(int(r.TradingEvent)), t.symbolFor(&r.Header),
			}, &r)
	default:
		// System, Error, SymbolMapping, InstrumentDef and anything else pass
		// through as JSON-only rows; CSV emission of heterogeneous admin
		// records isn't meaningful against a fixed column header.
		if t.format == TranscodeFormat_JSON {
			return t.emitJsonRaw(raw, header.RType)
		}
		return nil
	}
}

// emitRow writes one record either as a CSV row (against the given header,
// writing the header once per schema change) or as JSON (marshaling the
// full typed record).
func (t *Transcoder) emitRow(schema Schema, header *RHeader, cols []string, vals []string, full any) error {
	if t.format == TranscodeFormat_JSON {
		b, err := sjson.Marshal(full)
		if err != nil {
			return err
		}
		if _, err := t.out.Write(b); err != nil {
			return err
		}
		_, err = t.out.Write([]byte{'\n'})
		return err
	}

	if !t.wroteHeader || t.lastSchema != schema {
		if err := t.csvw.Write(cols); err != nil {
			return err
		}
		t.wroteHeader = true
		t.lastSchema = schema
	}
	return t.csvw.Write(vals)
}

func (t *Transcoder) emitJsonRaw(raw []byte, rtype RType) error {
	var rec any
	switch rtype {
	case RType_Error:
		var r ErrorMsg
		if err := r.Fill_Raw(raw); err != nil {
			return err
		}
		rec = &r
	case RType_System:
		var r SystemMsg
		if err := r.Fill_Raw(raw); err != nil {
			return err
		}
		rec = &r
	case RType_SymbolMapping:
		var r SymbolMappingMsg
		if err := r.Fill_Raw(raw, t.symbolCstrLen); err != nil {
			return err
		}
		rec = &r
	case RType_InstrumentDef:
		var r InstrumentDefMsg
		if err := r.Fill_Raw(raw); err != nil {
			return err
		}
		rec = &r
	default:
		return nil
	}
	b, err := sjson.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := t.out.Write(b); err != nil {
		return err
	}
	_, err = t.out.Write([]byte{'\n'})
	return err
}
