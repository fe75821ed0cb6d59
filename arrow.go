// Copyright (c) 2025 Neomantra Corp

package dbn

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// arrowSchemaFor returns the arrow.Schema used to project schema into Arrow
// columns for ToNdarray/ToDataFrame. Only the schemas listed in the switch
// below are supported; any other schema (Schema_Mbp10, Schema_Definition,
// Schema_Mixed, ...) is rejected here with an error wrapping
// ErrMixedStreamSchemaMissing.
func arrowSchemaFor(schema Schema, prettyTs bool, mapSymbols bool) (*arrow.Schema, error) {
	tsType := arrow.DataType(arrow.PrimitiveTypes.Uint64)
	if prettyTs {
		tsType = arrow.FixedWidthTypes.Timestamp_ns
	}

	fields := []arrow.Field{
		{Name: "ts_event", Type: tsType},
		{Name: "instrument_id", Type: arrow.PrimitiveTypes.Uint32},
	}

	switch schema {
	case Schema_Trades:
		fields = append(fields,
			arrow.Field{Name: "ts_recv", Type: tsType},
			arrow.Field{Name: "action", Type: arrow.BinaryTypes.String},
			arrow.Field{Name: "side", Type: arrow.BinaryTypes.String},
			arrow.Field{Name: "price", Type: arrow.PrimitiveTypes.Float64},
			arrow.Field{Name: "size", Type: arrow.PrimitiveTypes.Uint32},
		)
	case Schema_Mbp1, Schema_Tbbo:
		fields = append(fields,
			arrow.Field{Name: "ts_recv", Type: tsType},
			arrow.Field{Name: "action", Type: arrow.BinaryTypes.String},
			arrow.Field{Name: "side", Type: arrow.BinaryTypes.String},
			arrow.Field{Name: "price", Type: arrow.PrimitiveTypes.Float64},
			arrow.Field{Name: "size", Type: arrow.PrimitiveTypes.Uint32},
			arrow.Field{Name: "bid_px", Type: arrow.PrimitiveTypes.Float64},
			arrow.Field{Name: "ask_px", Type: arrow.PrimitiveTypes.Float64},
			arrow.Field{Name: "bid_sz", Type: arrow.PrimitiveTypes.Uint32},
			arrow.Field{Name: "ask_sz", Type: arrow.PrimitiveTypes.Uint32},
		)
	case Schema_Mbo:
		fields = append(fields,
			arrow.Field{Name: "ts_recv", Type: tsType},
			arrow.Field{Name: "order_id", Type: arrow.PrimitiveTypes.Uint64},
			arrow.Field{Name: "action", Type: arrow.BinaryTypes.String},
			arrow.Field{Name: "side", Type: arrow.BinaryTypes.String},
			arrow.Field{Name: "price", Type: arrow.PrimitiveTypes.Float64},
			arrow.Field{Name: "size", Type: arrow.PrimitiveTypes.Uint32},
		)
	case Schema_Ohlcv1S, Schema_Ohlcv1M, Schema_Ohlcv1H, Schema_Ohlcv1D, Schema_OhlcvEod:
		fields = append(fields,
			arrow.Field{Name: "open", Type: arrow.PrimitiveTypes.Float64},
			arrow.Field{Name: "high", Type: arrow.PrimitiveTypes.Float64},
			arrow.Field{Name: "low", Type: arrow.PrimitiveTypes.Float64},
			arrow.Field{Name: "close", Type: arrow.PrimitiveTypes.Float64},
			arrow.Field{Name: "volume", Type: arrow.PrimitiveTypes.Uint64},
		)
	case Schema_Imbalance:
		fields = append(fields,
			arrow.Field{Name: "ts_recv", Type: tsType},
			arrow.Field{Name: "ref_price", Type: arrow.PrimitiveTypes.Float64},
			arrow.Field{Name: "paired_qty", Type: arrow.PrimitiveTypes.Uint32},
			arrow.Field{Name: "total_imbalance_qty", Type: arrow.PrimitiveTypes.Uint32},
		)
	case Schema_Statistics:
		fields = append(fields,
			arrow.Field{Name: "ts_recv", Type: tsType},
			arrow.Field{Name: "stat_type", Type: arrow.PrimitiveTypes.Uint16},
			arrow.Field{Name: "price", Type: arrow.PrimitiveTypes.Float64},
			arrow.Field{Name: "quantity", Type: arrow.PrimitiveTypes.Int32},
		)
	case Schema_Status:
		fields = append(fields,
			arrow.Field{Name: "ts_recv", Type: tsType},
			arrow.Field{Name: "action", Type: arrow.PrimitiveTypes.Uint16},
			arrow.Field{Name: "reason", Type: arrow.PrimitiveTypes.Uint16},
		)
	default:
		return nil, fmt.Errorf("%w: to_ndarray/to_df for schema %s", ErrMixedStreamSchemaMissing, schema.String())
	}

	if mapSymbols {
		fields = append(fields, arrow.Field{Name: "symbol", Type: arrow.BinaryTypes.String})
	}
	return arrow.NewSchema(fields, nil), nil
}

// ndarrayBuilder appends one decoded record's worth of values to an Arrow
// RecordBuilder whose schema came from arrowSchemaFor.
type ndarrayBuilder struct {
	schema     Schema
	bldr       *array.RecordBuilder
	prettyTs   bool
	mapSymbols bool
	priceType  PriceType
	imap       *InstrumentMap
}

func (b *ndarrayBuilder) appendTs(field int, ns uint64) {
	if b.prettyTs {
		b.bldr.Field(field).(*array.TimestampBuilder).Append(arrow.Timestamp(ns))
	} else {
		b.bldr.Field(field).(*array.Uint64Builder).Append(ns)
	}
}

func (b *ndarrayBuilder) appendSymbol(field int, header *RHeader) {
	if !b.mapSymbols {
		return
	}
	date := TimeToYMD(TimestampToTime(header.TsEvent))
	sym, _ := b.imap.Resolve(header.InstrumentID, date)
	b.bldr.Field(field).(*array.StringBuilder).Append(sym)
}

func (b *ndarrayBuilder) append(header *RHeader, values ...any) {
	b.appendTs(0, header.TsEvent)
	b.bldr.Field(1).(*array.Uint32Builder).Append(header.InstrumentID)

	i := 2
	for _, v := range values {
		switch val := v.(type) {
		case uint64:
			b.bldr.Field(i).(*array.Uint64Builder).Append(val)
		case uint32:
			b.bldr.Field(i).(*array.Uint32Builder).Append(val)
		case uint16:
			b.bldr.Field(i).(*array.Uint16Builder).Append(val)
		case int32:
			b.bldr.Field(i).(*array.Int32Builder).Append(val)
		case string:
			b.bldr.Field(i).(*array.StringBuilder).Append(val)
		case tsValue:
			b.appendTs(i, uint64(val))
		case priceValue:
			b.bldr.Field(i).(*array.Float64Builder).Append(Fixed9ToFloat64(int64(val)))
		default:
			panic(fmt.Sprintf("ndarrayBuilder: unsupported value type %T", v))
		}
		i++
	}
	if b.mapSymbols {
		b.appendSymbol(i, header)
	}
}

// tsValue and priceValue distinguish raw ns-timestamps and fixed9 prices
// from plain uint64/int64 fields when passed to ndarrayBuilder.append.
type tsValue uint64
type priceValue int64

// ToNdarray yields one or more arrow.Record batches for schema, each holding
// at most count records (0 means unbounded: a single batch with everything),
// per spec §4.2 "to_ndarray()". yield is called once per batch; returning an
// error from yield stops iteration.
func (s *DBNStore) ToNdarray(schema Schema, count int, yield func(arrow.Record) error) error {
	return s.toArrow(schema, count, false, false, PriceType_Fixed, yield)
}

// ToDataFrame yields arrow.Record batches with timestamp formatting and an
// optional resolved symbol column applied, per spec §4.2 "to_df()". Price
// columns are always float64 (the fixed-point value divided by 1e9);
// priceType does not change them.
func (s *DBNStore) ToDataFrame(schema Schema, priceType PriceType, prettyTs bool, mapSymbols bool, count int, yield func(arrow.Record) error) error {
	return s.toArrow(schema, count, prettyTs, mapSymbols, priceType, yield)
}

func (s *DBNStore) toArrow(schema Schema, count int, prettyTs bool, mapSymbols bool, priceType PriceType, yield func(arrow.Record) error) error {
	arrowSchema, err := arrowSchemaFor(schema, prettyTs, mapSymbols)
	if err != nil {
		return err
	}

	mem := memory.NewGoAllocator()
	b := &ndarrayBuilder{
		schema:     schema,
		bldr:       array.NewRecordBuilder(mem, arrowSchema),
		prettyTs:   prettyTs,
		mapSymbols: mapSymbols,
		priceType:  priceType,
		imap:       s.instrumentMap,
	}
	defer b.bldr.Release()

	rows := 0
	flush := func() error {
		if rows == 0 {
			return nil
		}
		rec := b.bldr.NewRecord()
		defer rec.Release()
		rows = 0
		return yield(rec)
	}

	reader, closer, err := MakeCompressedReader(s.filename, s.useZstd)
	if err != nil {
		return err
	}
	defer func() {
		if closer != nil {
			closer.Close()
		}
	}()

	scanner := NewDbnScanner(reader)
	if _, err := scanner.Metadata(); err != nil {
		return err
	}

	visitor := &arrowVisitor{b: b, schema: schema}
	for scanner.Next() {
		if err := scanner.Visit(visitor); err != nil {
			return err
		}
		if visitor.appended {
			visitor.appended = false
			rows++
			if count > 0 && rows >= count {
				if err := flush(); err != nil {
					return err
				}
			}
		}
	}
	if err := scanner.Error(); err != nil && err != io.EOF {
		return fmt.Errorf("scanner error: %w", err)
	}
	return flush()
}

// arrowVisitor routes decoded records matching the requested schema into an
// ndarrayBuilder; records of any other schema are skipped, matching
// to_ndarray's "filters by rtype" behavior for heterogeneous streams.
type arrowVisitor struct {
	NullVisitor
	b        *ndarrayBuilder
	schema   Schema
	appended bool
}

func (v *arrowVisitor) OnMbp0(r *Mbp0Msg) error {
	if v.schema != Schema_Trades {
		return nil
	}
	v.b.append(&r.Header, tsValue(r.TsRecv), string(rune(r.Action)), string(rune(r.Side)), priceValue(r.Price), r.Size)
	v.appended = true
	return nil
}

func (v *arrowVisitor) OnMbp1(r *Mbp1Msg) error {
	if v.schema != Schema_Mbp1 && v.schema != Schema_Tbbo {
		return nil
	}
	v.b.append(&r.Header, tsValue(r.TsRecv), string(rune(r.Action)), string(rune(r.Side)), priceValue(r.Price), r.Size,
		priceValue(r.Level.BidPx), priceValue(r.Level.AskPx), r.Level.BidSize, r.Level.AskSize)
	v.appended = true
	return nil
}

func (v *arrowVisitor) OnMbp10(r *Mbp10Msg) error {
	return nil // Schema_Mbp10 ndarray projection isn't modeled; depth-10 levels need a nested layout.
}

func (v *arrowVisitor) OnMbo(r *MboMsg) error {
	if v.schema != Schema_Mbo {
		return nil
	}
	v.b.append(&r.Header, tsValue(r.TsRecv), r.OrderID, string(rune(r.Action)), string(rune(r.Side)), priceValue(r.Price), r.Size)
	v.appended = true
	return nil
}

func (v *arrowVisitor) OnOhlcv(r *OhlcvMsg) error {
	switch v.schema {
	case Schema_Ohlcv1S, Schema_Ohlcv1M, Schema_Ohlcv1H, Schema_Ohlcv1D, Schema_OhlcvEod:
	default:
		return nil
	}
	v.b.append(&r.Header, priceValue(r.Open), priceValue(r.High), priceValue(r.Low), priceValue(r.Close), r.Volume)
	v.appended = true
	return nil
}

func (v *arrowVisitor) OnImbalance(r *ImbalanceMsg) error {
	if v.schema != Schema_Imbalance {
		return nil
	}
	v.b.append(&r.Header, tsValue(r.TsRecv), priceValue(r.RefPrice), r.PairedQty, r.TotalImbalanceQty)
	v.appended = true
	return nil
}

func (v *arrowVisitor) OnStatMsg(r *StatMsg) error {
	if v.schema != Schema_Statistics {
		return nil
	}
	v.b.append(&r.Header, tsValue(r.TsRecv), uint16(r.StatType), priceValue(r.Price), r.Quantity)
	v.appended = true
	return nil
}

func (v *arrowVisitor) OnStatusMsg(r *StatusMsg) error {
	if v.schema != Schema_Status {
		return nil
	}
	v.b.append(&r.Header, tsValue(r.TsRecv), uint16(r.Action), uint16(r.Reason))
	v.appended = true
	return nil
}
