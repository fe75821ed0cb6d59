package dbn

import (
	"encoding/json"
	"strconv"
	"strings"
)

// InstrumentMap resolves an instrument_id to its raw_symbol over date ranges,
// accumulated from any of the three symbology sources the historical and
// live paths produce: a decoded Metadata prologue, a streamed
// SymbolMappingMsg, or a symbology.resolve JSON response. Grounded on
// TsSymbolMap's metadata-walking and inverse-mapping handling in
// symbol_map.go, generalized to all three source shapes.
type InstrumentMap struct {
	intervals map[uint32][]instrumentInterval
}

type instrumentInterval struct {
	StartDate uint32 // YYYYMMDD, inclusive
	EndDate   uint32 // YYYYMMDD, exclusive
	Symbol    string
}

func NewInstrumentMap() *InstrumentMap {
	return &InstrumentMap{
		intervals: make(map[uint32][]instrumentInterval),
	}
}

// IsEmpty returns true if there are no mapped intervals.
func (m *InstrumentMap) IsEmpty() bool {
	return len(m.intervals) == 0
}

func (m *InstrumentMap) append(id uint32, startDate, endDate uint32, symbol string) {
	if symbol == "" {
		return
	}
	for _, existing := range m.intervals[id] {
		if existing.StartDate == startDate && existing.EndDate == endDate && existing.Symbol == symbol {
			return // duplicate interval, skip (spec: not appended)
		}
	}
	m.intervals[id] = append(m.intervals[id], instrumentInterval{startDate, endDate, symbol})
}

// InsertMetadata walks a decoded Metadata's symbol mappings (spec §4.3
// insert_metadata), swapping interval/raw_symbol roles when the metadata
// describes an inverse mapping (stype_in == instrument_id).
func (m *InstrumentMap) InsertMetadata(meta *Metadata) error {
	isInverse, err := meta.IsInverseMapping()
	if err != nil {
		return err
	}
	for _, mapping := range meta.Mappings {
		if isInverse {
			id, err := strconv.ParseUint(mapping.RawSymbol, 10, 32)
			if err != nil {
				continue // not an instrument id; skip per spec ("parses as an unsigned integer id")
			}
			for _, interval := range mapping.Intervals {
				m.append(uint32(id), interval.StartDate, interval.EndDate, interval.Symbol)
			}
		} else {
			for _, interval := range mapping.Intervals {
				id, err := strconv.ParseUint(interval.Symbol, 10, 32)
				if err != nil {
					continue
				}
				m.append(uint32(id), interval.StartDate, interval.EndDate, mapping.RawSymbol)
			}
		}
	}
	return nil
}

// InsertSymbolMapping appends one interval from a streamed SymbolMappingMsg
// (spec §4.3 insert_symbol_mapping). Dates come from the message's StartTs/EndTs,
// mapped through to YMD via TimeToYMD.
func (m *InstrumentMap) InsertSymbolMapping(msg *SymbolMappingMsg) error {
	startDate := TimeToYMD(TimestampToTime(msg.StartTs))
	endDate := TimeToYMD(TimestampToTime(msg.EndTs))
	m.append(msg.Header.InstrumentID, startDate, endDate, msg.StypeOutSymbol)
	return nil
}

// symbologyResolveJson mirrors the shape of a Databento symbology.resolve
// response (hist.Resolution), unmarshaled independently here to avoid the
// dbn <-> hist import cycle.
type symbologyResolveJson struct {
	Result   map[string][]symbologyIntervalJson `json:"result"`
	StypeIn  SType                              `json:"stype_in"`
	StypeOut SType                              `json:"stype_out"`
}

type symbologyIntervalJson struct {
	StartDate string `json:"d0"`
	EndDate   string `json:"d1"`
	Symbol    string `json:"s"`
}

// InsertJson consumes a symbology.resolve-shaped JSON response (spec §4.3
// insert_json). Exactly one of stype_in/stype_out must be instrument_id;
// otherwise returns ErrInvalidMapping.
func (m *InstrumentMap) InsertJson(data []byte) error {
	var resp symbologyResolveJson
	if err := json.Unmarshal(data, &resp); err != nil {
		return err
	}
	inIsInstrumentId := resp.StypeIn == SType_InstrumentId
	outIsInstrumentId := resp.StypeOut == SType_InstrumentId
	if inIsInstrumentId == outIsInstrumentId {
		return &InvalidMappingError{Reason: "exactly one of stype_in/stype_out must be instrument_id"}
	}

	for symbolIn, mappedIntervals := range resp.Result {
		for _, interval := range mappedIntervals {
			startDate, err := strconv.ParseUint(strings.ReplaceAll(interval.StartDate, "-", ""), 10, 32)
			if err != nil {
				continue
			}
			endDate, err := strconv.ParseUint(strings.ReplaceAll(interval.EndDate, "-", ""), 10, 32)
			if err != nil {
				continue
			}
			if inIsInstrumentId {
				id, err := strconv.ParseUint(symbolIn, 10, 32)
				if err != nil {
					continue
				}
				m.append(uint32(id), uint32(startDate), uint32(endDate), interval.Symbol)
			} else {
				id, err := strconv.ParseUint(interval.Symbol, 10, 32)
				if err != nil {
					continue
				}
				m.append(uint32(id), uint32(startDate), uint32(endDate), symbolIn)
			}
		}
	}
	return nil
}

// Resolve returns the raw symbol mapped to id on date (YYYYMMDD), and
// whether a mapping was found. resolve is pure: it never mutates the map.
// Intervals are searched in insertion order; the first match wins.
func (m *InstrumentMap) Resolve(id uint32, date uint32) (string, bool) {
	for _, interval := range m.intervals[id] {
		if date >= interval.StartDate && date < interval.EndDate {
			return interval.Symbol, true
		}
	}
	return "", false
}
