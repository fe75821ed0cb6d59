// Copyright (c) 2024 Neomantra Corp

package dbn

import (
	"bytes"
	"strings"
	"time"

	"github.com/neomantra/ymdflag"
)

// Fixed9ToFloat64 converts a DBN fixed-point price (scale 1e-9) to a float64.
// UNDEF_PRICE converts to NaN, per spec §4.2 "Price formatting".
func Fixed9ToFloat64(fixed int64) float64 {
	if fixed == UNDEF_PRICE {
		return nan()
	}
	return float64(fixed) / float64(FIXED_PRICE_SCALE)
}

func nan() float64 {
	var zero float64
	return zero / zero
}

// TrimNullBytes removes trailing nulls from a byte slice and returns a string.
func TrimNullBytes(b []byte) string {
	return string(bytes.TrimRight(b, "\x00"))
}

// TimestampToSecNanos converts a DBN timestamp to seconds and nanoseconds.
func TimestampToSecNanos(dbnTimestamp uint64) (int64, int64) {
	secs := int64(dbnTimestamp / 1e9)
	nano := int64(dbnTimestamp) - int64(secs*1e9)
	return secs, nano
}

// TimestampToTime converts a DBN ns-since-epoch timestamp to a UTC time.Time.
// UNDEF_TIMESTAMP converts to the zero time (spec §4.2 pretty_ts: "NaT").
func TimestampToTime(dbnTimestamp uint64) time.Time {
	if dbnTimestamp == UNDEF_TIMESTAMP {
		return time.Time{}
	}
	secs := int64(dbnTimestamp / 1e9)
	nano := int64(dbnTimestamp) - int64(secs*1e9)
	return time.Unix(secs, nano).UTC()
}

// TimeToYMD returns the YYYYMMDD for the time.Time, delegating to ymdflag so
// that the wire date representation used by InstrumentMap intervals and file
// splitting stays consistent across the module.
func TimeToYMD(t time.Time) uint32 {
	if t.IsZero() {
		return 0
	}
	return uint32(ymdflag.TimeToYMD(t))
}

// YMDToTime converts a YYYYMMDD value back to a UTC time.Time at midnight.
func YMDToTime(ymd uint32) time.Time {
	if ymd == 0 {
		return time.Time{}
	}
	year := int(ymd / 10000)
	month := int((ymd / 100) % 100)
	day := int(ymd % 100)
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// DatasetToHostname converts a dataset code ("GLBX.MDP3") to the live
// gateway hostname segment Databento expects it at ("glbx-mdp3"): lowercase
// with the publisher/source dot replaced by a dash.
func DatasetToHostname(dataset string) string {
	return strings.ReplaceAll(strings.ToLower(dataset), ".", "-")
}
