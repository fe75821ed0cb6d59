// Copyright (c) 2024 Neomantra Corp
//
// Adapted from DataBento's DBN:
//   https://github.com/databento/dbn/blob/main/rust/dbn/src/enums.rs
//

package dbn

import (
	"encoding/json"
	"fmt"
)

// Side of a trade or order.
type Side uint8

const (
	// A sell order or sell aggressor in a trade.
	Side_Ask Side = 'A'
	// A buy order or a buy aggressor in a trade.
	Side_Bid Side = 'B'
	// No side specified by the original source.
	Side_None Side = 'N'
)

// Action of a market-by-order or market-by-price event.
type Action uint8

const (
	// An existing order was modified.
	Action_Modify Action = 'M'
	// A trade executed.
	Action_Trade Action = 'T'
	// An existing order was filled.
	Action_Fill Action = 'F'
	// An order was cancelled.
	Action_Cancel Action = 'C'
	// A new order was added.
	Action_Add Action = 'A'
	// Reset the book; clear all orders for an instrument.
	Action_Clear Action = 'R'
)

// InstrumentClass categorizes a tradable instrument.
type InstrumentClass uint8

const (
	// A bond.
	InstrumentClass_Bond InstrumentClass = 'B'
	// A call option.
	InstrumentClass_Call InstrumentClass = 'C'
	// A future.
	InstrumentClass_Future InstrumentClass = 'F'
	// A stock.
	InstrumentClass_Stock InstrumentClass = 'K'
	// A spread composed of multiple instrument classes.
	InstrumentClass_MixedSpread InstrumentClass = 'M'
	// A put option.
	InstrumentClass_Put InstrumentClass = 'P'
	// A spread composed of futures.
	InstrumentClass_FutureSpread InstrumentClass = 'S'
	// A spread composed of options.
	InstrumentClass_OptionSpread InstrumentClass = 'T'
	// A foreign exchange spot.
	InstrumentClass_FxSpot InstrumentClass = 'X'
)

// MatchAlgorithm used by a venue.
type MatchAlgorithm uint8

const (
	// First-in-first-out matching.
	MatchAlgorithm_Fifo MatchAlgorithm = 'F'
	// A configurable match algorithm.
	MatchAlgorithm_Configurable MatchAlgorithm = 'K'
	// Trade quantity is allocated to resting orders based on a pro-rata percentage.
	MatchAlgorithm_ProRata MatchAlgorithm = 'C'
	// Like Fifo but with LMM allocations prior to FIFO allocations.
	MatchAlgorithm_FifoLmm MatchAlgorithm = 'T'
	// Like ProRata but includes a configurable allocation for the first improving order.
	MatchAlgorithm_ThresholdProRata MatchAlgorithm = 'O'
	// Like FifoLmm but includes a configurable allocation for the first improving order.
	MatchAlgorithm_FifoTopLmm MatchAlgorithm = 'S'
	// Like ThresholdProRata but includes a special priority to LMMs.
	MatchAlgorithm_ThresholdProRataLmm MatchAlgorithm = 'Q'
	// Special variant used for Eurodollar futures on CME.
	MatchAlgorithm_EurodollarFutures MatchAlgorithm = 'Y'
)

// UserDefinedInstrument flags user-defined (synthetic) instruments.
type UserDefinedInstrument uint8

const (
	// The instrument is not user-defined.
	UserDefinedInstrument_No UserDefinedInstrument = 'N'
	// The instrument is user-defined.
	UserDefinedInstrument_Yes UserDefinedInstrument = 'Y'
)

// SType is the symbology type of a symbol reference.
type SType uint8

const (
	// Symbology using a unique numeric ID.
	SType_InstrumentId SType = 0
	// Symbology using the original symbols provided by the publisher.
	SType_RawSymbol SType = 1
	// Deprecated: a set of Databento-specific symbologies for groups of symbols.
	SType_Smart SType = 2
	// A Databento-specific symbology where one symbol may point to different
	// instruments at different points in time, e.g. to always refer to the front
	// month future.
	SType_Continuous SType = 3
	// A Databento-specific symbology referring to a group of symbols by one
	// "parent" symbol, e.g. ES.FUT for all ES futures.
	SType_Parent SType = 4
	// Symbology for US equities using NASDAQ Integrated suffix conventions.
	SType_Nasdaq SType = 5
	// Symbology for US equities using CMS suffix conventions.
	SType_Cms SType = 6
)

// String returns the wire representation of the SType, per the gateway control
// protocol and the symbology.resolve HTTP API.
func (s SType) String() string {
	switch s {
	case SType_InstrumentId:
		return "instrument_id"
	case SType_RawSymbol:
		return "raw_symbol"
	case SType_Smart:
		return "smart"
	case SType_Continuous:
		return "continuous"
	case SType_Parent:
		return "parent"
	case SType_Nasdaq:
		return "nasdaq"
	case SType_Cms:
		return "cms"
	}
	return ""
}

// STypeFromString parses the wire representation of an SType.
func STypeFromString(str string) (SType, error) {
	switch str {
	case "instrument_id":
		return SType_InstrumentId, nil
	case "raw_symbol":
		return SType_RawSymbol, nil
	case "smart":
		return SType_Smart, nil
	case "continuous":
		return SType_Continuous, nil
	case "parent":
		return SType_Parent, nil
	case "nasdaq":
		return SType_Nasdaq, nil
	case "cms":
		return SType_Cms, nil
	}
	return 0, fmt.Errorf("unknown stype: %q", str)
}

// MarshalJSON writes the SType using its wire string form, matching the
// gateway control protocol and symbology.resolve HTTP API.
func (s SType) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses an SType from its wire string form.
func (s *SType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	st, err := STypeFromString(str)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// RType tags the record layout of a DBN record.
type RType uint8

const (
	// comments from: https://github.com/databento/dbn/blob/main/rust/dbn/src/enums.rs
	RType_Mbp0            RType = 0x00 // market-by-price, depth 0 (Trades schema)
	RType_Mbp1            RType = 0x01 // market-by-price, depth 1 (also Tbbo schema)
	RType_Mbp10           RType = 0x0A // market-by-price, depth 10
	RType_OhlcvDeprecated RType = 0x11 // Deprecated in 0.4.0.
	RType_Ohlcv1S         RType = 0x20 // OHLCV at a 1-second cadence.
	RType_Ohlcv1M         RType = 0x21 // OHLCV at a 1-minute cadence.
	RType_Ohlcv1H         RType = 0x22 // OHLCV at an hourly cadence.
	RType_Ohlcv1D         RType = 0x23 // OHLCV at a daily cadence based on the UTC date.
	RType_OhlcvEod        RType = 0x24 // OHLCV at a daily cadence based on end of session.
	RType_Status          RType = 0x12 // Exchange status record.
	RType_InstrumentDef   RType = 0x13 // Instrument definition record.
	RType_Imbalance       RType = 0x14 // Order imbalance record.
	RType_Error           RType = 0x15 // Error from gateway.
	RType_SymbolMapping   RType = 0x16 // Symbol mapping record.
	RType_System          RType = 0x17 // Non-error message from gateway; also heartbeats.
	RType_Statistics      RType = 0x18 // Statistics record from the publisher.
	RType_Mbo             RType = 0xA0 // Market by order record.
	RType_Unknown         RType = 0xFF // Go-only: unknown or invalid record type.
)

// Schema identifies a particular record layout.
type Schema uint16

const (
	// u16::MAX indicates a potential mix of schemas/record types; always the case
	// for live data until a single schema is subscribed.
	Schema_Mixed Schema = 0xFFFF
	// Market by order.
	Schema_Mbo Schema = 0
	// Market by price with a book depth of 1.
	Schema_Mbp1 Schema = 1
	// Market by price with a book depth of 10.
	Schema_Mbp10 Schema = 2
	// All trade events with the BBO immediately before the effect of the trade.
	Schema_Tbbo Schema = 3
	// All trade events.
	Schema_Trades Schema = 4
	// OHLCV at a one-second interval.
	Schema_Ohlcv1S Schema = 5
	// OHLCV at a one-minute interval.
	Schema_Ohlcv1M Schema = 6
	// OHLCV at an hourly interval.
	Schema_Ohlcv1H Schema = 7
	// OHLCV at a daily interval based on the UTC date.
	Schema_Ohlcv1D Schema = 8
	// Instrument definitions.
	Schema_Definition Schema = 9
	// Additional data disseminated by publishers.
	Schema_Statistics Schema = 10
	// Trading status events.
	Schema_Status Schema = 11
	// Auction imbalance events.
	Schema_Imbalance Schema = 12
	// OHLCV at a daily cadence based on the end of the trading session.
	Schema_OhlcvEod Schema = 13
)

// String returns the wire name of the Schema, used in gateway subscription
// messages and HTTP query parameters.
func (s Schema) String() string {
	switch s {
	case Schema_Mbo:
		return "mbo"
	case Schema_Mbp1:
		return "mbp-1"
	case Schema_Mbp10:
		return "mbp-10"
	case Schema_Tbbo:
		return "tbbo"
	case Schema_Trades:
		return "trades"
	case Schema_Ohlcv1S:
		return "ohlcv-1s"
	case Schema_Ohlcv1M:
		return "ohlcv-1m"
	case Schema_Ohlcv1H:
		return "ohlcv-1h"
	case Schema_Ohlcv1D:
		return "ohlcv-1d"
	case Schema_Definition:
		return "definition"
	case Schema_Statistics:
		return "statistics"
	case Schema_Status:
		return "status"
	case Schema_Imbalance:
		return "imbalance"
	case Schema_OhlcvEod:
		return "ohlcv-eod"
	case Schema_Mixed:
		return "mixed"
	}
	return ""
}

// SchemaFromString parses the wire name of a Schema.
func SchemaFromString(str string) (Schema, error) {
	switch str {
	case "mbo":
		return Schema_Mbo, nil
	case "mbp-1":
		return Schema_Mbp1, nil
	case "mbp-10":
		return Schema_Mbp10, nil
	case "tbbo":
		return Schema_Tbbo, nil
	case "trades":
		return Schema_Trades, nil
	case "ohlcv-1s":
		return Schema_Ohlcv1S, nil
	case "ohlcv-1m":
		return Schema_Ohlcv1M, nil
	case "ohlcv-1h":
		return Schema_Ohlcv1H, nil
	case "ohlcv-1d":
		return Schema_Ohlcv1D, nil
	case "definition":
		return Schema_Definition, nil
	case "statistics":
		return Schema_Statistics, nil
	case "status":
		return Schema_Status, nil
	case "imbalance":
		return Schema_Imbalance, nil
	case "ohlcv-eod":
		return Schema_OhlcvEod, nil
	case "mixed", "":
		return Schema_Mixed, nil
	}
	return 0, fmt.Errorf("unknown schema: %q", str)
}

// Encoding is a data encoding format.
type Encoding uint8

const (
	// Databento Binary Encoding.
	Encoding_Dbn Encoding = 0
	// Comma-separated values.
	Encoding_Csv Encoding = 1
	// JavaScript object notation.
	Encoding_Json Encoding = 2
)

func (e Encoding) String() string {
	switch e {
	case Encoding_Dbn:
		return "dbn"
	case Encoding_Csv:
		return "csv"
	case Encoding_Json:
		return "json"
	}
	return ""
}

// EncodingFromString parses the wire representation of an Encoding ("dbn",
// "csv", "json"), as used by GatewayCodec's AuthenticationRequest "encoding"
// field.
func EncodingFromString(s string) (Encoding, error) {
	switch s {
	case "dbn":
		return Encoding_Dbn, nil
	case "csv":
		return Encoding_Csv, nil
	case "json":
		return Encoding_Json, nil
	}
	return 0, fmt.Errorf("unknown encoding %q", s)
}

// Compression format, or none if uncompressed.
type Compression uint8

const (
	// Uncompressed.
	Compression_None Compression = 0
	// Zstandard compressed.
	Compression_ZStd Compression = 1
)

func (c Compression) String() string {
	switch c {
	case Compression_None:
		return "none"
	case Compression_ZStd:
		return "zstd"
	}
	return ""
}

// Bit flag constants for the RHeader-adjacent `flags` record field.
const (
	// Indicates the last message in the packet from the venue for a given instrument_id.
	RFlag_LAST uint8 = 1 << 7
	// Indicates a top-of-book message, not an individual order.
	RFlag_TOB uint8 = 1 << 6
	// Indicates the message was sourced from a replay, such as a snapshot server.
	RFlag_SNAPSHOT uint8 = 1 << 5
	// Indicates an aggregated price level message, not an individual order.
	RFlag_MBP uint8 = 1 << 4
	// Indicates the ts_recv value is inaccurate due to clock issues or packet reordering.
	RFlag_BAD_TS_RECV uint8 = 1 << 3
	// Indicates an unrecoverable gap was detected in the channel.
	RFlag_MAYBE_BAD_BOOK uint8 = 1 << 2
)

// SecurityUpdateAction is the type of InstrumentDefMsg update.
type SecurityUpdateAction uint8

const (
	// A new instrument definition.
	SecurityUpdateAction_Add SecurityUpdateAction = 'A'
	// A modified instrument definition of an existing one.
	SecurityUpdateAction_Modify SecurityUpdateAction = 'M'
	// Removal of an instrument definition.
	SecurityUpdateAction_Delete SecurityUpdateAction = 'D'
	// Deprecated: still present in legacy files.
	SecurityUpdateAction_Invalid SecurityUpdateAction = '~'
)

// StatType is the type of statistic contained in a StatMsg.
type StatType uint16

const (
	// The price of the first trade of an instrument. price will be set.
	StatType_OpeningPrice StatType = 1
	// The probable opening-auction price, published during pre-open. price and
	// quantity will be set.
	StatType_IndicativeOpeningPrice StatType = 2
	// The settlement price of an instrument. price will be set; flags indicate
	// final/preliminary and actual/theoretical. ts_ref is the trading date.
	StatType_SettlementPrice StatType = 3
	// The lowest trade price of the session. price will be set.
	StatType_TradingSessionLowPrice StatType = 4
	// The highest trade price of the session. price will be set.
	StatType_TradingSessionHighPrice StatType = 5
	// The number of contracts cleared on the previous trading date. quantity will
	// be set; ts_ref is the trading date of the volume.
	StatType_ClearedVolume StatType = 6
	// The lowest offer price during the session. price will be set.
	StatType_LowestOffer StatType = 7
	// The highest bid price during the session. price will be set.
	StatType_HighestBid StatType = 8
	// The current number of outstanding contracts. quantity will be set; ts_ref is
	// the trading date for which open interest was calculated.
	StatType_OpenInterest StatType = 9
	// The VWAP for a fixing period. price will be set.
	StatType_FixingPrice StatType = 10
	// The last trade price during a trading session. price will be set.
	StatType_ClosePrice StatType = 11
	// The change in price from the previous session's close. price will be set.
	StatType_NetChange StatType = 12
	// The VWAP during the session. price is the VWAP; quantity is traded volume.
	StatType_Vwap StatType = 13
)

// StatUpdateAction is the type of StatMsg update.
type StatUpdateAction uint8

const (
	// A new statistic.
	StatUpdateAction_New StatUpdateAction = 1
	// A removal of a statistic.
	StatUpdateAction_Delete StatUpdateAction = 2
)

// StatusAction is the primary enum for a StatusMsg update.
type StatusAction uint16

const (
	// No change.
	StatusAction_None StatusAction = 0
	// The instrument is in a pre-open period.
	StatusAction_PreOpen StatusAction = 1
	// The instrument is in a pre-cross period.
	StatusAction_PreCross StatusAction = 2
	// The instrument is quoting but not trading.
	StatusAction_Quoting StatusAction = 3
	// The instrument is in a cross/auction.
	StatusAction_Cross StatusAction = 4
	// The instrument is being opened through a trading rotation.
	StatusAction_Rotation StatusAction = 5
	// A new price indication is available for the instrument.
	StatusAction_NewPriceIndication StatusAction = 6
	// The instrument is trading.
	StatusAction_Trading StatusAction = 7
	// Trading in the instrument has been halted.
	StatusAction_Halt StatusAction = 8
	// Trading in the instrument has been paused.
	StatusAction_Pause StatusAction = 9
	// Trading in the instrument has been suspended.
	StatusAction_Suspend StatusAction = 10
	// The instrument is in a pre-close period.
	StatusAction_PreClose StatusAction = 11
	// Trading in the instrument has closed.
	StatusAction_Close StatusAction = 12
	// The instrument is in a post-close period.
	StatusAction_PostClose StatusAction = 13
	// A change in short-selling restrictions.
	StatusAction_SsrChange StatusAction = 14
	// The instrument is not available for trading.
	StatusAction_NotAvailableForTrading StatusAction = 15
)

// StatusReason is the secondary enum for a StatusMsg update, explaining the
// cause of a halt or other change in StatusAction. Fixed from the teacher repo,
// which incorrectly typed these constants as StatusAction.
type StatusReason uint16

const (
	// No reason is given.
	StatusReason_None StatusReason = 0
	// The change in status occurred as scheduled.
	StatusReason_Scheduled StatusReason = 1
	// The instrument stopped due to a market surveillance intervention.
	StatusReason_SurveillanceIntervention StatusReason = 2
	// The status changed due to activity in the market.
	StatusReason_MarketEvent StatusReason = 3
	// The derivative instrument began trading.
	StatusReason_InstrumentActivation StatusReason = 4
	// The derivative instrument expired.
	StatusReason_InstrumentExpiration StatusReason = 5
	// Recovery in progress.
	StatusReason_RecoveryInProcess StatusReason = 6
	// The status change was caused by a regulatory action.
	StatusReason_Regulatory StatusReason = 10
	// The status change was caused by an administrative action.
	StatusReason_Administrative StatusReason = 11
	// The status change was caused by the issuer's non-compliance.
	StatusReason_NonCompliance StatusReason = 12
	// Trading halted because the issuer's filings are not current.
	StatusReason_FilingsNotCurrent StatusReason = 13
	// Trading halted due to an SEC trading suspension.
	StatusReason_SecTradingSuspension StatusReason = 14
	// The status changed because a new issue is available.
	StatusReason_NewIssue StatusReason = 15
	// The status changed because an issue is available.
	StatusReason_IssueAvailable StatusReason = 16
	// The status changed because the issue was reviewed.
	StatusReason_IssuesReviewed StatusReason = 17
	// The status changed because the filing requirements were satisfied.
	StatusReason_FilingReqsSatisfied StatusReason = 18
	// Relevant news is pending.
	StatusReason_NewsPending StatusReason = 30
	// Relevant news was released.
	StatusReason_NewsReleased StatusReason = 31
	// The news has been fully disseminated.
	StatusReason_NewsAndResumptionTimes StatusReason = 32
	// The relevant news was not forthcoming.
	StatusReason_NewsNotForthcoming StatusReason = 33
	// Halted for order imbalance.
	StatusReason_OrderImbalance StatusReason = 40
	// The instrument hit limit up or limit down.
	StatusReason_LuldPause StatusReason = 50
	// An operational issue occurred with the venue.
	StatusReason_Operational StatusReason = 60
	// The status changed until the exchange receives additional information.
	StatusReason_AdditionalInformationRequested StatusReason = 70
	// Trading halted due to merger becoming effective.
	StatusReason_MergerEffective StatusReason = 80
	// Trading is halted in an ETF due to conditions with component securities.
	StatusReason_Etf StatusReason = 90
	// Trading is halted for a corporate action.
	StatusReason_CorporateAction StatusReason = 100
	// Trading is halted because the instrument is a new offering.
	StatusReason_NewSecurityOffering StatusReason = 110
	// Halted due to the market-wide circuit breaker level 1.
	StatusReason_MarketWideHaltLevel1 StatusReason = 120
	// Halted due to the market-wide circuit breaker level 2.
	StatusReason_MarketWideHaltLevel2 StatusReason = 121
	// Halted due to the market-wide circuit breaker level 3.
	StatusReason_MarketWideHaltLevel3 StatusReason = 122
	// Halted due to carryover of a market-wide circuit breaker from the previous day.
	StatusReason_MarketWideHaltCarryover StatusReason = 123
	// Resumption due to the end of a market-wide circuit breaker halt.
	StatusReason_MarketWideHaltResumption StatusReason = 124
	// Halted because quotation is not available.
	StatusReason_QuotationNotAvailable StatusReason = 130
)

// TradingEvent carries further information about a status update.
type TradingEvent uint16

const (
	// No additional information given.
	TradingEvent_None TradingEvent = 0
	// Order entry and modification are not allowed.
	TradingEvent_NoCancel TradingEvent = 1
	// A change of trading session occurred; daily statistics are reset.
	TradingEvent_ChangeTradingSession TradingEvent = 2
	// Implied matching is available.
	TradingEvent_ImpliedMatchingOn TradingEvent = 3
	// Implied matching is not available.
	TradingEvent_ImpliedMatchingOff TradingEvent = 4
)

// TriState represents unknown/true/false with a human-readable wire repr.
// Fixed from the teacher repo, which incorrectly typed these as TradingEvent.
type TriState uint8

const (
	// The value is not applicable or not known.
	TriState_NotAvailable TriState = '~'
	// False.
	TriState_No TriState = 'N'
	// True.
	TriState_Yes TriState = 'Y'
)

// VersionUpgradePolicy controls how DBN data from a prior version is decoded.
type VersionUpgradePolicy uint8

const (
	// Decode data from previous versions as-is.
	VersionUpgradePolicy_AsIs VersionUpgradePolicy = 0
	// Decode data from previous versions, upgrading it to the latest layout. This
	// breaks zero-copy decoding for structs that need upgrading but simplifies
	// downstream consumption (spec §4.1 "Upgrade policy").
	VersionUpgradePolicy_Upgrade VersionUpgradePolicy = 1
)

// DBN_VERSION is the latest DBN format version this module natively produces.
const DBN_VERSION uint8 = 2

// FIXED_PRICE_SCALE is the fixed-point scale of all price fields: 1 unit = 1e-9.
const FIXED_PRICE_SCALE int64 = 1_000_000_000

// UNDEF_PRICE is the null-price sentinel (spec §3: "an i64::MIN-class constant").
const UNDEF_PRICE int64 = -9_223_372_036_854_775_808 // math.MinInt64, inlined to stay a const

// UNDEF_TIMESTAMP is the null-timestamp sentinel: all-ones UInt64.
const UNDEF_TIMESTAMP uint64 = 0xFFFFFFFFFFFFFFFF

// UNDEF_ORDER_SIZE is the null-quantity sentinel for uint32 quantity fields.
const UNDEF_ORDER_SIZE uint32 = 0xFFFFFFFF

// UNDEF_STAT_QUANTITY is the null-quantity sentinel for StatMsg's int32 quantity.
const UNDEF_STAT_QUANTITY int32 = 2147483647
