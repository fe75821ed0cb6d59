// Copyright (c) 2024 Neomantra Corp

package dbn

import (
	"bufio"
	"io"
)

///////////////////////////////////////////////////////////////////////////////

// Default buffer size for decoding
const DEFAULT_DECODE_BUFFER_SIZE = 16 * 1024
const DEFAULT_SCRATCH_BUFFER_SIZE = 1024 // bigger than the largest record size

// DbnScanner scans an uncompressed DBN stream: the Metadata prologue, bare or
// inside a skippable frame, followed by records. zstd-compressed input is not
// decompressed here; the caller wraps it first (see MakeCompressedReader).
// Records are returned as decoded; the stored VersionUpgradePolicy is not
// applied to them.
type DbnScanner struct {
	srcReader     io.Reader     // the source we pull data from
	buffReader    *bufio.Reader // the buffer reader we scan over
	metadata      *Metadata     // the metadata for the stream
	upgradePolicy VersionUpgradePolicy
	lastError     error  // the last error encountered
	lastRecord    []byte // last record read, waiting for decode
	lastSize      int    // the size of the last record read
}

// NewDbnScanner creates a new dbn.DbnScanner over an uncompressed (possibly
// skippable-frame-wrapped) DBN byte stream.
func NewDbnScanner(sourceReader io.Reader) *DbnScanner {
	return &DbnScanner{
		srcReader:     sourceReader,
		buffReader:    bufio.NewReaderSize(sourceReader, DEFAULT_DECODE_BUFFER_SIZE),
		metadata:      nil,
		upgradePolicy: VersionUpgradePolicy_AsIs,
		lastError:     nil,
		lastRecord:    make([]byte, DEFAULT_SCRATCH_BUFFER_SIZE),
		lastSize:      0,
	}
}

// SetUpgradePolicy records policy on the scanner. Next, Visit and
// DbnScannerDecode do not consult it: records from an older DBN version are
// returned without upgrading.
func (s *DbnScanner) SetUpgradePolicy(policy VersionUpgradePolicy) {
	s.upgradePolicy = policy
}

/////////////////////////////////////////////////////////////////////////////

// Metadata returns the metadata for the stream, or nil if none.
// May try to read the metadata, which may result in an error.
func (s *DbnScanner) Metadata() (*Metadata, error) {
	if s.metadata != nil {
		return s.metadata, nil
	}
	err := s.readMetadata()
	return s.metadata, err
}

// Error returns the last error from Next().  May be io.EOF.
func (s *DbnScanner) Error() error {
	return s.lastError
}

// BufferedReader exposes the scanner's underlying buffered reader,
// positioned at the first byte after whatever has already been consumed
// (the Metadata prologue, and any records read via Next). Used by
// DBNStore.DecodedReader to hand back a correctly-positioned stream without
// re-reading or losing buffered bytes.
func (s *DbnScanner) BufferedReader() *bufio.Reader {
	return s.buffReader
}

// GetLastHeader returns the RHeader of the last record read, or an error
func (s *DbnScanner) GetLastHeader() (RHeader, error) {
	var rheader RHeader
	err := rheader.Fill_Raw(s.lastRecord[0:RHeader_Size])
	return rheader, err
}

// GetLastRecord returns the raw bytes of the last record read
func (s *DbnScanner) GetLastRecord() []byte {
	return s.lastRecord
}

// GetLastSize returns the size of the last record read
func (s *DbnScanner) GetLastSize() int {
	return s.lastSize
}

/////////////////////////////////////////////////////////////////////////////

// readMetadata is an internal method to read metadata from the stream.
func (s *DbnScanner) readMetadata() error {
	if s.metadata != nil {
		return nil
	}
	m, err := ReadMetadata(s.buffReader)
	if err != nil {
		s.lastError = err
		s.lastSize = 0
		return err
	}
	s.lastError = nil
	s.lastSize = 0
	s.metadata = m
	return nil
}

// growScratch grows the scratch buffer to hold at least n bytes, preserving
// the 0th byte (the record length, already read) so callers can keep
// reading into it.
func (s *DbnScanner) growScratch(n int) {
	if cap(s.lastRecord) >= n {
		s.lastRecord = s.lastRecord[:n]
		return
	}
	grown := make([]byte, n)
	copy(grown, s.lastRecord)
	s.lastRecord = grown
}

// Next parses the next record from the stream
func (s *DbnScanner) Next() bool {
	// Read the metadata if we haven't already
	if s.metadata == nil {
		if err := s.readMetadata(); err != nil {
			s.lastError = err
			s.lastSize = 0
			return false
		}
	}

	// Read the next record's header's first byte
	// That stores the record's Length IN WORDS, including Header itself
	recordLen, err := s.buffReader.ReadByte()
	if err != nil {
		s.lastError = err
		s.lastSize = 0
		return false
	}
	mustRead := 4 * int(recordLen)
	s.growScratch(mustRead)
	s.lastRecord[0] = recordLen

	// Read the rest of the record
	// 1: because we already got the first size byte
	// :mustRead because we only want a subset of the buffer (the full record size)
	numRead, err := io.ReadFull(s.buffReader, s.lastRecord[1:mustRead])
	if err != nil {
		// we didn't read the full amount by num
		s.lastError = err
		s.lastSize = numRead + 1 // +1 for size byte
		return false
	}
	s.lastError = nil
	s.lastSize = mustRead
	return true
}

// DbnScannerDecode parses the Scanner's current record as a single concrete
// record type R. This is a plain function because receiver methods cannot be
// generic.
func DbnScannerDecode[R Record, RP RecordPtr[R]](s *DbnScanner) (*R, error) {
	// Ensure there's a record to decode
	if s.lastSize <= RHeader_Size {
		return nil, ErrNoRecord
	}
	recordLen := 4 * int(s.lastRecord[0])
	if s.lastSize < recordLen {
		return nil, ErrMalformedRecord
	}

	// Object to return, instantiating an R and putting it in an RP
	var rp RP = new(R)

	// Make sure it's the right record type
	rtype := RType(s.lastRecord[1])
	if !rtype.IsCompatibleWith(rp.RType()) {
		return nil, unexpectedRTypeError(rtype, rp.RType())
	}

	err := rp.Fill_Raw(s.lastRecord[0:s.lastSize])
	if err != nil {
		return nil, err
	}
	return rp, nil
}

// Visit parses the current record and dispatches it to the Visitor.
func (s *DbnScanner) Visit(visitor Visitor) error {
	// Ensure there's a record to decode
	if s.lastSize <= RHeader_Size {
		return ErrNoRecord
	}
	recordLen := 4 * int(s.lastRecord[0])
	if s.lastSize < recordLen {
		return ErrMalformedRecord
	}

	// Dispatch based on RType
	switch rtype := RType(s.lastRecord[1]); rtype {
	case RType_Mbp0:
		record := Mbp0Msg{}
		if err := record.Fill_Raw(s.lastRecord[:Mbp0Msg_Size]); err != nil {
			return err
		}
		return visitor.OnMbp0(&record)
	case RType_Mbp1:
		record := Mbp1Msg{}
		if err := record.Fill_Raw(s.lastRecord[:Mbp1Msg_Size]); err != nil {
			return err
		}
		return visitor.OnMbp1(&record)
	case RType_Mbp10:
		record := Mbp10Msg{}
		if err := record.Fill_Raw(s.lastRecord[:Mbp10Msg_Size]); err != nil {
			return err
		}
		return visitor.OnMbp10(&record)
	case RType_Mbo:
		record := MboMsg{}
		if err := record.Fill_Raw(s.lastRecord[:MboMsg_Size]); err != nil {
			return err
		}
		return visitor.OnMbo(&record)
	case RType_Ohlcv1S, RType_Ohlcv1M, RType_Ohlcv1H, RType_Ohlcv1D, RType_OhlcvEod, RType_OhlcvDeprecated:
		record := OhlcvMsg{}
		if err := record.Fill_Raw(s.lastRecord[:OhlcvMsg_Size]); err != nil {
			return err
		}
		return visitor.OnOhlcv(&record)
	case RType_Imbalance:
		record := ImbalanceMsg{}
		if err := record.Fill_Raw(s.lastRecord[:ImbalanceMsg_Size]); err != nil {
			return err
		}
		return visitor.OnImbalance(&record)
	case RType_Statistics:
		record := StatMsg{}
		if err := record.Fill_Raw(s.lastRecord[:StatMsg_Size]); err != nil {
			return err
		}
		return visitor.OnStatMsg(&record)
	case RType_Status:
		record := StatusMsg{}
		if err := record.Fill_Raw(s.lastRecord[:StatusMsg_Size]); err != nil {
			return err
		}
		return visitor.OnStatusMsg(&record)
	case RType_InstrumentDef:
		record := InstrumentDefMsg{}
		if err := record.Fill_Raw(s.lastRecord[:InstrumentDefMsg_Size]); err != nil {
			return err
		}
		return visitor.OnInstrumentDefMsg(&record)
	case RType_Error:
		record := ErrorMsg{}
		if err := record.Fill_Raw(s.lastRecord[:ErrorMsg_Size]); err != nil {
			return err
		}
		return visitor.OnErrorMsg(&record)
	case RType_SymbolMapping:
		record := SymbolMappingMsg{}
		if err := record.Fill_Raw(s.lastRecord[:s.lastSize], s.metadata.SymbolCstrLen); err != nil {
			return err
		}
		return visitor.OnSymbolMappingMsg(&record)
	case RType_System:
		record := SystemMsg{}
		if err := record.Fill_Raw(s.lastRecord[:SystemMsg_Size]); err != nil {
			return err
		}
		return visitor.OnSystemMsg(&record)
	default:
		return ErrUnknownRType
	}
}

/////////////////////////////////////////////////////////////////////////////

// ReadDBNToSlice reads the entire raw DBN stream from an io.Reader.
// It will scan for type R (for example Mbp0Msg) and decode it into a slice of R.
// Returns the slice, the stream's metadata, and any error.
// Example:
//
//	fileReader, err := os.Open(dbnFilename)
//	records, metadata, err := dbn.ReadDBNToSlice[dbn.Mbp0Msg](fileReader)
func ReadDBNToSlice[R Record, RP RecordPtr[R]](reader io.Reader) ([]R, *Metadata, error) {
	records := make([]R, 0)
	scanner := NewDbnScanner(reader)
	for scanner.Next() {
		r, err := DbnScannerDecode[R, RP](scanner)
		if err != nil {
			return records, scanner.metadata, err
		}
		records = append(records, *r)
	}
	err := scanner.Error()
	if err == io.EOF {
		// In this function, EOF is not propagated as an error
		err = nil
	}

	return records, scanner.metadata, err
}
