// Copyright (c) 2025 Neomantra Corp

package dbn

import (
	"fmt"
	"io"
	"os"
)

// DBNStore opens a DBN byte source (file path or "-" for stdin) and exposes
// the read-only projections of spec §4.2: metadata/schema introspection,
// raw/decoded readers, per-record iteration, and the tabular/transcoded
// exports built on top of Transcoder (transcode.go) and the arrow
// projections (arrow.go).
type DBNStore struct {
	filename string
	useZstd  bool
	metadata *Metadata

	// instrumentMap accumulates SymbolMapping records observed during Iter,
	// seeded from the prologue Metadata.Mappings, per spec §4.2 "iter()".
	instrumentMap *InstrumentMap
}

// OpenDBNStore opens filename, reads its Metadata prologue, and returns a
// DBNStore. filename may be "-" for stdin. Returns ErrNotFound if the file
// does not exist.
func OpenDBNStore(filename string, forceZstdInput bool) (*DBNStore, error) {
	if filename != "-" {
		if _, err := os.Stat(filename); err != nil {
			if os.IsNotExist(err) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}

	reader, closer, err := MakeCompressedReader(filename, forceZstdInput)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closer != nil {
			closer.Close()
		}
	}()

	scanner := NewDbnScanner(reader)
	meta, err := scanner.Metadata()
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	imap := NewInstrumentMap()
	if err := imap.InsertMetadata(meta); err != nil {
		return nil, err
	}

	return &DBNStore{
		filename:      filename,
		useZstd:       forceZstdInput,
		metadata:      meta,
		instrumentMap: imap,
	}, nil
}

// Metadata returns the store's prologue Metadata.
func (s *DBNStore) Metadata() *Metadata {
	return s.metadata
}

// Schema returns the store's schema and true, or a zero Schema and false if
// the store is heterogeneous (Schema_Mixed) -- only expected for live
// captures (spec §4.2 "schema()").
func (s *DBNStore) Schema() (Schema, bool) {
	if s.metadata.Schema == Schema_Mixed {
		return 0, false
	}
	return s.metadata.Schema, true
}

// InstrumentMap returns the InstrumentMap accumulated from the prologue
// Metadata and, after Iter has run, any streamed SymbolMapping records.
func (s *DBNStore) InstrumentMap() *InstrumentMap {
	return s.instrumentMap
}

// RawReader returns an io.ReadCloser over the store's bytes exactly as
// stored -- compressed if so (spec §4.2 "raw_reader()").
func (s *DBNStore) RawReader() (io.ReadCloser, error) {
	if s.filename == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(s.filename)
}

// nopCloser is returned by DecodedReader when the underlying source (e.g.
// stdin) has no closer of its own.
type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// DecodedReader returns an io.Reader transparently decompressed and
// positioned just past the Metadata prologue, at the first record (spec
// §4.2 "decoded_reader()"). The returned closer must be invoked by the
// caller once done.
func (s *DBNStore) DecodedReader() (io.Reader, io.Closer, error) {
	reader, closer, err := MakeCompressedReader(s.filename, s.useZstd)
	if err != nil {
		return nil, nil, err
	}
	scanner := NewDbnScanner(reader)
	if _, err := scanner.Metadata(); err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, nil, err
	}
	if closer == nil {
		closer = nopCloser{}
	}
	return scanner.BufferedReader(), closer, nil
}

// Iter walks every record after the Metadata prologue and dispatches each to
// visitor (spec §4.2 "iter()"). SymbolMapping records update the store's
// InstrumentMap as they are seen, in addition to being fanned out to the
// visitor like any other record.
func (s *DBNStore) Iter(visitor Visitor) error {
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
	meta, err := scanner.Metadata()
	if err != nil {
		return fmt.Errorf("failed to read metadata: %w", err)
	}

	for scanner.Next() {
		header, err := scanner.GetLastHeader()
		if err != nil {
			return err
		}
		if header.RType == RType_SymbolMapping {
			// SymbolMappingMsg.Fill_Raw takes a version-dependent cstr width,
			// so it doesn't satisfy RecordPtr's single-arg signature and
			// can't go through DbnScannerDecode -- decoded directly here, the
			// same way DbnScanner.Visit itself does.
			var msg SymbolMappingMsg
			if err := msg.Fill_Raw(scanner.GetLastRecord()[:scanner.GetLastSize()], meta.SymbolCstrLen); err != nil {
				return err
			}
			if err := s.instrumentMap.InsertSymbolMapping(&msg); err != nil {
				return err
			}
		}
		if err := scanner.Visit(visitor); err != nil {
			return err
		}
	}
	if err := scanner.Error(); err != nil && err != io.EOF {
		return fmt.Errorf("scanner error: %w", err)
	}
	return visitor.OnStreamEnd()
}

// ToCSV streams the store's records to out as CSV, applying priceType and
// prettyTs formatting. Every row carries a `symbol` column, resolved from the
// store's InstrumentMap when mapSymbols is true and left empty otherwise
// (spec §4.2 "to_csv()").
func (s *DBNStore) ToCSV(out io.Writer, priceType PriceType, prettyTs bool, mapSymbols bool) error {
	return s.transcode(TranscodeFormat_CSV, out, priceType, prettyTs, mapSymbols)
}

// ToJSON streams the store's records to out as newline-delimited JSON (spec
// §4.2 "to_json()").
func (s *DBNStore) ToJSON(out io.Writer, priceType PriceType, prettyTs bool, mapSymbols bool) error {
	return s.transcode(TranscodeFormat_JSON, out, priceType, prettyTs, mapSymbols)
}

func (s *DBNStore) transcode(format TranscodeFormat, out io.Writer, priceType PriceType, prettyTs bool, mapSymbols bool) error {
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
	meta, err := scanner.Metadata()
	if err != nil {
		return fmt.Errorf("failed to read metadata: %w", err)
	}

	t := NewTranscoder(format, out, priceType, prettyTs, meta.SymbolCstrLen)
	if mapSymbols {
		t.SetInstrumentMap(s.instrumentMap)
	}

	for scanner.Next() {
		raw := scanner.GetLastRecord()[:scanner.GetLastSize()]
		if _, err := t.Write(raw); err != nil {
			return err
		}
	}
	if err := scanner.Error(); err != nil && err != io.EOF {
		return fmt.Errorf("scanner error: %w", err)
	}
	return t.Flush()
}

// WriteDbn copies the store's exact byte representation -- including
// whatever compression it was stored with -- to destPath (spec §4.2
// "write_dbn()").
func (s *DBNStore) WriteDbn(destPath string) error {
	src, err := s.RawReader()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, closer, err := MakeCompressedWriter(destPath, false)
	if err != nil {
		return err
	}
	defer closer()

	_, err = io.Copy(dst, src)
	return err
}
