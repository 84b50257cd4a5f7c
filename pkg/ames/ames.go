// Package ames provides functions for reading ICARTT and NASA Ames FFI 1001 files.
package ames

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// A Format is the data-record dialect of a file.
type Format string

// The supported data-record dialects.
const (
	FormatUnknown Format = ""
	FormatICT     Format = "ict" // comma separated records
	FormatNAS     Format = "nas" // whitespace separated records
)

// Delimiter returns the record field delimiter of the dialect.
// The empty string means any run of whitespace.
func (f Format) Delimiter() string {
	if f == FormatICT {
		return ","
	}
	return ""
}

// A Compression is the compression kind of a file, derived from its extension.
type Compression string

// The supported compression kinds.
const (
	CompressionNone  Compression = ""
	CompressionGzip  Compression = "gzip"
	CompressionBzip2 Compression = "bz2"
)

// errors
var (
	// ErrNoHeader is returned when reading data that does not begin with an FFI 1001 header.
	ErrNoHeader = errors.New("ames: no header")

	// ErrUnknownFormat is returned when the data-record dialect could not be
	// detected and no explicit format was given.
	ErrUnknownFormat = errors.New("ames: unknown data format")

	// ErrNoData is returned when a file contains no data records after the header.
	ErrNoData = errors.New("ames: no data records")
)

// A HeaderError reports a header line that does not match the FFI 1001 grammar.
type HeaderError struct {
	Line  int    // 1-based header line number
	Field string // the header field being parsed
	Msg   string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("ames: header line %d (%s): %s", e.Line, e.Field, e.Msg)
}

// File contains fields and methods for ICARTT and NASA Ames data files.
type File struct {
	Path        string
	Format      Format      // data-record dialect, detected or given explicitly
	Compression Compression // gzip, bz2 or none, from the filename extension

	// Header is valid after ReadHeader.
	Header *Header
}

// NewFile returns a new data file object. The compression kind is derived
// from the filename extension; the record dialect is detected on demand.
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("ames: path is empty")
	}
	return &File{Path: path, Compression: compressionFromExt(path)}, nil
}

// NewFileWithFormat returns a new data file object with an explicitly given
// record dialect, bypassing detection.
func NewFileWithFormat(path string, format Format) (*File, error) {
	if format != FormatICT && format != FormatNAS {
		return nil, fmt.Errorf("ames: undefined format %q (want %q or %q)", format, FormatICT, FormatNAS)
	}
	f, err := NewFile(path)
	if err != nil {
		return nil, err
	}
	f.Format = format
	return f, nil
}

// ReadHeader parses the file header. The header is read once and cached;
// subsequent calls return the cached copy.
func (f *File) ReadHeader() (Header, error) {
	if f.Header != nil {
		return *f.Header, nil
	}

	rc, err := openStream(f.Path)
	if err != nil {
		return Header{}, err
	}
	dec, err := NewDecoder(rc, f.Format)
	rc.Close()
	if err != nil {
		return Header{}, err
	}
	hdr := dec.Header

	if f.Format == FormatUnknown {
		line, err := readFirstDataLine(f.Path, hdr.HeaderLines)
		if err != nil {
			return Header{}, err
		}
		format := DetectFormat(line)
		if format == FormatUnknown {
			return Header{}, fmt.Errorf("%w: %s", ErrUnknownFormat, f.Path)
		}
		f.Format = format
		if format == FormatICT {
			hdr.promoteColumnNames()
		}
	}

	f.Header = &hdr
	return hdr, nil
}

// DetectFormat returns the data-record dialect, detecting it from the first
// payload line if it is not known yet.
func (f *File) DetectFormat() (Format, error) {
	if f.Format != FormatUnknown {
		return f.Format, nil
	}
	if _, err := f.ReadHeader(); err != nil {
		return FormatUnknown, err
	}
	return f.Format, nil
}

// TimeRange returns the absolute timestamps of the first and the last data record.
func (f *File) TimeRange() (start, end time.Time, err error) {
	hdr, err := f.ReadHeader()
	if err != nil {
		return
	}
	tr := NewTimeResolver(f.Path, &hdr)
	if start, err = tr.StartTime(); err != nil {
		return
	}
	end, err = tr.EndTime()
	return
}

// Columns resolves the column names of the data payload.
func (f *File) Columns(source ColumnSource, caseMode CaseMode) ([]string, error) {
	hdr, err := f.ReadHeader()
	if err != nil {
		return nil, err
	}
	return hdr.Columns(source, caseMode)
}

// MissingValues returns the per-column missing-value sentinels, see Header.MissingValues.
func (f *File) MissingValues(flagNames ...string) (map[int][]string, error) {
	hdr, err := f.ReadHeader()
	if err != nil {
		return nil, err
	}
	return hdr.MissingValues(flagNames...), nil
}

// Ext returns the lowercased filename extension without the leading dot.
// A "gz" extension is reported as "gzip".
func (f *File) Ext() string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(f.Path)), ".")
	if ext == "gz" {
		return "gzip"
	}
	return ext
}

func (f *File) String() string {
	if f.Header != nil {
		return fmt.Sprintf("NASA Ames Data File (FFI = %d)\n%s", f.Header.FFI, filepath.Base(f.Path))
	}
	return filepath.Base(f.Path)
}

// compressionFromExt derives the compression kind from the filename extension.
// All extensions besides gz/gzip/bz2 are read as plain text.
func compressionFromExt(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return CompressionGzip
	case ".bz2":
		return CompressionBzip2
	}
	return CompressionNone
}
