package ames

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// tailProbeFactor bounds the tail probe of plain files: the probe seeks
// back this many first-line lengths from the end and assumes no record is
// longer than that multiple of the first. An approximation, not an exact
// last-line seek.
const tailProbeFactor = 10

// A TimeResolver computes the absolute time range of the data payload.
// It holds only the header fields it needs and opens its own stream handle
// per call, independent of any decoder state.
type TimeResolver struct {
	path        string
	startDate   time.Time
	headerLines int
}

// NewTimeResolver returns a resolver for the given file and its parsed header.
func NewTimeResolver(path string, hdr *Header) *TimeResolver {
	return &TimeResolver{path: path, startDate: hdr.StartDate, headerLines: hdr.HeaderLines}
}

// StartTime returns the absolute timestamp of the first data record:
// the header start date plus the record's leading second offset.
func (t *TimeResolver) StartTime() (time.Time, error) {
	line, err := readFirstDataLine(t.path, t.headerLines)
	if err != nil {
		return time.Time{}, err
	}
	offset, err := leadingOffset(line)
	if err != nil {
		return time.Time{}, err
	}
	return t.startDate.Add(time.Duration(offset) * time.Second), nil
}

// EndTime returns the absolute timestamp of the last data record.
//
// The last line is located with a tail probe rather than a full scan: plain
// files seek back tailProbeFactor first-line lengths from the end; gzip
// streams cannot seek backwards, so the decompressed stream is skipped
// forward to the last twentieth of the size read from the gzip footer.
// Both probes are approximations. bzip2 streams cannot report their
// decompressed size cheaply and are scanned to the end.
func (t *TimeResolver) EndTime() (time.Time, error) {
	var line string
	var err error
	switch compressionFromExt(t.path) {
	case CompressionGzip:
		line, err = t.lastLineGzip()
	case CompressionBzip2:
		line, err = t.lastLineScan()
	default:
		line, err = t.lastLinePlain()
	}
	if err != nil {
		return time.Time{}, err
	}

	offset, err := leadingOffset(line)
	if err != nil {
		return time.Time{}, err
	}
	return t.startDate.Add(time.Duration(offset) * time.Second), nil
}

// lastLinePlain seeks close to the end of an uncompressed file and returns
// the last line of the remainder.
func (t *TimeResolver) lastLinePlain() (string, error) {
	first, err := readFirstDataLine(t.path, t.headerLines)
	if err != nil {
		return "", err
	}

	f, err := os.Open(t.path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	probe := int64(len(first)+1) * tailProbeFactor
	if _, err := f.Seek(-probe, io.SeekEnd); err != nil {
		// File shorter than the probe window, read it whole.
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return "", err
		}
	}
	return lastLine(f, t.path)
}

// lastLineGzip skips the decompressed stream forward to roughly the last 5%
// of the size recorded in the gzip footer and returns the last line read.
func (t *TimeResolver) lastLineGzip() (string, error) {
	size, err := gzipUncompressedSize(t.path)
	if err != nil {
		return "", err
	}

	rc, err := openStream(t.path)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	if skip := size - size/20; skip > 0 {
		if _, err := io.CopyN(io.Discard, rc, skip); err != nil && err != io.EOF {
			return "", err
		}
	}
	return lastLine(rc, t.path)
}

// lastLineScan reads the whole decompressed stream and returns the last
// non-empty line after the header.
func (t *TimeResolver) lastLineScan() (string, error) {
	rc, err := openStream(t.path)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	sc := bufio.NewScanner(rc)
	for i := 0; i < t.headerLines; i++ {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", fmt.Errorf("%w: %s", ErrNoData, t.path)
		}
	}
	return scanLastLine(sc, t.path)
}

// lastLine scans the remainder of r and returns its final non-empty line.
func lastLine(r io.Reader, path string) (string, error) {
	return scanLastLine(bufio.NewScanner(r), path)
}

func scanLastLine(sc *bufio.Scanner, path string) (string, error) {
	last := ""
	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			last = s
		}
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	if last == "" {
		return "", fmt.Errorf("%w: %s", ErrNoData, path)
	}
	return last, nil
}

// leadingOffset parses the first field of a data line as seconds since the
// start date. The field is delimiter-agnostic: it ends at the first comma
// or whitespace.
func leadingOffset(line string) (int64, error) {
	line = strings.TrimSpace(line)
	end := strings.IndexAny(line, ", \t")
	if end == -1 {
		end = len(line)
	}
	field := line[:end]
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("ames: time offset %q: %v", field, err)
	}
	return int64(v), nil
}
