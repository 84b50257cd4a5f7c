package ames

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
)

// stream wraps a possibly decompressing reader together with the file it
// reads from, so that Close releases the underlying handle.
type stream struct {
	io.Reader
	file *os.File
}

func (s *stream) Close() error { return s.file.Close() }

// openStream opens the file for line-oriented reading, transparently
// decompressing gzip and bzip2 streams based on the filename extension.
// The caller must close the returned reader.
func openStream(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch compressionFromExt(path) {
	case CompressionGzip:
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("ames: open gzip stream %s: %v", path, err)
		}
		return &stream{Reader: zr, file: f}, nil
	case CompressionBzip2:
		br, err := bzip2.NewReader(f, nil)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("ames: open bzip2 stream %s: %v", path, err)
		}
		return &stream{Reader: br, file: f}, nil
	}

	return f, nil
}

// gzipUncompressedSize returns the uncompressed size of a gzip file by
// reading the trailing ISIZE field of the gzip footer, without decompressing.
// ISIZE holds the size modulo 2^32.
func gzipUncompressedSize(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if _, err := f.Seek(-4, io.SeekEnd); err != nil {
		return 0, fmt.Errorf("ames: gzip size of %s: %v", path, err)
	}
	var buf [4]byte
	if _, err := io.ReadFull(f, buf[:]); err != nil {
		return 0, fmt.Errorf("ames: gzip size of %s: %v", path, err)
	}
	return int64(binary.LittleEndian.Uint32(buf[:])), nil
}

// readFirstDataLine returns the first payload line of the file, after
// skipping exactly headerLines header lines.
func readFirstDataLine(path string, headerLines int) (string, error) {
	rc, err := openStream(path)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	sc := bufio.NewScanner(rc)
	for i := 0; i < headerLines; i++ {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", fmt.Errorf("%w: %s", ErrNoData, path)
		}
	}
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("%w: %s", ErrNoData, path)
	}
	return sc.Text(), nil
}
