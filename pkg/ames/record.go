package ames

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// A Record is one decoded data line.
type Record struct {
	Time   time.Time // start date plus the leading second offset
	Offset float64   // seconds since the start date, the raw first field
	Values []float64 // all columns; dependent columns scaled, missing sentinels as NaN
}

// NextRecord reads the next data record. It returns false when the scan
// stops, either by reaching the end of the input or an error.
func (dec *Decoder) NextRecord() bool {
	for dec.readLine() {
		line := strings.TrimSpace(dec.line())
		if line == "" {
			continue
		}

		rec, err := dec.parseRecord(line)
		if err != nil {
			dec.setErr(fmt.Errorf("ames: line %d: %v", dec.lineNum, err))
			return false
		}
		dec.rec = rec
		return true
	}

	if err := dec.sc.Err(); err != nil {
		dec.setErr(fmt.Errorf("ames: read record: %v", err))
	}
	return false // EOF
}

// Record returns the most recent record generated by a call to NextRecord.
func (dec *Decoder) Record() *Record {
	return dec.rec
}

func (dec *Decoder) parseRecord(line string) (*Record, error) {
	var fields []string
	switch dec.format {
	case FormatICT:
		fields = strings.Split(line, ",")
	case FormatNAS:
		fields = strings.Fields(line)
	default:
		return nil, ErrUnknownFormat
	}

	if len(fields) != dec.Header.TotalVariableCount {
		return nil, fmt.Errorf("%d fields, expected %d", len(fields), dec.Header.TotalVariableCount)
	}

	vals := make([]float64, len(fields))
	for i, field := range fields {
		field = strings.TrimSpace(field)
		if i > 0 && dec.isMissing(i, field) {
			vals[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("field %d: %v", i+1, err)
		}
		if i > 0 {
			v *= dec.Header.ScaleFactors[i-1]
		}
		vals[i] = v
	}

	rec := &Record{Offset: vals[0], Values: vals}
	rec.Time = dec.Header.StartDate.Add(time.Duration(vals[0] * float64(time.Second)))
	return rec, nil
}

// isMissing reports whether the raw field of the given column is one of its
// missing-value sentinels. The sentinel table is built once per decoder.
func (dec *Decoder) isMissing(col int, field string) bool {
	if dec.missing == nil {
		dec.missing = dec.Header.MissingValues()
	}
	for _, sentinel := range dec.missing[col] {
		if field == sentinel {
			return true
		}
	}
	return false
}

// Stats holds statistics about the data payload, derived from a full read.
type Stats struct {
	NumRecords  int           `json:"numRecords"`  // The number of data records in the file.
	Sampling    time.Duration `json:"sampling"`    // The sampling interval derived from the data.
	TimeOfFirst time.Time     `json:"timeOfFirst"` // Time of the first record.
	TimeOfLast  time.Time     `json:"timeOfLast"`  // Time of the last record.
}

// ComputeStats reads the whole file and derives payload statistics.
// Unlike TimeRange it decodes every record, so it is exact but not cheap.
func (f *File) ComputeStats() (stats Stats, err error) {
	if _, err = f.ReadHeader(); err != nil {
		return
	}

	rc, err := openStream(f.Path)
	if err != nil {
		return
	}
	defer rc.Close()

	dec, err := NewDecoder(rc, f.Format)
	if err != nil {
		return
	}

	numRecords := 0
	intervals := make([]time.Duration, 0, 10)
	var rec, recPrev *Record

	for dec.NextRecord() {
		numRecords++
		rec = dec.Record()
		if numRecords == 1 {
			stats.TimeOfFirst = rec.Time
		}

		if recPrev != nil && len(intervals) <= 10 {
			intervals = append(intervals, rec.Time.Sub(recPrev.Time))
		}
		recPrev = rec
	}
	if err = dec.Err(); err != nil {
		return stats, err
	}
	if numRecords == 0 {
		return stats, fmt.Errorf("%w: %s", ErrNoData, f.Path)
	}

	// Sampling rate as the median of the first intervals.
	if len(intervals) > 0 {
		sort.Slice(intervals, func(i, j int) bool { return intervals[i] < intervals[j] })
		stats.Sampling = intervals[len(intervals)/2]
	}
	stats.TimeOfLast = recPrev.Time
	stats.NumRecords = numRecords

	return stats, nil
}
