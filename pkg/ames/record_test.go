package ames

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoder_NextRecord(t *testing.T) {
	assert := assert.New(t)

	rc, err := openStream("testdata/valid.ict")
	require.NoError(t, err)
	defer rc.Close()

	dec, err := NewDecoder(rc, FormatICT)
	require.NoError(t, err)

	require.True(t, dec.NextRecord())
	rec := dec.Record()
	assert.Equal(0.0, rec.Offset)
	assert.Equal([]float64{0, 40.0, 10.00}, rec.Values)
	assert.Equal(time.Date(2011, 8, 10, 0, 0, 0, 0, time.UTC), rec.Time)

	n := 1
	for dec.NextRecord() {
		n++
		rec = dec.Record()
		switch int(rec.Offset) {
		case 5:
			assert.True(math.IsNaN(rec.Values[1]), "O3 missing flag at t=5")
			assert.False(math.IsNaN(rec.Values[2]))
		case 7:
			assert.True(math.IsNaN(rec.Values[2]), "NO2 missing flag at t=7")
		case 9:
			assert.True(math.IsNaN(rec.Values[1]), "LLOD sentinel at t=9")
		}
	}
	assert.NoError(dec.Err())
	assert.Equal(100, n)
	assert.Equal(time.Date(2011, 8, 10, 0, 1, 39, 0, time.UTC), rec.Time)
}

func TestDecoder_NextRecordNAS(t *testing.T) {
	assert := assert.New(t)

	rc, err := openStream("testdata/valid.nas")
	require.NoError(t, err)
	defer rc.Close()

	dec, err := NewDecoder(rc, FormatNAS)
	require.NoError(t, err)

	require.True(t, dec.NextRecord())
	rec := dec.Record()
	assert.Equal([]float64{0, 1013.2}, rec.Values)

	n := 1
	for dec.NextRecord() {
		n++
		if int(dec.Record().Offset) == 600 {
			assert.True(math.IsNaN(dec.Record().Values[1]))
		}
	}
	assert.NoError(dec.Err())
	assert.Equal(50, n)
}

func TestDecoder_ScaleFactors(t *testing.T) {
	assert := assert.New(t)

	in := strings.Replace(minimalHeader, "1\n-9999", "2.5\n-9999", 1) + "10,4\n"
	dec, err := NewDecoder(strings.NewReader(in), FormatICT)
	require.NoError(t, err)
	assert.Equal([]float64{2.5}, dec.Header.ScaleFactors)

	require.True(t, dec.NextRecord())
	assert.Equal([]float64{10, 10}, dec.Record().Values, "dependent value scaled by 2.5")
	assert.False(dec.NextRecord())
	assert.NoError(dec.Err())
}

func TestDecoder_BadRecord(t *testing.T) {
	assert := assert.New(t)

	dec, err := NewDecoder(strings.NewReader(minimalHeader+"0,1,2\n"), FormatICT)
	require.NoError(t, err)

	// Three fields on a two-column file.
	assert.False(dec.NextRecord())
	assert.ErrorContains(dec.Err(), "expected 2")
}

func TestFile_ComputeStats(t *testing.T) {
	assert := assert.New(t)

	f, err := NewFile("testdata/valid.ict")
	require.NoError(t, err)

	stats, err := f.ComputeStats()
	assert.NoError(err)
	assert.Equal(100, stats.NumRecords)
	assert.Equal(time.Second, stats.Sampling)
	assert.Equal(time.Date(2011, 8, 10, 0, 0, 0, 0, time.UTC), stats.TimeOfFirst)
	assert.Equal(time.Date(2011, 8, 10, 0, 1, 39, 0, time.UTC), stats.TimeOfLast)
}

func TestFile_ComputeStatsNoData(t *testing.T) {
	f, err := NewFileWithFormat("testdata/headeronly.ict", FormatICT)
	require.NoError(t, err)

	_, err = f.ComputeStats()
	assert.ErrorIs(t, err, ErrNoData)
}
