package ames

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimalHeader is the smallest well-formed header: one dependent variable,
// no special comments, two normal comments the second of which is the
// explicit column-name line.
const minimalHeader = `17, 1001
PI
ORG
DESC
MISSION
1, 1
2020, 1, 2, 2020, 1, 3
1.0
TIME, s
1
1
-9999
VAR1, ppb
0
2
a comment
TIME,VAR1
`

func TestDecoder_MinimalHeader(t *testing.T) {
	assert := assert.New(t)

	dec, err := NewDecoder(strings.NewReader(minimalHeader), FormatICT)
	require.NoError(t, err)
	hdr := dec.Header

	assert.Equal(17, hdr.HeaderLines)
	assert.Equal(1001, hdr.FFI)
	assert.Equal(2, hdr.TotalVariableCount)
	assert.Equal(time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), hdr.StartDate)
	assert.Equal([]string{"-9999"}, hdr.MissingDataFlags)

	// The column line was promoted and removed from the comments.
	assert.Equal([]string{"TIME", "VAR1"}, hdr.ColumnNames)
	assert.Equal([]string{"a comment"}, hdr.NormalComments)

	assert.NoError(hdr.Validate())
}

func TestDecoder_NoPromotionForNAS(t *testing.T) {
	assert := assert.New(t)

	dec, err := NewDecoder(strings.NewReader(minimalHeader), FormatNAS)
	require.NoError(t, err)

	assert.Nil(dec.Header.ColumnNames)
	assert.Equal([]string{"a comment", "TIME,VAR1"}, dec.Header.NormalComments)
}

func TestDecoder_NoPromotionOnFieldCountMismatch(t *testing.T) {
	assert := assert.New(t)

	// The final comment splits into three fields, the file has two columns.
	in := strings.Replace(minimalHeader, "TIME,VAR1", "TIME,VAR1,EXTRA", 1)
	dec, err := NewDecoder(strings.NewReader(in), FormatICT)
	require.NoError(t, err)

	assert.Nil(dec.Header.ColumnNames)
	assert.Equal(2, len(dec.Header.NormalComments))
}

func TestDecoder_HeaderLineCountMismatch(t *testing.T) {
	in := strings.Replace(minimalHeader, "17, 1001", "20, 1001", 1)
	_, err := NewDecoder(strings.NewReader(in), FormatICT)

	var hdrErr *HeaderError
	require.ErrorAs(t, err, &hdrErr)
	assert.Equal(t, "header line count", hdrErr.Field)
	assert.Contains(t, hdrErr.Error(), "17")
	assert.Contains(t, hdrErr.Error(), "20")
}

func TestDecoder_BadIntegerLine(t *testing.T) {
	in := strings.Replace(minimalHeader, "17, 1001", "abc, 1001", 1)
	_, err := NewDecoder(strings.NewReader(in), FormatICT)

	var hdrErr *HeaderError
	require.ErrorAs(t, err, &hdrErr)
	assert.Equal(t, 1, hdrErr.Line)
}

func TestDecoder_BadDateLine(t *testing.T) {
	in := strings.Replace(minimalHeader, "2020, 1, 2, 2020, 1, 3", "2020, 1, 2, 2020, 1", 1)
	_, err := NewDecoder(strings.NewReader(in), FormatICT)

	var hdrErr *HeaderError
	require.ErrorAs(t, err, &hdrErr)
	assert.Equal(t, 7, hdrErr.Line)
	assert.Contains(t, hdrErr.Msg, "6 comma-separated integers")
}

func TestDecoder_TruncatedHeader(t *testing.T) {
	in := strings.Join(strings.Split(minimalHeader, "\n")[:10], "\n")
	_, err := NewDecoder(strings.NewReader(in), FormatICT)

	var hdrErr *HeaderError
	require.ErrorAs(t, err, &hdrErr)
	assert.Contains(t, hdrErr.Msg, "unexpected end of header")
}

func TestDecoder_EmptyInput(t *testing.T) {
	_, err := NewDecoder(strings.NewReader(""), FormatICT)
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestParseVariable(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(Variable{Name: "T"}, parseVariable("T"))
	assert.Equal(Variable{Name: "T", Units: "s"}, parseVariable("T, s"))
	assert.Equal(Variable{Name: "T", Units: "s", Description: "time"}, parseVariable("T, s, time"))

	// Descriptions keep their embedded commas.
	assert.Equal(Variable{Name: "T", Units: "s", Description: "a, b, c"}, parseVariable("T, s, a, b, c"))
}

func TestParseExtendedAttributes(t *testing.T) {
	assert := assert.New(t)

	attrs := parseExtendedAttributes([]string{
		"llod_flag: -7777",
		"PI_CONTACT_INFO: 123 Main St, Boulder, CO",
		"no key value shape here",
		"TRAILING:  padded  ",
	})

	assert.Equal("-7777", attrs["LLOD_FLAG"])
	assert.Equal("123 Main St, Boulder, CO", attrs["PI_CONTACT_INFO"])
	assert.Equal("padded", attrs["TRAILING"])
	assert.Equal(3, len(attrs))
}

func TestHeader_ValidateMismatch(t *testing.T) {
	assert := assert.New(t)

	dec, err := NewDecoder(strings.NewReader(minimalHeader), FormatICT)
	require.NoError(t, err)

	hdr := dec.Header
	hdr.ScaleFactors = []float64{1, 2}
	assert.Error(hdr.Validate())

	hdr = dec.Header
	hdr.TotalVariableCount = 5
	assert.Error(hdr.Validate())
}
