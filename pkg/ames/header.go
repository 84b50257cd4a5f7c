package ames

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// A Variable describes one data column: name, units and a free-text
// description. Fields a file omits stay empty.
type Variable struct {
	Name        string
	Units       string
	Description string
}

// A Header holds the parsed FFI 1001 file header.
// It is read-only after construction; derived tables such as column names
// and missing-value sentinels are computed on demand, not stored here.
type Header struct {
	HeaderLines int `validate:"required,gt=0"` // declared number of header lines
	FFI         int `validate:"required"`      // file format index, 1001 for this grammar

	PI              string `validate:"required"`
	Organization    string
	DataDescription string
	Mission         string

	VolumeNumber int
	TotalVolumes int

	StartDate    time.Time `validate:"required"` // UTC date the time offsets count from
	RevisionDate time.Time

	DataInterval float64

	IndependentVariable Variable // the time column descriptor

	TotalVariableCount int `validate:"required,gt=0"` // independent variable included

	ScaleFactors     []float64 // one per dependent variable
	MissingDataFlags []string  // one per dependent variable, kept textual

	DependentVariables []Variable

	SpecialComments []string
	NormalComments  []string

	// ColumnNames holds the explicit column-name line for files that embed
	// one as the final normal comment; nil otherwise.
	ColumnNames []string

	// ExtendedAttributes holds "KEY: VALUE" shaped normal comments, keyed by
	// the uppercased, trimmed key. The lines stay in NormalComments as well.
	ExtendedAttributes map[string]string
}

// use a single instance of Validate, it caches struct info
var validate *validator.Validate

// Validate checks the structural header invariants.
func (hdr *Header) Validate() error {
	if n := len(hdr.DependentVariables); n != hdr.TotalVariableCount-1 {
		return fmt.Errorf("ames: header: %d dependent variables, total variable count declares %d",
			n, hdr.TotalVariableCount-1)
	}
	if len(hdr.ScaleFactors) != len(hdr.DependentVariables) {
		return fmt.Errorf("ames: header: %d scale factors for %d dependent variables",
			len(hdr.ScaleFactors), len(hdr.DependentVariables))
	}
	if len(hdr.MissingDataFlags) != len(hdr.DependentVariables) {
		return fmt.Errorf("ames: header: %d missing data flags for %d dependent variables",
			len(hdr.MissingDataFlags), len(hdr.DependentVariables))
	}

	if validate == nil {
		validate = validator.New()
	}
	return validate.Struct(hdr)
}

// ContactInfo returns a short contact summary assembled from the header and
// the PI_CONTACT_INFO comment attribute, if present.
func (hdr *Header) ContactInfo() string {
	var b strings.Builder
	fmt.Fprintf(&b, "PRIMARY INVESTIGATOR(S): %s\n", hdr.PI)
	fmt.Fprintf(&b, "AFFILIATION: %s\n", hdr.Organization)
	if contact, ok := hdr.ExtendedAttributes["PI_CONTACT_INFO"]; ok {
		fmt.Fprintf(&b, "CONTACT INFO: %s\n", contact)
	}
	return b.String()
}

// variableNames builds the column names from the variable descriptions,
// time column first.
func (hdr *Header) variableNames() []string {
	names := make([]string, 0, 1+len(hdr.DependentVariables))
	names = append(names, hdr.IndependentVariable.Name)
	for _, v := range hdr.DependentVariables {
		names = append(names, v.Name)
	}
	return names
}

// promoteColumnNames turns the final normal comment into the explicit
// column-name line if it splits into exactly TotalVariableCount comma
// fields. ICT files carry the column names this way.
func (hdr *Header) promoteColumnNames() {
	if len(hdr.NormalComments) == 0 {
		return
	}
	last := hdr.NormalComments[len(hdr.NormalComments)-1]
	fields := strings.Split(last, ",")
	if len(fields) != hdr.TotalVariableCount {
		return
	}
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = strings.TrimSpace(f)
	}
	hdr.ColumnNames = names
	hdr.NormalComments = hdr.NormalComments[:len(hdr.NormalComments)-1]
}

// Decoder reads and decodes header and data records from an FFI 1001 input stream.
type Decoder struct {
	// The Header is valid after NewDecoder. The header must exist, otherwise
	// ErrNoHeader will be returned.
	Header Header

	format  Format
	sc      *bufio.Scanner
	rec     *Record
	missing map[int][]string
	lineNum int
	err     error
}

// NewDecoder creates a new decoder for FFI 1001 data reading from r.
// The header will be read implicitly. A format of FormatICT applies the
// ICT-specific column-name promotion; record iteration requires a known
// format.
//
// It is the caller's responsibility to close the underlying reader when done.
func NewDecoder(r io.Reader, format Format) (*Decoder, error) {
	dec := &Decoder{sc: bufio.NewScanner(r), format: format}
	dec.Header, dec.err = dec.readHeader()
	return dec, dec.err
}

// readHeader consumes the fixed-order FFI 1001 header lines.
func (dec *Decoder) readHeader() (hdr Header, err error) {
	ints, err := dec.intsLine("header line count / FFI", 2)
	if err != nil {
		var hdrErr *HeaderError
		if dec.lineNum == 0 && errors.As(err, &hdrErr) {
			return hdr, ErrNoHeader
		}
		return hdr, err
	}
	hdr.HeaderLines, hdr.FFI = ints[0], ints[1]

	if hdr.PI, err = dec.headerLine("principal investigator"); err != nil {
		return hdr, err
	}
	if hdr.Organization, err = dec.headerLine("organization"); err != nil {
		return hdr, err
	}
	if hdr.DataDescription, err = dec.headerLine("data description"); err != nil {
		return hdr, err
	}
	if hdr.Mission, err = dec.headerLine("mission"); err != nil {
		return hdr, err
	}

	if ints, err = dec.intsLine("volume numbers", 2); err != nil {
		return hdr, err
	}
	hdr.VolumeNumber, hdr.TotalVolumes = ints[0], ints[1]

	if ints, err = dec.intsLine("start / revision date", 6); err != nil {
		return hdr, err
	}
	hdr.StartDate = time.Date(ints[0], time.Month(ints[1]), ints[2], 0, 0, 0, 0, time.UTC)
	hdr.RevisionDate = time.Date(ints[3], time.Month(ints[4]), ints[5], 0, 0, 0, 0, time.UTC)

	if hdr.DataInterval, err = dec.floatHeaderLine("data interval"); err != nil {
		return hdr, err
	}

	line, err := dec.headerLine("independent variable")
	if err != nil {
		return hdr, err
	}
	hdr.IndependentVariable = parseVariable(line)

	numDep, err := dec.intHeaderLine("variable count")
	if err != nil {
		return hdr, err
	}
	hdr.TotalVariableCount = numDep + 1

	if hdr.ScaleFactors, err = dec.floatsLine("scale factors", numDep); err != nil {
		return hdr, err
	}
	if hdr.MissingDataFlags, err = dec.flagsLine("missing data flags", numDep); err != nil {
		return hdr, err
	}

	hdr.DependentVariables = make([]Variable, 0, numDep)
	for i := 0; i < numDep; i++ {
		if line, err = dec.headerLine(fmt.Sprintf("dependent variable %d", i+1)); err != nil {
			return hdr, err
		}
		hdr.DependentVariables = append(hdr.DependentVariables, parseVariable(line))
	}

	numSpecial, err := dec.intHeaderLine("special comment count")
	if err != nil {
		return hdr, err
	}
	for i := 0; i < numSpecial; i++ {
		if line, err = dec.headerLine(fmt.Sprintf("special comment %d", i+1)); err != nil {
			return hdr, err
		}
		hdr.SpecialComments = append(hdr.SpecialComments, line)
	}

	numNormal, err := dec.intHeaderLine("normal comment count")
	if err != nil {
		return hdr, err
	}
	for i := 0; i < numNormal; i++ {
		if line, err = dec.headerLine(fmt.Sprintf("normal comment %d", i+1)); err != nil {
			return hdr, err
		}
		hdr.NormalComments = append(hdr.NormalComments, line)
	}

	hdr.ExtendedAttributes = parseExtendedAttributes(hdr.NormalComments)

	if dec.lineNum != hdr.HeaderLines {
		return hdr, &HeaderError{Line: dec.lineNum, Field: "header line count",
			Msg: fmt.Sprintf("consumed %d header lines, header declares %d", dec.lineNum, hdr.HeaderLines)}
	}

	if dec.format == FormatICT {
		hdr.promoteColumnNames()
	}

	return hdr, dec.sc.Err()
}

// Err returns the first non-EOF error that was encountered by the decoder.
func (dec *Decoder) Err() error {
	if dec.err == io.EOF {
		return nil
	}
	return dec.err
}

// setErr records the first error encountered.
func (dec *Decoder) setErr(err error) {
	if dec.err == nil || dec.err == io.EOF {
		dec.err = err
	}
}

// readLine reads the next line into the buffer. It returns false if an
// error occurs or EOF was reached.
func (dec *Decoder) readLine() bool {
	if ok := dec.sc.Scan(); !ok {
		return ok
	}
	dec.lineNum++
	return true
}

// line returns the current line.
func (dec *Decoder) line() string {
	return dec.sc.Text()
}

// headerLine returns the next header line, trimmed. Reaching EOF inside the
// header is a structural error naming the missing field.
func (dec *Decoder) headerLine(field string) (string, error) {
	if !dec.readLine() {
		if err := dec.sc.Err(); err != nil {
			return "", err
		}
		return "", &HeaderError{Line: dec.lineNum + 1, Field: field, Msg: "unexpected end of header"}
	}
	return strings.TrimSpace(dec.line()), nil
}

func (dec *Decoder) intHeaderLine(field string) (int, error) {
	s, err := dec.headerLine(field)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &HeaderError{Line: dec.lineNum, Field: field, Msg: fmt.Sprintf("integer expected, got %q", s)}
	}
	return v, nil
}

func (dec *Decoder) floatHeaderLine(field string) (float64, error) {
	s, err := dec.headerLine(field)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &HeaderError{Line: dec.lineNum, Field: field, Msg: fmt.Sprintf("float expected, got %q", s)}
	}
	return v, nil
}

// intsLine parses a comma-separated line of exactly want integers.
func (dec *Decoder) intsLine(field string, want int) ([]int, error) {
	s, err := dec.headerLine(field)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(s, ",")
	if len(parts) != want {
		return nil, &HeaderError{Line: dec.lineNum, Field: field,
			Msg: fmt.Sprintf("%d comma-separated integers expected, got %d fields", want, len(parts))}
	}
	vals := make([]int, want)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, &HeaderError{Line: dec.lineNum, Field: field,
				Msg: fmt.Sprintf("integer expected, got %q", strings.TrimSpace(p))}
		}
		vals[i] = v
	}
	return vals, nil
}

// floatsLine parses a comma-separated line of exactly want floats.
func (dec *Decoder) floatsLine(field string, want int) ([]float64, error) {
	s, err := dec.headerLine(field)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(s, ",")
	if len(parts) != want {
		return nil, &HeaderError{Line: dec.lineNum, Field: field,
			Msg: fmt.Sprintf("%d comma-separated floats expected, got %d fields", want, len(parts))}
	}
	vals := make([]float64, want)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, &HeaderError{Line: dec.lineNum, Field: field,
				Msg: fmt.Sprintf("float expected, got %q", strings.TrimSpace(p))}
		}
		vals[i] = v
	}
	return vals, nil
}

// flagsLine parses the missing-data flag line. The flags stay textual since
// sentinel comparison against record fields is textual; embedded blanks are
// stripped the way the format's real-world files require.
func (dec *Decoder) flagsLine(field string, want int) ([]string, error) {
	s, err := dec.headerLine(field)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(strings.ReplaceAll(s, " ", ""), ",")
	if len(parts) != want {
		return nil, &HeaderError{Line: dec.lineNum, Field: field,
			Msg: fmt.Sprintf("%d comma-separated flags expected, got %d fields", want, len(parts))}
	}
	return parts, nil
}

// parseVariable splits a "name, units, description" line. Lines with fewer
// than three fields are padded, not rejected; real-world files routinely
// omit units or description.
func parseVariable(line string) Variable {
	fields := strings.SplitN(line, ",", 3)
	for len(fields) < 3 {
		fields = append(fields, "")
	}
	return Variable{
		Name:        strings.TrimSpace(fields[0]),
		Units:       strings.TrimSpace(fields[1]),
		Description: strings.TrimSpace(fields[2]),
	}
}

// parseExtendedAttributes extracts "KEY: VALUE" shaped comment lines,
// splitting on the first colon only. Keys are uppercased and trimmed.
// Lines without a colon are left alone.
func parseExtendedAttributes(comments []string) map[string]string {
	attrs := make(map[string]string, len(comments))
	for _, c := range comments {
		key, val, ok := strings.Cut(c, ":")
		if !ok {
			continue
		}
		attrs[strings.ToUpper(strings.TrimSpace(key))] = strings.TrimSpace(val)
	}
	return attrs
}
