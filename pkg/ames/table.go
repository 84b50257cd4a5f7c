package ames

// A TableSpec carries everything an external tabular reader needs to load
// the data payload: which lines to skip, how records are delimited, what
// the columns are called and which tokens mark missing data. Values are
// floating point so that missing entries can become NaN.
type TableSpec struct {
	Path          string           `json:"path"`
	Delimiter     string           `json:"delimiter"` // "," for ict; empty means any run of whitespace
	SkipLines     int              `json:"skipLines"` // header lines to skip
	Columns       []string         `json:"columns"`
	MissingValues map[int][]string `json:"missingValues"` // sentinels per 1-based column index
	FloatKind     string           `json:"floatKind"`     // numeric dtype hint, NaN-capable
}

// TableSpec assembles the hand-off artifact for an external tabular reader.
func (f *File) TableSpec(source ColumnSource, caseMode CaseMode) (*TableSpec, error) {
	hdr, err := f.ReadHeader()
	if err != nil {
		return nil, err
	}
	cols, err := hdr.Columns(source, caseMode)
	if err != nil {
		return nil, err
	}

	return &TableSpec{
		Path:          f.Path,
		Delimiter:     f.Format.Delimiter(),
		SkipLines:     hdr.HeaderLines,
		Columns:       cols,
		MissingValues: hdr.MissingValues(),
		FloatKind:     "float64",
	}, nil
}
