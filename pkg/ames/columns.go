package ames

import (
	"fmt"
	"strings"
)

// A ColumnSource selects where resolved column names come from.
type ColumnSource string

const (
	// SourceColumns uses the file's explicit column-name line when present
	// and falls back to the header variable names otherwise.
	SourceColumns ColumnSource = "columns"

	// SourceHeader always derives the names from the variable descriptions,
	// time column first.
	SourceHeader ColumnSource = "header"
)

// A CaseMode controls the case normalization of resolved column names.
type CaseMode string

const (
	CaseUpper CaseMode = "upper"
	CaseLower CaseMode = "lower"
	CaseAsIs  CaseMode = "as-is"
)

// Columns resolves the column names of the data payload from the given
// source and applies the case transform uniformly.
func (hdr *Header) Columns(source ColumnSource, caseMode CaseMode) ([]string, error) {
	var names []string
	switch source {
	case SourceColumns:
		if hdr.ColumnNames != nil {
			names = hdr.ColumnNames
		} else {
			names = hdr.variableNames()
		}
	case SourceHeader, "":
		names = hdr.variableNames()
	default:
		return nil, fmt.Errorf("ames: undefined column source %q", source)
	}
	return applyCase(names, caseMode)
}

// NamedColumns applies the case transform to an explicit caller-supplied
// column list. The list length must equal the total variable count.
func (hdr *Header) NamedColumns(names []string, caseMode CaseMode) ([]string, error) {
	if len(names) != hdr.TotalVariableCount {
		return nil, fmt.Errorf("ames: %d column names given, file has %d columns",
			len(names), hdr.TotalVariableCount)
	}
	return applyCase(names, caseMode)
}

func applyCase(names []string, mode CaseMode) ([]string, error) {
	out := make([]string, len(names))
	switch mode {
	case CaseUpper, "":
		for i, n := range names {
			out[i] = strings.ToUpper(n)
		}
	case CaseLower:
		for i, n := range names {
			out[i] = strings.ToLower(n)
		}
	case CaseAsIs:
		copy(out, names)
	default:
		return nil, fmt.Errorf("ames: undefined case mode %q", mode)
	}
	return out, nil
}
