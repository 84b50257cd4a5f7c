package ames

import "regexp"

var (
	// ictDataPattern matches a data line whose leading numeric field is
	// terminated by a comma, optionally followed by whitespace.
	ictDataPattern = regexp.MustCompile(`^\s*[+-]?\d+(?:\.\d+)?\s*,`)

	// nasDataPattern matches a data line whose fields are separated by runs
	// of whitespace and which contains no comma.
	nasDataPattern = regexp.MustCompile(`^\s*[+-]?\d+(?:\.\d+)?\s+[^,]*$`)
)

// DetectFormat classifies the data-record dialect of the given line, which
// must be the first line after the header. Lines matching neither dialect
// pattern are classified as FormatUnknown; no default dialect is guessed.
func DetectFormat(line string) Format {
	switch {
	case ictDataPattern.MatchString(line):
		return FormatICT
	case nasDataPattern.MatchString(line):
		return FormatNAS
	}
	return FormatUnknown
}
