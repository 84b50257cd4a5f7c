package ames

import "strings"

// defaultFlagNames are the comment attributes merged into missing-value
// resolution when the caller gives no explicit list: the lower and upper
// limit-of-detection sentinels.
var defaultFlagNames = []string{"LLOD_FLAG", "ULOD_FLAG"}

// MissingValues returns, for each dependent-variable column keyed by its
// 1-based index, the ordered sentinel strings that mark missing data: the
// column's missing-data flag first, followed by the value of each named
// comment attribute that exists in the header. Attributes absent from the
// header are skipped. The time column never appears as a key.
//
// Passing explicit flag names replaces the default LLOD_FLAG/ULOD_FLAG list
// entirely.
func (hdr *Header) MissingValues(flagNames ...string) map[int][]string {
	if flagNames == nil {
		flagNames = defaultFlagNames
	}

	extras := make([]string, 0, len(flagNames))
	for _, name := range flagNames {
		if v, ok := hdr.ExtendedAttributes[strings.ToUpper(strings.TrimSpace(name))]; ok {
			extras = append(extras, v)
		}
	}

	vals := make(map[int][]string, len(hdr.MissingDataFlags))
	for i, flag := range hdr.MissingDataFlags {
		sentinels := make([]string, 0, 1+len(extras))
		sentinels = append(sentinels, strings.TrimSpace(flag))
		sentinels = append(sentinels, extras...)
		vals[i+1] = sentinels
	}
	return vals
}
