package naming

import (
	"regexp"
	"time"
)

// dateLayout covers the dd-mm-yyyy form the extraction prompt asks for.
// The unpadded reference layout also accepts single-digit days and months,
// which the service occasionally emits.
const dateLayout = "2-1-2006"

var reNonDigit = regexp.MustCompile(`\D+`)

// NormalizeDate converts a dd-mm-yyyy date into the eight-digit yyyymmdd
// form, which sorts lexically in chronological order. Input that does not
// parse as a real calendar date degrades to whatever digits it contains, in
// their original order. NormalizeDate never fails; a completely digit-free
// input yields an empty string.
func NormalizeDate(raw string) string {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return reNonDigit.ReplaceAllString(raw, "")
	}
	return t.Format("20060102")
}
