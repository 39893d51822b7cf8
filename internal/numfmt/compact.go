// Package numfmt renders traffic totals as short display text.
package numfmt

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Compact abbreviates integers with an SI suffix and at most one decimal digit,
// e.g. 1200 as "1.2K" and 2500000 as "2.5M". Values below 1000 are printed as-is.
type Compact struct{}

// Format implements domain.NumberFormatter.
func (Compact) Format(n int) string {
	if n < 0 {
		return "-" + Compact{}.Format(-n)
	}
	if n < 1000 {
		return strconv.Itoa(n)
	}
	value, prefix := humanize.ComputeSI(float64(n))
	return humanize.FtoaWithDigits(value, 1) + strings.ToUpper(prefix)
}
