// Package format renders raw warehouse figures as display strings and
// computes period-over-period deltas. Every function is pure; a missing
// value is passed as NaN and renders as NA.
package format

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/j-veylop/warehouse-finops-tui/internal/models"
)

// NA is rendered in place of a missing value.
const NA = "N/A"

// DefaultDurationDecimals is the fraction precision used for sub-minute durations.
const DefaultDurationDecimals = 1

// humanize supports at most nine fraction digits.
const maxDecimals = 9

// humanizeLimit bounds the magnitudes humanize can render; it converts the
// integer part through int64.
const humanizeLimit = 1 << 62

// Missing reports whether v carries no renderable value.
func Missing(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

func clampDecimals(decimals int) int {
	return max(0, min(decimals, maxDecimals))
}

// Grouped renders v with thousands separators and a fixed number of decimals.
func Grouped(v float64, decimals int) string {
	if Missing(v) {
		return NA
	}
	if math.Abs(v) >= humanizeLimit {
		return groupLarge(v, clampDecimals(decimals))
	}
	pattern := "#,###." + strings.Repeat("#", clampDecimals(decimals))
	return humanize.FormatFloat(pattern, v)
}

// groupLarge groups the integer digits of values beyond humanizeLimit.
func groupLarge(v float64, decimals int) string {
	digits := strconv.FormatFloat(math.Abs(v), 'f', decimals, 64)
	intPart, frac, _ := strings.Cut(digits, ".")

	var b strings.Builder
	if v < 0 {
		b.WriteByte('-')
	}
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if decimals > 0 {
		b.WriteString("." + frac)
	}
	return b.String()
}

// Number renders v grouped by thousands between prefix and suffix.
func Number(v float64, decimals int, prefix, suffix string) string {
	if Missing(v) {
		return NA
	}
	if v < 0 && !roundsToZero(v, decimals) {
		return "-" + prefix + Grouped(-v, decimals) + suffix
	}
	return prefix + Grouped(math.Abs(v), decimals) + suffix
}

// Currency renders v as symbol followed by the grouped amount, e.g. $1,234.50.
func Currency(v float64, symbol string, decimals int) string {
	return Number(v, decimals, symbol, "")
}

// Percentage renders a fraction as a percentage: 0.15 becomes "15.0%".
func Percentage(v float64, decimals int) string {
	if Missing(v) {
		return NA
	}
	return Number(v*100, decimals, "", "%")
}

// SignedPercentage renders a fraction with an explicit sign: "+25.0%".
// Values that round to zero render as positive.
func SignedPercentage(v float64, decimals int) string {
	if Missing(v) {
		return NA
	}
	pct := v * 100
	body := Grouped(math.Abs(pct), decimals)
	if pct < 0 && !roundsToZero(pct, decimals) {
		return "-" + body + "%"
	}
	return "+" + body + "%"
}

func roundsToZero(v float64, decimals int) bool {
	p := math.Pow10(clampDecimals(decimals))
	return math.Round(math.Abs(v)*p) == 0
}

// Delta returns the relative change (current-previous)/previous. ok is false
// when the change is undefined: either input missing, or a non-zero current
// against a zero baseline. Zero against zero is no change.
func Delta(current, previous float64) (delta float64, ok bool) {
	if Missing(current) || Missing(previous) {
		return math.NaN(), false
	}
	if previous == 0 {
		if current == 0 {
			return 0, true
		}
		return math.NaN(), false
	}
	return (current - previous) / previous, true
}

// Ratio divides numerator by denominator, yielding 0 for a zero denominator.
func Ratio(numerator, denominator float64) float64 {
	if Missing(numerator) || Missing(denominator) {
		return math.NaN()
	}
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// Duration decomposes seconds into days, hours, minutes and seconds.
// Values under a minute keep decimals ("59.4s"); longer values are rounded
// to the nearest second and every unit below the highest one is shown
// ("1m 0s", "1h 1m 1s").
func Duration(seconds float64, decimals int) string {
	if Missing(seconds) {
		return NA
	}

	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}

	decimals = clampDecimals(decimals)
	p := math.Pow10(decimals)
	if rounded := math.Round(seconds*p) / p; rounded < 60 {
		if rounded == 0 {
			sign = ""
		}
		return sign + strconv.FormatFloat(rounded, 'f', decimals, 64) + "s"
	}

	// float64 keeps the decomposition exact below 2^53 and free of
	// integer overflow above it.
	total := math.Round(seconds)
	days := math.Floor(total / 86400)
	hours := math.Mod(math.Floor(total/3600), 24)
	mins := math.Mod(math.Floor(total/60), 60)
	secs := math.Mod(total, 60)

	var parts []string
	if days > 0 {
		parts = append(parts, wholeUnits(days)+"d")
	}
	if days > 0 || hours > 0 {
		parts = append(parts, wholeUnits(hours)+"h")
	}
	parts = append(parts, wholeUnits(mins)+"m", wholeUnits(secs)+"s")

	return sign + strings.Join(parts, " ")
}

func wholeUnits(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}

// ByteUnit is a binary magnitude used for byte counts.
type ByteUnit int

const (
	KB ByteUnit = iota + 1
	MB
	GB
	TB
)

func (u ByteUnit) String() string {
	switch u {
	case KB:
		return "KB"
	case MB:
		return "MB"
	case GB:
		return "GB"
	case TB:
		return "TB"
	default:
		return "ByteUnit(" + strconv.Itoa(int(u)) + ")"
	}
}

// Divisor returns 1024^k for the unit.
func (u ByteUnit) Divisor() float64 {
	return math.Pow(1024, float64(u))
}

// ParseByteUnit accepts KB, MB, GB or TB in any case.
func ParseByteUnit(unit string) (ByteUnit, error) {
	switch strings.ToUpper(strings.TrimSpace(unit)) {
	case "KB":
		return KB, nil
	case "MB":
		return MB, nil
	case "GB":
		return GB, nil
	case "TB":
		return TB, nil
	}
	return 0, models.NewConfigurationError("bytes", "unrecognized byte unit %q", unit)
}

// Bytes renders a byte count in unit, e.g. "1.00 GB".
func Bytes(v float64, unit ByteUnit, decimals int) string {
	if Missing(v) {
		return NA
	}
	return Number(v/unit.Divisor(), decimals, "", " "+unit.String())
}

// BytesIn is Bytes with the unit given by name. An unrecognized unit is a
// configuration error regardless of the value.
func BytesIn(v float64, unit string, decimals int) (string, error) {
	u, err := ParseByteUnit(unit)
	if err != nil {
		return "", err
	}
	return Bytes(v, u, decimals), nil
}
