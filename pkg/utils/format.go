// Package utils provides common formatting and time helpers for marketbrief.
package utils

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// PercentChange returns (latest-previous)/previous*100 rounded to 2 dp.
// A zero previous value yields 0.
func PercentChange(previous, latest float64) float64 {
	if previous == 0 {
		return 0
	}
	p := decimal.NewFromFloat(previous)
	change := decimal.NewFromFloat(latest).Sub(p).Div(p).Mul(decimal.NewFromInt(100))
	return change.Round(2).InexactFloat64()
}

// FormatUSD formats an amount as US dollars with thousands separators.
// e.g., 1234567.891 → "$1,234,567.89"
func FormatUSD(amount float64) string {
	negative := amount < 0
	s := fmt.Sprintf("%.2f", math.Abs(amount))
	intPart, decPart, _ := strings.Cut(s, ".")
	out := "$" + groupThousands(intPart) + "." + decPart
	if negative {
		return "-" + out
	}
	return out
}

// FormatCompact formats a large amount in compact notation.
// e.g., 2850000000000 → "$2.85T", 1500000 → "$1.5M"
func FormatCompact(amount float64) string {
	negative := amount < 0
	amount = math.Abs(amount)

	prefix := "$"
	if negative {
		prefix = "-$"
	}

	switch {
	case amount >= 1e12:
		return prefix + formatWithDecimals(amount/1e12) + "T"
	case amount >= 1e9:
		return prefix + formatWithDecimals(amount/1e9) + "B"
	case amount >= 1e6:
		return prefix + formatWithDecimals(amount/1e6) + "M"
	case amount >= 1e3:
		return prefix + formatWithDecimals(amount/1e3) + "K"
	default:
		return fmt.Sprintf("%s%.2f", prefix, amount)
	}
}

// FormatPct formats a percentage value with sign and suffix.
// e.g., 2.45 → "+2.45%", -1.23 → "-1.23%"
func FormatPct(pct float64) string {
	if pct >= 0 {
		return fmt.Sprintf("+%.2f%%", pct)
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// FormatVolume formats share volume compactly.
// e.g., 52300000 → "52.3M"
func FormatVolume(volume int64) string {
	v := float64(volume)
	switch {
	case v >= 1e9:
		return formatWithDecimals(v/1e9) + "B"
	case v >= 1e6:
		return formatWithDecimals(v/1e6) + "M"
	case v >= 1e3:
		return formatWithDecimals(v/1e3) + "K"
	default:
		return fmt.Sprintf("%d", volume)
	}
}

// Truncate shortens s to at most n runes, appending "..." when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// NormalizeTicker upper-cases and trims a ticker symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var sb strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		sb.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(digits[i : i+3])
	}
	return sb.String()
}

// formatWithDecimals formats a number with up to 2 decimal places,
// removing trailing zeros.
func formatWithDecimals(n float64) string {
	s := fmt.Sprintf("%.2f", n)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
