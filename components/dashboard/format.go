package dashboard

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Display formatting is fixed to Brazilian Portuguese conventions: comma
// decimal separator, period thousands separator.
var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// FormatFullNumber renders x with grouped thousands and up to 2 fraction
// digits. Non-finite input renders as "0".
func FormatFullNumber(x float64) string {
	if !isFinite(x) {
		return "0"
	}
	return ptBR.Sprintf("%v", number.Decimal(x, number.MaxFractionDigits(2)))
}

// FormatCompactNumber scales x by magnitude (Bi/Mi/Mil) before formatting.
// The fraction digits shown shrink as the scaled magnitude grows.
func FormatCompactNumber(x float64) string {
	if !isFinite(x) {
		return "0"
	}
	abs := math.Abs(x)
	var scaled float64
	var suffix string
	switch {
	case abs >= 1e9:
		scaled, suffix = x/1e9, " Bi"
	case abs >= 1e6:
		scaled, suffix = x/1e6, " Mi"
	case abs >= 1e3:
		scaled, suffix = x/1e3, " Mil"
	default:
		return FormatFullNumber(x)
	}
	digits := 2
	switch {
	case math.Abs(scaled) >= 100:
		digits = 0
	case math.Abs(scaled) >= 10:
		digits = 1
	}
	return ptBR.Sprintf("%v", number.Decimal(scaled, number.MaxFractionDigits(digits))) + suffix
}

// FormatPercent renders x with one fraction digit and a "%" suffix.
func FormatPercent(x float64) string {
	if !isFinite(x) {
		x = 0
	}
	return ptBR.Sprintf("%v", number.Decimal(x, number.Scale(1))) + "%"
}

// FormatBRL renders x as Brazilian reais with two fraction digits.
func FormatBRL(x float64) string {
	if !isFinite(x) {
		x = 0
	}
	return "R$ " + ptBR.Sprintf("%v", number.Decimal(x, number.Scale(2)))
}

var (
	ptBRGrouped = regexp.MustCompile(`^[+-]?\d{1,3}(\.\d{3})+(,\d+)?$`)
	enUSGrouped = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)
)

// ToFiniteNumber coerces a raw value into a finite float64. Strings are
// disambiguated between pt-BR ("1.234,56") and en-US ("1,234.56") grouping;
// a comma with no period is read as a decimal comma. Anything unparseable,
// NaN, or infinite yields 0. Never panics.
func ToFiniteNumber(raw any) float64 {
	switch v := raw.(type) {
	case nil:
		return 0
	case float64:
		return finiteOrZero(v)
	case float32:
		return finiteOrZero(float64(v))
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint64:
		return float64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		return parseLocaleNumber(v)
	case fmt.Stringer:
		return parseLocaleNumber(v.String())
	default:
		return 0
	}
}

func parseLocaleNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	switch {
	case ptBRGrouped.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case enUSGrouped.MatchString(s):
		s = strings.ReplaceAll(s, ",", "")
	case strings.Contains(s, ",") && !strings.Contains(s, "."):
		s = strings.ReplaceAll(s, ",", ".")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return finiteOrZero(f)
}

func finiteOrZero(f float64) float64 {
	if !isFinite(f) {
		return 0
	}
	return f
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

var dateLikePrefix = regexp.MustCompile(`^\d{4}[-/]\d{2}[-/]\d{2}`)

// ParseDateLike accepts a time.Time (valid when non-zero) or a string
// beginning with YYYY-MM-DD or YYYY/MM/DD. Any other shape is not a date.
// The narrow prefix rule intentionally rejects ambiguous locale-formatted
// date strings.
func ParseDateLike(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return v, true
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return *v, true
	case string:
		return parseDateString(v)
	default:
		return time.Time{}, false
	}
}

func parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if !dateLikePrefix.MatchString(s) {
		return time.Time{}, false
	}
	normalized := strings.ReplaceAll(s[:10], "/", "-") + s[10:]
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, normalized); err == nil {
			return t, true
		}
	}
	// Prefix looked like a date but the tail did not parse; keep the date part.
	if t, err := time.Parse("2006-01-02", normalized[:10]); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// FormatByColumn dispatches display formatting on a column format tag.
// Unrecognized or non-convertible values fall back to stringification.
func FormatByColumn(value any, format ColumnFormat) string {
	switch format {
	case FormatText:
		return stringify(value)
	case FormatCurrencyBRL:
		return FormatBRL(ToFiniteNumber(value))
	case FormatNumber2:
		return FormatFullNumber(ToFiniteNumber(value))
	case FormatInteger:
		return ptBR.Sprintf("%v", number.Decimal(ToFiniteNumber(value), number.Scale(0)))
	case FormatDateTime:
		if t, ok := ParseDateLike(value); ok {
			return t.Format("02/01/2006 15:04")
		}
		return stringify(value)
	case FormatTime:
		if t, ok := ParseDateLike(value); ok {
			return t.Format("15:04")
		}
		return stringify(value)
	case FormatYear:
		if t, ok := ParseDateLike(value); ok {
			return t.Format("2006")
		}
		return stringify(value)
	case FormatMonth:
		if t, ok := ParseDateLike(value); ok {
			return t.Format("01/2006")
		}
		return stringify(value)
	case FormatDay:
		if t, ok := ParseDateLike(value); ok {
			return t.Format("02/01/2006")
		}
		return stringify(value)
	default:
		return stringify(value)
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", v)
	}
}
