// Package format renders calculated figures for display.
package format

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Supported display locales.
const (
	LocaleEnglish = "en"
	LocalePersian = "fa"
)

var persianDigits = strings.NewReplacer(
	"0", "۰", "1", "۱", "2", "۲", "3", "۳", "4", "۴",
	"5", "۵", "6", "۶", "7", "۷", "8", "۸", "9", "۹",
)

type units struct {
	area  string
	money string
	count string
}

var localeUnits = map[string]units{
	LocaleEnglish: {area: "m²", money: "toman", count: "units"},
	LocalePersian: {area: "متر", money: "تومان", count: "عدد"},
}

// Formatter formats numbers with thousands separators for one locale.
// A Formatter is not safe for concurrent use.
type Formatter struct {
	locale  string
	printer *message.Printer
}

// New returns a Formatter for locale. Unknown locales fall back to English.
func New(locale string) *Formatter {
	if _, ok := localeUnits[locale]; !ok {
		locale = LocaleEnglish
	}
	// Grouping always uses the English printer; Persian output only swaps
	// the digits afterwards, keeping the ASCII separators.
	return &Formatter{
		locale:  locale,
		printer: message.NewPrinter(language.English),
	}
}

// Locale reports the locale the Formatter renders for.
func (f *Formatter) Locale() string {
	return f.locale
}

// Number formats v with up to two decimals, dropping trailing zeros
// (e.g., "1,234.5").
func (f *Formatter) Number(v float64) string {
	if s, ok := nonFinite(v); ok {
		return s
	}
	s := f.printer.Sprintf("%.2f", v)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		s = "0"
	}
	return f.localize(s)
}

// Integer formats v truncated toward zero (e.g., "20,250,000,000").
func (f *Formatter) Integer(v float64) string {
	if s, ok := nonFinite(v); ok {
		return s
	}
	v = math.Trunc(v)
	if math.Abs(v) >= maxExactInteger {
		return f.localize(f.printer.Sprintf("%.0f", v))
	}
	return f.localize(f.printer.Sprintf("%d", int64(v)))
}

// Area formats a surface in square meters.
func (f *Formatter) Area(v float64) string {
	return f.Number(v) + " " + localeUnits[f.locale].area
}

// Money formats a currency amount.
func (f *Formatter) Money(v float64) string {
	return f.Integer(v) + " " + localeUnits[f.locale].money
}

// Count formats a whole quantity such as floors or parking spots.
func (f *Formatter) Count(v float64) string {
	return f.Integer(v) + " " + localeUnits[f.locale].count
}

func (f *Formatter) localize(s string) string {
	if f.locale == LocalePersian {
		return LocalizeDigits(s)
	}
	return s
}

// LocalizeDigits replaces ASCII digits with Persian digits.
func LocalizeDigits(s string) string {
	return persianDigits.Replace(s)
}

// maxExactInteger is 2^63, the first magnitude int64 cannot hold.
const maxExactInteger = 1 << 63

func nonFinite(v float64) (string, bool) {
	switch {
	case math.IsNaN(v):
		return "NaN", true
	case math.IsInf(v, 1):
		return "∞", true
	case math.IsInf(v, -1):
		return "-∞", true
	}
	return "", false
}
