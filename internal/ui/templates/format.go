package templates

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Money formats v as dollars with thousands separators, e.g. $1,234.50.
func Money(v float64) string {
	return printer.Sprintf("$%.2f", v)
}

// Percent formats a signed change with one decimal, e.g. +12.3%.
func Percent(v float64) string {
	return printer.Sprintf("%+.1f%%", v)
}
