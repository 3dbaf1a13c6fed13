package reseller

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

func FormatBRL(v float64) string {
	return "R$ " + printer.Sprintf("%.2f", v)
}

func FormatKg(v float64) string {
	return printer.Sprintf("%.2f", v) + " kg"
}
