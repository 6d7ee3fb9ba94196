package report

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// moneyFormatter renders amounts with the currency symbol and the grouping
// of the currency's home locale.
type moneyFormatter struct {
	unit    currency.Unit
	printer *message.Printer
}

var currencyLocales = map[currency.Unit]language.Tag{
	currency.INR: language.MustParse("en-IN"),
	currency.USD: language.AmericanEnglish,
	currency.GBP: language.BritishEnglish,
	currency.EUR: language.German,
	currency.MustParseISO("AED"): language.MustParse("en-AE"),
}

func newMoneyFormatter(code string) moneyFormatter {
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.INR
	}
	tag, ok := currencyLocales[unit]
	if !ok {
		tag = language.English
	}
	return moneyFormatter{unit: unit, printer: message.NewPrinter(tag)}
}

// Code returns the ISO 4217 code
func (f moneyFormatter) Code() string {
	return f.unit.String()
}

// Format renders d rounded to two decimals
func (f moneyFormatter) Format(d decimal.Decimal) string {
	return f.printer.Sprint(currency.Symbol(f.unit.Amount(d.Round(2).InexactFloat64())))
}
