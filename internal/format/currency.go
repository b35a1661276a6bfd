// Package format renders ledger amounts for humans.
package format

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var symbols = map[string]string{
	"THB": "฿",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

var printer = message.NewPrinter(language.English)

// NormalizeCurrency validates an ISO 4217 code and returns it in canonical form.
func NormalizeCurrency(code string) (string, error) {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return "", fmt.Errorf("unknown currency %q: %w", code, err)
	}
	return unit.String(), nil
}

// Amount formats amount with the currency's symbol, or its code when no symbol is known.
// Whole amounts drop the decimals: ฿1,200 but ฿1,200.50.
func Amount(amount decimal.Decimal, code string) string {
	symbol, ok := symbols[code]
	if !ok {
		symbol = code
	}

	f := amount.Round(2).InexactFloat64()
	if amount.Equal(amount.Truncate(0)) {
		return symbol + printer.Sprintf("%.0f", f)
	}
	return symbol + printer.Sprintf("%.2f", f)
}

// ProgressBar draws a 20 cell bar with the percentage of current over total.
func ProgressBar(current, total int) string {
	percentage := 0
	if total > 0 {
		percentage = int(decimal.NewFromInt(int64(current * 100)).
			Div(decimal.NewFromInt(int64(total))).
			Round(0).IntPart())
	}
	filled := min(max(percentage/5, 0), 20)
	if percentage%5 >= 3 && filled < 20 {
		filled++
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", 20-filled) + fmt.Sprintf(" %d%%", percentage)
}
