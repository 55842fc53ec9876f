// Package money renders Stripe minor-unit amounts for humans.
package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bojanz/currency"
)

var ErrInvalidCurrency = errors.New("invalid currency code")

// The formatter locale is fixed whatever the currency, so EUR renders as
// "€12.00" rather than "12,00 €".
var formatter = currency.NewFormatter(currency.NewLocale("en-US"))

// FormatMinor divides amount by 100 and formats it in the given ISO 4217
// currency. Stripe sends lowercase codes; case is ignored. The result is
// rounded half-up to the currency's own digits, so 2550 JPY is "¥26".
func FormatMinor(amount int64, currencyCode string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	// IsValid treats "" as valid
	if code == "" || !currency.IsValid(code) {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, currencyCode)
	}

	a, err := currency.NewAmount(strconv.FormatInt(amount, 10), code)
	if err != nil {
		return "", fmt.Errorf("money - FormatMinor - NewAmount: %w", err)
	}
	a, err = a.Div("100")
	if err != nil {
		return "", fmt.Errorf("money - FormatMinor - Div: %w", err)
	}

	return formatter.Format(a), nil
}

// FormatMinorOrRaw is FormatMinor with a plain "25.50 XYZ" fallback for
// codes the currency data does not know, or "25.50" when there is no code.
func FormatMinorOrRaw(amount int64, currencyCode string) string {
	if s, err := FormatMinor(amount, currencyCode); err == nil {
		return s
	}

	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	raw := fmt.Sprintf("%s%d.%02d %s", sign, amount/100, amount%100, strings.ToUpper(strings.TrimSpace(currencyCode)))
	return strings.TrimSpace(raw)
}
