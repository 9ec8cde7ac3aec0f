package utils

import (
	"fmt"
	"strings"
)

// FormatCurrencyARS formats an amount as Argentine pesos.
// Example: 15000.50 -> "$ 15.000,50"
func FormatCurrencyARS(amount float64) string {
	formatted := fmt.Sprintf("%.2f", amount)

	parts := strings.Split(formatted, ".")
	integerPart := parts[0]
	decimalPart := parts[1]

	negative := strings.HasPrefix(integerPart, "-")
	if negative {
		integerPart = integerPart[1:]
	}

	// Thousands separator every three digits
	var groups []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{integerPart[start:i]}, groups...)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return "$ " + sign + strings.Join(groups, ".") + "," + decimalPart
}
