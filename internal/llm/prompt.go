package llm

import (
	"fmt"
	"strings"
)

// BuildExtractionPrompt composes the instruction sent with every document.
// year fills in for invoices that omit the issue year, which subscription
// receipts often do.
func BuildExtractionPrompt(year int) string {
	parts := []string{
		"From this invoice retrieve the issuer (the company that issued the invoice),",
		"a one word category in English (for instance 'subscription', 'course', 'insurance'),",
		"and the issue date in dd-mm-yyyy format.",
		fmt.Sprintf("If the year is not present in the invoice, assume it is %d.", year),
		"Return ONLY JSON that matches the provided schema.",
		"Never output null. If a field is unreadable, use your best guess from the visible text.",
	}
	return strings.Join(parts, " ")
}
