package llm

// BuildInvoiceJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. Provider clients use it locally to validate the service
// response before the payload is trusted.
//
// issue_date is deliberately a free string rather than a date pattern: a
// sloppily formatted date must still reach the date normalizer, which has a
// digits-only fallback for it.
func BuildInvoiceJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"issuer":     map[string]any{"type": "string", "minLength": 1},
			"category":   map[string]any{"type": "string", "minLength": 1},
			"issue_date": map[string]any{"type": "string", "minLength": 1},
		},
		"required": []string{"issuer", "category", "issue_date"},
	}
}
