package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAgainstInvoiceSchema(t *testing.T) {
	schema := BuildInvoiceJSONSchema()

	cases := []struct {
		name    string
		payload string
		ok      bool
	}{
		{
			name:    "complete",
			payload: `{"issuer":"Acme Corp","category":"subscription","issue_date":"05-03-2024"}`,
			ok:      true,
		},
		{
			name:    "missing category",
			payload: `{"issuer":"Acme","issue_date":"05-03-2024"}`,
			ok:      false,
		},
		{
			name:    "empty issuer",
			payload: `{"issuer":"","category":"course","issue_date":"05-03-2024"}`,
			ok:      false,
		},
		{
			name:    "extra key",
			payload: `{"issuer":"Acme","category":"course","issue_date":"05-03-2024","total":"12.00"}`,
			ok:      false,
		},
		{
			name:    "wrong type",
			payload: `{"issuer":"Acme","category":"course","issue_date":20240305}`,
			ok:      false,
		},
		{
			name:    "sloppy date still passes",
			payload: `{"issuer":"Acme","category":"course","issue_date":"March 5th"}`,
			ok:      true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateJSONAgainstSchema(schema, []byte(tc.payload))
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateRejectsNonJSON(t *testing.T) {
	err := ValidateJSONAgainstSchema(BuildInvoiceJSONSchema(), []byte("issuer: Acme"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal data")
}
