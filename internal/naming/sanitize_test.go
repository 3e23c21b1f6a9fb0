package naming

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Acme", "Acme"},
		{"inner space", "Acme Corp", "Acme_Corp"},
		{"whitespace run", "Acme \t Corp\nGmbH", "Acme_Corp_GmbH"},
		{"invalid chars", `Acme<Corp>:"/\|?*`, "AcmeCorp"},
		{"trailing dot", "Acme Inc.", "Acme_Inc"},
		{"leading dots and spaces", ". .Acme", "_.Acme"},
		{"slashes in date-ish text", "05/03/2024", "05032024"},
		{"only invalid", `<>:"/\|?*`, ""},
		{"empty", "", ""},
		{"unicode kept", "Büro München", "Büro_München"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Sanitize(tc.in))
		})
	}
}

// Sanitize applied to its own output must be a no-op.
func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"Acme Corp",
		`we<ir>d:"na/me\|?*`,
		"  spaced  out  ",
		"dots...everywhere...",
		"Büro München AG",
		"",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), "input %q", in)
	}
}

func TestSanitizeOutputIsSafe(t *testing.T) {
	inputs := []string{
		"Acme Corp",
		`inv<oi>ce: "total"/55\20|24?*`,
		" . leading and trailing . ",
		"tab\tand\nnewline",
	}
	for _, in := range inputs {
		out := Sanitize(in)
		assert.False(t, strings.ContainsAny(out, "<>:\"/\\|?* \t\n"), "output %q", out)
		if out != "" {
			assert.NotEqual(t, byte(' '), out[0])
			assert.NotEqual(t, byte('.'), out[0])
			assert.NotEqual(t, byte(' '), out[len(out)-1])
			assert.NotEqual(t, byte('.'), out[len(out)-1])
		}
	}
}
