package naming

import "github.com/marcwessels/invoicefiler/internal/llm"

// BuildFilename composes the canonical filename for an extracted invoice:
// sanitized issuer and category joined with the normalized issue date,
// keeping the file's original extension (dot included). The function is
// pure; degenerate names and collisions surface at rename time.
func BuildFilename(fields llm.InvoiceFields, ext string) string {
	issuer := Sanitize(fields.Issuer)
	category := Sanitize(fields.Category)
	date := NormalizeDate(fields.IssueDate)
	return issuer + "_" + category + "_" + date + ext
}
