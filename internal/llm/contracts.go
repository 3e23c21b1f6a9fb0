// Package llm defines the contract between the rename pipeline and the
// document-understanding service, plus the response hygiene shared by all
// provider clients.
package llm

import (
	"context"
	"errors"
)

// InvoiceFields is the validated metadata extracted from one document.
type InvoiceFields struct {
	Issuer    string `json:"issuer"`
	Category  string `json:"category"`   // one English word, open vocabulary
	IssueDate string `json:"issue_date"` // dd-mm-yyyy as printed on the invoice
}

// ExtractRequest carries one document to the extraction service.
type ExtractRequest struct {
	Document   []byte // raw file bytes, sent inline
	MIMEType   string
	SourceName string // original basename, for log context only
	Year       int    // assumed issue year when the document omits one
}

// FieldExtractor is the only dependency the pipeline takes on a provider.
// Implementations must be safe for sequential reuse across files and must
// honor ctx cancellation. The returned raw payload is the validated JSON the
// fields were decoded from.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, req ExtractRequest) (InvoiceFields, []byte, error)
}

// Failure kinds for a single extraction. Callers match with errors.Is; the
// pipeline treats each of them as terminal for the file at hand.
var (
	// ErrServiceUnavailable covers transport-level trouble: connection
	// refused, DNS failure, timeout.
	ErrServiceUnavailable = errors.New("extraction service unreachable")

	// ErrServiceError covers non-2xx replies from a reachable service.
	ErrServiceError = errors.New("extraction service error")

	// ErrResponseMalformed covers 2xx replies whose payload cannot be
	// validated against the invoice schema, even after lenient cleanup.
	ErrResponseMalformed = errors.New("malformed extraction response")
)
