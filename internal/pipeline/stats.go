package pipeline

import (
	"github.com/marcwessels/invoicefiler/constants"
	"github.com/marcwessels/invoicefiler/internal/llm"
)

// FileResult is the terminal outcome for one task within a run. Fields is
// populated whenever extraction succeeded, even if the rename after it did
// not.
type FileResult struct {
	Task    FileTask
	Status  constants.FileStatus
	Fields  llm.InvoiceFields
	NewName string // derived filename, set once extraction succeeded
	Err     error  // set on failures
}

// BatchResult aggregates one full run over a folder. On cancellation the
// counts accumulated so far are preserved; Total stays the number of files
// discovered, so an interrupted run reads as partial success.
type BatchResult struct {
	Succeeded int
	Failed    int
	Total     int
	Results   []FileResult
}

// AllSucceeded reports whether every discovered file ended up renamed. An
// empty batch does not count as success.
func (b BatchResult) AllSucceeded() bool {
	return b.Total > 0 && b.Succeeded == b.Total
}
