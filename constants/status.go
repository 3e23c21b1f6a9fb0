package constants

// FileStatus is the canonical per-file state within a batch run.
type FileStatus string

// Stable values (these exact strings appear in logs and reports).
const (
	StatusDiscovered    FileStatus = "DISCOVERED"     // matched during folder listing
	StatusExtractOK     FileStatus = "EXTRACT_OK"     // fields extracted and validated
	StatusRenamed       FileStatus = "RENAMED"        // terminal success
	StatusExtractFailed FileStatus = "EXTRACT_FAILED" // terminal: extraction or validation failed
	StatusCollision     FileStatus = "COLLISION"      // terminal: destination name already taken
	StatusRenameFailed  FileStatus = "RENAME_FAILED"  // terminal: rename rejected by the OS
)

// IsTerminal reports whether no further processing of the file happens
// within the run.
func (s FileStatus) IsTerminal() bool {
	switch s {
	case StatusRenamed, StatusExtractFailed, StatusCollision, StatusRenameFailed:
		return true
	default:
		return false
	}
}

// IsFailure reports whether the status counts against the batch.
func (s FileStatus) IsFailure() bool {
	return s.IsTerminal() && s != StatusRenamed
}
