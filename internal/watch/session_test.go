package watch

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcwessels/invoicefiler/internal/llm"
	"github.com/marcwessels/invoicefiler/internal/pipeline"
)

// countingExtractor returns fixed fields and counts calls.
type countingExtractor struct {
	mu     sync.Mutex
	calls  int
	fields llm.InvoiceFields
}

func (c *countingExtractor) ExtractFields(_ context.Context, _ llm.ExtractRequest) (llm.InvoiceFields, []byte, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	b, _ := json.Marshal(c.fields)
	return c.fields, b, nil
}

func (c *countingExtractor) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestRunRenamesArrivingDocumentOnce(t *testing.T) {
	dir := t.TempDir()
	ext := &countingExtractor{fields: llm.InvoiceFields{Issuer: "Acme", Category: "hosting", IssueDate: "15-07-2025"}}
	runner := pipeline.NewRunner(testLogger(), ext, pipeline.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type outcome struct {
		res pipeline.BatchResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := Run(ctx, Config{Dir: dir, Ext: ".pdf"}, runner, testLogger())
		done <- outcome{res, err}
	}()

	// let the watcher settle, then drop a document in
	time.Sleep(200 * time.Millisecond)
	write(t, filepath.Join(dir, "drop.pdf"))

	renamed := filepath.Join(dir, "Acme_hosting_20250715.pdf")
	require.Eventually(t, func() bool {
		_, err := os.Stat(renamed)
		return err == nil
	}, 5*time.Second, 50*time.Millisecond, "arriving file should be renamed")

	// give the rename's own Create event time to arrive and be skipped
	time.Sleep(400 * time.Millisecond)
	cancel()

	out := <-done
	assert.ErrorIs(t, out.err, context.Canceled)
	assert.Equal(t, 1, out.res.Total)
	assert.Equal(t, 1, out.res.Succeeded)
	assert.Equal(t, 0, out.res.Failed)
	assert.Equal(t, 1, ext.count(), "own rename output must not be re-extracted")
	assert.NoFileExists(t, filepath.Join(dir, "drop.pdf"))
}

func TestRunRejectsInvalidDir(t *testing.T) {
	runner := pipeline.NewRunner(testLogger(), &countingExtractor{}, pipeline.Options{})

	_, err := Run(context.Background(), Config{Dir: filepath.Join(t.TempDir(), "absent")}, runner, testLogger())
	assert.ErrorIs(t, err, pipeline.ErrFolderInvalid)
}
