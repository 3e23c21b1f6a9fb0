// Command invoicefiler renames invoice documents in place using metadata
// extracted by a document-understanding model.
package main

import (
	"os"

	"github.com/marcwessels/invoicefiler/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
