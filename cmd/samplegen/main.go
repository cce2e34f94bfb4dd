package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bizlink/directory-backend/internal/adapters/spreadsheet"
)

// samplegen writes the bulk-import example workbook to disk, the same file
// the API serves at /api/businesses/import/sample.
func main() {
	out := flag.String("out", "business_upload_sample.xlsx", "output path for the sample workbook")
	flag.Parse()

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "samplegen: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := spreadsheet.WriteSample(f); err != nil {
		fmt.Fprintf(os.Stderr, "samplegen: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %s\n", *out)
}
