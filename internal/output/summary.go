package output

import (
	"fmt"
	"io"

	"github.com/pankaj-dahiya-devops/netexpose/internal/models"
)

// RunSummary is what a finished scan reports to the console.
type RunSummary struct {
	// Bucket and BucketStatus are empty when uploading was skipped.
	Bucket       string
	BucketStatus string
	Findings     models.ScanSummary
	// Files are the local report paths.
	Files []string
	// Objects are the uploaded object names, in upload order.
	Objects []string
}

// PrintSummary writes the end-of-scan console summary.
func PrintSummary(w io.Writer, s RunSummary) {
	fmt.Fprintln(w, "Scan complete.")
	if s.Bucket != "" {
		fmt.Fprintf(w, "Bucket: %s (%s)\n", s.Bucket, s.BucketStatus)
	}
	fmt.Fprintf(w, "Findings: %d\n", s.Findings.TotalFindings)
	for _, name := range s.Objects {
		fmt.Fprintf(w, "Uploaded: %s\n", name)
	}
	if s.Bucket == "" {
		for _, f := range s.Files {
			fmt.Fprintf(w, "Written: %s\n", f)
		}
	}
}
