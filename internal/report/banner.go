package report

import (
	"fmt"
	"io"

	"github.com/common-nighthawk/go-figure"
)

// PrintBanner writes state-scan's startup banner to w. Grounded on the
// teacher's output.PrintBanner; noBanner and isTTY gate the full ASCII
// art the same way --no-banner and a non-terminal sink do there.
func PrintBanner(w io.Writer, version string, isTTY, noBanner bool) {
	if w == nil || noBanner {
		return
	}
	if !isTTY {
		fmt.Fprintf(w, "state-scan v%s\n\n", version)
		return
	}
	fmt.Fprintln(w, asciiLogo())
	fmt.Fprintf(w, "state-scan v%s\n\n", version)
}

func asciiLogo() string {
	return figure.NewFigure("state-scan", "standard", true).String()
}
