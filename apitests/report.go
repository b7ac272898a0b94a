package apitests

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var reportFailureColor = color.New(color.FgRed)   //nolint:gochecknoglobals
var reportSuccessColor = color.New(color.FgGreen) //nolint:gochecknoglobals

const reportBannerWidth = 70

// PrintSummary writes the aggregate report for a finished run to standard output:
// overall counts and success rate, the per-category breakdown, details of every failed
// case, and the timing statistics.
func PrintSummary(summary *RunSummary) {
	banner := strings.Repeat("=", reportBannerWidth)
	fmt.Println(banner)
	fmt.Println("TEST RUN SUMMARY")
	fmt.Println(banner)

	fmt.Printf("Total cases:  %d\n", summary.Total)
	fmt.Printf("Passed:       %d\n", summary.Passed)
	fmt.Printf("Failed:       %d\n", len(summary.Failed))
	if summary.Total > 0 {
		fmt.Printf("Success rate: %.1f%%\n", float64(summary.Passed)/float64(summary.Total)*100)
	}

	fmt.Println()
	for _, cat := range summary.Categories {
		fmt.Printf("  %-20s %d/%d passed\n", cat.Name+":", cat.Passed, cat.Total)
	}

	if len(summary.Failed) > 0 {
		fmt.Println()
		reportFailureColor.Printf("FAILED CASES (%d):\n", len(summary.Failed))
		for _, outcome := range summary.Failed {
			fmt.Printf("  [%s] %s\n", outcome.Category, outcome.CaseName)
			if outcome.Result.TransportError.IsDefined() {
				fmt.Printf("      transport error: %s\n", outcome.Result.TransportError.Value())
				continue
			}
			if outcome.Expect.Status.IsDefined() {
				fmt.Printf("      expected status %d, got %d\n",
					outcome.Expect.Status.Value(), outcome.Result.Status.OrElse(0))
			}
			if outcome.Expect.Contains.IsDefined() {
				fmt.Printf("      expected response to contain %q\n", outcome.Expect.Contains.Value())
			}
		}
	}

	if stats, ok := summary.TimingStats(); ok {
		fmt.Println()
		fmt.Printf("Response times over %d requests:\n", stats.SampleCount)
		fmt.Printf("  min:  %.3fs\n", stats.Min.Seconds())
		fmt.Printf("  mean: %.3fs\n", stats.Mean.Seconds())
		fmt.Printf("  max:  %.3fs\n", stats.Max.Seconds())
	}

	fmt.Println(banner)
	if summary.Total > 0 && len(summary.Failed) == 0 {
		reportSuccessColor.Println("All test cases passed")
	}
}
