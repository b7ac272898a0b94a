package apitests

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	excelSheetName   = "Results"
	excelFirstColumn = 'A'
	excelFailBgColor = "FF5900"
)

var excelHeaders = []string{ //nolint:gochecknoglobals
	"Category", "Case", "Description", "URL", "Sent Body",
	"Expected Status", "Actual Status", "Response", "Elapsed", "Result",
}

// WriteExcelReport writes the run summary as a spreadsheet: one row per executed case
// with failed rows highlighted, followed by overall totals.
func WriteExcelReport(path string, summary *RunSummary) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName(f.GetSheetName(0), excelSheetName); err != nil {
		return err
	}

	failStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{excelFailBgColor}},
	})
	if err != nil {
		return err
	}

	for i, header := range excelHeaders {
		cell := fmt.Sprintf("%c1", excelFirstColumn+i)
		if err := f.SetCellValue(excelSheetName, cell, header); err != nil {
			return err
		}
	}

	for i, outcome := range summary.Outcomes {
		row := i + 2
		if err := writeExcelRow(f, failStyle, row, outcome); err != nil {
			return err
		}
	}

	summaryRow := len(summary.Outcomes) + 3
	_ = f.SetCellValue(excelSheetName, fmt.Sprintf("A%d", summaryRow), "Summary")
	_ = f.SetCellValue(excelSheetName, fmt.Sprintf("A%d", summaryRow+1),
		fmt.Sprintf("Total cases: %d", summary.Total))
	_ = f.SetCellValue(excelSheetName, fmt.Sprintf("A%d", summaryRow+2),
		fmt.Sprintf("Passed: %d", summary.Passed))
	_ = f.SetCellValue(excelSheetName, fmt.Sprintf("A%d", summaryRow+3),
		fmt.Sprintf("Failed: %d", len(summary.Failed)))
	if stats, ok := summary.TimingStats(); ok {
		_ = f.SetCellValue(excelSheetName, fmt.Sprintf("A%d", summaryRow+4),
			fmt.Sprintf("Timing: min %.3fs / mean %.3fs / max %.3fs over %d requests",
				stats.Min.Seconds(), stats.Mean.Seconds(), stats.Max.Seconds(), stats.SampleCount))
	}

	return f.SaveAs(path)
}

func writeExcelRow(f *excelize.File, failStyle int, row int, outcome CaseOutcome) error {
	expectedStatus, actualStatus, elapsed := "", "", ""
	if outcome.Expect.Status.IsDefined() {
		expectedStatus = fmt.Sprintf("%d", outcome.Expect.Status.Value())
	}
	if outcome.Result.Status.IsDefined() {
		actualStatus = fmt.Sprintf("%d", outcome.Result.Status.Value())
	}
	if outcome.Result.Elapsed.IsDefined() {
		elapsed = fmt.Sprintf("%.3fs", outcome.Result.Elapsed.Value().Seconds())
	}
	response := outcome.Result.ResponseText.OrElse("")
	if outcome.Result.TransportError.IsDefined() {
		response = "transport error: " + outcome.Result.TransportError.Value()
	}
	verdict := "FAILED"
	if outcome.Passed {
		verdict = "PASSED"
	}

	cells := []interface{}{
		outcome.Category,
		outcome.CaseName,
		outcome.Description,
		outcome.Result.URL,
		outcome.Result.SentBody,
		expectedStatus,
		actualStatus,
		abbreviate(response),
		elapsed,
		verdict,
	}
	for i, value := range cells {
		cellName := fmt.Sprintf("%c%d", excelFirstColumn+i, row)
		if err := f.SetCellValue(excelSheetName, cellName, value); err != nil {
			return err
		}
		if !outcome.Passed {
			if err := f.SetCellStyle(excelSheetName, cellName, cellName, failStyle); err != nil {
				return err
			}
		}
	}
	return nil
}
