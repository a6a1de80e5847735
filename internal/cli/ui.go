package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/brothertop/svgdiff/pkg/pipeline"
	"github.com/brothertop/svgdiff/pkg/report"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleError for failure messages.
	StyleError = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(14)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Result Display
// =============================================================================

// percentStyle colors a difference percentage: green for identical, amber
// for partial differences, red for full divergence.
func percentStyle(pct float64) lipgloss.Style {
	switch {
	case pct == 0:
		return StyleSuccess
	case pct >= 100:
		return StyleError
	default:
		return StyleWarning
	}
}

// printResult prints a single comparison result.
func printResult(r *pipeline.Result) {
	if r.AspectRatioMismatch {
		printWarning("Aspect ratios differ by %.4f; documents reported 100%% different", r.MismatchDiff)
		return
	}

	pct := r.RoundedPercentage()
	if pct == 0 {
		printSuccess("Documents are identical at threshold %d", r.Threshold)
	} else {
		printInfo("%s", "Documents differ: "+percentStyle(pct).Render(fmt.Sprintf("%.2f%%", pct)))
	}
	printKeyValue("pixels", fmt.Sprintf("%d of %d differ", r.DifferentPixels, r.TotalPixels))
	printKeyValue("canvas", fmt.Sprintf("%dx%d", r.Plan.CanvasWidth, r.Plan.CanvasHeight))
	printKeyValue("threshold", fmt.Sprintf("%d", r.Threshold))
	printKeyValue("duration", r.Duration.String())
}

// printBatchSummary prints per-pair lines and the batch totals.
func printBatchSummary(b *pipeline.BatchReport) {
	for _, item := range b.Items {
		label := fmt.Sprintf("%s %s %s", item.Pair.SVG1Path, iconArrow, item.Pair.SVG2Path)
		if item.Status == pipeline.StatusFailed {
			printError("%s: %s", label, item.Err)
			continue
		}
		pct := item.Result.RoundedPercentage()
		fmt.Println("  " + percentStyle(pct).Render(fmt.Sprintf("%6.2f%%", pct)) + "  " + StyleDim.Render(label))
	}

	printNewline()
	if b.Failed == 0 {
		printSuccess("%d pairs compared", b.Total)
	} else {
		printWarning("%d pairs compared, %d failed", b.Total, b.Failed)
	}
}

// printRecordLine prints a one-line summary of a stored report.
func printRecordLine(rec *report.Record) {
	when := rec.CreatedAt.Format("2006-01-02 15:04:05")
	var detail string
	switch {
	case rec.Kind == report.KindBatch && rec.Batch != nil:
		detail = fmt.Sprintf("batch  %d pairs, %d failed", rec.Batch.Total, rec.Batch.Failed)
	case rec.Result != nil:
		detail = fmt.Sprintf("%6.2f%%  %s %s %s", rec.Result.RoundedPercentage(),
			rec.Result.Path1, iconArrow, rec.Result.Path2)
	default:
		detail = string(rec.Kind)
	}
	fmt.Println(StyleValue.Render(rec.ID) + "  " + StyleDim.Render(when) + "  " + detail)
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}
