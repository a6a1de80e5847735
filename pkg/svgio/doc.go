// Package svgio provides file import and export for batch comparisons.
//
// # Overview
//
// This package handles the on-disk formats surrounding the comparison
// pipeline:
//
//   - Pair manifests: plain-text lists of document pairs for batch runs
//   - Comparison reports: JSON serializations of single and batch results
//   - Diff images: PNG exports of the white-on-black difference mask
//
// # Manifest Format
//
// A manifest lists one pair per line, the two paths separated by a tab:
//
//	baseline/logo.svg	candidate/logo.svg
//	# comments start with a hash
//	baseline/chart.svg	candidate/chart.svg
//
// Blank lines and lines starting with '#' are skipped. Any other line that
// does not contain exactly two tab-separated fields fails the whole import
// with the offending 1-based line number.
//
// # Import and Export
//
// Use [ImportPairs] to read a manifest from a file path, or [ReadPairs] to
// read from any io.Reader:
//
//	pairs, err := svgio.ImportPairs("pairs.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Reports are written with [ExportReport] (file) or [WriteReport] (writer),
// and diff images with [SaveDiffImage]:
//
//	err := svgio.ExportReport(report, "report.json")
//	err = svgio.SaveDiffImage(result.DiffImage, "diff.png")
//
// All functions create independent values; readers are never closed by this
// package.
package svgio
