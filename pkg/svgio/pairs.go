package svgio

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/brothertop/svgdiff/pkg/errors"
	"github.com/brothertop/svgdiff/pkg/pipeline"
)

// ReadPairs decodes a pair manifest from r.
//
// Each significant line must contain exactly two tab-separated paths.
// Blank lines and '#' comments are skipped. A malformed line fails the
// whole read with its 1-based line number so the manifest can be fixed.
//
// ReadPairs does not close r.
func ReadPairs(r io.Reader) ([]pipeline.Pair, error) {
	var pairs []pipeline.Pair
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) != 2 {
			return nil, errors.New(errors.ErrCodeInvalidBatch,
				"line %d: expected two tab-separated paths, got %d fields", line, len(fields))
		}
		svg1 := strings.TrimSpace(fields[0])
		svg2 := strings.TrimSpace(fields[1])
		if svg1 == "" || svg2 == "" {
			return nil, errors.New(errors.ErrCodeInvalidBatch,
				"line %d: empty path", line)
		}
		for _, p := range []string{svg1, svg2} {
			if err := errors.ValidateDocumentPath(p); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidBatch, err, "line %d", line)
			}
		}
		pairs = append(pairs, pipeline.Pair{SVG1Path: svg1, SVG2Path: svg2})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidBatch, err, "reading manifest")
	}
	return pairs, nil
}

// ImportPairs reads a pair manifest from the file at path.
//
// It returns the same validation errors as [ReadPairs] for malformed
// manifests, and FILE_NOT_FOUND when the manifest itself is missing.
func ImportPairs(path string) ([]pipeline.Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "manifest not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidBatch, err, "open manifest %s", path)
	}
	defer f.Close()

	pairs, err := ReadPairs(f)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "manifest %s", path)
	}
	return pairs, nil
}
