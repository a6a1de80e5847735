package svgio

import (
	"encoding/json"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"

	"github.com/brothertop/svgdiff/pkg/errors"
)

// WriteReport encodes v as indented JSON and writes it to w. Any value
// with JSON tags works; pipeline results and batch reports are the usual
// inputs.
func WriteReport(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode report")
	}
	return nil
}

// ExportReport writes a JSON report to the file at path, creating or
// truncating it.
func ExportReport(v any, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeValidation, err, "create report file %s", path)
	}
	defer f.Close()

	if err := WriteReport(v, f); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "close report file %s", path)
	}
	return nil
}

// SaveDiffImage writes a difference mask to path as PNG. The encoder is
// chosen from the file extension, so .png is the conventional choice; any
// format imaging supports works.
func SaveDiffImage(img *image.RGBA, path string) error {
	if img == nil {
		return errors.New(errors.ErrCodeValidation, "no diff image to save")
	}
	if err := imaging.Save(img, path); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save diff image %s", path)
	}
	return nil
}
