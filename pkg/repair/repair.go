// Package repair regenerates missing or broken viewBox declarations.
//
// A document without a viewBox and without numeric width/height has no
// defined aspect ratio and cannot be compared. The repairers here produce
// a patched copy of the markup whose root element carries a valid,
// content-fitting viewBox plus matching width/height; the input document
// is never modified.
//
// Two implementations are provided:
//   - BoundsRepairer computes content bounds from the document's basic
//     shapes in-process.
//   - CommandRepairer delegates to an external tool (e.g. an Inkscape
//     wrapper), staging the document through uniquely named temp files
//     that are removed when the call returns, error path included.
package repair

import (
	"fmt"
	"strings"
	"unicode"
)

// rewriteRoot returns the document with the root svg element's viewBox,
// width and height replaced. All other attributes and the remainder of the
// document are preserved byte-for-byte.
func rewriteRoot(svg string, x, y, w, h float64) (string, error) {
	start := strings.Index(svg, "<svg")
	if start < 0 {
		return "", fmt.Errorf("no <svg> root element")
	}
	end := tagEnd(svg, start)
	if end < 0 {
		return "", fmt.Errorf("unterminated <svg> root tag")
	}

	tag := svg[start:end] // without the closing ">" or "/>"
	selfClosing := strings.HasSuffix(strings.TrimRight(svg[start:end+1], ">"), "/")
	if selfClosing {
		tag = strings.TrimRight(strings.TrimRight(tag, "/"), " \t\n")
	}

	tag = dropAttr(tag, "viewBox")
	tag = dropAttr(tag, "width")
	tag = dropAttr(tag, "height")
	tag = strings.TrimRight(tag, " \t\n")
	tag += fmt.Sprintf(` viewBox="%s %s %s %s" width="%s" height="%s"`,
		trimFloat(x), trimFloat(y), trimFloat(w), trimFloat(h), trimFloat(w), trimFloat(h))

	closer := ">"
	if selfClosing {
		closer = "/>"
	}
	return svg[:start] + tag + closer + svg[end+1:], nil
}

// tagEnd finds the index of the '>' terminating the tag opened at start,
// skipping quoted attribute values.
func tagEnd(svg string, start int) int {
	inQuote := byte(0)
	for i := start; i < len(svg); i++ {
		c := svg[i]
		switch {
		case inQuote != 0:
			if c == inQuote {
				inQuote = 0
			}
		case c == '"' || c == '\'':
			inQuote = c
		case c == '>':
			return i
		}
	}
	return -1
}

// dropAttr removes an attribute (and its value) from a serialized tag.
func dropAttr(tag, name string) string {
	for {
		idx := attrIndex(tag, name)
		if idx < 0 {
			return tag
		}
		// Find the end of the quoted value.
		rest := tag[idx:]
		q := strings.IndexAny(rest, `"'`)
		if q < 0 {
			return tag
		}
		quote := rest[q]
		endQ := strings.IndexByte(rest[q+1:], quote)
		if endQ < 0 {
			return tag
		}
		tag = strings.TrimRight(tag[:idx], " \t\n") + tag[idx+q+1+endQ+1:]
	}
}

// attrIndex locates a whole-word attribute name followed by '=' in tag.
func attrIndex(tag, name string) int {
	for i := 0; i+len(name) < len(tag); i++ {
		if !strings.HasPrefix(tag[i:], name) {
			continue
		}
		if i > 0 && !unicode.IsSpace(rune(tag[i-1])) {
			continue
		}
		rest := strings.TrimLeft(tag[i+len(name):], " \t\n")
		if strings.HasPrefix(rest, "=") {
			return i
		}
	}
	return -1
}

// trimFloat formats a float without a trailing ".0" for integral values.
func trimFloat(v float64) string {
	s := fmt.Sprintf("%g", v)
	return s
}
