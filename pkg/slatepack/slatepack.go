// Package slatepack locates slatepack blocks inside free-form chat text.
// The payload between the markers stays opaque; decoding belongs to the
// wallet backend.
package slatepack

import (
	"regexp"
	"strings"
)

const (
	beginMarker = "BEGINSLATEPACK"
	endMarker   = "ENDSLATEPACK"
)

// Slatepacks are armored text blocks that chat clients wrap at arbitrary
// widths, so the scan must cross newlines.
var blockRe = regexp.MustCompile(`(?s)BEGINSLATEPACK.*?ENDSLATEPACK`)

// Extract returns the first slatepack block found in text, with embedded
// newlines stripped so the wallet backend receives a single-line armored
// payload. The second return is false when text holds no complete block.
func Extract(text string) (string, bool) {
	match := blockRe.FindString(text)
	if match == "" {
		return "", false
	}
	match = strings.ReplaceAll(match, "\r", "")
	match = strings.ReplaceAll(match, "\n", " ")
	return strings.TrimSpace(match), true
}

// Contains reports whether text holds a complete slatepack block.
func Contains(text string) bool {
	_, ok := Extract(text)
	return ok
}

// Incomplete reports whether text mentions a slatepack marker without a
// complete block, which usually means a truncated paste.
func Incomplete(text string) bool {
	if Contains(text) {
		return false
	}
	return strings.Contains(text, beginMarker) || strings.Contains(text, endMarker)
}
