// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package logging

import (
	"fmt"
	"strings"
)

// maxLogValueLen caps request-derived values in log fields. Query strings
// have no inherent length limit, log lines should.
const maxLogValueLen = 200

// SanitizeLogValue makes a request-derived string safe to log. Control
// characters (0x00-0x1F and 0x7F) are replaced with hex escapes so crafted
// input cannot forge log lines, and overlong values are truncated.
func SanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return truncateString(result.String(), maxLogValueLen)
}

// truncateString truncates a string to a maximum length.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
