// Copyright 2026 The Packstream Authors
// SPDX-License-Identifier: Apache-2.0

// Package fileutil holds the small filename and display helpers the
// compressor tool needs around the buffer layer.
package fileutil

import (
	"fmt"
	"path/filepath"
	"strings"
)

// BaseName strips any directory prefix from a file name. Used when a
// file name is stored inside a container header: the receiving side
// reconstructs the file in its own directory.
func BaseName(name string) string {
	return filepath.Base(name)
}

// LowerName lowercases a file name for platforms whose file systems are
// not case sensitive.
func LowerName(name string) string {
	return strings.ToLower(name)
}

// Ratio renders a compression ratio on six characters, as a percentage
// of numerator over denominator with one decimal. A zero denominator
// renders as 0.0%.
func Ratio(numerator, denominator int64) string {
	if denominator == 0 {
		return fmt.Sprintf("%5.1f%%", 0.0)
	}
	return fmt.Sprintf("%5.1f%%", 100.0*float64(numerator)/float64(denominator))
}
