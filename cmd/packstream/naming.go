// Copyright 2026 The Packstream Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strings"
)

// knownSuffixes are the compressed-file suffixes the tool recognizes
// when decompressing, beyond whatever --suffix selects. ".tgz" is the
// conventional contraction of ".tar.gz".
var knownSuffixes = []string{".gz", ".zst", ".lz4", ".z"}

// outputName computes the output path for one input file: the suffix is
// appended when compressing and stripped when decompressing. A file
// whose name carries no recognized suffix cannot be decompressed in
// place.
func outputName(file string, decompress bool, suffix string) (string, error) {
	if !decompress {
		if strings.HasSuffix(file, suffix) {
			return "", fmt.Errorf("already has suffix %s -- unchanged", suffix)
		}
		return file + suffix, nil
	}

	if strings.HasSuffix(file, ".tgz") {
		return strings.TrimSuffix(file, ".tgz") + ".tar", nil
	}
	for _, known := range append([]string{suffix}, knownSuffixes...) {
		if len(file) > len(known) && strings.HasSuffix(file, known) {
			return strings.TrimSuffix(file, known), nil
		}
	}
	return "", fmt.Errorf("unknown suffix -- ignored")
}
