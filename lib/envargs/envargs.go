// Copyright 2026 The Packstream Authors
// SPDX-License-Identifier: Apache-2.0

// Package envargs turns an environment variable's contents into an
// argument vector, so a tool can accept default options from the
// environment in addition to the command line.
package envargs

import (
	"os"
	"strings"
)

// separators between tokens in the variable's value.
const separators = " \t"

// Expand tokenizes the named environment variable into an argument
// vector headed by the original program name argv[0]. If the variable is
// unset, empty, or all separators, the original argv is returned
// unchanged and the second result is false.
//
// Tokens are split on runs of spaces and tabs; there is no quoting.
func Expand(variableName string, argv []string) ([]string, bool) {
	value := os.Getenv(variableName)
	tokens := strings.FieldsFunc(value, func(r rune) bool {
		return strings.ContainsRune(separators, r)
	})
	if len(tokens) == 0 {
		return argv, false
	}

	expanded := make([]string, 0, len(tokens)+1)
	expanded = append(expanded, argv[0])
	expanded = append(expanded, tokens...)
	return expanded, true
}
