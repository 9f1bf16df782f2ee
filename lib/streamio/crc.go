// Copyright 2026 The Packstream Authors
// SPDX-License-Identifier: Apache-2.0

package streamio

import "hash/crc32"

// CRC is the running 32-bit checksum register threaded through
// successive Update calls. The register value for the empty sequence is
// zero, and Reset returns it to that value.
//
// There is no implicit reset: callers reset the register once at the
// start of each logical stream, before the first Update.
type CRC struct {
	register uint32
}

// Reset sets the register to its initial value and returns it.
func (c *CRC) Reset() uint32 {
	c.register = 0
	return c.register
}

// Update folds data into the register using the standard CRC-32 (IEEE)
// polynomial and returns the new register value. Update with an empty
// slice returns the register unchanged.
func (c *CRC) Update(data []byte) uint32 {
	c.register = crc32.Update(c.register, crc32.IEEETable, data)
	return c.register
}

// Sum returns the current register value without mutating it.
func (c *CRC) Sum() uint32 {
	return c.register
}
