// Copyright 2026 The Packstream Authors
// SPDX-License-Identifier: Apache-2.0

//go:build crcaccel

package streamio

// SetRegister overwrites the CRC register directly. Only built under the
// crcaccel tag, for configurations where a hardware offload engine
// computes the checksum incrementally and the software register must be
// resynchronized with it.
func (c *CRC) SetRegister(value uint32) {
	c.register = value
}
