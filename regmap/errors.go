// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package regmap

import "fmt"

// BusError is returned when the register transport fails.
//
// It is never retried.
type BusError struct {
	Op   string // "read" or "write"
	Addr Addr
	// Flat is set by maps without pages; Addr is then the register number.
	Flat bool
	Err  error
}

func (b *BusError) Error() string {
	if b.Flat {
		return fmt.Sprintf("regmap: %s R%#04x: %v", b.Op, uint8(b.Addr), b.Err)
	}
	return fmt.Sprintf("regmap: %s %s: %v", b.Op, b.Addr, b.Err)
}

// Unwrap returns the transport error.
func (b *BusError) Unwrap() error {
	return b.Err
}
