// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ina260 controls a Texas Instruments INA260 current, voltage and
// power monitor IC over an I²C bus.
//
// The INA260 has an integrated 2 mΩ shunt so, unlike the INA219, it needs no
// calibration: current, bus voltage and power registers have fixed LSB
// weights (1.25 mA, 1.25 mV and 10 mW). The chip does all sampling and
// averaging internally; the driver only reads and writes 16-bit registers.
//
// Every accessor issues exactly one register transaction and nothing is
// cached, so each call reflects the chip's current register content.
//
// Two handles share the same register model:
//
//   - AsyncDev takes a context.Context on every call and issues transactions
//     through a ContextBus. Use Suspend to turn any i2c.Bus into one.
//   - Dev drives a blocking conn.Conn on the calling goroutine.
//
// Both handles are always compiled in; there is no build tag selecting one.
// AsyncDev is the one to reach for by default, Dev suits callers that have no
// use for a context.
//
// Neither handle is safe for concurrent use; serialize calls externally or
// keep one handle per owner.
//
// # Datasheet
//
// http://www.ti.com/lit/ds/symlink/ina260.pdf
package ina260
