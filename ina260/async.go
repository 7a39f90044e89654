// Copyright 2023 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ina260

import (
	"context"
	"fmt"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// ContextBus is an I²C bus whose transactions suspend the caller until they
// complete or ctx is done. Cancellation and timeouts are the bus's business;
// the driver only forwards ctx.
type ContextBus interface {
	TxContext(ctx context.Context, addr uint16, w, r []byte) error
}

// SuspendBus turns a blocking i2c.Bus into a ContextBus.
//
// Every transaction runs on its own goroutine and transactions reach the
// underlying bus one at a time, in the order they were issued. A caller whose
// context ends stops waiting. If its transaction was still queued it is
// dropped; if it was already on the bus it completes before the next one
// starts.
type SuspendBus struct {
	b    i2c.Bus
	mu   sync.Mutex
	last chan struct{} // closed once the last issued transaction is done
}

// Suspend wraps b. b must not be used directly while the returned bus is in
// use.
func Suspend(b i2c.Bus) *SuspendBus {
	return &SuspendBus{b: b}
}

// TxContext implements ContextBus.
//
// If ctx is already done, nothing is sent and ctx.Err() is returned.
func (s *SuspendBus) TxContext(ctx context.Context, addr uint16, w, r []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan struct{})
	s.mu.Lock()
	prev := s.last
	s.last = done
	s.mu.Unlock()

	res := make(chan error, 1)
	go func() {
		defer close(done)
		if prev != nil {
			<-prev
		}
		if err := ctx.Err(); err != nil {
			// The caller gave up before the bus was free.
			res <- err
			return
		}
		res <- s.b.Tx(addr, w, r)
	}()
	select {
	case err := <-res:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Tx implements i2c.Bus. It waits for the transaction unconditionally.
func (s *SuspendBus) Tx(addr uint16, w, r []byte) error {
	return s.TxContext(context.Background(), addr, w, r)
}

// SetSpeed implements i2c.Bus.
func (s *SuspendBus) SetSpeed(f physic.Frequency) error {
	return s.b.SetSpeed(f)
}

func (s *SuspendBus) String() string {
	return fmt.Sprintf("suspend(%s)", s.b)
}

// asyncConn binds a ContextBus to the chip address.
type asyncConn struct {
	b    ContextBus
	addr uint16
}

func (a asyncConn) tx(ctx context.Context, w, r []byte) error {
	return a.b.TxContext(ctx, a.addr, w, r)
}

// AsyncDev is a suspending handle to an INA260.
//
// Each method issues one transaction through the ContextBus and parks the
// calling goroutine until it completes or ctx is done. Calls made in sequence
// reach the chip in sequence; there is no pipelining. Transport errors,
// including context errors reported by the bus, are returned unchanged.
type AsyncDev struct {
	b    ContextBus
	addr uint16
	r    regs
}

// NewAsync returns a suspending handle for the INA260 at addr on b. No I/O is
// performed.
func NewAsync(b ContextBus, addr uint16) *AsyncDev {
	return &AsyncDev{b: b, addr: addr, r: regs{t: asyncConn{b: b, addr: addr}, debug: noop}}
}

// EnableDebug sets a function called with a trace of every register
// transaction. Pass nil to disable it.
func (d *AsyncDev) EnableDebug(f DebugF) {
	if f == nil {
		f = noop
	}
	d.r.debug = f
}

// Configuration reads the raw configuration register.
func (d *AsyncDev) Configuration(ctx context.Context) (uint16, error) {
	return d.r.read(ctx, RegConfiguration)
}

// SetConfiguration writes v to the configuration register as is.
func (d *AsyncDev) SetConfiguration(ctx context.Context, v uint16) error {
	return d.r.write(ctx, RegConfiguration, v)
}

// Reset sets the reset bit, returning every register to its power-on value.
func (d *AsyncDev) Reset(ctx context.Context) error {
	return d.r.write(ctx, RegConfiguration, configReset)
}

// Current reads the current through the shunt.
func (d *AsyncDev) Current(ctx context.Context) (physic.ElectricCurrent, error) {
	return d.r.current(ctx)
}

// BusVoltage reads the voltage at VBUS.
func (d *AsyncDev) BusVoltage(ctx context.Context) (physic.ElectricPotential, error) {
	return d.r.busVoltage(ctx)
}

// Power reads the power delivered to the load.
func (d *AsyncDev) Power(ctx context.Context) (physic.Power, error) {
	return d.r.power(ctx)
}

// CurrentRaw reads the current register word, 1.25 mA per LSB in two's
// complement.
func (d *AsyncDev) CurrentRaw(ctx context.Context) (int16, error) {
	raw, err := d.r.read(ctx, RegCurrent)
	return int16(raw), err
}

// BusVoltageRaw reads the bus voltage register word, 1.25 mV per LSB.
func (d *AsyncDev) BusVoltageRaw(ctx context.Context) (uint16, error) {
	return d.r.read(ctx, RegBusVoltage)
}

// PowerRaw reads the power register word, 10 mW per LSB.
func (d *AsyncDev) PowerRaw(ctx context.Context) (uint16, error) {
	return d.r.read(ctx, RegPower)
}

// Read returns current, bus voltage and power, read in that order.
func (d *AsyncDev) Read(ctx context.Context) (PowerMonitor, error) {
	return d.r.sense(ctx)
}

// ManufacturerID reads the manufacturer ID register.
func (d *AsyncDev) ManufacturerID(ctx context.Context) (uint16, error) {
	return d.r.read(ctx, RegManufacturerID)
}

// DieID reads the die ID register.
func (d *AsyncDev) DieID(ctx context.Context) (uint16, error) {
	return d.r.read(ctx, RegDieID)
}

// Connected reports whether the die ID register carries the INA260 device ID.
func (d *AsyncDev) Connected(ctx context.Context) (bool, error) {
	return d.r.connected(ctx)
}

// MaskEnable reads the mask/enable register.
func (d *AsyncDev) MaskEnable(ctx context.Context) (uint16, error) {
	return d.r.read(ctx, RegMaskEnable)
}

// SetMaskEnable writes the mask/enable register.
func (d *AsyncDev) SetMaskEnable(ctx context.Context, v uint16) error {
	return d.r.write(ctx, RegMaskEnable, v)
}

// AlertLimit reads the raw alert limit register.
func (d *AsyncDev) AlertLimit(ctx context.Context) (uint16, error) {
	return d.r.read(ctx, RegAlertLimit)
}

// SetAlertLimit writes the raw alert limit register.
func (d *AsyncDev) SetAlertLimit(ctx context.Context, v uint16) error {
	return d.r.write(ctx, RegAlertLimit, v)
}

func (d *AsyncDev) String() string {
	return fmt.Sprintf("ina260{%v, 0x%02X}", d.b, d.addr)
}

// Halt implements conn.Resource.
func (d *AsyncDev) Halt() error {
	return nil
}

var _ conn.Resource = &AsyncDev{}
var _ ContextBus = &SuspendBus{}
var _ i2c.Bus = &SuspendBus{}
