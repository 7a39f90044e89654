// Copyright 2023 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ina260

import (
	"context"
	"encoding/binary"
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// DebugF is the signature of the transaction trace hook.
type DebugF func(string, ...interface{})

// PowerMonitor is a snapshot of the three measurement registers.
type PowerMonitor struct {
	Current physic.ElectricCurrent
	Voltage physic.ElectricPotential
	Power   physic.Power
}

func (p PowerMonitor) String() string {
	return fmt.Sprintf("%s %s %s", p.Voltage, p.Current, p.Power)
}

// transactor performs one bus transaction: write w, then read len(r) bytes.
type transactor interface {
	tx(ctx context.Context, w, r []byte) error
}

// regs is the register model shared by Dev and AsyncDev. Every method is
// exactly one transaction on t.
type regs struct {
	t     transactor
	debug DebugF
}

func (rg *regs) read(ctx context.Context, reg Register) (uint16, error) {
	var r [2]byte
	if err := rg.t.tx(ctx, []byte{byte(reg)}, r[:]); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r[:])
	rg.debug("R %s=0x%04X", reg, v)
	return v, nil
}

func (rg *regs) write(ctx context.Context, reg Register, v uint16) error {
	w := [3]byte{byte(reg)}
	binary.BigEndian.PutUint16(w[1:], v)
	if err := rg.t.tx(ctx, w[:], nil); err != nil {
		return err
	}
	rg.debug("W %s=0x%04X", reg, v)
	return nil
}

func (rg *regs) current(ctx context.Context) (physic.ElectricCurrent, error) {
	raw, err := rg.read(ctx, RegCurrent)
	if err != nil {
		return 0, err
	}
	return RawToCurrent(raw), nil
}

func (rg *regs) busVoltage(ctx context.Context) (physic.ElectricPotential, error) {
	raw, err := rg.read(ctx, RegBusVoltage)
	if err != nil {
		return 0, err
	}
	return RawToBusVoltage(raw), nil
}

func (rg *regs) power(ctx context.Context) (physic.Power, error) {
	raw, err := rg.read(ctx, RegPower)
	if err != nil {
		return 0, err
	}
	return RawToPower(raw), nil
}

func (rg *regs) sense(ctx context.Context) (PowerMonitor, error) {
	var p PowerMonitor
	var err error
	if p.Current, err = rg.current(ctx); err != nil {
		return PowerMonitor{}, err
	}
	if p.Voltage, err = rg.busVoltage(ctx); err != nil {
		return PowerMonitor{}, err
	}
	if p.Power, err = rg.power(ctx); err != nil {
		return PowerMonitor{}, err
	}
	return p, nil
}

func (rg *regs) connected(ctx context.Context) (bool, error) {
	raw, err := rg.read(ctx, RegDieID)
	if err != nil {
		return false, err
	}
	id, _ := SplitDieID(raw)
	return id == DeviceID, nil
}

func noop(string, ...interface{}) {}

// syncConn issues transactions synchronously on the calling goroutine.
type syncConn struct {
	c conn.Conn
}

func (s syncConn) tx(_ context.Context, w, r []byte) error {
	return s.c.Tx(w, r)
}

// Dev is a blocking handle to an INA260.
//
// Each method performs its bus transaction on the calling goroutine and
// returns once the transport is done. Transport errors are returned unchanged.
type Dev struct {
	c conn.Conn
	r regs
}

// New returns a blocking handle for the INA260 at addr on b. No I/O is
// performed.
func New(b i2c.Bus, addr uint16) *Dev {
	return NewConn(&i2c.Dev{Bus: b, Addr: addr})
}

// NewConn returns a blocking handle over an already addressed connection.
func NewConn(c conn.Conn) *Dev {
	return &Dev{c: c, r: regs{t: syncConn{c: c}, debug: noop}}
}

// EnableDebug sets a function called with a trace of every register
// transaction. Pass nil to disable it.
func (d *Dev) EnableDebug(f DebugF) {
	if f == nil {
		f = noop
	}
	d.r.debug = f
}

// Configuration reads the raw configuration register.
func (d *Dev) Configuration() (uint16, error) {
	return d.r.read(context.Background(), RegConfiguration)
}

// SetConfiguration writes v to the configuration register as is. Use
// Config.Word to build a value.
func (d *Dev) SetConfiguration(v uint16) error {
	return d.r.write(context.Background(), RegConfiguration, v)
}

// Reset sets the reset bit, returning every register to its power-on value.
func (d *Dev) Reset() error {
	return d.r.write(context.Background(), RegConfiguration, configReset)
}

// Current reads the current through the shunt. Negative values are reverse
// current.
func (d *Dev) Current() (physic.ElectricCurrent, error) {
	return d.r.current(context.Background())
}

// BusVoltage reads the voltage at VBUS.
func (d *Dev) BusVoltage() (physic.ElectricPotential, error) {
	return d.r.busVoltage(context.Background())
}

// Power reads the power delivered to the load.
func (d *Dev) Power() (physic.Power, error) {
	return d.r.power(context.Background())
}

// CurrentRaw reads the current register word, 1.25 mA per LSB in two's
// complement.
func (d *Dev) CurrentRaw() (int16, error) {
	raw, err := d.r.read(context.Background(), RegCurrent)
	return int16(raw), err
}

// BusVoltageRaw reads the bus voltage register word, 1.25 mV per LSB.
func (d *Dev) BusVoltageRaw() (uint16, error) {
	return d.r.read(context.Background(), RegBusVoltage)
}

// PowerRaw reads the power register word, 10 mW per LSB.
func (d *Dev) PowerRaw() (uint16, error) {
	return d.r.read(context.Background(), RegPower)
}

// Read returns current, bus voltage and power, read in that order. The chip
// may complete a conversion between the reads.
func (d *Dev) Read() (PowerMonitor, error) {
	return d.r.sense(context.Background())
}

// ManufacturerID reads the manufacturer ID register. A genuine part returns
// TexasInstruments.
func (d *Dev) ManufacturerID() (uint16, error) {
	return d.r.read(context.Background(), RegManufacturerID)
}

// DieID reads the die ID register. See SplitDieID.
func (d *Dev) DieID() (uint16, error) {
	return d.r.read(context.Background(), RegDieID)
}

// Connected reports whether the die ID register carries the INA260 device ID.
func (d *Dev) Connected() (bool, error) {
	return d.r.connected(context.Background())
}

// MaskEnable reads the mask/enable register.
func (d *Dev) MaskEnable() (uint16, error) {
	return d.r.read(context.Background(), RegMaskEnable)
}

// SetMaskEnable writes the mask/enable register.
func (d *Dev) SetMaskEnable(v uint16) error {
	return d.r.write(context.Background(), RegMaskEnable, v)
}

// AlertLimit reads the raw alert limit register.
func (d *Dev) AlertLimit() (uint16, error) {
	return d.r.read(context.Background(), RegAlertLimit)
}

// SetAlertLimit writes the raw alert limit register. The value is compared
// against the register selected in mask/enable, in that register's units; see
// CurrentToRaw, BusVoltageToRaw and PowerToRaw.
func (d *Dev) SetAlertLimit(v uint16) error {
	return d.r.write(context.Background(), RegAlertLimit, v)
}

func (d *Dev) String() string {
	return fmt.Sprintf("ina260{%s}", d.c)
}

// Halt implements conn.Resource. The driver runs nothing in the background.
func (d *Dev) Halt() error {
	return nil
}

var _ conn.Resource = &Dev{}
