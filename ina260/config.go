// Copyright 2023 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ina260

import (
	"fmt"
	"time"
)

// Averaging is the number of samples the chip collects and averages for each
// reported value.
type Averaging uint8

// Possible Averaging values.
const (
	Average1 Averaging = iota // default
	Average4
	Average16
	Average64
	Average128
	Average256
	Average512
	Average1024
)

// Samples returns the number of averaged samples.
func (a Averaging) Samples() int {
	return averageSamples[a&0x07]
}

var averageSamples = [8]int{1, 4, 16, 64, 128, 256, 512, 1024}

// ConversionTime is the ADC conversion time for a single sample of either the
// bus voltage or the shunt current.
type ConversionTime uint8

// Possible ConversionTime values.
const (
	Conversion140us ConversionTime = iota
	Conversion204us
	Conversion332us
	Conversion588us
	Conversion1100us // default
	Conversion2116us
	Conversion4156us
	Conversion8244us
)

var conversionTimes = [8]time.Duration{
	140 * time.Microsecond,
	204 * time.Microsecond,
	332 * time.Microsecond,
	588 * time.Microsecond,
	1100 * time.Microsecond,
	2116 * time.Microsecond,
	4156 * time.Microsecond,
	8244 * time.Microsecond,
}

// Duration returns the conversion time.
func (c ConversionTime) Duration() time.Duration {
	return conversionTimes[c&0x07]
}

func (c ConversionTime) String() string {
	return c.Duration().String()
}

// Mode selects triggered, continuous or power-down operation and which
// quantities are converted. In triggered modes a new conversion is started by
// writing the configuration register again.
type Mode uint8

// Possible Mode values.
const (
	ModePowerDown         Mode = 0
	ModeCurrentTriggered  Mode = 1
	ModeVoltageTriggered  Mode = 2
	ModeTriggered         Mode = 3
	ModePowerDownAlt      Mode = 4
	ModeCurrentContinuous Mode = 5
	ModeVoltageContinuous Mode = 6
	ModeContinuous        Mode = 7 // default
)

const (
	configReset          uint16 = 0x8000
	configReservedBits   uint16 = 0x6000
	configAveragingShift        = 9
	configVoltageShift          = 6
	configCurrentShift          = 3
	configFieldMask             = 0x07
)

// Config is the typed content of the configuration register.
type Config struct {
	Averaging         Averaging
	VoltageConversion ConversionTime
	CurrentConversion ConversionTime
	Mode              Mode
}

// DefaultConfig returns the power-on configuration: no averaging, 1.1 ms
// conversions, continuous current and voltage.
func DefaultConfig() Config {
	return Config{
		Averaging:         Average1,
		VoltageConversion: Conversion1100us,
		CurrentConversion: Conversion1100us,
		Mode:              ModeContinuous,
	}
}

// Word encodes c as a configuration register value. The reserved bits are set
// to their power-on value and the reset bit is left clear.
func (c Config) Word() uint16 {
	return configReservedBits |
		uint16(c.Averaging&configFieldMask)<<configAveragingShift |
		uint16(c.VoltageConversion&configFieldMask)<<configVoltageShift |
		uint16(c.CurrentConversion&configFieldMask)<<configCurrentShift |
		uint16(c.Mode&configFieldMask)
}

// ParseConfig decodes a configuration register value. The reset and reserved
// bits are ignored.
func ParseConfig(w uint16) Config {
	return Config{
		Averaging:         Averaging(w>>configAveragingShift) & configFieldMask,
		VoltageConversion: ConversionTime(w>>configVoltageShift) & configFieldMask,
		CurrentConversion: ConversionTime(w>>configCurrentShift) & configFieldMask,
		Mode:              Mode(w) & configFieldMask,
	}
}

// ConversionPeriod is how long the chip needs to produce a new current and
// voltage reading with this configuration.
func (c Config) ConversionPeriod() time.Duration {
	var d time.Duration
	if c.Mode&1 != 0 {
		d += c.CurrentConversion.Duration()
	}
	if c.Mode&2 != 0 {
		d += c.VoltageConversion.Duration()
	}
	return d * time.Duration(c.Averaging.Samples())
}

func (c Config) String() string {
	return fmt.Sprintf("avg=%d vbusct=%s ishct=%s mode=%d", c.Averaging.Samples(), c.VoltageConversion, c.CurrentConversion, c.Mode)
}
