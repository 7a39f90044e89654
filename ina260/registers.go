// Copyright 2023 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ina260

import (
	"fmt"
	"math"

	"periph.io/x/conn/v3/physic"
)

// DefaultAddress is the I²C address of an INA260 with A0 and A1 tied to GND.
const DefaultAddress uint16 = 0x40

// Register is the pointer byte selecting one of the chip's 16-bit registers.
type Register uint8

// INA260 registers.
const (
	RegConfiguration  Register = 0x00 // R/W
	RegCurrent        Register = 0x01 // R
	RegBusVoltage     Register = 0x02 // R
	RegPower          Register = 0x03 // R
	RegMaskEnable     Register = 0x06 // R/W
	RegAlertLimit     Register = 0x07 // R/W
	RegManufacturerID Register = 0xFE // R
	RegDieID          Register = 0xFF // R
)

func (r Register) String() string {
	var name string
	switch r {
	case RegConfiguration:
		name = "CONFIGURATION"
	case RegCurrent:
		name = "CURRENT"
	case RegBusVoltage:
		name = "BUS_VOLTAGE"
	case RegPower:
		name = "POWER"
	case RegMaskEnable:
		name = "MASK_ENABLE"
	case RegAlertLimit:
		name = "ALERT_LIMIT"
	case RegManufacturerID:
		name = "MANUFACTURER_ID"
	case RegDieID:
		name = "DIE_ID"
	default:
		return fmt.Sprintf("Register(0x%02X)", uint8(r))
	}
	return fmt.Sprintf("%s(0x%02X)", name, uint8(r))
}

// Weight of one LSB of the measurement registers.
const (
	CurrentLSB physic.ElectricCurrent   = 1250 * physic.MicroAmpere
	VoltageLSB physic.ElectricPotential = 1250 * physic.MicroVolt
	PowerLSB   physic.Power             = 10 * physic.MilliWatt
)

// Identification register content of a genuine part.
const (
	// TexasInstruments is the manufacturer ID register value, "TI" in ASCII.
	TexasInstruments uint16 = 0x5449
	// DeviceID is the upper 12 bits of the die ID register.
	DeviceID uint16 = 0x227
)

// Mask/Enable register bits. Only one alert function (bits 15 to 10) may be
// selected at a time; the chip, not the driver, enforces that.
const (
	AlertOverCurrent      uint16 = 1 << 15 // OCL
	AlertUnderCurrent     uint16 = 1 << 14 // UCL
	AlertBusOverVoltage   uint16 = 1 << 13 // BOL
	AlertBusUnderVoltage  uint16 = 1 << 12 // BUL
	AlertPowerOverLimit   uint16 = 1 << 11 // POL
	AlertConversionReady  uint16 = 1 << 10 // CNVR
	AlertFunctionFlag     uint16 = 1 << 4  // AFF, read only
	ConversionReadyFlag   uint16 = 1 << 3  // CVRF, read only
	MathOverflowFlag      uint16 = 1 << 2  // OVF, read only
	AlertPolarityInverted uint16 = 1 << 1  // APOL
	AlertLatch            uint16 = 1 << 0  // LEN
)

// RawToCurrent converts a current register word. The register is two's
// complement; negative values are current flowing from IN- to IN+.
func RawToCurrent(raw uint16) physic.ElectricCurrent {
	return physic.ElectricCurrent(int16(raw)) * CurrentLSB
}

// RawToBusVoltage converts a bus voltage register word.
func RawToBusVoltage(raw uint16) physic.ElectricPotential {
	return physic.ElectricPotential(raw) * VoltageLSB
}

// RawToPower converts a power register word.
func RawToPower(raw uint16) physic.Power {
	return physic.Power(raw) * PowerLSB
}

// CurrentToRaw is the inverse of RawToCurrent, truncating toward zero. It is
// meant for computing AlertLimit values for the current alert functions.
// Values beyond the register range saturate at 0x7FFF and 0x8000 (about ±40.96 A).
func CurrentToRaw(i physic.ElectricCurrent) uint16 {
	n := i / CurrentLSB
	if n > math.MaxInt16 {
		n = math.MaxInt16
	} else if n < math.MinInt16 {
		n = math.MinInt16
	}
	return uint16(int16(n))
}

// BusVoltageToRaw is the inverse of RawToBusVoltage, truncating toward zero.
// Negative voltages give 0 and values above 81.92 V saturate at 0xFFFF.
func BusVoltageToRaw(v physic.ElectricPotential) uint16 {
	return saturate16(int64(v / VoltageLSB))
}

// PowerToRaw is the inverse of RawToPower, truncating toward zero. Negative
// power gives 0 and values above 655.35 W saturate at 0xFFFF.
func PowerToRaw(p physic.Power) uint16 {
	return saturate16(int64(p / PowerLSB))
}

func saturate16(n int64) uint16 {
	if n < 0 {
		return 0
	}
	if n > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(n)
}

// SplitDieID separates the die ID register into its 12-bit device ID and
// 4-bit die revision.
func SplitDieID(raw uint16) (device uint16, revision uint8) {
	return raw >> 4, uint8(raw & 0x0F)
}
