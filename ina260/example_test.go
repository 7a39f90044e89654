// Copyright 2023 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ina260_test

import (
	"context"
	"log"
	"time"

	"github.com/GermanBionicSystems/powermon/ina260"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

func Example() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	bus, err := i2creg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer bus.Close()

	dev := ina260.NewAsync(ina260.Suspend(bus), ina260.DefaultAddress)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if ok, err := dev.Connected(ctx); err != nil || !ok {
		log.Fatalf("no INA260 at 0x%02X: %v", ina260.DefaultAddress, err)
	}
	for i := 0; i < 10; i++ {
		p, err := dev.Read(ctx)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("%s    %s    %s", p.Voltage, p.Current, p.Power)
		time.Sleep(time.Second)
	}
}

func ExampleDev() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	bus, err := i2creg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer bus.Close()

	dev := ina260.New(bus, ina260.DefaultAddress)
	dev.EnableDebug(log.Printf)

	cfg := ina260.DefaultConfig()
	cfg.Averaging = ina260.Average64
	if err := dev.SetConfiguration(cfg.Word()); err != nil {
		log.Fatal(err)
	}

	// Pull ALERT low when the load draws more than 2 A.
	if err := dev.SetAlertLimit(ina260.CurrentToRaw(2 * physic.Ampere)); err != nil {
		log.Fatal(err)
	}
	if err := dev.SetMaskEnable(ina260.AlertOverCurrent | ina260.AlertLatch); err != nil {
		log.Fatal(err)
	}

	time.Sleep(cfg.ConversionPeriod())
	v, err := dev.BusVoltage()
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("bus voltage: %s", v)
}
