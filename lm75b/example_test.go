// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lm75b_test

import (
	"fmt"
	"log"

	"github.com/GermanBionicSystems/envguard/lm75b"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// Example opens the first I²C bus at 100kHz and checks the temperature
// against 30°C.
func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	dev, err := lm75b.Open(&lm75b.DefaultOpts)
	if err != nil {
		log.Fatal(err)
	}
	defer dev.Close()

	t, err := dev.ReadTemperature()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Current temperature: %.2f°C\n", t.Celsius())

	if dev.IsAboveThreshold(physic.ZeroCelsius + 30*physic.Kelvin) {
		fmt.Println("ALERT: Temperature exceeded 30°C!")
	}
}
