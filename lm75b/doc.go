// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.
//
// lm75b provides a package for interfacing an NXP LM75B I²C digital
// temperature sensor. Devices of the LM75 family that present an 11 or 9 bit
// temperature register at pointer 0x00 read the same way, at the 9 bit
// resolution used here.
//
// Range: -55°C - 125°C
//
// Accuracy: +/- 2°C
//
// Resolution: 0.5°C
//
// The driver only reads the temperature register. The overtemperature
// shutdown (Tos) and hysteresis (Thyst) registers are left at their power-on
// values.
//
// A communication failure is always returned as an error. Dev.IsAboveThreshold
// folds that error into a false result, see its documentation.
//
// For detailed information, refer to the [datasheet].
//
// [datasheet]: https://www.nxp.com/docs/en/data-sheet/LM75B.pdf
package lm75b
