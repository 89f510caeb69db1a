// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package envguard is a container for the LM75B temperature guard.
//
// The driver lives in lm75b, the console thermometer bar in gauge and the
// polling command in cmd/envguard.
package envguard
