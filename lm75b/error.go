// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lm75b

import (
	"errors"
	"strconv"
)

var (
	// ErrChannelOpen matches every *ChannelOpenError with errors.Is.
	ErrChannelOpen = errors.New("lm75b: channel open failed")
	// ErrCommunication matches every *CommunicationError with errors.Is.
	ErrCommunication = errors.New("lm75b: communication failure")
	// ErrClosed is wrapped by a *CommunicationError when the device was
	// already closed.
	ErrClosed = errors.New("lm75b: device closed")
)

// ChannelOpenError is returned when the I²C bus could not be opened or
// configured. No device is usable after it.
type ChannelOpenError struct {
	Bus string
	Err error
}

func (e *ChannelOpenError) Error() string {
	return "lm75b: can't open bus " + strconv.Quote(e.Bus) + ": " + e.Err.Error()
}

func (e *ChannelOpenError) Unwrap() error {
	return e.Err
}

func (e *ChannelOpenError) Is(target error) bool {
	return target == ErrChannelOpen
}

// CommunicationError is returned when the register pointer write (Op "write")
// or the 2 byte temperature read (Op "read") failed. The caller decides
// whether to retry.
type CommunicationError struct {
	Op  string
	Err error
}

func (e *CommunicationError) Error() string {
	return "lm75b: " + e.Op + " failed: " + e.Err.Error()
}

func (e *CommunicationError) Unwrap() error {
	return e.Err
}

func (e *CommunicationError) Is(target error) bool {
	return target == ErrCommunication
}
