// Copyright (c) 2023, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package precess

import (
	"errors"
	"fmt"

	"github.com/goki/ki/kit"
)

// ErrKinds classifies simulation failures.  All are structural (bad input or
// values that cannot be represented) -- nothing is retried.
type ErrKinds int

//go:generate stringer -type=ErrKinds

var KiT_ErrKinds = kit.Enums.AddEnum(ErrKindsN, false, nil)

func (ev ErrKinds) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *ErrKinds) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// InvalidParameter is a non-positive or non-finite size / count / width,
	// mismatched center and phase locking lengths, or a zero theta frequency.
	// Always detected before anything is allocated.
	InvalidParameter ErrKinds = iota

	// NumericOverflow is an I0 or exponential evaluation that exceeds the
	// float64 range, e.g., for extreme phase locking.  Reported per cell.
	NumericOverflow

	// NumericDegenerate is a field so narrow that the Gaussian or amplitude
	// terms divide by zero.  Reported per cell.
	NumericDegenerate

	ErrKindsN
)

// Sentinel errors for use with errors.Is
var (
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrNumericOverflow   = errors.New("numeric overflow")
	ErrNumericDegenerate = errors.New("numeric degenerate")
)

// Sentinel returns the sentinel error for this kind
func (ev ErrKinds) Sentinel() error {
	switch ev {
	case NumericOverflow:
		return ErrNumericOverflow
	case NumericDegenerate:
		return ErrNumericDegenerate
	default:
		return ErrInvalidParameter
	}
}

// ParamError names an input parameter that failed validation.
type ParamError struct {
	Param string
	Value any
	Msg   string
}

func (pe *ParamError) Error() string {
	return fmt.Sprintf("precess: %v: %s = %v: %s", InvalidParameter, pe.Param, pe.Value, pe.Msg)
}

func (pe *ParamError) Unwrap() error { return ErrInvalidParameter }

// paramErr returns a new ParamError
func paramErr(param string, val any, msg string, args ...any) *ParamError {
	return &ParamError{Param: param, Value: val, Msg: fmt.Sprintf(msg, args...)}
}

// CellError reports a numeric failure while computing one cell's rates.
// The cell's rates and spikes are left at zero.
type CellError struct {
	Cell int
	Kind ErrKinds
	Msg  string
}

func (ce *CellError) Error() string {
	return fmt.Sprintf("precess: %v: cell %d: %s", ce.Kind, ce.Cell, ce.Msg)
}

func (ce *CellError) Unwrap() error { return ce.Kind.Sentinel() }
