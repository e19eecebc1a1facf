// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package gm collects the interfaces, error kinds and shared helpers used
// across the GM/T cryptographic suite (SM2, SM3, SM4, ZUC, SM9).
package gm

import "fmt"

// Kind classifies the error conditions a GM/T operation can raise.
type Kind int

const (
	// KindIncorrectLength means an input's length did not match what the
	// operation requires (key, block, IV, ...).
	KindIncorrectLength Kind = iota
	// KindInvalidArgument means a supplied argument is out of range or
	// structurally invalid for the operation (e.g. segment_length > block
	// length, an even modulus where a prime is required).
	KindInvalidArgument
	// KindDataOverflow means a size limit intrinsic to the algorithm was
	// exceeded (message length, KDF output length, identity length).
	KindDataOverflow
	// KindInvalidPC means a point-byte prefix was not one of the defined
	// PC_MODE prefixes.
	KindInvalidPC
	// KindPointNotOnCurve means a decoded or supplied point fails the
	// curve equation.
	KindPointNotOnCurve
	// KindInfinitePoint means a scalar multiplication yielded the point
	// at infinity where the protocol disallows it.
	KindInfinitePoint
	// KindCheckFailed means a MAC or hash comparison failed during
	// decryption or unpadding.
	KindCheckFailed
	// KindRequireArgument means an operation was invoked without the key
	// material it requires.
	KindRequireArgument
	// KindInvalidUserKey means H1(uid‖hid) + msk ≡ 0 (mod n); the KGC
	// must reroll its master key.
	KindInvalidUserKey
	// KindNoSquareRoot means sqrt(x) has no solution in the field.
	KindNoSquareRoot
)

func (k Kind) String() string {
	switch k {
	case KindIncorrectLength:
		return "incorrect length"
	case KindInvalidArgument:
		return "invalid argument"
	case KindDataOverflow:
		return "data overflow"
	case KindInvalidPC:
		return "invalid point-compression prefix"
	case KindPointNotOnCurve:
		return "point not on curve"
	case KindInfinitePoint:
		return "infinite point"
	case KindCheckFailed:
		return "check failed"
	case KindRequireArgument:
		return "required argument missing"
	case KindInvalidUserKey:
		return "invalid user key"
	case KindNoSquareRoot:
		return "no square root"
	default:
		return "unknown error"
	}
}

// Error is the error type returned by every package in this module. Kind
// identifies the condition; Msg carries operation-specific detail.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Msg
}

// Is lets errors.Is(err, &Error{Kind: K}) match on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newErr(k Kind, format string, a ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, a...)}
}

// ErrIncorrectLength reports a length mismatch for the named field.
func ErrIncorrectLength(name string, want, got int) *Error {
	return newErr(KindIncorrectLength, "%s: want %d bytes, got %d", name, want, got)
}

// ErrInvalidArgument reports a malformed or out-of-range argument.
func ErrInvalidArgument(format string, a ...any) *Error {
	return newErr(KindInvalidArgument, format, a...)
}

// ErrDataOverflow reports that name exceeded the intrinsic size limit maxlen.
func ErrDataOverflow(name string, maxlen int) *Error {
	return newErr(KindDataOverflow, "%s exceeds maximum of %d", name, maxlen)
}

// ErrInvalidPC reports an unrecognized point-compression prefix byte.
func ErrInvalidPC(pc byte) *Error {
	return newErr(KindInvalidPC, "prefix 0x%02x", pc)
}

// ErrPointNotOnCurve reports that (x, y) does not satisfy the curve equation.
func ErrPointNotOnCurve() *Error {
	return newErr(KindPointNotOnCurve, "")
}

// ErrInfinitePoint reports that an operation produced the point at infinity
// where the protocol requires a finite point.
func ErrInfinitePoint() *Error {
	return newErr(KindInfinitePoint, "")
}

// ErrCheckFailed reports a MAC/hash mismatch during decryption.
func ErrCheckFailed(what string) *Error {
	return newErr(KindCheckFailed, "%s mismatch", what)
}

// ErrRequireArgument reports that op was invoked without the named key
// material.
func ErrRequireArgument(op string, names ...string) *Error {
	return newErr(KindRequireArgument, "%s requires %v", op, names)
}

// ErrInvalidUserKey reports H1(uid‖hid)+msk ≡ 0 (mod n).
func ErrInvalidUserKey() *Error {
	return newErr(KindInvalidUserKey, "H1(uid||hid)+msk is congruent to 0 mod n; KGC must reroll master key")
}

// ErrNoSquareRoot reports that x has no square root in the field.
func ErrNoSquareRoot() *Error {
	return newErr(KindNoSquareRoot, "")
}
