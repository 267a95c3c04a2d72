package util

import (
	"errors"
	"fmt"
	"math"
)

// error

type Error struct {
	orig error
	msg  string
	code error
}

func (e *Error) Error() string {
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}

	return e.msg
}

func (e *Error) Unwrap() error {
	return e.orig
}

// Is. errors.Is(err, ErrNoActiveRoute) matches on the error code, not only on the wrapped error
func (e *Error) Is(target error) bool {
	return e.code != nil && e.code == target
}

func WrapErrorf(orig error, code error, format string, a ...interface{}) error {
	return &Error{
		code: code,
		orig: orig,
		msg:  fmt.Sprintf(format, a...),
	}
}

func (e *Error) Code() error {
	return e.code
}

var (
	ErrInternalServerError = errors.New("internal Server Error")
	ErrBadParamInput       = errors.New("given Param is not valid")
	ErrNodeResolution      = errors.New("coordinate could not be mapped to any graph node")
	ErrNoActiveRoute       = errors.New("no active route for this user")
	ErrNoRegionData        = errors.New("no road network data for the requested region")
	ErrProviderUnavailable = errors.New("region graph provider unavailable")
	ErrStoreUnavailable    = errors.New("graph store unavailable")
)

var MessageInternalServerError string = "internal server error"

// ErrorKind. closed enumeration of failures surfaced by the route session manager
type ErrorKind string

const (
	KindNodeResolution      ErrorKind = "node_resolution_failure"
	KindNoActiveRoute       ErrorKind = "no_active_route"
	KindNoRegionData        ErrorKind = "no_region_data"
	KindProviderUnavailable ErrorKind = "provider_unavailable"
	KindStoreUnavailable    ErrorKind = "store_unavailable"
	KindBadRequest          ErrorKind = "bad_request"
	KindInternal            ErrorKind = "internal"
)

func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrNodeResolution):
		return KindNodeResolution
	case errors.Is(err, ErrNoActiveRoute):
		return KindNoActiveRoute
	case errors.Is(err, ErrNoRegionData):
		return KindNoRegionData
	case errors.Is(err, ErrProviderUnavailable):
		return KindProviderUnavailable
	case errors.Is(err, ErrStoreUnavailable):
		return KindStoreUnavailable
	case errors.Is(err, ErrBadParamInput):
		return KindBadRequest
	default:
		return KindInternal
	}
}

func DegreeToRadians(angle float64) float64 {
	return angle * (math.Pi / 180.0)
}
