package service

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/YoshitsuguKoike/kindred/internal/domain/model/record"
)

// ErrBusy is returned when a submission arrives while the previous one is
// still waiting on the auth service
var ErrBusy = errors.New("a submission is already in progress")

// busyFlag marks the single in-flight auth call of a service
type busyFlag struct {
	v atomic.Bool
}

// acquire sets the flag and reports whether it was clear
func (b *busyFlag) acquire() bool {
	return b.v.CompareAndSwap(false, true)
}

func (b *busyFlag) release() {
	b.v.Store(false)
}

// Busy reports whether an auth call is in flight
func (b *busyFlag) Busy() bool {
	return b.v.Load()
}

// invalidOption reports a value outside a catalog
func invalidOption(field, value string) error {
	return &record.ValidationError{Field: field, Reason: fmt.Sprintf("unknown option %q", value)}
}

// IsValidation reports whether err is a local validation failure that the
// pages handle by keeping the submit control disabled
func IsValidation(err error) bool {
	var verr *record.ValidationError
	return errors.As(err, &verr)
}
