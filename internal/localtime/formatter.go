// Package localtime renders stored UTC instants for display in a configured
// region.
package localtime

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// Layout is dd/MM/yyyy, HH:mm:ss.
const Layout = "02/01/2006, 15:04:05"

const DefaultRegion = "Europe/Dublin"

// Formatter formats instants at the region's standard offset. When DSTAdjust
// is set and the region is observing daylight saving at formatting time, one
// hour is added. The adjustment depends on the clock, not on the instant
// being formatted.
type Formatter struct {
	loc       *time.Location
	standard  *time.Location
	dstAdjust bool
	now       func() time.Time
}

type Option func(*Formatter)

// WithClock replaces the clock used to decide whether daylight saving is in
// effect.
func WithClock(now func() time.Time) Option {
	return func(f *Formatter) {
		f.now = now
	}
}

func New(region string, dstAdjust bool, opts ...Option) (*Formatter, error) {
	if region == "" {
		region = DefaultRegion
	}

	loc, err := time.LoadLocation(region)
	if err != nil {
		return nil, fmt.Errorf("load display region %q: %w", region, err)
	}

	f := &Formatter{
		loc:       loc,
		standard:  time.FixedZone(region, standardOffset(loc)),
		dstAdjust: dstAdjust,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

// MustNew is New for fixed regions known at compile time.
func MustNew(region string, dstAdjust bool, opts ...Option) *Formatter {
	f, err := New(region, dstAdjust, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Formatter) Region() string {
	return f.loc.String()
}

func (f *Formatter) Format(t time.Time) string {
	local := t.In(f.standard)
	if f.dstAdjust && f.InDST() {
		local = local.Add(time.Hour)
	}
	return local.Format(Layout)
}

// InDST reports whether the region is currently ahead of its standard offset.
// Offsets are compared directly because some zones (Europe/Dublin) encode
// winter as the negative-saving period.
func (f *Formatter) InDST() bool {
	_, offset := f.now().In(f.loc).Zone()
	_, std := time.Time{}.In(f.standard).Zone()
	return offset > std
}

// standardOffset is the smaller of the region's January and July offsets in
// the current year.
func standardOffset(loc *time.Location) int {
	year := time.Now().Year()
	_, jan := time.Date(year, time.January, 1, 12, 0, 0, 0, loc).Zone()
	_, jul := time.Date(year, time.July, 1, 12, 0, 0, 0, loc).Zone()
	return min(jan, jul)
}
