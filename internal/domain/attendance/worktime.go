package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// TimeOutDefaultRequiredHours applies at time-out when the user has no hour set.
	// Zero skips the remaining-hours recompute and leaves the cached value alone.
	TimeOutDefaultRequiredHours = 0

	// ReportDefaultRequiredHours applies to history and export totals.
	ReportDefaultRequiredHours = 8
)

// elapsed is the whole-second wall-clock distance between two instants.
func elapsed(from, to time.Time) time.Duration {
	d := to.Sub(from)
	if d < 0 {
		d = -d
	}
	return d.Truncate(time.Second)
}

// BreakDuration is break_out - break_in, or zero until both are recorded.
func (d AttendanceDay) BreakDuration() time.Duration {
	if d.BreakIn == nil || d.BreakOut == nil {
		return 0
	}
	return elapsed(*d.BreakIn, *d.BreakOut)
}

// WorkedDuration is time_out - time_in net of the break, floored at zero.
// It is zero until both time_in and time_out are recorded.
func (d AttendanceDay) WorkedDuration() time.Duration {
	if d.TimeIn == nil || d.TimeOut == nil {
		return 0
	}
	worked := elapsed(*d.TimeIn, *d.TimeOut) - d.BreakDuration()
	if worked < 0 {
		return 0
	}
	return worked
}

// WorkedHours is WorkedDuration in hours, rounded to two decimals.
func (d AttendanceDay) WorkedHours() float64 {
	return DurationHours(d.WorkedDuration())
}

// TotalWorked sums WorkedDuration over days.
func TotalWorked(days []AttendanceDay) time.Duration {
	var total time.Duration
	for _, day := range days {
		total += day.WorkedDuration()
	}
	return total
}

// RemainingHours is max(required - worked, 0) in hours, rounded to two decimals.
func RemainingHours(requiredHours int, worked time.Duration) float64 {
	requiredSeconds := int64(requiredHours) * 3600
	remainingSeconds := requiredSeconds - int64(worked/time.Second)
	if remainingSeconds < 0 {
		remainingSeconds = 0
	}
	return RoundHours(float64(remainingSeconds) / 3600)
}

// DurationHours converts d to hours rounded to two decimals.
func DurationHours(d time.Duration) float64 {
	return RoundHours(float64(d/time.Second) / 3600)
}

// RoundHours rounds half away from zero to two decimals.
func RoundHours(h float64) float64 {
	f, _ := decimal.NewFromFloat(h).Round(2).Float64()
	return f
}
