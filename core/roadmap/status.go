package roadmap

import "github.com/lutechstack-bit/theforgeapp-sub003/core/program"

// DayStatus is the derived state of a roadmap day.
type DayStatus string

const (
	StatusLocked    DayStatus = "locked"
	StatusUpcoming  DayStatus = "upcoming"
	StatusCurrent   DayStatus = "current"
	StatusCompleted DayStatus = "completed"
)

// StatusFor derives a day's status from the effective forge mode and the
// effective day number. It is total: every (mode, effectiveDay, dayNumber)
// combination yields exactly one status.
//
//   - post: every day is completed
//   - pre: every day is locked (preview-only)
//   - during: completed below the effective day, current at it, upcoming
//     above it; never locked
//
// An unrecognized mode is treated as pre, the most restrictive phase.
func StatusFor(mode program.ForgeMode, effectiveDay, dayNumber int) DayStatus {
	switch mode {
	case program.ModePost:
		return StatusCompleted
	case program.ModeDuring:
		switch {
		case dayNumber < effectiveDay:
			return StatusCompleted
		case dayNumber == effectiveDay:
			return StatusCurrent
		default:
			return StatusUpcoming
		}
	default: // pre or unknown
		return StatusLocked
	}
}
