package roadmap

import (
	"testing"

	"github.com/lutechstack-bit/theforgeapp-sub003/core/program"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name         string
		mode         program.ForgeMode
		effectiveDay int
		dayNumber    int
		want         DayStatus
	}{
		{name: "during, day before current", mode: program.ModeDuring, effectiveDay: 5, dayNumber: 4, want: StatusCompleted},
		{name: "during, current day", mode: program.ModeDuring, effectiveDay: 5, dayNumber: 5, want: StatusCurrent},
		{name: "during, day after current", mode: program.ModeDuring, effectiveDay: 5, dayNumber: 6, want: StatusUpcoming},
		{name: "during, first day current", mode: program.ModeDuring, effectiveDay: 1, dayNumber: 1, want: StatusCurrent},
		{name: "during, last day upcoming", mode: program.ModeDuring, effectiveDay: 1, dayNumber: 14, want: StatusUpcoming},
		{name: "pre, first day", mode: program.ModePre, effectiveDay: 1, dayNumber: 1, want: StatusLocked},
		{name: "pre, last day", mode: program.ModePre, effectiveDay: 1, dayNumber: 14, want: StatusLocked},
		{name: "post, first day", mode: program.ModePost, effectiveDay: 14, dayNumber: 1, want: StatusCompleted},
		{name: "post, last day", mode: program.ModePost, effectiveDay: 14, dayNumber: 14, want: StatusCompleted},
		{name: "unknown mode falls back to locked", mode: program.ForgeMode("lol"), effectiveDay: 5, dayNumber: 5, want: StatusLocked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusFor(tt.mode, tt.effectiveDay, tt.dayNumber); got != tt.want {
				t.Errorf("StatusFor(%v, %d, %d) = %v, want %v", tt.mode, tt.effectiveDay, tt.dayNumber, got, tt.want)
			}
		})
	}
}

// TestStatusForTotal walks every (mode, effectiveDay, dayNumber) combination
// over a 14-day program and checks exactly one known status comes back, and
// that no day is ever locked while the program is running.
func TestStatusForTotal(t *testing.T) {
	known := map[DayStatus]bool{
		StatusLocked:    true,
		StatusUpcoming:  true,
		StatusCurrent:   true,
		StatusCompleted: true,
	}
	for _, mode := range program.AllForgeModes {
		for effectiveDay := 1; effectiveDay <= 14; effectiveDay++ {
			for dayNumber := 1; dayNumber <= 14; dayNumber++ {
				got := StatusFor(mode, effectiveDay, dayNumber)
				if !known[got] {
					t.Fatalf("StatusFor(%v, %d, %d) returned unknown status %q", mode, effectiveDay, dayNumber, got)
				}
				if mode == program.ModeDuring && got == StatusLocked {
					t.Fatalf("day %d locked during the program (effective day %d)", dayNumber, effectiveDay)
				}
				if mode == program.ModePost && got != StatusCompleted {
					t.Fatalf("day %d not completed post-forge: %v", dayNumber, got)
				}
				if mode == program.ModePre && got != StatusLocked {
					t.Fatalf("day %d not locked pre-forge: %v", dayNumber, got)
				}
			}
		}
	}
}
