package core

import "time"

// Countdown is the whole-unit decomposition of the time left until a
// target instant. All fields are zero once the target has passed.
type Countdown struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

func (c Countdown) IsZero() bool {
	return c.Days == 0 && c.Hours == 0 && c.Minutes == 0 && c.Seconds == 0
}

// CountdownUntil decomposes max(0, target-now) into whole days, hours,
// minutes and seconds using floor division at each unit boundary.
// A zero target yields a zero Countdown.
func CountdownUntil(target, now time.Time) Countdown {
	if target.IsZero() {
		return Countdown{}
	}
	remaining := target.Sub(now)
	if remaining <= 0 {
		return Countdown{}
	}

	secs := int(remaining / time.Second)
	return Countdown{
		Days:    secs / 86400,
		Hours:   (secs % 86400) / 3600,
		Minutes: (secs % 3600) / 60,
		Seconds: secs % 60,
	}
}
