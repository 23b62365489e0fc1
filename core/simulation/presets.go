package simulation

import (
	"errors"
	"sort"

	"github.com/lutechstack-bit/theforgeapp-sub003/core/program"
)

var ErrUnknownPreset = errors.New("unknown preset")

// Preset is a named phase/day combination applied in one step.
type Preset struct {
	Mode *program.ForgeMode `json:"mode"`
	Day  *int               `json:"day"`
}

func modePtr(m program.ForgeMode) *program.ForgeMode { return &m }
func dayPtr(d int) *int                              { return &d }

// The seven admin presets. "online" days fall in the remote first week,
// "physical" days in the on-location second week of the 14-day program.
var presets = map[string]Preset{
	"pre-forge":       {Mode: modePtr(program.ModePre)},
	"online-day-1":    {Mode: modePtr(program.ModeDuring), Day: dayPtr(1)},
	"online-day-3":    {Mode: modePtr(program.ModeDuring), Day: dayPtr(3)},
	"physical-day-5":  {Mode: modePtr(program.ModeDuring), Day: dayPtr(5)},
	"physical-day-10": {Mode: modePtr(program.ModeDuring), Day: dayPtr(10)},
	"last-day":        {Mode: modePtr(program.ModeDuring), Day: dayPtr(14)},
	"post-forge":      {Mode: modePtr(program.ModePost)},
}

// PresetNames lists the available preset names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
