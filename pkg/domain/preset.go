package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Preset is a named duration offered as a one-tap timer shortcut.
type Preset struct {
	Label   string `toml:"label"`
	Hours   int    `toml:"hours"`
	Minutes int    `toml:"minutes"`
	Seconds int    `toml:"seconds"`
}

// DefaultPresets is the preset list used when the config has none.
var DefaultPresets = []Preset{
	{Label: "1 Min", Minutes: 1},
	{Label: "3 Min", Minutes: 3},
	{Label: "5 Min", Minutes: 5},
	{Label: "10 Min", Minutes: 10},
	{Label: "15 Min", Minutes: 15},
	{Label: "30 Min", Minutes: 30},
	{Label: "1 Hour", Hours: 1},
}

// TimerName is the default name a preset timer is created with.
func (p Preset) TimerName() string {
	return "New " + p.Label + " Timer"
}

// CustomTimer is a validated custom-duration timer request.
type CustomTimer struct {
	Name    string
	Minutes int
	Seconds int
}

// NewCustomTimer parses the minutes/seconds inputs of the custom timer form.
// Blank inputs count as zero; non-numeric inputs are rejected. At least one
// of minutes or seconds must be positive. An empty name becomes
// "Custom M:SS Timer".
func NewCustomTimer(name, minutes, seconds string) (CustomTimer, error) {
	m, errM := parseCount(minutes)
	s, errS := parseCount(seconds)
	if errM != nil || errS != nil || m < 0 || s < 0 || (m == 0 && s == 0) {
		return CustomTimer{}, ErrInvalidDuration
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Custom %d:%02d Timer", m, s)
	}
	return CustomTimer{Name: name, Minutes: m, Seconds: s}, nil
}

func parseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
