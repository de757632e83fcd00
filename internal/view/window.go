package view

import (
	"errors"
	"fmt"
	"time"

	"github.com/hunglv/expensive/internal/model"
)

// Preset names a quick date window.
type Preset string

// Presets. PresetAll means no date restriction; PresetCustom means the
// caller supplies explicit bounds.
const (
	PresetAll       Preset = "all"
	PresetToday     Preset = "today"
	PresetThisWeek  Preset = "this_week"
	PresetThisMonth Preset = "this_month"
	PresetThisYear  Preset = "this_year"
	PresetCustom    Preset = "custom"
)

// ErrUnknownPreset is returned for a window name Window cannot resolve.
var ErrUnknownPreset = errors.New("unknown date window")

// Window resolves a preset into an inclusive date range around now. Weeks
// start on Monday.
func Window(p Preset, now time.Time) (model.DateRange, error) {
	today := model.DateOf(now)

	switch p {
	case PresetToday:
		return model.DateRange{Start: today, End: today}, nil
	case PresetThisWeek:
		offset := (int(today.Weekday()) + 6) % 7
		start := model.DateOf(today.AddDate(0, 0, -offset))
		return model.DateRange{Start: start, End: model.DateOf(start.AddDate(0, 0, 6))}, nil
	case PresetThisMonth:
		start := model.NewDate(today.Year(), today.Month(), 1)
		return model.DateRange{Start: start, End: model.DateOf(start.AddDate(0, 1, -1))}, nil
	case PresetThisYear:
		return model.DateRange{
			Start: model.NewDate(today.Year(), time.January, 1),
			End:   model.NewDate(today.Year(), time.December, 31),
		}, nil
	default:
		return model.DateRange{}, fmt.Errorf("%w: %q", ErrUnknownPreset, p)
	}
}
