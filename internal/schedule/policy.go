package schedule

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Policy produces the candidate slot-start times a staff member offers on a calendar date.
// The date is taken from day.Date() in day.Location(); the returned times are in the same location,
// strictly increasing. An empty result means no slots are offered that day.
type Policy interface {
	Slots(day time.Time) []time.Time
}

// FixedWindow offers a slot every Step from Open up to, but excluding, Close.
type FixedWindow struct {
	Open  Clock
	Close Clock
	Step  time.Duration
}

// DefaultFixedWindow is the policy for staff without a weekly template: 09:00-17:00 every 30 minutes.
func DefaultFixedWindow() FixedWindow {
	return FixedWindow{
		Open:  MustParseClock("09:00"),
		Close: MustParseClock("17:00"),
		Step:  30 * time.Minute,
	}
}

func (w FixedWindow) Slots(day time.Time) []time.Time {
	if w.Step <= 0 || !w.Open.Before(w.Close) {
		return nil
	}

	start := w.Open.On(day)
	end := w.Close.On(day)

	var slots []time.Time
	for t := start; t.Before(end); t = t.Add(w.Step) {
		slots = append(slots, t)
	}
	return slots
}

// WeeklyTemplate offers an explicit list of clock times per weekday.
type WeeklyTemplate struct {
	days map[time.Weekday][]Clock
}

// NewWeeklyTemplate builds a template from weekday names ("Monday", case-insensitive) to clock strings.
// Each day's times are sorted and de-duplicated.
func NewWeeklyTemplate(days map[string][]string) (WeeklyTemplate, error) {
	tpl := WeeklyTemplate{days: make(map[time.Weekday][]Clock, len(days))}

	for name, times := range days {
		wd, err := ParseWeekday(name)
		if err != nil {
			return WeeklyTemplate{}, err
		}

		for _, s := range times {
			c, err := ParseClock(s)
			if err != nil {
				return WeeklyTemplate{}, fmt.Errorf("%s: %w", wd, err)
			}
			tpl.days[wd] = append(tpl.days[wd], c)
		}
	}

	for wd, clocks := range tpl.days {
		slices.SortFunc(clocks, func(a, b Clock) int { return a.seconds() - b.seconds() })
		tpl.days[wd] = slices.Compact(clocks)
	}
	return tpl, nil
}

func (t WeeklyTemplate) Slots(day time.Time) []time.Time {
	clocks := t.days[day.Weekday()]
	if len(clocks) == 0 {
		return nil
	}

	slots := make([]time.Time, 0, len(clocks))
	for _, c := range clocks {
		slots = append(slots, c.On(day))
	}
	return slots
}

// Days returns the template as weekday name to clock strings.
func (t WeeklyTemplate) Days() map[string][]string {
	out := make(map[string][]string, len(t.days))
	for wd, clocks := range t.days {
		times := make([]string, len(clocks))
		for i, c := range clocks {
			times[i] = c.String()
		}
		out[wd.String()] = times
	}
	return out
}

// ParseWeekday matches an English weekday name, case-insensitively.
func ParseWeekday(name string) (time.Weekday, error) {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.EqualFold(strings.TrimSpace(name), wd.String()) {
			return wd, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, name)
}

// PolicyFor selects the slot policy from data presence: a non-empty template wins,
// anything else falls back to the fixed window.
func PolicyFor(template map[string][]string) (Policy, error) {
	if len(template) == 0 {
		return DefaultFixedWindow(), nil
	}
	return NewWeeklyTemplate(template)
}
