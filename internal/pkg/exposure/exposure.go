// Package exposure derives integration totals from a project's sessions.
package exposure

import (
	"sort"

	"github.com/astrotrack/astrotrack/internal/modules/model"
)

type Summary struct {
	SessionCount         int                `json:"sessionCount"`
	TotalExposureSeconds float64            `json:"totalExposureSeconds"`
	TotalFrames          int                `json:"totalFrames"`
	PerFilter            map[string]float64 `json:"perFilter"`
	Timeline             []NightTotal       `json:"timeline"`
}

// NightTotal is one session's contribution, for charting progress over time.
type NightTotal struct {
	Date              string             `json:"date"`
	ExposureSeconds   float64            `json:"exposureSeconds"`
	Frames            int                `json:"frames"`
	PerFilter         map[string]float64 `json:"perFilter"`
	CumulativeSeconds float64            `json:"cumulativeSeconds"`
}

// Summarize assumes sessions were validated: exposure times are positive and
// frame counts at least one.
func Summarize(sessions map[string]model.Session) Summary {
	s := Summary{
		SessionCount: len(sessions),
		PerFilter:    map[string]float64{},
		Timeline:     make([]NightTotal, 0, len(sessions)),
	}

	dates := make([]string, 0, len(sessions))
	for date := range sessions {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	for _, date := range dates {
		night := NightTotal{Date: date, PerFilter: map[string]float64{}}
		for _, f := range sessions[date].Filters {
			seconds := f.Seconds()
			night.ExposureSeconds += seconds
			night.Frames += f.FrameCount
			night.PerFilter[f.Filter] += seconds
			s.PerFilter[f.Filter] += seconds
		}
		s.TotalExposureSeconds += night.ExposureSeconds
		s.TotalFrames += night.Frames
		night.CumulativeSeconds = s.TotalExposureSeconds
		s.Timeline = append(s.Timeline, night)
	}
	return s
}
