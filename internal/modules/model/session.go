package model

import (
	"time"

	"github.com/astrotrack/astrotrack/internal/pkg/validation"
)

// UnfilteredName labels exposures taken without a filter.
const UnfilteredName = "unfiltered"

// Session is one night's observation log within a project. Its date is its
// identity and does not change once created.
type Session struct {
	Date         string           `json:"date" validate:"required,datetime=2006-01-02"`
	Location     string           `json:"location,omitempty" validate:"max=200"`
	EquipmentIDs []string         `json:"equipmentIds"`
	Tags         []string         `json:"tags" validate:"dive,max=50"`
	Notes        string           `json:"notes,omitempty" validate:"max=5000"`
	Filters      []FilterExposure `json:"filters" validate:"dive"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

func (s *Session) Normalize() {
	s.EquipmentIDs = emptyIfNil(s.EquipmentIDs)
	s.Tags = emptyIfNil(s.Tags)
	if s.Filters == nil {
		s.Filters = []FilterExposure{}
	}
}

type FilterExposure struct {
	Filter       string  `json:"filter" validate:"required,max=50"`
	ExposureTime float64 `json:"exposureTime" validate:"gt=0"`
	FrameCount   int     `json:"frameCount" validate:"min=1"`
}

func (f FilterExposure) Seconds() float64 {
	return f.ExposureTime * float64(f.FrameCount)
}

// AcquisitionDetail is the per-filter record shape accepted by the
// acquisition form; it is stored as a FilterExposure.
type AcquisitionDetail struct {
	FilterName        string  `json:"filterName" validate:"max=50"`
	NumberOfExposures int     `json:"numberOfExposures" validate:"min=1"`
	ExposureTime      float64 `json:"exposureTime" validate:"gte=0.1"`
}

func (a AcquisitionDetail) ToFilterExposure() FilterExposure {
	name := a.FilterName
	if name == "" {
		name = UnfilteredName
	}
	return FilterExposure{Filter: name, ExposureTime: a.ExposureTime, FrameCount: a.NumberOfExposures}
}

type SessionInput struct {
	Date               string              `json:"date" validate:"required,datetime=2006-01-02"`
	Location           string              `json:"location" validate:"max=200"`
	EquipmentIDs       []string            `json:"equipmentIds"`
	Tags               []string            `json:"tags" validate:"dive,max=50"`
	Notes              string              `json:"notes" validate:"max=5000"`
	Filters            []FilterExposure    `json:"filters" validate:"dive"`
	AcquisitionDetails []AcquisitionDetail `json:"acquisitionDetails" validate:"dive"`
}

func (in SessionInput) ToSession() Session {
	s := Session{
		Date:         in.Date,
		Location:     in.Location,
		EquipmentIDs: in.EquipmentIDs,
		Tags:         in.Tags,
		Notes:        in.Notes,
		Filters:      mergeExposures(in.Filters, in.AcquisitionDetails),
	}
	s.Normalize()
	return s
}

type SessionPatch struct {
	Location           *string              `json:"location" validate:"omitnil,max=200"`
	EquipmentIDs       *[]string            `json:"equipmentIds"`
	Tags               *[]string            `json:"tags" validate:"omitnil,dive,max=50"`
	Notes              *string              `json:"notes" validate:"omitnil,max=5000"`
	Filters            *[]FilterExposure    `json:"filters" validate:"omitnil,dive"`
	AcquisitionDetails *[]AcquisitionDetail `json:"acquisitionDetails" validate:"omitnil,dive"`
}

// Apply merges the set fields into s. Filters and acquisition details, when
// either is present, together replace the session's exposure list.
func (in SessionPatch) Apply(s *Session) {
	if in.Location != nil {
		s.Location = *in.Location
	}
	if in.EquipmentIDs != nil {
		s.EquipmentIDs = *in.EquipmentIDs
	}
	if in.Tags != nil {
		s.Tags = *in.Tags
	}
	if in.Notes != nil {
		s.Notes = *in.Notes
	}
	if in.Filters != nil || in.AcquisitionDetails != nil {
		var filters []FilterExposure
		var details []AcquisitionDetail
		if in.Filters != nil {
			filters = *in.Filters
		}
		if in.AcquisitionDetails != nil {
			details = *in.AcquisitionDetails
		}
		s.Filters = mergeExposures(filters, details)
	}
	s.Normalize()
}

func mergeExposures(filters []FilterExposure, details []AcquisitionDetail) []FilterExposure {
	out := make([]FilterExposure, 0, len(filters)+len(details))
	out = append(out, filters...)
	for _, d := range details {
		out = append(out, d.ToFilterExposure())
	}
	return out
}

// dated is satisfied by every session shape keyed by its date.
type dated interface {
	sessionDate() string
}

func (s Session) sessionDate() string       { return s.Date }
func (in SessionInput) sessionDate() string { return in.Date }

func sessionKeyErrors[S dated](prefix string, sessions map[string]S) []validation.FieldError {
	var out []validation.FieldError
	for key, s := range sessions {
		if key != s.sessionDate() {
			out = append(out, validation.FieldError{
				Field:   prefix + "[" + key + "].date",
				Message: "must equal the session key",
			})
		}
	}
	return out
}
