package model

import (
	"time"

	"github.com/astrotrack/astrotrack/internal/pkg/validation"
)

const (
	ProjectStatusPlanning   = "planning"
	ProjectStatusActive     = "active"
	ProjectStatusProcessing = "processing"
	ProjectStatusCompleted  = "completed"
)

// Project is one imaging target. Sessions are stored in a subcollection of
// the project document and keyed by their date.
type Project struct {
	ID                   string             `json:"id"`
	UserID               string             `json:"userId" validate:"required"`
	Name                 string             `json:"name" validate:"required,max=100"`
	Description          string             `json:"description,omitempty" validate:"max=1000"`
	CatalogueDesignation string             `json:"catalogueDesignation,omitempty" validate:"max=50"`
	CollectionIDs        []string           `json:"collectionIds"`
	Tags                 []string           `json:"tags" validate:"dive,max=50"`
	Collaborators        []string           `json:"collaborators"`
	Visibility           string             `json:"visibility" validate:"required,oneof=public private"`
	Status               string             `json:"status" validate:"required,oneof=planning active processing completed"`
	Sessions             map[string]Session `json:"sessions" validate:"dive"`
	CreatedAt            time.Time          `json:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt"`
}

func (p Project) ValidateSelf() []validation.FieldError {
	return sessionKeyErrors("sessions", p.Sessions)
}

func (p *Project) Normalize() {
	p.CollectionIDs = emptyIfNil(p.CollectionIDs)
	p.Tags = emptyIfNil(p.Tags)
	p.Collaborators = emptyIfNil(p.Collaborators)
	if p.Sessions == nil {
		p.Sessions = map[string]Session{}
	}
	for k, s := range p.Sessions {
		s.Normalize()
		p.Sessions[k] = s
	}
}

// CanRead reports whether userID may see the project. An empty userID is an
// anonymous caller.
func (p *Project) CanRead(userID string) bool {
	if p.Visibility == VisibilityPublic {
		return true
	}
	if userID == "" {
		return false
	}
	return p.UserID == userID || containsString(p.Collaborators, userID)
}

func (p *Project) CanWrite(userID string) bool {
	return userID != "" && p.UserID == userID
}

type ProjectInput struct {
	Name                 string                  `json:"name" validate:"required,max=100"`
	Description          string                  `json:"description" validate:"max=1000"`
	CatalogueDesignation string                  `json:"catalogueDesignation" validate:"max=50"`
	CollectionIDs        []string                `json:"collectionIds"`
	Tags                 []string                `json:"tags" validate:"dive,max=50"`
	Collaborators        []string                `json:"collaborators"`
	Visibility           string                  `json:"visibility" validate:"omitempty,oneof=public private"`
	Status               string                  `json:"status" validate:"omitempty,oneof=planning active processing completed"`
	Sessions             map[string]SessionInput `json:"sessions" validate:"dive"`
}

func (in ProjectInput) ValidateSelf() []validation.FieldError {
	return sessionKeyErrors("sessions", in.Sessions)
}

// ToProject builds a new project owned by userID, defaulting visibility to
// private and status to planning.
func (in ProjectInput) ToProject(userID string) *Project {
	p := &Project{
		UserID:               userID,
		Name:                 in.Name,
		Description:          in.Description,
		CatalogueDesignation: in.CatalogueDesignation,
		CollectionIDs:        in.CollectionIDs,
		Tags:                 in.Tags,
		Collaborators:        in.Collaborators,
		Visibility:           in.Visibility,
		Status:               in.Status,
		Sessions:             make(map[string]Session, len(in.Sessions)),
	}
	if p.Visibility == "" {
		p.Visibility = VisibilityPrivate
	}
	if p.Status == "" {
		p.Status = ProjectStatusPlanning
	}
	for date, s := range in.Sessions {
		p.Sessions[date] = s.ToSession()
	}
	p.Normalize()
	return p
}

type ProjectPatch struct {
	Name                 *string   `json:"name" validate:"omitnil,min=1,max=100"`
	Description          *string   `json:"description" validate:"omitnil,max=1000"`
	CatalogueDesignation *string   `json:"catalogueDesignation" validate:"omitnil,max=50"`
	CollectionIDs        *[]string `json:"collectionIds"`
	Tags                 *[]string `json:"tags" validate:"omitnil,dive,max=50"`
	Collaborators        *[]string `json:"collaborators"`
	Visibility           *string   `json:"visibility" validate:"omitnil,oneof=public private"`
	Status               *string   `json:"status" validate:"omitnil,oneof=planning active processing completed"`
}

// Apply merges the set fields into p.
func (in ProjectPatch) Apply(p *Project) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.CatalogueDesignation != nil {
		p.CatalogueDesignation = *in.CatalogueDesignation
	}
	if in.CollectionIDs != nil {
		p.CollectionIDs = *in.CollectionIDs
	}
	if in.Tags != nil {
		p.Tags = *in.Tags
	}
	if in.Collaborators != nil {
		p.Collaborators = *in.Collaborators
	}
	if in.Visibility != nil {
		p.Visibility = *in.Visibility
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	p.Normalize()
}
