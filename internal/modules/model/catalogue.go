package model

import (
	"time"

	"github.com/astrotrack/astrotrack/internal/pkg/validation"
)

const (
	CatalogueTypeSystem = "system"
	CatalogueTypeUser   = "user"
)

// Catalogue is a reference list of object designations. System catalogues
// are global and never carry a userId; user catalogues always do.
type Catalogue struct {
	ID           string    `json:"id"`
	Name         string    `json:"name" validate:"required,max=100"`
	Type         string    `json:"type" validate:"required,oneof=system user"`
	UserID       string    `json:"userId,omitempty"`
	Abbreviation string    `json:"abbreviation" validate:"required,max=10"`
	Prefix       string    `json:"prefix,omitempty" validate:"max=10"`
	Description  string    `json:"description,omitempty" validate:"max=2000"`
	ObjectCount  int       `json:"objectCount" validate:"min=0"`
	Visibility   string    `json:"visibility" validate:"required,oneof=public private"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (c Catalogue) ValidateSelf() []validation.FieldError {
	switch {
	case c.Type == CatalogueTypeSystem && c.UserID != "":
		return []validation.FieldError{{Field: "userId", Message: "must be absent for system catalogues"}}
	case c.Type == CatalogueTypeUser && c.UserID == "":
		return []validation.FieldError{{Field: "userId", Message: "is required for user catalogues"}}
	}
	return nil
}

func (c *Catalogue) IsSystem() bool { return c.Type == CatalogueTypeSystem }

func (c *Catalogue) CanRead(userID string) bool {
	if c.IsSystem() || c.Visibility == VisibilityPublic {
		return true
	}
	return userID != "" && c.UserID == userID
}

// CanWrite is never true for system catalogues.
func (c *Catalogue) CanWrite(userID string) bool {
	return !c.IsSystem() && userID != "" && c.UserID == userID
}

type CatalogueInput struct {
	Name         string `json:"name" validate:"required,max=100"`
	Abbreviation string `json:"abbreviation" validate:"required,max=10"`
	Prefix       string `json:"prefix" validate:"max=10"`
	Description  string `json:"description" validate:"max=2000"`
	ObjectCount  int    `json:"objectCount" validate:"min=0"`
	Visibility   string `json:"visibility" validate:"omitempty,oneof=public private"`
}

// ToCatalogue builds a user catalogue owned by userID.
func (in CatalogueInput) ToCatalogue(userID string) *Catalogue {
	c := &Catalogue{
		Name:         in.Name,
		Type:         CatalogueTypeUser,
		UserID:       userID,
		Abbreviation: in.Abbreviation,
		Prefix:       in.Prefix,
		Description:  in.Description,
		ObjectCount:  in.ObjectCount,
		Visibility:   in.Visibility,
	}
	if c.Visibility == "" {
		c.Visibility = VisibilityPrivate
	}
	return c
}

type CataloguePatch struct {
	Name         *string `json:"name" validate:"omitnil,min=1,max=100"`
	Abbreviation *string `json:"abbreviation" validate:"omitnil,min=1,max=10"`
	Prefix       *string `json:"prefix" validate:"omitnil,max=10"`
	Description  *string `json:"description" validate:"omitnil,max=2000"`
	ObjectCount  *int    `json:"objectCount" validate:"omitnil,min=0"`
	Visibility   *string `json:"visibility" validate:"omitnil,oneof=public private"`
}

func (in CataloguePatch) Apply(c *Catalogue) {
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Abbreviation != nil {
		c.Abbreviation = *in.Abbreviation
	}
	if in.Prefix != nil {
		c.Prefix = *in.Prefix
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.ObjectCount != nil {
		c.ObjectCount = *in.ObjectCount
	}
	if in.Visibility != nil {
		c.Visibility = *in.Visibility
	}
}
