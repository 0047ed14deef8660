package model

import "time"

// Collection groups projects for one user.
type Collection struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId" validate:"required"`
	Name        string    `json:"name" validate:"required,max=200"`
	Description string    `json:"description,omitempty" validate:"max=2000"`
	ProjectIDs  []string  `json:"projectIds"`
	Visibility  string    `json:"visibility" validate:"required,oneof=public private"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (c *Collection) Normalize() {
	c.ProjectIDs = emptyIfNil(c.ProjectIDs)
}

func (c *Collection) CanRead(userID string) bool {
	if c.Visibility == VisibilityPublic {
		return true
	}
	return userID != "" && c.UserID == userID
}

func (c *Collection) CanWrite(userID string) bool {
	return userID != "" && c.UserID == userID
}

type CollectionInput struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	ProjectIDs  []string `json:"projectIds"`
	Visibility  string   `json:"visibility" validate:"omitempty,oneof=public private"`
}

func (in CollectionInput) ToCollection(userID string) *Collection {
	c := &Collection{
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		ProjectIDs:  dedupe(in.ProjectIDs),
		Visibility:  in.Visibility,
	}
	if c.Visibility == "" {
		c.Visibility = VisibilityPrivate
	}
	c.Normalize()
	return c
}

type CollectionPatch struct {
	Name        *string   `json:"name" validate:"omitnil,min=1,max=200"`
	Description *string   `json:"description" validate:"omitnil,max=2000"`
	ProjectIDs  *[]string `json:"projectIds"`
	Visibility  *string   `json:"visibility" validate:"omitnil,oneof=public private"`
}

func (in CollectionPatch) Apply(c *Collection) {
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.ProjectIDs != nil {
		c.ProjectIDs = dedupe(*in.ProjectIDs)
	}
	if in.Visibility != nil {
		c.Visibility = *in.Visibility
	}
	c.Normalize()
}

// project ids form a set
func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !containsString(out, id) {
			out = append(out, id)
		}
	}
	return out
}
