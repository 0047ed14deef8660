package model

import "time"

// User mirrors an identity-provider subject; ID is the provider's subject.
type User struct {
	ID                      string    `json:"id"`
	Email                   string    `json:"email,omitempty"`
	DisplayName             string    `json:"displayName,omitempty" validate:"max=200"`
	PhotoURL                string    `json:"photoUrl,omitempty"`
	ProjectIDs              []string  `json:"projectIds"`
	CollaboratingProjectIDs []string  `json:"collaboratingProjectIds"`
	FavoriteProjectIDs      []string  `json:"favoriteProjectIds"`
	CreatedAt               time.Time `json:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

func (u *User) Normalize() {
	u.ProjectIDs = emptyIfNil(u.ProjectIDs)
	u.CollaboratingProjectIDs = emptyIfNil(u.CollaboratingProjectIDs)
	u.FavoriteProjectIDs = emptyIfNil(u.FavoriteProjectIDs)
}

type UserPatch struct {
	DisplayName *string `json:"displayName" validate:"omitnil,max=200"`
	PhotoURL    *string `json:"photoUrl" validate:"omitnil,omitempty,url"`
}

func (in UserPatch) Apply(u *User) {
	if in.DisplayName != nil {
		u.DisplayName = *in.DisplayName
	}
	if in.PhotoURL != nil {
		u.PhotoURL = *in.PhotoURL
	}
}
