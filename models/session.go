package models

import "time"

// Session is a learner session held by the gateway. The browser only sees ID.
type Session struct {
	ID                  string    `json:"id"`
	AccessToken         string    `json:"-"`
	RefreshToken        string    `json:"-"`
	UserID              int       `json:"userId"`
	Role                string    `json:"role"`
	OnboardingCompleted bool      `json:"onboardingCompleted"`
	AccessExpiresAt     time.Time `json:"accessExpiresAt"`
	MeCheckedAt         time.Time `json:"meCheckedAt"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}
