package model

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that owns works. Role is either "admin" or "normal";
// tokens issued before roles existed carry no role at all and are treated
// as "normal" downstream.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Nickname     string    `json:"nickname"`
	Picture      string    `json:"picture"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Profile is the public view of a user, safe to return to clients.
type Profile struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Nickname string    `json:"nickname"`
	Picture  string    `json:"picture"`
	Role     string    `json:"role"`
}

func (u *User) ToProfile() Profile {
	return Profile{
		ID:       u.ID,
		Username: u.Username,
		Nickname: u.Nickname,
		Picture:  u.Picture,
		Role:     u.Role,
	}
}
