package domain

import (
	"strings"
	"time"
)

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// User models an account that can authenticate against the admin panel.
type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Roles        []string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser returns an active user holding only ROLE_USER.
func NewUser() *User {
	return &User{
		Roles:    []string{RoleUser},
		IsActive: true,
	}
}

// FullName joins first and last name, skipping the empty parts.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// HasRole is a flat membership test. ROLE_ADMIN does not imply anything else.
func (u *User) HasRole(role string) bool {
	for _, r := range NormalizeRoles(u.Roles) {
		if r == role {
			return true
		}
	}
	return false
}

// SetRoles replaces the role set wholesale.
func (u *User) SetRoles(roles []string) {
	u.Roles = NormalizeRoles(roles)
}

// Touch stamps the timestamps for a save: CreatedAt once, UpdatedAt always.
func (u *User) Touch(now time.Time) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if now.Before(u.CreatedAt) {
		now = u.CreatedAt
	}
	u.UpdatedAt = now
}

// NormalizeRoles trims and de-duplicates role tokens, keeping their order,
// and appends ROLE_USER when it is missing.
func NormalizeRoles(roles []string) []string {
	out := make([]string, 0, len(roles)+1)
	seen := make(map[string]struct{}, len(roles)+1)
	for _, r := range roles {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	if _, ok := seen[RoleUser]; !ok {
		out = append(out, RoleUser)
	}
	return out
}

// UserView is the public projection of a User. It never carries the hash.
type UserView struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	FullName  string    `json:"fullName"`
	Roles     []string  `json:"roles"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// View builds the projection returned by every user-facing endpoint.
func (u *User) View() UserView {
	return UserView{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		Roles:     NormalizeRoles(u.Roles),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Views projects a slice of users.
func Views(users []*User) []UserView {
	out := make([]UserView, 0, len(users))
	for _, u := range users {
		out = append(out, u.View())
	}
	return out
}
