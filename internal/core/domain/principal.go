package domain

import "time"

// Principal is the identity resolved for the current request.
type Principal struct {
	UserID    int64
	Email     string
	Roles     []string
	SessionID string
	ExpiresAt time.Time
}

// HasRole reports explicit membership of role in the principal's role set.
func (p *Principal) HasRole(role string) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}
