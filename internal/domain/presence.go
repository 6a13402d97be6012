package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultPresenceWindow   = 5 * time.Minute
	DefaultActiveUsersLimit = 5
)

// Touch records activity: the user becomes active as of now
func (u *User) Touch(now time.Time) {
	u.LastActiveAt = now
	u.IsActive = true
}

// MarkInactive clears the active flag. LastActiveAt is kept.
func (u *User) MarkInactive() {
	u.IsActive = false
}

// IsActiveAt reports whether the user counts as active at now for the
// given presence window. The window boundary is inclusive.
func (u *User) IsActiveAt(now time.Time, window time.Duration) bool {
	return u.IsActive && !u.LastActiveAt.Before(now.Add(-window))
}

// FilterActive returns at most limit users, other than exclude, that are
// active within window at now, most recently active first.
func FilterActive(users []*User, exclude uuid.UUID, now time.Time, window time.Duration, limit int) []*User {
	active := make([]*User, 0, len(users))
	for _, u := range users {
		if u.ID == exclude || !u.IsActiveAt(now, window) {
			continue
		}
		active = append(active, u)
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].LastActiveAt.After(active[j].LastActiveAt)
	})

	if limit >= 0 && len(active) > limit {
		active = active[:limit]
	}
	return active
}
