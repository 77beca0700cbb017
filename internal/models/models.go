package models

import (
	"time"
)

// Condition is the comparison an alert applies against its target rate.
type Condition string

const (
	ConditionAbove Condition = "above"
	ConditionBelow Condition = "below"
)

// Valid reports whether c is a known condition.
func (c Condition) Valid() bool {
	return c == ConditionAbove || c == ConditionBelow
}

// Holds reports whether the condition is satisfied by rate. Both bounds are
// inclusive: an exact hit on the target fires.
func (c Condition) Holds(rate, target float64) bool {
	switch c {
	case ConditionAbove:
		return rate >= target
	case ConditionBelow:
		return rate <= target
	}
	return false
}

// Alert represents a rate alert on a currency or crypto pair.
// Symbols are stored lower-cased; each source re-cases them as its API requires.
type Alert struct {
	ID                string    `json:"id" db:"id"`
	FromSymbol        string    `json:"from_symbol" db:"from_symbol"`
	ToSymbol          string    `json:"to_symbol" db:"to_symbol"`
	TargetRate        float64   `json:"target_rate" db:"target_rate"`
	Condition         Condition `json:"condition" db:"condition"`
	IsActive          bool      `json:"is_active" db:"is_active"`
	Triggered         bool      `json:"triggered" db:"triggered"`
	NotificationCount int       `json:"notification_count" db:"notification_count"`
	MaxNotifications  int       `json:"max_notifications" db:"max_notifications"`
	LastCheckedAt     time.Time `json:"last_checked_at" db:"last_checked_at"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}
