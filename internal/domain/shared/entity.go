// Package shared holds the building blocks the catalog domain is assembled
// from: entity identity, versioned aggregates, the domain error taxonomy and
// list pagination.
package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the identity and audit columns every persisted record
// has. IDs are assigned in the domain, not by the database.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity assigns a fresh id and audit timestamps.
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// BaseAggregateRoot adds an optimistic-lock version on top of the entity
// columns. Every state transition bumps the version so a stale concurrent
// write surfaces as a conflict instead of silently winning.
type BaseAggregateRoot struct {
	BaseEntity
	Version int `gorm:"not null;default:1"`
}

// NewBaseAggregateRoot creates a version-1 aggregate with a fresh identity.
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

// IncrementVersion records that the aggregate changed.
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}
