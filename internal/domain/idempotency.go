package domain

import "time"

// Idempotency remembers which resource an Idempotency-Key produced, keyed by
// (actor, scope, key). A retried lease creation with the same key replays the
// stored lease instead of opening a second one.
type Idempotency struct {
	ID         string    `gorm:"type:char(36);primaryKey"`
	ActorID    string    `gorm:"type:varchar(64);not null;uniqueIndex:ux_actor_scope_key,priority:1"`
	Scope      string    `gorm:"type:varchar(32);not null;uniqueIndex:ux_actor_scope_key,priority:2"`
	Key        string    `gorm:"type:varchar(200);not null;uniqueIndex:ux_actor_scope_key,priority:3"`
	ResourceID string    `gorm:"type:char(36);not null"`
	Status     int       `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime"`
	ExpiresAt  time.Time `gorm:"not null;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
