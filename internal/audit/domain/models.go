package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// AuditLog is one append-only record of an action the sync core took on a
// tenant's behalf.
type AuditLog struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	TenantID  snowflake.ID      `gorm:"not null;index" json:"tenant_id"`
	Action    string            `gorm:"not null" json:"action"`
	Details   datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"details,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (AuditLog) TableName() string { return "audit_logs" }
