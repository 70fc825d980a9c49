package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Tenant is an organizational client whose data is isolated from other
// tenants. IsSensitive activates the PII redaction policy for every row
// ingested on the tenant's behalf.
type Tenant struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"not null" json:"name"`
	Slug        string       `gorm:"not null;uniqueIndex" json:"slug"`
	IsSensitive bool         `gorm:"not null;default:false" json:"is_sensitive"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Tenant) TableName() string { return "tenants" }
