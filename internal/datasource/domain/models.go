package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// DataSourceConfig describes one externally hosted spreadsheet a tenant
// syncs metrics from. Status fields are owned by the sync orchestrator.
type DataSourceConfig struct {
	ID            snowflake.ID              `gorm:"primaryKey" json:"id"`
	TenantID      snowflake.ID              `gorm:"not null;index" json:"tenant_id"`
	SpreadsheetID string                    `gorm:"not null" json:"spreadsheet_id"`
	Label         string                    `gorm:"not null" json:"label"`
	TabNames      datatypes.JSONSlice[string] `gorm:"not null" json:"tab_names"`
	SyncStatus    SyncStatus                `gorm:"not null;default:'PENDING'" json:"sync_status"`
	LastSyncedAt  *time.Time                `json:"last_synced_at,omitempty"`
	LastError     *string                   `json:"last_error,omitempty"`
	CreatedAt     time.Time                 `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time                 `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (DataSourceConfig) TableName() string { return "data_source_configs" }
