// Package domain contains persistence models for canonical metric records.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// MetricRecord is one row of performance data for a tenant on a specific
// day, identified by the composite natural key (tenant_id, date, medium,
// source, campaign, location, user_name, service_person). Dimensions are
// empty strings when absent so the key stays well defined; a second
// observation for the same key overwrites the metric values.
type MetricRecord struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID      snowflake.ID `gorm:"not null;uniqueIndex:idx_metric_records_natural_key" json:"tenant_id"`
	Date          time.Time    `gorm:"not null;uniqueIndex:idx_metric_records_natural_key" json:"date"`
	Medium        string       `gorm:"not null;default:'';uniqueIndex:idx_metric_records_natural_key" json:"medium"`
	Source        string       `gorm:"not null;default:'';uniqueIndex:idx_metric_records_natural_key" json:"source"`
	Campaign      string       `gorm:"not null;default:'';uniqueIndex:idx_metric_records_natural_key" json:"campaign"`
	Location      string       `gorm:"not null;default:'';uniqueIndex:idx_metric_records_natural_key" json:"location"`
	UserName      string       `gorm:"column:user_name;not null;default:'';uniqueIndex:idx_metric_records_natural_key" json:"user"`
	ServicePerson string       `gorm:"not null;default:'';uniqueIndex:idx_metric_records_natural_key" json:"service_person"`

	Leads    int `gorm:"not null" json:"leads"`
	Consults int `gorm:"not null" json:"consults"`
	Sales    int `gorm:"not null" json:"sales"`

	Spend              float64 `gorm:"type:decimal(14,4);not null" json:"spend"`
	Roas               float64 `gorm:"type:decimal(14,4);not null" json:"roas"`
	LeadsToConsultRate float64 `gorm:"type:decimal(8,4);not null" json:"leads_to_consult_rate"`
	LeadsToSaleRate    float64 `gorm:"type:decimal(8,4);not null" json:"leads_to_sale_rate"`

	// RawData is the post-redaction snapshot of the source row.
	RawData datatypes.JSONMap `gorm:"type:jsonb" json:"raw_data,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (MetricRecord) TableName() string { return "metric_records" }
