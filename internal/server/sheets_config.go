package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	datasourcedomain "github.com/insightrow/sheetsync/internal/datasource/domain"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// listSheetsConfigs returns a tenant's data source configs.
func (s *Server) listSheetsConfigs(c *gin.Context) {
	tenantID, ok := tenantIDParam(c)
	if !ok {
		return
	}

	configs, err := s.sources.FindByTenant(c.Request.Context(), s.db, tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_configs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"configs": configs})
}

type createSheetsConfigRequest struct {
	TenantID      string   `json:"tenant_id" binding:"required"`
	SpreadsheetID string   `json:"spreadsheet_id" binding:"required"`
	Label         string   `json:"label"`
	TabNames      []string `json:"tab_names" binding:"required,min=1"`
}

// createSheetsConfig registers a new data source for a tenant. New
// configs start PENDING and are picked up by the next sync pass.
func (s *Server) createSheetsConfig(c *gin.Context) {
	var req createSheetsConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	tenantID, err := snowflake.ParseString(strings.TrimSpace(req.TenantID))
	if err != nil || tenantID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_tenant_id"})
		return
	}

	tenant, err := s.tenants.FindByID(c.Request.Context(), s.db, tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_load_tenant"})
		return
	}
	if tenant == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "tenant_not_found"})
		return
	}

	label := strings.TrimSpace(req.Label)
	if label == "" {
		label = strings.TrimSpace(req.SpreadsheetID)
	}

	now := time.Now().UTC()
	cfg := &datasourcedomain.DataSourceConfig{
		ID:            s.genID.Generate(),
		TenantID:      tenantID,
		SpreadsheetID: strings.TrimSpace(req.SpreadsheetID),
		Label:         label,
		TabNames:      datatypes.NewJSONSlice(req.TabNames),
		SyncStatus:    datasourcedomain.SyncStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.sources.Insert(c.Request.Context(), s.db, cfg); err != nil {
		s.log.Error("failed to create sheets config", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_config"})
		return
	}
	c.JSON(http.StatusCreated, cfg)
}
