package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

type triggerSyncRequest struct {
	TenantID string `json:"tenant_id" binding:"required"`
}

// triggerSync runs a sync pass for one tenant. The caller supplies the
// spreadsheet access credential as a bearer token; the core holds no
// credentials of its own.
func (s *Server) triggerSync(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing_access_token"})
		return
	}

	var req triggerSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	tenantID, err := snowflake.ParseString(strings.TrimSpace(req.TenantID))
	if err != nil || tenantID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_tenant_id"})
		return
	}

	result := s.syncSvc.SyncTenant(c.Request.Context(), tenantID, token)
	c.JSON(http.StatusOK, result)
}

// syncAll runs a sync pass for every tenant and returns the aggregated
// results.
func (s *Server) syncAll(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing_access_token"})
		return
	}

	results, err := s.syncSvc.SyncAll(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
