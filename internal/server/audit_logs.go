package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// listAuditLogs returns the most recent audit entries for a tenant.
func (s *Server) listAuditLogs(c *gin.Context) {
	tenantID, ok := tenantIDParam(c)
	if !ok {
		return
	}

	limit := 50
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_limit"})
			return
		}
		limit = parsed
	}

	logs, err := s.auditSvc.List(c.Request.Context(), tenantID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_audit_logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"audit_logs": logs})
}
