package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	metricdomain "github.com/insightrow/sheetsync/internal/metric/domain"
)

// listMetrics returns stored metric records for a tenant, optionally
// bounded by a date range.
func (s *Server) listMetrics(c *gin.Context) {
	tenantID, ok := tenantIDParam(c)
	if !ok {
		return
	}

	filter := metricdomain.ListFilter{
		TenantID: tenantID,
		Limit:    500,
	}
	if from, ok := dateParam(c, "from"); ok {
		filter.From = from
	} else {
		return
	}
	if to, ok := dateParam(c, "to"); ok {
		filter.To = to
	} else {
		return
	}

	records, err := s.metrics.List(c.Request.Context(), s.db, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_metrics"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"metrics": records})
}

func tenantIDParam(c *gin.Context) (snowflake.ID, bool) {
	raw := strings.TrimSpace(c.Query("tenant_id"))
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_tenant_id"})
		return 0, false
	}
	id, err := snowflake.ParseString(raw)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_tenant_id"})
		return 0, false
	}
	return id, true
}

// dateParam parses an optional YYYY-MM-DD query parameter. The bool is
// false only after an error response has been written.
func dateParam(c *gin.Context, name string) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_" + name})
		return nil, false
	}
	parsed = parsed.UTC()
	return &parsed, true
}
