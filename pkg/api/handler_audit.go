package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rishta-council/brokerd/pkg/models"
)

// AuditResponse wraps the audit listing.
type AuditResponse struct {
	Entries []models.LogEntry `json:"entries"`
}

// listAudit handles GET /api/v1/audit?limit=N, newest first.
func (s *Server) listAudit(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	entries, err := s.store.ListLogs(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error("Failed to list audit logs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list audit logs"})
		return
	}
	if entries == nil {
		entries = []models.LogEntry{}
	}
	c.JSON(http.StatusOK, AuditResponse{Entries: entries})
}
