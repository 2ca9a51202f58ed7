package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/beancode/signalist-backend/internal/data/repos/runs"
	"github.com/beancode/signalist-backend/internal/http/response"
	"github.com/beancode/signalist-backend/internal/platform/logger"
	"github.com/beancode/signalist-backend/internal/scheduler"
)

// DigestHandler exposes the manual digest trigger plus a recent-run listing
// for operators.
type DigestHandler struct {
	log   *logger.Logger
	db    *gorm.DB
	runs  runs.DigestRunRepo
	sched *scheduler.Scheduler
}

func NewDigestHandler(log *logger.Logger, db *gorm.DB, runRepo runs.DigestRunRepo, sched *scheduler.Scheduler) *DigestHandler {
	return &DigestHandler{
		log:   log.With("handler", "DigestHandler"),
		db:    db,
		runs:  runRepo,
		sched: sched,
	}
}

// Trigger starts today's digest workflow out of schedule. Duplicate triggers
// for the same day collide on the workflow ID and surface as a conflict.
func (h *DigestHandler) Trigger(c *gin.Context) {
	if h.sched == nil {
		response.RespondError(c, http.StatusServiceUnavailable, "digest_unavailable",
			fmt.Errorf("workflow backend is not configured"))
		return
	}
	if err := h.sched.TriggerDigest(c.Request.Context()); err != nil {
		h.log.Warn("Manual digest trigger failed", "error", err)
		response.RespondError(c, http.StatusConflict, "digest_start_failed", err)
		return
	}
	response.RespondAccepted(c, gin.H{"started": true})
}

// ListRuns returns run records from the last N days (default 7).
func (h *DigestHandler) ListRuns(c *gin.Context) {
	days := 7
	if v := c.Query("days"); v != "" {
		if _, err := fmt.Sscanf(v, "%d", &days); err != nil || days < 1 {
			response.RespondError(c, http.StatusBadRequest, "invalid_days",
				fmt.Errorf("days must be a positive integer"))
			return
		}
	}
	since := time.Now().UTC().AddDate(0, 0, -days)
	records, err := h.runs.ListSince(c.Request.Context(), h.db, since)
	if err != nil {
		h.log.Error("Run listing failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "run_list_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"runs": records})
}
