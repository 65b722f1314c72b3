package handlers

import (
	"net/http"

	"github.com/Vamsee295/telegram-bot/internal/services"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// StatsHandler serves the read-only group statistics API.
type StatsHandler struct {
	roster    *services.RosterService
	deadlines *services.DeadlineService
	schedules *services.ScheduleService
}

func NewStatsHandler(
	roster *services.RosterService,
	deadlines *services.DeadlineService,
	schedules *services.ScheduleService,
) *StatsHandler {
	return &StatsHandler{roster: roster, deadlines: deadlines, schedules: schedules}
}

func (h *StatsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *StatsHandler) Roster(c *gin.Context) {
	c.JSON(http.StatusOK, h.roster.ResolveAll())
}

type deadlineView struct {
	services.DeadlineStatus
	PendingCount int64 `json:"pending_count"`
}

func (h *StatsHandler) Deadlines(c *gin.Context) {
	statuses, err := h.deadlines.Statuses()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load deadlines"})
		return
	}

	total := int64(h.roster.Count())
	views := make([]deadlineView, 0, len(statuses))
	for _, s := range statuses {
		views = append(views, deadlineView{
			DeadlineStatus: s,
			PendingCount:   total - s.CompletedCount,
		})
	}
	c.JSON(http.StatusOK, views)
}

func (h *StatsHandler) Schedules(c *gin.Context) {
	schedules, err := h.schedules.All()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load schedules"})
		return
	}
	c.JSON(http.StatusOK, schedules)
}
