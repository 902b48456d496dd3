package handler

import (
	"net/http"

	"github.com/gigboard/gigboard/internal/handler/dto"
)

// handleGetStats returns marketplace-wide statistics.
// @Summary Get statistics
// @Description Get marketplace-wide task statistics
// @Tags stats
// @Produce json
// @Success 200 {object} dto.StatsResponse
// @Security BearerAuth
// @Router /stats [get]
func (h *Handler) handleGetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.taskRepo.GetMarketplaceStats(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch stats")
		return
	}

	approvalPercent := 0.0
	if reviewed := stats.ApprovedCount + stats.RejectedCount; reviewed > 0 {
		approvalPercent = float64(stats.ApprovedCount) / float64(reviewed) * 100
	}

	respondJSON(w, http.StatusOK, dto.StatsResponse{
		TotalTasks:      stats.TotalTasks,
		TasksByStatus:   stats.TasksByStatus,
		OpenCount:       stats.OpenCount,
		OverdueCount:    stats.OverdueCount,
		ApprovedCount:   stats.ApprovedCount,
		RejectedCount:   stats.RejectedCount,
		ApprovalPercent: approvalPercent,
	})
}
