package reports

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/GlebRadaev/marketplace/internal/domain"
	"github.com/GlebRadaev/marketplace/internal/dto"
	"github.com/GlebRadaev/marketplace/pkg/auth"
	"github.com/GlebRadaev/marketplace/pkg/utils"
)

type Service interface {
	UserReport(ctx context.Context, userID string) (*domain.UserReport, error)
	MarketReport(ctx context.Context) (*domain.MarketReport, error)
}

type ReportsHandler struct {
	reportService Service
}

func New(reportService Service) *ReportsHandler {
	return &ReportsHandler{reportService: reportService}
}

// UserReport godoc
//
//	@Summary		Personal activity report
//	@Description	Listing counts, revenue and spending of the caller.
//	@Tags			Reports
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.UserReportDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/report [get]
func (h *ReportsHandler) UserReport(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	report, err := h.reportService.UserReport(r.Context(), userID)
	if err != nil {
		zap.L().Error("can't build user report", zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.FromUserReport(report))
}

// MarketReport godoc
//
//	@Summary		Marketplace report
//	@Description	Category and price distribution of listings plus the most recent sales.
//	@Tags			Reports
//	@Produce		json
//	@Success		200	{object}	dto.MarketReportDTO
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/reports/market [get]
func (h *ReportsHandler) MarketReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportService.MarketReport(r.Context())
	if err != nil {
		zap.L().Error("can't build market report", zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.FromMarketReport(report))
}
