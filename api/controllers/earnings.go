package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Shaivan19/rentease-payments/api/middleware"
	"github.com/Shaivan19/rentease-payments/api/responses"
	"github.com/Shaivan19/rentease-payments/pkg/db/models"
	"github.com/Shaivan19/rentease-payments/pkg/enums"
	pkgerrors "github.com/Shaivan19/rentease-payments/pkg/errors"
	"github.com/Shaivan19/rentease-payments/pkg/logger"
)

// EarningsService exposes the landlord earnings overview to the HTTP layer.
type EarningsService interface {
	Overview(ctx context.Context, landlordID uuid.UUID) ([]models.EarningsPeriod, error)
}

// EarningsOverview lists the monthly earnings series for a landlord, newest
// period first. Landlords can only read their own series.
func EarningsOverview(svc EarningsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "earnings service unavailable"))
			return
		}

		landlordID, err := uuid.Parse(chi.URLParam(r, "landlordID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "landlord id must be a valid uuid"))
			return
		}

		caller, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if middleware.UserTypeFromContext(r.Context()) != string(enums.UserTypeLandlord) || caller != landlordID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "earnings belong to another landlord"))
			return
		}

		periods, err := svc.Overview(r.Context(), landlordID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]earningsPeriodResponse, 0, len(periods))
		for _, period := range periods {
			items = append(items, earningsPeriodResponse{
				Period:       period.Period,
				EarnedRupees: period.EarnedRupees.StringFixed(2),
				TargetRupees: period.TargetRupees.StringFixed(2),
			})
		}
		responses.WriteSuccess(w, earningsOverviewResponse{LandlordID: landlordID, Periods: items})
	}
}

type earningsOverviewResponse struct {
	LandlordID uuid.UUID                `json:"landlord_id"`
	Periods    []earningsPeriodResponse `json:"periods"`
}

type earningsPeriodResponse struct {
	Period       string `json:"period"`
	EarnedRupees string `json:"earned_rupees"`
	TargetRupees string `json:"target_rupees"`
}
