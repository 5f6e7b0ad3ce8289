package controllers

import (
	"net/http"
	"strings"

	"github.com/arjunmehta/stitchbook-backend/api/responses"
	"github.com/arjunmehta/stitchbook-backend/internal/profit"
	"github.com/arjunmehta/stitchbook-backend/internal/reports"
	"github.com/arjunmehta/stitchbook-backend/internal/shopdate"
	pkgerrors "github.com/arjunmehta/stitchbook-backend/pkg/errors"
	"github.com/arjunmehta/stitchbook-backend/pkg/logger"
)

// ReportsProfit returns the profit summary for one day, or the all-time
// summary when no date is supplied.
func ReportsProfit(calc profit.Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if calc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profit calculator unavailable"))
			return
		}

		raw := strings.TrimSpace(r.URL.Query().Get("date"))
		var date *string
		if raw != "" {
			day := shopdate.Normalize(raw)
			if day == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "date must be YYYY-MM-DD"))
				return
			}
			date = &day
		}

		summary, err := calc.Calculate(r.Context(), date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}

// ReportsWeekly renders the Sunday to Saturday grid for the week containing
// the requested date. Today's week when no date is supplied.
func ReportsWeekly(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}

		date := reportDate(r)
		report, err := svc.Weekly(r.Context(), date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

// ReportsMonthly renders the week-of-month grid for the month containing the
// requested date.
func ReportsMonthly(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}

		date := reportDate(r)
		report, err := svc.Monthly(r.Context(), date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

func reportDate(r *http.Request) string {
	if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
		return raw
	}
	return shopdate.Today()
}
