package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/arjunmehta/stitchbook-backend/api/responses"
	"github.com/arjunmehta/stitchbook-backend/api/validators"
	"github.com/arjunmehta/stitchbook-backend/internal/expenses"
	pkgerrors "github.com/arjunmehta/stitchbook-backend/pkg/errors"
	"github.com/arjunmehta/stitchbook-backend/pkg/logger"
)

func DailyExpenseCreate(svc expenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "expenses service unavailable"))
			return
		}

		var body expenses.CreateDailyInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		expense, err := svc.CreateDaily(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, expense)
	}
}

// DailyExpenseList returns daily expenses, optionally windowed by start/end.
func DailyExpenseList(svc expenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "expenses service unavailable"))
			return
		}

		start := strings.TrimSpace(r.URL.Query().Get("start"))
		end := strings.TrimSpace(r.URL.Query().Get("end"))

		list, err := svc.ListDaily(r.Context(), start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func DailyExpenseUpdate(svc expenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "expenses service unavailable"))
			return
		}

		expenseID, err := validators.ParsePathID(chi.URLParam(r, "expenseId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body expenses.UpdateDailyInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		expense, err := svc.UpdateDaily(r.Context(), expenseID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, expense)
	}
}

func DailyExpenseDelete(svc expenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "expenses service unavailable"))
			return
		}

		expenseID, err := validators.ParsePathID(chi.URLParam(r, "expenseId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteDaily(r.Context(), expenseID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"expense_id": expenseID, "deleted": true})
	}
}

func WorkerExpenseCreate(svc expenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "expenses service unavailable"))
			return
		}

		var body expenses.CreateWorkerExpenseInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		expense, err := svc.CreateWorkerExpense(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, expense)
	}
}

// WorkerExpenseList returns payouts, windowed by start/end or filtered by
// worker_id.
func WorkerExpenseList(svc expenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "expenses service unavailable"))
			return
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("worker_id")); raw != "" {
			workerID, err := validators.ParsePathID(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			list, err := svc.ListWorkerExpensesByWorker(r.Context(), workerID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, list)
			return
		}

		start := strings.TrimSpace(r.URL.Query().Get("start"))
		end := strings.TrimSpace(r.URL.Query().Get("end"))

		list, err := svc.ListWorkerExpenses(r.Context(), start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func WorkerExpenseDelete(svc expenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "expenses service unavailable"))
			return
		}

		expenseID, err := validators.ParsePathID(chi.URLParam(r, "expenseId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteWorkerExpense(r.Context(), expenseID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"expense_id": expenseID, "deleted": true})
	}
}
