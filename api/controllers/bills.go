package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arjunmehta/stitchbook-backend/api/responses"
	"github.com/arjunmehta/stitchbook-backend/api/validators"
	"github.com/arjunmehta/stitchbook-backend/internal/bills"
	"github.com/arjunmehta/stitchbook-backend/internal/orders"
	"github.com/arjunmehta/stitchbook-backend/pkg/enums"
	pkgerrors "github.com/arjunmehta/stitchbook-backend/pkg/errors"
	"github.com/arjunmehta/stitchbook-backend/pkg/logger"
)

// BillCreate records a customer visit: the bill, its orders, and the advance
// ledger entries.
func BillCreate(svc bills.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bills service unavailable"))
			return
		}

		var body bills.CreateBillInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func BillList(svc bills.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bills service unavailable"))
			return
		}

		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// BillDetail returns the bill joined with its orders.
func BillDetail(svc bills.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bills service unavailable"))
			return
		}

		billID, err := validators.ParsePathID(chi.URLParam(r, "billId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Get(r.Context(), billID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, detail)
	}
}

// BillCurrentNumber reports the last allocated bill number.
func BillCurrentNumber(svc bills.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bills service unavailable"))
			return
		}

		number, err := svc.CurrentBillNumber(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]int64{"billno": number})
	}
}

type billPaymentStatusBody struct {
	PaymentStatus string `json:"payment_status" validate:"required"`
}

// BillMarkPaidByNumber applies the paid transition to every order on the bill.
func BillMarkPaidByNumber(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		billNumber, err := validators.ParsePathID(chi.URLParam(r, "billNumber"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body billPaymentStatusBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if enums.NormalizePaymentStatus(body.PaymentStatus) != enums.PaymentStatusPaid {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "only the paid transition is supported per bill"))
			return
		}

		result, err := svc.MarkPaidForBill(r.Context(), billNumber)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
