package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/arjunmehta/stitchbook-backend/api/responses"
	"github.com/arjunmehta/stitchbook-backend/api/validators"
	"github.com/arjunmehta/stitchbook-backend/internal/measurements"
	pkgerrors "github.com/arjunmehta/stitchbook-backend/pkg/errors"
	"github.com/arjunmehta/stitchbook-backend/pkg/logger"
)

// MeasurementGet looks up a customer's measurements by mobile number.
func MeasurementGet(svc measurements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "measurements service unavailable"))
			return
		}

		phone := strings.TrimSpace(chi.URLParam(r, "mobileNumber"))
		record, err := svc.GetByPhone(r.Context(), phone)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

type measurementBody struct {
	CustomerName      string `json:"customer_name"`
	PantMeasurements  string `json:"pant_measurements"`
	ShirtMeasurements string `json:"shirt_measurements"`
	ExtraMeasurements string `json:"extra_measurements"`
}

// MeasurementPut creates or replaces the measurements stored under the mobile
// number in the path.
func MeasurementPut(svc measurements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "measurements service unavailable"))
			return
		}

		phone := strings.TrimSpace(chi.URLParam(r, "mobileNumber"))

		var body measurementBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Upsert(r.Context(), measurements.UpsertInput{
			PhoneNumber:       phone,
			CustomerName:      body.CustomerName,
			PantMeasurements:  body.PantMeasurements,
			ShirtMeasurements: body.ShirtMeasurements,
			ExtraMeasurements: body.ExtraMeasurements,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

func MeasurementList(svc measurements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "measurements service unavailable"))
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
