package measurements

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/arjunmehta/stitchbook-backend/pkg/db/models"
	pkgerrors "github.com/arjunmehta/stitchbook-backend/pkg/errors"
)

// Service stores customer measurements keyed by mobile number. Upsert keeps
// one record per customer; the tailors overwrite sizes on each visit.
type Service interface {
	GetByPhone(ctx context.Context, phoneNumber string) (*models.Measurement, error)
	Upsert(ctx context.Context, input UpsertInput) (*models.Measurement, error)
	List(ctx context.Context) ([]models.Measurement, error)
	Delete(ctx context.Context, id int64) error
}

// UpsertInput carries the measurement blobs for one customer.
type UpsertInput struct {
	PhoneNumber       string `json:"phone_number" validate:"required"`
	CustomerName      string `json:"customer_name"`
	PantMeasurements  string `json:"pant_measurements"`
	ShirtMeasurements string `json:"shirt_measurements"`
	ExtraMeasurements string `json:"extra_measurements"`
}

type service struct {
	repo Repository
}

// NewService builds a measurements service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("measurements repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetByPhone(ctx context.Context, phoneNumber string) (*models.Measurement, error) {
	phone := strings.TrimSpace(phoneNumber)
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone number required")
	}
	record, err := s.repo.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "measurements not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load measurements")
	}
	return record, nil
}

func (s *service) Upsert(ctx context.Context, input UpsertInput) (*models.Measurement, error) {
	phone := strings.TrimSpace(input.PhoneNumber)
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone number required")
	}

	record, err := s.repo.GetByPhone(ctx, phone)
	switch {
	case err == nil:
		record.CustomerName = strings.TrimSpace(input.CustomerName)
		record.PantMeasurements = input.PantMeasurements
		record.ShirtMeasurements = input.ShirtMeasurements
		record.ExtraMeasurements = input.ExtraMeasurements
		if err := s.repo.Save(ctx, record); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update measurements")
		}
		return record, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		record = &models.Measurement{
			PhoneNumber:       phone,
			CustomerName:      strings.TrimSpace(input.CustomerName),
			PantMeasurements:  input.PantMeasurements,
			ShirtMeasurements: input.ShirtMeasurements,
			ExtraMeasurements: input.ExtraMeasurements,
		}
		if err := s.repo.Create(ctx, record); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create measurements")
		}
		return record, nil
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load measurements")
	}
}

func (s *service) List(ctx context.Context) ([]models.Measurement, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list measurements")
	}
	return rows, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete measurements")
	}
	return nil
}
