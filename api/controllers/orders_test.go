package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/arjunmehta/stitchbook-backend/internal/orders"
	"github.com/arjunmehta/stitchbook-backend/pkg/db/models"
	pkgerrors "github.com/arjunmehta/stitchbook-backend/pkg/errors"
)

type fakeOrdersService struct {
	markPaidID  int64
	lastStatus  string
	statusCalls int
	getErr      error
}

func (f *fakeOrdersService) Get(_ context.Context, id int64) (*models.Order, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &models.Order{ID: id, CustomerName: "Asha"}, nil
}

func (f *fakeOrdersService) List(context.Context) ([]models.Order, error) { return nil, nil }

func (f *fakeOrdersService) ListByBillNumber(context.Context, int64) ([]models.Order, error) {
	return nil, nil
}

func (f *fakeOrdersService) UpdatePaymentStatus(_ context.Context, id int64, status string) (*orders.MarkPaidResult, error) {
	f.statusCalls++
	f.lastStatus = status
	return &orders.MarkPaidResult{OrderID: id, PaymentStatus: status}, nil
}

func (f *fakeOrdersService) UpdateDeliveryStatus(_ context.Context, _ int64, status string) error {
	f.lastStatus = status
	return nil
}

func (f *fakeOrdersService) UpdateDetails(_ context.Context, id int64, input orders.UpdateDetailsInput) (*models.Order, error) {
	order := &models.Order{ID: id}
	if input.PaymentMode != nil {
		order.PaymentMode = *input.PaymentMode
	}
	if input.TotalAmount != nil {
		order.TotalAmount = *input.TotalAmount
	}
	return order, nil
}

func (f *fakeOrdersService) MarkPaid(_ context.Context, id int64) (*orders.MarkPaidResult, error) {
	f.markPaidID = id
	amount := decimal.NewFromInt(700)
	return &orders.MarkPaidResult{OrderID: id, PaymentStatus: "paid", FinalPaymentAmount: &amount}, nil
}

func (f *fakeOrdersService) MarkPaidForBill(context.Context, int64) (*orders.BulkMarkPaidResult, error) {
	return &orders.BulkMarkPaidResult{}, nil
}

func newChiRequest(method, target, body, param, value string) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(param, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestOrderDetail(t *testing.T) {
	svc := &fakeOrdersService{}
	handler := OrderDetail(svc, nil)

	req := newChiRequest(http.MethodGet, "/api/v1/orders/12", "", "orderId", "12")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"Asha"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestOrderDetailRejectsBadID(t *testing.T) {
	svc := &fakeOrdersService{}
	handler := OrderDetail(svc, nil)

	req := newChiRequest(http.MethodGet, "/api/v1/orders/abc", "", "orderId", "abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestOrderDetailMapsNotFound(t *testing.T) {
	svc := &fakeOrdersService{getErr: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}
	handler := OrderDetail(svc, nil)

	req := newChiRequest(http.MethodGet, "/api/v1/orders/99", "", "orderId", "99")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestOrderUpdatePaymentStatus(t *testing.T) {
	svc := &fakeOrdersService{}
	handler := OrderUpdatePaymentStatus(svc, nil)

	req := newChiRequest(http.MethodPatch, "/api/v1/orders/5/payment-status",
		`{"payment_status":"paid"}`, "orderId", "5")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.statusCalls != 1 || svc.lastStatus != "paid" {
		t.Fatalf("service not invoked as expected: %+v", svc)
	}
}

func TestOrderFinalPayment(t *testing.T) {
	svc := &fakeOrdersService{}
	handler := OrderFinalPayment(svc, nil)

	req := newChiRequest(http.MethodPost, "/api/v1/orders/8/payments/final", "", "orderId", "8")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.markPaidID != 8 {
		t.Fatalf("expected MarkPaid(8), got %d", svc.markPaidID)
	}
	if !strings.Contains(rec.Body.String(), `"final_payment_amount":"700"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
