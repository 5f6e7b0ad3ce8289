package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arjunmehta/stitchbook-backend/internal/auth"
	pkgerrors "github.com/arjunmehta/stitchbook-backend/pkg/errors"
)

type fakeAuthService struct {
	loginCalls   int
	lastLogin    auth.LoginRequest
	loginErr     error
	refreshCalls int
	lastRefresh  auth.RefreshRequest
}

func (f *fakeAuthService) Login(_ context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	f.loginCalls++
	f.lastLogin = req
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &auth.LoginResponse{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (f *fakeAuthService) Refresh(_ context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	f.refreshCalls++
	f.lastRefresh = req
	return &auth.RefreshResponse{AccessToken: "access2", RefreshToken: "refresh2"}, nil
}

func (f *fakeAuthService) Logout(context.Context, string) error { return nil }

func (f *fakeAuthService) CreateStaff(context.Context, auth.CreateStaffRequest) (*auth.CreateStaffResponse, error) {
	return &auth.CreateStaffResponse{TempPassword: "temp"}, nil
}

func TestAuthLoginSuccess(t *testing.T) {
	svc := &fakeAuthService{}
	handler := AuthLogin(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"owner@example.com","password":"secret"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.loginCalls != 1 || svc.lastLogin.Email != "owner@example.com" {
		t.Fatalf("unexpected login call: %+v", svc.lastLogin)
	}
	if !strings.Contains(rec.Body.String(), `"access_token":"access"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthLoginValidatesBody(t *testing.T) {
	svc := &fakeAuthService{}
	handler := AuthLogin(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"not-an-email","password":""}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if svc.loginCalls != 0 {
		t.Fatal("service should not be called on invalid payload")
	}
}

func TestAuthLoginMapsServiceError(t *testing.T) {
	svc := &fakeAuthService{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	handler := AuthLogin(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"owner@example.com","password":"wrong"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeUnauthorized) {
		t.Fatalf("unexpected code %q", payload.Error.Code)
	}
}

func TestAuthRefreshForwardsBearerToken(t *testing.T) {
	svc := &fakeAuthService{}
	handler := AuthRefresh(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh",
		strings.NewReader(`{"refresh_token":"the-refresh"}`))
	req.Header.Set("Authorization", "Bearer spent-access-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastRefresh.AccessToken != "spent-access-token" {
		t.Fatalf("access token not forwarded: %+v", svc.lastRefresh)
	}
	if svc.lastRefresh.RefreshToken != "the-refresh" {
		t.Fatalf("refresh token not forwarded: %+v", svc.lastRefresh)
	}
}

func TestAuthRefreshRequiresBearerToken(t *testing.T) {
	svc := &fakeAuthService{}
	handler := AuthRefresh(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh",
		strings.NewReader(`{"refresh_token":"the-refresh"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if svc.refreshCalls != 0 {
		t.Fatal("service should not be called without a bearer token")
	}
}
