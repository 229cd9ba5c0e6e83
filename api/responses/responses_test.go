package responses

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/hyunwoo-dev/storefront-backend/pkg/errors"
	"github.com/hyunwoo-dev/storefront-backend/pkg/types"
)

func TestWriteSuccessWrapsEnvelope(t *testing.T) {
	resp := httptest.NewRecorder()
	WriteSuccess(resp, map[string]string{"hello": "world"})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data["hello"] != "world" {
		t.Fatalf("unexpected payload %+v", envelope)
	}
}

func TestWriteErrorMapsCodeToStatus(t *testing.T) {
	cases := []struct {
		code   pkgerrors.Code
		status int
	}{
		{pkgerrors.CodeValidation, http.StatusBadRequest},
		{pkgerrors.CodeUnauthorized, http.StatusUnauthorized},
		{pkgerrors.CodeNotFound, http.StatusNotFound},
		{pkgerrors.CodeConflict, http.StatusConflict},
		{pkgerrors.CodeDependency, http.StatusServiceUnavailable},
		{pkgerrors.CodeInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		resp := httptest.NewRecorder()
		WriteError(context.Background(), nil, resp, pkgerrors.New(tc.code, "boom"))
		if resp.Code != tc.status {
			t.Fatalf("code %s: expected %d got %d", tc.code, tc.status, resp.Code)
		}
	}
}

func TestWriteErrorHidesInternalMessage(t *testing.T) {
	resp := httptest.NewRecorder()
	WriteError(context.Background(), nil, resp, pkgerrors.New(pkgerrors.CodeInternal, "sensitive detail"))

	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Error.Message == "sensitive detail" {
		t.Fatalf("internal message must not leak to clients")
	}
}

func TestWriteErrorSurfacesValidationDetails(t *testing.T) {
	resp := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "invalid purchase payload").
		WithDetails([]string{"phone must match digits-with-hyphens format"})
	WriteError(context.Background(), nil, resp, err)

	var envelope types.ErrorEnvelope
	if jsonErr := json.NewDecoder(resp.Body).Decode(&envelope); jsonErr != nil {
		t.Fatalf("decode: %v", jsonErr)
	}
	if envelope.Error.Message != "invalid purchase payload" {
		t.Fatalf("expected message surfaced, got %q", envelope.Error.Message)
	}
	if envelope.Error.Details == nil {
		t.Fatalf("expected details surfaced")
	}
}

func TestWriteErrorWrapsPlainErrors(t *testing.T) {
	resp := httptest.NewRecorder()
	WriteError(context.Background(), nil, resp, fmt.Errorf("plain failure"))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
