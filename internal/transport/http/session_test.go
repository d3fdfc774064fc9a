package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/luisltferreira/CliMate-App/internal/domain"
)

type fakeRegistrar struct {
	user    domain.User
	created bool
	err     error

	gotName string
}

func (f *fakeRegistrar) RegisterUser(_ context.Context, name string) (domain.User, bool, error) {
	f.gotName = name
	if f.err != nil {
		return domain.User{}, false, f.err
	}
	return f.user, f.created, nil
}

func TestHandleSession(t *testing.T) {
	t.Parallel()

	user := domain.User{
		ID:                 "u1",
		Name:               "Ana",
		CreatedEventIDs:    []string{},
		InterestedEventIDs: []string{},
		CreatedAt:          time.Date(2025, 6, 14, 10, 30, 0, 0, time.UTC),
	}

	t.Run("creates a new session", func(t *testing.T) {
		t.Parallel()

		svc := &fakeRegistrar{user: user, created: true}
		handler := HandleSession(svc)

		req := httptest.NewRequest("POST", "/session", strings.NewReader(`{"name":"Ana"}`))
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != 201 {
			t.Fatalf("expected status 201, got %d", rec.Code)
		}
		if svc.gotName != "Ana" {
			t.Fatalf("expected name forwarded, got %q", svc.gotName)
		}

		var resp userResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.ID != "u1" || resp.Name != "Ana" {
			t.Fatalf("unexpected response: %+v", resp)
		}
		if resp.CreatedEvents == nil || resp.InterestedEvents == nil {
			t.Fatalf("expected empty arrays, got %+v", resp)
		}
	})

	t.Run("returns the existing user with 200", func(t *testing.T) {
		t.Parallel()

		svc := &fakeRegistrar{user: user, created: false}
		handler := HandleSession(svc)

		req := httptest.NewRequest("POST", "/session", strings.NewReader(`{"name":"Ana"}`))
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != 200 {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
	})

	t.Run("blank name", func(t *testing.T) {
		t.Parallel()

		svc := &fakeRegistrar{err: domain.ErrNameRequired}
		handler := HandleSession(svc)

		req := httptest.NewRequest("POST", "/session", strings.NewReader(`{"name":""}`))
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != 400 {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
		var resp errorResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Code != codeNameRequired {
			t.Fatalf("expected code %q, got %q", codeNameRequired, resp.Code)
		}
		if resp.Error != "Please enter your name" {
			t.Fatalf("unexpected message: %q", resp.Error)
		}
	})

	t.Run("storage unavailable", func(t *testing.T) {
		t.Parallel()

		svc := &fakeRegistrar{err: fmt.Errorf("%w: dial refused", domain.ErrStorageUnavailable)}
		handler := HandleSession(svc)

		req := httptest.NewRequest("POST", "/session", strings.NewReader(`{"name":"Ana"}`))
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != 503 {
			t.Fatalf("expected status 503, got %d", rec.Code)
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		t.Parallel()

		handler := HandleSession(&fakeRegistrar{})
		req := httptest.NewRequest("POST", "/session", strings.NewReader(`{`))
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != 400 {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		t.Parallel()

		handler := HandleSession(&fakeRegistrar{})
		req := httptest.NewRequest("GET", "/session", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != 405 {
			t.Fatalf("expected status 405, got %d", rec.Code)
		}
	})
}
