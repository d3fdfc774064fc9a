package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/luisltferreira/CliMate-App/internal/app"
	"github.com/luisltferreira/CliMate-App/internal/domain"
)

type fakeToggler struct {
	state app.InterestState
	err   error

	gotUserID  string
	gotEventID string
}

func (f *fakeToggler) ToggleInterest(_ context.Context, userID, eventID string) (app.InterestState, error) {
	f.gotUserID = userID
	f.gotEventID = eventID
	if f.err != nil {
		return app.InterestState{}, f.err
	}
	return f.state, nil
}

func TestHandleInterest(t *testing.T) {
	t.Parallel()

	t.Run("toggles interest", func(t *testing.T) {
		t.Parallel()

		svc := &fakeToggler{state: app.InterestState{NowInterested: true, TotalInterested: 3}}
		handler := HandleInterest(svc)

		req := httptest.NewRequest("POST", "/events/e1/interest", nil)
		req.Header.Set("X-User-ID", "u1")
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != 200 {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if svc.gotUserID != "u1" || svc.gotEventID != "e1" {
			t.Fatalf("unexpected forwarding: %q / %q", svc.gotUserID, svc.gotEventID)
		}

		var resp interestResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if !resp.Interested || resp.TotalInterested != 3 {
			t.Fatalf("unexpected response: %+v", resp)
		}
	})

	t.Run("missing user header", func(t *testing.T) {
		t.Parallel()

		handler := HandleInterest(&fakeToggler{})
		req := httptest.NewRequest("POST", "/events/e1/interest", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != 400 {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("unknown event", func(t *testing.T) {
		t.Parallel()

		svc := &fakeToggler{err: domain.ErrEventNotFound}
		handler := HandleInterest(svc)

		req := httptest.NewRequest("POST", "/events/ghost/interest", nil)
		req.Header.Set("X-User-ID", "u1")
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != 404 {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
		var resp errorResponse
		_ = json.NewDecoder(rec.Body).Decode(&resp)
		if resp.Code != codeEventNotFound {
			t.Fatalf("expected code %q, got %q", codeEventNotFound, resp.Code)
		}
	})

	t.Run("malformed path", func(t *testing.T) {
		t.Parallel()

		handler := HandleInterest(&fakeToggler{})
		for _, path := range []string{"/events/e1", "/events//interest", "/events/e1/other", "/events/a/b/interest"} {
			req := httptest.NewRequest("POST", path, nil)
			rec := httptest.NewRecorder()
			handler(rec, req)
			if rec.Code != 404 {
				t.Fatalf("path %q: expected status 404, got %d", path, rec.Code)
			}
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		t.Parallel()

		handler := HandleInterest(&fakeToggler{})
		req := httptest.NewRequest("GET", "/events/e1/interest", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != 405 {
			t.Fatalf("expected status 405, got %d", rec.Code)
		}
	})
}

func TestParseEventInterestPath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		path   string
		wantID string
		wantOK bool
	}{
		{"/events/e1/interest", "e1", true},
		{"/events/550e8400-e29b-41d4-a716-446655440000/interest", "550e8400-e29b-41d4-a716-446655440000", true},
		{"/events//interest", "", false},
		{"/events/e1", "", false},
		{"/other/e1/interest", "", false},
		{"/events/a/b/interest", "", false},
	}
	for _, tc := range cases {
		id, ok := parseEventInterestPath(tc.path)
		if ok != tc.wantOK || id != tc.wantID {
			t.Errorf("parseEventInterestPath(%q) = %q, %v; want %q, %v", tc.path, id, ok, tc.wantID, tc.wantOK)
		}
	}
}
