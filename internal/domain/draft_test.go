package domain

import (
	"reflect"
	"testing"
)

func TestEventDraft_MissingFields(t *testing.T) {
	t.Run("empty draft lists everything in order", func(t *testing.T) {
		got := EventDraft{}.MissingFields()
		want := []string{"title", "description", "date", "time", "category", "location"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
	})

	t.Run("whitespace counts as blank", func(t *testing.T) {
		draft := EventDraft{
			Title:       "   ",
			Description: "Bring gloves",
			Date:        "2025-07-01",
			Time:        "09:00",
			Category:    "environment",
			Location:    &Coordinates{Lat: 38.7, Lng: -9.1},
		}
		got := draft.MissingFields()
		if !reflect.DeepEqual(got, []string{"title"}) {
			t.Fatalf("expected [title], got %v", got)
		}
	})

	t.Run("complete draft has none", func(t *testing.T) {
		draft := EventDraft{
			Title:       "Beach Cleanup",
			Description: "Bring gloves",
			Date:        "2025-07-01",
			Time:        "09:00",
			Category:    "environment",
			Location:    &Coordinates{Lat: 38.7, Lng: -9.1},
		}
		if got := draft.MissingFields(); len(got) != 0 {
			t.Fatalf("expected no missing fields, got %v", got)
		}
	})
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Fields: []string{"title", "date"}}
	want := "missing required fields: title, date"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}
