package domain

import "strings"

// EventDraft is the unvalidated, in-progress event data collected across the
// creation wizard steps.
type EventDraft struct {
	Title       string
	Description string
	Date        string
	Time        string
	Category    string
	Location    *Coordinates
}

// MissingFields returns the names of every required field that is absent or
// blank, in a stable order.
func (d EventDraft) MissingFields() []string {
	var missing []string
	fields := []struct {
		name  string
		value string
	}{
		{"title", d.Title},
		{"description", d.Description},
		{"date", d.Date},
		{"time", d.Time},
		{"category", d.Category},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if d.Location == nil {
		missing = append(missing, "location")
	}
	return missing
}
