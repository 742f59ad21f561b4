package handlers

import (
	"testing"

	"github.com/langchou/fuelbook/internal/models"
)

// 跨年改期：year 必须跟随新日期重算，台账分区才能跟着迁移
func TestTripRequestApplyCrossYearDate(t *testing.T) {
	trip := &models.Trip{ID: 7, VehicleID: 1, Year: 2024}

	req := tripRequest{TripDate: "2025-01-03", DistanceKm: 42}
	date, msg := req.validate()
	if msg != "" {
		t.Fatalf("validate: %s", msg)
	}
	req.apply(trip, date)

	if trip.Year != 2025 {
		t.Errorf("year = %d, want 2025", trip.Year)
	}
	if trip.TripDate.Year() != trip.Year {
		t.Errorf("trip_date year %d and year column %d diverge", trip.TripDate.Year(), trip.Year)
	}
}

func TestTripRequestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  tripRequest
		ok   bool
	}{
		{"valid", tripRequest{TripDate: "2025-03-10", DistanceKm: 100}, true},
		{"bad date", tripRequest{TripDate: "10.03.2025", DistanceKm: 100}, false},
		{"negative distance", tripRequest{TripDate: "2025-03-10", DistanceKm: -1}, false},
	}

	for _, tt := range tests {
		_, msg := tt.req.validate()
		if (msg == "") != tt.ok {
			t.Errorf("%s: validate() = %q, want ok=%v", tt.name, msg, tt.ok)
		}
	}
}
