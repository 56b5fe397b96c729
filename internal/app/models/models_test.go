package models

import (
	"encoding/json"
	"testing"
)

func TestDateRangeOverlaps(t *testing.T) {
	r := func(s, e string) DateRange {
		return DateRange{Start: MustParseDate(s), End: MustParseDate(e)}
	}

	tests := []struct {
		name string
		a, b DateRange
		want bool
	}{
		{"identical", r("2025-01-10", "2025-01-12"), r("2025-01-10", "2025-01-12"), true},
		{"partial", r("2025-01-10", "2025-01-12"), r("2025-01-11", "2025-01-13"), true},
		{"touching end", r("2025-01-10", "2025-01-12"), r("2025-01-12", "2025-01-14"), true},
		{"contained", r("2025-01-01", "2025-01-31"), r("2025-01-10", "2025-01-10"), true},
		{"disjoint", r("2025-01-10", "2025-01-12"), r("2025-01-13", "2025-01-14"), false},
		{"before", r("2025-02-01", "2025-02-02"), r("2025-01-01", "2025-01-31"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("a.Overlaps(b) = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("b.Overlaps(a) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDateRangeValid(t *testing.T) {
	ok := DateRange{Start: MustParseDate("2025-01-10"), End: MustParseDate("2025-01-10")}
	if !ok.Valid() || ok.Days() != 1 {
		t.Errorf("single day range: valid=%v days=%d", ok.Valid(), ok.Days())
	}
	bad := DateRange{Start: MustParseDate("2025-01-12"), End: MustParseDate("2025-01-10")}
	if bad.Valid() {
		t.Error("reversed range reported valid")
	}
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		Day Date `json:"day"`
	}
	if err := json.Unmarshal([]byte(`{"day":"2025-01-10"}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Day.String() != "2025-01-10" {
		t.Errorf("day = %s", payload.Day)
	}

	out, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"day":"2025-01-10"}` {
		t.Errorf("marshal = %s", out)
	}

	if err := json.Unmarshal([]byte(`{"day":"10/01/2025"}`), &payload); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestEnumDecodingRejectsUnknownValues(t *testing.T) {
	var body struct {
		Status LeaveStatus `json:"status"`
	}
	if err := json.Unmarshal([]byte(`{"status":"approved"}`), &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.Status != LeaveStatusApproved {
		t.Errorf("status = %q", body.Status)
	}
	if err := json.Unmarshal([]byte(`{"status":"maybe"}`), &body); err == nil {
		t.Error("expected error for unknown leave status")
	}

	var m struct {
		Priority Priority `json:"priority"`
	}
	if err := json.Unmarshal([]byte(`{"priority":"urgent"}`), &m); err == nil {
		t.Error("urgent is a notice priority, not a maintenance priority")
	}
}

func TestStudentStatusSettable(t *testing.T) {
	if StudentStatusPending.Settable() {
		t.Error("pending must not be settable by admins")
	}
	for _, s := range []StudentStatus{StudentStatusActive, StudentStatusInactive, StudentStatusGraduated} {
		if !s.Settable() {
			t.Errorf("%s should be settable", s)
		}
	}
}

func TestRoomOccupancy(t *testing.T) {
	occ := NewRoomOccupancy(Room{RoomNumber: "A1", Capacity: 2, AvailabilityStatus: RoomAvailable}, 1)
	if occ.AvailableBeds != 1 || occ.Full() || !occ.Assignable() {
		t.Errorf("unexpected occupancy %+v", occ)
	}
	occ = NewRoomOccupancy(Room{RoomNumber: "A1", Capacity: 2, AvailabilityStatus: RoomAvailable}, 2)
	if !occ.Full() || occ.Assignable() {
		t.Errorf("full room reported assignable")
	}
	occ = NewRoomOccupancy(Room{RoomNumber: "A2", Capacity: 2, AvailabilityStatus: RoomMaintenance}, 0)
	if occ.Assignable() {
		t.Errorf("room under maintenance reported assignable")
	}
}
