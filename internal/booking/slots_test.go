package booking

import "testing"

func TestClockToMinutes(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"18:00:00", 1080, false}, // MySQL TIME scan format
		{" 10:15 ", 615, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"noon", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ClockToMinutes(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ClockToMinutes(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ClockToMinutes(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     string
		want                           bool
	}{
		{"disjoint", "08:00", "09:00", "10:00", "11:00", false},
		{"touching ends do not overlap", "08:00", "09:00", "09:00", "10:00", false},
		{"partial overlap", "08:00", "09:30", "09:00", "10:00", true},
		{"contained", "08:00", "12:00", "09:00", "10:00", true},
		{"identical", "08:00", "09:00", "08:00", "09:00", true},
		{"malformed input counts as overlap", "08:00", "09:00", "bogus", "10:00", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFreeSlots(t *testing.T) {
	taken := []Interval{
		{Start: "10:00", End: "11:00"},
		{Start: "13:30", End: "15:00"},
	}
	got, err := FreeSlots("09:00", "17:00", 60, taken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Interval{
		{Start: "09:00", End: "10:00"},
		{Start: "11:00", End: "12:00"},
		{Start: "12:00", End: "13:00"},
		// 13:00-14:00 and 14:00-15:00 intersect the 13:30-15:00 block
		{Start: "15:00", End: "16:00"},
		{Start: "16:00", End: "17:00"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d slots %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("slot[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFreeSlotsNoRoom(t *testing.T) {
	// A slot whose end would pass closing time is never offered.
	got, err := FreeSlots("09:00", "09:30", 60, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want no slots", got)
	}
}

func TestPriceCents(t *testing.T) {
	tests := []struct {
		name       string
		rate       uint32
		start, end string
		want       uint32
		wantErr    bool
	}{
		{"one hour", 10000, "18:00", "19:00", 10000, false},
		{"two hours", 10000, "18:00", "20:00", 20000, false},
		{"half hour pro rata", 10000, "18:00", "18:30", 5000, false},
		{"ninety minutes", 8000, "07:00", "08:30", 12000, false},
		{"zero length", 10000, "18:00", "18:00", 0, true},
		{"inverted", 10000, "19:00", "18:00", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PriceCents(tt.rate, tt.start, tt.end)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("PriceCents = %d, want %d", got, tt.want)
			}
		})
	}
}
