package booking

import "testing"

func TestComputeModificationFee(t *testing.T) {
	tests := []struct {
		name       string
		origDate   string
		origStart  string
		amount     uint32
		newDate    string
		newTime    string
		wantFee    uint32
		wantTotal  uint32
	}{
		{"same day different time is free", "2026-09-10", "18:00", 12000, "2026-09-10", "20:00", 0, 12000},
		{"date change pays flat fee", "2026-09-10", "18:00", 12000, "2026-09-11", "18:00", DateChangeFeeCents, 12000 + DateChangeFeeCents},
		{"date change far ahead pays same fee", "2026-09-10", "18:00", 8000, "2026-12-24", "09:00", DateChangeFeeCents, 8000 + DateChangeFeeCents},
		{"date change with new time pays flat fee", "2026-09-10", "18:00", 8000, "2026-09-12", "07:00", DateChangeFeeCents, 8000 + DateChangeFeeCents},
		{"no-op change is free", "2026-09-10", "18:00", 12000, "2026-09-10", "18:00", 0, 12000},
		{"past date still pays only the flat fee", "2026-09-10", "18:00", 6000, "2020-01-01", "18:00", DateChangeFeeCents, 6000 + DateChangeFeeCents},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ComputeModificationFee(tt.origDate, tt.origStart, tt.amount, tt.newDate, tt.newTime)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if q.FeeCents != tt.wantFee {
				t.Errorf("fee = %d, want %d", q.FeeCents, tt.wantFee)
			}
			if q.OriginalAmountCents != tt.amount {
				t.Errorf("original = %d, want %d", q.OriginalAmountCents, tt.amount)
			}
			if q.NewTotalCents != tt.wantTotal {
				t.Errorf("total = %d, want %d", q.NewTotalCents, tt.wantTotal)
			}
		})
	}
}

func TestComputeModificationFeeInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		newDate string
		newTime string
		want    error
	}{
		{"garbage date", "next tuesday", "18:00", ErrInvalidDate},
		{"empty date", "", "18:00", ErrInvalidDate},
		{"garbage time", "2026-09-10", "evening", ErrInvalidTime},
		{"hour out of range", "2026-09-10", "25:00", ErrInvalidTime},
		{"empty time", "2026-09-10", "", ErrInvalidTime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeModificationFee("2026-09-10", "18:00", 1000, tt.newDate, tt.newTime)
			if err != tt.want {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
