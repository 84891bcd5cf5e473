package models

import "testing"

func TestInstallment_IsCharge(t *testing.T) {
	tests := []struct {
		name string
		inst Installment
		want bool
	}{
		{"regular", Installment{PrincipalAmount: 800, InterestAmount: 200, TotalAmount: 1000}, false},
		{"charge", Installment{PrincipalAmount: 150, InterestAmount: 0, TotalAmount: 150}, true},
		{"near zero interest", Installment{PrincipalAmount: 150, InterestAmount: 0.004, TotalAmount: 150.004}, true},
		{"zero interest but short principal", Installment{PrincipalAmount: 100, InterestAmount: 0, TotalAmount: 150}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.inst.IsCharge(); got != tt.want {
				t.Errorf("IsCharge() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDateKey(t *testing.T) {
	tests := map[string]string{
		"2024-03-15":                "2024-03-15",
		"2024-03-15T00:00:00Z":      "2024-03-15",
		"2024-03-15 10:22:00+00:00": "2024-03-15",
		"":                          "",
	}
	for in, want := range tests {
		if got := DateKey(in); got != want {
			t.Errorf("DateKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPriority_Rank(t *testing.T) {
	if !(PriorityHigh.Rank() > PriorityMedium.Rank() && PriorityMedium.Rank() > PriorityLow.Rank()) {
		t.Error("priority ranks out of order")
	}
}

func TestFrequency_Valid(t *testing.T) {
	if !FrequencyBiweekly.Valid() {
		t.Error("biweekly should be valid")
	}
	if Frequency("fortnightly").Valid() {
		t.Error("fortnightly should not be valid")
	}
}
