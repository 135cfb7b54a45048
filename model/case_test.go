package model

import "testing"

func TestParseCaseStatus(t *testing.T) {
	tests := []struct {
		in          string
		want        CaseStatus
		expectError bool
	}{
		{"", StatusBidding, false},
		{"招標中", StatusBidding, false},
		{"執行中", StatusInProgress, false},
		{"已結案", StatusClosed, false},
		{"done", "", true},
	}

	for _, tt := range tests {
		got, err := ParseCaseStatus(tt.in)
		if tt.expectError {
			if err == nil {
				t.Errorf("ParseCaseStatus(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCaseStatus(%q): unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseCaseStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewCase(t *testing.T) {
	c, err := NewCase("Road Repair", 7000)
	if err != nil {
		t.Fatalf("Failed to create case: %v", err)
	}
	if c.Status != StatusBidding {
		t.Errorf("Expected status %s, got %s", StatusBidding, c.Status)
	}
	if c.Costs != nil {
		t.Error("Expected no cost breakdown on a new case")
	}

	if _, err := NewCase(Unassigned, 0); err == nil {
		t.Error("Expected error when naming a case after the unassigned sentinel")
	}
	if _, err := NewCase("", 0); err == nil {
		t.Error("Expected error for empty case name")
	}
}

func TestCaseSetCosts(t *testing.T) {
	c, err := NewCase("Bridge", 0)
	if err != nil {
		t.Fatalf("Failed to create case: %v", err)
	}
	c.AwardedTotal = 1

	c.SetCosts(CostBreakdown{Construction: 8000, PollutionControl: 500, Management: 1000, Misc: 500})

	// 決標金額は内訳の合計で置き換えられること
	if c.AwardedTotal != 10000 {
		t.Errorf("Expected awarded total 10000, got %d", c.AwardedTotal)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Unexpected validation error: %v", err)
	}

	// 内訳と合計が一致しない場合はエラー
	c.AwardedTotal = 9999
	if err := c.Validate(); err == nil {
		t.Error("Expected error when awarded total diverges from cost breakdown")
	}
}
