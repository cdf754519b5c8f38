package engine

import "testing"

func TestStars(t *testing.T) {
	tests := []struct {
		correct, total, want int
	}{
		{10, 10, 3},
		{9, 10, 2},
		{8, 10, 2},
		{7, 10, 2},
		{6, 10, 1},
		{0, 10, 1},
		{10, 12, 1},
	}
	for _, tt := range tests {
		if got := Stars(tt.correct, tt.total); got != tt.want {
			t.Errorf("Stars(%d,%d) = %d, want %d", tt.correct, tt.total, got, tt.want)
		}
	}
}

func TestXP(t *testing.T) {
	tests := []struct {
		correct, total, want int
	}{
		{10, 10, 80},
		{9, 10, 55},
		{8, 10, 50},
		{7, 10, 35},
		{5, 10, 25},
		{0, 10, 0},
		{10, 12, 60},
		{-3, 10, 0},
	}
	for _, tt := range tests {
		if got := XP(tt.correct, tt.total); got != tt.want {
			t.Errorf("XP(%d,%d) = %d, want %d", tt.correct, tt.total, got, tt.want)
		}
	}
}

func TestRecordCompletionIsMonotonic(t *testing.T) {
	p := NewProgress()

	if !p.RecordCompletion("u1", 8, 2) {
		t.Fatalf("first completion must change progress")
	}
	if p.RecordCompletion("u1", 5, 1) {
		t.Fatalf("lower result must not change progress")
	}
	score, stars := p.Best("u1")
	if score != 8 || stars != 2 {
		t.Fatalf("best = (%d,%d), want (8,2)", score, stars)
	}

	if !p.RecordCompletion("u1", 10, 3) {
		t.Fatalf("higher result must change progress")
	}
	score, stars = p.Best("u1")
	if score != 10 || stars != 3 {
		t.Fatalf("best = (%d,%d), want (10,3)", score, stars)
	}
}

func TestBestOfUnknownUnitIsZero(t *testing.T) {
	var p *Progress
	if s, st := p.Best("missing"); s != 0 || st != 0 {
		t.Fatalf("nil progress best = (%d,%d)", s, st)
	}
}
