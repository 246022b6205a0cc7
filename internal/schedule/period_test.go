package schedule

import (
	"errors"
	"testing"
)

func TestGrid_PeriodsSortedWithBreak(t *testing.T) {
	g := NewGrid(
		Period{ID: 1, Label: "07:00 - 07:45"},
		Period{ID: 4, Label: "09:15 - 10:00"},
		Period{ID: 2},
		Period{ID: 3},
	)

	if err := g.Add(5, "10:15 - 11:00"); err != nil {
		t.Fatalf("Add(5) failed: %v", err)
	}
	if err := g.Add(4.5, "ISTIRAHAT"); err != nil {
		t.Fatalf("Add(4.5) failed: %v", err)
	}

	want := []float64{1, 2, 3, 4, 4.5, 5}
	got := g.Periods()
	if len(got) != len(want) {
		t.Fatalf("expected %d periods, got %d", len(want), len(got))
	}
	for i, p := range got {
		if p.ID != want[i] {
			t.Errorf("period[%d] = %s, want %s", i, FormatPeriodID(p.ID), FormatPeriodID(want[i]))
		}
	}

	brk, ok := g.Get(4.5)
	if !ok {
		t.Fatal("expected 4.5 to exist")
	}
	if !brk.Break {
		t.Error("expected 4.5 to be a break row")
	}
	if brk.Label != "ISTIRAHAT" {
		t.Errorf("expected label ISTIRAHAT, got %q", brk.Label)
	}
}

func TestGrid_AddFractionalDefaultsLabel(t *testing.T) {
	g := NewGrid()
	if err := g.Add(0.5, ""); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	p, _ := g.Get(0.5)
	if p.Label != BreakLabel {
		t.Errorf("expected default label %q, got %q", BreakLabel, p.Label)
	}
	if !p.Break {
		t.Error("expected fractional period to be a break")
	}
}

func TestGrid_AddIntegerIsTeaching(t *testing.T) {
	g := NewGrid()
	if err := g.Add(3, ""); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	p, _ := g.Get(3)
	if p.Break {
		t.Error("expected integer period to be a teaching row")
	}
	if p.Label != "" {
		t.Errorf("expected empty label, got %q", p.Label)
	}
}

func TestGrid_AddDuplicate(t *testing.T) {
	g := NewGrid(Period{ID: 1, Label: "first"})

	err := g.Add(1, "second")
	if !errors.Is(err, ErrPeriodExists) {
		t.Fatalf("expected ErrPeriodExists, got %v", err)
	}

	p, _ := g.Get(1)
	if p.Label != "first" {
		t.Errorf("duplicate add must not change label, got %q", p.Label)
	}
	if g.Len() != 1 {
		t.Errorf("expected 1 period, got %d", g.Len())
	}
}

func TestGrid_RemoveAndRelabel(t *testing.T) {
	g := NewGrid(Period{ID: 1}, Period{ID: 2})

	if err := g.Remove(1); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if g.Has(1) {
		t.Error("expected period 1 to be removed")
	}
	if err := g.Remove(1); !errors.Is(err, ErrPeriodNotFound) {
		t.Errorf("expected ErrPeriodNotFound on second remove, got %v", err)
	}

	if err := g.Relabel(2, "07:45 - 08:30"); err != nil {
		t.Fatalf("Relabel failed: %v", err)
	}
	p, _ := g.Get(2)
	if p.Label != "07:45 - 08:30" {
		t.Errorf("expected new label, got %q", p.Label)
	}

	if err := g.Relabel(9, "x"); !errors.Is(err, ErrPeriodNotFound) {
		t.Errorf("expected ErrPeriodNotFound, got %v", err)
	}
	if g.Has(9) {
		t.Error("relabel of a missing period must not create it")
	}
}

func TestGrid_TeachingPeriods(t *testing.T) {
	g := NewGrid(
		Period{ID: 0, Label: "Literasi", Break: true},
		Period{ID: 1},
		Period{ID: 4.5, Break: true},
		Period{ID: 5},
	)

	got := g.TeachingPeriods()
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 5 {
		t.Errorf("unexpected teaching periods: %+v", got)
	}
	if g.Len() != 4 {
		t.Errorf("TeachingPeriods must not modify the grid, len = %d", g.Len())
	}
}

func TestGrid_CloneIsIndependent(t *testing.T) {
	g := NewGrid(Period{ID: 1, Label: "a"})
	c := g.Clone()
	_ = c.Relabel(1, "b")
	_ = c.Add(2, "")

	p, _ := g.Get(1)
	if p.Label != "a" {
		t.Errorf("clone relabel leaked into original: %q", p.Label)
	}
	if g.Has(2) {
		t.Error("clone add leaked into original")
	}
}

func TestParsePeriodID(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"4", 4, false},
		{" 4.5 ", 4.5, false},
		{"0", 0, false},
		{"abc", 0, true},
		{"NaN", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePeriodID(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPeriod) {
					t.Errorf("expected ErrInvalidPeriod, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParsePeriodID(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatPeriodID(t *testing.T) {
	if got := FormatPeriodID(4); got != "4" {
		t.Errorf("FormatPeriodID(4) = %q", got)
	}
	if got := FormatPeriodID(4.5); got != "4.5" {
		t.Errorf("FormatPeriodID(4.5) = %q", got)
	}
}
