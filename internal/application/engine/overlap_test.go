package engine

import (
	"planner/internal/application/entity"
	"testing"
)

func rng(date, start, end string) TimeRange {
	return TimeRange{Start: ParseInstant(date, start), End: ParseInstant(date, end)}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b TimeRange
		want bool
	}{
		{"interior", rng("2024-01-15", "10:00", "11:00"), rng("2024-01-15", "10:30", "12:00"), true},
		{"identical", rng("2024-01-15", "10:00", "11:00"), rng("2024-01-15", "10:00", "11:00"), true},
		{"contained", rng("2024-01-15", "09:00", "12:00"), rng("2024-01-15", "10:00", "11:00"), true},
		{"touching", rng("2024-01-15", "10:00", "11:00"), rng("2024-01-15", "11:00", "12:00"), false},
		{"disjoint", rng("2024-01-15", "10:00", "11:00"), rng("2024-01-15", "12:00", "13:00"), false},
		{"other day", rng("2024-01-15", "10:00", "11:00"), rng("2024-01-16", "10:00", "11:00"), false},
		{"invalid start", rng("2024-01-15", "25:00", "11:00"), rng("2024-01-15", "10:00", "11:00"), false},
		{"invalid date", rng("2024-13-45", "10:00", "11:00"), rng("2024-01-15", "10:00", "11:00"), false},
		{"both invalid", rng("", "10:00", "11:00"), rng("", "10:00", "11:00"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a, tt.b); got != tt.want {
				t.Fatalf("Overlaps(a, b) = %v, want %v", got, tt.want)
			}
			if got := Overlaps(tt.b, tt.a); got != tt.want {
				t.Fatalf("Overlaps(b, a) = %v, want %v", got, tt.want)
			}
		})
	}
}

func meeting(id, title, start, end string) entity.Event {
	return entity.Event{ID: id, Title: title, Date: "2024-03-15", StartTime: start, EndTime: end}
}

func ids(events []entity.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

func equalIDs(got []entity.Event, want ...string) bool {
	g := ids(got)
	if len(g) != len(want) {
		return false
	}
	for i := range g {
		if g[i] != want[i] {
			return false
		}
	}
	return true
}

func TestFindConflicts(t *testing.T) {
	existing := []entity.Event{
		meeting("1", "미팅 A", "10:00", "11:00"),
		meeting("2", "미팅 B", "11:30", "12:30"),
		meeting("3", "미팅 C", "14:00", "15:00"),
	}

	t.Run("conflicts with A and B", func(t *testing.T) {
		draft := entity.EventDraft{Title: "새 미팅", Date: "2024-03-15", StartTime: "10:30", EndTime: "12:00"}
		got := FindConflicts(draft, existing)
		if !equalIDs(got, "1", "2") {
			t.Fatalf("FindConflicts = %v, want [1 2]", ids(got))
		}
	})

	t.Run("no conflicts", func(t *testing.T) {
		draft := entity.EventDraft{Title: "오후 미팅", Date: "2024-03-15", StartTime: "15:00", EndTime: "16:00"}
		got := FindConflicts(draft, existing)
		if got == nil || len(got) != 0 {
			t.Fatalf("FindConflicts = %v, want empty non-nil slice", got)
		}
	})

	t.Run("editing self is excluded", func(t *testing.T) {
		draft := meeting("1", "미팅 A", "10:00", "11:30").Draft()
		got := FindConflicts(draft, existing)
		for _, e := range got {
			if e.ID == "1" {
				t.Fatal("draft must not conflict with itself")
			}
		}
		if !equalIDs(got) {
			t.Fatalf("FindConflicts = %v, want empty", ids(got))
		}
	})

	t.Run("invalid draft time", func(t *testing.T) {
		draft := entity.EventDraft{Date: "2024-03-15", StartTime: "25:00", EndTime: "12:00"}
		if got := FindConflicts(draft, existing); len(got) != 0 {
			t.Fatalf("FindConflicts = %v, want empty", ids(got))
		}
	})

	t.Run("empty collection", func(t *testing.T) {
		draft := entity.EventDraft{Date: "2024-03-15", StartTime: "10:00", EndTime: "11:00"}
		got := FindConflicts(draft, nil)
		if got == nil || len(got) != 0 {
			t.Fatalf("FindConflicts(nil) = %v", got)
		}
	})

	t.Run("input is not mutated", func(t *testing.T) {
		before := ids(existing)
		_ = FindConflicts(entity.EventDraft{Date: "2024-03-15", StartTime: "09:00", EndTime: "18:00"}, existing)
		if !equalIDs(existing, before...) {
			t.Fatal("existing collection changed")
		}
	})
}
