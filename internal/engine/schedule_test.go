package engine

import (
	"reflect"
	"testing"
)

func newTestSchedule(t *testing.T) *Schedule {
	t.Helper()
	return NewSchedule(DefaultCatalog())
}

func TestScheduleAdd(t *testing.T) {
	tests := []struct {
		name       string
		activityID string
		startHour  int
		wantAdded  bool
	}{
		{"valid placement", "ev-charging", 17, true},
		{"wraparound placement allowed", "ev-charging", 22, true},
		{"unknown activity is a no-op", "sauna", 10, false},
		{"hour below range", "laundry", -1, false},
		{"hour above range", "laundry", 24, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSchedule(t)
			if got := s.Add(tt.activityID, tt.startHour); got != tt.wantAdded {
				t.Errorf("Add() = %v, want %v", got, tt.wantAdded)
			}
			if got := s.Contains(tt.activityID); got != tt.wantAdded {
				t.Errorf("Contains() = %v, want %v", got, tt.wantAdded)
			}
		})
	}
}

func TestScheduleDuplicateAddKeepsOriginal(t *testing.T) {
	s := newTestSchedule(t)

	if !s.Add("ev-charging", 9) {
		t.Fatal("first Add failed")
	}
	if s.Add("ev-charging", 17) {
		t.Error("second Add of same activity should be a no-op")
	}

	snapshot := s.Snapshot()
	if len(snapshot) != 1 {
		t.Fatalf("got %d entries, want 1", len(snapshot))
	}
	if snapshot[0].StartHour != 9 {
		t.Errorf("start hour = %d, want original 9", snapshot[0].StartHour)
	}
}

func TestScheduleMove(t *testing.T) {
	s := newTestSchedule(t)
	s.Add("laundry", 18)

	if !s.Move("laundry", 10) {
		t.Error("Move of scheduled activity failed")
	}
	if got := s.Snapshot()[0].StartHour; got != 10 {
		t.Errorf("start hour after move = %d, want 10", got)
	}

	if s.Move("cooking", 12) {
		t.Error("Move of unscheduled activity should be a no-op")
	}
	if s.Move("laundry", 24) {
		t.Error("Move to out-of-range hour should be a no-op")
	}
	if got := s.Snapshot()[0].StartHour; got != 10 {
		t.Errorf("start hour after rejected move = %d, want 10", got)
	}
}

func TestScheduleRemoveAndClear(t *testing.T) {
	s := newTestSchedule(t)
	s.Add("ev-charging", 22)
	s.Add("laundry", 10)

	s.Remove("ev-charging")
	if s.Contains("ev-charging") {
		t.Error("ev-charging still present after Remove")
	}
	// Removing an absent id is harmless.
	s.Remove("ev-charging")

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", s.Len())
	}
}

func TestScheduleSnapshotSorted(t *testing.T) {
	s := newTestSchedule(t)
	s.Add("laundry", 10)
	s.Add("cooking", 8)
	s.Add("ev-charging", 22)

	want := []ScheduledActivity{
		{ActivityID: "cooking", StartHour: 8},
		{ActivityID: "ev-charging", StartHour: 22},
		{ActivityID: "laundry", StartHour: 10},
	}
	if got := s.Snapshot(); !reflect.DeepEqual(got, want) {
		t.Errorf("Snapshot() = %v, want %v", got, want)
	}
}

func TestScheduleRestore(t *testing.T) {
	s := newTestSchedule(t)
	s.Add("gaming", 20)

	s.Restore([]ScheduledActivity{
		{ActivityID: "ev-charging", StartHour: 22},
		{ActivityID: "sauna", StartHour: 10},   // unknown, dropped
		{ActivityID: "laundry", StartHour: 30}, // out of range, dropped
	})

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	if !s.Contains("ev-charging") {
		t.Error("restored entry missing")
	}
	if s.Contains("gaming") {
		t.Error("pre-restore entry survived")
	}
}
