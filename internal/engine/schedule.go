package engine

import "sort"

// Schedule is the mutable set of placed activities, keyed by activity id.
// At most one placement per activity exists at a time. Placements may wrap
// past midnight; occupancy is always computed modulo 24.
//
// A Schedule is not safe for concurrent use; callers serialise access.
type Schedule struct {
	catalog *Catalog
	entries map[string]int // activity id -> start hour
}

// NewSchedule creates an empty schedule validated against the given catalog.
func NewSchedule(catalog *Catalog) *Schedule {
	return &Schedule{
		catalog: catalog,
		entries: make(map[string]int),
	}
}

// Add places an activity at startHour. It is a silent no-op when the
// activity is already scheduled, unknown to the catalog, or the hour is
// outside [0, 23]. Reports whether the schedule changed.
func (s *Schedule) Add(activityID string, startHour int) bool {
	if startHour < 0 || startHour >= HoursPerDay {
		return false
	}
	if _, ok := s.catalog.Get(activityID); !ok {
		return false
	}
	if _, scheduled := s.entries[activityID]; scheduled {
		return false
	}
	s.entries[activityID] = startHour
	return true
}

// Move changes the start hour of an already scheduled activity. No-op when
// the activity is not scheduled or the hour is out of range.
func (s *Schedule) Move(activityID string, newStartHour int) bool {
	if newStartHour < 0 || newStartHour >= HoursPerDay {
		return false
	}
	if _, scheduled := s.entries[activityID]; !scheduled {
		return false
	}
	s.entries[activityID] = newStartHour
	return true
}

// Remove deletes an activity's placement. No-op when absent.
func (s *Schedule) Remove(activityID string) {
	delete(s.entries, activityID)
}

// Clear empties the schedule. Used by the restart-day action.
func (s *Schedule) Clear() {
	s.entries = make(map[string]int)
}

// Contains reports whether an activity is currently scheduled.
func (s *Schedule) Contains(activityID string) bool {
	_, ok := s.entries[activityID]
	return ok
}

// Len reports the number of scheduled activities.
func (s *Schedule) Len() int {
	return len(s.entries)
}

// Snapshot returns the placements sorted by activity id. Scoring functions
// operate on snapshots so they stay pure over a stable input.
func (s *Schedule) Snapshot() []ScheduledActivity {
	out := make([]ScheduledActivity, 0, len(s.entries))
	for id, hour := range s.entries {
		out = append(out, ScheduledActivity{ActivityID: id, StartHour: hour})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ActivityID < out[j].ActivityID
	})
	return out
}

// Restore replaces the schedule contents with a previously saved snapshot,
// applying the same validation as Add. Unknown ids and out-of-range hours
// are skipped.
func (s *Schedule) Restore(snapshot []ScheduledActivity) {
	s.Clear()
	for _, sa := range snapshot {
		s.Add(sa.ActivityID, sa.StartHour)
	}
}
