package engine

import "math"

// Scoring is pure: every function here maps a schedule snapshot plus the
// two catalogs to a value, with no state and no side effects. Activities
// whose id is missing from the catalog are skipped rather than treated as
// errors; a stale reference degrades gracefully.

// Cost returns the day's total electricity cost. Each occupied hour is
// priced at powerDrawKw * BaseRate * that hour's multiplier, with hours
// wrapping modulo 24 past midnight. Rounded half-up to 2 decimals.
func Cost(snapshot []ScheduledActivity, catalog *Catalog, tariff *Tariff) float64 {
	total := 0.0
	for _, sa := range snapshot {
		activity, ok := catalog.Get(sa.ActivityID)
		if !ok {
			continue
		}
		for h := 0; h < activity.DurationHours; h++ {
			hour := wrapHour(sa.StartHour + h)
			total += activity.PowerDrawKw * BaseRate * tariff.Multiplier(hour)
		}
	}
	return round2(total)
}

// GridStress returns the worst single hour's weighted demand, normalised
// to [0, 100] against DangerousLoadKw. Peak hours count double, so a short
// high-draw activity at 18:00 registers even when the daily total is low.
func GridStress(snapshot []ScheduledActivity, catalog *Catalog, tariff *Tariff) int {
	var loads [HoursPerDay]float64
	for _, sa := range snapshot {
		activity, ok := catalog.Get(sa.ActivityID)
		if !ok {
			continue
		}
		for h := 0; h < activity.DurationHours; h++ {
			hour := wrapHour(sa.StartHour + h)
			weight := 1.0
			if tariff.IsPeak(hour) {
				weight = 2.0
			}
			loads[hour] += activity.PowerDrawKw * weight
		}
	}

	maxLoad := 0.0
	for _, load := range loads {
		if load > maxLoad {
			maxLoad = load
		}
	}

	stress := int(math.Round(maxLoad / DangerousLoadKw * 100))
	if stress > 100 {
		stress = 100
	}
	return stress
}

// Comfort returns 100 minus fixed per-activity penalties, floored at 0.
// Penalties test the raw start hour, not the wrapped occupancy.
func Comfort(snapshot []ScheduledActivity, catalog *Catalog) int {
	discomfort := 0
	for _, sa := range snapshot {
		if _, ok := catalog.Get(sa.ActivityID); !ok {
			continue
		}
		switch sa.ActivityID {
		case "ev-charging":
			// Charging belongs overnight.
			if sa.StartHour >= 6 && sa.StartHour <= 22 {
				discomfort += 10
			}
		case "laundry", "dryer":
			// Very early or very late laundry is a nuisance.
			if sa.StartHour < 7 || sa.StartHour > 21 {
				discomfort += 15
			}
		case "heating":
			// Midday heating is wasted.
			if sa.StartHour >= 10 && sa.StartHour <= 17 {
				discomfort += 20
			}
		case "gaming":
			// Gaming before 17:00 - still meant to be working.
			if sa.StartHour < 17 {
				discomfort += 15
			}
		}
	}

	comfort := 100 - discomfort
	if comfort < 0 {
		comfort = 0
	}
	if comfort > 100 {
		comfort = 100
	}
	return comfort
}

// SurgeActive reports whether any scheduled activity occupies at least one
// peak hour (modulo 24).
func SurgeActive(snapshot []ScheduledActivity, catalog *Catalog, tariff *Tariff) bool {
	for _, sa := range snapshot {
		if occupiesPeak(sa, catalog, tariff) {
			return true
		}
	}
	return false
}

// PeakHoursUsed counts occupied peak hour-units across all activities.
// Two activities overlapping the same peak hour count twice.
func PeakHoursUsed(snapshot []ScheduledActivity, catalog *Catalog, tariff *Tariff) int {
	count := 0
	for _, sa := range snapshot {
		activity, ok := catalog.Get(sa.ActivityID)
		if !ok {
			continue
		}
		for h := 0; h < activity.DurationHours; h++ {
			if tariff.IsPeak(sa.StartHour + h) {
				count++
			}
		}
	}
	return count
}

// ComputeMetrics bundles the derived state the presentation layer re-renders
// after every mutation.
func ComputeMetrics(snapshot []ScheduledActivity, catalog *Catalog, tariff *Tariff) Metrics {
	return Metrics{
		TotalCost:     Cost(snapshot, catalog, tariff),
		GridStress:    GridStress(snapshot, catalog, tariff),
		Comfort:       Comfort(snapshot, catalog),
		IsSurgeActive: SurgeActive(snapshot, catalog, tariff),
	}
}

// occupiesPeak reports whether a placement covers any peak hour.
func occupiesPeak(sa ScheduledActivity, catalog *Catalog, tariff *Tariff) bool {
	activity, ok := catalog.Get(sa.ActivityID)
	if !ok {
		return false
	}
	for h := 0; h < activity.DurationHours; h++ {
		if tariff.IsPeak(sa.StartHour + h) {
			return true
		}
	}
	return false
}

// round2 rounds half-up to two decimal places.
func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
