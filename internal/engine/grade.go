package engine

// Day grading maps the final metrics onto a 1.0-10.0 report grade through
// four ordered tiers; the first tier whose conditions hold wins. Within a
// tier the grade interpolates on how far comfort and stress sit inside the
// tier's ranges, weighted half each.

const (
	impactLow  = "If everyone planned like you, peak demand would drop by 30%!"
	impactMid  = "Your choices help, but the grid still felt some strain."
	impactHigh = "High peak usage contributed to neighborhood grid stress."
)

// GradeDay grades a completed day from its final comfort, cost, and
// maximum grid stress.
func GradeDay(comfort int, totalCost float64, stressMax int) GradeResult {
	var grade float64
	var label, color string

	switch {
	case comfort >= 80 && totalCost < 20 && stressMax < 50:
		grade = 8.5 + tierProgress(comfort, 80, 100, stressMax, 50, 0)*1.5
		label = "Excellent"
		color = "hsl(142, 76%, 46%)"
	case comfort >= 60 && totalCost < 35 && stressMax < 70:
		grade = 7.0 + tierProgress(comfort, 60, 80, stressMax, 70, 50)*1.4
		label = "Good job"
		color = "hsl(199, 89%, 48%)"
	case comfort >= 40 && stressMax < 85:
		grade = 5.5 + tierProgress(comfort, 40, 60, stressMax, 85, 70)*1.4
		label = "Sufficient"
		color = "hsl(38, 92%, 50%)"
	default:
		grade = 1.0 + tierProgress(comfort, 0, 40, stressMax, 100, 85)*4.4
		label = "Insufficient"
		color = "hsl(0, 72%, 51%)"
	}

	if grade > 10.0 {
		grade = 10.0
	}
	if grade < 1.0 {
		grade = 1.0
	}

	return GradeResult{Grade: grade, Label: label, Color: color}
}

// tierProgress blends comfort progress (higher is better) and stress
// progress (lower is better) inside a tier's ranges, each clamped to
// [0, 1] and weighted 50/50.
func tierProgress(comfort, minComfort, maxComfort, stress, maxStress, minStress int) float64 {
	comfortProgress := clamp01(float64(comfort-minComfort) / float64(maxComfort-minComfort))
	stressProgress := clamp01(float64(maxStress-stress) / float64(maxStress-minStress))
	return comfortProgress*0.5 + stressProgress*0.5
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// EndDay builds the one-shot summary shown when the player ends the day.
func EndDay(snapshot []ScheduledActivity, catalog *Catalog, tariff *Tariff) DaySummary {
	metrics := ComputeMetrics(snapshot, catalog, tariff)

	var impact string
	switch {
	case metrics.GridStress < 40:
		impact = impactLow
	case metrics.GridStress < 70:
		impact = impactMid
	default:
		impact = impactHigh
	}

	return DaySummary{
		TotalCost:          metrics.TotalCost,
		PeakHoursUsed:      PeakHoursUsed(snapshot, catalog, tariff),
		GridStressMax:      metrics.GridStress,
		ComfortScore:       metrics.Comfort,
		NeighborhoodImpact: impact,
		Result:             GradeDay(metrics.Comfort, metrics.TotalCost, metrics.GridStress),
	}
}
