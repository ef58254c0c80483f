package engine

import "fmt"

// preferredOffPeakHour is the fixed move target per activity. Ids without
// an entry default to midday.
var preferredOffPeakHour = map[string]int{
	"ev-charging": 22, // overnight
	"laundry":     10, // mid-morning
	"dryer":       10,
	"dishwasher":  14, // early afternoon
}

const defaultOffPeakHour = 12

// Suggestions proposes one move per scheduled activity that occupies a
// peak hour. The savings estimate compares the whole run priced at the
// peak multiplier against the whole run priced off-peak; it deliberately
// does not re-price against the actual target hour, so it is an upper
// bound rather than an exact delta.
func Suggestions(snapshot []ScheduledActivity, catalog *Catalog, tariff *Tariff) []Suggestion {
	suggestions := []Suggestion{}
	for _, sa := range snapshot {
		activity, ok := catalog.Get(sa.ActivityID)
		if !ok {
			continue
		}
		if !occupiesPeak(sa, catalog, tariff) {
			continue
		}

		target, ok := preferredOffPeakHour[sa.ActivityID]
		if !ok {
			target = defaultOffPeakHour
		}

		runKWh := activity.PowerDrawKw * float64(activity.DurationHours)
		peakCost := runKWh * BaseRate * PeakMultiplier
		offPeakCost := runKWh * BaseRate
		savings := round2(peakCost - offPeakCost)

		suggestions = append(suggestions, Suggestion{
			ID:              fmt.Sprintf("%s-%d", sa.ActivityID, sa.StartHour),
			ActivityID:      sa.ActivityID,
			Message:         fmt.Sprintf("Move %s to %d:00", activity.Name, target),
			FromHour:        sa.StartHour,
			ToHour:          target,
			SavingsEstimate: savings,
		})
	}
	return suggestions
}
