package engine

// Room groups activities by where they happen in the house.
// Presentation-only; scoring never looks at it.
type Room string

const (
	RoomGarage  Room = "garage"
	RoomLaundry Room = "laundry"
	RoomKitchen Room = "kitchen"
	RoomLiving  Room = "living"
	RoomBedroom Room = "bedroom"
)

const (
	// HoursPerDay is the length of the simulated day.
	HoursPerDay = 24

	// BaseRate is the off-peak electricity price in currency units per kWh.
	BaseRate = 0.15

	// DangerousLoadKw is the single-hour load treated as 100% grid stress.
	DangerousLoadKw = 15.0

	// PeakStartHour..PeakEndHour (inclusive) carry the surge multiplier.
	PeakStartHour = 17
	PeakEndHour   = 20

	// RushStartHour..RushEndHour (inclusive) is the morning demand bump.
	RushStartHour = 7
	RushEndHour   = 9

	// PeakMultiplier and RushMultiplier scale BaseRate during those windows.
	PeakMultiplier = 4.0
	RushMultiplier = 2.0
)

// Activity is an immutable catalog entry describing a schedulable
// household activity.
type Activity struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	DurationHours int     `json:"duration_hours"`
	PowerDrawKw   float64 `json:"power_draw_kw"`
	Room          Room    `json:"room"`
	Icon          string  `json:"icon"` // symbolic key, mapped to an asset by the UI
}

// TimeSlot is one hour of the day's tariff.
type TimeSlot struct {
	Hour       int     `json:"hour"`
	Label      string  `json:"label"`
	IsPeak     bool    `json:"is_peak"`
	Multiplier float64 `json:"multiplier"`
}

// ScheduledActivity is a catalog activity placed on the timeline.
// Occupied hours may wrap past midnight via modulo-24 arithmetic.
type ScheduledActivity struct {
	ActivityID string `json:"activity_id"`
	StartHour  int    `json:"start_hour"`
}

// Metrics is the derived state recomputed after every schedule mutation.
type Metrics struct {
	TotalCost     float64 `json:"total_cost"`
	GridStress    int     `json:"grid_stress"`
	Comfort       int     `json:"comfort"`
	IsSurgeActive bool    `json:"is_surge_active"`
}

// Suggestion proposes moving one peak-scheduled activity to a cheaper hour.
type Suggestion struct {
	ID              string  `json:"id"`
	ActivityID      string  `json:"activity_id"`
	Message         string  `json:"message"`
	FromHour        int     `json:"from_hour"`
	ToHour          int     `json:"to_hour"`
	SavingsEstimate float64 `json:"savings_estimate"`
}

// GradeResult is the outcome of grading a completed day.
type GradeResult struct {
	Grade float64 `json:"grade"` // 1.0 - 10.0
	Label string  `json:"label"`
	Color string  `json:"color"` // presentation hint, HSL string
}

// DaySummary is produced once when the player ends the day.
type DaySummary struct {
	TotalCost          float64     `json:"total_cost"`
	PeakHoursUsed      int         `json:"peak_hours_used"`
	GridStressMax      int         `json:"grid_stress_max"`
	ComfortScore       int         `json:"comfort_score"`
	NeighborhoodImpact string      `json:"neighborhood_impact"`
	Result             GradeResult `json:"result"`
}
