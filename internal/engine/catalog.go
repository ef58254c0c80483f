package engine

import "fmt"

// Catalog is a read-only lookup of activity definitions. Engine functions
// take it explicitly rather than consulting a package global, so tests can
// run against fabricated catalogs.
type Catalog struct {
	byID  map[string]Activity
	order []string
}

// NewCatalog builds a catalog from a list of definitions. Later duplicates
// of the same id are ignored.
func NewCatalog(activities []Activity) *Catalog {
	c := &Catalog{byID: make(map[string]Activity, len(activities))}
	for _, a := range activities {
		if _, ok := c.byID[a.ID]; ok {
			continue
		}
		c.byID[a.ID] = a
		c.order = append(c.order, a.ID)
	}
	return c
}

// DefaultCatalog returns the standard five household activities.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Activity{
		{ID: "ev-charging", Name: "EV Charging", DurationHours: 4, PowerDrawKw: 7.2, Room: RoomGarage, Icon: "car"},
		{ID: "laundry", Name: "Laundry", DurationHours: 2, PowerDrawKw: 2.1, Room: RoomLaundry, Icon: "shirt"},
		{ID: "cooking", Name: "Cooking", DurationHours: 1, PowerDrawKw: 3.0, Room: RoomKitchen, Icon: "utensils"},
		{ID: "heating", Name: "Heating", DurationHours: 6, PowerDrawKw: 1.5, Room: RoomLiving, Icon: "thermometer"},
		{ID: "gaming", Name: "Gaming Session", DurationHours: 3, PowerDrawKw: 0.5, Room: RoomBedroom, Icon: "gamepad"},
	})
}

// Get looks up an activity definition by id.
func (c *Catalog) Get(id string) (Activity, bool) {
	a, ok := c.byID[id]
	return a, ok
}

// All returns the definitions in insertion order.
func (c *Catalog) All() []Activity {
	out := make([]Activity, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Len reports the number of definitions.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Tariff holds the 24 hourly slots of the day's pricing.
type Tariff struct {
	slots [HoursPerDay]TimeSlot
}

// NewTariff builds the fixed daily tariff: 4x during the evening peak
// (17:00-20:59), 2x during the morning rush (07:00-09:59), 1x otherwise.
func NewTariff() *Tariff {
	t := &Tariff{}
	for hour := 0; hour < HoursPerDay; hour++ {
		isPeak := hour >= PeakStartHour && hour <= PeakEndHour
		isRush := hour >= RushStartHour && hour <= RushEndHour

		multiplier := 1.0
		if isPeak {
			multiplier = PeakMultiplier
		} else if isRush {
			multiplier = RushMultiplier
		}

		t.slots[hour] = TimeSlot{
			Hour:       hour,
			Label:      fmt.Sprintf("%02d:00", hour),
			IsPeak:     isPeak,
			Multiplier: multiplier,
		}
	}
	return t
}

// Slot returns the tariff slot for an hour, wrapping modulo 24.
func (t *Tariff) Slot(hour int) TimeSlot {
	return t.slots[wrapHour(hour)]
}

// IsPeak reports whether an hour (modulo 24) falls in the evening peak.
func (t *Tariff) IsPeak(hour int) bool {
	return t.slots[wrapHour(hour)].IsPeak
}

// Multiplier returns the price multiplier for an hour (modulo 24).
func (t *Tariff) Multiplier(hour int) float64 {
	return t.slots[wrapHour(hour)].Multiplier
}

// Slots returns all 24 slots in hour order.
func (t *Tariff) Slots() []TimeSlot {
	out := make([]TimeSlot, HoursPerDay)
	copy(out, t.slots[:])
	return out
}

// wrapHour maps any integer onto [0, 23].
func wrapHour(hour int) int {
	h := hour % HoursPerDay
	if h < 0 {
		h += HoursPerDay
	}
	return h
}
