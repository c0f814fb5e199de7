// Package derive computes the values the planner shows but never stores on
// their own: trip duration, totals, suggestions, summaries and the printable
// report.
//
// Every function is a pure read of the document. Numeric form fields that are
// empty or unparsable count as zero.
package derive

import (
	"math"
	"strconv"

	"github.com/calvinalkan/gsmeac/internal/plan"
)

// TripDurationDays returns the inclusive number of days from start date to
// end date, or 0 when either is missing or the end precedes the start.
func TripDurationDays(doc *plan.Plan) int {
	start, ok := plan.ParseDate(doc.Trip.StartDate)
	if !ok {
		return 0
	}

	end, ok := plan.ParseDate(doc.Trip.EndDate)
	if !ok {
		return 0
	}

	days := int(math.Ceil(end.Sub(start).Hours()/24)) + 1
	if days <= 0 {
		return 0
	}

	return days
}

// TotalDistance sums the itinerary distances.
func TotalDistance(doc *plan.Plan) float64 {
	var total float64
	for _, day := range doc.Execution.DailyPlan {
		total += day.Distance.Float()
	}

	return total
}

// TotalCost sums the five costing fields.
func TotalCost(doc *plan.Plan) float64 {
	c := doc.Administration.Costing

	return c.Travel.Float() + c.Accommodation.Float() + c.Food.Float() + c.Permits.Float() + c.Other.Float()
}

// SuggestedFoodDays is the itinerary length when there is one, else the trip
// duration.
func SuggestedFoodDays(doc *plan.Plan) int {
	if n := len(doc.Execution.DailyPlan); n > 0 {
		return n
	}

	return TripDurationDays(doc)
}

// FoodDaysHint is the hint shown under the days-of-food field. It carries the
// suggestion only while the field is still empty or zero.
func FoodDaysHint(doc *plan.Plan) string {
	const base = "Days of food to carry"

	suggested := SuggestedFoodDays(doc)
	if suggested <= 0 || !doc.Administration.FoodFuel.DaysOfFood.IsZero() {
		return base
	}

	return base + " (suggested: " + strconv.Itoa(suggested) + " days based on your itinerary)"
}

// DurationLabel renders a duration for the trip header, or "" for zero.
func DurationLabel(days int) string {
	if days <= 0 {
		return ""
	}

	return "Trip duration: " + Days(days)
}

// Days renders n with a singular or plural unit.
func Days(n int) string {
	if n == 1 {
		return "1 day"
	}

	return strconv.Itoa(n) + " days"
}

// CheckInDefault is the day after the trip ends. It reports false when the
// end date is missing or malformed.
func CheckInDefault(doc *plan.Plan) (string, bool) {
	return plan.AddDays(doc.Trip.EndDate, 1)
}

// ShouldReseedCheckIn reports whether the expected check-in should be
// replaced by [CheckInDefault]: it is empty or falls before the end date.
// A check-in the user set on or after the end date is left alone.
func ShouldReseedCheckIn(doc *plan.Plan) bool {
	if _, ok := plan.ParseDate(doc.Trip.EndDate); !ok {
		return false
	}

	current := doc.CommandControl.ExpectedCheckIn

	return current == "" || current < doc.Trip.EndDate
}

// ItineraryFor returns one empty day per trip day, dated from the start
// date. It returns nil when the trip has no duration.
func ItineraryFor(doc *plan.Plan) []plan.Day {
	n := TripDurationDays(doc)
	if n == 0 {
		return nil
	}

	days := make([]plan.Day, 0, n)
	for i := range n {
		date, _ := plan.AddDays(doc.Trip.StartDate, i)
		days = append(days, plan.Day{Day: i + 1, Date: date})
	}

	return days
}

// NextDay returns the entry appended by "add day": numbered after the
// current itinerary and dated from the start date when there is one.
func NextDay(doc *plan.Plan) plan.Day {
	n := len(doc.Execution.DailyPlan) + 1
	date, _ := plan.AddDays(doc.Trip.StartDate, n-1)

	return plan.Day{Day: n, Date: date}
}

// DayHasData reports whether a day carries anything the user typed.
func DayHasData(d plan.Day) bool {
	return d.From != "" || d.To != "" || d.Distance != "" || d.Notes != ""
}

// Safety alerts.
const (
	WinterAlert = "Winter conditions: check avalanche and weather forecasts, carry traction and pack extra insulation."
	SoloAlert   = "You are travelling solo with no emergency device. Carry a PLB or satellite messenger and leave a detailed plan with your home contact."
)

// SafetyWarnings lists the safety banners the current plan should show.
func SafetyWarnings(doc *plan.Plan) []string {
	var out []string

	if doc.Season.Season == plan.SeasonWinter {
		out = append(out, WinterAlert)
	}

	if doc.Situation.TravelType == plan.TravelSolo && doc.CommandControl.DeviceCarried == plan.DeviceNone {
		out = append(out, SoloAlert)
	}

	return out
}
