package derive

import (
	"fmt"
	"strings"

	"github.com/calvinalkan/gsmeac/internal/plan"
)

var (
	heavyRule = strings.Repeat("═", 63)
	lightRule = strings.Repeat("─", 63)
)

type report struct {
	lines []string
}

func (r *report) add(lines ...string) {
	r.lines = append(r.lines, lines...)
}

func (r *report) addf(format string, args ...any) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

// section closes the previous block with a rule and opens a titled one.
func (r *report) section(title string) {
	r.add(lightRule, "", title, lightRule, "")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}

	return "No"
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}

	return s
}

// TextReport renders the whole plan as printable text. The output depends on
// the document alone, so rendering the same document twice gives the same
// text.
func TextReport(doc *plan.Plan) string {
	r := &report{}

	r.add(heavyRule, "           GSMEAC BACKPACKING PLAN", heavyRule, "")

	if doc.Trip.TripName != "" {
		r.add("TRIP: "+doc.Trip.TripName, "")
	}

	if doc.Trip.Description != "" {
		r.add(doc.Trip.Description, "")
	}

	if doc.Trip.StartDate != "" && doc.Trip.EndDate != "" {
		r.addf("DATES: %s - %s", FormatDate(doc.Trip.StartDate), FormatDate(doc.Trip.EndDate))

		if days := TripDurationDays(doc); days > 0 {
			r.add("DURATION: "+Days(days), "")
		}
	}

	r.section("G - GROUND")
	writeGround(r, doc.Ground)
	r.add("")

	r.section("S - SITUATION & SEASON")
	writeSituation(r, doc.Situation, doc.Season)
	r.add("")

	r.section("M - MISSION")

	if doc.Mission.MissionType != "" {
		r.add("Mission Type: "+doc.Mission.MissionType, "")
	}

	if doc.Mission.Statement != "" {
		r.add("Mission Statement:", doc.Mission.Statement)
	}

	r.add("")

	r.section("E - EXECUTION")
	writeExecution(r, doc)

	r.section("A - ADMINISTRATION")
	writeAdministration(r, doc)
	r.add("")

	r.section("C - COMMAND & CONTROL")
	writeCommandControl(r, doc.CommandControl)

	r.add("", heavyRule, "")

	if doc.LastModified != "" {
		r.add("Last modified: " + doc.LastModified)
	}

	r.add("Generated with GSMEAC Backpacking Planner", heavyRule)

	return strings.Join(r.lines, "\n")
}

func writeGround(r *report, g plan.Ground) {
	if len(g.TerrainTypes) > 0 {
		r.add("Terrain Types: " + strings.Join(g.TerrainTypes, ", "))
	}

	if g.Vegetation != "" {
		r.add("Vegetation: " + g.Vegetation)
	}

	if g.TrailType != "" {
		r.add("Trail Type: " + g.TrailType)
	}

	if g.RouteCoverage != "" {
		r.add("Route Coverage: " + g.RouteCoverage)
	}

	if g.ElevationNotes != "" {
		r.add("", "Elevation & Terrain Notes:", g.ElevationNotes)
	}

	if len(g.MapLinks) > 0 {
		r.add("", "Map Links:")

		for _, link := range g.MapLinks {
			if link.URL != "" {
				r.addf("  • %s: %s", orDefault(link.Description, "Map"), link.URL)
			}
		}
	}
}

func writeSituation(r *report, sit plan.Situation, season plan.Season) {
	r.add("Situation:")

	switch sit.TravelType {
	case plan.TravelSolo:
		r.add("  Travel Type: Solo")
	case plan.TravelGroup:
		r.addf("  Travel Type: Group (%s people)", orDefault(string(sit.GroupSize), "unspecified"))
	}

	if sit.ExperienceLevel != "" {
		r.add("  Experience Level: " + sit.ExperienceLevel)
	}

	if sit.SpecialConsiderations != "" {
		r.add("  Special Considerations:", "    "+sit.SpecialConsiderations)
	}

	r.add("", "Season:")

	if season.Season != "" {
		r.add("  Season: " + season.Season)
	}

	if season.ExpectedWeather != "" {
		r.add("  Expected Weather:", "    "+season.ExpectedWeather)
	}

	if season.WeatherRisks != "" {
		r.add("  Weather Risks:", "    "+season.WeatherRisks)
	}
}

func writeExecution(r *report, doc *plan.Plan) {
	ex := doc.Execution

	if ex.TravelStyle != "" {
		r.add("Travel Style: " + ex.TravelStyle)
	}

	if ex.Direction != "" {
		r.add("Direction: " + ex.Direction)
	}

	if len(ex.DailyPlan) == 0 {
		return
	}

	r.add("", "Daily Itinerary:", "")

	for _, day := range ex.DailyPlan {
		date := ""
		if day.Date != "" {
			date = " (" + FormatDate(day.Date) + ")"
		}

		r.addf("Day %d%s", day.Day, date)
		r.add("  From: "+orDefault(day.From, "Not specified"), "  To: "+orDefault(day.To, "Not specified"))

		if day.Distance != "" {
			r.addf("  Distance: %s miles", day.Distance)
		}

		if day.Notes != "" {
			r.add("  Notes: " + day.Notes)
		}

		r.add("")
	}

	if total := TotalDistance(doc); total > 0 {
		r.addf("TOTAL DISTANCE: %.1f miles", total)
		r.add("")
	}
}

func writeAdministration(r *report, doc *plan.Plan) {
	a := doc.Administration

	r.add("Travel & Transport:")

	if a.Travel.TransportToStart != "" {
		r.add("  To Start: " + a.Travel.TransportToStart)
	}

	if a.Travel.TransportFromEnd != "" {
		r.add("  From End: " + a.Travel.TransportFromEnd)
	}

	if a.Travel.SpecialLogistics != "" {
		r.add("  Special Logistics: " + a.Travel.SpecialLogistics)
	}

	r.add("", "Accommodation:")

	if a.Accommodation.Type != "" {
		r.add("  Type: " + a.Accommodation.Type)
	}

	if !a.Accommodation.NightsRequired.IsZero() {
		r.addf("  Nights Required: %s", a.Accommodation.NightsRequired)
	}

	if a.Accommodation.BookingStatus != "" {
		r.add("  Booking Status: " + a.Accommodation.BookingStatus)
	}

	r.add("", "Gear & Equipment:")
	writeGear(r, a.Gear)

	r.add("", "Food, Water & Fuel:")

	ff := a.FoodFuel
	for _, f := range []struct {
		label string
		value plan.Number
		unit  string
	}{
		{"Days of Food", ff.DaysOfFood, ""},
		{"Emergency Days", ff.EmergencyDays, ""},
		{"Calories per Day", ff.CaloriesPerDay, ""},
		{"Water per Person", ff.WaterPerPerson, " liters"},
	} {
		if !f.value.IsZero() {
			r.addf("  %s: %s%s", f.label, f.value, f.unit)
		}
	}

	if ff.WaterSources != "" {
		r.add("  Water Sources: " + ff.WaterSources)
	}

	r.add("  Filtration Required: " + yesNo(ff.FiltrationRequired))

	if ff.FuelNotes != "" {
		r.add("  Notes: " + ff.FuelNotes)
	}

	r.add("", "Permits & Regulations:", "  Required: "+yesNo(a.Permits.Required))

	if a.Permits.BookingDeadlines != "" {
		r.add("  Deadlines: " + a.Permits.BookingDeadlines)
	}

	if a.Permits.Notes != "" {
		r.add("  Notes: " + a.Permits.Notes)
	}

	r.add("", "Navigation:", "  Map & Compass: "+yesNo(a.Navigation.MapAndCompass))

	if a.Navigation.DigitalTools != "" {
		r.add("  Digital Tools: " + a.Navigation.DigitalTools)
	}

	r.add("", "First Aid & Emergency:")

	if a.FirstAid.KitType != "" {
		r.add("  Kit Type: " + a.FirstAid.KitType)
	}

	r.add("  PLB Carried: "+yesNo(a.FirstAid.PLBCarried), "", "Costing:")

	c := a.Costing
	for _, f := range []struct {
		label string
		value plan.Number
	}{
		{"Travel", c.Travel},
		{"Accommodation", c.Accommodation},
		{"Food", c.Food},
		{"Permits", c.Permits},
		{"Other", c.Other},
	} {
		if !f.value.IsZero() {
			r.addf("  %s: $%.2f", f.label, f.value.Float())
		}
	}

	if total := TotalCost(doc); total > 0 {
		r.add("  " + strings.Repeat("─", 13))
		r.addf("  TOTAL: $%.2f", total)
	}
}

func writeGear(r *report, g plan.Gear) {
	var packed, needed []string

	for _, item := range g.Checklist {
		if item.Checked {
			packed = append(packed, item.Name)
		} else {
			needed = append(needed, item.Name)
		}
	}

	if len(packed) > 0 {
		r.add("  Packed:")

		for _, name := range packed {
			r.add("    ✓ " + name)
		}
	}

	if len(needed) > 0 {
		r.add("  Still needed:")

		for _, name := range needed {
			r.add("    ☐ " + name)
		}
	}

	if g.Notes != "" {
		r.add("  Notes: " + g.Notes)
	}
}

func writeCommandControl(r *report, cc plan.CommandControl) {
	if cc.HomeContactName != "" {
		r.add("Home Contact: " + cc.HomeContactName)
	}

	if cc.ContactMethod != "" {
		r.add("Contact Method: " + cc.ContactMethod)
	}

	if cc.ExpectedCheckIn != "" {
		r.add("Expected Check-in: " + FormatDate(cc.ExpectedCheckIn))
	}

	if cc.DeviceCarried != "" {
		r.add("Emergency Device: " + cc.DeviceCarried)
	}

	r.add("Group Briefed: " + yesNo(cc.GroupBriefed))

	if cc.EmergencyInstructions != "" {
		r.add("", "Emergency Instructions:", cc.EmergencyInstructions)
	}
}
