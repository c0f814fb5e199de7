package derive

import (
	"fmt"
	"strings"

	"github.com/calvinalkan/gsmeac/internal/plan"
)

// SummaryPlaceholder stands in for the mission summary until any of its
// source fields is set.
const SummaryPlaceholder = "Complete the Ground, Situation, and Season sections to see an auto-generated summary here."

const bullet = "• "

var (
	experienceLabels = map[string]string{
		"beginner":     "Beginner experience level",
		"intermediate": "Intermediate experience level",
		"advanced":     "Advanced experience level",
	}
	seasonLabels = map[string]string{
		plan.SeasonSummer: "Summer conditions",
		plan.SeasonAutumn: "Autumn conditions",
		plan.SeasonWinter: "Winter conditions",
		plan.SeasonSpring: "Spring conditions",
	}
	terrainLabels = map[string]string{
		"flat":      "flat terrain",
		"hills":     "hills",
		"mountains": "mountains",
		"alpine":    "alpine terrain",
	}
	trailLabels = map[string]string{
		"established": "Established trail",
		"partial":     "Partial trail",
		"off-trail":   "Off-trail navigation required",
	}
	vegetationLabels = map[string]string{
		"open":  "Open vegetation (grassland/tussock)",
		"bush":  "Bush/forest",
		"mixed": "Mixed vegetation",
	}
)

func label(labels map[string]string, v string) string {
	if l, ok := labels[v]; ok {
		return l
	}

	return v
}

// FormatDate renders a calendar date as "Jun 1, 2024". Text that is not a
// date is returned unchanged.
func FormatDate(s string) string {
	t, ok := plan.ParseDate(s)
	if !ok {
		return s
	}

	return t.Format("Jan 2, 2006")
}

// MissionSummary returns the summary fragments for the fields currently set,
// always in the same order. With nothing set it returns just
// [SummaryPlaceholder].
func MissionSummary(doc *plan.Plan) []string {
	var parts []string

	switch doc.Trip.TripType {
	case "":
	case plan.TripDayhike:
		parts = append(parts, "Day Hike")
	default:
		parts = append(parts, "Backpacking Trip")
	}

	if days := TripDurationDays(doc); days > 0 {
		start := FormatDate(doc.Trip.StartDate)
		if doc.Trip.TripType == plan.TripDayhike {
			parts = append(parts, "Date: "+start)
		} else {
			parts = append(parts, fmt.Sprintf("%s (%s - %s)", Days(days), start, FormatDate(doc.Trip.EndDate)))
		}
	}

	if doc.Trip.TripName != "" {
		parts = append(parts, "Trip: "+doc.Trip.TripName)
	}

	switch sit := doc.Situation; {
	case sit.TravelType == "":
	case sit.TravelType == plan.TravelSolo:
		parts = append(parts, "Solo trip")
	case sit.TravelType == plan.TravelGroup && !sit.GroupSize.IsZero():
		parts = append(parts, fmt.Sprintf("Group trip (%s people)", sit.GroupSize))
	default:
		parts = append(parts, "Group trip")
	}

	if v := doc.Situation.ExperienceLevel; v != "" {
		parts = append(parts, label(experienceLabels, v))
	}

	if v := doc.Season.Season; v != "" {
		parts = append(parts, label(seasonLabels, v))
	}

	if terrain := doc.Ground.TerrainTypes; len(terrain) > 0 {
		labels := make([]string, len(terrain))
		for i, t := range terrain {
			labels[i] = label(terrainLabels, t)
		}

		parts = append(parts, "Terrain: "+strings.Join(labels, ", "))
	}

	if v := doc.Ground.TrailType; v != "" {
		parts = append(parts, label(trailLabels, v))
	}

	if v := doc.Ground.Vegetation; v != "" {
		parts = append(parts, label(vegetationLabels, v))
	}

	if len(parts) == 0 {
		return []string{SummaryPlaceholder}
	}

	return parts
}

// MissionSummaryText renders [MissionSummary] as bullet lines.
func MissionSummaryText(doc *plan.Plan) string {
	parts := MissionSummary(doc)
	if len(parts) == 1 && parts[0] == SummaryPlaceholder {
		return SummaryPlaceholder
	}

	var b strings.Builder

	for i, p := range parts {
		if i > 0 {
			b.WriteByte('\n')
		}

		b.WriteString(bullet)
		b.WriteString(p)
	}

	return b.String()
}
