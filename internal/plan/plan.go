// Package plan defines the trip-plan document and its default shape.
//
// JSON field names match the files written by the browser version of the
// planner, so exports from either side can be imported by the other.
package plan

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// SchemaVersion is the version tag written into every new document.
const SchemaVersion = "1.0"

// Trip types.
const (
	TripBackpacking = "backpacking"
	TripDayhike     = "dayhike"
)

// Seasons.
const (
	SeasonSummer = "summer"
	SeasonAutumn = "autumn"
	SeasonWinter = "winter"
	SeasonSpring = "spring"
)

// Travel types.
const (
	TravelSolo  = "solo"
	TravelGroup = "group"
)

// Emergency devices.
const (
	DevicePLB       = "plb"
	DeviceSatellite = "satellite"
	DevicePhone     = "phone"
	DeviceNone      = "none"
)

// Plan is the whole trip-plan document.
type Plan struct {
	SchemaVersion  string         `json:"schemaVersion"`
	CreatedAt      string         `json:"createdAt"`
	LastModified   string         `json:"lastModified"`
	Trip           Trip           `json:"trip"`
	Ground         Ground         `json:"ground"`
	Situation      Situation      `json:"situation"`
	Season         Season         `json:"season"`
	Mission        Mission        `json:"mission"`
	Execution      Execution      `json:"execution"`
	Administration Administration `json:"administration"`
	CommandControl CommandControl `json:"commandControl"`
	Meta           Meta           `json:"meta"`
}

type Trip struct {
	TripName    string `json:"tripName"`
	Description string `json:"description"`
	TripType    string `json:"tripType"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

type Ground struct {
	TerrainTypes   []string  `json:"terrainTypes"`
	Vegetation     string    `json:"vegetation"`
	TrailType      string    `json:"trailType"`
	RouteCoverage  string    `json:"routeCoverage"`
	ElevationNotes string    `json:"elevationNotes"`
	MapLinks       []MapLink `json:"mapLinks"`
}

type MapLink struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

type Situation struct {
	TravelType            string `json:"travelType"`
	GroupSize             Number `json:"groupSize"`
	ExperienceLevel       string `json:"experienceLevel"`
	SpecialConsiderations string `json:"specialConsiderations"`
}

type Season struct {
	Season          string `json:"season"`
	ExpectedWeather string `json:"expectedWeather"`
	WeatherRisks    string `json:"weatherRisks"`
}

type Mission struct {
	Statement   string `json:"statement"`
	MissionType string `json:"missionType"`
}

type Execution struct {
	TravelStyle string `json:"travelStyle"`
	Direction   string `json:"direction"`
	DailyPlan   []Day  `json:"dailyPlan"`
}

// Day is one itinerary entry. Day is always the 1-based list position;
// see [RenumberDays].
type Day struct {
	Day      int    `json:"day"`
	Date     string `json:"date"`
	From     string `json:"from"`
	To       string `json:"to"`
	Distance Number `json:"distance"`
	Notes    string `json:"notes"`
}

type Administration struct {
	Travel        Travel        `json:"travel"`
	Accommodation Accommodation `json:"accommodation"`
	Gear          Gear          `json:"gear"`
	FoodFuel      FoodFuel      `json:"foodFuel"`
	Permits       Permits       `json:"permits"`
	Navigation    Navigation    `json:"navigation"`
	FirstAid      FirstAid      `json:"firstAid"`
	Costing       Costing       `json:"costing"`
}

type Travel struct {
	TransportToStart string `json:"transportToStart"`
	TransportFromEnd string `json:"transportFromEnd"`
	SpecialLogistics string `json:"specialLogistics"`
}

type Accommodation struct {
	Type           string `json:"type"`
	NightsRequired Number `json:"nightsRequired"`
	BookingStatus  string `json:"bookingStatus"`
}

type Gear struct {
	Checklist []GearItem `json:"checklist"`
	Notes     string     `json:"notes"`
}

type GearItem struct {
	Name    string `json:"name"`
	Checked bool   `json:"checked"`
	Custom  bool   `json:"custom"`
}

type FoodFuel struct {
	DaysOfFood         Number `json:"daysOfFood"`
	EmergencyDays      Number `json:"emergencyDays"`
	CaloriesPerDay     Number `json:"caloriesPerDay"`
	WaterPerPerson     Number `json:"waterPerPerson"`
	WaterSources       string `json:"waterSources"`
	FiltrationRequired bool   `json:"filtrationRequired"`
	FuelNotes          string `json:"fuelNotes"`
}

type Permits struct {
	Required         bool   `json:"required"`
	BookingDeadlines string `json:"bookingDeadlines"`
	Notes            string `json:"notes"`
}

type Navigation struct {
	MapAndCompass bool   `json:"mapAndCompass"`
	DigitalTools  string `json:"digitalTools"`
}

type FirstAid struct {
	KitType    string `json:"kitType"`
	PLBCarried bool   `json:"plbCarried"`
}

type Costing struct {
	Travel        Number `json:"travel"`
	Accommodation Number `json:"accommodation"`
	Food          Number `json:"food"`
	Permits       Number `json:"permits"`
	Other         Number `json:"other"`
}

type CommandControl struct {
	HomeContactName       string `json:"homeContactName"`
	ContactMethod         string `json:"contactMethod"`
	ExpectedCheckIn       string `json:"expectedCheckIn"`
	EmergencyInstructions string `json:"emergencyInstructions"`
	DeviceCarried         string `json:"deviceCarried"`
	GroupBriefed          bool   `json:"groupBriefed"`
}

// Meta holds navigation and validation bookkeeping.
type Meta struct {
	CurrentSection     string               `json:"currentSection"`
	CompletedSections  []string             `json:"completedSections"`
	ValidationWarnings map[string][]Warning `json:"validationWarnings"`
}

// Warning is one failed validation rule.
type Warning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New returns a fresh default document stamped with now.
// Every call returns an independent value.
func New(now time.Time) *Plan {
	ts := Timestamp(now)

	p := &Plan{
		SchemaVersion: SchemaVersion,
		CreatedAt:     ts,
		LastModified:  ts,
		Trip:          Trip{TripType: TripBackpacking},
		Situation:     Situation{GroupSize: "1"},
		Administration: Administration{
			Accommodation: Accommodation{NightsRequired: "0"},
			FoodFuel: FoodFuel{
				DaysOfFood:     "0",
				EmergencyDays:  "0",
				CaloriesPerDay: "0",
				WaterPerPerson: "0",
			},
			Costing: Costing{Travel: "0", Accommodation: "0", Food: "0", Permits: "0", Other: "0"},
		},
		Meta: Meta{CurrentSection: "welcome"},
	}

	p.Normalize()

	return p
}

// Normalize replaces nil lists and maps with empty ones so a document
// always encodes them as [] and {} rather than null.
func (p *Plan) Normalize() {
	if p.Ground.TerrainTypes == nil {
		p.Ground.TerrainTypes = []string{}
	}

	if p.Ground.MapLinks == nil {
		p.Ground.MapLinks = []MapLink{}
	}

	if p.Execution.DailyPlan == nil {
		p.Execution.DailyPlan = []Day{}
	}

	if p.Administration.Gear.Checklist == nil {
		p.Administration.Gear.Checklist = []GearItem{}
	}

	if p.Meta.CompletedSections == nil {
		p.Meta.CompletedSections = []string{}
	}

	if p.Meta.ValidationWarnings == nil {
		p.Meta.ValidationWarnings = map[string][]Warning{}
	}
}

// Clone returns a deep copy of p.
func (p *Plan) Clone() *Plan {
	c := *p
	c.Ground.TerrainTypes = slices.Clone(p.Ground.TerrainTypes)
	c.Ground.MapLinks = slices.Clone(p.Ground.MapLinks)
	c.Execution.DailyPlan = slices.Clone(p.Execution.DailyPlan)
	c.Administration.Gear.Checklist = slices.Clone(p.Administration.Gear.Checklist)
	c.Meta.CompletedSections = slices.Clone(p.Meta.CompletedSections)

	if p.Meta.ValidationWarnings != nil {
		c.Meta.ValidationWarnings = make(map[string][]Warning, len(p.Meta.ValidationWarnings))
		for k, v := range p.Meta.ValidationWarnings {
			c.Meta.ValidationWarnings[k] = slices.Clone(v)
		}
	}

	return &c
}

// Decode parses a serialized document.
func Decode(data []byte) (*Plan, error) {
	var p Plan

	err := json.Unmarshal(data, &p)
	if err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}

	p.Normalize()

	return &p, nil
}

// Encode serializes the document in its compact storage form.
func Encode(p *Plan) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode plan: %w", err)
	}

	return data, nil
}

// RenumberDays rewrites every Day field to its 1-based list position.
func RenumberDays(days []Day) {
	for i := range days {
		days[i].Day = i + 1
	}
}
