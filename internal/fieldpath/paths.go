package fieldpath

// Fields the planner reacts to when they change.
var (
	TripName        = MustParse("trip.tripName")
	TripType        = MustParse("trip.tripType")
	TripStartDate   = MustParse("trip.startDate")
	TripEndDate     = MustParse("trip.endDate")
	TerrainTypes    = MustParse("ground.terrainTypes")
	TrailType       = MustParse("ground.trailType")
	Vegetation      = MustParse("ground.vegetation")
	MapLinks        = MustParse("ground.mapLinks")
	TravelType      = MustParse("situation.travelType")
	GroupSize       = MustParse("situation.groupSize")
	ExperienceLevel = MustParse("situation.experienceLevel")
	Season          = MustParse("season.season")
	MissionStmt     = MustParse("mission.statement")
	DailyPlan       = MustParse("execution.dailyPlan")
	NightsRequired  = MustParse("administration.accommodation.nightsRequired")
	GearChecklist   = MustParse("administration.gear.checklist")
	DaysOfFood      = MustParse("administration.foodFuel.daysOfFood")
	HomeContactName = MustParse("commandControl.homeContactName")
	ExpectedCheckIn = MustParse("commandControl.expectedCheckIn")
	DeviceCarried   = MustParse("commandControl.deviceCarried")
	CurrentSection  = MustParse("meta.currentSection")
)
