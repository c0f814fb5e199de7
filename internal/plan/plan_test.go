package plan_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/gsmeac/internal/plan"
)

var testNow = time.Date(2024, time.January, 1, 9, 30, 0, 0, time.UTC)

func TestNewReturnsIndependentDefaults(t *testing.T) {
	t.Parallel()

	a := plan.New(testNow)
	b := plan.New(testNow)

	a.Ground.TerrainTypes = append(a.Ground.TerrainTypes, "hills")
	a.Meta.ValidationWarnings["ground"] = []plan.Warning{{Field: "trailType"}}

	if got := len(b.Ground.TerrainTypes); got != 0 {
		t.Errorf("len(b.TerrainTypes)=%d, want=0", got)
	}

	if got := len(b.Meta.ValidationWarnings); got != 0 {
		t.Errorf("len(b.ValidationWarnings)=%d, want=0", got)
	}

	if got, want := a.CreatedAt, "2024-01-01T09:30:00.000Z"; got != want {
		t.Errorf("CreatedAt=%q, want=%q", got, want)
	}

	if got, want := b.Trip.TripType, plan.TripBackpacking; got != want {
		t.Errorf("TripType=%q, want=%q", got, want)
	}

	if got, want := b.Meta.CurrentSection, "welcome"; got != want {
		t.Errorf("CurrentSection=%q, want=%q", got, want)
	}
}

func TestDefaultDocumentEncodesEmptyCollections(t *testing.T) {
	t.Parallel()

	data, err := plan.Encode(plan.New(testNow))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	ground := raw["ground"].(map[string]any)
	if _, ok := ground["terrainTypes"].([]any); !ok {
		t.Errorf("terrainTypes=%v, want empty array", ground["terrainTypes"])
	}

	situation := raw["situation"].(map[string]any)
	if got, want := situation["groupSize"], float64(1); got != want {
		t.Errorf("groupSize=%v, want=%v", got, want)
	}
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	orig := plan.New(testNow)
	orig.Execution.DailyPlan = []plan.Day{{Day: 1, From: "Hut"}}
	orig.Meta.ValidationWarnings["ground"] = []plan.Warning{{Field: "trailType", Message: "x"}}

	c := orig.Clone()

	if diff := cmp.Diff(orig, c); diff != "" {
		t.Fatalf("clone differs (-orig +clone):\n%s", diff)
	}

	c.Execution.DailyPlan[0].From = "Car park"
	c.Meta.ValidationWarnings["ground"][0].Message = "y"

	if got, want := orig.Execution.DailyPlan[0].From, "Hut"; got != want {
		t.Errorf("orig From=%q, want=%q", got, want)
	}

	if got, want := orig.Meta.ValidationWarnings["ground"][0].Message, "x"; got != want {
		t.Errorf("orig warning=%q, want=%q", got, want)
	}
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	t.Parallel()

	p := plan.New(testNow)
	p.Trip.TripName = "Tararua Crossing"
	p.Ground.TerrainTypes = []string{"hills", "alpine"}
	p.Execution.DailyPlan = []plan.Day{
		{Day: 1, Distance: "3.2"},
		{Day: 2, Distance: "abc"},
		{Day: 3, Distance: ""},
	}

	data, err := plan.Encode(p)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := plan.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if diff := cmp.Diff(p, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestNumber(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name      string
		json      string
		wantText  plan.Number
		wantFloat float64
		wantJSON  string
	}{
		{name: "number", json: `3.2`, wantText: "3.2", wantFloat: 3.2, wantJSON: `3.2`},
		{name: "numeric string", json: `"4"`, wantText: "4", wantFloat: 4, wantJSON: `4`},
		{name: "empty string", json: `""`, wantText: "", wantFloat: 0, wantJSON: `""`},
		{name: "null", json: `null`, wantText: "", wantFloat: 0, wantJSON: `""`},
		{name: "garbage string", json: `"12km"`, wantText: "12km", wantFloat: 0, wantJSON: `"12km"`},
		{name: "padded string", json: `" 5 "`, wantText: " 5 ", wantFloat: 5, wantJSON: `" 5 "`},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var n plan.Number
			if err := json.Unmarshal([]byte(tt.json), &n); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}

			if got, want := n, tt.wantText; got != want {
				t.Errorf("text=%q, want=%q", got, want)
			}

			if got, want := n.Float(), tt.wantFloat; got != want {
				t.Errorf("Float()=%v, want=%v", got, want)
			}

			out, err := json.Marshal(n)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}

			if got, want := string(out), tt.wantJSON; got != want {
				t.Errorf("json=%s, want=%s", got, want)
			}
		})
	}
}

func TestNumberRejectsBool(t *testing.T) {
	t.Parallel()

	var n plan.Number
	if err := json.Unmarshal([]byte(`true`), &n); err == nil {
		t.Fatal("expected error for bool")
	}
}

func TestRenumberDays(t *testing.T) {
	t.Parallel()

	days := []plan.Day{{Day: 4}, {Day: 9}, {Day: 1}}
	plan.RenumberDays(days)

	for i, d := range days {
		if got, want := d.Day, i+1; got != want {
			t.Errorf("days[%d].Day=%d, want=%d", i, got, want)
		}
	}
}

func TestAddDays(t *testing.T) {
	t.Parallel()

	got, ok := plan.AddDays("2024-02-28", 2)
	if !ok {
		t.Fatal("AddDays reported failure")
	}

	if want := "2024-03-01"; got != want {
		t.Errorf("AddDays=%q, want=%q", got, want)
	}

	if _, ok := plan.AddDays("", 1); ok {
		t.Error("AddDays on empty date should fail")
	}
}

func TestDefaultPresets(t *testing.T) {
	t.Parallel()

	presets := plan.DefaultPresets()

	for key, want := range map[string]int{
		"dayhike": 18,
		"summer":  24,
		"autumn":  26,
		"winter":  34,
		"spring":  26,
	} {
		if got := len(presets[key]); got != want {
			t.Errorf("len(%s)=%d, want=%d", key, got, want)
		}
	}

	items, ok := presets.For(plan.TripDayhike, plan.SeasonWinter)
	if !ok || items[0] != "Daypack (20-30L)" {
		t.Errorf("dayhike preset=%v, ok=%v", items, ok)
	}

	if _, ok := presets.For(plan.TripBackpacking, ""); ok {
		t.Error("backpacking without season should have no preset")
	}
}

func TestParsePresetsRejectsDuplicates(t *testing.T) {
	t.Parallel()

	_, err := plan.ParsePresets([]byte("summer:\n  - Tent\n  - tent\n"))
	if !errors.Is(err, plan.ErrPresetInvalid) {
		t.Fatalf("err=%v, want ErrPresetInvalid", err)
	}
}

func TestMergePreset(t *testing.T) {
	t.Parallel()

	checklist := []plan.GearItem{
		{Name: "Tent", Checked: true},
		{Name: "Snowshoes", Checked: true},
		{Name: "Camera", Custom: true},
		{Name: "Stove", Custom: true, Checked: true},
	}

	got := plan.MergePreset(checklist, []string{"Stove", "Tent", "Sleeping bag"})

	want := []plan.GearItem{
		{Name: "Tent", Checked: true},
		{Name: "Sleeping bag"},
		{Name: "Camera", Custom: true},
		{Name: "Stove", Custom: true, Checked: true},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}

	again := plan.MergePreset(got, []string{"Stove", "Tent", "Sleeping bag"})
	if diff := cmp.Diff(got, again); diff != "" {
		t.Errorf("merge not idempotent (-first +second):\n%s", diff)
	}
}

func TestCustomGear(t *testing.T) {
	t.Parallel()

	list := []plan.GearItem{{Name: "Tent"}}

	list, err := plan.AddCustomGear(list, "  Camera ")
	if err != nil {
		t.Fatalf("AddCustomGear: %v", err)
	}

	if got, want := list[1], (plan.GearItem{Name: "Camera", Custom: true}); got != want {
		t.Errorf("added=%+v, want=%+v", got, want)
	}

	if _, err := plan.AddCustomGear(list, "tent"); !errors.Is(err, plan.ErrGearDuplicate) {
		t.Errorf("duplicate preset name err=%v, want ErrGearDuplicate", err)
	}

	if _, err := plan.AddCustomGear(list, "   "); !errors.Is(err, plan.ErrGearNameEmpty) {
		t.Errorf("blank name err=%v, want ErrGearNameEmpty", err)
	}

	if _, err := plan.RemoveCustomGear(list, "Tent"); !errors.Is(err, plan.ErrGearNotFound) {
		t.Errorf("removing preset item err=%v, want ErrGearNotFound", err)
	}

	list, err = plan.RemoveCustomGear(list, "camera")
	if err != nil {
		t.Fatalf("RemoveCustomGear: %v", err)
	}

	if got, want := len(list), 1; got != want {
		t.Errorf("len=%d, want=%d", got, want)
	}
}
