package matching_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sportmatch/backend/internal/db"
	"github.com/sportmatch/backend/internal/matching"
)

func user(age int, location, sports string) *db.User {
	return &db.User{Age: age, Location: location, Sports: sports}
}

func TestScorePerfectMatch(t *testing.T) {
	sports := `[{"sport":"Football","level":"Intermediate"},{"sport":"Tennis","level":"Beginner"}]`
	a := user(28, "Palermo", sports)
	b := user(28, "palermo", sports)

	// 40 shared sports + 30 location + 20 age + 10 level
	assert.Equal(t, 100.0, matching.Score(a, b))
}

func TestScoreNoOverlap(t *testing.T) {
	a := user(20, "Liniers", "")
	b := user(50, "Flores", "")

	assert.Equal(t, 0.0, matching.Score(a, b))
}

func TestScoreSymmetric(t *testing.T) {
	a := user(25, "Belgrano", `[{"sport":"Running","level":"Advanced"},{"sport":"Padel","level":"Beginner"}]`)
	b := user(33, "Recoleta", `Running, Swimming (Advanced)`)

	assert.Equal(t, matching.Score(a, b), matching.Score(b, a))
}

func TestScoreBounds(t *testing.T) {
	cases := []struct{ a, b *db.User }{
		{user(0, "", ""), user(0, "", "")},
		{user(25, "Palermo", `["Football"]`), user(25, "Palermo", `["Football"]`)},
		{user(25, "Palermo", `not json at all {{{`), user(40, "Belgrano", `[]`)},
		{user(99, "somewhere", `Tennis`), user(18, "elsewhere", `Golf`)},
	}
	for _, c := range cases {
		got := matching.Score(c.a, c.b)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 100.0)
	}
}

func TestScoreSharedSportsScaling(t *testing.T) {
	a := user(0, "", `["Football","Tennis","Running","Padel"]`)
	b := user(0, "", `["Football"]`)

	// 1 of max(4,1) shared → 40*1/4 = 10, plus 10 for the shared default level
	assert.Equal(t, 20.0, matching.Score(a, b))
}

func TestScoreLocationTiers(t *testing.T) {
	same := matching.Score(user(0, "Caballito", ""), user(0, "caballito", ""))
	assert.Equal(t, 30.0, same)

	nearby := matching.Score(user(0, "Palermo Soho", ""), user(0, "Belgrano", ""))
	assert.Equal(t, 20.0, nearby)

	far := matching.Score(user(0, "Caballito", ""), user(0, "Flores", ""))
	assert.Equal(t, 0.0, far)
}

func TestScoreAgeTiers(t *testing.T) {
	cases := []struct {
		ageA, ageB int
		want       float64
	}{
		{30, 30, 20},
		{30, 35, 20},
		{30, 38, 15},
		{30, 43, 10},
		{30, 60, 0},
		{0, 30, 0}, // missing age
	}
	for _, c := range cases {
		assert.Equal(t, c.want, matching.Score(user(c.ageA, "", ""), user(c.ageB, "", "")), "ages %d/%d", c.ageA, c.ageB)
	}
}

func TestCommonSports(t *testing.T) {
	a := user(0, "", `[{"sport":"Football","level":"Advanced"},{"sport":"Tennis"}]`)
	b := user(0, "", `Tennis (Intermediate), Swimming, Football`)

	got := matching.CommonSports(a, b)
	assert.Equal(t, []string{"Football", "Tennis"}, got)
	assert.Equal(t, got, matching.CommonSports(b, a))
}

func TestCommonSportsEmpty(t *testing.T) {
	assert.Empty(t, matching.CommonSports(user(0, "", ""), user(0, "", `["Football"]`)))
}

func TestParseSportsEncodings(t *testing.T) {
	want := []matching.Preference{
		{Sport: "Football", Level: "Intermediate"},
		{Sport: "Tennis", Level: "Beginner"},
	}

	encodings := []string{
		`[{"sport":"Football","level":"Intermediate"},{"sport":"Tennis","level":"Beginner"}]`,
		`[{"sport":"Football","level":"Intermediate"},"Tennis"]`,
		`Football (Intermediate), Tennis`,
	}
	for _, enc := range encodings {
		assert.Equal(t, want, matching.ParseSports(enc), "encoding: %s", enc)
	}
}

func TestParseSportsDegradesGracefully(t *testing.T) {
	assert.Nil(t, matching.ParseSports(""))
	assert.Nil(t, matching.ParseSports("   "))
	assert.Nil(t, matching.ParseSports(`[{"sport": broken`))
	assert.Nil(t, matching.ParseSports(`[123, {"level":"Advanced"}]`))
}

func TestParseSportsDeduplicates(t *testing.T) {
	got := matching.ParseSports(`Football, Football (Advanced)`)
	assert.Equal(t, []matching.Preference{{Sport: "Football", Level: "Beginner"}}, got)
}

func TestEncodeSportsRoundTrip(t *testing.T) {
	raw := `Padel (Intermediate), Running`
	canonical := matching.EncodeSports(matching.ParseSports(raw))
	assert.Equal(t, `[{"sport":"Padel","level":"Intermediate"},{"sport":"Running","level":"Beginner"}]`, canonical)
	assert.Equal(t, matching.ParseSports(raw), matching.ParseSports(canonical))

	assert.Equal(t, "", matching.EncodeSports(nil))
}
