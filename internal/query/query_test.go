package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/disasterbio/internal/models"
)

func ids(records []models.VictimRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestSearch(t *testing.T) {
	seed := models.SeedRecords()

	t.Run("empty query returns everything in order", func(t *testing.T) {
		assert.Equal(t, []string{"VIC001", "VIC002", "VIC003"}, ids(Search(seed, "")))
	})

	t.Run("single character is suppressed", func(t *testing.T) {
		got := Search(seed, "a")
		require.NotNil(t, got)
		assert.Empty(t, got)
		assert.Empty(t, Search(seed, "é"))
	})

	t.Run("case-insensitive name match", func(t *testing.T) {
		got := Search(seed, "ali")
		require.Len(t, got, 1)
		assert.Equal(t, "Mohammed Ali", got[0].Name)
	})

	t.Run("matches id and location", func(t *testing.T) {
		assert.Equal(t, []string{"VIC002"}, ids(Search(seed, "vic002")))
		assert.Equal(t, []string{"VIC002"}, ids(Search(seed, "KERALA")))
		assert.Equal(t, []string{"VIC001", "VIC002", "VIC003"}, ids(Search(seed, "VIC")))
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, Search(seed, "zz"))
	})
}

func TestComputeStats(t *testing.T) {
	assert.Equal(t, Stats{Total: 3, Active: 2, Reunited: 1}, ComputeStats(models.SeedRecords()))

	records := []models.VictimRecord{
		{Status: models.StatusSafe, Notes: "reunited lower case"},
		{Status: models.StatusSafe, Notes: "Reunited"},
		{Status: models.StatusCritical, Notes: "Reunited"},
		{Status: models.StatusMissing},
	}
	assert.Equal(t, Stats{Total: 4, Active: 2, Reunited: 1}, ComputeStats(records))
	assert.Equal(t, Stats{}, ComputeStats(nil))
}

func TestRecentActivity(t *testing.T) {
	seed := models.SeedRecords()
	assert.Equal(t, []string{"VIC002", "VIC001", "VIC003"}, ids(RecentActivity(seed, 5)))
	assert.Equal(t, []string{"VIC002"}, ids(RecentActivity(seed, 1)))

	base := models.NewInstant(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	var many []models.VictimRecord
	for i := 0; i < 8; i++ {
		many = append(many, models.VictimRecord{ID: models.VictimID(i + 1), Timestamp: base})
	}
	got := RecentActivity(many, 0)
	assert.Equal(t, []string{"VIC001", "VIC002", "VIC003", "VIC004", "VIC005"}, ids(got))

	// input order is untouched
	assert.Equal(t, "VIC001", seed[0].ID)
}

func TestBuildDashboard(t *testing.T) {
	d := BuildDashboard(models.SeedRecords(), models.DefaultTeams)
	assert.Equal(t, 3, d.TeamsDeployed)
	assert.Equal(t, 2, d.Stats.Active)
	assert.Len(t, d.Recent, 3)
}
