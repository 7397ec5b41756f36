// Package query derives read-only views from a record collection: text
// search, dashboard statistics and the recent activity feed.
package query

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/your-org/disasterbio/internal/models"
)

// Search matches q case-insensitively against name, ID and location.
// An empty query returns everything; a one-character query returns nothing.
// Results keep store order.
func Search(records []models.VictimRecord, q string) []models.VictimRecord {
	if q == "" {
		return append([]models.VictimRecord{}, records...)
	}
	if utf8.RuneCountInString(q) < 2 {
		return []models.VictimRecord{}
	}

	needle := strings.ToLower(q)
	out := []models.VictimRecord{}
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Name), needle) ||
			strings.Contains(strings.ToLower(r.ID), needle) ||
			strings.Contains(strings.ToLower(r.Location), needle) {
			out = append(out, r)
		}
	}
	return out
}

type Stats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Reunited int `json:"reunited"`
}

// ComputeStats counts all records, open cases, and safe records whose notes
// mention a reunion (case-sensitive "Reunited").
func ComputeStats(records []models.VictimRecord) Stats {
	st := Stats{Total: len(records)}
	for _, r := range records {
		if r.Status.Active() {
			st.Active++
		}
		if r.Status == models.StatusSafe && strings.Contains(r.Notes, models.ReunitedMarker) {
			st.Reunited++
		}
	}
	return st
}

// RecentActivity returns the n most recently registered records, newest
// first. Ties keep store order. n <= 0 means the default of 5.
func RecentActivity(records []models.VictimRecord, n int) []models.VictimRecord {
	if n <= 0 {
		n = models.RecentActivityDefaultN
	}
	sorted := append([]models.VictimRecord{}, records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp.Time)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Dashboard is the landing view: counters plus the activity feed.
type Dashboard struct {
	Stats         Stats                 `json:"stats"`
	TeamsDeployed int                   `json:"teamsDeployed"`
	Recent        []models.VictimRecord `json:"recent"`
}

func BuildDashboard(records []models.VictimRecord, teams []models.Team) Dashboard {
	return Dashboard{
		Stats:         ComputeStats(records),
		TeamsDeployed: len(teams),
		Recent:        RecentActivity(records, models.RecentActivityDefaultN),
	}
}
