// Package intake turns registration form input into victim records and
// tracks the transient biometric capture state of open registration sessions.
package intake

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/your-org/disasterbio/internal/apperr"
	"github.com/your-org/disasterbio/internal/models"
)

// Fields is the raw registration form. Age is left untyped because clients
// send it either as a JSON number or as the text of an input box.
type Fields struct {
	Name             string   `json:"name"`
	Age              any      `json:"age"`
	Gender           string   `json:"gender"`
	Location         string   `json:"location"`
	RescueLocation   string   `json:"rescueLocation"`
	Status           string   `json:"status"`
	MedicalNeeds     string   `json:"medicalNeeds"`
	BloodType        string   `json:"bloodType"`
	Allergies        string   `json:"allergies"`
	FamilyContact    string   `json:"familyContact"`
	EmergencyContact string   `json:"emergencyContact"`
	Languages        []string `json:"languages"`
}

// Flags records which biometrics were captured in a session.
type Flags struct {
	Fingerprint bool `json:"fingerprintCaptured"`
	Photo       bool `json:"photoCaptured"`
}

func (f Flags) Any() bool { return f.Fingerprint || f.Photo }

// Summary is the capture status line shown next to the form.
func (f Flags) Summary() string {
	switch {
	case f.Fingerprint && f.Photo:
		return "All biometrics captured"
	case f.Any():
		return "Partial biometric capture"
	default:
		return "Ready to capture biometrics"
	}
}

// Operator identifies who registers a record and for which team.
type Operator struct {
	Name string `json:"name"`
	Team string `json:"team"`
}

// RegisteredBy renders "<team> - <name>" with defaults for blanks.
func (o Operator) RegisteredBy() string {
	team := strings.TrimSpace(o.Team)
	if team == "" {
		team = models.DefaultOperatorTeam
	}
	name := strings.TrimSpace(o.Name)
	if name == "" {
		name = models.DefaultOperatorName
	}
	return team + " - " + name
}

// BuildRecord validates f and assembles a record. The ID is left empty for
// the registry to assign; QRCode is derived again once the ID is known.
func BuildRecord(f Fields, flags Flags, op Operator, now time.Time) (models.VictimRecord, error) {
	name := strings.TrimSpace(f.Name)
	gender := strings.TrimSpace(f.Gender)
	location := strings.TrimSpace(f.Location)
	statusText := strings.TrimSpace(f.Status)

	for _, req := range []struct {
		field string
		empty bool
	}{
		{"name", name == ""},
		{"age", ageMissing(f.Age)},
		{"gender", gender == ""},
		{"location", location == ""},
		{"status", statusText == ""},
	} {
		if req.empty {
			return models.VictimRecord{}, apperr.Field(apperr.KindMissingRequiredField, req.field, "is required")
		}
	}

	age, err := parseAge(f.Age)
	if err != nil {
		return models.VictimRecord{}, err
	}

	status, err := models.ParseStatus(statusText)
	if err != nil {
		return models.VictimRecord{}, apperr.Field(apperr.KindInvalidField, "status", err.Error())
	}

	languages, err := normalizeLanguages(f.Languages)
	if err != nil {
		return models.VictimRecord{}, err
	}

	at := models.NewInstant(now)
	return models.VictimRecord{
		Name:              name,
		Age:               age,
		Gender:            gender,
		Location:          location,
		RescueLocation:    orDefault(f.RescueLocation, models.DefaultRescueLocation),
		Status:            status,
		MedicalNeeds:      orDefault(f.MedicalNeeds, models.DefaultMedicalNeeds),
		BloodType:         orDefault(f.BloodType, models.DefaultBloodType),
		Allergies:         orDefault(f.Allergies, models.DefaultAllergies),
		FamilyContact:     orDefault(f.FamilyContact, models.DefaultContact),
		EmergencyContact:  orDefault(f.EmergencyContact, models.DefaultContact),
		Languages:         languages,
		RegisteredBy:      op.RegisteredBy(),
		Timestamp:         at,
		LastUpdated:       at,
		Notes:             models.DefaultNotes,
		BiometricCaptured: flags.Any(),
	}, nil
}

func ageMissing(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func parseAge(v any) (int, error) {
	invalid := apperr.Field(apperr.KindInvalidField, "age", "must be a non-negative integer")

	var age int
	switch x := v.(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, invalid
		}
		age = n
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) || math.IsNaN(x) {
			return 0, invalid
		}
		age = int(x)
	case bool:
		return 0, invalid
	default:
		n, err := cast.ToIntE(x)
		if err != nil {
			return 0, invalid
		}
		age = n
	}
	if age < 0 {
		return 0, invalid
	}
	return age, nil
}

func normalizeLanguages(in []string) ([]string, error) {
	out := []string{}
	seen := make(map[string]bool, len(in))
	for _, raw := range in {
		lang := strings.TrimSpace(raw)
		if lang == "" || seen[lang] {
			continue
		}
		if !models.IsSupportedLanguage(lang) {
			return nil, apperr.Field(apperr.KindInvalidField, "languages", fmt.Sprintf("unsupported language %q", lang))
		}
		seen[lang] = true
		out = append(out, lang)
	}
	return out, nil
}

func orDefault(v, def string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return def
}
