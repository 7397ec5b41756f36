package models

// Sentinel values stored when an optional registration field is left blank.
const (
	DefaultRescueLocation  = "Not specified"
	DefaultMedicalNeeds    = "None specified"
	DefaultBloodType       = "Unknown"
	DefaultAllergies       = "None known"
	DefaultContact         = "Unknown"
	DefaultNotes           = "Newly registered victim"
	DefaultOperatorName    = "Unknown"
	DefaultOperatorTeam    = "Mobile Team"
	VictimIDPrefix         = "VIC"
	ReunitedMarker         = "Reunited"
	RecentActivityDefaultN = 5
)

// VictimRecord is one tracked individual's case data. JSON names match the
// persisted blob so databases exported by earlier clients import unchanged.
type VictimRecord struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Age               int      `json:"age"`
	Gender            string   `json:"gender"`
	Location          string   `json:"location"`
	RescueLocation    string   `json:"rescueLocation"`
	Status            Status   `json:"status"`
	MedicalNeeds      string   `json:"medicalNeeds"`
	BloodType         string   `json:"bloodType"`
	Allergies         string   `json:"allergies"`
	FamilyContact     string   `json:"familyContact"`
	EmergencyContact  string   `json:"emergencyContact"`
	Languages         []string `json:"languages"`
	QRCode            string   `json:"qrCode"`
	RegisteredBy      string   `json:"registeredBy"`
	Timestamp         Instant  `json:"timestamp"`
	LastUpdated       Instant  `json:"lastUpdated"`
	Notes             string   `json:"notes"`
	BiometricCaptured bool     `json:"biometricCaptured"`
}

// Clone returns a copy that shares no slices with r.
func (r VictimRecord) Clone() VictimRecord {
	if r.Languages != nil {
		r.Languages = append([]string(nil), r.Languages...)
	}
	return r
}

// CloneAll copies a record collection element by element.
func CloneAll(records []VictimRecord) []VictimRecord {
	out := make([]VictimRecord, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
