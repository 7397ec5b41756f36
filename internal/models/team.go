package models

// Team is read-only reference data for the rescue teams in the field.
type Team struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Lead    string `json:"lead"`
	Contact string `json:"contact"`
}

var DefaultTeams = []Team{
	{ID: "T001", Name: "NGO Team Alpha", Lead: "Dr. Pradeep Singh", Contact: "+91-9876540001"},
	{ID: "T002", Name: "Army Medical Corps", Lead: "Lt. Col. Menon", Contact: "+91-9876540002"},
	{ID: "T003", Name: "Red Cross Team", Lead: "Ms. Patel", Contact: "+91-9876540003"},
}

// SupportedLanguages is the fixed list offered on the registration form.
var SupportedLanguages = []string{
	"Hindi", "English", "Tamil", "Bengali", "Telugu",
	"Marathi", "Gujarati", "Kannada", "Malayalam", "Punjabi",
}

// IsSupportedLanguage reports whether lang is on the registration list.
func IsSupportedLanguage(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}
