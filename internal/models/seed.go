package models

import "time"

func seedTime(s string) Instant {
	t, err := time.Parse(localLayout, s)
	if err != nil {
		panic(err)
	}
	return NewInstant(t)
}

// SeedRecords returns the sample cases loaded into an empty registry.
func SeedRecords() []VictimRecord {
	return []VictimRecord{
		{
			ID:                "VIC001",
			Name:              "Rajesh Kumar",
			Age:               35,
			Gender:            "Male",
			Location:          "Tamil Nadu Flood Zone - Sector 7",
			RescueLocation:    "Cuddalore District Relief Camp",
			Status:            StatusSafe,
			MedicalNeeds:      "Type 2 Diabetes - needs insulin",
			BloodType:         "B+",
			Allergies:         "Penicillin",
			FamilyContact:     "+91-9876543210",
			EmergencyContact:  "Wife - Sunita Kumar",
			Languages:         []string{"Tamil", "Hindi", "English"},
			QRCode:            "VIC001-RAJESH-KUMAR-2024",
			RegisteredBy:      "NGO Team Alpha - Dr. Pradeep",
			Timestamp:         seedTime("2024-08-07T10:30:00"),
			LastUpdated:       seedTime("2024-08-07T15:45:00"),
			Notes:             "Reunited with wife and daughter. Receiving regular medical care.",
			BiometricCaptured: false,
		},
		{
			ID:                "VIC002",
			Name:              "Priya Sharma",
			Age:               28,
			Gender:            "Female",
			Location:          "Kerala Landslide Area - Hill Station",
			RescueLocation:    "Wayanad Emergency Medical Center",
			Status:            StatusCritical,
			MedicalNeeds:      "Pregnant - 7 months, requires gynecological care",
			BloodType:         "A+",
			Allergies:         "None known",
			FamilyContact:     "Unknown",
			EmergencyContact:  "Searching for husband - Vikram Sharma",
			Languages:         []string{"Malayalam", "Hindi"},
			QRCode:            "VIC002-PRIYA-SHARMA-2024",
			RegisteredBy:      "Army Medical Corps - Lt. Col. Menon",
			Timestamp:         seedTime("2024-08-07T14:15:00"),
			LastUpdated:       seedTime("2024-08-07T18:20:00"),
			Notes:             "Stable condition. Baby's heartbeat normal. Needs family support.",
			BiometricCaptured: false,
		},
		{
			ID:                "VIC003",
			Name:              "Mohammed Ali",
			Age:               42,
			Gender:            "Male",
			Location:          "Gujarat Earthquake Zone - Block 12",
			RescueLocation:    "Bhuj Relief Distribution Center",
			Status:            StatusMissingFamily,
			MedicalNeeds:      "Minor cuts and bruises, psychological trauma",
			BloodType:         "O-",
			Allergies:         "Dust, pollen",
			FamilyContact:     "+91-9123456789",
			EmergencyContact:  "Brother - Hassan Ali +91-9876543211",
			Languages:         []string{"Gujarati", "Hindi", "Urdu"},
			QRCode:            "VIC003-MOHAMMED-ALI-2024",
			RegisteredBy:      "Red Cross Team - Ms. Patel",
			Timestamp:         seedTime("2024-08-07T09:45:00"),
			LastUpdated:       seedTime("2024-08-07T16:30:00"),
			Notes:             "Still searching for wife and 2 children. Brother contacted and traveling from Mumbai.",
			BiometricCaptured: false,
		},
	}
}
