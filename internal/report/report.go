// Package report renders the record collection as export files and parses
// database imports.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/your-org/disasterbio/internal/apperr"
	"github.com/your-org/disasterbio/internal/models"
)

// Download names offered to clients.
const (
	CSVFileName  = "victims-report.csv"
	JSONFileName = "disaster-bio-database.json"
	XLSXFileName = "victims-report.xlsx"
)

// Columns is the header of the tabular exports.
var Columns = []string{
	"ID", "Name", "Age", "Gender", "Location", "Status",
	"Medical Needs", "Contact", "Registered", "Team",
}

func row(r models.VictimRecord) []string {
	return []string{
		r.ID,
		r.Name,
		strconv.Itoa(r.Age),
		r.Gender,
		r.Location,
		r.Status.String(),
		r.MedicalNeeds,
		r.FamilyContact,
		r.Timestamp.String(),
		r.RegisteredBy,
	}
}

// ToCSV quotes every cell, doubling embedded quotes, and joins rows with "\n"
// without a trailing newline.
func ToCSV(records []models.VictimRecord) ([]byte, error) {
	var b strings.Builder
	writeCSVRow(&b, Columns)
	for _, r := range records {
		b.WriteByte('\n')
		writeCSVRow(&b, row(r))
	}
	return []byte(b.String()), nil
}

func writeCSVRow(b *strings.Builder, cells []string) {
	for i, c := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(c, `"`, `""`))
		b.WriteByte('"')
	}
}

// ToJSON renders the full records as a two-space indented array.
func ToJSON(records []models.VictimRecord) ([]byte, error) {
	if records == nil {
		records = []models.VictimRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal records: %w", err)
	}
	return data, nil
}

// FromJSON parses an imported database. Text that is not JSON and objects
// with mistyped fields are parse failures; JSON of the wrong shape is an
// invalid import.
func FromJSON(data []byte) ([]models.VictimRecord, error) {
	if !json.Valid(data) {
		return nil, apperr.New(apperr.KindParseFailure, "import is not valid JSON")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil || items == nil {
		return nil, apperr.New(apperr.KindInvalidImport, "import must be a JSON array of records")
	}

	records := make([]models.VictimRecord, 0, len(items))
	for i, item := range items {
		trimmed := bytes.TrimSpace(item)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return nil, apperr.Newf(apperr.KindInvalidImport, "import entry %d is not an object", i)
		}
		var rec models.VictimRecord
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			return nil, apperr.Wrap(apperr.KindParseFailure, err, fmt.Sprintf("import entry %d", i))
		}
		if !slices.Contains(models.Statuses, rec.Status) {
			return nil, apperr.Newf(apperr.KindParseFailure, "import entry %d: missing status", i)
		}
		records = append(records, rec)
	}
	return records, nil
}
