package report

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/your-org/disasterbio/internal/apperr"
	"github.com/your-org/disasterbio/internal/models"
)

func TestToCSV(t *testing.T) {
	records := models.SeedRecords()
	records[0].Notes = "ignored"
	records[1].Name = `Priya "PJ" Sharma`

	data, err := ToCSV(records)
	require.NoError(t, err)

	lines := bytes.Split(data, []byte("\n"))
	require.Len(t, lines, 4)
	assert.Equal(t,
		`"ID","Name","Age","Gender","Location","Status","Medical Needs","Contact","Registered","Team"`,
		string(lines[0]))
	assert.Contains(t, string(lines[2]), `"Priya ""PJ"" Sharma"`)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	for i, r := range records {
		assert.Equal(t, []string{
			r.ID, r.Name, strconv.Itoa(r.Age), r.Gender, r.Location, r.Status.String(),
			r.MedicalNeeds, r.FamilyContact, r.Timestamp.String(), r.RegisteredBy,
		}, rows[i+1])
	}
	assert.Equal(t, "Missing Family", rows[3][5])
}

func TestToCSVEmpty(t *testing.T) {
	data, err := ToCSV(nil)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "\n")
}

func TestJSONRoundTrip(t *testing.T) {
	records := models.SeedRecords()
	data, err := ToJSON(records)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {\n    \"id\": \"VIC001\"")
	assert.Contains(t, string(data), `"status": "Missing Family"`)

	back, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, records, back)
}

func TestToJSONEmpty(t *testing.T) {
	data, err := ToJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	back, err := FromJSON(data)
	require.NoError(t, err)
	assert.NotNil(t, back)
	assert.Empty(t, back)
}

func TestFromJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  apperr.Kind
	}{
		{"not json", `{oops`, apperr.KindParseFailure},
		{"empty", ``, apperr.KindParseFailure},
		{"object", `{"id":"VIC001"}`, apperr.KindInvalidImport},
		{"null", `null`, apperr.KindInvalidImport},
		{"array of numbers", `[1,2]`, apperr.KindInvalidImport},
		{"wrong field type", `[{"id":"VIC001","age":"old"}]`, apperr.KindParseFailure},
		{"unknown status", `[{"id":"VIC001","status":"Lost"}]`, apperr.KindParseFailure},
		{"missing status", `[{"id":"VIC101","name":"Imported Person","age":40}]`, apperr.KindParseFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromJSON([]byte(tt.input))
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
		})
	}
}

func TestFromJSONAcceptsLegacyStatusAndZonelessTimes(t *testing.T) {
	records, err := FromJSON([]byte(`[{"id":"VIC009","status":"MissingFamily","timestamp":"2024-08-07T10:30:00"}]`))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.StatusMissingFamily, records[0].Status)
	assert.Equal(t, "2024-08-07T10:30:00.000Z", records[0].Timestamp.String())
}

func TestToXLSX(t *testing.T) {
	data, err := ToXLSX(models.SeedRecords())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetName}, f.GetSheetList())
	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, "VIC001", rows[1][0])
	assert.Equal(t, "35", rows[1][2])
	assert.Equal(t, "Missing Family", rows[3][5])
}
