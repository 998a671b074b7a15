package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/smartreg/core/model"
)

func results() []model.RankedResult {
	return []model.RankedResult{{
		Days:  1,
		Score: 700,
		Schedule: model.Schedule{Sections: []model.Section{
			{ID: "A1", CourseCode: "A", CourseName: "Algebra", Slots: []model.TimeSlot{
				{Day: model.Monday, Time: model.TimeRange{Start: 900, End: 1000}},
				{Day: model.Monday, Time: model.TimeRange{Start: 1300, End: 1400}},
			}},
			{ID: "B1", CourseCode: "B"},
		}},
	}}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, results()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "section_id", rows[0][5])
	assert.Equal(t, []string{"1", "700", "1", "A", "Algebra", "A1", "Mon", "09:00 - 10:00"}, rows[1])
	assert.Equal(t, "13:00 - 14:00", rows[2][7])
	assert.Equal(t, []string{"1", "700", "1", "B", "", "B1", "", ""}, rows[3])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, results()))

	var out []model.RankedResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, []string{"A1", "B1"}, out[0].Schedule.SectionIDs())
}
