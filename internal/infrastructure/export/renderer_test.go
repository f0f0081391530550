package export

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aniketri/real-insights-data/internal/domain/model"
	"github.com/aniketri/real-insights-data/internal/domain/valueobject"
)

func loansSection() model.ReportSection {
	return model.ReportSection{
		Title:   "Loans",
		Columns: []string{"Loan Number", "Property Name", "Current Balance"},
		Rows: [][]string{
			{"L-1", "Harbor Point, Tower A", "2500000.50"},
			{"L-2", `The "Maple" Court`, "1000000.00"},
		},
	}
}

func testDocument(sections ...model.ReportSection) model.ReportDocument {
	return model.ReportDocument{
		Name:           "Portfolio",
		ReportType:     "PORTFOLIO_SUMMARY",
		OrganizationID: uuid.MustParse("00000000-0000-0000-0000-000000000010"),
		GeneratedAt:    time.Date(2025, 1, 15, 8, 30, 0, 0, time.UTC),
		Sections:       sections,
	}
}

func TestRenderer_CSV(t *testing.T) {
	r := NewRenderer()

	t.Run("single section is a plain table", func(t *testing.T) {
		data, err := r.Render(testDocument(loansSection()), valueobject.ReportFormatCSV)
		require.NoError(t, err)

		want := "Loan Number,Property Name,Current Balance\n" +
			"L-1,\"Harbor Point, Tower A\",2500000.50\n" +
			"L-2,\"The \"\"Maple\"\" Court\",1000000.00\n"
		assert.Equal(t, want, string(data))
	})

	t.Run("several sections carry titles", func(t *testing.T) {
		totals := model.ReportSection{Title: "Totals", Columns: []string{"Metric", "Value"}, Rows: [][]string{{"Loans", "2"}}}
		data, err := r.Render(testDocument(loansSection(), totals), valueobject.ReportFormatCSV)
		require.NoError(t, err)

		assert.Contains(t, string(data), "Loans\nLoan Number,Property Name,Current Balance\n")
		assert.Contains(t, string(data), "1000000.00\n\nTotals\nMetric,Value\nLoans,2\n")
	})

	t.Run("empty document", func(t *testing.T) {
		data, err := r.Render(testDocument(), valueobject.ReportFormatCSV)
		require.NoError(t, err)
		assert.Empty(t, data)
	})
}

func TestRenderer_JSON(t *testing.T) {
	data, err := NewRenderer().Render(testDocument(loansSection()), valueobject.ReportFormatJSON)
	require.NoError(t, err)

	var got struct {
		Name     string `json:"name"`
		Sections []struct {
			Title string              `json:"title"`
			Rows  []map[string]string `json:"rows"`
		} `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Portfolio", got.Name)
	require.Len(t, got.Sections, 1)
	require.Len(t, got.Sections[0].Rows, 2)
	assert.Equal(t, "2500000.50", got.Sections[0].Rows[0]["Current Balance"])
}

func TestRenderer_XML(t *testing.T) {
	data, err := NewRenderer().Render(testDocument(loansSection()), valueobject.ReportFormatXML)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))

	root := doc.SelectElement("report")
	require.NotNil(t, root)
	assert.Equal(t, "Portfolio", root.SelectAttrValue("name", ""))
	assert.Equal(t, "2025-01-15T08:30:00Z", root.SelectAttrValue("generatedAt", ""))

	rows := doc.FindElements("//section[@title='Loans']/row")
	require.Len(t, rows, 2)
	name := rows[1].FindElement("./column[@name='Property Name']")
	require.NotNil(t, name)
	assert.Equal(t, `The "Maple" Court`, name.Text())
}

func TestRenderer_UnsupportedFormat(t *testing.T) {
	_, err := NewRenderer().Render(testDocument(), valueobject.ReportFormat{})
	assert.Error(t, err)
}
