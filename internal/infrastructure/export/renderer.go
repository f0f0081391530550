package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/aniketri/real-insights-data/internal/domain/model"
	"github.com/aniketri/real-insights-data/internal/domain/port"
	"github.com/aniketri/real-insights-data/internal/domain/valueobject"
)

var _ port.ReportRenderer = (*Renderer)(nil)

// Renderer serializes report documents as JSON, CSV or XML.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render encodes doc in the requested format.
func (r *Renderer) Render(doc model.ReportDocument, format valueobject.ReportFormat) ([]byte, error) {
	switch format {
	case valueobject.ReportFormatJSON:
		return renderJSON(doc)
	case valueobject.ReportFormatCSV:
		return renderCSV(doc)
	case valueobject.ReportFormatXML:
		return renderXML(doc)
	default:
		return nil, fmt.Errorf("unsupported report format %q", format.String())
	}
}

// ---------------------------------------------------------------------------
// JSON
// ---------------------------------------------------------------------------

type jsonDocument struct {
	GeneratedAt    time.Time     `json:"generatedAt"`
	Name           string        `json:"name"`
	ReportType     string        `json:"reportType,omitempty"`
	OrganizationID string        `json:"organizationId"`
	Sections       []jsonSection `json:"sections"`
}

type jsonSection struct {
	Title   string              `json:"title"`
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
}

// renderJSON keys each row by column name.
func renderJSON(doc model.ReportDocument) ([]byte, error) {
	out := jsonDocument{
		GeneratedAt:    doc.GeneratedAt,
		Name:           doc.Name,
		ReportType:     doc.ReportType,
		OrganizationID: doc.OrganizationID.String(),
		Sections:       make([]jsonSection, 0, len(doc.Sections)),
	}
	for _, s := range doc.Sections {
		js := jsonSection{Title: s.Title, Columns: s.Columns, Rows: make([]map[string]string, 0, len(s.Rows))}
		for _, row := range s.Rows {
			m := make(map[string]string, len(s.Columns))
			for i, col := range s.Columns {
				if i < len(row) {
					m[col] = row[i]
				}
			}
			js.Rows = append(js.Rows, m)
		}
		out.Sections = append(out.Sections, js)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json report: %w", err)
	}
	return data, nil
}

// ---------------------------------------------------------------------------
// CSV
// ---------------------------------------------------------------------------

// renderCSV writes a single section as a plain table. Several sections are
// each preceded by their title and separated by a blank line.
func renderCSV(doc model.ReportDocument) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	titled := len(doc.Sections) > 1

	for i, s := range doc.Sections {
		if titled {
			if i > 0 {
				if err := w.Write([]string{""}); err != nil {
					return nil, fmt.Errorf("encode csv report: %w", err)
				}
			}
			if err := w.Write([]string{s.Title}); err != nil {
				return nil, fmt.Errorf("encode csv report: %w", err)
			}
		}
		if err := w.Write(s.Columns); err != nil {
			return nil, fmt.Errorf("encode csv report: %w", err)
		}
		if err := w.WriteAll(s.Rows); err != nil {
			return nil, fmt.Errorf("encode csv report: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("encode csv report: %w", err)
	}
	return buf.Bytes(), nil
}

// ---------------------------------------------------------------------------
// XML
// ---------------------------------------------------------------------------

// renderXML emits <report><section><row><column name="..">value</column></row>.
func renderXML(doc model.ReportDocument) ([]byte, error) {
	x := etree.NewDocument()
	x.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := x.CreateElement("report")
	root.CreateAttr("name", doc.Name)
	if doc.ReportType != "" {
		root.CreateAttr("type", doc.ReportType)
	}
	root.CreateAttr("organizationId", doc.OrganizationID.String())
	root.CreateAttr("generatedAt", doc.GeneratedAt.UTC().Format(time.RFC3339))

	for _, s := range doc.Sections {
		section := root.CreateElement("section")
		section.CreateAttr("title", s.Title)
		for _, row := range s.Rows {
			r := section.CreateElement("row")
			for i, col := range s.Columns {
				if i >= len(row) {
					break
				}
				c := r.CreateElement("column")
				c.CreateAttr("name", col)
				c.SetText(strings.TrimSpace(row[i]))
			}
		}
	}

	x.Indent(2)
	data, err := x.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("encode xml report: %w", err)
	}
	return data, nil
}
