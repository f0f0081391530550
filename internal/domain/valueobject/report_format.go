package valueobject

import (
	"fmt"
	"strings"
)

// ReportFormat is the serialization of a generated report artifact.
type ReportFormat struct {
	value       string
	contentType string
	extension   string
}

var (
	ReportFormatJSON = ReportFormat{value: "JSON", contentType: "application/json", extension: "json"}
	ReportFormatCSV  = ReportFormat{value: "CSV", contentType: "text/csv", extension: "csv"}
	ReportFormatXML  = ReportFormat{value: "XML", contentType: "application/xml", extension: "xml"}
)

// NewReportFormat parses "JSON", "CSV" or "XML". An empty string selects JSON.
func NewReportFormat(s string) (ReportFormat, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", ReportFormatJSON.value:
		return ReportFormatJSON, nil
	case ReportFormatCSV.value:
		return ReportFormatCSV, nil
	case ReportFormatXML.value:
		return ReportFormatXML, nil
	default:
		return ReportFormat{}, fmt.Errorf("invalid report format: %q", s)
	}
}

// String returns the string representation of the ReportFormat.
func (f ReportFormat) String() string {
	return f.value
}

// ContentType returns the MIME type of the artifact.
func (f ReportFormat) ContentType() string {
	return f.contentType
}

// Extension returns the file extension without a dot.
func (f ReportFormat) Extension() string {
	return f.extension
}

// IsZero returns true if the ReportFormat has not been set.
func (f ReportFormat) IsZero() bool {
	return f.value == ""
}

// Equal returns true if two ReportFormat values are equal.
func (f ReportFormat) Equal(other ReportFormat) bool {
	return f.value == other.value
}
