package result

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// csvHeader is the column order used by WriteCSV.
var csvHeader = []string{"url", "text", "outcome", "final_url", "replacement", "status_code", "error_type", "error"}

// WriteJSON writes the report as indented JSON. Links is always an array,
// never null, so consumers can iterate without a nil check.
func WriteJSON(w io.Writer, report *Report) error {
	out := *report
	if out.Links == nil {
		out.Links = []LinkReport{}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("write json output: %w", err)
	}
	return nil
}

// WriteCSV writes one row per link occurrence.
// Always includes a header row, even if the document had no links.
func WriteCSV(w io.Writer, links []LinkReport) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, link := range links {
		record := []string{
			link.URL,
			link.Text,
			string(link.Outcome),
			link.FinalURL,
			link.Replacement,
			statusCodeStr(link.StatusCode),
			string(link.ErrorCategory),
			link.Error,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record for %s: %w", link.URL, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}
	return nil
}

// statusCodeStr converts an HTTP status code to a string.
// Returns empty string for 0 (no HTTP status).
func statusCodeStr(code int) string {
	if code == 0 {
		return ""
	}
	return strconv.Itoa(code)
}
