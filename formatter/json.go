package formatter

import (
	"encoding/json"
	"fmt"
	"io"

	tt "github.com/mjp2ff/aid-sub000/internal/types"
)

// WriteJSON writes reports as an indented JSON array.
func WriteJSON(w io.Writer, reports []*tt.FileReport) error {
	if reports == nil {
		reports = []*tt.FileReport{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(reports); err != nil {
		return fmt.Errorf("error encoding reports: %w", err)
	}
	return nil
}
