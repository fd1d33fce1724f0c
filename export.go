package pconics

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/ChristopherRabotin/pconics/units"
)

// soiRecord is the JSON form of an SOIRow. Radius is only set when applicable.
type soiRecord struct {
	Body       string   `json:"body"`
	Parent     string   `json:"parent,omitempty"`
	Applicable bool     `json:"applicable"`
	Radius     *float64 `json:"radius,omitempty"`
	Unit       string   `json:"unit"`
}

func radiusIn(row SOIRow, u units.Unit) (float64, bool, error) {
	r, ok := row.Result.Radius()
	if !ok {
		return 0, false, nil
	}
	c, err := r.To(u)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", row.Body.Name(), err)
	}
	return c.Value(), true, nil
}

// WriteCSV writes the table as CSV with the radii in the provided length unit.
// The radius cell of a body without a sphere of influence is left empty.
func WriteCSV(w io.Writer, rows []SOIRow, u units.Unit) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"body", "parent", "soi_" + u.Symbol()}); err != nil {
		return err
	}
	for _, row := range rows {
		v, ok, err := radiusIn(row, u)
		if err != nil {
			return err
		}
		cell := ""
		if ok {
			cell = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write([]string{row.Body.Name(), row.Parent, cell}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the table as a JSON array with the radii in the provided length unit.
func WriteJSON(w io.Writer, rows []SOIRow, u units.Unit) error {
	records := make([]soiRecord, len(rows))
	for i, row := range rows {
		v, ok, err := radiusIn(row, u)
		if err != nil {
			return err
		}
		records[i] = soiRecord{Body: row.Body.Name(), Parent: row.Parent, Applicable: ok, Unit: u.Symbol()}
		if ok {
			records[i].Radius = &v
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
