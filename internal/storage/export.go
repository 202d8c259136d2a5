package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/zntune/internal/response"
)

type ExportData struct {
	RunMetadata
	Times  []float64 `json:"times"`
	Values []float64 `json:"values"`
}

func ExportJSON(w io.Writer, meta *RunMetadata, curve *response.Curve) error {
	data := ExportData{RunMetadata: *meta}
	if curve != nil {
		data.Times = curve.Times
		data.Values = curve.Values
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteCurveCSV writes a "time,y" header and one row per sample with
// round-trip precision.
func WriteCurveCSV(w io.Writer, curve *response.Curve) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"time", "y"}); err != nil {
		return err
	}
	for i := 0; i < curve.Len(); i++ {
		row := []string{
			strconv.FormatFloat(curve.Times[i], 'g', -1, 64),
			strconv.FormatFloat(curve.Values[i], 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
