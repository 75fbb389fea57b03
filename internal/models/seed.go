package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// SeedRow is one flat row of the standards dataset.
type SeedRow struct {
	StandardNo    FlexibleInt `json:"standard_no"`
	StandardTitle string      `json:"standard_title"`
	IndicatorCode string      `json:"indicator_code"`
	IndicatorName string      `json:"indicator_name"`
	Requirements  string      `json:"requirements"`
}

// FlexibleInt accepts JSON numbers and numeric strings. Valid is false when the value could not be coerced.
type FlexibleInt struct {
	Value int
	Valid bool
}

// UnmarshalJSON never fails so that one malformed row does not reject the whole dataset.
func (f *FlexibleInt) UnmarshalJSON(data []byte) error {
	*f = FlexibleInt{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || n != float64(int(n)) {
		return nil
	}
	f.Value = int(n)
	f.Valid = true
	return nil
}

// SeedResult reports what an importer run changed.
type SeedResult struct {
	Rows                int `json:"rows"`
	RowsSkipped         int `json:"rowsSkipped"`
	StandardsUpserted   int `json:"standardsUpserted"`
	IndicatorsProcessed int `json:"indicatorsProcessed"`
	ChecklistAdded      int `json:"checklistItemsAdded"`
}
