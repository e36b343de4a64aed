package dataset

import (
	"fmt"

	"github.com/beevik/etree"
)

// ParseSDMX converts an SDMX-ML generic data message into a Table.
// It is the fallback for sources that do not serve JSON-stat: each
// Obs contributes one row holding the series key dimensions, the
// observation dimension, and the observation value.
func ParseSDMX(body []byte) (*Table, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, fmt.Errorf("dataset: failed to parse SDMX document: %w", err)
	}

	series := doc.FindElements("//Series")
	if len(series) == 0 {
		return nil, fmt.Errorf("dataset: no series found in SDMX document")
	}

	// Collect the column set from the first series so the table can be
	// created before rows are appended.
	var columns []string
	seen := make(map[string]bool)
	for _, s := range series {
		for _, kv := range s.FindElements("./SeriesKey/Value") {
			id := kv.SelectAttrValue("id", "")
			if id != "" && !seen[id] {
				seen[id] = true
				columns = append(columns, id)
			}
		}
	}
	columns = append(columns, "time", ValuesColumn)

	table := NewTable(columns...)

	for _, s := range series {
		key := make(map[string]string)
		for _, kv := range s.FindElements("./SeriesKey/Value") {
			key[kv.SelectAttrValue("id", "")] = kv.SelectAttrValue("value", "")
		}

		for _, obs := range s.FindElements("./Obs") {
			row := make(Row, len(key)+2)
			for id, value := range key {
				if id != "" {
					row[id] = value
				}
			}

			if dim := obs.FindElement("./ObsDimension"); dim != nil {
				row["time"] = dim.SelectAttrValue("value", "")
			}

			obsValue := obs.FindElement("./ObsValue")
			if obsValue == nil {
				continue
			}
			var value float64
			if _, err := fmt.Sscanf(obsValue.SelectAttrValue("value", ""), "%f", &value); err != nil {
				return nil, fmt.Errorf("dataset: failed to parse observation value %q: %w",
					obsValue.SelectAttrValue("value", ""), err)
			}
			row[ValuesColumn] = value

			if err := table.AppendRow(row); err != nil {
				return nil, err
			}
		}
	}

	if table.Len() == 0 {
		return nil, fmt.Errorf("dataset: SDMX document contains no observations")
	}

	return table, nil
}
