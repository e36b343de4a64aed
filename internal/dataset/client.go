package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"econmodels/pkg/constants"
)

// Client fetches datasets from a statistics dissemination API speaking
// JSON-stat 2.0 (the Eurostat data endpoint shape).
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient initializes a dataset client. An empty baseURL selects the
// Eurostat dissemination API.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = constants.DefaultStatsBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: constants.DefaultRequestTimeoutSeconds * time.Second,
		},
		logger: logger,
	}
}

// jsonStatDataset mirrors the subset of JSON-stat 2.0 the converter
// needs: dimension order and sizes, category indexes, and the value
// array or sparse value map.
type jsonStatDataset struct {
	Label     string                 `json:"label"`
	ID        []string               `json:"id"`
	Size      []int                  `json:"size"`
	Dimension map[string]jsonStatDim `json:"dimension"`
	Value     json.RawMessage        `json:"value"`
}

type jsonStatDim struct {
	Category struct {
		Index map[string]int `json:"index"`
	} `json:"category"`
}

// GetDataset fetches one dataset by code and converts it to a Table
// with one row per observation: the dimension columns in dataset order
// plus a "values" column.
func (c *Client) GetDataset(ctx context.Context, datasetID string, params url.Values) (*Table, error) {
	if datasetID == "" {
		return nil, fmt.Errorf("dataset: dataset id cannot be empty")
	}

	query := url.Values{}
	for key, vals := range params {
		for _, v := range vals {
			query.Add(key, v)
		}
	}
	if query.Get("format") == "" {
		query.Set("format", "JSON")
	}

	requestURL := fmt.Sprintf("%s/%s?%s", c.baseURL, url.PathEscape(datasetID), query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dataset: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dataset: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dataset: unexpected status code %d for dataset %s", resp.StatusCode, datasetID)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("dataset: failed to read response: %w", err)
	}

	table, err := decodeJSONStat(body)
	if err != nil {
		return nil, fmt.Errorf("dataset: dataset %s: %w", datasetID, err)
	}

	c.logger.Info("dataset fetched",
		zap.String("op", "dataset.GetDataset"),
		zap.String("dataset", datasetID),
		zap.String("label", table.Label),
		zap.Int("rows", table.Len()),
	)

	return table, nil
}

// decodeJSONStat converts a JSON-stat 2.0 payload to a Table. The
// value array is indexed row-major over the dimension sizes; sparse
// responses key values by the linear index instead.
func decodeJSONStat(body []byte) (*Table, error) {
	var ds jsonStatDataset
	if err := json.Unmarshal(body, &ds); err != nil {
		return nil, fmt.Errorf("failed to decode JSON-stat payload: %w", err)
	}
	if len(ds.ID) == 0 || len(ds.ID) != len(ds.Size) {
		return nil, fmt.Errorf("malformed JSON-stat payload: %d dimensions, %d sizes", len(ds.ID), len(ds.Size))
	}

	values, err := decodeValues(ds.Value)
	if err != nil {
		return nil, err
	}

	// Invert each dimension's category index: position -> code.
	codes := make([][]string, len(ds.ID))
	for d, dim := range ds.ID {
		meta, ok := ds.Dimension[dim]
		if !ok {
			return nil, fmt.Errorf("malformed JSON-stat payload: dimension %q has no metadata", dim)
		}
		codes[d] = make([]string, ds.Size[d])
		for code, position := range meta.Category.Index {
			if position < 0 || position >= ds.Size[d] {
				return nil, fmt.Errorf("malformed JSON-stat payload: dimension %q position %d out of range", dim, position)
			}
			codes[d][position] = code
		}
	}

	columns := append(append([]string(nil), ds.ID...), ValuesColumn)
	table := NewTable(columns...)
	table.Label = ds.Label

	total := 1
	for _, size := range ds.Size {
		total *= size
	}
	for linear := 0; linear < total; linear++ {
		value, ok := values[linear]
		if !ok {
			continue
		}
		row := make(Row, len(ds.ID)+1)
		remainder := linear
		for d := len(ds.ID) - 1; d >= 0; d-- {
			row[ds.ID[d]] = codes[d][remainder%ds.Size[d]]
			remainder /= ds.Size[d]
		}
		row[ValuesColumn] = value
		if err := table.AppendRow(row); err != nil {
			return nil, err
		}
	}

	return table, nil
}

func decodeValues(raw json.RawMessage) (map[int]float64, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("malformed JSON-stat payload: missing value field")
	}

	values := make(map[int]float64)
	if raw[0] == '[' {
		var list []*float64
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("failed to decode value array: %w", err)
		}
		for i, v := range list {
			if v != nil {
				values[i] = *v
			}
		}
		return values, nil
	}

	var sparse map[string]*float64
	if err := json.Unmarshal(raw, &sparse); err != nil {
		return nil, fmt.Errorf("failed to decode value map: %w", err)
	}
	for key, v := range sparse {
		if v == nil {
			continue
		}
		index, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("failed to decode value map key %q: %w", key, err)
		}
		values[index] = *v
	}
	return values, nil
}
