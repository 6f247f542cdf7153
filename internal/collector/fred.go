package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"MacroTables/internal/model"
)

// DefaultFREDBaseURL is the public FRED API root.
const DefaultFREDBaseURL = "https://api.stlouisfed.org"

// FREDFetcher implements Fetcher using the FRED series observations API.
type FREDFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewFREDFetcher creates a new fetcher with optional proxy support.
func NewFREDFetcher(baseURL, apiKey, proxyURL string) *FREDFetcher {
	if baseURL == "" {
		baseURL = DefaultFREDBaseURL
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &FREDFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *FREDFetcher) Name() string { return "fred" }

// fredResponse is the JSON shape of /fred/series/observations.
type fredResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// fredMissing is FRED's marker for a period without a value.
const fredMissing = "."

func (f *FREDFetcher) Fetch(ctx context.Context, seriesID string) (model.TimeSeries, error) {
	q := url.Values{}
	q.Set("series_id", seriesID)
	q.Set("api_key", f.APIKey)
	q.Set("file_type", "json")
	endpoint := fmt.Sprintf("%s/fred/series/observations?%s", f.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.TimeSeries{}, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return model.TimeSeries{}, fmt.Errorf("fred fetch %s: %w: %v", seriesID, model.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.TimeSeries{}, fmt.Errorf("fred read body %s: %w: %v", seriesID, model.ErrSourceUnavailable, err)
	}

	var result fredResponse
	if err := json.Unmarshal(body, &result); err != nil {
		if resp.StatusCode != http.StatusOK {
			return model.TimeSeries{}, fmt.Errorf("fred %s: %w: status %d, body: %s",
				seriesID, model.ErrSourceUnavailable, resp.StatusCode, string(body))
		}
		return model.TimeSeries{}, fmt.Errorf("fred decode %s: %w: %v", seriesID, model.ErrSourceUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK || result.ErrorMessage != "" {
		return model.TimeSeries{}, fmt.Errorf("fred %s: %w: status %d: %s",
			seriesID, model.ErrSourceUnavailable, resp.StatusCode, result.ErrorMessage)
	}

	obs := make([]model.Observation, 0, len(result.Observations))
	for _, o := range result.Observations {
		if o.Value == fredMissing || o.Value == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", o.Date)
		if err != nil {
			return model.TimeSeries{}, fmt.Errorf("fred %s: bad date %q: %w", seriesID, o.Date, model.ErrSourceUnavailable)
		}
		v, err := strconv.ParseFloat(o.Value, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return model.TimeSeries{}, fmt.Errorf("fred %s: bad value %q on %s: %w", seriesID, o.Value, o.Date, model.ErrSourceUnavailable)
		}
		obs = append(obs, model.Observation{Time: t, Value: v})
	}
	if len(obs) == 0 {
		return model.TimeSeries{}, fmt.Errorf("fred %s: no data returned: %w", seriesID, model.ErrSourceUnavailable)
	}

	series, err := model.NewTimeSeries(seriesID, obs)
	if err != nil {
		return model.TimeSeries{}, fmt.Errorf("fred %s: %w: %v", seriesID, model.ErrSourceUnavailable, err)
	}
	return series, nil
}
