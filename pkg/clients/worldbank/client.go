package worldbank

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Friendly indicator names mapped to World Bank series codes.
var indicatorCodes = map[string]string{
	"GDP":             "NY.GDP.MKTP.CD",
	"GDP_PER_CAPITA":  "NY.GDP.PCAP.CD",
	"INFLATION":       "FP.CPI.TOTL.ZG",
	"UNEMPLOYMENT":    "SL.UEM.TOTL.ZS",
	"EXPORTS":         "NE.EXP.GNFS.CD",
	"IMPORTS":         "NE.IMP.GNFS.CD",
	"POPULATION":      "SP.POP.TOTL",
	"LIFE_EXPECTANCY": "SP.DYN.LE00.IN",
	"INTERNET_USERS":  "IT.NET.USER.ZS",
	"EDUCATION_EXP":   "SE.XPD.TOTL.GD.ZS",
}

// Stability caps mirroring the upstream API's tolerance in this demo.
const (
	maxCountries  = 8
	maxIndicators = 4
)

// KnownIndicators lists the friendly indicator names this client understands.
func KnownIndicators() []string {
	names := make([]string, 0, len(indicatorCodes))
	for name := range indicatorCodes {
		names = append(names, name)
	}
	return names
}

// resolveIndicator accepts either a friendly name or a raw series code.
func resolveIndicator(name string) (friendly, code string) {
	upper := strings.ToUpper(name)
	if c, ok := indicatorCodes[upper]; ok {
		return upper, c
	}
	for friendlyName, c := range indicatorCodes {
		if c == name {
			return friendlyName, c
		}
	}
	return name, name
}

// Point is one observation of one indicator for one country-year.
type Point struct {
	Country     string   `json:"country"`
	CountryName string   `json:"country_name"`
	Indicator   string   `json:"indicator"`
	Year        int      `json:"year"`
	Value       *float64 `json:"value"`
}

// Client wraps the World Bank v2 JSON API.
type Client struct {
	httpClient *resty.Client
}

// NewClient builds a World Bank client bound to the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	return &Client{httpClient: restyClient}
}

// observation mirrors one element of the World Bank data payload.
type observation struct {
	Indicator struct {
		ID    string `json:"id"`
		Value string `json:"value"`
	} `json:"indicator"`
	Country struct {
		ID    string `json:"id"`
		Value string `json:"value"`
	} `json:"country"`
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// Indicators fetches the requested indicators for the requested countries over
// the year range. Both friendly names (GDP, INFLATION) and raw series codes
// are accepted. Country and indicator lists are capped for API stability.
func (c *Client) Indicators(ctx context.Context, countries, indicators []string, startYear, endYear int) ([]Point, error) {
	if len(countries) > maxCountries {
		countries = countries[:maxCountries]
	}
	if len(indicators) > maxIndicators {
		indicators = indicators[:maxIndicators]
	}

	var points []Point
	for _, indicator := range indicators {
		friendly, code := resolveIndicator(indicator)

		batch, err := c.fetchIndicator(ctx, countries, friendly, code, startYear, endYear)
		if err != nil {
			return nil, err
		}
		points = append(points, batch...)
	}
	return points, nil
}

func (c *Client) fetchIndicator(ctx context.Context, countries []string, friendly, code string, startYear, endYear int) ([]Point, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"format":   "json",
			"date":     fmt.Sprintf("%d:%d", startYear, endYear),
			"per_page": "500",
		}).
		Get(fmt.Sprintf("/country/%s/indicator/%s", strings.Join(countries, ";"), code))
	if err != nil {
		return nil, fmt.Errorf("fetch indicator %s: %w", friendly, err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("worldbank api error: indicator=%s status=%d", friendly, resp.StatusCode())
	}

	// The v2 API wraps data as [pageInfo, observations].
	var envelope []json.RawMessage
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("decode worldbank response: %w", err)
	}
	if len(envelope) < 2 {
		return nil, fmt.Errorf("worldbank response missing data segment for %s", friendly)
	}

	var observations []observation
	if err := json.Unmarshal(envelope[1], &observations); err != nil {
		return nil, fmt.Errorf("decode worldbank observations: %w", err)
	}

	points := make([]Point, 0, len(observations))
	for _, obs := range observations {
		year, err := strconv.Atoi(obs.Date)
		if err != nil {
			continue
		}
		points = append(points, Point{
			Country:     obs.Country.ID,
			CountryName: obs.Country.Value,
			Indicator:   friendly,
			Year:        year,
			Value:       obs.Value,
		})
	}
	return points, nil
}
