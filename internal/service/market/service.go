package market

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/torgprom/econdash/internal/domain/models"
	"github.com/torgprom/econdash/pkg/clients/coingecko"
	"github.com/torgprom/econdash/pkg/clients/worldbank"
)

// CryptoClient exposes the CoinGecko operations the service depends on.
type CryptoClient interface {
	Markets(ctx context.Context, currency string, perPage int) ([]coingecko.Market, error)
	History(ctx context.Context, coinID, currency string, days int) (*coingecko.History, error)
	GlobalData(ctx context.Context) (*coingecko.Global, error)
}

// IndicatorClient exposes the World Bank operations the service depends on.
type IndicatorClient interface {
	Indicators(ctx context.Context, countries, indicators []string, startYear, endYear int) ([]worldbank.Point, error)
}

// Service proxies external market data for the dashboard.
type Service struct {
	crypto     CryptoClient
	indicators IndicatorClient
	logger     *zap.Logger
}

// NewService wires the market data service.
func NewService(crypto CryptoClient, indicators IndicatorClient, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{crypto: crypto, indicators: indicators, logger: logger}
}

// CryptoMarkets returns top coins by market cap.
func (s *Service) CryptoMarkets(ctx context.Context, currency string, perPage int) ([]coingecko.Market, error) {
	if currency == "" {
		currency = "usd"
	}
	if perPage <= 0 || perPage > 250 {
		perPage = 100
	}
	return s.crypto.Markets(ctx, currency, perPage)
}

// CryptoHistory returns the daily chart for one coin.
func (s *Service) CryptoHistory(ctx context.Context, coinID, currency string, days int) (*coingecko.History, error) {
	if currency == "" {
		currency = "usd"
	}
	if days <= 0 || days > 365 {
		days = 30
	}
	return s.crypto.History(ctx, coinID, currency, days)
}

// CryptoGlobal returns aggregate crypto market data.
func (s *Service) CryptoGlobal(ctx context.Context) (*coingecko.Global, error) {
	return s.crypto.GlobalData(ctx)
}

// Indicators fetches World Bank indicators, falling back to built-in sample
// data when the upstream API is unreachable so the demo keeps working offline.
func (s *Service) Indicators(ctx context.Context, countries, indicators []string, startYear, endYear int) ([]worldbank.Point, error) {
	if len(countries) == 0 {
		countries = []string{"UA", "US", "DE", "PL"}
	}
	if len(indicators) == 0 {
		indicators = []string{"GDP", "GDP_PER_CAPITA", "INFLATION", "UNEMPLOYMENT"}
	}
	if startYear == 0 || endYear == 0 || startYear > endYear {
		endYear = time.Now().Year() - 1
		startYear = endYear - 3
	}

	points, err := s.indicators.Indicators(ctx, countries, indicators, startYear, endYear)
	if err != nil {
		s.logger.Warn("worldbank api unavailable, serving sample data", zap.Error(err))
		return sampleIndicators(), nil
	}
	if len(points) == 0 {
		s.logger.Warn("worldbank api returned no data, serving sample data")
		return sampleIndicators(), nil
	}
	return points, nil
}

// HealthIndicator is one scored component of a country's health assessment.
type HealthIndicator struct {
	Value  float64 `json:"value"`
	Score  int     `json:"score"`
	Weight float64 `json:"weight"`
}

// HealthReport is the weighted economic health assessment for one country.
type HealthReport struct {
	Country     string                     `json:"country"`
	CountryName string                     `json:"country_name"`
	Score       float64                    `json:"health_score"`
	Level       string                     `json:"health_level"`
	Indicators  map[string]HealthIndicator `json:"indicators"`
	LatestYear  int                        `json:"latest_year"`
}

// EconomicHealth scores countries on GDP per capita (30%), inflation (25%),
// unemployment (25%) and life expectancy (20%).
func (s *Service) EconomicHealth(ctx context.Context, countries []string) ([]HealthReport, error) {
	indicators := []string{"GDP_PER_CAPITA", "INFLATION", "UNEMPLOYMENT", "LIFE_EXPECTANCY"}
	points, err := s.Indicators(ctx, countries, indicators, 0, 0)
	if err != nil {
		return nil, err
	}

	// Latest available value per country and indicator.
	type latest struct {
		value float64
		year  int
	}
	byCountry := make(map[string]map[string]latest)
	names := make(map[string]string)

	for _, p := range points {
		if p.Value == nil {
			continue
		}
		if byCountry[p.Country] == nil {
			byCountry[p.Country] = make(map[string]latest)
		}
		if current, ok := byCountry[p.Country][p.Indicator]; !ok || p.Year > current.year {
			byCountry[p.Country][p.Indicator] = latest{value: *p.Value, year: p.Year}
		}
		names[p.Country] = p.CountryName
	}

	reports := make([]HealthReport, 0, len(byCountry))
	for country, values := range byCountry {
		report := HealthReport{
			Country:     country,
			CountryName: names[country],
			Indicators:  make(map[string]HealthIndicator),
		}

		var total float64
		add := func(indicator string, weight float64, score func(float64) int) {
			v, ok := values[indicator]
			if !ok {
				return
			}
			sc := score(v.value)
			total += float64(sc) * weight
			report.Indicators[indicator] = HealthIndicator{Value: v.value, Score: sc, Weight: weight}
			if v.year > report.LatestYear {
				report.LatestYear = v.year
			}
		}

		add("GDP_PER_CAPITA", 0.3, scoreGDPPerCapita)
		add("INFLATION", 0.25, scoreInflation)
		add("UNEMPLOYMENT", 0.25, scoreUnemployment)
		add("LIFE_EXPECTANCY", 0.2, scoreLifeExpectancy)

		report.Score = models.RoundMoney(total)
		report.Level = healthLevel(total)
		reports = append(reports, report)
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].Score > reports[j].Score })
	return reports, nil
}

func scoreGDPPerCapita(v float64) int {
	switch {
	case v > 50000:
		return 100
	case v > 25000:
		return 80
	case v > 10000:
		return 60
	case v > 5000:
		return 40
	default:
		return 20
	}
}

func scoreInflation(v float64) int {
	switch {
	case v < 2:
		return 100
	case v < 5:
		return 80
	case v < 10:
		return 60
	case v < 20:
		return 40
	default:
		return 20
	}
}

func scoreUnemployment(v float64) int {
	switch {
	case v < 3:
		return 100
	case v < 5:
		return 80
	case v < 8:
		return 60
	case v < 15:
		return 40
	default:
		return 20
	}
}

func scoreLifeExpectancy(v float64) int {
	switch {
	case v > 80:
		return 100
	case v > 75:
		return 80
	case v > 70:
		return 60
	case v > 65:
		return 40
	default:
		return 20
	}
}

func healthLevel(score float64) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 60:
		return "Good"
	case score >= 40:
		return "Medium"
	case score >= 20:
		return "Poor"
	default:
		return "Critical"
	}
}
