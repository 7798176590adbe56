package env

import "math"

// aqiBreakpoint is one segment of the piecewise-linear AQI scale.
type aqiBreakpoint struct {
	cLow, cHigh float64
	iLow, iHigh float64
}

// US EPA breakpoints for 24h PM2.5 (µg/m³) and PM10 (µg/m³).
var (
	pm25Breakpoints = []aqiBreakpoint{
		{0, 12.0, 0, 50},
		{12.1, 35.4, 51, 100},
		{35.5, 55.4, 101, 150},
		{55.5, 150.4, 151, 200},
		{150.5, 250.4, 201, 300},
		{250.5, 500.4, 301, 500},
	}
	pm10Breakpoints = []aqiBreakpoint{
		{0, 54, 0, 50},
		{55, 154, 51, 100},
		{155, 254, 101, 150},
		{255, 354, 151, 200},
		{355, 424, 201, 300},
		{425, 604, 301, 500},
	}
)

func subIndex(c float64, bps []aqiBreakpoint) float64 {
	if c <= 0 {
		return 0
	}
	for _, bp := range bps {
		if c <= bp.cHigh {
			return bp.iLow + (bp.iHigh-bp.iLow)*(c-bp.cLow)/(bp.cHigh-bp.cLow)
		}
	}
	// Beyond the scale; clamp to the top.
	return 500
}

// AQI derives an air quality index from the snapshot's particulate readings.
// The overall index is the worse of the PM2.5 and PM10 sub-indices.
func (s Snapshot) AQI() float64 {
	i25 := subIndex(s.PM25, pm25Breakpoints)
	i10 := subIndex(s.PM10, pm10Breakpoints)
	return math.Round(math.Max(i25, i10))
}

// Severity is the ordinal health classification of an AQI value.
type Severity string

const (
	SeverityGood               Severity = "good"
	SeverityModerate           Severity = "moderate"
	SeverityUnhealthySensitive Severity = "unhealthy for sensitive groups"
	SeverityUnhealthy          Severity = "unhealthy"
	SeverityHazardous          Severity = "hazardous"
)

// SeverityForAQI maps an AQI value onto the fixed severity scale.
func SeverityForAQI(aqi float64) Severity {
	switch {
	case aqi <= 50:
		return SeverityGood
	case aqi <= 100:
		return SeverityModerate
	case aqi <= 150:
		return SeverityUnhealthySensitive
	case aqi <= 200:
		return SeverityUnhealthy
	default:
		return SeverityHazardous
	}
}

// Guidance returns the canned health recommendation for a severity tier,
// following WHO-style guidance language.
func (sev Severity) Guidance() string {
	switch sev {
	case SeverityGood:
		return "Air quality is satisfactory. Outdoor activity is safe for everyone."
	case SeverityModerate:
		return "Air quality is acceptable. Unusually sensitive individuals should consider limiting prolonged outdoor exertion."
	case SeverityUnhealthySensitive:
		return "Sensitive groups (children, the elderly, and people with respiratory or heart conditions) should reduce prolonged outdoor exertion."
	case SeverityUnhealthy:
		return "Everyone may begin to experience health effects. Sensitive groups should avoid outdoor exertion; others should limit it."
	case SeverityHazardous:
		return "Health alert: everyone should avoid outdoor activity. Keep windows closed and use air filtration if available."
	default:
		return ""
	}
}
