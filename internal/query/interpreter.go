// Package query turns free-text questions about environmental conditions
// into structured answers over the current set of region snapshots.
package query

import (
	"strings"

	"github.com/HassanBassiouny/AQLLM/internal/common"
	"github.com/HassanBassiouny/AQLLM/internal/env"
)

// Intent is the classified purpose of a user's question.
type Intent string

const (
	IntentComparison         Intent = "comparison"
	IntentRanking            Intent = "ranking"
	IntentHealthGuidance     Intent = "health_guidance"
	IntentMetricLookup       Intent = "metric_lookup"
	IntentGeneralDescription Intent = "general_description"
)

// Query is a parsed question: the raw text plus the resolved intent, region
// and metric. HasRegion/HasMetric false means "all regions" / "default metric".
type Query struct {
	Text   string
	Intent Intent

	Region    env.Region
	HasRegion bool

	Metric    env.Metric
	HasMetric bool
}

// Parse classifies the question and extracts its region and metric.
func Parse(text string) Query {
	q := Query{Text: text}
	q.Intent = Classify(text)
	q.Region, q.HasRegion = ExtractRegion(text)
	q.Metric, q.HasMetric = ExtractMetric(text)
	return q
}

// intentRule pairs a keyword predicate with the intent it signals. Rules are
// evaluated in order; the first match wins, which makes the tie-break policy
// explicit: comparison beats ranking beats health beats lookup.
type intentRule struct {
	match  func(string) bool
	intent Intent
}

var intentRules = []intentRule{
	{
		match: func(s string) bool {
			return common.HasAny(s, "compare", "comparison", "versus", " vs ", "across regions", "across all regions", "difference between")
		},
		intent: IntentComparison,
	},
	{
		match: func(s string) bool {
			return common.HasAny(s, "best", "worst", "highest", "lowest", "cleanest", "dirtiest", "most polluted", "hottest", "coldest", "rank")
		},
		intent: IntentRanking,
	},
	{
		match: func(s string) bool {
			return common.HasAny(s, "health", "sensitive", "recommend", "risk", "safe", "danger", "precaution", "advisory")
		},
		intent: IntentHealthGuidance,
	},
	{
		match: func(s string) bool {
			_, ok := ExtractMetric(s)
			return ok
		},
		intent: IntentMetricLookup,
	},
}

// Classify maps a question to an intent by case-insensitive keyword matching.
// Unmatched text falls back to a general description of the full dataset.
func Classify(text string) Intent {
	s := strings.ToLower(text)
	for _, rule := range intentRules {
		if rule.match(s) {
			return rule.intent
		}
	}
	return IntentGeneralDescription
}

// regionAliases lists known alternative names in match order. Canonical names
// are checked first, so an alias can never shadow them.
var regionAliases = []struct {
	needle string
	region env.Region
}{
	{"cairo", env.RegionGreaterCairo},
	{"giza", env.RegionGreaterCairo},
	{"hurghada", env.RegionRedSea},
	{"sharm", env.RegionSinai},
	{"dahab", env.RegionSinai},
	{"luxor", env.RegionUpperEgypt},
	{"aswan", env.RegionUpperEgypt},
	{"alexandria", env.RegionNorthCoast},
	{"marsa matruh", env.RegionNorthCoast},
	{"suez", env.RegionCanalCities},
	{"port said", env.RegionCanalCities},
	{"ismailia", env.RegionCanalCities},
	{"kharga", env.RegionNewValley},
	{"tanta", env.RegionDelta},
	{"mansoura", env.RegionDelta},
	{"nile delta", env.RegionDelta},
}

// ExtractRegion finds the first monitored region named in the text, either by
// its canonical name or a known alias. A false result means the question
// applies to all regions.
func ExtractRegion(text string) (env.Region, bool) {
	s := strings.ToLower(text)

	for _, r := range env.AllRegions() {
		if strings.Contains(s, strings.ToLower(string(r))) {
			return r, true
		}
	}
	for _, a := range regionAliases {
		if strings.Contains(s, a.needle) {
			return a.region, true
		}
	}
	return "", false
}

// metricSynonyms lists metric names and synonyms in match order. More
// specific needles come before the generic ones they could collide with.
var metricSynonyms = []struct {
	needle string
	metric env.Metric
}{
	{"pm2.5", env.MetricPM25},
	{"pm25", env.MetricPM25},
	{"fine particle", env.MetricPM25},
	{"pm10", env.MetricPM10},
	{"dust", env.MetricPM10},
	{"nitrogen dioxide", env.MetricNO2},
	{"no2", env.MetricNO2},
	{"carbon dioxide", env.MetricCO2},
	{"co2", env.MetricCO2},
	{"temperature", env.MetricTemperature},
	{"temp", env.MetricTemperature},
	{"hot", env.MetricTemperature},
	{"cold", env.MetricTemperature},
	{"warm", env.MetricTemperature},
	{"humidity", env.MetricHumidity},
	{"humid", env.MetricHumidity},
	{"moisture", env.MetricHumidity},
	{"air quality", env.MetricAQI},
	{"aqi", env.MetricAQI},
	{"pollut", env.MetricAQI},
	{"smog", env.MetricAQI},
}

// ExtractMetric finds the first metric named in the text. A false result
// means the default (primary) metric should be used.
func ExtractMetric(text string) (env.Metric, bool) {
	s := strings.ToLower(text)
	for _, syn := range metricSynonyms {
		if strings.Contains(s, syn.needle) {
			return syn.metric, true
		}
	}
	return "", false
}
