package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/HassanBassiouny/AQLLM/internal/common"
	"github.com/HassanBassiouny/AQLLM/internal/env"
)

// Row is one entry of a Response's data table, suitable for chart rendering.
type Row struct {
	Region env.Region `json:"region"`
	Metric env.Metric `json:"metric"`
	Value  float64    `json:"value"`
}

// Response is the structured answer to a question: a natural-language
// summary plus an optional table of the data it was derived from.
type Response struct {
	Text   string     `json:"text"`
	Intent Intent     `json:"intent"`
	Region env.Region `json:"region,omitempty"`
	Metric env.Metric `json:"metric,omitempty"`
	Table  []Row      `json:"table,omitempty"`
	NoData bool       `json:"noData,omitempty"`
}

const noDataText = "No environmental data is available yet. Try again once readings have been collected."

// Answer produces a Response for the parsed query over the given snapshots
// (one per region, the most recent each). It never fails: missing data and
// unresolvable questions degrade to fixed fallback responses. The snapshot
// slice is treated as read-only.
func Answer(q Query, snaps []env.Snapshot) Response {
	if len(snaps) == 0 {
		return Response{Text: noDataText, Intent: q.Intent, NoData: true}
	}

	switch q.Intent {
	case IntentComparison:
		return answerComparison(q, snaps)
	case IntentRanking:
		return answerRanking(q, snaps)
	case IntentHealthGuidance:
		return answerHealth(q, snaps)
	case IntentMetricLookup:
		return answerLookup(q, snaps)
	default:
		return answerGeneral(q, snaps)
	}
}

// metricOf resolves the query's metric, falling back to the primary one.
func metricOf(q Query) env.Metric {
	if q.HasMetric {
		return q.Metric
	}
	return env.DefaultMetric
}

// tableFor builds one row per snapshot for the given metric.
func tableFor(snaps []env.Snapshot, metric env.Metric) []Row {
	rows := make([]Row, 0, len(snaps))
	for _, s := range snaps {
		rows = append(rows, Row{Region: s.Region, Metric: metric, Value: s.Value(metric)})
	}
	return rows
}

func sortRows(rows []Row, ascending bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		if ascending {
			return rows[i].Value < rows[j].Value
		}
		return rows[i].Value > rows[j].Value
	})
}

func formatValue(metric env.Metric, v float64) string {
	if unit := metric.Unit(); unit != "" {
		return fmt.Sprintf("%.1f %s", v, unit)
	}
	return fmt.Sprintf("%.0f", v)
}

func answerComparison(q Query, snaps []env.Snapshot) Response {
	metric := metricOf(q)
	rows := tableFor(snaps, metric)
	sortRows(rows, false)

	highest := rows[0]
	lowest := rows[len(rows)-1]

	text := fmt.Sprintf(
		"Comparing %s across %d regions: %s records the highest value at %s, while %s has the lowest at %s.",
		metric, len(rows),
		highest.Region, formatValue(metric, highest.Value),
		lowest.Region, formatValue(metric, lowest.Value),
	)

	return Response{Text: text, Intent: q.Intent, Metric: metric, Table: rows}
}

func answerRanking(q Query, snaps []env.Snapshot) Response {
	metric := metricOf(q)
	rows := tableFor(snaps, metric)

	// "best"/"lowest" style questions want the smallest values first;
	// "worst"/"highest" style questions the largest.
	ascending := common.HasAny(strings.ToLower(q.Text), "best", "lowest", "cleanest", "coldest")
	sortRows(rows, ascending)

	var b strings.Builder
	fmt.Fprintf(&b, "Regions ranked by %s:", metric)
	for i, row := range rows {
		fmt.Fprintf(&b, " %d. %s (%s)", i+1, row.Region, formatValue(metric, row.Value))
		if i < len(rows)-1 {
			b.WriteByte(';')
		} else {
			b.WriteByte('.')
		}
	}

	return Response{Text: b.String(), Intent: q.Intent, Metric: metric, Table: rows}
}

func answerHealth(q Query, snaps []env.Snapshot) Response {
	// Use the resolved region, or fall back to the worst-scoring one so the
	// guidance covers the most affected population.
	var target env.Snapshot
	if q.HasRegion {
		found := false
		for _, s := range snaps {
			if s.Region == q.Region {
				target = s
				found = true
				break
			}
		}
		if !found {
			return Response{
				Text:   fmt.Sprintf("No recent readings are available for %s.", q.Region),
				Intent: q.Intent,
				Region: q.Region,
				NoData: true,
			}
		}
	} else {
		target = snaps[0]
		for _, s := range snaps[1:] {
			if s.AQI() > target.AQI() {
				target = s
			}
		}
	}

	aqi := target.AQI()
	sev := env.SeverityForAQI(aqi)

	text := fmt.Sprintf(
		"Air quality in %s is currently %s (AQI %.0f). %s",
		target.Region, sev, aqi, sev.Guidance(),
	)

	return Response{
		Text:   text,
		Intent: q.Intent,
		Region: target.Region,
		Metric: env.MetricAQI,
		Table:  []Row{{Region: target.Region, Metric: env.MetricAQI, Value: aqi}},
	}
}

func answerLookup(q Query, snaps []env.Snapshot) Response {
	metric := metricOf(q)

	if q.HasRegion {
		for _, s := range snaps {
			if s.Region == q.Region {
				v := s.Value(metric)
				text := fmt.Sprintf(
					"The latest %s reading for %s is %s (as of %s).",
					metric, s.Region, formatValue(metric, v),
					s.Timestamp.Format("2006-01-02 15:04 UTC"),
				)
				return Response{
					Text:   text,
					Intent: q.Intent,
					Region: s.Region,
					Metric: metric,
					Table:  []Row{{Region: s.Region, Metric: metric, Value: v}},
				}
			}
		}
		return Response{
			Text:   fmt.Sprintf("No recent readings are available for %s.", q.Region),
			Intent: q.Intent,
			Region: q.Region,
			Metric: metric,
			NoData: true,
		}
	}

	// No region resolved: report the value for every region.
	rows := tableFor(snaps, metric)
	text := fmt.Sprintf("Latest %s readings for all %d regions are included below.", metric, len(rows))
	return Response{Text: text, Intent: q.Intent, Metric: metric, Table: rows}
}

func answerGeneral(q Query, snaps []env.Snapshot) Response {
	rows := tableFor(snaps, env.MetricAQI)
	sortRows(rows, false)

	var b strings.Builder

	// When nothing in the question matched, say so rather than pretending
	// the narrative answers it.
	if q.Intent == IntentGeneralDescription && !q.HasRegion && !q.HasMetric {
		b.WriteString("I could not match your question precisely, so here is an overview of all regions. ")
	}

	fmt.Fprintf(&b, "Current conditions across %d Egyptian regions: ", len(rows))
	for i, row := range rows {
		sev := env.SeverityForAQI(row.Value)
		fmt.Fprintf(&b, "%s has %s air quality (AQI %.0f)", row.Region, sev, row.Value)
		if i < len(rows)-1 {
			b.WriteString("; ")
		} else {
			b.WriteString(". ")
		}
	}

	if q.HasRegion {
		fmt.Fprintf(&b, "%s is a %s.", q.Region, q.Region.Context())
	} else if len(rows) > 0 {
		worst := rows[0]
		fmt.Fprintf(&b, "%s currently reports the poorest air quality; it is a %s.", worst.Region, worst.Region.Context())
	}

	return Response{Text: b.String(), Intent: IntentGeneralDescription, Metric: env.MetricAQI, Table: rows}
}
