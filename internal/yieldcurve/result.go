package yieldcurve

import (
	"strconv"
	"time"
)

// AnalysisResult is the terminal artifact of one pipeline run: the labeled
// component set, cumulative explained variance over the full maturity axis,
// the centers and scales retained from standardization, run metadata, and
// any non-fatal warnings raised along the way.
type AnalysisResult struct {
	Components ComponentSet `json:"component_set"`
	Cumulative []float64    `json:"cumulative_variance"`
	Centers    []float64    `json:"centers"`
	Scales     []float64    `json:"scales"`
	Meta       RunMetadata  `json:"metadata"`
	Warnings   []Warning    `json:"warnings,omitempty"`
}

// newAnalysisResult assembles the pipeline outputs into an AnalysisResult.
// Pure assembly: no numeric computation beyond the running variance sum,
// and no error paths of its own.
func newAnalysisResult(cs ComponentSet, sm StandardizedMatrix, cfg AnalysisConfig, warnings []Warning) *AnalysisResult {
	cumulative := make([]float64, len(cs.AllRatios))
	sum := 0.0
	for i, r := range cs.AllRatios {
		sum += r
		cumulative[i] = sum
	}

	meta := RunMetadata{
		Observations: len(cs.Dates),
		Maturities:   cs.Maturities,
		Components:   cs.K(),
		Policy:       cfg.Policy,
		Mode:         cfg.Mode,
		PolicyName:   cfg.Policy.String(),
		ModeName:     cfg.Mode.String(),
		ComputedAt:   time.Now().UTC(),
	}
	if len(cs.Dates) > 0 {
		meta.StartDate = cs.Dates[0]
		meta.EndDate = cs.Dates[len(cs.Dates)-1]
	}

	return &AnalysisResult{
		Components: cs,
		Cumulative: cumulative,
		Centers:    sm.Centers,
		Scales:     sm.Scales,
		Meta:       meta,
		Warnings:   warnings,
	}
}

// componentName returns the conventional short name for component i (1-based).
func componentName(i int) string {
	return "PC" + strconv.Itoa(i)
}

// LoadingsTable returns the loadings as a maturity × component table with
// maturities top-to-bottom in canonical ascending order and components
// left-to-right by descending variance.
func (r *AnalysisResult) LoadingsTable() (headers []string, records [][]string) {
	headers = []string{"Maturity"}
	for _, c := range r.Components.Components {
		headers = append(headers, componentName(c.Index))
	}
	for j, m := range r.Components.Maturities {
		record := []string{string(m)}
		for _, c := range r.Components.Components {
			record = append(record, formatFloat(c.Loadings[j]))
		}
		records = append(records, record)
	}
	return headers, records
}

// ScoresTable returns the score series as a date × component table in
// ascending date order.
func (r *AnalysisResult) ScoresTable() (headers []string, records [][]string) {
	headers = []string{"Date"}
	for _, c := range r.Components.Components {
		headers = append(headers, componentName(c.Index))
	}
	for i, d := range r.Components.Dates {
		record := []string{d.Format("2006-01-02")}
		for _, c := range r.Components.Components {
			record = append(record, formatFloat(c.Scores[i]))
		}
		records = append(records, record)
	}
	return headers, records
}

// VarianceSummaryTable returns one row per component over the full maturity
// axis: index, explained-variance ratio, cumulative ratio, and label.
// Components beyond the retained K carry the Unlabeled-N fallback.
func (r *AnalysisResult) VarianceSummaryTable() (headers []string, records [][]string) {
	headers = []string{"Component", "Explained_Variance", "Cumulative_Variance", "Label"}
	for i, ratio := range r.Components.AllRatios {
		label := UnlabeledLabel(i + 1)
		if i < r.Components.K() {
			label = r.Components.Components[i].Label
		}
		records = append(records, []string{
			componentName(i + 1),
			formatFloat(ratio),
			formatFloat(r.Cumulative[i]),
			string(label),
		})
	}
	return headers, records
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
