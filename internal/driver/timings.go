package driver

import (
	"encoding/json"
	"fmt"

	"tycore/internal/diag"
	"tycore/internal/observ"
	"tycore/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// appendTimingDiagnostic adds an info diagnostic whose note carries the
// timer report as JSON. A full bag is grown by one so timings are never lost.
func appendTimingDiagnostic(bag *diag.Bag, timer *observ.Timer) {
	if bag == nil || timer == nil {
		return
	}
	report := timer.Report()
	payload := timingPayload{Kind: "check", TotalMS: report.TotalMS, Phases: report.Phases}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	entry := diag.New(diag.SevInfo, diag.ObsTimings, source.Span{},
		fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)).
		WithNote(source.Span{}, string(data))
	if bag.Add(entry) {
		return
	}
	grown := diag.NewBag(bag.Len() + 1)
	grown.Merge(bag)
	grown.Add(entry)
	*bag = *grown
}
