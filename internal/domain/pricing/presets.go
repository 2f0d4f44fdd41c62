package pricing

import (
	"sort"

	"github.com/shopspring/decimal"
)

// SizePreset pairs a canvas size with its purchase cost and shipping
// weight. Framed presets weigh far more than rolled ones because the
// stretcher bars drive volumetric weight.
type SizePreset struct {
	Key       string          `json:"key"`
	Name      string          `json:"name"`
	CostCNY   decimal.Decimal `json:"cost_cny"`
	WeightKG  decimal.Decimal `json:"weight_kg"`
	IsFramed  bool            `json:"is_framed"`
}

func preset(key, name string, cost, weight float64, framed bool) SizePreset {
	return SizePreset{
		Key:      key,
		Name:     name,
		CostCNY:  decimal.NewFromFloat(cost),
		WeightKG: decimal.NewFromFloat(weight),
		IsFramed: framed,
	}
}

var sizePresets = map[string]SizePreset{
	"20x24_rolled": preset("20x24_rolled", `Rolled 20x24" (50x60cm)`, 65, 0.6, false),
	"24x36_rolled": preset("24x36_rolled", `Rolled 24x36" (60x90cm)`, 119, 1.0, false),
	"30x40_rolled": preset("30x40_rolled", `Rolled 30x40" (75x100cm)`, 185, 1.5, false),
	"36x48_rolled": preset("36x48_rolled", `Rolled 36x48" (90x120cm)`, 260, 2.0, false),
	"48x72_rolled": preset("48x72_rolled", `Rolled 48x72" (120x180cm)`, 450, 3.5, false),
	"20x24_framed": preset("20x24_framed", `Framed 20x24" (50x60cm)`, 85, 6.0, true),
	"24x36_framed": preset("24x36_framed", `Framed 24x36" (60x90cm)`, 149, 12.0, true),
	"30x40_framed": preset("30x40_framed", `Framed 30x40" (75x100cm)`, 225, 18.0, true),
	"36x48_framed": preset("36x48_framed", `Framed 36x48" (90x120cm)`, 320, 28.0, true),
	"48x72_framed": preset("48x72_framed", `Framed 48x72" (120x180cm)`, 550, 55.0, true),
}

// PresetByKey returns the preset for key, if configured
func PresetByKey(key string) (SizePreset, bool) {
	p, ok := sizePresets[key]
	return p, ok
}

// AllPresets returns every size preset, rolled sizes first, sorted by key
func AllPresets() []SizePreset {
	out := make([]SizePreset, 0, len(sizePresets))
	for _, p := range sizePresets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsFramed != out[j].IsFramed {
			return !out[i].IsFramed
		}
		return out[i].Key < out[j].Key
	})
	return out
}
