package tasks

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/joshjau/hero-dbc/pkg/luagen"
)

// pandemicMultiplier is WoW's pandemic refresh window: an aura refresh
// can extend up to 30% past the base duration.
const pandemicMultiplier = 0.3

// Duration generates SpellDuration.lua by joining SpellDuration.csv
// (duration records) with SpellMisc.csv (spell -> duration mapping).
type Duration struct{}

func (Duration) Name() string  { return "duration" }
func (Duration) Title() string { return "SpellDuration" }
func (Duration) Inputs() []string {
	return []string{"SpellDuration.csv", "SpellMisc.csv"}
}
func (Duration) Output() string { return "SpellDuration.lua" }

// Build implements Task.
func (Duration) Build(ctx context.Context, src *Source) (*Result, error) {
	durTbl, err := src.Load(ctx, "SpellDuration.csv",
		[]string{"id", "duration_1"}, nil)
	if err != nil {
		return nil, err
	}

	type span struct {
		base, max float64
	}
	durations := make(map[string]span)

	bar := src.Progress("Processing base durations", durTbl.Len())
	for i := 0; i < durTbl.Len(); i++ {
		bar.Tick()

		d, err := durTbl.Float(i, "duration_1")
		if err != nil || d <= 0 {
			continue
		}
		base := round3(d)
		durations[durTbl.Field(i, "id")] = span{
			base: base,
			max:  base + round3(d*pandemicMultiplier),
		}
	}
	bar.Done()

	miscTbl, err := src.Load(ctx, "SpellMisc.csv",
		[]string{"id_parent", "id_duration"}, nil)
	if err != nil {
		return nil, err
	}

	spans := make(map[int]span)

	bar = src.Progress("Processing spell durations", miscTbl.Len())
	for i := 0; i < miscTbl.Len(); i++ {
		bar.Tick()

		durationID := miscTbl.Field(i, "id_duration")
		if miscTbl.OptionalInt(i, "id_duration") <= 0 {
			continue
		}
		s, ok := durations[durationID]
		if !ok {
			continue
		}
		id, err := miscTbl.Int(i, "id_parent")
		if err != nil {
			continue
		}
		if _, seen := spans[id]; seen {
			continue
		}
		spans[id] = s
	}
	bar.Done()

	ids := make([]int, 0, len(spans))
	for id := range spans {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	entries := make([]luagen.Entry, len(ids))
	for i, id := range ids {
		s := spans[id]
		entries[i] = luagen.Entry{
			Key:   id,
			Value: fmt.Sprintf("{ %.3f, %.3f }", s.base, s.max),
		}
	}

	return &Result{
		Table: &luagen.Table{
			Name: "SpellDuration",
			Comment: []string{
				"Auto-generated spell duration data",
				"Format: [SpellID] = { BaseDuration, MaxDuration }",
				"MaxDuration includes pandemic duration (30% of base)",
			},
			Entries: entries,
		},
	}, nil
}

// round3 rounds to 3 decimal places, the precision carried in the
// generated tables.
func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
