package tasks

import (
	"context"
	"fmt"
	"sort"

	"github.com/joshjau/hero-dbc/pkg/luagen"
)

// noMechanicID is the id_mechanic value meaning "no special mechanic".
// The comparison is intentionally on the raw string: some datasets carry
// non-numeric mechanic ids and coercion would change the result.
const noMechanicID = "15"

// TickTime generates SpellTickTime.lua from SpellEffect.csv. For each
// spell, the first effect row in file order with a non-zero amplitude
// defines the tick time; spells with only zero amplitudes are omitted.
type TickTime struct{}

func (TickTime) Name() string     { return "ticktime" }
func (TickTime) Title() string    { return "SpellTickTime" }
func (TickTime) Inputs() []string { return []string{"SpellEffect.csv"} }
func (TickTime) Output() string   { return "SpellTickTime.lua" }

// Build implements Task. id_parent and amplitude are required integers;
// a malformed value aborts the whole run.
func (TickTime) Build(ctx context.Context, src *Source) (*Result, error) {
	tbl, err := src.Load(ctx, "SpellEffect.csv",
		[]string{"id_parent", "amplitude", "id_mechanic"},
		[]string{"id_effect"})
	if err != nil {
		return nil, err
	}

	type tick struct {
		id          int
		amplitude   int
		hasMechanic bool
	}

	satisfied := make(map[int]bool)
	var ticks []tick

	bar := src.Progress("Processing spell tick times", tbl.Len())
	for i := 0; i < tbl.Len(); i++ {
		bar.Tick()

		id, err := tbl.Int(i, "id_parent")
		if err != nil {
			return nil, err
		}
		amplitude, err := tbl.Int(i, "amplitude")
		if err != nil {
			return nil, err
		}
		_ = tbl.OptionalInt(i, "id_effect")

		// First qualifying row per spell wins, in file order.
		if amplitude == 0 || satisfied[id] {
			continue
		}
		satisfied[id] = true
		ticks = append(ticks, tick{
			id:          id,
			amplitude:   amplitude,
			hasMechanic: tbl.Field(i, "id_mechanic") != noMechanicID,
		})
	}
	bar.Done()

	sort.Slice(ticks, func(i, j int) bool { return ticks[i].id < ticks[j].id })

	entries := make([]luagen.Entry, len(ticks))
	for i, t := range ticks {
		entries[i] = luagen.Entry{
			Key:   t.id,
			Value: fmt.Sprintf("{ %d, %t }", t.amplitude, t.hasMechanic),
		}
	}

	return &Result{
		Table: &luagen.Table{
			Name: "SpellTickTime",
			Comment: []string{
				"Auto-generated spell tick time data",
				"Format: [SpellID] = { Amplitude, HasMechanic }",
			},
			Entries: entries,
		},
	}, nil
}
