package tasks

import (
	"context"
	"fmt"
	"sort"

	"github.com/joshjau/hero-dbc/pkg/luagen"
)

const (
	// meleeFlag marks a range record as melee in SpellRange.csv.
	meleeFlag = 1

	// maxRangeYards filters out marker ranges the client uses for
	// map-wide effects.
	maxRangeYards = 100
)

// MeleeRange generates SpellMeleeRange.lua by joining SpellRange.csv
// with SpellMisc.csv.
type MeleeRange struct{}

func (MeleeRange) Name() string  { return "meleerange" }
func (MeleeRange) Title() string { return "SpellMeleeRange" }
func (MeleeRange) Inputs() []string {
	return []string{"SpellRange.csv", "SpellMisc.csv"}
}
func (MeleeRange) Output() string { return "SpellMeleeRange.lua" }

// Build implements Task.
func (MeleeRange) Build(ctx context.Context, src *Source) (*Result, error) {
	rangeTbl, err := src.Load(ctx, "SpellRange.csv",
		[]string{"id", "min_range_1", "max_range_1", "flag"}, nil)
	if err != nil {
		return nil, err
	}

	type spellRange struct {
		min, max int
		isMelee  bool
	}
	ranges := make(map[string]spellRange)

	bar := src.Progress("Processing spell ranges", rangeTbl.Len())
	for i := 0; i < rangeTbl.Len(); i++ {
		bar.Tick()

		minRange, err := rangeTbl.Float(i, "min_range_1")
		if err != nil {
			continue
		}
		maxRange, err := rangeTbl.Float(i, "max_range_1")
		if err != nil {
			continue
		}
		if maxRange <= 0 || maxRange > maxRangeYards {
			continue
		}
		ranges[rangeTbl.Field(i, "id")] = spellRange{
			min:     int(minRange),
			max:     int(maxRange),
			isMelee: rangeTbl.OptionalInt(i, "flag") == meleeFlag,
		}
	}
	bar.Done()

	miscTbl, err := src.Load(ctx, "SpellMisc.csv",
		[]string{"id_parent", "id_range"}, nil)
	if err != nil {
		return nil, err
	}

	spells := make(map[int]spellRange)

	bar = src.Progress("Processing melee ranges", miscTbl.Len())
	for i := 0; i < miscTbl.Len(); i++ {
		bar.Tick()

		r, ok := ranges[miscTbl.Field(i, "id_range")]
		if !ok {
			continue
		}
		id, err := miscTbl.Int(i, "id_parent")
		if err != nil {
			continue
		}
		// First row with a valid range wins.
		if _, seen := spells[id]; seen {
			continue
		}
		spells[id] = r
	}
	bar.Done()

	ids := make([]int, 0, len(spells))
	for id := range spells {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	entries := make([]luagen.Entry, len(ids))
	for i, id := range ids {
		r := spells[id]
		entries[i] = luagen.Entry{
			Key:   id,
			Value: fmt.Sprintf("{ %t, %d, %d }", r.isMelee, r.min, r.max),
		}
	}

	return &Result{
		Table: &luagen.Table{
			Name: "SpellMeleeRange",
			Comment: []string{
				"Auto-generated spell melee range data",
				"Format: [SpellID] = { IsMelee, MinRange, MaxRange }",
			},
			Entries: entries,
		},
	}, nil
}
