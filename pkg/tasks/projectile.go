package tasks

import (
	"context"
	"fmt"
	"sort"

	"github.com/joshjau/hero-dbc/pkg/luagen"
)

// ProjectileSpeed generates SpellProjectileSpeed.lua from SpellMisc.csv.
type ProjectileSpeed struct{}

func (ProjectileSpeed) Name() string     { return "projectilespeed" }
func (ProjectileSpeed) Title() string    { return "SpellProjectileSpeed" }
func (ProjectileSpeed) Inputs() []string { return []string{"SpellMisc.csv"} }
func (ProjectileSpeed) Output() string   { return "SpellProjectileSpeed.lua" }

// Build implements Task.
func (ProjectileSpeed) Build(ctx context.Context, src *Source) (*Result, error) {
	tbl, err := src.Load(ctx, "SpellMisc.csv",
		[]string{"id_parent", "proj_speed"}, nil)
	if err != nil {
		return nil, err
	}

	speeds := make(map[int]int)
	var sum, count int64

	bar := src.Progress("Processing projectile speeds", tbl.Len())
	for i := 0; i < tbl.Len(); i++ {
		bar.Tick()

		speed, err := tbl.Float(i, "proj_speed")
		if err != nil || speed <= 0 {
			continue
		}
		id, err := tbl.Int(i, "id_parent")
		if err != nil {
			continue
		}
		if _, seen := speeds[id]; seen {
			continue
		}
		speeds[id] = int(speed)
		sum += int64(speed)
		count++
	}
	bar.Done()

	ids := make([]int, 0, len(speeds))
	for id := range speeds {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	entries := make([]luagen.Entry, len(ids))
	for i, id := range ids {
		entries[i] = luagen.Entry{Key: id, Value: fmt.Sprintf("%d", speeds[id])}
	}

	res := &Result{
		Table: &luagen.Table{
			Name: "SpellProjectileSpeed",
			Comment: []string{
				"Auto-generated spell projectile speed data",
				"Format: [SpellID] = ProjectileSpeed",
			},
			Entries: entries,
		},
	}
	if count > 0 {
		res.Notes = append(res.Notes,
			fmt.Sprintf("Projectile speed mean: %.2f", float64(sum)/float64(count)))
	}
	return res, nil
}
