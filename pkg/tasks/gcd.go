package tasks

import (
	"context"
	"fmt"
	"sort"

	"github.com/joshjau/hero-dbc/pkg/luagen"
)

// maxGCDSeconds is the longest GCD expressed in seconds; anything larger
// is a millisecond value from the client data and gets converted.
const maxGCDSeconds = 1.5

// gcdRanges are the known valid GCD bands in seconds. A value outside
// every band is client-data noise and is dropped.
var gcdRanges = [][2]float64{
	{0.0, 0.0},      // no GCD
	{0.1, 0.25},     // quick cast abilities
	{0.5, 1.5},      // standard GCD
	{2.0, 20.0},     // channeled spells
	{30.0, 180.0},   // long cooldowns
	{181.0, 2000.0}, // major cooldowns
}

// GCD generates SpellGCD.lua from SpellCooldowns.csv.
type GCD struct{}

func (GCD) Name() string     { return "gcd" }
func (GCD) Title() string    { return "SpellGCD" }
func (GCD) Inputs() []string { return []string{"SpellCooldowns.csv"} }
func (GCD) Output() string   { return "SpellGCD.lua" }

// Build implements Task. Rows with unparseable fields are skipped; the
// cooldown extract carries entries for non-spell records.
func (GCD) Build(ctx context.Context, src *Source) (*Result, error) {
	tbl, err := src.Load(ctx, "SpellCooldowns.csv",
		[]string{"id_parent", "gcd_cooldown"}, nil)
	if err != nil {
		return nil, err
	}

	gcds := make(map[int]float64)
	skipped := 0

	bar := src.Progress("Processing GCD data", tbl.Len())
	for i := 0; i < tbl.Len(); i++ {
		bar.Tick()

		id, err := tbl.Int(i, "id_parent")
		if err != nil {
			skipped++
			continue
		}
		gcd, err := tbl.Float(i, "gcd_cooldown")
		if err != nil {
			skipped++
			continue
		}

		if gcd > maxGCDSeconds {
			gcd = gcd / 1000.0
		}
		gcd = round3(gcd)

		if id <= 0 || !validGCD(gcd) {
			continue
		}
		if _, seen := gcds[id]; seen {
			continue
		}
		gcds[id] = gcd
	}
	bar.Done()

	ids := make([]int, 0, len(gcds))
	for id := range gcds {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	entries := make([]luagen.Entry, len(ids))
	for i, id := range ids {
		entries[i] = luagen.Entry{Key: id, Value: fmt.Sprintf("%.3f", gcds[id])}
	}

	res := &Result{
		Table: &luagen.Table{
			Name: "SpellGCD",
			Comment: []string{
				"Auto-generated spell GCD data",
				"Format: [SpellID] = GCDDuration",
			},
			Entries: entries,
		},
	}
	if skipped > 0 {
		res.Notes = append(res.Notes, fmt.Sprintf("Skipped %d rows with unparseable GCD data", skipped))
	}
	return res, nil
}

func validGCD(gcd float64) bool {
	for _, r := range gcdRanges {
		if gcd >= r[0] && gcd <= r[1] {
			return true
		}
	}
	return false
}
