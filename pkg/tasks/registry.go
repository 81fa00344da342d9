package tasks

import (
	"fmt"
	"sort"
	"strings"
)

var registry = map[string]Task{}

func init() {
	register(TickTime{})
	register(GCD{})
	register(Duration{})
	register(ProjectileSpeed{})
	register(MeleeRange{})
}

func register(t Task) {
	if _, exists := registry[t.Name()]; exists {
		panic("tasks: duplicate task name " + t.Name())
	}
	registry[t.Name()] = t
}

// Get returns the task with the given name.
func Get(name string) (Task, error) {
	t, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown task %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return t, nil
}

// Names returns all registered task names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns all registered tasks in name order.
func All() []Task {
	all := make([]Task, 0, len(registry))
	for _, name := range Names() {
		all = append(all, registry[name])
	}
	return all
}
