// Package luacheck validates generated Lua files by actually running
// them in an embedded Lua VM. A file passes when it loads, executes
// against a stub HeroDBC namespace, and returns a table.
package luacheck

import (
	"fmt"
	"os"

	lua "github.com/Shopify/go-lua"

	herr "github.com/joshjau/hero-dbc/pkg/errors"
)

// namespace mirrors the addon environment the generated files bind into.
const namespace = "HeroDBC = { DBC = {} }"

// Verify runs a generated Lua chunk and returns the number of entries in
// the returned table.
func Verify(src []byte) (int, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)

	if err := lua.DoString(state, namespace); err != nil {
		return 0, fmt.Errorf("failed to set up namespace: %w", err)
	}

	if err := lua.LoadString(state, string(src)); err != nil {
		return 0, fmt.Errorf("lua syntax error: %w", err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return 0, fmt.Errorf("lua runtime error: %w", err)
	}

	if state.TypeOf(-1) != lua.TypeTable {
		return 0, fmt.Errorf("chunk returned %s, want table", lua.TypeNameOf(state, -1))
	}

	count := 0
	state.PushNil()
	for state.Next(-2) {
		count++
		state.Pop(1)
	}
	state.Pop(1)

	return count, nil
}

// VerifyFile validates a generated Lua file on disk.
func VerifyFile(path string) (int, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, herr.FileNotFound(path)
		}
		return 0, herr.Wrap(err, herr.CodeReadFailed, "cannot read lua file").WithContext("path", path)
	}
	return Verify(src)
}
