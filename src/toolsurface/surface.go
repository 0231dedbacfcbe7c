// Package toolsurface is the name-keyed dictionary of tool handlers built
// once at startup and read-only thereafter. It is deliberately a flat
// registry of closures rather than an inheritance hierarchy.
package toolsurface

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
)

// Handler executes one tool call against already-validated parameters.
type Handler func(ctx context.Context, params map[string]any) bailucore.ToolResult

type entry struct {
	def     bailucore.ToolDefinition
	handler Handler
}

// Surface is the tool registry. The zero value is not usable; construct
// with New.
type Surface struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// New returns an empty, ready-to-register Surface.
func New() *Surface {
	return &Surface{entries: make(map[string]entry)}
}

// Register adds a tool. Re-registering the same name is a no-op only
// when both the definition and the handler are identical (idempotent
// registration); any other collision is an error.
func (s *Surface) Register(def bailucore.ToolDefinition, handler Handler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.entries[def.Name]
	if !exists {
		s.entries[def.Name] = entry{def: def, handler: handler}
		return nil
	}
	if !sameDefinition(existing.def, def) {
		return fmt.Errorf("toolsurface: tool %q already registered with a different definition", def.Name)
	}
	if !sameHandler(existing.handler, handler) {
		return fmt.Errorf("toolsurface: tool %q already registered with a different handler", def.Name)
	}
	return nil
}

// sameHandler compares function identity: two closures are "the same
// handler" only when they are literally the same function value.
func sameHandler(a, b Handler) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

// Get looks up a tool by name.
func (s *Surface) Get(name string) (bailucore.ToolDefinition, Handler, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[name]
	if !ok {
		return bailucore.ToolDefinition{}, nil, false
	}
	return e.def, e.handler, true
}

// List returns all registered definitions, ordered by name for stable
// system-prompt rendering.
func (s *Surface) List() []bailucore.ToolDefinition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]bailucore.ToolDefinition, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func sameDefinition(a, b bailucore.ToolDefinition) bool {
	if a.Name != b.Name || a.Description != b.Description || a.Safe != b.Safe {
		return false
	}
	if len(a.Parameters) != len(b.Parameters) {
		return false
	}
	for i := range a.Parameters {
		if a.Parameters[i] != b.Parameters[i] {
			return false
		}
	}
	return true
}
