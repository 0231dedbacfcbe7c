// Package schema provides helpers for building the JSON Schema objects
// attached to tool definitions.
//
// Every registered tool carries one canonical JSON-schema rendering of
// its parameter list, built once at registration time via
// FromParameters and cached on the definition. The scalar constructors
// are exposed for tools that need hand-tuned schemas.
//
// Example usage:
//
//	import "github.com/CheYu0410/Bailu-Cli/src/schema"
//
//	// One field at a time
//	pathSchema := schema.String("The file path to read")
//
//	// Or the whole parameter list at once
//	s := schema.FromParameters(def.Parameters)
package schema
