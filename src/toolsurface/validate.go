package toolsurface

import (
	"fmt"
	"math"
	"strconv"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
)

// ValidateParams checks a ToolCall's params against a ToolDefinition:
// every required parameter must be present, and the type of every
// provided parameter must match (after coercion) the declared type. On
// mismatch it returns the list of missing/mistyped names alongside an
// invalid-arguments CoreError.
func ValidateParams(def bailucore.ToolDefinition, params map[string]any) (map[string]any, error) {
	coerced := make(map[string]any, len(params))
	for k, v := range params {
		coerced[k] = v
	}

	var problems []string
	for _, p := range def.Parameters {
		v, present := coerced[p.Name]
		if !present {
			if p.Required {
				problems = append(problems, p.Name+" (missing)")
				continue
			}
			if p.Default != nil {
				coerced[p.Name] = p.Default
			}
			continue
		}
		cv, ok := coerceTo(v, p.Type)
		if !ok {
			problems = append(problems, fmt.Sprintf("%s (expected %s)", p.Name, p.Type))
			continue
		}
		coerced[p.Name] = cv
	}

	if len(problems) > 0 {
		return nil, bailucore.NewError(bailucore.CodeInvalidArguments, fmt.Sprintf("%v", problems))
	}
	return coerced, nil
}

// coerceTo attempts to bring v into the declared ParamType, mirroring the
// parser's own coercion rules: numeric strings become numbers, "true"/
// "false" strings become booleans. Values already of the right shape
// pass through unchanged.
func coerceTo(v any, t bailucore.ParamType) (any, bool) {
	switch t {
	case bailucore.ParamString:
		switch x := v.(type) {
		case string:
			return x, true
		default:
			return fmt.Sprintf("%v", x), true
		}
	case bailucore.ParamNumber:
		switch x := v.(type) {
		case float64, int, int64:
			return x, true
		case string:
			if f, err := strconv.ParseFloat(x, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
				return f, true
			}
			return nil, false
		default:
			return nil, false
		}
	case bailucore.ParamBoolean:
		switch x := v.(type) {
		case bool:
			return x, true
		case string:
			switch x {
			case "true":
				return true, true
			case "false":
				return false, true
			default:
				return nil, false
			}
		default:
			return nil, false
		}
	case bailucore.ParamArray:
		if _, ok := v.([]any); ok {
			return v, true
		}
		return nil, false
	case bailucore.ParamObject:
		if _, ok := v.(map[string]any); ok {
			return v, true
		}
		return nil, false
	default:
		return v, true
	}
}
