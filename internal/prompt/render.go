package prompt

import (
	"regexp"
	"sort"
)

// placeholderPattern matches template placeholders like {name} or {workExperience}.
var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z][a-zA-Z0-9_]*)\}`)

// Options configures Render behavior.
type Options struct {
	// KeepUnmatched leaves placeholders with no variable binding literally in
	// the output. This matches the behavior the rest of the pipeline has
	// always had; callers that want unmatched placeholders stripped can turn
	// it off.
	KeepUnmatched bool
}

// Render substitutes {key} placeholders in template with values from vars.
// Every occurrence of a bound placeholder is replaced, including bindings to
// the empty string. Unbound placeholders are left untouched.
//
// Render is deterministic and side-effect-free: the same inputs always
// produce byte-identical output.
func Render(template string, vars map[string]string) string {
	return RenderWith(template, vars, Options{KeepUnmatched: true})
}

// RenderWith is Render with explicit options.
func RenderWith(template string, vars map[string]string, opts Options) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1 : len(match)-1]
		if value, ok := vars[name]; ok {
			return value
		}
		if opts.KeepUnmatched {
			return match
		}
		return ""
	})
}

// ExtractVariables extracts placeholder names from a template string.
// For example, "Hello {name}, you are {age}" returns ["age", "name"].
func ExtractVariables(template string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(template, -1)
	seen := make(map[string]bool)
	var vars []string

	for _, match := range matches {
		if len(match) > 1 && !seen[match[1]] {
			seen[match[1]] = true
			vars = append(vars, match[1])
		}
	}

	// Sort for consistent ordering
	sort.Strings(vars)
	return vars
}
