package template

import (
	"fmt"
	"regexp"
	"strings"
)

// tokenPattern matches {NAME} placeholders: a single opening brace, an
// uppercase-and-underscore identifier, and a closing brace.
var tokenPattern = regexp.MustCompile(`\{([A-Z][A-Z0-9_]*)\}`)

// UnresolvedError lists every placeholder a strict render could not satisfy.
type UnresolvedError struct {
	Template string
	Tokens   []string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("template %q has unresolved placeholders: %s",
		e.Template, strings.Join(e.Tokens, ", "))
}

// Tokens returns the distinct placeholder names in a template body,
// in order of first appearance.
func Tokens(body string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range tokenPattern.FindAllStringSubmatch(body, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Render substitutes context values for placeholders in a single pass.
// Unknown tokens are left verbatim so documentation braces in user templates
// are never misinterpreted as fatal. Substituted values are never re-scanned,
// so context values containing token syntax cannot expand recursively.
func Render(tmpl *Template, ctx map[string]string) string {
	return tokenPattern.ReplaceAllStringFunc(tmpl.Body, func(token string) string {
		name := token[1 : len(token)-1]
		if value, ok := ctx[name]; ok {
			return value
		}
		return token
	})
}

// RenderStrict renders like Render but fails when any placeholder has no
// context entry. This is the validation path for template authors; an
// empty-string context value satisfies a placeholder.
func RenderStrict(tmpl *Template, ctx map[string]string) (string, error) {
	var missing []string
	for _, name := range Tokens(tmpl.Body) {
		if _, ok := ctx[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "", &UnresolvedError{Template: tmpl.Name, Tokens: missing}
	}
	return Render(tmpl, ctx), nil
}
