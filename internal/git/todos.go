package git

import (
	"fmt"
	"regexp"
	"strings"
)

// ExtractTodos scans the added lines of a diff for open-item markers and
// returns them as a Markdown bullet list. The pattern is a regular
// expression (default "TODO|FIXME"); everything from the first match to the
// end of the line becomes the item text. Returns "" when nothing matches.
func ExtractTodos(diff, pattern string) (string, error) {
	if pattern == "" {
		pattern = `TODO|FIXME`
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", fmt.Errorf("compiling todos pattern %q: %w", pattern, err)
	}

	seen := make(map[string]bool)
	var items []string

	for _, line := range strings.Split(diff, "\n") {
		// Only lines added by the change, not context or removals.
		if !strings.HasPrefix(line, "+") || strings.HasPrefix(line, "+++") {
			continue
		}
		loc := re.FindStringIndex(line)
		if loc == nil {
			continue
		}

		item := strings.TrimSpace(line[loc[0]:])
		item = strings.TrimRight(item, "*/ \t")
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		items = append(items, "- "+item)
	}

	return strings.Join(items, "\n"), nil
}
