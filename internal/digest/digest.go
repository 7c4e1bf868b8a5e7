// Package digest renders the human-readable due-item summary for one run.
package digest

import (
	"fmt"
	"strings"

	"dueminder/internal/domain"
)

const noDateKey = "No due date"

// Format renders the digest for the given records. Output is deterministic:
// identical input yields an identical string. Records are grouped by due-date
// key in first-encounter order, which is ascending because the source
// returns records sorted ascending by due date.
func Format(items []domain.Record, lookaheadDays int, fields domain.FieldNames) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔔 *Privacy & Security Reminders* (next %d days)", lookaheadDays)

	if len(items) == 0 {
		fmt.Fprintf(&b, "\n✅ Nothing due in the next %d days.", lookaheadDays)
		return b.String()
	}

	for _, g := range groupByDueDate(items, fields.Due) {
		b.WriteString("\n\n*")
		b.WriteString(g.key)
		b.WriteString("*")
		for _, r := range g.items {
			b.WriteString("\n")
			b.WriteString(itemLine(r, fields))
		}
	}
	return b.String()
}

type group struct {
	key   string
	items []domain.Record
}

// groupByDueDate buckets records by YYYY-MM-DD key (or the no-date
// sentinel), keeping input order both across and within groups.
func groupByDueDate(items []domain.Record, dueAttr string) []group {
	index := make(map[string]int)
	var groups []group
	for _, r := range items {
		key := noDateKey
		if d := domain.Date(r, dueAttr); d != nil {
			key = d.Format("2006-01-02")
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, group{key: key})
		}
		groups[i].items = append(groups[i].items, r)
	}
	return groups
}

func itemLine(r domain.Record, fields domain.FieldNames) string {
	var bits []string
	if c := domain.SelectLabel(r, fields.Category); c != "" {
		bits = append(bits, c)
	}
	if env := domain.SelectLabel(r, fields.Environment); env != "" {
		bits = append(bits, env)
	}

	line := "• "
	if len(bits) > 0 {
		line += strings.Join(bits, " / ") + " — "
	}
	line += domain.Title(r)
	if s := domain.StatusLabel(r, fields.Status); s != "" {
		line += fmt.Sprintf(" _(Status: %s)_", s)
	}
	return line
}
