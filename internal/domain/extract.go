package domain

import (
	"strings"
	"time"
)

// Untitled replaces an absent, wrong-typed, or blank title.
const Untitled = "(Untitled)"

// Title concatenates the plain-text fragments of the record's title
// attribute and trims the result. Records without a usable title resolve to
// Untitled, never to an empty string.
func Title(r Record) string {
	for _, attr := range r.Attrs {
		if attr.Kind != KindTitle {
			continue
		}
		title := strings.TrimSpace(strings.Join(attr.Fragments, ""))
		if title == "" {
			return Untitled
		}
		return title
	}
	return Untitled
}

// Date returns the date value of the named attribute, or nil when the
// attribute is absent or not date-typed. No fallback parsing of other kinds.
func Date(r Record, name string) *time.Time {
	attr, ok := r.Attrs[name]
	if !ok || attr.Kind != KindDate {
		return nil
	}
	return attr.Date
}

// SelectLabel returns the option label of a single-select attribute, or ""
// when the attribute is absent or not select-typed.
func SelectLabel(r Record, name string) string {
	attr, ok := r.Attrs[name]
	if !ok || attr.Kind != KindSelect {
		return ""
	}
	return attr.Label
}

// StatusLabel returns the label of a status-like attribute. The store offers
// two type variants for status (a dedicated status kind and plain select),
// so both are accepted; callers need not know which one a deployment uses.
func StatusLabel(r Record, name string) string {
	attr, ok := r.Attrs[name]
	if !ok {
		return ""
	}
	if attr.Kind != KindStatus && attr.Kind != KindSelect {
		return ""
	}
	return attr.Label
}
