package domain

import "time"

// AttrKind tags the declared type of a record attribute in the source store.
type AttrKind string

const (
	KindTitle   AttrKind = "title"
	KindDate    AttrKind = "date"
	KindSelect  AttrKind = "select"
	KindStatus  AttrKind = "status"
	KindUnknown AttrKind = "unknown"
)

// Attribute is one named, typed value on a record. Only the field matching
// Kind carries data; the others stay zero.
type Attribute struct {
	Kind      AttrKind
	Fragments []string   // title: plain-text fragments in document order
	Date      *time.Time // date: start of the date value
	Label     string     // select/status: option label
}

// Record is a read-only item fetched from the record store. Identity and
// attribute typing are assigned by the store; this system never mutates or
// re-persists records.
type Record struct {
	ID    string
	Attrs map[string]Attribute
}

// FieldNames maps semantic fields to the attribute names a deployment uses.
type FieldNames struct {
	Due         string
	Status      string
	Category    string
	Environment string
}

// DefaultFieldNames returns the attribute names used unless overridden.
func DefaultFieldNames() FieldNames {
	return FieldNames{
		Due:         "Due",
		Status:      "Status",
		Category:    "Category",
		Environment: "Environment",
	}
}

// RunResult aggregates the observable outcome of one pipeline run.
type RunResult struct {
	DueCount      int
	ChannelPosted bool
	DMsSent       int
}
