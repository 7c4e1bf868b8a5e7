package notion

import (
	"context"
	"log/slog"
	"time"

	"dueminder/internal/domain"
	"dueminder/internal/ports"
)

// Source adapts the client to the record-source port: it computes the
// lookahead window, queries the database, and drops completed items.
type Source struct {
	client        *Client
	databaseID    string
	fields        domain.FieldNames
	lookaheadDays int
	doneStatus    string
	log           *slog.Logger
}

var _ ports.RecordSource = (*Source)(nil)

// NewSource wires the query parameters for one deployment.
func NewSource(client *Client, databaseID string, fields domain.FieldNames, lookaheadDays int, doneStatus string, log *slog.Logger) *Source {
	return &Source{
		client:        client,
		databaseID:    databaseID,
		fields:        fields,
		lookaheadDays: lookaheadDays,
		doneStatus:    doneStatus,
		log:           log,
	}
}

// FetchDueItems returns the records due in [startOfDay(now),
// endOfDay(now+lookaheadDays)], ascending by due date, minus records whose
// status label equals the done label. The completion filter runs client-side
// because the status attribute may use either of the store's two
// representations; the label comparison is case-sensitive.
func (s *Source) FetchDueItems(ctx context.Context, now time.Time) ([]domain.Record, error) {
	start, end := domain.LookaheadWindow(now, s.lookaheadDays)

	records, err := s.client.QueryDue(ctx, s.databaseID, s.fields.Due, start, end)
	if err != nil {
		return nil, &domain.SourceQueryError{Err: err}
	}

	due := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if s.doneStatus != "" && domain.StatusLabel(r, s.fields.Status) == s.doneStatus {
			continue
		}
		due = append(due, r)
	}

	if s.log != nil {
		s.log.Debug("fetched due items",
			slog.Int("fetched", len(records)),
			slog.Int("due", len(due)),
			slog.Time("window_start", start),
			slog.Time("window_end", end))
	}
	return due, nil
}
