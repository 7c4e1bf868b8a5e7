package ports

import (
	"context"
	"time"

	"dueminder/internal/domain"
)

// RecordSource pulls the records due inside the lookahead window, ordered
// ascending by due date, with completed items already filtered out.
type RecordSource interface {
	FetchDueItems(ctx context.Context, now time.Time) ([]domain.Record, error)
}

// ChannelNotifier posts the rendered digest to the shared channel.
type ChannelNotifier interface {
	PostDigest(ctx context.Context, digest string) error
}

// DirectMessenger delivers messages to individual recipients.
type DirectMessenger interface {
	// OpenConversation resolves a user id to a direct conversation id.
	// Opening an existing conversation returns the same id.
	OpenConversation(ctx context.Context, userID string) (string, error)
	PostMessage(ctx context.Context, conversationID, text string) error
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
