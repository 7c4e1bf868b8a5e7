package domain

import "fmt"

// ConfigError reports missing or invalid required configuration. It is
// fatal and surfaced before any partial execution.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Key, e.Reason)
}

// SourceQueryError wraps a failed record-store query. Fatal, no retry; the
// next scheduled run retries naturally.
type SourceQueryError struct {
	Err error
}

func (e *SourceQueryError) Error() string {
	return fmt.Sprintf("query due items: %v", e.Err)
}

func (e *SourceQueryError) Unwrap() error { return e.Err }

// DeliveryError reports a failed channel or direct-message send. It aborts
// the remainder of the delivery sequence; messages already sent in this run
// stand.
type DeliveryError struct {
	Dest string
	Err  error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver to %s: %v", e.Dest, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// InvalidDMTargetError reports a recipient identifier with an unrecognized
// prefix.
type InvalidDMTargetError struct {
	Raw string
}

func (e *InvalidDMTargetError) Error() string {
	return fmt.Sprintf("invalid dm target %q: expected a D or U prefix", e.Raw)
}
