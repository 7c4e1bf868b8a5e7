package domain

import "strings"

// DMTargetKind discriminates the two recipient identifier variants.
type DMTargetKind int

const (
	// TargetConversation is an already-open direct conversation identifier.
	TargetConversation DMTargetKind = iota
	// TargetUser is a user identifier; a conversation must be opened first.
	TargetUser
)

// DMTarget is a parsed direct-message recipient. Targets are constructed
// once from configuration so downstream code never re-inspects raw strings.
type DMTarget struct {
	Kind DMTargetKind
	ID   string
}

// ParseDMTarget classifies a raw recipient identifier by its prefix:
// "D..." is a direct conversation id, "U..." a user id. Anything else is an
// InvalidDMTargetError.
func ParseDMTarget(raw string) (DMTarget, error) {
	switch {
	case strings.HasPrefix(raw, "D"):
		return DMTarget{Kind: TargetConversation, ID: raw}, nil
	case strings.HasPrefix(raw, "U"):
		return DMTarget{Kind: TargetUser, ID: raw}, nil
	default:
		return DMTarget{}, &InvalidDMTargetError{Raw: raw}
	}
}

// ParseDMTargets splits a comma/whitespace separated recipient list and
// parses each entry. The first malformed entry fails the whole parse, before
// any message is sent.
func ParseDMTargets(raw string) ([]DMTarget, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(fields) == 0 {
		return nil, nil
	}

	targets := make([]DMTarget, 0, len(fields))
	for _, f := range fields {
		target, err := ParseDMTarget(f)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}
	return targets, nil
}
