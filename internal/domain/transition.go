package domain

import "time"

// TransitionRecord is one accepted state change, kept in the local audit
// log. Offline records were applied to the mirror without a backend call.
type TransitionRecord struct {
	ID         string
	EntityType EntityType
	EntityID   string
	From       string
	To         string
	Action     Action
	ActorRole  ViewerRole
	Note       string
	Offline    bool
	OccurredAt time.Time
}
