package domain

import (
	"encoding/json"
	"time"
)

// ActivityRecord is an immutable audit entry. SessionToken is a weak
// reference: deleting the session nulls it, the record persists. Metadata
// is an opaque JSON blob with no schema enforced here.
type ActivityRecord struct {
	ID           string
	UserID       string
	SessionToken *string
	Action       string
	Resource     *string
	IPHash       string
	Metadata     json.RawMessage
	Successful   bool
	CreatedAt    time.Time
}
