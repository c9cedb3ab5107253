package models

// Event types that count towards an activity streak.
const (
	EventPush        = "PushEvent"
	EventCreate      = "CreateEvent"
	EventPullRequest = "PullRequestEvent"
	EventIssues      = "IssuesEvent"
)

// Event is one entry of a user's public event history. CreatedAt is kept
// as the raw upstream timestamp so that unparsable values can be skipped
// per event instead of failing the whole page.
type Event struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	CreatedAt string `json:"created_at"`
}

// CountsTowardsStreak reports whether the event type is one of the qualifying activity types.
func (e Event) CountsTowardsStreak() bool {
	switch e.Type {
	case EventPush, EventCreate, EventPullRequest, EventIssues:
		return true
	}
	return false
}
