package match

import "time"

// Match is the persisted unordered pair. Rows are stored canonicalized
// (UserA < UserB); callers never depend on which side holds which id.
type Match struct {
	ID        int       `json:"id"`
	UserA     int       `json:"user1_id"`
	UserB     int       `json:"user2_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Candidate is a user eligible to be matched with: not self, not already
// matched in either column.
type Candidate struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// Partner is one existing match viewed from one side: always the *other*
// party's id and username.
type Partner struct {
	MatchID  int    `json:"match_id"`
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

type CreateRequest struct {
	TargetUserID int `json:"targetUserId"`
}
