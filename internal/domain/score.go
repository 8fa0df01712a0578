package domain

// ScoreRecord is one user's accumulated score for one game.
// At most one record exists per (UserID, GameID) pair.
type ScoreRecord struct {
	ID     int64
	UserID int64
	GameID string // free-form game identifier, not validated against a catalog
	Score  int64
}

// RankingEntry is one row of a game's leaderboard, joined with the username.
type RankingEntry struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Score    int64  `json:"score"`
}
