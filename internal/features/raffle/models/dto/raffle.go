package dto

import "time"

// EnterRequest is the body for joining the current round.
type EnterRequest struct {
	// TON address the prize should be paid to if this entry wins
	Address string `json:"address" binding:"required"`
	// Paid amount in TON, e.g. "0.01"
	Amount string `json:"amount" binding:"required"`
}

// EnterResponse confirms a recorded entry.
type EnterResponse struct {
	Player       string `json:"player"`
	PlayersCount int    `json:"players_count"`
	PotTon       string `json:"pot_ton"`
}

// RoundResponse describes the current round for the query surface.
type RoundResponse struct {
	State            string    `json:"state"`
	PlayersCount     int       `json:"players_count"`
	PotTon           string    `json:"pot_ton"`
	EntranceFeeTon   string    `json:"entrance_fee_ton"`
	IntervalSec      int64     `json:"interval_sec"`
	LastDrawAt       time.Time `json:"last_draw_at"`
	RecentWinner     string    `json:"recent_winner,omitempty"`
	PendingRequestID string    `json:"pending_request_id,omitempty"`
}

// PlayerResponse is a single ledger slot.
type PlayerResponse struct {
	Index  int    `json:"index"`
	Player string `json:"player"`
}

// UpkeepResponse reports whether draw conditions are met.
type UpkeepResponse struct {
	UpkeepNeeded bool `json:"upkeep_needed"`
}

// PerformUpkeepResponse confirms an issued randomness request.
type PerformUpkeepResponse struct {
	RequestID string `json:"request_id"`
	State     string `json:"state"`
}

// ErrorResponse mirrors the error middleware output for swagger docs.
type ErrorResponse struct {
	Success   bool        `json:"success"`
	Error     interface{} `json:"error"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
}
