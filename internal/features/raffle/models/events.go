package models

// Event types published to the raffle event stream.
const (
	EventEntryRecorded = "entry_recorded"
	EventDrawRequested = "draw_requested"
	EventWinnerPicked  = "winner_picked"
)
