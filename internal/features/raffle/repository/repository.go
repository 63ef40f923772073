package repository

import (
	"context"

	"raffle-tool-backend/internal/features/raffle/models"
)

// RoundRepository persists the current round so state survives restarts.
// The in-memory round owned by the service stays authoritative; snapshots
// are written after each state change and loaded once at startup.
type RoundRepository interface {
	Save(ctx context.Context, snap *models.RoundSnapshot) error
	Load(ctx context.Context) (*models.RoundSnapshot, error)
}
