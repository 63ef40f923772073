package service

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"

	apperrors "raffle-tool-backend/internal/common/errors"
	"raffle-tool-backend/internal/common/logger"
	"raffle-tool-backend/internal/features/raffle/models"
	"raffle-tool-backend/internal/features/raffle/repository"
	"raffle-tool-backend/internal/oracle"
	"raffle-tool-backend/internal/platform/ton"
)

// Every draw requests exactly one random word.
const numRandomWords = 1

type raffleService struct {
	cfg    models.RaffleConfig
	oracle oracle.Source
	bank   ton.PrizeBank
	repo   repository.RoundRepository
	events EventPublisher
	now    func() time.Time

	// Round state. The mutex serializes every operation, so each call
	// runs to completion against a consistent round, and the only
	// asynchrony left is the gap between request and fulfillment.
	mu               sync.Mutex
	state            models.RaffleState
	players          []*address.Address
	pot              *big.Int
	lastDrawAt       time.Time
	recentWinner     *address.Address
	pendingRequestID string
}

// New creates the raffle engine with an open round and an empty ledger.
// repo and events may be nil; persistence and notifications are then skipped.
func New(
	cfg models.RaffleConfig,
	source oracle.Source,
	bank ton.PrizeBank,
	repo repository.RoundRepository,
	events EventPublisher,
) RaffleService {
	s := &raffleService{
		cfg:    cfg,
		oracle: source,
		bank:   bank,
		repo:   repo,
		events: events,
		now:    time.Now,
		state:  models.StateOpen,
		pot:    new(big.Int),
	}
	s.lastDrawAt = s.now()
	return s
}

func (s *raffleService) Enter(ctx context.Context, player *address.Address, amount tlb.Coins) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount.Nano().Cmp(s.cfg.EntranceFee.Nano()) < 0 {
		return apperrors.NewInsufficientPaymentError(amount.String(), s.cfg.EntranceFee.String())
	}
	if s.state != models.StateOpen {
		return apperrors.NewRoundNotOpenError(string(s.state))
	}

	s.players = append(s.players, player)
	s.pot = new(big.Int).Add(s.pot, amount.Nano())

	s.publish(ctx, models.EventEntryRecorded, map[string]interface{}{
		"player": player.String(),
		"amount": amount.String(),
		"slot":   len(s.players) - 1,
	})
	s.persist(ctx)

	logger.Debug().
		Str("player", player.String()).
		Str("amount_ton", amount.String()).
		Int("players", len(s.players)).
		Msg("Entry recorded")

	return nil
}

func (s *raffleService) CheckUpkeep() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upkeepNeeded()
}

// upkeepNeeded evaluates the four draw conditions. Caller must hold the lock.
func (s *raffleService) upkeepNeeded() bool {
	intervalPassed := s.now().Sub(s.lastDrawAt) >= s.cfg.Interval
	isOpen := s.state == models.StateOpen
	hasBalance := s.pot.Sign() > 0
	hasPlayers := len(s.players) > 0
	return intervalPassed && isOpen && hasBalance && hasPlayers
}

func (s *raffleService) PerformUpkeep(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.upkeepNeeded() {
		return "", apperrors.NewUpkeepNotNeededError(string(s.state), s.pot.String(), len(s.players))
	}

	// Close entries for the rest of the round before asking the oracle,
	// so the player set the request is drawn against is frozen.
	s.state = models.StateDrawing

	requestID, err := s.oracle.RequestRandomWords(ctx, oracle.RandomWordsRequest{
		KeyHash:          s.cfg.KeyHash,
		SubscriptionID:   s.cfg.SubscriptionID,
		Confirmations:    s.cfg.Confirmations,
		CallbackGasLimit: s.cfg.CallbackGasLimit,
		NumWords:         numRandomWords,
	})
	if err != nil {
		// The flip and the request fail as a unit.
		s.state = models.StateOpen
		return "", apperrors.NewOracleRequestError(err)
	}
	s.pendingRequestID = requestID

	s.publish(ctx, models.EventDrawRequested, map[string]interface{}{
		"request_id": requestID,
		"players":    len(s.players),
		"pot_nano":   s.pot.String(),
	})
	s.persist(ctx)

	logger.Info().
		Str("request_id", requestID).
		Int("players", len(s.players)).
		Msg("Draw requested")

	return requestID, nil
}

func (s *raffleService) FulfillRandomWords(ctx context.Context, requestID string, words []*big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.StateDrawing {
		return apperrors.Wrap(models.ErrNoDrawInFlight, apperrors.ErrCodeInternal, "unexpected fulfillment").
			WithDetail("request_id", requestID)
	}
	if len(words) == 0 {
		return apperrors.Wrap(models.ErrNoRandomWords, apperrors.ErrCodeValidation, "empty fulfillment").
			WithDetail("request_id", requestID)
	}
	if len(s.players) == 0 {
		// Upkeep requires at least one player and the ledger is frozen
		// while drawing, so this indicates corrupted state.
		return apperrors.Wrap(models.ErrEmptyPlayerList, apperrors.ErrCodeInternal, "no players to draw from")
	}

	index := new(big.Int).Mod(words[0], big.NewInt(int64(len(s.players)))).Int64()
	winner := s.players[index]
	prize := new(big.Int).Set(s.pot)

	// Reset the round before the payout so a reentrant observer sees a
	// consistent post-draw state; keep the previous round for rollback.
	prev := roundState{
		state:            s.state,
		players:          s.players,
		pot:              s.pot,
		lastDrawAt:       s.lastDrawAt,
		recentWinner:     s.recentWinner,
		pendingRequestID: s.pendingRequestID,
	}
	s.state = models.StateOpen
	s.players = nil
	s.pot = new(big.Int)
	s.lastDrawAt = s.now()
	s.recentWinner = winner
	s.pendingRequestID = ""

	prizeCoins := tlb.FromNanoTON(prize)
	if err := s.bank.Transfer(ctx, winner, prizeCoins); err != nil {
		// Reset and payout are atomic: roll the whole fulfillment back.
		s.state = prev.state
		s.players = prev.players
		s.pot = prev.pot
		s.lastDrawAt = prev.lastDrawAt
		s.recentWinner = prev.recentWinner
		s.pendingRequestID = prev.pendingRequestID
		return apperrors.NewPrizeTransferError(winner.String(), prizeCoins.String(), err)
	}

	s.publish(ctx, models.EventWinnerPicked, map[string]interface{}{
		"winner":     winner.String(),
		"prize":      prizeCoins.String(),
		"request_id": requestID,
	})
	s.persist(ctx)

	logger.Info().
		Str("winner", winner.String()).
		Str("prize_ton", prizeCoins.String()).
		Str("request_id", requestID).
		Msg("Winner picked")

	return nil
}

type roundState struct {
	state            models.RaffleState
	players          []*address.Address
	pot              *big.Int
	lastDrawAt       time.Time
	recentWinner     *address.Address
	pendingRequestID string
}

// Restore hydrates the round from the last persisted snapshot.
func (s *raffleService) Restore(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	snap, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}

	players := make([]*address.Address, 0, len(snap.Players))
	for _, raw := range snap.Players {
		addr, err := address.ParseAddr(raw)
		if err != nil {
			return apperrors.Wrapf(err, apperrors.ErrCodeInternal, "snapshot player %q", raw)
		}
		players = append(players, addr)
	}

	pot, ok := new(big.Int).SetString(snap.PotNano, 10)
	if !ok {
		return apperrors.New(apperrors.ErrCodeInternal, "snapshot pot is not a number").
			WithDetail("pot_nano", snap.PotNano)
	}

	var winner *address.Address
	if snap.RecentWinner != "" {
		winner, err = address.ParseAddr(snap.RecentWinner)
		if err != nil {
			return apperrors.Wrapf(err, apperrors.ErrCodeInternal, "snapshot winner %q", snap.RecentWinner)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = snap.State
	s.players = players
	s.pot = pot
	s.lastDrawAt = snap.LastDrawAt
	s.recentWinner = winner
	s.pendingRequestID = snap.PendingRequestID

	logger.Info().
		Str("state", string(snap.State)).
		Int("players", len(players)).
		Msg("Round restored from snapshot")

	return nil
}

// persist writes a best-effort snapshot. Caller must hold the lock.
func (s *raffleService) persist(ctx context.Context) {
	if s.repo == nil {
		return
	}

	players := make([]string, len(s.players))
	for i, p := range s.players {
		players[i] = p.String()
	}
	snap := &models.RoundSnapshot{
		State:            s.state,
		Players:          players,
		PotNano:          s.pot.String(),
		LastDrawAt:       s.lastDrawAt,
		PendingRequestID: s.pendingRequestID,
	}
	if s.recentWinner != nil {
		snap.RecentWinner = s.recentWinner.String()
	}

	if err := s.repo.Save(ctx, snap); err != nil {
		logger.Warn().Err(err).Msg("Failed to persist round snapshot")
	}
}

// publish emits a best-effort notification. Caller must hold the lock.
func (s *raffleService) publish(ctx context.Context, eventType string, fields map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, eventType, fields); err != nil {
		logger.Warn().Err(err).Str("event", eventType).Msg("Failed to publish raffle event")
	}
}

// Query surface

func (s *raffleService) EntranceFee() tlb.Coins {
	return s.cfg.EntranceFee
}

func (s *raffleService) Interval() time.Duration {
	return s.cfg.Interval
}

func (s *raffleService) State() models.RaffleState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *raffleService) RecentWinner() *address.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recentWinner
}

func (s *raffleService) Player(index int) (*address.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.players) {
		return nil, apperrors.NewIndexOutOfRangeError(index, len(s.players))
	}
	return s.players[index], nil
}

func (s *raffleService) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players)
}

func (s *raffleService) LastDrawAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastDrawAt
}

func (s *raffleService) Pot() tlb.Coins {
	s.mu.Lock()
	defer s.mu.Unlock()
	return tlb.FromNanoTON(new(big.Int).Set(s.pot))
}

func (s *raffleService) PendingRequestID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingRequestID
}
