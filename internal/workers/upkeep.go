package workers

import (
	"context"
	"sync"
	"time"

	apperrors "raffle-tool-backend/internal/common/errors"
	"raffle-tool-backend/internal/common/logger"
)

// UpkeepService is the part of the raffle engine the worker drives.
type UpkeepService interface {
	CheckUpkeep() bool
	PerformUpkeep(ctx context.Context) (string, error)
}

// UpkeepWorker is the automation caller: it polls the draw conditions and
// triggers a draw when they are met. Anyone may call the same endpoint over
// HTTP; the worker just guarantees someone eventually does.
type UpkeepWorker struct {
	ctx     context.Context
	cancel  context.CancelFunc
	service UpkeepService
	poll    time.Duration
	wg      sync.WaitGroup
}

func NewUpkeepWorker(service UpkeepService, poll time.Duration) *UpkeepWorker {
	ctx, cancel := context.WithCancel(context.Background())
	return &UpkeepWorker{
		ctx:     ctx,
		cancel:  cancel,
		service: service,
		poll:    poll,
	}
}

func (w *UpkeepWorker) Start() {
	logger.Info().Dur("poll", w.poll).Msg("Starting upkeep worker")
	w.wg.Add(1)

	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(w.poll)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.tick()
			case <-w.ctx.Done():
				return
			}
		}
	}()
}

func (w *UpkeepWorker) Stop() {
	logger.Info().Msg("Stopping upkeep worker")
	w.cancel()
	w.wg.Wait()
}

func (w *UpkeepWorker) tick() {
	if !w.service.CheckUpkeep() {
		return
	}

	requestID, err := w.service.PerformUpkeep(w.ctx)
	if err != nil {
		// Someone else may have triggered the draw between the check
		// and the call; that race is expected.
		if appErr, ok := apperrors.AsAppError(err); ok && appErr.Code == apperrors.ErrCodeUpkeepNotNeeded {
			logger.Debug().Msg("Upkeep already performed")
			return
		}
		logger.Warn().Err(err).Msg("Upkeep trigger failed")
		return
	}

	logger.Info().Str("request_id", requestID).Msg("Upkeep performed")
}
