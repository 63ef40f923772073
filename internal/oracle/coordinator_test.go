package oracle

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "raffle-tool-backend/internal/common/errors"
)

type stubSource struct {
	requests []RandomWordsRequest
	nextID   string
	failWith error
}

func (s *stubSource) RequestRandomWords(_ context.Context, req RandomWordsRequest) (string, error) {
	if s.failWith != nil {
		return "", s.failWith
	}
	s.requests = append(s.requests, req)
	return s.nextID, nil
}

type recordingConsumer struct {
	deliveries map[string][]*big.Int
	failWith   error
}

func newRecordingConsumer() *recordingConsumer {
	return &recordingConsumer{deliveries: make(map[string][]*big.Int)}
}

func (c *recordingConsumer) FulfillRandomWords(_ context.Context, requestID string, words []*big.Int) error {
	if c.failWith != nil {
		return c.failWith
	}
	c.deliveries[requestID] = words
	return nil
}

func newTestCoordinator(t *testing.T) (*Coordinator, *stubSource, *recordingConsumer) {
	t.Helper()

	source := &stubSource{nextID: "req-1"}
	consumer := newRecordingConsumer()

	coord := NewCoordinator(NewMemoryStore())
	coord.SetSource(source)
	coord.SetConsumer(consumer)
	return coord, source, consumer
}

func TestCoordinatorRecordsIssuedRequest(t *testing.T) {
	coord, source, _ := newTestCoordinator(t)

	id, err := coord.RequestRandomWords(context.Background(), RandomWordsRequest{
		KeyHash:        "kh",
		SubscriptionID: 7,
		Confirmations:  3,
		NumWords:       1,
	})
	require.NoError(t, err)
	require.Equal(t, "req-1", id)
	require.Len(t, source.requests, 1)
	require.Equal(t, uint64(7), source.requests[0].SubscriptionID)

	record, err := coord.store.Get(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, RequestStatusPending, record.Status)
	require.Equal(t, 1, record.NumWords)
}

func TestCoordinatorPropagatesSourceError(t *testing.T) {
	coord, source, _ := newTestCoordinator(t)
	source.failWith = errors.New("stream down")

	_, err := coord.RequestRandomWords(context.Background(), RandomWordsRequest{NumWords: 1})
	require.ErrorContains(t, err, "stream down")
}

func TestDispatchDeliversToConsumerAndMarksFulfilled(t *testing.T) {
	coord, _, consumer := newTestCoordinator(t)

	id, err := coord.RequestRandomWords(context.Background(), RandomWordsRequest{NumWords: 1})
	require.NoError(t, err)

	words := []*big.Int{big.NewInt(42)}
	require.NoError(t, coord.Dispatch(context.Background(), id, words))
	require.Equal(t, words, consumer.deliveries[id])

	record, err := coord.store.Get(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, RequestStatusFulfilled, record.Status)
}

func TestDispatchRejectsUnknownRequest(t *testing.T) {
	coord, _, consumer := newTestCoordinator(t)

	err := coord.Dispatch(context.Background(), "never-issued", []*big.Int{big.NewInt(1)})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, apperrors.ErrCodeUnknownRequest, appErr.Code)
	require.Empty(t, consumer.deliveries)
}

func TestDispatchRejectsDuplicateFulfillment(t *testing.T) {
	coord, _, consumer := newTestCoordinator(t)

	id, err := coord.RequestRandomWords(context.Background(), RandomWordsRequest{NumWords: 1})
	require.NoError(t, err)

	words := []*big.Int{big.NewInt(9)}
	require.NoError(t, coord.Dispatch(context.Background(), id, words))

	err = coord.Dispatch(context.Background(), id, []*big.Int{big.NewInt(10)})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, apperrors.ErrCodeDuplicateFulfillment, appErr.Code)

	// first delivery wins
	require.Equal(t, words, consumer.deliveries[id])
}

func TestDispatchRejectsWordCountMismatch(t *testing.T) {
	coord, _, consumer := newTestCoordinator(t)

	id, err := coord.RequestRandomWords(context.Background(), RandomWordsRequest{NumWords: 1})
	require.NoError(t, err)

	err = coord.Dispatch(context.Background(), id, []*big.Int{big.NewInt(1), big.NewInt(2)})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	require.Empty(t, consumer.deliveries)
}

func TestDispatchKeepsRequestPendingWhenConsumerRejects(t *testing.T) {
	coord, _, consumer := newTestCoordinator(t)

	id, err := coord.RequestRandomWords(context.Background(), RandomWordsRequest{NumWords: 1})
	require.NoError(t, err)

	consumer.failWith = errors.New("payout refused")
	words := []*big.Int{big.NewInt(5)}
	require.ErrorContains(t, coord.Dispatch(context.Background(), id, words), "payout refused")

	record, err := coord.store.Get(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, RequestStatusPending, record.Status)

	// redelivery after the transient failure succeeds
	consumer.failWith = nil
	require.NoError(t, coord.Dispatch(context.Background(), id, words))
	require.Equal(t, words, consumer.deliveries[id])
}

func TestCoordinatorWithoutSourceFails(t *testing.T) {
	coord := NewCoordinator(NewMemoryStore())
	_, err := coord.RequestRandomWords(context.Background(), RandomWordsRequest{NumWords: 1})
	require.Error(t, err)
}
