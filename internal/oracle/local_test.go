package oracle

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type captureSink struct {
	mu        sync.Mutex
	delivered chan struct{}
	requestID string
	words     []*big.Int
}

func newCaptureSink() *captureSink {
	return &captureSink{delivered: make(chan struct{})}
}

func (s *captureSink) Dispatch(_ context.Context, requestID string, words []*big.Int) error {
	s.mu.Lock()
	s.requestID = requestID
	s.words = words
	s.mu.Unlock()
	close(s.delivered)
	return nil
}

func TestLocalSourceDeliversAsynchronously(t *testing.T) {
	sink := newCaptureSink()
	source := NewLocalSource(time.Millisecond)
	source.SetSink(sink)

	id, err := source.RequestRandomWords(context.Background(), RandomWordsRequest{
		Confirmations: 3,
		NumWords:      2,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	select {
	case <-sink.delivered:
	case <-time.After(time.Second):
		t.Fatal("fulfillment was not delivered")
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	require.Equal(t, id, sink.requestID)
	require.Len(t, sink.words, 2)
	for _, w := range sink.words {
		require.NotNil(t, w)
		require.GreaterOrEqual(t, w.Sign(), 0)
		// words are drawn from 32 bytes of entropy
		require.LessOrEqual(t, w.BitLen(), 256)
	}
}

type discardSink struct{}

func (discardSink) Dispatch(context.Context, string, []*big.Int) error { return nil }

func TestLocalSourceUniqueRequestIDs(t *testing.T) {
	source := NewLocalSource(0)
	source.SetSink(discardSink{})

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		id, err := source.RequestRandomWords(context.Background(), RandomWordsRequest{NumWords: 1})
		require.NoError(t, err)
		require.False(t, seen[id])
		seen[id] = true
	}
}

func TestLocalSourceRejectsMisconfiguration(t *testing.T) {
	source := NewLocalSource(time.Millisecond)

	_, err := source.RequestRandomWords(context.Background(), RandomWordsRequest{NumWords: 1})
	require.Error(t, err)

	source.SetSink(newCaptureSink())
	_, err = source.RequestRandomWords(context.Background(), RandomWordsRequest{NumWords: 0})
	require.Error(t, err)
}
