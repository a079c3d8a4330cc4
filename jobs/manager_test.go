package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRanker struct {
	calls int
	err   error
}

func (s *stubRanker) Recompute(ctx context.Context) error {
	s.calls++
	return s.err
}

func TestHandleRecomputeRanks(t *testing.T) {
	ranker := &stubRanker{}
	handler := handleRecomputeRanks(ranker)

	require.NoError(t, handler(context.Background(), asynq.NewTask(TypeRecomputeRanks, nil)))
	assert.Equal(t, 1, ranker.calls)

	ranker.err = errors.New("db down")
	err := handler(context.Background(), asynq.NewTask(TypeRecomputeRanks, nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, ranker.err)
}

func TestNewJobManager_RejectsBadURL(t *testing.T) {
	_, err := NewJobManager("not a url")
	assert.Error(t, err)
}

func TestRankTaskOptions(t *testing.T) {
	opts := rankTaskOptions()
	require.Len(t, opts, 4)
	types := make([]asynq.OptionType, 0, len(opts))
	for _, o := range opts {
		types = append(types, o.Type())
	}
	assert.ElementsMatch(t, []asynq.OptionType{asynq.QueueOpt, asynq.MaxRetryOpt, asynq.TimeoutOpt, asynq.UniqueOpt}, types)
}
