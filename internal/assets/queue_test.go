package assets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueuePumpRunsOnCaller(t *testing.T) {
	q := NewQueue(context.Background(), 4)
	release := make(chan struct{})

	var got int
	Submit(q,
		func(ctx context.Context) (int, error) {
			<-release
			return 42, nil
		},
		func(v int, err error) { got = v },
	)

	assert.Equal(t, 0, q.Pump(), "nothing completes before the worker finishes")
	assert.Equal(t, 1, q.Pending())

	close(release)
	require.Eventually(t, func() bool { return q.Pump() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, 42, got)
	assert.Equal(t, 0, q.Pending())
}

func TestQueueSettle(t *testing.T) {
	q := NewQueue(context.Background(), 1)

	var order []string
	Submit(q,
		func(ctx context.Context) (string, error) { return "a", nil },
		func(v string, err error) {
			order = append(order, v)
			Submit(q,
				func(ctx context.Context) (string, error) { return "b", nil },
				func(v string, err error) { order = append(order, v) },
			)
		},
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, q.Settle(ctx))
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestQueueErrorPassedThrough(t *testing.T) {
	q := NewQueue(context.Background(), 1)
	boom := errors.New("boom")

	var gotErr error
	Submit(q,
		func(ctx context.Context) (struct{}, error) { return struct{}{}, boom },
		func(_ struct{}, err error) { gotErr = err },
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, q.Settle(ctx))
	assert.ErrorIs(t, gotErr, boom)
}

func TestQueueSettleHonorsContext(t *testing.T) {
	q := NewQueue(context.Background(), 1)
	block := make(chan struct{})
	defer close(block)

	Submit(q,
		func(ctx context.Context) (int, error) {
			<-block
			return 0, nil
		},
		func(int, error) {},
	)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, q.Settle(ctx), context.DeadlineExceeded)
}

func TestQueueCanceledDropsWork(t *testing.T) {
	ctx, stop := context.WithCancel(context.Background())
	q := NewQueue(ctx, 1)

	// Fill the only buffer slot so the second worker has to wait to deliver.
	ran := 0
	for i := 0; i < 2; i++ {
		Submit(q,
			func(ctx context.Context) (int, error) { return 0, nil },
			func(int, error) { ran++ },
		)
	}
	require.Eventually(t, func() bool { return len(q.done) == 1 }, time.Second, time.Millisecond)
	stop()

	settleCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.ErrorIs(t, q.Settle(settleCtx), context.Canceled)

	require.Eventually(t, func() bool { return q.Pending() == 1 }, time.Second, time.Millisecond,
		"the blocked worker gives up its slot")
	assert.Equal(t, 1, q.Pump())
	assert.Equal(t, 1, ran)
	assert.Equal(t, 0, q.Pending())
}
