package reminder

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sendReminders "github.com/m04kA/SMC-SalonBooking/internal/usecase/send_reminders"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type fakeUseCase struct {
	calls    atomic.Int32
	err      error
	deadline atomic.Bool
}

func (f *fakeUseCase) Execute(ctx context.Context) (*sendReminders.Result, error) {
	f.calls.Add(1)
	if _, ok := ctx.Deadline(); ok {
		f.deadline.Store(true)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &sendReminders.Result{Found: 1, Sent: 1}, nil
}

func TestNew_InvalidSchedule(t *testing.T) {
	_, err := New(&fakeUseCase{}, "every five minutes", time.Minute, time.UTC, logger.NewNop())
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestRunOnce(t *testing.T) {
	uc := &fakeUseCase{}
	w, err := New(uc, "*/5 * * * *", time.Minute, time.UTC, logger.NewNop())
	require.NoError(t, err)

	require.NoError(t, w.RunOnce(context.Background()))
	assert.Equal(t, int32(1), uc.calls.Load())
	assert.True(t, uc.deadline.Load())

	uc.err = errors.New("db down")
	assert.Error(t, w.RunOnce(context.Background()))
}

func TestStartStop(t *testing.T) {
	uc := &fakeUseCase{}
	w, err := New(uc, "@every 1s", time.Minute, time.UTC, logger.NewNop())
	require.NoError(t, err)

	require.NoError(t, w.Start())
	require.Eventually(t, func() bool { return uc.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, w.Stop(ctx))
}
