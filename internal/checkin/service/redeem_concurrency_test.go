package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brigade/internal/checkin/models"
	"brigade/internal/checkin/store"
	dErrors "brigade/pkg/domain-errors"
	"brigade/pkg/testutil"
)

func newConcurrencyService(t *testing.T) (*Service, *store.InMemory) {
	t.Helper()
	mem := store.NewInMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(mem, WithLogger(logger)), mem
}

func TestConcurrentRedeemExactlyOneWinner(t *testing.T) {
	svc, _ := newConcurrencyService(t)

	c, err := svc.Issue(context.Background(), time.Now().Add(time.Hour), "")
	require.NoError(t, err)

	const scanners = 32
	res := testutil.RunConcurrent(scanners, func(int) error {
		_, err := svc.Redeem(context.Background(), c.Code)
		return err
	})

	assert.EqualValues(t, 1, res.Successes, "exactly one scan may win")
	assert.EqualValues(t, scanners-1, res.Redeemed, "all losers see already_redeemed")
	assert.EqualValues(t, 0, res.Errors)
	assert.EqualValues(t, scanners, res.Total())

	final, err := svc.Get(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRedeemed, final.Status)
	assert.EqualValues(t, 1, final.Version)
}

func TestConcurrentRedeemAcrossDistinctCodes(t *testing.T) {
	// Unrelated credentials must not serialize against each other: every
	// code redeems exactly once regardless of contention elsewhere.
	svc, _ := newConcurrencyService(t)

	const codes = 8
	issued := make([]*models.CheckinCode, codes)
	for i := range issued {
		c, err := svc.Issue(context.Background(), time.Now().Add(time.Hour), "")
		require.NoError(t, err)
		issued[i] = c
	}

	res := testutil.RunConcurrent(codes*4, func(idx int) error {
		_, err := svc.Redeem(context.Background(), issued[idx%codes].Code)
		return err
	})

	assert.EqualValues(t, codes, res.Successes)
	assert.EqualValues(t, codes*3, res.Redeemed)
}

func TestConcurrentToggleVersusRedeem(t *testing.T) {
	// Whichever conditional update commits first wins; the loser re-reads
	// and reports the terminal answer. Both succeeding is impossible.
	for i := 0; i < 20; i++ {
		svc, _ := newConcurrencyService(t)
		c, err := svc.Issue(context.Background(), time.Now().Add(time.Hour), "")
		require.NoError(t, err)

		type outcome struct {
			op  string
			err error
		}
		results := make(chan outcome, 2)
		go func() {
			_, err := svc.Redeem(context.Background(), c.Code)
			results <- outcome{"redeem", err}
		}()
		go func() {
			_, err := svc.Toggle(context.Background(), c.ID)
			results <- outcome{"toggle", err}
		}()

		byOp := make(map[string]error, 2)
		for j := 0; j < 2; j++ {
			r := <-results
			byOp[r.op] = r.err
		}

		redeemErr, toggleErr := byOp["redeem"], byOp["toggle"]
		final, err := svc.Get(context.Background(), c.ID)
		require.NoError(t, err)

		switch {
		case redeemErr == nil:
			assert.Equal(t, models.StatusRedeemed, final.Status)
			if toggleErr != nil {
				assert.True(t, dErrors.HasCode(toggleErr, dErrors.CodeAlreadyRedeemed),
					"toggle racing a committed redemption must see already_redeemed, got %v", toggleErr)
			} else {
				// Toggle committed first (disabled), redeem cannot have
				// succeeded afterwards; contradiction.
				t.Fatalf("both redeem and toggle succeeded")
			}
		case toggleErr == nil:
			assert.Equal(t, models.StatusDisabled, final.Status)
			assert.True(t, dErrors.HasCode(redeemErr, dErrors.CodeDisabled),
				"redeem racing a committed disable must see disabled, got %v", redeemErr)
		default:
			t.Fatalf("neither operation succeeded: redeem=%v toggle=%v", redeemErr, toggleErr)
		}
	}
}

func TestAbandonedRedeemLeavesConsistentState(t *testing.T) {
	// A caller cancelling mid-flight cannot corrupt the record: every
	// mutation is a single conditional update, so a later scan still wins
	// exactly once.
	svc, _ := newConcurrencyService(t)
	c, err := svc.Issue(context.Background(), time.Now().Add(time.Hour), "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _ = svc.Redeem(ctx, c.Code) // may fail or succeed; must not corrupt

	final, err := svc.Get(context.Background(), c.ID)
	require.NoError(t, err)
	switch final.Status {
	case models.StatusRedeemed:
		_, err = svc.Redeem(context.Background(), c.Code)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeAlreadyRedeemed))
	case models.StatusActive:
		_, err = svc.Redeem(context.Background(), c.Code)
		assert.NoError(t, err)
	default:
		t.Fatalf("unexpected status %s", final.Status)
	}
}
