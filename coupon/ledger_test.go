package coupon_test

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/YuBaichuan2000/e-commerce/coupon"
	"github.com/YuBaichuan2000/e-commerce/coupon/repofake"
	apperrors "github.com/YuBaichuan2000/e-commerce/internal/errors"
)

const (
	testUserID  = "user-1"
	otherUserID = "user-2"
	testCode    = "GIFTABC123"
)

func setupLedger(t *testing.T, options ...coupon.LedgerOption) (*coupon.Ledger, *repofake.FakeCouponRepo) {
	t.Helper()
	repo := repofake.NewFakeCouponRepo()
	ledger, err := coupon.NewLedger(repo, zerolog.Nop(), options...)
	require.NoError(t, err)
	return ledger, repo
}

func seedCoupon(t *testing.T, repo *repofake.FakeCouponRepo, pct int, expiry time.Time) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &coupon.Coupon{
		ID:                 "c-1",
		Code:               testCode,
		DiscountPercentage: pct,
		ExpirationDate:     expiry,
		UserID:             testUserID,
		IsActive:           true,
	}))
}

func TestValidate(t *testing.T) {
	ledger, repo := setupLedger(t)
	seedCoupon(t, repo, 10, time.Now().Add(24*time.Hour))

	c, err := ledger.Validate(context.Background(), testCode, testUserID)
	require.NoError(t, err)
	require.Equal(t, testCode, c.Code)
	require.Equal(t, 10, c.DiscountPercentage)
}

func TestValidateNeverCrossesUsers(t *testing.T) {
	ledger, repo := setupLedger(t)
	seedCoupon(t, repo, 10, time.Now().Add(24*time.Hour))

	// Correct code string, wrong owner.
	_, err := ledger.Validate(context.Background(), testCode, otherUserID)
	require.ErrorIs(t, err, apperrors.ErrCouponNotFound)
}

func TestValidateExpired(t *testing.T) {
	ledger, repo := setupLedger(t)
	seedCoupon(t, repo, 10, time.Now().Add(-time.Hour))

	_, err := ledger.Validate(context.Background(), testCode, testUserID)
	require.ErrorIs(t, err, apperrors.ErrCouponNotFound)
}

func TestValidateUnknownCode(t *testing.T) {
	ledger, _ := setupLedger(t)

	_, err := ledger.Validate(context.Background(), "NOPE", testUserID)
	require.ErrorIs(t, err, apperrors.ErrCouponNotFound)
}

func TestApplyDiscount(t *testing.T) {
	ledger, _ := setupLedger(t)

	// 9998 cents at 10% discounts 999.8 cents, rounded half-up to 1000.
	c := &coupon.Coupon{DiscountPercentage: 10}
	require.Equal(t, int64(8998), ledger.ApplyDiscount(9998, c))

	require.Equal(t, int64(0), ledger.ApplyDiscount(9998, &coupon.Coupon{DiscountPercentage: 100}))
	require.Equal(t, int64(9998), ledger.ApplyDiscount(9998, &coupon.Coupon{DiscountPercentage: 0}))
}

func TestApplyDiscountMonotonicNonIncreasing(t *testing.T) {
	ledger, _ := setupLedger(t)

	for pct := 0; pct <= 100; pct++ {
		got := ledger.ApplyDiscount(12345, &coupon.Coupon{DiscountPercentage: pct})
		require.GreaterOrEqual(t, got, int64(0), "pct=%d", pct)
		require.LessOrEqual(t, got, int64(12345), "pct=%d", pct)
	}
}

func TestDeactivateExactlyOnce(t *testing.T) {
	ledger, repo := setupLedger(t)
	seedCoupon(t, repo, 10, time.Now().Add(24*time.Hour))
	ctx := context.Background()

	require.NoError(t, ledger.Deactivate(ctx, testCode, testUserID))
	require.False(t, repo.Get(testCode).IsActive)

	// The second redemption loses the conditional update.
	err := ledger.Deactivate(ctx, testCode, testUserID)
	require.ErrorIs(t, err, apperrors.ErrCouponNotFound)
}

func TestDeactivateConcurrent(t *testing.T) {
	ledger, repo := setupLedger(t)
	seedCoupon(t, repo, 10, time.Now().Add(24*time.Hour))

	const callers = 8
	var wg sync.WaitGroup
	wins := make(chan struct{}, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ledger.Deactivate(context.Background(), testCode, testUserID); err == nil {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	require.Len(t, wins, 1)
	require.False(t, repo.Get(testCode).IsActive)
}

func TestIssueReward(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ledger, repo := setupLedger(t, coupon.WithNowTime(func() time.Time { return now }))

	c, err := ledger.IssueReward(context.Background(), testUserID)
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^GIFT[A-Z0-9]{6}$`), c.Code)
	require.Equal(t, 10, c.DiscountPercentage)
	require.Equal(t, now.Add(30*24*time.Hour), c.ExpirationDate)
	require.Equal(t, testUserID, c.UserID)
	require.True(t, c.IsActive)

	stored := repo.Get(c.Code)
	require.NotNil(t, stored)
	require.True(t, stored.IsActive)
}

func TestIssueRewardWithPinnedGenerator(t *testing.T) {
	ledger, _ := setupLedger(t, coupon.WithCodeGenerator(
		coupon.CodeGeneratorFunc(func() (string, error) { return "GIFTAAAAAA", nil }),
	))

	c, err := ledger.IssueReward(context.Background(), testUserID)
	require.NoError(t, err)
	require.Equal(t, "GIFTAAAAAA", c.Code)
}

func TestStoreFailureClassification(t *testing.T) {
	ledger, repo := setupLedger(t)
	repo.Err = context.DeadlineExceeded

	_, err := ledger.Validate(context.Background(), testCode, testUserID)
	require.ErrorIs(t, err, apperrors.ErrUpstreamTimeout)
}
