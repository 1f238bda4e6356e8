package service

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"shg-backend/internal/domain"
)

// MockOTPStore
type MockOTPStore struct {
	mock.Mock
}

func (m *MockOTPStore) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)
	return redis.NewStringResult(args.String(0), args.Error(1))
}
func (m *MockOTPStore) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(ctx, key, value, expiration)
	return redis.NewStatusResult("OK", args.Error(0))
}
func (m *MockOTPStore) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	args := m.Called(ctx, keys)
	return redis.NewIntResult(1, args.Error(0))
}

// MockSMS
type MockSMS struct {
	mock.Mock
}

func (m *MockSMS) Send(ctx context.Context, phone, message string) error {
	args := m.Called(ctx, phone, message)
	return args.Error(0)
}

func TestOTPService_RequestCode(t *testing.T) {
	ctx := context.Background()

	t.Run("Stores a hash and delivers the code", func(t *testing.T) {
		store := new(MockOTPStore)
		sms := new(MockSMS)
		svc := NewOTPService(store, sms, 5*time.Minute, 5*time.Minute)

		var storedHash string
		store.On("Set", ctx, "otp:code:+911234567890", mock.MatchedBy(func(v interface{}) bool {
			hash, ok := v.(string)
			if ok {
				storedHash = hash
			}
			return ok
		}), 5*time.Minute).Return(nil)

		var sentMessage string
		sms.On("Send", ctx, "+911234567890", mock.MatchedBy(func(msg string) bool {
			sentMessage = msg
			return true
		})).Return(nil)

		err := svc.RequestCode(ctx, "+911234567890")
		assert.NoError(t, err)
		// The plaintext never reaches the store.
		assert.NotContains(t, sentMessage, storedHash)
		assert.NotEmpty(t, storedHash)
	})

	t.Run("Failed delivery discards the stored hash", func(t *testing.T) {
		store := new(MockOTPStore)
		sms := new(MockSMS)
		svc := NewOTPService(store, sms, 5*time.Minute, 5*time.Minute)

		store.On("Set", ctx, "otp:code:+911234567890", mock.Anything, 5*time.Minute).Return(nil)
		sms.On("Send", ctx, "+911234567890", mock.Anything).Return(assert.AnError)
		store.On("Del", mock.Anything, []string{"otp:code:+911234567890"}).Return(nil)

		err := svc.RequestCode(ctx, "+911234567890")
		assert.Error(t, err)
		store.AssertCalled(t, "Del", mock.Anything, []string{"otp:code:+911234567890"})
	})

	t.Run("Empty phone", func(t *testing.T) {
		svc := NewOTPService(new(MockOTPStore), new(MockSMS), time.Minute, time.Minute)
		err := svc.RequestCode(ctx, "  ")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestOTPService_VerifyCode(t *testing.T) {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("482913"), bcrypt.MinCost)

	t.Run("Correct code is consumed and marks the phone verified", func(t *testing.T) {
		store := new(MockOTPStore)
		svc := NewOTPService(store, new(MockSMS), 5*time.Minute, 10*time.Minute)

		store.On("Get", ctx, "otp:code:+911234567890").Return(string(hash), nil)
		store.On("Del", ctx, []string{"otp:code:+911234567890"}).Return(nil)
		store.On("Set", ctx, "otp:verified:+911234567890", "1", 10*time.Minute).Return(nil)

		err := svc.VerifyCode(ctx, "+911234567890", "482913")
		assert.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("Wrong code", func(t *testing.T) {
		store := new(MockOTPStore)
		svc := NewOTPService(store, new(MockSMS), 5*time.Minute, 10*time.Minute)

		store.On("Get", ctx, "otp:code:+911234567890").Return(string(hash), nil)

		err := svc.VerifyCode(ctx, "+911234567890", "000000")
		assert.ErrorIs(t, err, domain.ErrValidation)
		store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("No active code", func(t *testing.T) {
		store := new(MockOTPStore)
		svc := NewOTPService(store, new(MockSMS), 5*time.Minute, 10*time.Minute)

		store.On("Get", ctx, "otp:code:+911234567890").Return("", redis.Nil)

		err := svc.VerifyCode(ctx, "+911234567890", "482913")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestOTPService_IsVerified(t *testing.T) {
	ctx := context.Background()

	t.Run("Within the window", func(t *testing.T) {
		store := new(MockOTPStore)
		svc := NewOTPService(store, new(MockSMS), time.Minute, time.Minute)
		store.On("Get", ctx, "otp:verified:+911234567890").Return("1", nil)

		verified, err := svc.IsVerified(ctx, "+911234567890")
		assert.NoError(t, err)
		assert.True(t, verified)
	})

	t.Run("Expired or never verified", func(t *testing.T) {
		store := new(MockOTPStore)
		svc := NewOTPService(store, new(MockSMS), time.Minute, time.Minute)
		store.On("Get", ctx, "otp:verified:+911234567890").Return("", redis.Nil)

		verified, err := svc.IsVerified(ctx, "+911234567890")
		assert.NoError(t, err)
		assert.False(t, verified)
	})
}
