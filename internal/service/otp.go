package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"shg-backend/internal/domain"
	"shg-backend/internal/logger"
)

// OTPStore is the subset of redis commands backing the OTP gate.
type OTPStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type otpService struct {
	store       OTPStore
	sms         SMSSender
	codeTTL     time.Duration
	verifiedTTL time.Duration
}

func NewOTPService(store OTPStore, sms SMSSender, codeTTL, verifiedTTL time.Duration) OTPService {
	if codeTTL <= 0 {
		codeTTL = 5 * time.Minute
	}
	if verifiedTTL <= 0 {
		verifiedTTL = 5 * time.Minute
	}
	return &otpService{
		store:       store,
		sms:         sms,
		codeTTL:     codeTTL,
		verifiedTTL: verifiedTTL,
	}
}

func codeKey(phone string) string     { return "otp:code:" + phone }
func verifiedKey(phone string) string { return "otp:verified:" + phone }

// RequestCode issues a fresh 6-digit code for the phone. Only a bcrypt hash
// of the code ever reaches the store; the plaintext goes out over SMS and is
// then discarded.
func (s *otpService) RequestCode(ctx context.Context, phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return fmt.Errorf("%w: phone is required", domain.ErrValidation)
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate otp code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash otp code: %w", err)
	}

	if err := s.store.Set(ctx, codeKey(phone), string(hash), s.codeTTL).Err(); err != nil {
		return fmt.Errorf("store otp code: %w", err)
	}

	message := fmt.Sprintf("Your SHG verification code is %s. It expires in %d minutes.",
		code, int(s.codeTTL.Minutes()))
	if err := s.sms.Send(ctx, phone, message); err != nil {
		// Drop the stored hash so a failed delivery cannot be verified.
		s.store.Del(context.WithoutCancel(ctx), codeKey(phone))
		return fmt.Errorf("deliver otp code: %w", err)
	}

	logger.Info("OTP code issued", "phone", phone)
	return nil
}

// VerifyCode checks the submitted code against the stored hash. A correct
// code is single-use: it is consumed and the phone is marked verified for
// the configured window.
func (s *otpService) VerifyCode(ctx context.Context, phone, code string) error {
	phone = strings.TrimSpace(phone)
	hash, err := s.store.Get(ctx, codeKey(phone)).Result()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: no active verification code", domain.ErrValidation)
	}
	if err != nil {
		return fmt.Errorf("load otp code: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)); err != nil {
		return fmt.Errorf("%w: incorrect verification code", domain.ErrValidation)
	}

	if err := s.store.Del(ctx, codeKey(phone)).Err(); err != nil {
		return fmt.Errorf("consume otp code: %w", err)
	}
	if err := s.store.Set(ctx, verifiedKey(phone), "1", s.verifiedTTL).Err(); err != nil {
		return fmt.Errorf("mark phone verified: %w", err)
	}

	logger.Info("OTP code verified", "phone", phone)
	return nil
}

func (s *otpService) IsVerified(ctx context.Context, phone string) (bool, error) {
	_, err := s.store.Get(ctx, verifiedKey(strings.TrimSpace(phone))).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check phone verification: %w", err)
	}
	return true, nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
