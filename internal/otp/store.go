// Package otp issues and redeems the one-time codes used to verify
// registration e-mail addresses. Codes live only in redis under a TTL; the
// relational store never sees them.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCodeMismatch = errors.New("invalid or expired verification code")
)

const codeLength = 6

type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func key(email string) string {
	return "otp:register:" + email
}

// Issue generates a fresh numeric code for the address and stores it under
// the configured TTL, replacing any previous code.
func (s *Store) Issue(ctx context.Context, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("generating code: %w", err)
	}
	if err := s.client.Set(ctx, key(email), code, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("storing code: %w", err)
	}
	return code, nil
}

// Redeem compares the submitted code against the stored one and consumes it
// on success. Expired, missing, and wrong codes are indistinguishable to the
// caller: all return ErrCodeMismatch.
func (s *Store) Redeem(ctx context.Context, email, code string) error {
	stored, err := s.client.Get(ctx, key(email)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrCodeMismatch
	}
	if err != nil {
		return fmt.Errorf("reading code: %w", err)
	}
	if stored != code {
		return ErrCodeMismatch
	}
	if err := s.client.Del(ctx, key(email)).Err(); err != nil {
		return fmt.Errorf("consuming code: %w", err)
	}
	return nil
}

func generateCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	digits := make([]byte, codeLength)
	for i, b := range buf {
		digits[i] = '0' + b%10
	}
	return string(digits), nil
}
