package gate

import (
	"fmt"
	"time"
)

type ErrInvalidShortCode struct {
	Code string
}

func (e ErrInvalidShortCode) Error() string {
	return fmt.Sprintf("invalid short code %q", e.Code)
}

type ErrTokenNotFound struct {
	Code string
}

func (e ErrTokenNotFound) Error() string {
	return fmt.Sprintf("no token for short code %q", e.Code)
}

type ErrTokenExpired struct {
	Code string
}

func (e ErrTokenExpired) Error() string {
	return fmt.Sprintf("token for short code %q has expired", e.Code)
}

type ErrTokenExhausted struct {
	Code string
}

func (e ErrTokenExhausted) Error() string {
	return fmt.Sprintf("token for short code %q has no uses left", e.Code)
}

type ErrRateLimited struct {
	RetryAfter time.Duration
}

func (e ErrRateLimited) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry in %s", e.RetryAfter)
}
