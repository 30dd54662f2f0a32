package server

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/skillforge/depot/api"
	"github.com/skillforge/depot/gate"
)

// writeGateError maps access-gate and catalog failures onto their response
// statuses. Anything unrecognized is a defect and reports as a 500.
func writeGateError(log *zap.Logger, w http.ResponseWriter, err error) {
	switch e := err.(type) {
	case gate.ErrInvalidShortCode, gate.ErrTokenNotFound:
		log.Info("Rejecting request for unknown or invalid short code", zap.Error(err))
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("Not found"))

	case gate.ErrTokenExpired:
		log.Info("Rejecting request with expired token", zap.Error(err))
		w.WriteHeader(http.StatusGone)
		_, _ = w.Write([]byte("Download link expired"))

	case gate.ErrTokenExhausted:
		log.Info("Rejecting request with exhausted token", zap.Error(err))
		w.WriteHeader(http.StatusGone)
		_, _ = w.Write([]byte("Download link has no uses left"))

	case gate.ErrRateLimited:
		log.Info("Rejecting rate-limited request", zap.Error(err))
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(e.RetryAfter.Seconds())))
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("Too many requests"))

	case api.HTTPNotFound:
		log.Info("Rejecting request for skill unknown to the catalog", zap.Error(err))
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("Not found"))

	default:
		log.Error("Request failed", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Internal server error"))
	}
}
