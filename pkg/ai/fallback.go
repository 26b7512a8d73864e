package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"fitai-backend/pkg/logging"
)

// FallbackService tries the primary provider first (Gemini) and falls back to
// the secondary (OpenRouter) on any failure
type FallbackService struct {
	primary       TextProvider
	secondary     TextProvider
	primaryName   string
	secondaryName string
}

// NewFallbackService creates a new fallback service. Either provider may be nil.
func NewFallbackService(primary TextProvider, primaryName string, secondary TextProvider, secondaryName string) *FallbackService {
	return &FallbackService{
		primary:       primary,
		secondary:     secondary,
		primaryName:   primaryName,
		secondaryName: secondaryName,
	}
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"eof",
	} {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"resource exhausted",
		"resource_exhausted",
	} {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

func reason(err error) string {
	switch {
	case isQuotaError(err):
		return "quota"
	case isConnectionError(err):
		return "connection"
	default:
		return "error"
	}
}

// Generate implements TextProvider
func (f *FallbackService) Generate(ctx context.Context, system, prompt string) (string, error) {
	log := logging.Component("ai")
	var primaryErr error

	if f.primary != nil {
		result, err := f.primary.Generate(ctx, system, prompt)
		if err == nil {
			return result, nil
		}
		primaryErr = err
		log.Warn().Err(err).Str("provider", f.primaryName).Str("reason", reason(err)).Msgf("falling back to %s", f.secondaryName)
	}

	if f.secondary != nil {
		result, err := f.secondary.Generate(ctx, system, prompt)
		if err == nil {
			return result, nil
		}
		if primaryErr != nil {
			return "", fmt.Errorf("%s: %v; %s: %w", f.primaryName, primaryErr, f.secondaryName, err)
		}
		return "", fmt.Errorf("%s: %w", f.secondaryName, err)
	}

	if primaryErr != nil {
		return "", fmt.Errorf("%s: %w", f.primaryName, primaryErr)
	}
	return "", fmt.Errorf("no AI provider available")
}
