package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"ippo/internal/platform"
	"ippo/pkg/retrylimit"

	"github.com/bwmarrin/discordgo"
)

// restStatus returns the HTTP status of a discordgo REST error, or 0.
func restStatus(err error) int {
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil {
		return rest.Response.StatusCode
	}
	return 0
}

// statusError exposes a REST status to retrylimit.
type statusError struct {
	err  error
	code int
}

func (e *statusError) Error() string   { return e.err.Error() }
func (e *statusError) Unwrap() error   { return e.err }
func (e *statusError) StatusCode() int { return e.code }

// mapError translates REST failures into the platform taxonomy, keeping the
// original error in the chain.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch restStatus(err) {
	case http.StatusForbidden:
		return fmt.Errorf("%w: %w", platform.ErrTargetNotManageable, err)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", platform.ErrTargetNotFound, err)
	}
	return err
}

// caller runs REST requests through the adaptive limiter with bounded retries.
type caller struct {
	limiter *retrylimit.AdaptiveLimiter
	policy  retrylimit.Policy
}

func newCaller(maxAttempts int) *caller {
	p := retrylimit.DefaultPolicy()
	if maxAttempts > 0 {
		p.MaxAttempts = maxAttempts
	}
	return &caller{
		limiter: retrylimit.NewAdaptiveLimiter(10, 1, 40, 1, 0.5),
		policy:  p,
	}
}

// do runs fn and maps its final error. fn receives request options bound to ctx.
func (c *caller) do(ctx context.Context, fn func(opts ...discordgo.RequestOption) error) error {
	err := retrylimit.Do(ctx, func(ctx context.Context) error {
		err := fn(discordgo.WithContext(ctx))
		if code := restStatus(err); code != 0 {
			return &statusError{err: err, code: code}
		}
		return err
	}, c.limiter, c.policy)
	return mapError(err)
}
