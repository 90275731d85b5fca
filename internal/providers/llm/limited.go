package llm

import (
	"context"

	"golang.org/x/time/rate"
)

// Limited puts a token bucket in front of a Provider so a burst of interview
// traffic cannot exhaust the model quota. Waiting honours ctx; nothing is retried.
type Limited struct {
	next    Provider
	limiter *rate.Limiter
}

func NewLimited(next Provider, perSecond float64, burst int) *Limited {
	if burst <= 0 {
		burst = 1
	}
	lim := rate.NewLimiter(rate.Inf, burst)
	if perSecond > 0 {
		lim = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
	return &Limited{next: next, limiter: lim}
}

func (l *Limited) Generate(ctx context.Context, prompt string) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return l.next.Generate(ctx, prompt)
}

func (l *Limited) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return l.next.GenerateJSON(ctx, prompt)
}

func (l *Limited) Close() error { return l.next.Close() }
