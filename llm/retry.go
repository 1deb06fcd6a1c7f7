package llm

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"
)

// Retrier handles retry logic for LLM operations
type Retrier struct {
	config RetryConfig
	rand   *rand.Rand
}

// NewRetrier creates a new retrier with the given configuration
func NewRetrier(config RetryConfig) *Retrier {
	return &Retrier{
		config: config,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// RetryOperation represents an operation that can be retried
type RetryOperation[T any] func(ctx context.Context, attempt int) (T, error)

// Execute executes an operation with retry logic
func Execute[T any](r *Retrier, ctx context.Context, operation RetryOperation[T]) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := operation(ctx, attempt)
		if err == nil {
			return result, nil
		}

		lastErr = err

		if !r.shouldRetry(err, attempt) {
			// If we've reached max retries, return an exhaustion error to
			// signal retry policy completed.
			if attempt >= r.config.MaxRetries {
				return zero, fmt.Errorf("operation failed after %d attempts: %w", r.config.MaxRetries+1, err)
			}
			return zero, err
		}

		delay := r.calculateDelay(attempt, err)

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
	}

	return zero, fmt.Errorf("operation failed after %d attempts: %w", r.config.MaxRetries+1, lastErr)
}

// ExecuteSimple executes a simple operation without generics
func (r *Retrier) ExecuteSimple(ctx context.Context, operation func(context.Context, int) error) error {
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := operation(ctx, attempt)
		if err == nil {
			return nil
		}

		lastErr = err

		if !r.shouldRetry(err, attempt) {
			return err
		}

		delay := r.calculateDelay(attempt, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("operation failed after %d attempts: %w", r.config.MaxRetries+1, lastErr)
}

// shouldRetry determines if an operation should be retried
func (r *Retrier) shouldRetry(err error, attempt int) bool {
	if attempt >= r.config.MaxRetries {
		return false
	}

	if llmErr, ok := IsLLMError(err); ok {
		return llmErr.IsRetryable()
	}

	// Check against configured retryable error types/messages
	errStr := err.Error()
	for _, retryableErr := range r.config.RetryableErrors {
		if strings.Contains(strings.ToLower(errStr), strings.ToLower(retryableErr)) {
			return true
		}
	}

	return false
}

// calculateDelay calculates the delay before the next retry
func (r *Retrier) calculateDelay(attempt int, err error) time.Duration {
	// Honor a retry-after value from the provider if present
	if llmErr, ok := IsLLMError(err); ok && llmErr.RetryAfter > 0 {
		return time.Duration(llmErr.RetryAfter) * time.Second
	}

	// Exponential backoff with jitter
	base := float64(r.config.InitialDelay)
	delay := base * math.Pow(r.config.BackoffFactor, float64(attempt))

	jitter := 0.25 * delay * (r.rand.Float64()*2 - 1)
	delay += jitter

	if delay > float64(r.config.MaxDelay) {
		delay = float64(r.config.MaxDelay)
	}
	if delay < float64(r.config.InitialDelay) {
		delay = float64(r.config.InitialDelay)
	}

	return time.Duration(delay)
}
