package tortilla

import (
	"context"
	"log/slog"
	"time"
)

// CallInfo identifies the routine being invoked through a Registry.
type CallInfo struct {
	Class   string
	Routine string
}

// Invoker represents the next stage in an interceptor chain: either the next
// interceptor or the generated routine itself.
type Invoker func(ctx context.Context, args []any) (any, error)

// CallInterceptor is a hook that wraps invocation of a generated routine.
//
// Interceptors can inspect or replace arguments before calling next, inspect
// the result afterwards, or short-circuit by returning without calling next.
type CallInterceptor func(ctx context.Context, call CallInfo, args []any, next Invoker) (any, error)

// chainInterceptors combines interceptors into one. The first interceptor in
// the slice is the outermost.
func chainInterceptors(interceptors []CallInterceptor, call CallInfo, final Invoker) Invoker {
	chain := final
	for i := len(interceptors) - 1; i >= 0; i-- {
		current := interceptors[i]
		next := chain
		chain = func(ctx context.Context, args []any) (any, error) {
			return current(ctx, call, args, next)
		}
	}
	return chain
}

// LoggingInterceptor logs every routine call with its duration and outcome.
// It backs the --instrument flag of the CLI driver.
func LoggingInterceptor(logger *slog.Logger) CallInterceptor {
	if logger == nil {
		logger = slog.Default()
	}

	return func(ctx context.Context, call CallInfo, args []any, next Invoker) (any, error) {
		start := time.Now()

		res, err := next(ctx, args)
		duration := time.Since(start)

		if err != nil {
			logger.ErrorContext(ctx, "call failed",
				slog.String("class", call.Class),
				slog.String("routine", call.Routine),
				slog.Int("args", len(args)),
				slog.Duration("duration", duration),
				slog.Any("error", err),
			)
		} else {
			logger.InfoContext(ctx, "call completed",
				slog.String("class", call.Class),
				slog.String("routine", call.Routine),
				slog.Int("args", len(args)),
				slog.Duration("duration", duration),
			)
		}

		return res, err
	}
}

// Instrument wraps a single routine with a logging interceptor, for use
// outside a Registry.
func Instrument(class, name string, logger *slog.Logger, r Routine) Routine {
	intercept := LoggingInterceptor(logger)
	call := CallInfo{Class: class, Routine: name}
	return func(args ...any) (any, error) {
		return intercept(context.Background(), call, args, func(_ context.Context, args []any) (any, error) {
			return r(args...)
		})
	}
}
