package soap

import (
	"context"
	"p6export/wssecurity"
	"time"

	"go.uber.org/zap"
)

type Invoker func(ctx context.Context, req *Request) (*Response, error)

type Middleware func(next Invoker) Invoker

// Chain wraps final so that middleware[0] runs first. Callers compose a chain
// per call; nothing is shared between calls except the middleware values.
func Chain(final Invoker, middleware ...Middleware) Invoker {
	invoke := final
	for i := len(middleware) - 1; i >= 0; i-- {
		invoke = middleware[i](invoke)
	}
	return invoke
}

// CredentialSource mints one credential block per call.
type CredentialSource interface {
	Build(now time.Time) (*wssecurity.Block, error)
}

// WithAuth attaches a freshly built wsse:Security header to every call.
func WithAuth(source CredentialSource, clock func() time.Time) Middleware {
	if clock == nil {
		clock = time.Now
	}
	return func(next Invoker) Invoker {
		return func(ctx context.Context, req *Request) (*Response, error) {
			block, err := source.Build(clock())
			if err != nil {
				return nil, err
			}
			return next(ctx, req.WithHeader(block.Header()))
		}
	}
}

// WithLogging records one outbound and one inbound debug entry per call.
// Envelope bodies and header contents are never logged.
func WithLogging(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next Invoker) Invoker {
		return func(ctx context.Context, req *Request) (*Response, error) {
			logger.Debug("soap message",
				zap.String("direction", "outbound"),
				zap.String("endpoint", req.Endpoint),
				zap.String("operation", req.Operation),
				zap.Int("header_blocks", len(req.Headers)))

			started := time.Now()
			resp, err := next(ctx, req)

			fields := []zap.Field{
				zap.String("direction", "inbound"),
				zap.String("endpoint", req.Endpoint),
				zap.String("operation", req.Operation),
				zap.Duration("duration", time.Since(started)),
			}
			if resp != nil {
				fields = append(fields, zap.Int("status", resp.StatusCode), zap.Int("bytes", resp.Bytes))
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}
			logger.Debug("soap message", fields...)
			return resp, err
		}
	}
}
