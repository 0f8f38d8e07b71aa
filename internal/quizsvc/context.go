package quizsvc

import "context"

type contextKey string

const callKey contextKey = "quizsvc_call"

// call carries per-request details between the logging decorator and
// the transport.
type call struct {
	RequestID string
	Status    int
}

func withCall(ctx context.Context, c *call) context.Context {
	return context.WithValue(ctx, callKey, c)
}

func callFrom(ctx context.Context) *call {
	if c, ok := ctx.Value(callKey).(*call); ok {
		return c
	}
	return nil
}
