package services

import "context"

type contextKey string

const (
	ticketIDKey contextKey = "ticket_id"
	stageKey    contextKey = "stage"
	runIDKey    contextKey = "run_id"
)

// WithTicketID annotates context with the tracker ticket identifier.
func WithTicketID(ctx context.Context, id int) context.Context {
	return context.WithValue(ctx, ticketIDKey, id)
}

// TicketIDFromContext extracts the ticket identifier if present.
func TicketIDFromContext(ctx context.Context) (int, bool) {
	v := ctx.Value(ticketIDKey)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	default:
		return 0, false
	}
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(stageKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithRunID annotates context with the run correlation identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run correlation identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
