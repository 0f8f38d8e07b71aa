package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const serviceEventTable = "service_request_events"

var serviceEventColumns = []string{
	"id", "created_at", "op", "request_id", "subject",
	"status", "latency_ms", "success", "error_message",
}

// eventRepo implements EventRepo with the ent SQL builder.
type eventRepo struct {
	drv *entsql.Driver
}

func (r *eventRepo) AppendServiceRequest(ctx context.Context, data ServiceRequestEventData) error {
	success := 0
	if data.Success {
		success = 1
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(serviceEventTable).
		Columns(serviceEventColumns[1:]...).
		Values(
			time.Now().UnixMilli(),
			data.Op,
			data.RequestID,
			data.Subject,
			data.Status,
			data.LatencyMs,
			success,
			data.ErrorMessage,
		).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save service request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryServiceEvents(ctx context.Context, opts QueryOpts) ([]ServiceRequestEvent, error) {
	b := entsql.Dialect(dialect.SQLite)
	sel := b.Select(serviceEventColumns...).From(b.Table(serviceEventTable))

	if opts.After > 0 {
		sel.Where(entsql.GT("id", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("id", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("created_at", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("created_at", opts.To.UnixMilli()))
	}
	if opts.Op != "" {
		sel.Where(entsql.EQ("op", opts.Op))
	}
	sel.OrderBy(entsql.Desc("id"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query service events: %w", err)
	}
	defer rows.Close()

	var events []ServiceRequestEvent
	for rows.Next() {
		var (
			e         ServiceRequestEvent
			createdAt int64
			success   int64
		)
		if err := rows.Scan(
			&e.ID,
			&createdAt,
			&e.Op,
			&e.RequestID,
			&e.Subject,
			&e.Status,
			&e.LatencyMs,
			&success,
			&e.ErrorMessage,
		); err != nil {
			return nil, fmt.Errorf("scan service event: %w", err)
		}
		e.Timestamp = time.UnixMilli(createdAt)
		e.Success = success != 0
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate service events: %w", err)
	}
	return events, nil
}
