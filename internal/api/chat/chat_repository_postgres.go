package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/wanderly/wanderly-api/app/observability/metrics"
	"github.com/wanderly/wanderly-api/internal/types"
)

var _ Repository = (*PostgresRepository)(nil)

// PGXQuerier is the slice of pgxpool.Pool the repository needs. Both the
// real pool and pgxmock satisfy it.
type PGXQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresRepository persists the append-only chat log and saved itineraries.
type PostgresRepository struct {
	logger  *slog.Logger
	pgpool  PGXQuerier
	metrics *metrics.AppMetrics
}

// NewPostgresRepository accepts a nil appMetrics; query timing is then
// skipped.
func NewPostgresRepository(pool PGXQuerier, appMetrics *metrics.AppMetrics, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		logger:  logger,
		pgpool:  pool,
		metrics: appMetrics,
	}
}

// observeQuery records the elapsed query time. Meant for defer with the
// start time captured at the call site.
func (r *PostgresRepository) observeQuery(ctx context.Context, table, operation string, start time.Time) {
	if r.metrics == nil {
		return
	}
	r.metrics.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(
			attribute.String("db.sql.table", table),
			attribute.String("db.operation", operation),
		))
}

func (r *PostgresRepository) SaveMessage(ctx context.Context, msg types.Message) error {
	ctx, span := otel.Tracer("ChatRepo").Start(ctx, "SaveMessage", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "chat_messages"),
		attribute.String("conversation.id", msg.ConversationID),
	))
	defer span.End()
	defer r.observeQuery(ctx, "chat_messages", "INSERT", time.Now())

	query := `
        INSERT INTO chat_messages (id, conversation_id, role, content, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `
	_, err := r.pgpool.Exec(ctx, query, msg.ID, msg.ConversationID, string(msg.Role), msg.Content, msg.Timestamp)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to insert message")
		return fmt.Errorf("failed to insert message: %w", err)
	}
	span.SetStatus(codes.Ok, "Message saved")
	return nil
}

func (r *PostgresRepository) ListMessages(ctx context.Context, conversationID string) ([]types.Message, error) {
	ctx, span := otel.Tracer("ChatRepo").Start(ctx, "ListMessages", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "chat_messages"),
		attribute.String("conversation.id", conversationID),
	))
	defer span.End()
	defer r.observeQuery(ctx, "chat_messages", "SELECT", time.Now())

	query := `
        SELECT id, conversation_id, role, content, created_at
        FROM chat_messages
        WHERE conversation_id = $1
        ORDER BY created_at ASC
    `
	rows, err := r.pgpool.Query(ctx, query, conversationID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to query messages")
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var msgs []types.Message
	for rows.Next() {
		var m types.Message
		var role string
		if err := rows.Scan(&m.ID, &m.ConversationID, &role, &m.Content, &m.Timestamp); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		m.Role = types.MessageRole(role)
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}
	span.SetAttributes(attribute.Int("messages.count", len(msgs)))
	span.SetStatus(codes.Ok, "Messages listed")
	return msgs, nil
}

func (r *PostgresRepository) SaveItinerary(ctx context.Context, itinerary types.SavedItinerary) error {
	ctx, span := otel.Tracer("ChatRepo").Start(ctx, "SaveItinerary", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "saved_itineraries"),
		attribute.String("conversation.id", itinerary.ConversationID),
	))
	defer span.End()
	defer r.observeQuery(ctx, "saved_itineraries", "INSERT", time.Now())

	payload, err := json.Marshal(itinerary.Itinerary)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to marshal itinerary: %w", err)
	}

	query := `
        INSERT INTO saved_itineraries (id, conversation_id, itinerary, saved_at)
        VALUES ($1, $2, $3, $4)
    `
	_, err = r.pgpool.Exec(ctx, query, itinerary.ID, itinerary.ConversationID, payload, itinerary.SavedAt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to insert itinerary")
		return fmt.Errorf("failed to insert itinerary: %w", err)
	}
	span.SetStatus(codes.Ok, "Itinerary saved")
	return nil
}

func (r *PostgresRepository) ListItineraries(ctx context.Context, conversationID string) ([]types.SavedItinerary, error) {
	ctx, span := otel.Tracer("ChatRepo").Start(ctx, "ListItineraries", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "saved_itineraries"),
		attribute.String("conversation.id", conversationID),
	))
	defer span.End()
	defer r.observeQuery(ctx, "saved_itineraries", "SELECT", time.Now())

	query := `
        SELECT id, conversation_id, itinerary, saved_at
        FROM saved_itineraries
        WHERE conversation_id = $1
        ORDER BY saved_at ASC
    `
	rows, err := r.pgpool.Query(ctx, query, conversationID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to query itineraries")
		return nil, fmt.Errorf("failed to query itineraries: %w", err)
	}
	defer rows.Close()

	var out []types.SavedItinerary
	for rows.Next() {
		var it types.SavedItinerary
		var payload []byte
		if err := rows.Scan(&it.ID, &it.ConversationID, &payload, &it.SavedAt); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan itinerary row: %w", err)
		}
		if err := json.Unmarshal(payload, &it.Itinerary); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to unmarshal itinerary payload: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating itinerary rows: %w", err)
	}
	span.SetAttributes(attribute.Int("itineraries.count", len(out)))
	span.SetStatus(codes.Ok, "Itineraries listed")
	return out, nil
}
