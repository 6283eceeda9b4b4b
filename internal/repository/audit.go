package repository

import (
	"context"
	"fmt"

	"github.com/evently-app/evently/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditRepository reads the append-only audit log. Writes happen through
// insertAudit inside the transaction of the state change they describe; the
// core never updates or deletes audit rows.
type AuditRepository struct {
	db *pgxpool.Pool
}

// NewAuditRepository constructs an AuditRepository.
func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

// insertAudit appends one audit entry within the caller's transaction, so a
// failed audit write rolls back the state change that triggered it.
func insertAudit(ctx context.Context, tx pgx.Tx, actorID, action, target, outcome string) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO audit_log (id, actor_id, action, target, outcome)
		 VALUES ($1, $2, $3, $4, $5)`,
		uuid.New().String(), actorID, action, target, outcome,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ListRecent returns audit entries, most recent first. Non-positive limits
// fall back to the default of 50; limits are capped at 200.
func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]model.AuditLogEntry, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}

	rows, err := r.db.Query(ctx,
		`SELECT a.id, a.actor_id, u.first_name || ' ' || u.last_name,
		        a.action, a.target, a.outcome, a.log_timestamp
		 FROM audit_log a
		 JOIN users u ON a.actor_id = u.id
		 ORDER BY a.log_timestamp DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit log: %w", err)
	}
	defer rows.Close()

	var entries []model.AuditLogEntry
	for rows.Next() {
		var e model.AuditLogEntry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.ActorName, &e.Action, &e.Target, &e.Outcome, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
