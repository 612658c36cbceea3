package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/unireg-gateway/internal/models"
)

// AuditRepository persists audit records for mutations performed through the
// gateway. This is the only local table; student data itself stays upstream.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository creates a new instance of AuditRepository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts an audit log entry.
func (r *AuditRepository) Create(ctx context.Context, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO audit_logs (id, user_id, action, resource, resource_id, new_values, ip_address, user_agent, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := r.db.ExecContext(ctx, query,
		log.ID, log.UserID, log.Action, log.Resource, log.ResourceID,
		log.NewValues, log.IPAddress, log.UserAgent, log.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// ListByResource returns recent audit entries for one resource kind, newest
// first.
func (r *AuditRepository) ListByResource(ctx context.Context, resource string, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `SELECT id, user_id, action, resource, resource_id, new_values, ip_address, user_agent, created_at
        FROM audit_logs WHERE resource = $1 ORDER BY created_at DESC LIMIT $2`
	var logs []models.AuditLog
	if err := r.db.SelectContext(ctx, &logs, query, resource, limit); err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, nil
}
