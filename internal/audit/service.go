// Package audit records admin mutations of promotion data. Every create,
// update, and delete through the admin API leaves an entry naming the actor,
// the route, and the response status.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noah-isme/quote-api/internal/common"
	"github.com/noah-isme/quote-api/internal/obs"
)

// Entry is one recorded admin action.
type Entry struct {
	ID         uuid.UUID       `json:"id"`
	Subject    *string         `json:"subject,omitempty"`
	Action     string          `json:"action"`
	ResourceID *string         `json:"resourceId,omitempty"`
	Method     string          `json:"method"`
	Path       string          `json:"path"`
	Status     int32           `json:"status"`
	IP         *string         `json:"ip,omitempty"`
	RequestID  *string         `json:"requestId,omitempty"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Store persists and lists audit entries.
type Store interface {
	InsertAuditEntry(ctx context.Context, e Entry) error
	ListAuditEntries(ctx context.Context, limit, offset int) ([]Entry, error)
}

// NewStore constructs a Store backed by a pgx connection pool.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

type pgStore struct {
	pool *pgxpool.Pool
}

func (s *pgStore) InsertAuditEntry(ctx context.Context, e Entry) error {
	if s == nil || s.pool == nil {
		return errors.New("audit: store unavailable")
	}
	_, err := s.pool.Exec(ctx, `INSERT INTO audit_log
(subject, action, resource_id, method, path, status, ip, request_id, metadata)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.Subject, e.Action, e.ResourceID, e.Method, e.Path, e.Status, e.IP, e.RequestID, []byte(e.Metadata))
	return err
}

func (s *pgStore) ListAuditEntries(ctx context.Context, limit, offset int) ([]Entry, error) {
	if s == nil || s.pool == nil {
		return nil, errors.New("audit: store unavailable")
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.pool.Query(ctx, `SELECT id, subject, action, resource_id, method, path, status, ip, request_id, metadata, created_at
FROM audit_log ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		var metadata []byte
		if err := rows.Scan(&e.ID, &e.Subject, &e.Action, &e.ResourceID, &e.Method, &e.Path,
			&e.Status, &e.IP, &e.RequestID, &metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Metadata = metadata
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Service persists audit entries for admin flows.
type Service struct {
	Store   Store
	Enabled bool
}

// Record persists one audit entry when auditing is enabled. The action
// defaults to "METHOD route" when not named by the caller.
func (s Service) Record(ctx context.Context, action, resourceID string, req *http.Request, status int) error {
	if !s.Enabled {
		return nil
	}
	if req == nil {
		return errors.New("audit: request is required")
	}
	if s.Store == nil {
		return errors.New("audit: store not configured")
	}

	route := obs.RoutePatternFromContext(req.Context())
	if route == "" {
		route = strings.TrimSpace(req.URL.Path)
	}
	if strings.TrimSpace(action) == "" {
		action = strings.ToUpper(req.Method) + " " + route
	}
	if status == 0 {
		status = http.StatusOK
	}

	entry := Entry{
		Action:     action,
		ResourceID: optional(resourceID),
		Method:     req.Method,
		Path:       req.URL.Path,
		Status:     int32(status),
		IP:         optional(common.ClientIP(req)),
		RequestID:  optional(req.Header.Get("X-Request-ID")),
	}
	if subject, ok := common.Subject(ctx); ok {
		entry.Subject = optional(subject)
	}
	return s.Store.InsertAuditEntry(ctx, entry)
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
