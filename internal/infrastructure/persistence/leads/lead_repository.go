// Package leads provides the SQL-backed implementation of the lead
// repository.
package leads

import (
	"database/sql"
	"time"

	"github.com/digifyhq/digify-go/internal/domain/lead"
	"github.com/digifyhq/digify-go/internal/infrastructure/database"
	"github.com/digifyhq/digify-go/internal/infrastructure/observability/logging"
	"github.com/digifyhq/digify-go/pkg/config"
)

// SQLLeadRepository is the SQL-based implementation of lead.Repository.
type SQLLeadRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLLeadRepository creates a new instance of the repository.
func NewSQLLeadRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLLeadRepository {
	return &SQLLeadRepository{
		db:     db,
		logger: logger,
	}
}

// Store saves a new lead to the database.
func (r *SQLLeadRepository) Store(l *lead.Lead) error {
	const query = `
		INSERT INTO leads (id, name, email, phone, message, marketing_opt_in,
		                   attribution, source_ip, user_agent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Executing lead insert", "id", l.ID, "email", l.Email)

	_, err := r.db.Exec(
		query,
		l.ID,
		l.Name,
		l.Email,
		l.Phone,
		l.Message,
		l.MarketingOptIn,
		l.Attribution,
		l.SourceIP,
		l.UserAgent,
		l.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		r.logger.Database().Error("Lead insert failed", "error", err.Error(), "id", l.ID, "email", l.Email)
		return err
	}

	duration := time.Since(start)
	r.logger.Database().Info("Lead insert completed", "id", l.ID, "email", l.Email, "duration", duration)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return nil
}

// FindByID retrieves a lead by its identifier. A missing lead returns
// (nil, nil).
func (r *SQLLeadRepository) FindByID(id string) (*lead.Lead, error) {
	const query = `
		SELECT id, name, email, phone, message, marketing_opt_in,
		       attribution, source_ip, user_agent, created_at
		FROM leads
		WHERE id = ?`

	start := time.Now()
	r.logger.Database().Debug("Loading lead by ID", "id", id)

	l, err := scanLead(r.db.QueryRow(query, id))
	if err != nil {
		r.logger.Database().Error("Failed to load lead by ID", "error", err.Error(), "id", id)
		return nil, err
	}
	if l == nil {
		r.logger.Database().Debug("Lead not found by ID", "id", id)
		return nil, nil
	}

	duration := time.Since(start)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return l, nil
}

// List returns stored leads newest first.
func (r *SQLLeadRepository) List(limit, offset int) ([]*lead.Lead, error) {
	const query = `
		SELECT id, name, email, phone, message, marketing_opt_in,
		       attribution, source_ip, user_agent, created_at
		FROM leads
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`

	start := time.Now()
	r.logger.Database().Debug("Listing leads", "limit", limit, "offset", offset)

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		r.logger.Database().Error("Lead list query failed", "error", err.Error())
		return nil, err
	}
	defer rows.Close()

	var result []*lead.Lead
	for rows.Next() {
		l, err := scanLeadRows(rows)
		if err != nil {
			r.logger.Database().Error("Failed to scan lead row", "error", err.Error())
			return nil, err
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	duration := time.Since(start)
	r.logger.Database().Info("Lead list completed", "count", len(result), "duration", duration)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row *sql.Row) (*lead.Lead, error) {
	l, err := scanInto(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return l, err
}

func scanLeadRows(rows *sql.Rows) (*lead.Lead, error) {
	return scanInto(rows)
}

func scanInto(s rowScanner) (*lead.Lead, error) {
	var l lead.Lead
	var phone, message, attribution, sourceIP, userAgent sql.NullString
	var createdAtStr string

	err := s.Scan(
		&l.ID,
		&l.Name,
		&l.Email,
		&phone,
		&message,
		&l.MarketingOptIn,
		&attribution,
		&sourceIP,
		&userAgent,
		&createdAtStr,
	)
	if err != nil {
		return nil, err
	}

	l.Phone = phone.String
	l.Message = message.String
	l.Attribution = attribution.String
	l.SourceIP = sourceIP.String
	l.UserAgent = userAgent.String

	l.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		// SQLite's CURRENT_TIMESTAMP default writes this format.
		l.CreatedAt, err = time.Parse("2006-01-02 15:04:05", createdAtStr)
		if err != nil {
			return nil, err
		}
	}
	return &l, nil
}
