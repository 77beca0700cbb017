package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"ratewatch/internal/models"
)

// Postgres implements AlertStore on a postgres alerts table.
type Postgres struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenPostgres connects, configures the pool and verifies connectivity.
func OpenPostgres(connStr string, logger *zap.Logger) (*Postgres, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("database connection established")
	return &Postgres{db: db, logger: logger}, nil
}

// Close closes the underlying pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

const alertColumns = `id, from_symbol, to_symbol, target_rate, condition, is_active,
	triggered, notification_count, max_notifications, last_checked_at, created_at, updated_at`

func (p *Postgres) List(ctx context.Context) ([]models.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts ORDER BY created_at DESC`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		p.logger.Error("failed to query alerts", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return scanAlerts(rows)
}

func (p *Postgres) Get(ctx context.Context, id string) (*models.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE id = $1`

	var alert models.Alert
	var lastChecked sql.NullTime
	err := p.db.QueryRowContext(ctx, query, id).Scan(
		&alert.ID,
		&alert.FromSymbol,
		&alert.ToSymbol,
		&alert.TargetRate,
		&alert.Condition,
		&alert.IsActive,
		&alert.Triggered,
		&alert.NotificationCount,
		&alert.MaxNotifications,
		&lastChecked,
		&alert.CreatedAt,
		&alert.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		p.logger.Error("failed to retrieve alert", zap.String("alert_id", id), zap.Error(err))
		return nil, err
	}
	if lastChecked.Valid {
		alert.LastCheckedAt = lastChecked.Time
	}
	return &alert, nil
}

func (p *Postgres) Create(ctx context.Context, alert *models.Alert) error {
	query := `
		INSERT INTO alerts (` + alertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := p.db.ExecContext(ctx, query,
		alert.ID,
		alert.FromSymbol,
		alert.ToSymbol,
		alert.TargetRate,
		alert.Condition,
		alert.IsActive,
		alert.Triggered,
		alert.NotificationCount,
		alert.MaxNotifications,
		nullTime(alert.LastCheckedAt),
		alert.CreatedAt,
		alert.UpdatedAt,
	)
	if err != nil {
		p.logger.Error("failed to create alert", zap.String("alert_id", alert.ID), zap.Error(err))
		return err
	}
	return nil
}

func (p *Postgres) Update(ctx context.Context, alert *models.Alert) error {
	query := `
		UPDATE alerts
		SET from_symbol = $1, to_symbol = $2, target_rate = $3, condition = $4,
			is_active = $5, triggered = $6, notification_count = $7,
			max_notifications = $8, updated_at = $9
		WHERE id = $10
	`

	result, err := p.db.ExecContext(ctx, query,
		alert.FromSymbol,
		alert.ToSymbol,
		alert.TargetRate,
		alert.Condition,
		alert.IsActive,
		alert.Triggered,
		alert.NotificationCount,
		alert.MaxNotifications,
		alert.UpdatedAt,
		alert.ID,
	)
	if err != nil {
		p.logger.Error("failed to update alert", zap.String("alert_id", alert.ID), zap.Error(err))
		return err
	}
	return checkAffected(result)
}

func (p *Postgres) UpdateState(ctx context.Context, id string, update StateUpdate) error {
	query := `
		UPDATE alerts
		SET triggered = $1, notification_count = $2, last_checked_at = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := p.db.ExecContext(ctx, query,
		update.Triggered,
		update.NotificationCount,
		nullTime(update.LastCheckedAt),
		time.Now(),
		id,
	)
	if err != nil {
		p.logger.Error("failed to update alert state", zap.String("alert_id", id), zap.Error(err))
		return err
	}
	return checkAffected(result)
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	result, err := p.db.ExecContext(ctx, `DELETE FROM alerts WHERE id = $1`, id)
	if err != nil {
		p.logger.Error("failed to delete alert", zap.String("alert_id", id), zap.Error(err))
		return err
	}
	return checkAffected(result)
}

func checkAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func scanAlerts(rows *sql.Rows) ([]models.Alert, error) {
	var alerts []models.Alert

	for rows.Next() {
		var alert models.Alert
		var lastChecked sql.NullTime

		err := rows.Scan(
			&alert.ID,
			&alert.FromSymbol,
			&alert.ToSymbol,
			&alert.TargetRate,
			&alert.Condition,
			&alert.IsActive,
			&alert.Triggered,
			&alert.NotificationCount,
			&alert.MaxNotifications,
			&lastChecked,
			&alert.CreatedAt,
			&alert.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if lastChecked.Valid {
			alert.LastCheckedAt = lastChecked.Time
		}
		alerts = append(alerts, alert)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return alerts, nil
}
