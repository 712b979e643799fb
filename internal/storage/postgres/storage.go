package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/paperontime/orderdesk/internal/domain/errors"
	"github.com/paperontime/orderdesk/internal/domain/model"
	"github.com/paperontime/orderdesk/internal/domain/repository"
)

// dbPool is the subset of pgxpool.Pool the storage uses. Satisfied by
// pgxmock's pool in tests.
type dbPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   dbPool
	logger *slog.Logger
}

type orderRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Orders returns the order repository.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
            id UUID PRIMARY KEY,
            order_number TEXT UNIQUE NOT NULL,
            email TEXT NOT NULL,
            service TEXT NOT NULL DEFAULT '',
            academic_level TEXT NOT NULL DEFAULT '',
            deadline TEXT NOT NULL DEFAULT '',
            word_count INTEGER NOT NULL DEFAULT 0,
            paper_type TEXT NOT NULL DEFAULT '',
            discount_fraction DOUBLE PRECISION NOT NULL DEFAULT 0,
            currency TEXT NOT NULL DEFAULT 'GBP',
            payment_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
            essay_topic TEXT NOT NULL DEFAULT '',
            instructions TEXT NOT NULL DEFAULT '',
            referencing_style TEXT NOT NULL DEFAULT '',
            sources TEXT NOT NULL DEFAULT '',
            subject_area TEXT NOT NULL DEFAULT '',
            subject TEXT NOT NULL DEFAULT '',
            documents JSONB NOT NULL DEFAULT '[]',
            status TEXT NOT NULL DEFAULT 'Pending',
            session_id TEXT,
            paid_at TIMESTAMPTZ,
            notified_at TIMESTAMPTZ,
            dispatched_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_natural ON orders(email, order_number)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_session ON orders(session_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

const orderColumns = `id, order_number, email, service, academic_level, deadline, word_count,
        paper_type, discount_fraction, currency, payment_amount, essay_topic, instructions,
        referencing_style, sources, subject_area, subject, documents, status, session_id,
        paid_at, notified_at, dispatched_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*model.Order, error) {
	var o model.Order
	var docs []byte
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.Email, &o.Service, &o.AcademicLevel, &o.Deadline, &o.WordCount,
		&o.PaperType, &o.DiscountFraction, &o.Currency, &o.PaymentAmount, &o.EssayTopic, &o.Instructions,
		&o.ReferencingStyle, &o.Sources, &o.SubjectArea, &o.Subject, &docs, &o.Status, &o.SessionID,
		&o.PaidAt, &o.NotifiedAt, &o.DispatchedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(docs) > 0 {
		if err := json.Unmarshal(docs, &o.Documents); err != nil {
			return nil, fmt.Errorf("decode documents: %w", err)
		}
	}
	return &o, nil
}

func marshalDocuments(docs []model.Document) ([]byte, error) {
	if docs == nil {
		docs = []model.Document{}
	}
	return json.Marshal(docs)
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	const query = `INSERT INTO orders (
            id, order_number, email, service, academic_level, deadline, word_count,
            paper_type, discount_fraction, currency, payment_amount, essay_topic, instructions,
            referencing_style, sources, subject_area, subject, documents, status
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
        RETURNING created_at, updated_at`

	created := *order
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	if created.Status == "" {
		created.Status = model.OrderStatusPending
	}

	docs, err := marshalDocuments(created.Documents)
	if err != nil {
		return nil, err
	}

	err = r.storage.pool.QueryRow(ctx, query,
		created.ID, created.OrderNumber, created.Email, created.Service, created.AcademicLevel,
		created.Deadline, created.WordCount, created.PaperType, created.DiscountFraction,
		created.Currency, created.PaymentAmount, created.EssayTopic, created.Instructions,
		created.ReferencingStyle, created.Sources, created.SubjectArea, created.Subject,
		docs, created.Status,
	).Scan(&created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &created, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	return r.getOne(ctx, query, id)
}

func (r *orderRepository) GetByEmailAndNumber(ctx context.Context, email, number string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE email=$1 AND order_number=$2`
	return r.getOne(ctx, query, email, number)
}

func (r *orderRepository) GetBySessionID(ctx context.Context, sessionID string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE session_id=$1`
	return r.getOne(ctx, query, sessionID)
}

func (r *orderRepository) getOne(ctx context.Context, query string, args ...any) (*model.Order, error) {
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) Update(ctx context.Context, order *model.Order) (*model.Order, error) {
	const query = `UPDATE orders SET
            email=$2, service=$3, academic_level=$4, deadline=$5, word_count=$6, paper_type=$7,
            discount_fraction=$8, currency=$9, payment_amount=$10, essay_topic=$11, instructions=$12,
            referencing_style=$13, sources=$14, subject_area=$15, subject=$16, documents=$17,
            status=$18, session_id=$19, paid_at=$20, notified_at=$21, updated_at=NOW()
        WHERE id=$1
        RETURNING ` + orderColumns

	docs, err := marshalDocuments(order.Documents)
	if err != nil {
		return nil, err
	}

	updated, err := scanOrder(r.storage.pool.QueryRow(ctx, query,
		order.ID, order.Email, order.Service, order.AcademicLevel, order.Deadline, order.WordCount,
		order.PaperType, order.DiscountFraction, order.Currency, order.PaymentAmount,
		order.EssayTopic, order.Instructions, order.ReferencingStyle, order.Sources,
		order.SubjectArea, order.Subject, docs, order.Status, order.SessionID,
		order.PaidAt, order.NotifiedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrOrderNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (r *orderRepository) SetPayment(ctx context.Context, id uuid.UUID, amount float64, currency string) error {
	const query = `UPDATE orders SET payment_amount=$1, currency=$2, updated_at=NOW() WHERE id=$3`
	tag, err := r.storage.pool.Exec(ctx, query, amount, currency, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) MarkPaid(ctx context.Context, number, sessionID string, paidAt time.Time) (*model.Order, error) {
	// COALESCE keeps the first paid_at on repeated reconciliations.
	const query = `UPDATE orders SET
            session_id=$1, status=$2, paid_at=COALESCE(paid_at, $3), updated_at=NOW()
        WHERE order_number=$4
        RETURNING ` + orderColumns

	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, sessionID, model.OrderStatusSuccessful, paidAt, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) MarkNotified(ctx context.Context, id uuid.UUID, at time.Time) error {
	const query = `UPDATE orders SET notified_at=$1, updated_at=NOW() WHERE id=$2 AND notified_at IS NULL`
	if _, err := r.storage.pool.Exec(ctx, query, at, id); err != nil {
		return err
	}
	return nil
}

func (r *orderRepository) SelectUnnotified(ctx context.Context, limit int) ([]model.Order, error) {
	// The row lock only lives until commit, so selected rows are stamped
	// dispatched_at inside the same transaction. Overlapping sweeps skip
	// claimed rows; a claim whose notification never landed goes stale
	// after 10 minutes and the order is picked up again.
	const selectQuery = `SELECT ` + orderColumns + `
                         FROM orders
                         WHERE status='Successful' AND notified_at IS NULL
                               AND paid_at > NOW() - INTERVAL '24 hours'
                               AND (dispatched_at IS NULL OR dispatched_at < NOW() - INTERVAL '10 minutes')
                         ORDER BY paid_at
                         LIMIT $1
                         FOR UPDATE SKIP LOCKED`
	const claimQuery = `UPDATE orders SET dispatched_at=NOW() WHERE id = ANY($1)`

	var orders []model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			o, err := scanOrder(rows)
			if err != nil {
				return err
			}
			orders = append(orders, *o)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		// Drain the result before reusing the connection for the claim.
		rows.Close()
		if len(orders) == 0 {
			return nil
		}

		ids := make([]uuid.UUID, len(orders))
		for i := range orders {
			ids[i] = orders[i].ID
		}
		_, err = tx.Exec(ctx, claimQuery, ids)
		return err
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
