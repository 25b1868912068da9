// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/ozgurkzlkaya/fixlog/internal/model"
	"github.com/ozgurkzlkaya/fixlog/internal/query"
	"github.com/ozgurkzlkaya/fixlog/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) CreateProduct(ctx context.Context, p *model.Product) error {
	return queryCreateProduct(ctx, s.db, p)
}

func (s *PostgresStore) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	return queryGetProduct(ctx, s.db, id)
}

func (s *PostgresStore) ListProducts(ctx context.Context, opts query.Options) ([]*model.Product, query.PageMeta, error) {
	return queryListProducts(ctx, s.db, opts)
}

func (s *PostgresStore) UpdateProduct(ctx context.Context, p *model.Product) error {
	return queryUpdateProduct(ctx, s.db, p)
}

func (s *PostgresStore) DeleteProduct(ctx context.Context, id string) error {
	return queryDeleteRow(ctx, s.db, "products", id)
}

func (s *PostgresStore) CreateIssue(ctx context.Context, i *model.Issue) error {
	return queryCreateIssue(ctx, s.db, i)
}

func (s *PostgresStore) GetIssue(ctx context.Context, id string) (*model.Issue, error) {
	return queryGetIssue(ctx, s.db, id)
}

func (s *PostgresStore) ListIssues(ctx context.Context, opts query.Options) ([]*model.Issue, query.PageMeta, error) {
	return queryListIssues(ctx, s.db, opts)
}

func (s *PostgresStore) UpdateIssue(ctx context.Context, i *model.Issue) error {
	return queryUpdateIssue(ctx, s.db, i)
}

func (s *PostgresStore) ResolveIssue(ctx context.Context, id, resolvedBy string) (*model.Issue, error) {
	return queryResolveIssue(ctx, s.db, id, resolvedBy)
}

func (s *PostgresStore) DeleteIssue(ctx context.Context, id string) error {
	return queryDeleteRow(ctx, s.db, "issues", id)
}

func (s *PostgresStore) CreateShipment(ctx context.Context, sh *model.Shipment) error {
	return queryCreateShipment(ctx, s.db, sh)
}

func (s *PostgresStore) GetShipment(ctx context.Context, id string) (*model.Shipment, error) {
	return queryGetShipment(ctx, s.db, id)
}

func (s *PostgresStore) ListShipments(ctx context.Context, opts query.Options) ([]*model.Shipment, query.PageMeta, error) {
	return queryListShipments(ctx, s.db, opts)
}

func (s *PostgresStore) UpdateShipment(ctx context.Context, sh *model.Shipment) error {
	return queryUpdateShipment(ctx, s.db, sh)
}

func (s *PostgresStore) DeleteShipment(ctx context.Context, id string) error {
	return queryDeleteRow(ctx, s.db, "shipments", id)
}

func (s *PostgresStore) CreateCompany(ctx context.Context, c *model.Company) error {
	return queryCreateCompany(ctx, s.db, c)
}

func (s *PostgresStore) GetCompany(ctx context.Context, id string) (*model.Company, error) {
	return queryGetCompany(ctx, s.db, id)
}

func (s *PostgresStore) ListCompanies(ctx context.Context, opts query.Options) ([]*model.Company, query.PageMeta, error) {
	return queryListCompanies(ctx, s.db, opts)
}

func (s *PostgresStore) UpdateCompany(ctx context.Context, c *model.Company) error {
	return queryUpdateCompany(ctx, s.db, c)
}

func (s *PostgresStore) DeleteCompany(ctx context.Context, id string) error {
	return queryDeleteRow(ctx, s.db, "companies", id)
}

func (s *PostgresStore) CreateNotification(ctx context.Context, n *model.Notification) error {
	return queryCreateNotification(ctx, s.db, n)
}

func (s *PostgresStore) ListNotifications(ctx context.Context, unreadOnly bool, limit int) ([]*model.Notification, error) {
	return queryListNotifications(ctx, s.db, unreadOnly, limit)
}

func (s *PostgresStore) MarkNotificationRead(ctx context.Context, id string) error {
	return queryMarkNotificationRead(ctx, s.db, id)
}

func (s *PostgresStore) MarkAllNotificationsRead(ctx context.Context) error {
	return queryMarkAllNotificationsRead(ctx, s.db)
}

func (s *PostgresStore) RecordEvent(ctx context.Context, event *model.Event) error {
	return queryRecordEvent(ctx, s.db, event)
}

func (s *PostgresStore) GetEvents(ctx context.Context, entityID string) ([]*model.Event, error) {
	return queryGetEvents(ctx, s.db, entityID)
}

func (s *PostgresStore) GetStats(ctx context.Context) (*model.Stats, error) {
	return queryGetStats(ctx, s.db)
}

// RunInTransaction begins a database transaction, creates a txStore that
// delegates to it, calls fn, and commits on success or rolls back on error.
func (s *PostgresStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txS := &txStore{tx: tx}
	if err := fn(txS); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore implements store.Store using a *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

// Compile-time check that txStore implements store.Store.
var _ store.Store = (*txStore)(nil)

func (s *txStore) CreateProduct(ctx context.Context, p *model.Product) error {
	return queryCreateProduct(ctx, s.tx, p)
}

func (s *txStore) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	return queryGetProduct(ctx, s.tx, id)
}

func (s *txStore) ListProducts(ctx context.Context, opts query.Options) ([]*model.Product, query.PageMeta, error) {
	return queryListProducts(ctx, s.tx, opts)
}

func (s *txStore) UpdateProduct(ctx context.Context, p *model.Product) error {
	return queryUpdateProduct(ctx, s.tx, p)
}

func (s *txStore) DeleteProduct(ctx context.Context, id string) error {
	return queryDeleteRow(ctx, s.tx, "products", id)
}

func (s *txStore) CreateIssue(ctx context.Context, i *model.Issue) error {
	return queryCreateIssue(ctx, s.tx, i)
}

func (s *txStore) GetIssue(ctx context.Context, id string) (*model.Issue, error) {
	return queryGetIssue(ctx, s.tx, id)
}

func (s *txStore) ListIssues(ctx context.Context, opts query.Options) ([]*model.Issue, query.PageMeta, error) {
	return queryListIssues(ctx, s.tx, opts)
}

func (s *txStore) UpdateIssue(ctx context.Context, i *model.Issue) error {
	return queryUpdateIssue(ctx, s.tx, i)
}

func (s *txStore) ResolveIssue(ctx context.Context, id, resolvedBy string) (*model.Issue, error) {
	return queryResolveIssue(ctx, s.tx, id, resolvedBy)
}

func (s *txStore) DeleteIssue(ctx context.Context, id string) error {
	return queryDeleteRow(ctx, s.tx, "issues", id)
}

func (s *txStore) CreateShipment(ctx context.Context, sh *model.Shipment) error {
	return queryCreateShipment(ctx, s.tx, sh)
}

func (s *txStore) GetShipment(ctx context.Context, id string) (*model.Shipment, error) {
	return queryGetShipment(ctx, s.tx, id)
}

func (s *txStore) ListShipments(ctx context.Context, opts query.Options) ([]*model.Shipment, query.PageMeta, error) {
	return queryListShipments(ctx, s.tx, opts)
}

func (s *txStore) UpdateShipment(ctx context.Context, sh *model.Shipment) error {
	return queryUpdateShipment(ctx, s.tx, sh)
}

func (s *txStore) DeleteShipment(ctx context.Context, id string) error {
	return queryDeleteRow(ctx, s.tx, "shipments", id)
}

func (s *txStore) CreateCompany(ctx context.Context, c *model.Company) error {
	return queryCreateCompany(ctx, s.tx, c)
}

func (s *txStore) GetCompany(ctx context.Context, id string) (*model.Company, error) {
	return queryGetCompany(ctx, s.tx, id)
}

func (s *txStore) ListCompanies(ctx context.Context, opts query.Options) ([]*model.Company, query.PageMeta, error) {
	return queryListCompanies(ctx, s.tx, opts)
}

func (s *txStore) UpdateCompany(ctx context.Context, c *model.Company) error {
	return queryUpdateCompany(ctx, s.tx, c)
}

func (s *txStore) DeleteCompany(ctx context.Context, id string) error {
	return queryDeleteRow(ctx, s.tx, "companies", id)
}

func (s *txStore) CreateNotification(ctx context.Context, n *model.Notification) error {
	return queryCreateNotification(ctx, s.tx, n)
}

func (s *txStore) ListNotifications(ctx context.Context, unreadOnly bool, limit int) ([]*model.Notification, error) {
	return queryListNotifications(ctx, s.tx, unreadOnly, limit)
}

func (s *txStore) MarkNotificationRead(ctx context.Context, id string) error {
	return queryMarkNotificationRead(ctx, s.tx, id)
}

func (s *txStore) MarkAllNotificationsRead(ctx context.Context) error {
	return queryMarkAllNotificationsRead(ctx, s.tx)
}

func (s *txStore) RecordEvent(ctx context.Context, event *model.Event) error {
	return queryRecordEvent(ctx, s.tx, event)
}

func (s *txStore) GetEvents(ctx context.Context, entityID string) ([]*model.Event, error) {
	return queryGetEvents(ctx, s.tx, entityID)
}

func (s *txStore) GetStats(ctx context.Context) (*model.Stats, error) {
	return queryGetStats(ctx, s.tx)
}

// RunInTransaction on a txStore reuses the existing transaction (no nesting).
func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

// Close is a no-op for a transaction store; the parent store owns the connection.
func (s *txStore) Close() error {
	return nil
}
