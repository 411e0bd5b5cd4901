/*
# Module: storage/sqlite.go
Single-node SQLite backend for the location cache and donation log.

## Linked Modules
- [storage/repository](./repository.go) - Repository interfaces
- [types/location](../types/location.go) - Location cache records
- [types/donation](../types/donation.go) - Donation click records

## Tags
storage, sqlite, persistence, repository

## Exports
SQLiteStore, NewSQLiteStore

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "storage/sqlite.go" ;
    code:description "Single-node SQLite backend for the location cache and donation log" ;
    code:linksTo [
        code:name "storage/repository" ;
        code:path "./repository.go" ;
        code:relationship "Repository interfaces"
    ], [
        code:name "types/location" ;
        code:path "../types/location.go" ;
        code:relationship "Location cache records"
    ], [
        code:name "types/donation" ;
        code:path "../types/donation.go" ;
        code:relationship "Donation click records"
    ] ;
    code:exports :SQLiteStore, :NewSQLiteStore ;
    code:tags "storage", "sqlite", "persistence", "repository" .
<!-- End LinkedDoc RDF -->
*/
package storage

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/glebarez/go-sqlite"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"recipe-giving/types"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS location_cache (
	visitor_id      TEXT PRIMARY KEY,
	country_code    TEXT NOT NULL,
	country_name    TEXT NOT NULL,
	city            TEXT NOT NULL,
	currency        TEXT NOT NULL,
	currency_symbol TEXT NOT NULL,
	timestamp       INTEGER NOT NULL,
	version         INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS donations (
	id           TEXT PRIMARY KEY,
	project_id   TEXT NOT NULL,
	recipe_id    TEXT NOT NULL,
	amount       INTEGER NOT NULL,
	currency     TEXT NOT NULL,
	country_code TEXT NOT NULL DEFAULT '',
	visitor_id   TEXT NOT NULL DEFAULT '',
	checkout_url TEXT NOT NULL,
	created_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_donations_created_at ON donations(created_at);
`

var donationColumns = []string{
	"id", "project_id", "recipe_id", "amount", "currency",
	"country_code", "visitor_id", "checkout_url", "created_at",
}

// SQLiteStore implements Backend on a local SQLite file
type SQLiteStore struct {
	db   *sql.DB
	sq   sq.StatementBuilderType
	path string
}

// NewSQLiteStore opens (or creates) the database at path and applies the schema.
// ":memory:" gives a private in-process database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite")
	}
	// a single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL;", "PRAGMA synchronous=NORMAL;"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "failed to set pragma %s", pragma)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create schema")
	}

	logrus.WithField("path", path).Info("✅ SQLite storage ready")
	return &SQLiteStore{db: db, sq: sq.StatementBuilder, path: path}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, visitorID string) (*types.LocationCacheEntry, error) {
	query, args, err := s.sq.
		Select("visitor_id", "country_code", "country_name", "city", "currency", "currency_symbol", "timestamp", "version").
		From("location_cache").
		Where(sq.Eq{"visitor_id": visitorID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build location query")
	}

	var e types.LocationCacheEntry
	err = s.db.QueryRowContext(ctx, query, args...).Scan(
		&e.VisitorID,
		&e.Data.CountryCode,
		&e.Data.CountryName,
		&e.Data.City,
		&e.Data.Currency,
		&e.Data.CurrencySymbol,
		&e.Timestamp,
		&e.Version,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read cached location")
	}
	return &e, nil
}

func (s *SQLiteStore) Put(ctx context.Context, entry types.LocationCacheEntry) error {
	query, args, err := s.sq.
		Insert("location_cache").
		Columns("visitor_id", "country_code", "country_name", "city", "currency", "currency_symbol", "timestamp", "version").
		Values(
			entry.VisitorID,
			entry.Data.CountryCode,
			entry.Data.CountryName,
			entry.Data.City,
			entry.Data.Currency,
			entry.Data.CurrencySymbol,
			entry.Timestamp,
			entry.Version,
		).
		Suffix(`ON CONFLICT(visitor_id) DO UPDATE SET
			country_code=excluded.country_code,
			country_name=excluded.country_name,
			city=excluded.city,
			currency=excluded.currency,
			currency_symbol=excluded.currency_symbol,
			timestamp=excluded.timestamp,
			version=excluded.version`).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build location upsert")
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "failed to cache location")
	}
	return nil
}

func (s *SQLiteStore) Save(ctx context.Context, d types.Donation) error {
	query, args, err := s.sq.
		Insert("donations").
		Columns(donationColumns...).
		Values(d.ID, d.ProjectID, d.RecipeID, d.Amount, d.Currency, d.CountryCode, d.VisitorID, d.CheckoutURL, d.Timestamp.UnixNano()).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build donation insert")
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "failed to save donation")
	}

	logrus.WithFields(logrus.Fields{"id": d.ID, "project_id": d.ProjectID}).Debug("💾 Donation saved to SQLite")
	return nil
}

func (s *SQLiteStore) GetRecent(ctx context.Context, limit int) ([]types.Donation, error) {
	if limit < 0 {
		limit = 0
	}
	return s.listDonations(ctx, s.sq.Select(donationColumns...).From("donations").
		OrderBy("created_at DESC").Limit(uint64(limit)))
}

func (s *SQLiteStore) GetAll(ctx context.Context) ([]types.Donation, error) {
	return s.listDonations(ctx, s.sq.Select(donationColumns...).From("donations").OrderBy("created_at DESC"))
}

func (s *SQLiteStore) listDonations(ctx context.Context, q sq.SelectBuilder) ([]types.Donation, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build donation query")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query donations")
	}
	defer rows.Close()

	donations := make([]types.Donation, 0)
	for rows.Next() {
		var d types.Donation
		var created int64
		if err := rows.Scan(&d.ID, &d.ProjectID, &d.RecipeID, &d.Amount, &d.Currency,
			&d.CountryCode, &d.VisitorID, &d.CheckoutURL, &created); err != nil {
			return nil, errors.Wrap(err, "failed to scan donation")
		}
		d.Timestamp = time.Unix(0, created).UTC()
		donations = append(donations, d)
	}
	return donations, errors.Wrap(rows.Err(), "failed to iterate donations")
}

func (s *SQLiteStore) Info(ctx context.Context) StorageInfo {
	count := -1
	query, args, err := s.sq.Select("COUNT(*)").From("donations").ToSql()
	if err == nil {
		if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
			logrus.WithError(err).Warn("⚠️  Failed to count donations")
			count = -1
		}
	}

	return StorageInfo{
		Type:        "sqlite",
		Location:    s.path,
		LastSync:    time.Now(),
		RecordCount: count,
	}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
