package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/flarebyte/baldrick-gitvault/internal/config"
	dbutil "github.com/flarebyte/baldrick-gitvault/internal/dao/dbutil"
	"github.com/flarebyte/baldrick-gitvault/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgStore keeps archives in two tables under a dedicated schema:
// <schema>.archives for metadata and <schema>.archive_records for
// the per-entity record snapshots.
type pgStore struct {
	db     *pgxpool.Pool
	schema string
}

// NewPostgresStore connects to postgres and ensures the archive schema.
func NewPostgresStore(ctx context.Context, cfg config.PostgresConfig) (Store, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, dbutil.ErrWrap("archive.connect", err, dbutil.ParamSummary("host", cfg.Host))
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, dbutil.ErrWrap("archive.ping", err, dbutil.ParamSummary("host", cfg.Host))
	}
	s := &pgStore{db: pool, schema: cfg.Schema}
	if s.schema == "" {
		s.schema = "gitvault"
	}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// ensureSchema creates the schema and tables if missing.
// It does not require superuser privileges.
func (s *pgStore) ensureSchema(ctx context.Context) error {
	sid := pgx.Identifier{s.schema}.Sanitize()
	qual := func(tbl string) string { return pgx.Identifier{s.schema, tbl}.Sanitize() }
	stmts := []string{
		fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, sid),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
            id TEXT PRIMARY KEY,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            owner TEXT NOT NULL,
            repo TEXT NOT NULL,
            note TEXT NULL,
            sealed BOOLEAN NOT NULL DEFAULT false
        )`, qual("archives")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
            id BIGSERIAL PRIMARY KEY,
            archive_id TEXT NOT NULL REFERENCES %s ON DELETE CASCADE,
            entity_name TEXT NOT NULL,
            record_id BIGINT NOT NULL,
            record_number INTEGER NOT NULL,
            record_key TEXT NOT NULL,
            record_parent BIGINT NOT NULL DEFAULT 0,
            record JSONB NOT NULL
        )`, qual("archive_records"), qual("archives")),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_archive_records_ar_entity ON %s(archive_id, entity_name)`, qual("archive_records")),
	}
	for i, q := range stmts {
		if _, err := s.db.Exec(ctx, q); err != nil {
			return dbutil.ErrWrap("archive.ensure_schema", err,
				dbutil.ParamSummary("schema", s.schema),
				fmt.Sprintf("stmt_index=%d", i))
		}
	}
	return nil
}

func (s *pgStore) Begin(ctx context.Context, owner, repo, note string) (Archive, error) {
	id := NewID()
	q := `INSERT INTO ` + s.qual("archives") + ` (id, owner, repo, note) VALUES ($1, $2, $3, NULLIF($4, ''))`
	if _, err := s.db.Exec(ctx, q, id, owner, repo, note); err != nil {
		return nil, dbutil.ErrWrap("archive.insert", err,
			dbutil.ParamSummary("schema", s.schema), dbutil.ParamSummary("owner", owner))
	}
	return &pgArchive{store: s, id: id}, nil
}

func (s *pgStore) Open(ctx context.Context, id string) (Archive, error) {
	var found bool
	q := `SELECT EXISTS(SELECT 1 FROM ` + s.qual("archives") + ` WHERE id=$1)`
	if err := s.db.QueryRow(ctx, q, id).Scan(&found); err != nil {
		return nil, dbutil.ErrWrap("archive.open", err, dbutil.ParamSummary("id", id))
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &pgArchive{store: s, id: id}, nil
}

func (s *pgStore) List(ctx context.Context) ([]Meta, error) {
	q := `SELECT a.id, a.created_at, a.owner, a.repo, COALESCE(a.note, ''),
              r.entity_name, r.n
          FROM ` + s.qual("archives") + ` a
          LEFT JOIN (SELECT archive_id, entity_name, COUNT(*) AS n
                     FROM ` + s.qual("archive_records") + ` GROUP BY archive_id, entity_name) r
            ON r.archive_id = a.id
          ORDER BY a.id DESC, r.entity_name`
	rows, err := s.db.Query(ctx, q)
	if err != nil {
		return nil, dbutil.ErrWrap("archive.list", err, dbutil.ParamSummary("schema", s.schema))
	}
	defer rows.Close()
	var out []Meta
	for rows.Next() {
		var m Meta
		var entity *string
		var n *int64
		if err := rows.Scan(&m.ID, &m.CreatedAt, &m.Owner, &m.Repo, &m.Note, &entity, &n); err != nil {
			return nil, dbutil.ErrWrap("archive.list.scan", err)
		}
		if len(out) == 0 || out[len(out)-1].ID != m.ID {
			m.Counts = map[string]int{}
			out = append(out, m)
		}
		if entity != nil && n != nil {
			out[len(out)-1].Counts[*entity] = int(*n)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, dbutil.ErrWrap("archive.list", err, dbutil.ParamSummary("schema", s.schema))
	}
	return out, nil
}

func (s *pgStore) Delete(ctx context.Context, id string) error {
	ct, err := s.db.Exec(ctx, `DELETE FROM `+s.qual("archives")+` WHERE id=$1`, id)
	if err != nil {
		return dbutil.ErrWrap("archive.delete", err, dbutil.ParamSummary("id", id))
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (s *pgStore) Close() { s.db.Close() }

func (s *pgStore) qual(tbl string) string {
	return pgx.Identifier{s.schema, tbl}.Sanitize()
}

type pgArchive struct {
	store *pgStore
	id    string
}

func (a *pgArchive) ID() string { return a.id }

func (a *pgArchive) Meta(ctx context.Context) (Meta, error) {
	s := a.store
	m := Meta{Counts: map[string]int{}}
	q := `SELECT id, created_at, owner, repo, COALESCE(note, '') FROM ` + s.qual("archives") + ` WHERE id=$1`
	if err := s.db.QueryRow(ctx, q, a.id).Scan(&m.ID, &m.CreatedAt, &m.Owner, &m.Repo, &m.Note); err != nil {
		return Meta{}, dbutil.ErrWrap("archive.meta", err, dbutil.ParamSummary("id", a.id))
	}
	rows, err := s.db.Query(ctx, `SELECT entity_name, COUNT(*) FROM `+s.qual("archive_records")+` WHERE archive_id=$1 GROUP BY entity_name`, a.id)
	if err != nil {
		return Meta{}, dbutil.ErrWrap("archive.meta.counts", err, dbutil.ParamSummary("id", a.id))
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var n int64
		if err := rows.Scan(&name, &n); err != nil {
			return Meta{}, dbutil.ErrWrap("archive.meta.scan", err)
		}
		m.Counts[name] = int(n)
	}
	return m, rows.Err()
}

func (a *pgArchive) WriteEntity(ctx context.Context, entity string, recs []model.Record) error {
	s := a.store
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return dbutil.ErrWrap("archive.entity.begin", err, dbutil.ParamSummary("entity", entity))
	}
	defer tx.Rollback(ctx)
	if _, err := tx.Exec(ctx, `DELETE FROM `+s.qual("archive_records")+` WHERE archive_id=$1 AND entity_name=$2`, a.id, entity); err != nil {
		return dbutil.ErrWrap("archive.entity.replace", err, dbutil.ParamSummary("entity", entity))
	}
	q := `INSERT INTO ` + s.qual("archive_records") + ` (archive_id, entity_name, record_id, record_number, record_key, record_parent, record)
          VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb)`
	for _, r := range recs {
		if _, err := tx.Exec(ctx, q, a.id, entity, r.ID, r.Number, r.Key, r.Parent, string(r.Data)); err != nil {
			return dbutil.ErrWrap("archive.entity.insert", err,
				dbutil.ParamSummary("entity", entity), dbutil.ParamSummary("record", r.ID))
		}
	}
	return tx.Commit(ctx)
}

func (a *pgArchive) ReadEntity(ctx context.Context, entity string) ([]model.Record, error) {
	s := a.store
	rows, err := s.db.Query(ctx, `SELECT record_id, record_number, record_key, record_parent, record
        FROM `+s.qual("archive_records")+` WHERE archive_id=$1 AND entity_name=$2 ORDER BY id`, a.id, entity)
	if err != nil {
		return nil, dbutil.ErrWrap("archive.entity.read", err, dbutil.ParamSummary("entity", entity))
	}
	defer rows.Close()
	var out []model.Record
	for rows.Next() {
		var r model.Record
		var data []byte
		if err := rows.Scan(&r.ID, &r.Number, &r.Key, &r.Parent, &data); err != nil {
			return nil, dbutil.ErrWrap("archive.entity.scan", err, dbutil.ParamSummary("entity", entity))
		}
		r.Data = data
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, dbutil.ErrWrap("archive.entity.read", err, dbutil.ParamSummary("entity", entity))
	}
	return out, nil
}

func (a *pgArchive) Seal(ctx context.Context) error {
	_, err := a.store.db.Exec(ctx, `UPDATE `+a.store.qual("archives")+` SET sealed=true WHERE id=$1`, a.id)
	return dbutil.ErrWrap("archive.seal", err, dbutil.ParamSummary("id", a.id))
}
