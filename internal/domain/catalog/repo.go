package catalog

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo: catálogo en la tabla articles (catalog.source: postgres).
type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) String() string { return "postgres:articles" }

// Load implementa Source: artículos activos ordenados por código.
func (r *Repo) Load(ctx context.Context) ([]Article, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT code, name, unit
		FROM articles
		WHERE active
		ORDER BY code
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Article
	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.Code, &a.Name, &a.Unit); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Upsert siembra la tabla desde un catálogo de archivo. Devuelve cuántas filas se escribieron.
func (r *Repo) Upsert(ctx context.Context, articles []Article) (int, error) {
	c := New(articles)
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, a := range c.Articles()[1:] {
		batch.Queue(`
			INSERT INTO articles (code, name, unit, active)
			VALUES ($1,$2,$3,TRUE)
			ON CONFLICT (code) DO UPDATE SET
			  name=EXCLUDED.name, unit=EXCLUDED.unit, active=TRUE, updated_at=now()
		`, a.Code, a.Name, a.Unit)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return c.Len(), nil
}
