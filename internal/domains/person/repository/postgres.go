package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"people-api/internal/domains/person"
	"people-api/pkg/database"
)

// postgresRepository là concrete implementation của person.Repository
// Implementation is hidden; callers depend on the interface only.
type postgresRepository struct {
	pool    *pgxpool.Pool
	dialect goqu.DialectWrapper
}

// NewPostgresRepository tạo repository instance
// Dependency Injection via constructor: nhận pool từ container.
func NewPostgresRepository(pool *pgxpool.Pool) person.Repository {
	return &postgresRepository{
		pool:    pool,
		dialect: goqu.Dialect("postgres"),
	}
}

const selectColumns = `id, nickname, name, birth_date, stack`

// scanPerson maps one row (ID, NICKNAME, NAME, BIRTH_DATE, STACK) into a
// Person, decoding the delimited stack column.
func scanPerson(row pgx.Row) (*person.Person, error) {
	var p person.Person
	var stackCol *string

	if err := row.Scan(&p.ID, &p.Nickname, &p.Name, &p.BirthDate, &stackCol); err != nil {
		return nil, err
	}
	p.Stack = person.DecodeStack(stackCol)
	return &p, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id string) (*person.Person, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM people
		WHERE id = $1
	`

	p, err := scanPerson(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, person.ErrPersonNotFound
		}
		return nil, fmt.Errorf("find person %s: %w", id, err)
	}
	return p, nil
}

func (r *postgresRepository) Search(ctx context.Context, term string, limit int) ([]person.Person, error) {
	// search_text is a stored generated column: lowercase concatenation of
	// nickname, name and the stack column (see scripts/schema.sql).
	query := `
		SELECT ` + selectColumns + `
		FROM people
		WHERE search_text LIKE $1
		ORDER BY id
		LIMIT $2
	`
	pattern := "%" + strings.ToLower(term) + "%"

	rows, err := r.pool.Query(ctx, query, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search people: %w", err)
	}
	defer rows.Close()

	results := make([]person.Person, 0, limit)
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan search row: %w", err)
		}
		results = append(results, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search people: %w", err)
	}
	return results, nil
}

func (r *postgresRepository) CountExcludingPrefix(ctx context.Context, prefix string) (int64, error) {
	query := `SELECT COUNT(1) FROM people WHERE nickname NOT ILIKE $1`

	var count int64
	if err := r.pool.QueryRow(ctx, query, prefix+"%").Scan(&count); err != nil {
		return 0, fmt.Errorf("count people: %w", err)
	}
	return count, nil
}

// BulkInsert commits one flush batch inside a single transaction.
// ON CONFLICT DO NOTHING drops rows losing the nickname (or id) uniqueness
// race against already-durable records instead of aborting the batch.
func (r *postgresRepository) BulkInsert(ctx context.Context, events []person.CreationEvent) error {
	if len(events) == 0 {
		return nil
	}

	query, args, err := r.buildBulkInsert(events)
	if err != nil {
		return fmt.Errorf("build bulk insert: %w", err)
	}

	err = database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("execute bulk insert: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("flush batch of %d: %w", len(events), err)
	}
	return nil
}

// buildBulkInsert renders one multi-row INSERT with a skip-on-conflict
// clause via goqu.
func (r *postgresRepository) buildBulkInsert(events []person.CreationEvent) (string, []interface{}, error) {
	vals := make([][]interface{}, 0, len(events))
	for _, e := range events {
		vals = append(vals, goqu.Vals{
			e.ID,
			e.Payload.Nickname,
			e.Payload.Name,
			e.Payload.BirthDate,
			e.StackCol,
		})
	}

	return r.dialect.Insert("people").
		Cols("id", "nickname", "name", "birth_date", "stack").
		Vals(vals...).
		OnConflict(goqu.DoNothing()).
		Prepared(true).
		ToSQL()
}

func (r *postgresRepository) DeleteByNicknamePrefix(ctx context.Context, prefix string) (int64, error) {
	query := `DELETE FROM people WHERE nickname LIKE $1`

	tag, err := r.pool.Exec(ctx, query, prefix+"%")
	if err != nil {
		return 0, fmt.Errorf("delete people by prefix %q: %w", prefix, err)
	}
	return tag.RowsAffected(), nil
}
