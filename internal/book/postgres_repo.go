package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// Text columns sort by byte under the "C" collation, which matches
// strings.Compare in Query.Compare.
var orderColumns = map[string]string{
	OrderPrice:      "price",
	OrderAuthorName: `author_name COLLATE "C"`,
}

// buildListSQL renders the WHERE and ORDER BY clauses of q. Ordering columns
// come from a whitelist; every value is a bind parameter.
func buildListSQL(q Query) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if q.Price != nil {
		clauses = append(clauses, fmt.Sprintf("price = $%d::numeric", argn))
		args = append(args, q.Price.Decimal.String())
		argn++
	}

	for _, term := range q.Search {
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR author_name ILIKE $%d)", argn, argn))
		args = append(args, "%"+escapeLike(term)+"%")
		argn++
	}

	order := make([]string, 0, len(q.Ordering)+1)
	for _, key := range q.Ordering {
		col, ok := orderColumns[key.Field]
		if !ok {
			continue
		}
		dir := "ASC"
		if key.Desc {
			dir = "DESC"
		}
		order = append(order, col+" "+dir)
	}
	order = append(order, "id ASC")

	sql := fmt.Sprintf(`
		SELECT id, name, price::text, author_name, owner_id::text
		FROM books
		WHERE %s
		ORDER BY %s`,
		strings.Join(clauses, " AND "), strings.Join(order, ", "))
	return sql, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Book, error) {
	sql, args := buildListSQL(q)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Get(ctx context.Context, id int64) (Book, error) {
	const query = `
		SELECT id, name, price::text, author_name, owner_id::text
		FROM books
		WHERE id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	const query = `
		INSERT INTO books (name, price, author_name, owner_id, created_at, updated_at)
		VALUES ($1, $2::numeric, $3, $4::uuid, NOW(), NOW())
		RETURNING id`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, b.Name, b.Price.String(), b.AuthorName, b.OwnerID).Scan(&b.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			// The token outlived its user.
			return ErrNotAuthenticated
		}
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

func (r *PostgresRepo) Update(ctx context.Context, b *Book) error {
	const query = `
		UPDATE books
		SET name = $2, price = $3::numeric, author_name = $4, updated_at = NOW()
		WHERE id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, b.ID, b.Name, b.Price.String(), b.AuthorName)
	if err != nil {
		return fmt.Errorf("update book %d: %w", b.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanBook(row pgx.Row) (Book, error) {
	var (
		b     Book
		price string
	)
	if err := row.Scan(&b.ID, &b.Name, &price, &b.AuthorName, &b.OwnerID); err != nil {
		return Book{}, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return Book{}, fmt.Errorf("scan price of book %d: %w", b.ID, err)
	}
	b.Price = Price{d}
	return b, nil
}
