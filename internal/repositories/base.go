package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sportclub-app/sportclub-backend/internal/logger"
	"github.com/sportclub-app/sportclub-backend/internal/middlewares"
	"github.com/sportclub-app/sportclub-backend/internal/models"
)

// Order is the listing direction.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Predicate is a composable WHERE fragment using ? placeholders,
// rebound to $n at execution time.
type Predicate struct {
	Expr string
	Args []any
}

// Eq matches a column against a value.
func Eq(column string, value any) Predicate {
	return Predicate{Expr: column + " = ?", Args: []any{value}}
}

// Contains matches a column against a case-insensitive substring.
func Contains(column, substr string) Predicate {
	return Predicate{Expr: column + " ILIKE ?", Args: []any{"%" + substr + "%"}}
}

// And combines predicates conjunctively. Empty predicates are skipped,
// so an absent filter field matches everything.
func And(preds ...Predicate) Predicate {
	return compose(" AND ", preds)
}

// Or combines predicates disjunctively.
func Or(preds ...Predicate) Predicate {
	return compose(" OR ", preds)
}

func compose(sep string, preds []Predicate) Predicate {
	var exprs []string
	var args []any
	for _, p := range preds {
		if p.Expr == "" {
			continue
		}
		exprs = append(exprs, "("+p.Expr+")")
		args = append(args, p.Args...)
	}
	return Predicate{Expr: strings.Join(exprs, sep), Args: args}
}

// ListQuery narrows and orders a listing.
type ListQuery struct {
	Where   Predicate
	OrderBy string
	Order   Order
}

// Repository is a generic data-access object for one entity type.
// T must be a struct with db tags matching the declared columns.
type Repository[T any] struct {
	db       *sqlx.DB
	table    string
	columns  []string
	sortKeys map[string]struct{}
}

// New creates a repository for table with the given selectable columns
// and the closed set of permitted sort keys. The first column is taken
// as the primary key.
func New[T any](db *sqlx.DB, table string, columns []string, sortKeys []string) *Repository[T] {
	keys := make(map[string]struct{}, len(sortKeys))
	for _, k := range sortKeys {
		keys[k] = struct{}{}
	}
	return &Repository[T]{
		db:       db,
		table:    table,
		columns:  columns,
		sortKeys: keys,
	}
}

// ext returns the request-scoped transaction when one is present,
// falling back to the shared pool.
func (r *Repository[T]) ext(ctx context.Context) sqlx.ExtContext {
	if tx := middlewares.GetTxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db
}

func (r *Repository[T]) pk() string {
	return r.columns[0]
}

func (r *Repository[T]) selectList() string {
	return strings.Join(r.columns, ", ")
}

// orderClause resolves a requested sort key against the permitted set.
// An unknown key falls back to the primary key without an error.
func (r *Repository[T]) orderClause(orderBy string, order Order) string {
	if _, ok := r.sortKeys[orderBy]; !ok {
		orderBy = r.pk()
	}
	dir := "ASC"
	if order == OrderDesc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", orderBy, dir)
}

// Get returns the entity with the given primary key, or nil when absent.
func (r *Repository[T]) Get(ctx context.Context, id int64) (*T, error) {
	query := sqlx.Rebind(sqlx.DOLLAR, fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = ?", r.selectList(), r.table, r.pk()))

	var entity T
	err := sqlx.GetContext(ctx, r.ext(ctx), &entity, query, id)
	r.logQuery(query, []any{id}, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// ListOrdered returns all rows ordered by the given sort key.
func (r *Repository[T]) ListOrdered(ctx context.Context, orderBy string, order Order) ([]T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s%s",
		r.selectList(), r.table, r.orderClause(orderBy, order))

	items := []T{}
	err := sqlx.SelectContext(ctx, r.ext(ctx), &items, query)
	r.logQuery(query, nil, err)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListFiltered returns all rows matching the query predicate, ordered.
func (r *Repository[T]) ListFiltered(ctx context.Context, q ListQuery) ([]T, error) {
	where := ""
	if q.Where.Expr != "" {
		where = " WHERE " + q.Where.Expr
	}
	query := sqlx.Rebind(sqlx.DOLLAR, fmt.Sprintf("SELECT %s FROM %s%s%s",
		r.selectList(), r.table, where, r.orderClause(q.OrderBy, q.Order)))

	items := []T{}
	err := sqlx.SelectContext(ctx, r.ext(ctx), &items, query, q.Where.Args...)
	r.logQuery(query, q.Where.Args, err)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListPaginated returns one page of rows matching the query predicate,
// with the total computed by a count query over the same predicate.
func (r *Repository[T]) ListPaginated(ctx context.Context, params models.PageParams, q ListQuery) (*models.Page[T], error) {
	params = params.Normalize()

	where := ""
	if q.Where.Expr != "" {
		where = " WHERE " + q.Where.Expr
	}

	countQuery := sqlx.Rebind(sqlx.DOLLAR, fmt.Sprintf(
		"SELECT COUNT(*) FROM %s%s", r.table, where))

	var total int64
	err := sqlx.GetContext(ctx, r.ext(ctx), &total, countQuery, q.Where.Args...)
	r.logQuery(countQuery, q.Where.Args, err)
	if err != nil {
		return nil, err
	}

	itemsQuery := sqlx.Rebind(sqlx.DOLLAR, fmt.Sprintf(
		"SELECT %s FROM %s%s%s LIMIT %d OFFSET %d",
		r.selectList(), r.table, where,
		r.orderClause(q.OrderBy, q.Order), params.Size, params.Offset()))

	items := []T{}
	err = sqlx.SelectContext(ctx, r.ext(ctx), &items, itemsQuery, q.Where.Args...)
	r.logQuery(itemsQuery, q.Where.Args, err)
	if err != nil {
		return nil, err
	}

	return models.NewPage(items, total, params), nil
}

// Insert creates a row from the given column values and returns the
// stored entity including generated fields. Unknown columns are skipped.
// Integrity violations come back as ConflictError.
func (r *Repository[T]) Insert(ctx context.Context, values map[string]any) (*T, error) {
	var cols []string
	var placeholders []string
	var args []any
	for _, c := range r.columns {
		v, ok := values[c]
		if !ok {
			continue
		}
		cols = append(cols, c)
		placeholders = append(placeholders, "?")
		args = append(args, v)
	}

	query := sqlx.Rebind(sqlx.DOLLAR, fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		r.table, strings.Join(cols, ", "), strings.Join(placeholders, ", "), r.selectList()))

	var entity T
	err := sqlx.GetContext(ctx, r.ext(ctx), &entity, query, args...)
	r.logQuery(query, args, err)
	if err != nil {
		return nil, convertDBError(err)
	}
	return &entity, nil
}

// Update overwrites the columns present in values on the row with the
// given primary key; columns not supplied are left untouched. Returns
// nil when the row is absent.
func (r *Repository[T]) Update(ctx context.Context, id int64, values map[string]any) (*T, error) {
	var sets []string
	var args []any
	for _, c := range r.columns {
		if c == r.pk() {
			continue
		}
		v, ok := values[c]
		if !ok {
			continue
		}
		sets = append(sets, c+" = ?")
		args = append(args, v)
	}
	if len(sets) == 0 {
		return r.Get(ctx, id)
	}
	args = append(args, id)

	query := sqlx.Rebind(sqlx.DOLLAR, fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = ? RETURNING %s",
		r.table, strings.Join(sets, ", "), r.pk(), r.selectList()))

	var entity T
	err := sqlx.GetContext(ctx, r.ext(ctx), &entity, query, args...)
	r.logQuery(query, args, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, convertDBError(err)
	}
	return &entity, nil
}

// Delete removes the row with the given primary key and returns it.
// An absent id yields nil, nil rather than an error.
func (r *Repository[T]) Delete(ctx context.Context, id int64) (*T, error) {
	query := sqlx.Rebind(sqlx.DOLLAR, fmt.Sprintf(
		"DELETE FROM %s WHERE %s = ? RETURNING %s", r.table, r.pk(), r.selectList()))

	var entity T
	err := sqlx.GetContext(ctx, r.ext(ctx), &entity, query, id)
	r.logQuery(query, []any{id}, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// logQuery logs with the query collapsed onto a single line.
func (r *Repository[T]) logQuery(query string, args []any, err error) {
	logger.Log.Infow("query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"error", err,
	)
}
