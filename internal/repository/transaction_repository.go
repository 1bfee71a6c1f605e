package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"finease/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const transactionsTable = "transactions"

var transactionColumns = []string{
	"id", "type", "category", "amount", "description", "date", "owner_email", "created_at", "updated_at",
}

type TransactionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTransactionRepository(db *pgxpool.Pool, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	query := squirrel.Insert(transactionsTable).
		Columns(transactionColumns...).
		Values(tx.ID, tx.Type, tx.Category, tx.Amount, tx.Description, tx.Date, tx.OwnerEmail, tx.CreatedAt, tx.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		return storageError("insert transaction", err)
	}
	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	query := squirrel.Select(transactionColumns...).
		From(transactionsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	tx, err := scanTransaction(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, storageError("get transaction", err)
	}

	return tx, nil
}

func (r *TransactionRepository) ListByOwner(ctx context.Context, ownerEmail string, order models.SortOrder) ([]*models.Transaction, error) {
	sql, args, err := listByOwnerQuery(ownerEmail, order).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, storageError("list transactions", err)
	}
	defer rows.Close()

	transactions := []*models.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, storageError("scan transaction", err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list transactions", err)
	}

	return transactions, nil
}

func (r *TransactionRepository) Update(ctx context.Context, tx *models.Transaction) error {
	query := squirrel.Update(transactionsTable).
		Set("type", tx.Type).
		Set("category", tx.Category).
		Set("amount", tx.Amount).
		Set("description", tx.Description).
		Set("date", tx.Date).
		Set("updated_at", tx.UpdatedAt).
		Where(squirrel.Eq{"id": tx.ID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return storageError("update transaction", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	query := squirrel.Delete(transactionsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, storageError("delete transaction", err)
	}
	return tag.RowsAffected(), nil
}

func (r *TransactionRepository) SumByType(ctx context.Context, ownerEmail string) (map[models.TransactionType]decimal.Decimal, error) {
	sql, args, err := sumByTypeQuery(ownerEmail).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, storageError("sum transactions", err)
	}
	defer rows.Close()

	sums := make(map[models.TransactionType]decimal.Decimal, 2)
	for rows.Next() {
		var (
			typ   models.TransactionType
			total decimal.Decimal
		)
		if err := rows.Scan(&typ, &total); err != nil {
			return nil, storageError("scan sum", err)
		}
		sums[typ] = total
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("sum transactions", err)
	}

	r.logger.Debug("Sums computed",
		zap.String("owner_email", ownerEmail),
		zap.Int("groups", len(sums)),
	)

	return sums, nil
}

func (r *TransactionRepository) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return storageError("ping", err)
	}
	return nil
}

func listByOwnerQuery(ownerEmail string, order models.SortOrder) squirrel.SelectBuilder {
	dir := "ASC"
	if order.Descending() {
		dir = "DESC"
	}

	return squirrel.Select(transactionColumns...).
		From(transactionsTable).
		Where(squirrel.Eq{"owner_email": ownerEmail}).
		OrderBy(order.Field()+" "+dir, "created_at "+dir, "id "+dir).
		PlaceholderFormat(squirrel.Dollar)
}

func sumByTypeQuery(ownerEmail string) squirrel.SelectBuilder {
	return squirrel.Select("type", "SUM(amount)").
		From(transactionsTable).
		Where(squirrel.Eq{"owner_email": ownerEmail}).
		GroupBy("type").
		PlaceholderFormat(squirrel.Dollar)
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var tx models.Transaction
	if err := row.Scan(
		&tx.ID, &tx.Type, &tx.Category, &tx.Amount, &tx.Description, &tx.Date, &tx.OwnerEmail, &tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}
	tx.Date = tx.Date.UTC()
	tx.CreatedAt = tx.CreatedAt.UTC()
	tx.UpdatedAt = tx.UpdatedAt.UTC()
	return &tx, nil
}

// columnFields maps columns to the JSON field names clients send.
var columnFields = map[string]string{
	"type":        "type",
	"category":    "category",
	"amount":      "amount",
	"description": "description",
	"date":        "date",
	"owner_email": "ownerEmail",
}

// storageError wraps a database failure. Data exceptions (class 22) and
// integrity violations (class 23) mean the row was rejected, not that the
// database is down, so they come back as a *models.ValidationError.
func storageError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) &&
		(pgerrcode.IsDataException(pgErr.Code) || pgerrcode.IsIntegrityConstraintViolation(pgErr.Code)) {
		return &models.ValidationError{Violations: []models.Violation{{
			Field:   rejectedField(pgErr),
			Message: "rejected by storage: " + pgErr.Message,
		}}}
	}
	return fmt.Errorf("%s: %w: %w", op, models.ErrStorageUnavailable, err)
}

// rejectedField names the offending field from the column, or from a
// constraint named transactions_<column>_check.
func rejectedField(pgErr *pgconn.PgError) string {
	if f, ok := columnFields[pgErr.ColumnName]; ok {
		return f
	}
	name := strings.TrimSuffix(strings.TrimPrefix(pgErr.ConstraintName, transactionsTable+"_"), "_check")
	if f, ok := columnFields[name]; ok {
		return f
	}
	return "transaction"
}
