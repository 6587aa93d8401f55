package account_repo

import (
	"context"
	"errors"
	"time"

	"minigames_backend/internal/model"
	"minigames_backend/internal/repository"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table        = "accounts"
	colID        = "id"
	colBalance   = "balance"
	colCreatedAt = "created_at"
)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewAccountRepository(dbc *pgxpool.Pool) repository.AccountRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// CreateAccount - создает аккаунт с начальным балансом
func (r *repo) CreateAccount(ctx context.Context, account *model.Account) error {
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now()
	}

	// Формируем запрос
	query := sq.Insert(table).
		Columns(colID, colBalance, colCreatedAt).
		Values(account.ID, account.Balance, account.CreatedAt).
		Suffix("ON CONFLICT (" + colID + ") DO NOTHING").
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	res, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}

	// Запись уже была
	if res.RowsAffected() == 0 {
		return model.ErrAccountExists
	}

	return nil
}

// GetBalance - получение баланса аккаунта по его ID
func (r *repo) GetBalance(ctx context.Context, id string) (int64, error) {
	// Формируем запрос
	query := sq.Select(colBalance).
		From(table).
		Where(sq.Eq{colID: id}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var balance int64
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, model.ErrAccountNotFound
		}
		return 0, err
	}

	return balance, nil
}

// AddBalance - атомарно меняет баланс на delta.
// Условие в WHERE не даёт балансу уйти в минус даже при гонке
func (r *repo) AddBalance(ctx context.Context, id string, delta int64) (int64, error) {
	// Формируем запрос
	query := sq.Update(table).
		Set(colBalance, sq.Expr(colBalance+" + ?", delta)).
		Where(sq.Eq{colID: id}).
		Where(sq.Expr(colBalance+" + ? >= 0", delta)).
		Suffix("RETURNING " + colBalance).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var balance int64
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	// Строка не обновилась: либо аккаунта нет, либо не хватает средств
	current, err := r.GetBalance(ctx, id)
	if err != nil {
		return 0, err
	}
	return current, model.ErrInsufficientFunds
}
