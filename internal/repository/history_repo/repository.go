package history_repo

import (
	"context"

	"minigames_backend/internal/model"
	"minigames_backend/internal/repository"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table           = "game_history"
	colSeq          = "seq"
	colID           = "id"
	colAccountID    = "account_id"
	colCreatedAt    = "created_at"
	colKind         = "kind"
	colGame         = "game"
	colStake        = "stake"
	colOutcome      = "outcome"
	colWinAmount    = "win_amount"
	colBalanceAfter = "balance_after"
	colOpponentID   = "opponent_id"
)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewHistoryRepository(dbc *pgxpool.Pool) repository.HistoryRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// Append - добавляет запись в конец истории аккаунта
func (r *repo) Append(ctx context.Context, e *model.HistoryEntry) error {
	// Формируем запрос
	query := sq.Insert(table).
		Columns(colID, colAccountID, colCreatedAt, colKind, colGame, colStake,
			colOutcome, colWinAmount, colBalanceAfter, colOpponentID).
		Values(e.ID, e.AccountID, e.Timestamp, string(e.Kind), e.Game, e.Stake,
			e.Outcome, e.WinAmount, e.BalanceAfter, e.OpponentID).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	return err
}

// List - история аккаунта в порядке вставки (по seq)
func (r *repo) List(ctx context.Context, accountID string) ([]model.HistoryEntry, error) {
	// Формируем запрос
	query := sq.Select(colID, colAccountID, colCreatedAt, colKind, colGame, colStake,
		colOutcome, colWinAmount, colBalanceAfter, colOpponentID).
		From(table).
		Where(sq.Eq{colAccountID: accountID}).
		OrderBy(colSeq + " ASC").
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.HistoryEntry{}
	for rows.Next() {
		var (
			e    model.HistoryEntry
			kind string
		)
		err = rows.Scan(&e.ID, &e.AccountID, &e.Timestamp, &kind, &e.Game, &e.Stake,
			&e.Outcome, &e.WinAmount, &e.BalanceAfter, &e.OpponentID)
		if err != nil {
			return nil, err
		}
		e.Kind = model.GameKind(kind)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Clear - удаляет всю историю аккаунта
func (r *repo) Clear(ctx context.Context, accountID string) error {
	// Формируем запрос
	query := sq.Delete(table).
		Where(sq.Eq{colAccountID: accountID}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	return err
}
