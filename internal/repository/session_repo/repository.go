package session_repo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"minigames_backend/internal/model"
	"minigames_backend/internal/repository"

	"github.com/redis/go-redis/v9"
)

// repo хранит активные дуэли в Redis.
// Ключ аккаунта ставится через SETNX - это и есть блокировка "одна игра на аккаунт"
type repo struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionRepository(rdb *redis.Client, ttl time.Duration) repository.SessionRepository {
	return &repo{rdb: rdb, ttl: ttl}
}

func sessionKey(id string) string { return "elimination:session:" + id }

func activeKey(accountID string) string { return "elimination:active:" + accountID }

// Create - занимает аккаунт и сохраняет сессию
func (r *repo) Create(ctx context.Context, s *model.EliminationSession) error {
	ok, err := r.rdb.SetNX(ctx, activeKey(s.AccountID), s.ID, r.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrSessionInUse
	}

	b, err := json.Marshal(s)
	if err != nil {
		return err
	}

	if err := r.rdb.Set(ctx, sessionKey(s.ID), b, r.ttl).Err(); err != nil {
		// Освобождаем аккаунт, раз сессия не записалась
		_ = r.rdb.Del(ctx, activeKey(s.AccountID)).Err()
		return err
	}

	return nil
}

func (r *repo) Get(ctx context.Context, id string) (*model.EliminationSession, error) {
	b, err := r.rdb.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var s model.EliminationSession
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Update перезаписывает сессию, только если она ещё существует (XX).
// Разыгранная, но не записанная в леджер сессия хранится без TTL, иначе истечение съест выигрыш
func (r *repo) Update(ctx context.Context, s *model.EliminationSession) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}

	ttl := r.ttl
	if awaitsCommit(s) {
		ttl = 0
	}

	ok, err := r.rdb.SetXX(ctx, sessionKey(s.ID), b, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrSessionNotFound
	}

	if ttl == 0 {
		return r.rdb.Persist(ctx, activeKey(s.AccountID)).Err()
	}
	return r.rdb.Expire(ctx, activeKey(s.AccountID), ttl).Err()
}

func awaitsCommit(s *model.EliminationSession) bool {
	return s.Phase == model.PhaseResolved && !s.Committed
}

func (r *repo) Delete(ctx context.Context, s *model.EliminationSession) error {
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, sessionKey(s.ID))
		pipe.Del(ctx, activeKey(s.AccountID))
		return nil
	})
	return err
}

func (r *repo) ActiveByAccount(ctx context.Context, accountID string) (string, bool, error) {
	id, err := r.rdb.Get(ctx, activeKey(accountID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return id, true, nil
}
