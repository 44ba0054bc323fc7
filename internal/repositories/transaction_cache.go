package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sbilibin2017/gw-transfer-engine/internal/logger"
	"github.com/sbilibin2017/gw-transfer-engine/internal/models"
)

// TransactionCacheRepository caches terminal transaction snapshots in Redis.
type TransactionCacheRepository struct {
	client *redis.Client
	exp    time.Duration // expiration duration for cached snapshots
}

func NewTransactionCacheRepository(client *redis.Client, expiration time.Duration) *TransactionCacheRepository {
	return &TransactionCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func transactionKey(uuid string) string {
	return fmt.Sprintf("transaction:%s", uuid)
}

// Get returns nil, nil on a cache miss.
func (r *TransactionCacheRepository) Get(ctx context.Context, uuid string) (*models.TransactionSnapshot, error) {
	key := transactionKey(uuid)

	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		logger.Log.Infow("cache get", "key", key, "hit", false, "error", err)
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var s models.TransactionSnapshot
	if err := json.Unmarshal(val, &s); err != nil {
		logger.Log.Infow("cache get", "key", key, "hit", false, "error", err)
		return nil, err
	}

	logger.Log.Infow("cache get", "key", key, "hit", true, "state", s.State)
	return &s, nil
}

// Set stores the snapshot. Non-terminal snapshots are ignored.
func (r *TransactionCacheRepository) Set(ctx context.Context, s models.TransactionSnapshot) error {
	if !s.State.IsTerminal() {
		return nil
	}

	key := transactionKey(s.UUID)
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	err = r.client.Set(ctx, key, data, r.exp).Err()

	logger.Log.Infow("cache set", "key", key, "state", s.State, "error", err)

	return err
}

// Delete evicts the cached snapshot, if any.
func (r *TransactionCacheRepository) Delete(ctx context.Context, uuid string) error {
	key := transactionKey(uuid)
	err := r.client.Del(ctx, key).Err()

	logger.Log.Infow("cache delete", "key", key, "error", err)

	return err
}
