package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/redis/go-redis/v9"
)

// Redis key 布局
const (
	keypairPrefix = "wallets:user"    // wallets:user:<id> -> 私钥数组 JSON
	summaryPrefix = "wallets:summary" // wallets:summary:<id> -> 摘要 JSON
	userIndexKey  = "wallets:users"   // set，已存钱包的用户 id
)

// RedisStore 钱包存储的 Redis 后端，key 结构见上。不设 TTL：
// 钱包是系统里唯一需要持久的实体。
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func NewRedisStoreAddr(addr string) *RedisStore {
	return NewRedisStore(redis.NewClient(&redis.Options{Addr: addr}))
}

func keypairKey(userID int64) string {
	return fmt.Sprintf("%s:%d", keypairPrefix, userID)
}

func summaryKey(userID int64) string {
	return fmt.Sprintf("%s:%d", summaryPrefix, userID)
}

func (s *RedisStore) Get(ctx context.Context, userID int64) ([]types.Account, error) {
	data, err := s.rdb.Get(ctx, keypairKey(userID)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, ErrNoKeypairs
	case err != nil:
		return nil, fmt.Errorf("redis get error: %w", err)
	}

	var keys [][]int
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("parse keypairs for user %d: %w", userID, err)
	}
	if len(keys) == 0 {
		return nil, ErrNoKeypairs
	}
	return accountsFromSecretKeys(keys)
}

func (s *RedisStore) Put(ctx context.Context, userID int64, accounts []types.Account) error {
	data, err := json.Marshal(secretKeys(accounts))
	if err != nil {
		return fmt.Errorf("encode keypairs: %w", err)
	}
	summary, err := json.Marshal(buildSummary(accounts))
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}

	// 钱包本体、摘要、用户索引在一个 pipeline 里写入
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, keypairKey(userID), data, 0)
	pipe.Set(ctx, summaryKey(userID), summary, 0)
	pipe.SAdd(ctx, userIndexKey, userID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis put error: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]int64, error) {
	members, err := s.rdb.SMembers(ctx, userIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list error: %w", err)
	}
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
