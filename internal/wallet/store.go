package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/blocto/solana-go-sdk/types"
)

// ErrNoKeypairs 用户名下没有任何已存储的钱包。
// "use existing" 流程命中该错误时应引导用户先创建钱包，且不得产生任何文件。
var ErrNoKeypairs = errors.New("no keypairs found")

// Store 按用户 id 存取钱包集合。后端（文件 / redis）可替换，
// 业务层只依赖该接口。
type Store interface {
	// Get 读取用户全部钱包，无记录时返回 ErrNoKeypairs
	Get(ctx context.Context, userID int64) ([]types.Account, error)
	// Put 覆盖写入用户的钱包集合，并同步摘要信息
	Put(ctx context.Context, userID int64, accounts []types.Account) error
	// List 返回所有已存储钱包的用户 id
	List(ctx context.Context) ([]int64, error)
}

// Summary 钱包摘要，与钱包本体一起维护，供展示用
type Summary struct {
	Count   int      `json:"count"`
	Pubkeys []string `json:"pubkeys"`
}

// NewStore 按配置选择后端
func NewStore(backend, dir, redisAddr string) (Store, error) {
	switch backend {
	case "", "file":
		if dir == "" {
			dir = "data/wallets"
		}
		return NewFileStore(dir), nil
	case "redis":
		if redisAddr == "" {
			return nil, errors.New("wallet_store.redis_addr is required for redis backend")
		}
		return NewRedisStoreAddr(redisAddr), nil
	default:
		return nil, fmt.Errorf("unknown wallet store backend: %q", backend)
	}
}

func buildSummary(accounts []types.Account) Summary {
	s := Summary{Count: len(accounts), Pubkeys: make([]string, 0, len(accounts))}
	for _, a := range accounts {
		s.Pubkeys = append(s.Pubkeys, a.PublicKey.ToBase58())
	}
	return s
}

// secretKeys JSON 形态与 solana-keygen 一致：每个私钥是数字数组
func secretKeys(accounts []types.Account) [][]int {
	keys := make([][]int, 0, len(accounts))
	for _, a := range accounts {
		raw := make([]int, len(a.PrivateKey))
		for i, b := range a.PrivateKey {
			raw[i] = int(b)
		}
		keys = append(keys, raw)
	}
	return keys
}

func accountsFromSecretKeys(keys [][]int) ([]types.Account, error) {
	accounts := make([]types.Account, 0, len(keys))
	for i, raw := range keys {
		buf := make([]byte, len(raw))
		for j, v := range raw {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("keypair %d: byte %d out of range", i, j)
			}
			buf[j] = byte(v)
		}
		acct, err := types.AccountFromBytes(buf)
		if err != nil {
			return nil, fmt.Errorf("keypair %d: %w", i, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}
