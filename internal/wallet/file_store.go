package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/blocto/solana-go-sdk/types"
)

// FileStore 每个用户一个钱包文件（私钥数字数组的 JSON），
// 外加一个摘要文件记录数量与公钥。目录首次写入时创建。
// 同一用户的并发请求之间没有文件锁，见系统并发模型说明。
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) keypairPath(userID int64) string {
	return filepath.Join(s.dir, fmt.Sprintf("%d.json", userID))
}

func (s *FileStore) summaryPath(userID int64) string {
	return filepath.Join(s.dir, fmt.Sprintf("%d.summary.json", userID))
}

func (s *FileStore) Get(_ context.Context, userID int64) ([]types.Account, error) {
	data, err := os.ReadFile(s.keypairPath(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoKeypairs
		}
		return nil, fmt.Errorf("read keypair file: %w", err)
	}

	var keys [][]int
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("parse keypair file for user %d: %w", userID, err)
	}
	if len(keys) == 0 {
		return nil, ErrNoKeypairs
	}
	return accountsFromSecretKeys(keys)
}

func (s *FileStore) Put(_ context.Context, userID int64, accounts []types.Account) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create wallet dir: %w", err)
	}

	data, err := json.Marshal(secretKeys(accounts))
	if err != nil {
		return fmt.Errorf("encode keypairs: %w", err)
	}
	if err := os.WriteFile(s.keypairPath(userID), data, 0o600); err != nil {
		return fmt.Errorf("write keypair file: %w", err)
	}

	summary, err := json.Marshal(buildSummary(accounts))
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := os.WriteFile(s.summaryPath(userID), summary, 0o600); err != nil {
		return fmt.Errorf("write summary file: %w", err)
	}
	return nil
}

func (s *FileStore) List(_ context.Context) ([]int64, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read wallet dir: %w", err)
	}

	var ids []int64
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".summary.json") {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSuffix(name, ".json"), 10, 64)
		if err != nil {
			continue // 非钱包文件，跳过
		}
		ids = append(ids, id)
	}
	return ids, nil
}
