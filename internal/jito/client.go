package jito

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
	"github.com/ybbus/jsonrpc/v3"
	"gopkg.in/yaml.v3"

	"volume-bot-sol/internal/consts"
	"volume-bot-sol/internal/pkg/logger"
)

// ErrRelayRejected relay 明确拒绝 bundle（如 "no eligible leader soon"）。
// 不重试：是否重新提交由用户决定，重复提交可能造成链上重复效果。
var ErrRelayRejected = errors.New("relay rejected bundle")

// RelaysConfig relay 端点列表文件结构（etc/relays.yaml）
type RelaysConfig struct {
	Relays []struct {
		Name     string `yaml:"name"`
		URL      string `yaml:"url"`
		Disabled bool   `yaml:"disabled"`
	} `yaml:"relays"`
}

// Client 面向单个 Jito block engine 端点的 bundle 提交客户端
type Client struct {
	name        string
	rpc         jsonrpc.RPCClient
	tipAccounts []common.PublicKey
}

// NewClientFromFile 解析 relay 列表文件，取第一个未禁用的端点
func NewClientFromFile(file string, tipAccounts []string) (*Client, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read relays file: %w", err)
	}

	var cfg RelaysConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse relays file: %w", err)
	}

	for _, r := range cfg.Relays {
		if r.Disabled {
			continue
		}
		return NewClient(r.Name, r.URL, tipAccounts)
	}
	return nil, errors.New("no enabled relay in config")
}

// NewClient 创建 bundle 提交客户端。tipAccounts 为空时使用内置默认列表。
func NewClient(name, url string, tipAccounts []string) (*Client, error) {
	if len(tipAccounts) == 0 {
		tipAccounts = consts.JitoTipAccounts
	}
	accounts := make([]common.PublicKey, 0, len(tipAccounts))
	for _, s := range tipAccounts {
		if _, err := base58.Decode(s); err != nil {
			return nil, fmt.Errorf("invalid tip account %q: %w", s, err)
		}
		accounts = append(accounts, common.PublicKeyFromString(s))
	}
	return &Client{
		name:        name,
		rpc:         jsonrpc.NewClient(url),
		tipAccounts: accounts,
	}, nil
}

// PickTipAccount 随机选择一个 tip 账户，分散 tip 落点
func (c *Client) PickTipAccount() common.PublicKey {
	return c.tipAccounts[rand.Intn(len(c.tipAccounts))]
}

// SendBundle 将有序交易列表作为一个原子单元提交，成功返回 bundle id。
// relay 保证按序原子落地；失败时不产生 bundle id，也不重试。
func (c *Client) SendBundle(ctx context.Context, txs []types.Transaction) (string, error) {
	if len(txs) == 0 {
		return "", errors.New("empty bundle")
	}
	if len(txs) > consts.MaxBundleTxCount {
		return "", fmt.Errorf("bundle has %d transactions, relay limit is %d", len(txs), consts.MaxBundleTxCount)
	}

	encoded := make([]string, 0, len(txs))
	for i, tx := range txs {
		raw, err := tx.Serialize()
		if err != nil {
			return "", fmt.Errorf("serialize bundle tx %d: %w", i, err)
		}
		encoded = append(encoded, base58.Encode(raw))
	}

	resp, err := c.rpc.Call(ctx, "sendBundle", [][]string{encoded})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRelayRejected, err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrRelayRejected, resp.Error.Message)
	}

	bundleID, err := resp.GetString()
	if err != nil || bundleID == "" {
		return "", fmt.Errorf("%w: malformed bundle id in response", ErrRelayRejected)
	}

	logger.Infof("[jito] bundle submitted: relay=%s txs=%d bundle_id=%s", c.name, len(txs), bundleID)
	return bundleID, nil
}
