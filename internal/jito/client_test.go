package jito

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volume-bot-sol/internal/consts"
)

func signedTx(t *testing.T) types.Transaction {
	t.Helper()
	payer := types.NewAccount()
	msg := types.NewMessage(types.NewMessageParam{
		FeePayer:        payer.PublicKey,
		RecentBlockhash: types.NewAccount().PublicKey.ToBase58(),
		Instructions: []types.Instruction{
			system.Transfer(system.TransferParam{
				From:   payer.PublicKey,
				To:     types.NewAccount().PublicKey,
				Amount: 1000,
			}),
		},
	})
	tx, err := types.NewTransaction(types.NewTransactionParam{Message: msg, Signers: []types.Account{payer}})
	require.NoError(t, err)
	return tx
}

// rpcServer 模拟 block engine：记录请求并回放固定响应
func rpcServer(t *testing.T, respond func(method string, params []json.RawMessage) (interface{}, *map[string]interface{})) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     int               `json:"id"`
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		result, rpcErr := respond(req.Method, req.Params)
		resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
		if rpcErr != nil {
			resp["error"] = *rpcErr
		} else {
			resp["result"] = result
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func TestSendBundle(t *testing.T) {
	var gotMethod string
	var gotTxCount int
	srv := rpcServer(t, func(method string, params []json.RawMessage) (interface{}, *map[string]interface{}) {
		gotMethod = method
		var txs []string
		require.NoError(t, json.Unmarshal(params[0], &txs))
		gotTxCount = len(txs)
		return "b1e8f2c4a7d64f5e", nil
	})
	defer srv.Close()

	c, err := NewClient("test", srv.URL, nil)
	require.NoError(t, err)

	txs := []types.Transaction{signedTx(t), signedTx(t)}
	bundleID, err := c.SendBundle(context.Background(), txs)
	require.NoError(t, err)
	assert.Equal(t, "b1e8f2c4a7d64f5e", bundleID)
	assert.Equal(t, "sendBundle", gotMethod)
	assert.Equal(t, 2, gotTxCount)
}

func TestSendBundle_RelayRejection(t *testing.T) {
	srv := rpcServer(t, func(string, []json.RawMessage) (interface{}, *map[string]interface{}) {
		return nil, &map[string]interface{}{"code": -32002, "message": "no eligible leader soon"}
	})
	defer srv.Close()

	c, err := NewClient("test", srv.URL, nil)
	require.NoError(t, err)

	bundleID, err := c.SendBundle(context.Background(), []types.Transaction{signedTx(t)})
	require.Error(t, err)
	// 拒绝时不得产生关联 id，relay 原话保留给用户
	assert.Empty(t, bundleID)
	assert.ErrorIs(t, err, ErrRelayRejected)
	assert.Contains(t, err.Error(), "no eligible leader soon")
}

func TestSendBundle_Limits(t *testing.T) {
	c, err := NewClient("test", "http://127.0.0.1:1", nil)
	require.NoError(t, err)

	_, err = c.SendBundle(context.Background(), nil)
	assert.Error(t, err)

	over := make([]types.Transaction, 0, consts.MaxBundleTxCount+1)
	for i := 0; i <= consts.MaxBundleTxCount; i++ {
		over = append(over, signedTx(t))
	}
	_, err = c.SendBundle(context.Background(), over)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "relay limit")
}

func TestPickTipAccount_Defaults(t *testing.T) {
	c, err := NewClient("test", "http://127.0.0.1:1", nil)
	require.NoError(t, err)

	seen := map[string]bool{}
	for i := 0; i < 64; i++ {
		seen[c.PickTipAccount().ToBase58()] = true
	}
	for account := range seen {
		assert.Contains(t, consts.JitoTipAccounts, account)
	}
}

func TestNewClientFromFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "relays.yaml")
	content := `relays:
  - name: disabled-one
    url: http://127.0.0.1:1
    disabled: true
  - name: active
    url: http://127.0.0.1:2
    disabled: false
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))

	c, err := NewClientFromFile(file, nil)
	require.NoError(t, err)
	assert.Equal(t, "active", c.name)
}

func TestNewClientFromFile_NoEnabledRelay(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "relays.yaml")
	require.NoError(t, os.WriteFile(file, []byte("relays:\n  - name: x\n    url: http://u\n    disabled: true\n"), 0o600))

	_, err := NewClientFromFile(file, nil)
	assert.Error(t, err)
}

func TestNewClient_BadTipAccount(t *testing.T) {
	_, err := NewClient("test", "http://u", []string{"not-base58-0OIl"})
	assert.Error(t, err)
}
