package wallet

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_GetMissing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "wallets")
	store := NewFileStore(dir)

	// "use existing" 无钱包时必须返回 ErrNoKeypairs，且不产生任何文件
	_, err := store.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNoKeypairs)

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr), "read miss must not create the wallet dir")
}

func TestFileStore_PutGet(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	ctx := context.Background()

	wallets := []types.Account{types.NewAccount(), types.NewAccount(), types.NewAccount()}
	require.NoError(t, store.Put(ctx, 7, wallets))

	got, err := store.Get(ctx, 7)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := range wallets {
		assert.Equal(t, wallets[i].PublicKey, got[i].PublicKey)
	}
}

func TestFileStore_SummaryFile(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	ctx := context.Background()

	wallets := []types.Account{types.NewAccount(), types.NewAccount()}
	require.NoError(t, store.Put(ctx, 9, wallets))

	data, err := os.ReadFile(filepath.Join(dir, "9.summary.json"))
	require.NoError(t, err)

	var s Summary
	require.NoError(t, json.Unmarshal(data, &s))
	assert.Equal(t, 2, s.Count)
	require.Len(t, s.Pubkeys, 2)
	assert.Equal(t, wallets[0].PublicKey.ToBase58(), s.Pubkeys[0])
	assert.Equal(t, wallets[1].PublicKey.ToBase58(), s.Pubkeys[1])
}

func TestFileStore_KeypairFileFormat(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	ctx := context.Background()

	wallets := []types.Account{types.NewAccount()}
	require.NoError(t, store.Put(ctx, 3, wallets))

	// 钱包文件是私钥数字数组的 JSON（与 solana-keygen 格式一致）
	data, err := os.ReadFile(filepath.Join(dir, "3.json"))
	require.NoError(t, err)

	var keys [][]int
	require.NoError(t, json.Unmarshal(data, &keys))
	require.Len(t, keys, 1)
	assert.Len(t, keys[0], 64)
}

func TestFileStore_List(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, 1, []types.Account{types.NewAccount()}))
	require.NoError(t, store.Put(ctx, 2, []types.Account{types.NewAccount()}))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2}, ids)
}

func TestFileStore_ListEmptyDir(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing"))
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFileStore_Overwrite(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, 5, []types.Account{types.NewAccount(), types.NewAccount()}))
	replacement := []types.Account{types.NewAccount()}
	require.NoError(t, store.Put(ctx, 5, replacement))

	got, err := store.Get(ctx, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, replacement[0].PublicKey, got[0].PublicKey)
}
