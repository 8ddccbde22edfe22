package wallet

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"token-cleaner-sol/internal/pkg/types"

	sdktypes "github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempKeypair(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0600))
	return path
}

func TestLoadKeypair_JsonArray(t *testing.T) {
	acct := sdktypes.NewAccount()

	raw := make([]int, len(acct.PrivateKey))
	for i, b := range acct.PrivateKey {
		raw[i] = int(b)
	}
	data, err := json.Marshal(raw)
	require.NoError(t, err)

	loaded, err := LoadKeypair(writeTempKeypair(t, "id.json", data))
	require.NoError(t, err)
	assert.Equal(t, acct.PublicKey, loaded.PublicKey, "JSON 数组编码加载后公钥应一致")
}

func TestLoadKeypair_Base58(t *testing.T) {
	acct := sdktypes.NewAccount()
	encoded := base58.Encode(acct.PrivateKey)

	loaded, err := LoadKeypair(writeTempKeypair(t, "id.txt", []byte(encoded+"\n")))
	require.NoError(t, err)
	assert.Equal(t, acct.PublicKey, loaded.PublicKey, "base58 编码加载后公钥应一致")
}

func TestLoadKeypair_InvalidFormat(t *testing.T) {
	cases := map[string][]byte{
		"乱码":       []byte("not-a-keypair!!"),
		"长度不足的数组":  []byte("[1,2,3]"),
		"越界的字节值":   []byte("[300,1,2]"),
		"空文件":      {},
		"合法但过短的58": []byte("abc"),
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadKeypair(writeTempKeypair(t, "bad", content))
			assert.ErrorIs(t, err, ErrInvalidKeypairFormat, "两种编码都失败必须返回 ErrInvalidKeypairFormat")
		})
	}
}

func TestLoadKeypair_MissingFile(t *testing.T) {
	_, err := LoadKeypair(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidKeypairFormat, "文件不存在不属于格式错误")
}

func TestVerifyIdentity(t *testing.T) {
	acct := sdktypes.NewAccount()

	expected, err := types.TryPubkeyFromBase58(acct.PublicKey.ToBase58())
	require.NoError(t, err)
	assert.NoError(t, VerifyIdentity(acct, expected), "公钥一致应通过校验")

	other := types.Pubkey{}
	other[0] = 7
	err = VerifyIdentity(acct, other)
	assert.ErrorIs(t, err, ErrAuthorizationMismatch, "公钥不一致必须返回 ErrAuthorizationMismatch")
}
