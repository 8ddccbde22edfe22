package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"token-cleaner-sol/internal/pkg/types"

	sdktypes "github.com/blocto/solana-go-sdk/types"
)

var (
	// ErrInvalidKeypairFormat 密钥文件既不是字节数组也不是合法 base58 私钥。
	ErrInvalidKeypairFormat = errors.New("invalid keypair format")

	// ErrAuthorizationMismatch 密钥推导出的公钥与目标钱包地址不一致。
	ErrAuthorizationMismatch = errors.New("keypair does not match target wallet")
)

// LoadKeypair 从文件加载签名密钥，按顺序尝试两种编码：
// (a) JSON 字节数组（solana-keygen 默认输出），(b) base58 私钥字符串。
// 两种都解析失败时返回 ErrInvalidKeypairFormat。
func LoadKeypair(path string) (sdktypes.Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sdktypes.Account{}, fmt.Errorf("read keypair file %q: %w", path, err)
	}

	// (a) JSON 字节数组
	var raw []int
	if err := json.Unmarshal(data, &raw); err == nil {
		bytes := make([]byte, len(raw))
		for i, v := range raw {
			if v < 0 || v > 255 {
				return sdktypes.Account{}, fmt.Errorf("%w: byte %d out of range at index %d", ErrInvalidKeypairFormat, v, i)
			}
			bytes[i] = byte(v)
		}
		acct, err := sdktypes.AccountFromBytes(bytes)
		if err != nil {
			return sdktypes.Account{}, fmt.Errorf("%w: %v", ErrInvalidKeypairFormat, err)
		}
		return acct, nil
	}

	// (b) base58 字符串
	encoded := strings.TrimSpace(strings.Trim(strings.TrimSpace(string(data)), `"`))
	acct, err := sdktypes.AccountFromBase58(encoded)
	if err != nil {
		return sdktypes.Account{}, fmt.Errorf("%w: %v", ErrInvalidKeypairFormat, err)
	}
	return acct, nil
}

// VerifyIdentity 校验密钥身份与目标钱包一致。
// 必须在构建/提交任何指令之前调用，是防止替他人钱包签名的唯一闸门。
func VerifyIdentity(acct sdktypes.Account, expected types.Pubkey) error {
	derived := acct.PublicKey.ToBase58()
	if derived != expected.String() {
		return fmt.Errorf("%w: keypair=%s, target=%s", ErrAuthorizationMismatch, derived, expected)
	}
	return nil
}
