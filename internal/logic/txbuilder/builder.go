package txbuilder

import (
	"token-cleaner-sol/internal/logic/domain"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/token"
	sdktypes "github.com/blocto/solana-go-sdk/types"
)

// DefaultMaxPerTx 单笔交易默认打包的账户数。
// 分批只为控制交易体积与计算开销，不承担正确性职责。
const DefaultMaxPerTx = 5

// HoldingInstructions 为单个账户生成指令序列。
// 余额为 0：仅生成 CloseAccount（租金退还给 authority，authority 同时作为签名方）。
// 余额非 0 且 burnBeforeClose：先 Burn 精确销毁全部余额，再 CloseAccount；不存在部分销毁。
// 余额非 0 且未开启销毁：无可构建指令，返回 nil，调用方按跳过处理。
func HoldingInstructions(h domain.Holding, authority common.PublicKey, burnBeforeClose bool) []sdktypes.Instruction {
	account := common.PublicKeyFromBytes(h.Address[:])

	var instrs []sdktypes.Instruction
	if h.RawBalance > 0 {
		if !burnBeforeClose {
			return nil
		}
		instrs = append(instrs, token.Burn(token.BurnParam{
			Account: account,
			Mint:    common.PublicKeyFromBytes(h.Mint[:]),
			Auth:    authority,
			Amount:  h.RawBalance,
		}))
	}

	instrs = append(instrs, token.CloseAccount(token.CloseAccountParam{
		Account: account,
		Auth:    authority,
		To:      authority,
	}))
	return instrs
}

// Partition 把账户列表切成固定大小的分批，保持原始顺序。
// 产出 ceil(N/maxPerTx) 个分批，大小之和等于 N，最后一批可能不满。
func Partition(holdings []domain.Holding, maxPerTx int) [][]domain.Holding {
	if maxPerTx <= 0 {
		maxPerTx = DefaultMaxPerTx
	}
	if len(holdings) == 0 {
		return nil
	}

	chunks := make([][]domain.Holding, 0, (len(holdings)+maxPerTx-1)/maxPerTx)
	for start := 0; start < len(holdings); start += maxPerTx {
		end := start + maxPerTx
		if end > len(holdings) {
			end = len(holdings)
		}
		chunks = append(chunks, holdings[start:end])
	}
	return chunks
}
