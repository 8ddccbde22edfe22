package txbuilder

import (
	"testing"

	"token-cleaner-sol/internal/logic/domain"
	"token-cleaner-sol/internal/pkg/types"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuthority = common.PublicKeyFromString("So11111111111111111111111111111111111111112")

func holding(balance uint64) domain.Holding {
	var addr, mint types.Pubkey
	addr[0], mint[0] = 1, 2
	return domain.Holding{Address: addr, Mint: mint, RawBalance: balance, Decimals: 6}
}

func TestHoldingInstructions_EmptyAccount(t *testing.T) {
	instrs := HoldingInstructions(holding(0), testAuthority, false)
	require.Len(t, instrs, 1, "空账户只需一条 CloseAccount")

	// 无论是否开启销毁，空账户都不会生成 Burn
	instrs = HoldingInstructions(holding(0), testAuthority, true)
	require.Len(t, instrs, 1)
}

func TestHoldingInstructions_BurnBeforeClose(t *testing.T) {
	instrs := HoldingInstructions(holding(12345), testAuthority, true)
	require.Len(t, instrs, 2, "非零余额开启销毁时应为 Burn + CloseAccount")

	// SPL Token 指令码：Burn=8, CloseAccount=9
	assert.Equal(t, byte(8), instrs[0].Data[0], "第一条必须是 Burn")
	assert.Equal(t, byte(9), instrs[1].Data[0], "第二条必须是 CloseAccount")
}

func TestHoldingInstructions_NonZeroWithoutBurn(t *testing.T) {
	instrs := HoldingInstructions(holding(12345), testAuthority, false)
	assert.Nil(t, instrs, "未开启销毁时非零余额账户不可构建，返回 nil")
}

func TestPartition_Sizes(t *testing.T) {
	holdings := make([]domain.Holding, 13)
	chunks := Partition(holdings, 5)

	require.Len(t, chunks, 3, "13 个账户按 5 分批应得 3 批")
	assert.Len(t, chunks[0], 5)
	assert.Len(t, chunks[1], 5)
	assert.Len(t, chunks[2], 3, "最后一批不满")

	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	assert.Equal(t, 13, total, "分批大小之和必须等于总数")
}

func TestPartition_PreservesOrder(t *testing.T) {
	holdings := make([]domain.Holding, 7)
	for i := range holdings {
		holdings[i].RawBalance = uint64(i)
	}
	chunks := Partition(holdings, 3)

	var flat []uint64
	for _, c := range chunks {
		for _, h := range c {
			flat = append(flat, h.RawBalance)
		}
	}
	assert.Equal(t, []uint64{0, 1, 2, 3, 4, 5, 6}, flat, "分批不得打乱顺序")
}

func TestPartition_Edge(t *testing.T) {
	assert.Nil(t, Partition(nil, 5), "空输入返回 nil")

	chunks := Partition(make([]domain.Holding, 2), 5)
	require.Len(t, chunks, 1, "不足一批时只有一批")
	assert.Len(t, chunks[0], 2)

	// 非法 maxPerTx 回退到默认值
	chunks = Partition(make([]domain.Holding, 12), 0)
	assert.Len(t, chunks, 3)
}
