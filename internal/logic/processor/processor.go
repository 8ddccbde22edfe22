package processor

import (
	"context"

	"token-cleaner-sol/internal/logic/domain"

	sdktypes "github.com/blocto/solana-go-sdk/types"
)

// Submitter 交易提交接口：组装、签名、发送并等待确定的成功/失败结果。
// 实现方严格串行提交，同一付费方并发发送会引起链上排序冲突。
type Submitter interface {
	SubmitAndConfirm(ctx context.Context, instrs []sdktypes.Instruction, signer sdktypes.Account) (string, error)
}

// Action 单个账户最终发生的动作，用于报表。
type Action string

const (
	ActionClose     Action = "close"
	ActionBurnClose Action = "burn_close"
	ActionSkip      Action = "skip"
	ActionFail      Action = "fail"
)

// Outcome 单个账户的处理结果。
type Outcome struct {
	Holding   domain.Holding
	Action    Action
	Signature string // 确认成功的交易签名，跳过/失败时为空
	Err       error  // 仅 ActionFail 时非 nil
}

// Result 一次运行的累计统计。计数只由当前运行的处理器独占修改。
type Result struct {
	Closed            int  // 确认关闭的账户数
	Burned            int  // 确认销毁余额的账户数
	Submitted         int  // 实际提交的交易笔数（dry-run 恒为 0）
	Failed            int  // 提交失败的交易笔数
	RecoveredLamports uint64
	Outcomes          []Outcome
}

// holdingAction 根据余额与销毁开关得出该账户的动作类型。
func holdingAction(h *domain.Holding, burn bool) Action {
	if h.RawBalance > 0 {
		if burn {
			return ActionBurnClose
		}
		return ActionSkip
	}
	return ActionClose
}
