package processor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"token-cleaner-sol/internal/consts"
	"token-cleaner-sol/internal/logic/domain"
	"token-cleaner-sol/internal/logic/txbuilder"
	"token-cleaner-sol/internal/tools"

	sdktypes "github.com/blocto/solana-go-sdk/types"
	"github.com/zeromicro/go-zero/core/logx"
)

// 交互状态机：ASK 逐个询问，AUTO_ALL 后续全部处理，SKIP_ALL 后续全部跳过。
type promptState int

const (
	stateAsk promptState = iota
	stateAutoAll
	stateSkipAll
)

// InteractiveProcessor 逐账户交互式处理器。
// 输入输出抽象为 io.Reader / io.Writer，测试可用脚本化输入驱动，无需真实终端。
// 每个被处理的账户单独提交一笔交易，单笔失败只影响该账户。
type InteractiveProcessor struct {
	submitter Submitter
	signer    sdktypes.Account
	burn      bool
	dryRun    bool
	in        *bufio.Scanner
	out       io.Writer
	logx.Logger
}

func NewInteractiveProcessor(submitter Submitter, signer sdktypes.Account, burn, dryRun bool, in io.Reader, out io.Writer) *InteractiveProcessor {
	return &InteractiveProcessor{
		submitter: submitter,
		signer:    signer,
		burn:      burn,
		dryRun:    dryRun,
		in:        bufio.NewScanner(in),
		out:       out,
		Logger:    logx.WithContext(context.Background()).WithFields(logx.Field("service", "interactive_processor")),
	}
}

// Run 遍历全部账户直到最后一个（SKIP_ALL 下也走完循环，保证统计完整）。
// ASK 状态下的输入映射：
//
//	y/yes → 只处理当前账户；a/all → 处理当前并转入 AUTO_ALL；
//	q/quit → 转入 SKIP_ALL（当前账户一并跳过）；其余输入 → 只跳过当前账户。
//
// 输入读取失败（EOF 等）等价于 quit。
func (p *InteractiveProcessor) Run(ctx context.Context, holdings []domain.Holding) Result {
	var result Result
	state := stateAsk

	for i := range holdings {
		h := holdings[i]

		process := false
		switch state {
		case stateAutoAll:
			process = true
		case stateSkipAll:
			process = false
		default:
			switch p.prompt(&h) {
			case "y", "yes":
				process = true
			case "a", "all":
				process = true
				state = stateAutoAll
			case "q", "quit":
				state = stateSkipAll
			default:
				// 其余输入只跳过当前账户，保持 ASK
			}
		}

		if !process {
			result.Outcomes = append(result.Outcomes, Outcome{Holding: h, Action: ActionSkip})
			continue
		}
		p.processOne(ctx, h, &result)
	}

	p.Infof("[InteractiveProcessor] 处理完成: closed=%d, burned=%d, submitted=%d, failed=%d, recovered=%d lamports",
		result.Closed, result.Burned, result.Submitted, result.Failed, result.RecoveredLamports)
	return result
}

// prompt 打印账户概要并读取一行指令，读取失败按 quit 处理。
func (p *InteractiveProcessor) prompt(h *domain.Holding) string {
	fmt.Fprintf(p.out, "[%s] %s  余额=%s  %s\n关闭该账户? [y]是 [n]否 [a]剩余全部 [q]退出: ",
		h.Risk, h.DisplayName(), tools.FormatAmount(h.RawBalance, h.Decimals), h.RiskReason)
	if !p.in.Scan() {
		return "quit"
	}
	return strings.ToLower(strings.TrimSpace(p.in.Text()))
}

// processOne 为单个账户构建并提交独立交易。
func (p *InteractiveProcessor) processOne(ctx context.Context, h domain.Holding, result *Result) {
	instrs := txbuilder.HoldingInstructions(h, p.signer.PublicKey, p.burn)
	if instrs == nil {
		fmt.Fprintf(p.out, "⚠️ 跳过 %s: 余额非零且未开启销毁\n", h.Address.Short())
		result.Outcomes = append(result.Outcomes, Outcome{Holding: h, Action: ActionSkip})
		return
	}

	action := holdingAction(&h, p.burn)
	if p.dryRun {
		result.Closed++
		if action == ActionBurnClose {
			result.Burned++
		}
		result.RecoveredLamports += consts.TokenAccountRentLamports
		result.Outcomes = append(result.Outcomes, Outcome{Holding: h, Action: action})
		fmt.Fprintf(p.out, "✅ dry-run: %s 将被关闭\n", h.Address.Short())
		return
	}

	sig, err := p.submitter.SubmitAndConfirm(ctx, instrs, p.signer)
	if err != nil {
		// 单账户失败隔离：报告后继续迭代，状态机不受影响
		result.Failed++
		result.Outcomes = append(result.Outcomes, Outcome{Holding: h, Action: ActionFail, Err: err})
		fmt.Fprintf(p.out, "❌ %s 提交失败: %v\n", h.Address.Short(), err)
		p.Errorf("[InteractiveProcessor] 提交失败: account=%s, err=%v", h.Address, err)
		return
	}

	result.Submitted++
	result.Closed++
	if action == ActionBurnClose {
		result.Burned++
	}
	result.RecoveredLamports += consts.TokenAccountRentLamports
	result.Outcomes = append(result.Outcomes, Outcome{Holding: h, Action: action, Signature: sig})
	fmt.Fprintf(p.out, "✅ %s 已关闭, sig=%s\n", h.Address.Short(), sig)
}
