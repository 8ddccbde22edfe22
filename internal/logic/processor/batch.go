package processor

import (
	"context"

	"token-cleaner-sol/internal/consts"
	"token-cleaner-sol/internal/logic/domain"
	"token-cleaner-sol/internal/logic/txbuilder"

	sdktypes "github.com/blocto/solana-go-sdk/types"
	"github.com/zeromicro/go-zero/core/logx"
)

// BatchProcessor 批量处理器：分批打包提交，单批失败不影响后续批次。
type BatchProcessor struct {
	submitter Submitter
	signer    sdktypes.Account
	burn      bool // 非零余额先销毁再关闭
	dryRun    bool // 只构建不提交
	maxPerTx  int
	logx.Logger
}

func NewBatchProcessor(submitter Submitter, signer sdktypes.Account, burn, dryRun bool, maxPerTx int) *BatchProcessor {
	if maxPerTx <= 0 {
		maxPerTx = txbuilder.DefaultMaxPerTx
	}
	return &BatchProcessor{
		submitter: submitter,
		signer:    signer,
		burn:      burn,
		dryRun:    dryRun,
		maxPerTx:  maxPerTx,
		Logger:    logx.WithContext(context.Background()).WithFields(logx.Field("service", "batch_processor")),
	}
}

// Run 顺序处理全部分批。每批一笔交易，指令按账户顺序拼接；
// 某批提交失败只记录该批结果，继续处理后续批次，不做重试。
func (p *BatchProcessor) Run(ctx context.Context, holdings []domain.Holding) Result {
	var result Result
	authority := p.signer.PublicKey

	chunks := txbuilder.Partition(holdings, p.maxPerTx)
	p.Infof("[BatchProcessor] 开始处理: holdings=%d, chunks=%d, burn=%v, dryRun=%v",
		len(holdings), len(chunks), p.burn, p.dryRun)

	for i, chunk := range chunks {
		var instrs []sdktypes.Instruction
		var buildable []domain.Holding
		for _, h := range chunk {
			his := txbuilder.HoldingInstructions(h, authority, p.burn)
			if his == nil {
				// 非零余额且未开启销毁：选择层通常已过滤，这里兜底跳过
				result.Outcomes = append(result.Outcomes, Outcome{Holding: h, Action: ActionSkip})
				continue
			}
			instrs = append(instrs, his...)
			buildable = append(buildable, h)
		}
		if len(buildable) == 0 {
			continue
		}

		if p.dryRun {
			p.accumulateChunk(&result, buildable, "")
			p.Infof("[BatchProcessor] dry-run 跳过提交: chunk=%d/%d, accounts=%d", i+1, len(chunks), len(buildable))
			continue
		}

		sig, err := p.submitter.SubmitAndConfirm(ctx, instrs, p.signer)
		if err != nil {
			// 单批失败隔离：记录后继续下一批
			result.Failed++
			for _, h := range buildable {
				result.Outcomes = append(result.Outcomes, Outcome{Holding: h, Action: ActionFail, Err: err})
			}
			p.Errorf("[BatchProcessor] 分批提交失败: chunk=%d/%d, accounts=%d, err=%v", i+1, len(chunks), len(buildable), err)
			continue
		}

		result.Submitted++
		p.accumulateChunk(&result, buildable, sig)
		p.Infof("[BatchProcessor] 分批确认成功: chunk=%d/%d, accounts=%d, sig=%s", i+1, len(chunks), len(buildable), sig)
	}

	p.Infof("[BatchProcessor] 处理完成: closed=%d, burned=%d, submitted=%d, failed=%d, recovered=%d lamports",
		result.Closed, result.Burned, result.Submitted, result.Failed, result.RecoveredLamports)
	return result
}

// accumulateChunk 只有确认成功（或 dry-run 推演）的分批才累计统计。
func (p *BatchProcessor) accumulateChunk(result *Result, chunk []domain.Holding, sig string) {
	for _, h := range chunk {
		action := holdingAction(&h, p.burn)
		if action == ActionBurnClose {
			result.Burned++
		}
		result.Closed++
		result.RecoveredLamports += consts.TokenAccountRentLamports
		result.Outcomes = append(result.Outcomes, Outcome{Holding: h, Action: action, Signature: sig})
	}
}
