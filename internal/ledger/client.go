package ledger

import (
	"context"
	"fmt"
	"time"

	"token-cleaner-sol/internal/config"
	"token-cleaner-sol/internal/consts"
	"token-cleaner-sol/internal/logic/scanner"
	"token-cleaner-sol/internal/pkg/logger"
	"token-cleaner-sol/internal/pkg/types"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/rpc"
	sdktypes "github.com/blocto/solana-go-sdk/types"
)

const decimalsBatchSize = 100

// Client 封装 Solana RPC：枚举 Token 账户（补齐 decimals）、提交交易并轮询确认。
// 所有调用严格串行，提交从不并发。
type Client struct {
	rpc            *client.Client
	rpcTimeout     time.Duration
	confirmPoll    time.Duration
	confirmTimeout time.Duration
}

func NewClient(rpcConf config.RpcConfig, timeConf config.TimeConfig) *Client {
	rpcTimeout := time.Duration(timeConf.RpcTimeoutSec) * time.Second
	if rpcTimeout <= 0 {
		rpcTimeout = 15 * time.Second
	}
	confirmPoll := time.Duration(timeConf.ConfirmPollMs) * time.Millisecond
	if confirmPoll <= 0 {
		confirmPoll = time.Second
	}
	confirmTimeout := time.Duration(timeConf.ConfirmTimeoutSec) * time.Second
	if confirmTimeout <= 0 {
		confirmTimeout = 60 * time.Second
	}
	return &Client{
		rpc:            client.NewClient(rpcConf.Url()),
		rpcTimeout:     rpcTimeout,
		confirmPoll:    confirmPoll,
		confirmTimeout: confirmTimeout,
	}
}

// Raw 暴露底层 RPC 客户端给其他只读组件（如元数据解析）复用连接。
func (c *Client) Raw() *client.Client {
	return c.rpc
}

// ListTokenAccounts 列出 owner 名下经典 Token 程序的全部账户，并批量补齐 decimals。
// 任一 RPC 查询失败都直接返回错误，由调用方决定终止。
func (c *Client) ListTokenAccounts(ctx context.Context, owner types.Pubkey) ([]scanner.RawAccount, error) {
	queryCtx, cancel := context.WithTimeout(ctx, c.rpcTimeout)
	defer cancel()

	accounts, err := c.rpc.GetTokenAccountsByOwnerByProgram(queryCtx, owner.String(), consts.TokenProgramStr)
	if err != nil {
		return nil, fmt.Errorf("GetTokenAccountsByOwnerByProgram failed: %w", err)
	}

	raws := make([]scanner.RawAccount, 0, len(accounts))
	mints := make([]types.Pubkey, 0, len(accounts))
	seen := make(map[types.Pubkey]struct{}, len(accounts))
	for _, acc := range accounts {
		var addr, mint types.Pubkey
		copy(addr[:], acc.PublicKey.Bytes())
		copy(mint[:], acc.Mint.Bytes())
		raws = append(raws, scanner.RawAccount{
			Address: addr,
			Mint:    mint,
			Amount:  acc.Amount,
		})
		if _, ok := seen[mint]; !ok {
			seen[mint] = struct{}{}
			mints = append(mints, mint)
		}
	}

	decimalsByMint, err := c.queryDecimals(ctx, mints)
	if err != nil {
		return nil, err
	}
	for i := range raws {
		raws[i].Decimals = decimalsByMint[raws[i].Mint]
	}
	return raws, nil
}

// queryDecimals 批量读取 mint 账户，decimals 位于账户数据固定偏移处。
func (c *Client) queryDecimals(ctx context.Context, mints []types.Pubkey) (map[types.Pubkey]uint8, error) {
	result := make(map[types.Pubkey]uint8, len(mints))

	for start := 0; start < len(mints); start += decimalsBatchSize {
		end := start + decimalsBatchSize
		if end > len(mints) {
			end = len(mints)
		}
		batch := mints[start:end]

		addrs := make([]string, 0, len(batch))
		for _, m := range batch {
			addrs = append(addrs, m.String())
		}

		queryCtx, cancel := context.WithTimeout(ctx, c.rpcTimeout)
		infos, err := c.rpc.GetMultipleAccounts(queryCtx, addrs)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("GetMultipleAccounts for mint decimals failed: %w", err)
		}

		for i, info := range infos {
			if len(info.Data) <= consts.MintAccountDecimalsOffset {
				logger.Warnf("[Ledger] mint 账户数据异常, decimals 按 0 处理: mint=%s, dataLen=%d", batch[i], len(info.Data))
				continue
			}
			result[batch[i]] = info.Data[consts.MintAccountDecimalsOffset]
		}
	}
	return result, nil
}

// SubmitAndConfirm 组装、签名、发送一笔交易并轮询至确认。
// 一旦发出就等待确定的成功/失败，不设外层取消，不重试；
// 确认等待超过配置上限视为该笔交易失败。
func (c *Client) SubmitAndConfirm(ctx context.Context, instrs []sdktypes.Instruction, signer sdktypes.Account) (string, error) {
	sendCtx, cancel := context.WithTimeout(ctx, c.rpcTimeout)
	defer cancel()

	bh, err := c.rpc.GetLatestBlockhash(sendCtx)
	if err != nil {
		return "", fmt.Errorf("GetLatestBlockhash failed: %w", err)
	}

	tx, err := sdktypes.NewTransaction(sdktypes.NewTransactionParam{
		Message: sdktypes.NewMessage(sdktypes.NewMessageParam{
			FeePayer:        signer.PublicKey,
			RecentBlockhash: bh.Blockhash,
			Instructions:    instrs,
		}),
		Signers: []sdktypes.Account{signer},
	})
	if err != nil {
		return "", fmt.Errorf("build transaction failed: %w", err)
	}

	sig, err := c.rpc.SendTransaction(sendCtx, tx)
	if err != nil {
		return "", fmt.Errorf("SendTransaction failed: %w", err)
	}
	logger.Infof("[Ledger] 交易已发送, 等待确认: sig=%s, instrs=%d", sig, len(instrs))

	return sig, c.waitConfirm(ctx, sig)
}

func (c *Client) waitConfirm(ctx context.Context, sig string) error {
	deadline := time.Now().Add(c.confirmTimeout)
	ticker := time.NewTicker(c.confirmPoll)
	defer ticker.Stop()

	for {
		pollCtx, cancel := context.WithTimeout(ctx, c.rpcTimeout)
		status, err := c.rpc.GetSignatureStatus(pollCtx, sig)
		cancel()
		if err != nil {
			logger.Warnf("[Ledger] 查询交易状态失败, 继续轮询: sig=%s, err=%v", sig, err)
		} else if status != nil {
			if status.Err != nil {
				return fmt.Errorf("transaction failed on chain: sig=%s, err=%v", sig, status.Err)
			}
			if status.ConfirmationStatus != nil &&
				(*status.ConfirmationStatus == rpc.CommitmentConfirmed || *status.ConfirmationStatus == rpc.CommitmentFinalized) {
				logger.Infof("[Ledger] 交易已确认: sig=%s, slot=%d", sig, status.Slot)
				return nil
			}
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("confirmation timeout after %v: sig=%s", c.confirmTimeout, sig)
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("confirmation wait cancelled: sig=%s, %w", sig, ctx.Err())
		case <-ticker.C:
		}
	}
}
