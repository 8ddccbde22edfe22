package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"token-cleaner-sol/internal/config"
	"token-cleaner-sol/internal/logic/domain"
	"token-cleaner-sol/internal/logic/processor"
	"token-cleaner-sol/internal/logic/scanner"
	"token-cleaner-sol/internal/logic/txbuilder"
	"token-cleaner-sol/internal/logic/wallet"
	"token-cleaner-sol/internal/pkg/configloader"
	"token-cleaner-sol/internal/pkg/logger"
	"token-cleaner-sol/internal/pkg/types"
	"token-cleaner-sol/internal/svc"
	"token-cleaner-sol/internal/tools"

	"github.com/zeromicro/go-zero/core/logx"
)

var (
	configFile  = flag.String("f", "etc/cleaner.yaml", "the config file")
	ownerStr    = flag.String("owner", "", "钱包地址（base58）")
	keypairPath = flag.String("keypair", "", "签名密钥文件路径（JSON 数组或 base58）")
	yes         = flag.Bool("yes", false, "批量模式下跳过确认提示")
	interactive = flag.Bool("interactive", false, "逐账户交互确认")
	dryRun      = flag.Bool("dry-run", false, "只推演不提交任何交易")
	burn        = flag.Bool("burn", false, "关闭前先销毁非零余额（不可逆）")
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("panic: %+v\nstack: %s", r, debug.Stack())
			os.Exit(1)
		}
	}()
	defer logger.Sync()

	flag.Parse()

	var c config.CleanerConfig
	if err := configloader.LoadConfig(*configFile, &c); err != nil {
		logger.Fatalf("配置加载失败: %v", err)
	}
	logger.InitLogger(c.LogConf.ToLogOption())
	logx.SetWriter(logger.ZapWriter{})

	owner, err := types.TryPubkeyFromBase58(*ownerStr)
	if err != nil {
		logger.Fatalf("钱包地址无效: %v", err)
	}

	// 身份闸门：密钥加载 + 身份校验必须先于任何扫描/构建/提交
	signer, err := wallet.LoadKeypair(*keypairPath)
	if err != nil {
		logger.Fatalf("密钥加载失败: %v", err)
	}
	if err := wallet.VerifyIdentity(signer, owner); err != nil {
		logger.Fatalf("身份校验失败: %v", err)
	}

	serviceContext := svc.NewServiceContext(c)
	defer serviceContext.Close()

	s := scanner.NewScanner(serviceContext.Ledger, serviceContext.Metadata)
	holdings, err := s.Scan(context.Background(), owner)
	if err != nil {
		logger.Fatalf("扫描失败: %v", err)
	}

	selected := selectTargets(holdings, *burn)
	if len(selected) == 0 {
		fmt.Println("✅ 没有可清理的账户")
		return
	}
	printPlan(selected, c.MaxPerTx, *burn, *dryRun)

	// 批量模式一次性确认；交互模式与 dry-run 无需总确认
	if !*interactive && !*dryRun && !*yes {
		if !confirm() {
			fmt.Println("已取消")
			return
		}
	}

	var result processor.Result
	if *interactive {
		p := processor.NewInteractiveProcessor(serviceContext.Ledger, signer, *burn, *dryRun, os.Stdin, os.Stdout)
		result = p.Run(context.Background(), selected)
	} else {
		p := processor.NewBatchProcessor(serviceContext.Ledger, signer, *burn, *dryRun, c.MaxPerTx)
		result = p.Run(context.Background(), selected)
	}

	printResult(result, *dryRun)

	if serviceContext.Reporter != nil {
		serviceContext.Reporter.SendRunReport(context.Background(), owner.String(), owner[:], *dryRun, result.Outcomes)
	}
}

// selectTargets 选出本次要处理的账户：可关闭账户始终入选；
// 开启销毁时高风险的非零余额账户也入选（销毁后关闭）。
// 零余额但命名可疑的账户评级为 HIGH，但关闭空账户无害，照常入选。
func selectTargets(holdings []domain.Holding, burn bool) []domain.Holding {
	selected := make([]domain.Holding, 0, len(holdings))
	for _, h := range holdings {
		if h.Closeable() {
			selected = append(selected, h)
			continue
		}
		if burn && h.Risk == domain.RiskHigh {
			selected = append(selected, h)
		}
	}
	return selected
}

func printPlan(selected []domain.Holding, maxPerTx int, burn, dryRun bool) {
	chunks := txbuilder.Partition(selected, maxPerTx)
	burnCount := 0
	for _, h := range selected {
		if h.RawBalance > 0 {
			burnCount++
		}
	}

	mode := "live"
	if dryRun {
		mode = "dry-run"
	}
	fmt.Printf("计划处理 %d 个账户（分 %d 批, 模式=%s）\n", len(selected), len(chunks), mode)
	if burn {
		fmt.Printf("⚠️ 其中 %d 个账户将先销毁余额再关闭（不可逆）\n", burnCount)
	}
}

func confirm() bool {
	fmt.Print("确认继续? [y/N]: ")
	reader := bufio.NewScanner(os.Stdin)
	if !reader.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(reader.Text()))
	return answer == "y" || answer == "yes"
}

func printResult(result processor.Result, dryRun bool) {
	if dryRun {
		fmt.Printf("\ndry-run 完成: 将关闭 %d 个账户, 销毁 %d 个余额, 可回收 %.6f SOL（未提交任何交易）\n",
			result.Closed, result.Burned, tools.LamportsToSOL(result.RecoveredLamports))
		return
	}
	fmt.Printf("\n清理完成: 关闭 %d 个账户, 销毁 %d 个余额, 提交 %d 笔交易（失败 %d 笔）, 回收 %.6f SOL\n",
		result.Closed, result.Burned, result.Submitted, result.Failed,
		tools.LamportsToSOL(result.RecoveredLamports))
}
