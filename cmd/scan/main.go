package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime/debug"

	"token-cleaner-sol/internal/config"
	"token-cleaner-sol/internal/consts"
	"token-cleaner-sol/internal/logic/domain"
	"token-cleaner-sol/internal/logic/scanner"
	"token-cleaner-sol/internal/pkg/configloader"
	"token-cleaner-sol/internal/pkg/logger"
	"token-cleaner-sol/internal/pkg/types"
	"token-cleaner-sol/internal/svc"
	"token-cleaner-sol/internal/tools"

	"github.com/zeromicro/go-zero/core/logx"
)

var (
	configFile = flag.String("f", "etc/cleaner.yaml", "the config file")
	ownerStr   = flag.String("owner", "", "钱包地址（base58）")
	showAll    = flag.Bool("all", false, "展示全部账户（默认只展示高/中风险与可关闭账户）")
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

	serviceContext := svc.NewServiceContext(c)
	defer serviceContext.Close()

	s := scanner.NewScanner(serviceContext.Ledger, serviceContext.Metadata)
	holdings, err := s.Scan(context.Background(), owner)
	if err != nil {
		logger.Fatalf("扫描失败: %v", err)
	}

	printHoldings(holdings, *showAll)
	printSummary(holdings)
}

func printHoldings(holdings []domain.Holding, showAll bool) {
	shown := 0
	fmt.Printf("%-8s %-12s %-20s %-14s %s\n", "风险", "代币", "余额", "账户", "评级依据")
	for _, h := range holdings {
		if !showAll && h.Risk != domain.RiskHigh && h.Risk != domain.RiskMedium && !h.Closeable() {
			continue
		}
		marker := "  "
		switch {
		case h.Risk == domain.RiskHigh:
			marker = "⚠️"
		case h.Closeable():
			marker = "✅"
		}
		fmt.Printf("%s %-6s %-12s %-20s %-14s %s\n",
			marker, h.Risk, h.DisplayName(),
			tools.FormatAmount(h.RawBalance, h.Decimals),
			h.Address.Short(), h.RiskReason)
		shown++
	}
	if shown == 0 {
		fmt.Println("（无符合条件的账户，使用 -all 查看全部）")
	}
}

func printSummary(holdings []domain.Holding) {
	counts := make(map[domain.RiskLevel]int)
	closeable := 0
	for _, h := range holdings {
		counts[h.Risk]++
		if h.Closeable() {
			closeable++
		}
	}
	recoverable := uint64(closeable) * consts.TokenAccountRentLamports

	fmt.Printf("\n共 %d 个 Token 账户: HIGH=%d MEDIUM=%d LOW=%d UNKNOWN=%d\n",
		len(holdings), counts[domain.RiskHigh], counts[domain.RiskMedium],
		counts[domain.RiskLow], counts[domain.RiskUnknown])
	fmt.Printf("可关闭账户 %d 个, 预计可回收租金 %.6f SOL\n",
		closeable, tools.LamportsToSOL(recoverable))
}
