package consts

import "token-cleaner-sol/internal/pkg/types"

// Base58 地址常量（可读性高，适合配置与日志使用）
const (
	SystemProgramStr      = "11111111111111111111111111111111"
	TokenProgramStr       = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	TokenMetaProgramIdStr = "metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s"

	WSOLMintStr = "So11111111111111111111111111111111111111112"
)

var (
	SystemProgram    = types.PubkeyFromBase58(SystemProgramStr)
	TokenProgram     = types.PubkeyFromBase58(TokenProgramStr)
	TokenMetaProgram = types.PubkeyFromBase58(TokenMetaProgramIdStr)

	WSOLMint = types.PubkeyFromBase58(WSOLMintStr)
)
