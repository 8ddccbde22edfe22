package consts

const (
	// LamportsPerSOL 1 SOL = 1e9 lamports
	LamportsPerSOL uint64 = 1_000_000_000

	// TokenAccountRentLamports 标准 SPL Token 账户（165 字节）的租金豁免额度，
	// 关闭账户时全额退还给 close authority。
	TokenAccountRentLamports uint64 = 2_039_280

	// MintAccountDecimalsOffset Mint 账户数据中 decimals 字段的偏移量
	MintAccountDecimalsOffset = 44
)
