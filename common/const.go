package common

const (
	ChainMainnet = "mainnet"
	ChainTestnet = "testnet"
	ChainRegtest = "regtest"
	ChainSignet  = "signet"
)

const (
	// Total number of sats that will ever exist.
	SupplySats = 2099999997690000

	// LastSat is the final sat that will ever be mined.
	LastSat = Sat(SupplySats - 1)

	COIN_VALUE = 100_000_000

	SUBSIDY_HALVING_INTERVAL = 210000
	DIFFCHANGE_INTERVAL      = 2016
	CYCLE_EPOCHS             = 6
	CYCLE_INTERVAL           = CYCLE_EPOCHS * SUBSIDY_HALVING_INTERVAL

	// First epoch with no block subsidy.
	FIRST_POST_SUBSIDY_EPOCH = 33

	TEN_MINUTES_SECS = 600
)
