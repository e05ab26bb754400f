package base_indexer

import (
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/ordview-labs/ordview/common"
)

// Indexer is the read-only facade the serving layer depends on. A single
// background writer advances the index while arbitrarily many handlers
// read through this interface; implementations own their read/write
// consistency, callers take no locks and never assume two calls observe
// the same height.
//
// Absent entities are (nil, nil); a non-nil error always means the lookup
// itself failed.
type Indexer interface {
	GetChainParam() *chaincfg.Params

	// Sync state.
	GetSyncHeight() int64
	GetChainTip() int64
	GetBlockCount() int64
	IsReorgDetected() bool
	HasSatIndex() bool

	// Blocks.
	GetBlockInfo(height int64) (*common.BlockInfo, error)
	GetBlockInfoByHash(hash *chainhash.Hash) (*common.BlockInfo, error)
	GetBlockByHeight(height int64) (*wire.MsgBlock, error)
	GetBlockByHash(hash *chainhash.Hash) (*wire.MsgBlock, int64, error)
	GetLatestBlocks(n int) ([]*common.BlockInfo, error)
	GetBlockTime(height common.Height) (*common.BlockTime, error)

	// Transactions and outputs.
	GetTransaction(txid *chainhash.Hash) (*wire.MsgTx, error)
	// GetOrdinalsWithOutput returns the sat ranges covering an output,
	// or (nil, nil) when the sat index is disabled or the output is not
	// tracked.
	GetOrdinalsWithOutput(outpoint wire.OutPoint) ([]*common.SatRange, error)

	// Sats.
	FindSatPoint(sat common.Sat) (*common.SatPoint, error)
	GetRareSatPoints() ([]*common.SatSatPoint, error)

	// Inscriptions.
	GetInscription(id string) (*common.Inscription, *common.SatPoint, error)
	// GetInscriptionBySat returns the id of the inscription revealed on
	// the sat, or "" when it carries none or the sat index is disabled.
	GetInscriptionBySat(sat common.Sat) (string, error)
	GetInscriptionGenesisHeight(id string) (int64, error)
	GetLatestInscriptions(n int) ([]string, error)
}

var ShareBaseIndexer Indexer

func InitBaseIndexer(indexer Indexer) {
	ShareBaseIndexer = indexer
}
