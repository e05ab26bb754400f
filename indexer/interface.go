package indexer

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/ordview-labs/ordview/common"
	"github.com/ordview-labs/ordview/indexer/db"
)

// The base_indexer.Indexer implementation. Readers go through leveldb
// snapshots or atomics, so none of these methods take locks.

func (b *IndexerMgr) GetChainParam() *chaincfg.Params {
	return b.chaincfgParam
}

func (b *IndexerMgr) GetSyncHeight() int64 {
	return b.syncHeight.Load()
}

func (b *IndexerMgr) GetChainTip() int64 {
	return b.chainTip.Load()
}

// GetBlockCount is the number of indexed blocks, one past the sync height.
func (b *IndexerMgr) GetBlockCount() int64 {
	return b.syncHeight.Load() + 1
}

func (b *IndexerMgr) IsReorgDetected() bool {
	return b.reorgDetected.Load()
}

func (b *IndexerMgr) HasSatIndex() bool {
	return b.enableSatIndex
}

func (b *IndexerMgr) GetBlockInfo(height int64) (*common.BlockInfo, error) {
	if height < 0 || height > b.syncHeight.Load() {
		return nil, nil
	}
	raw, err := b.baseDB.Read(blockDBKey(height))
	if err == db.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	entry := &blockEntry{}
	if err := decodeGob(raw, entry); err != nil {
		return nil, fmt.Errorf("decode block %d: %v", height, err)
	}
	return &common.BlockInfo{
		Height:    height,
		Hash:      entry.Hash,
		PrevHash:  entry.PrevHash,
		Timestamp: entry.Timestamp,
		TxCount:   entry.TxCount,
	}, nil
}

func (b *IndexerMgr) GetBlockInfoByHash(hash *chainhash.Hash) (*common.BlockInfo, error) {
	height, err := b.blockHeightByHash(hash)
	if err != nil || height < 0 {
		return nil, err
	}
	return b.GetBlockInfo(height)
}

func (b *IndexerMgr) GetBlockByHeight(height int64) (*wire.MsgBlock, error) {
	if height < 0 || height > b.syncHeight.Load() {
		return nil, nil
	}
	entry, err := b.readBlockEntry(height)
	if err != nil {
		return nil, err
	}
	return b.rawBlock(entry.Hash)
}

func (b *IndexerMgr) GetBlockByHash(hash *chainhash.Hash) (*wire.MsgBlock, int64, error) {
	height, err := b.blockHeightByHash(hash)
	if err != nil || height < 0 {
		return nil, -1, err
	}
	block, err := b.rawBlock(hash.String())
	if err != nil {
		return nil, -1, err
	}
	return block, height, nil
}

func (b *IndexerMgr) GetLatestBlocks(n int) ([]*common.BlockInfo, error) {
	height := b.syncHeight.Load()
	blocks := make([]*common.BlockInfo, 0, n)
	for ; height >= 0 && len(blocks) < n; height-- {
		info, err := b.GetBlockInfo(height)
		if err != nil {
			return nil, err
		}
		if info == nil {
			break
		}
		blocks = append(blocks, info)
	}
	return blocks, nil
}

// GetBlockTime reports the timestamp of a block, estimating future
// blocks at ten minutes apart from the last indexed one.
func (b *IndexerMgr) GetBlockTime(height common.Height) (*common.BlockTime, error) {
	syncHeight := b.syncHeight.Load()
	if syncHeight < 0 {
		return nil, nil
	}
	if int64(height) <= syncHeight {
		info, err := b.GetBlockInfo(int64(height))
		if err != nil || info == nil {
			return nil, err
		}
		return &common.BlockTime{Timestamp: info.Timestamp}, nil
	}
	tip, err := b.GetBlockInfo(syncHeight)
	if err != nil || tip == nil {
		return nil, err
	}
	ahead := int64(height) - syncHeight
	return &common.BlockTime{
		Timestamp: tip.Timestamp + ahead*common.TEN_MINUTES_SECS,
		Expected:  true,
	}, nil
}

func (b *IndexerMgr) GetTransaction(txid *chainhash.Hash) (*wire.MsgTx, error) {
	rawHex, err := b.rpc.GetRawTx(txid.String())
	if err != nil {
		if isTxNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get raw tx %s: %v", txid, err)
	}
	raw, err := hex.DecodeString(rawHex)
	if err != nil {
		return nil, fmt.Errorf("decode raw tx %s: %v", txid, err)
	}
	tx := &wire.MsgTx{}
	if err := tx.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("deserialize tx %s: %v", txid, err)
	}
	return tx, nil
}

func (b *IndexerMgr) GetOrdinalsWithOutput(outpoint wire.OutPoint) ([]*common.SatRange, error) {
	if !b.enableSatIndex {
		return nil, nil
	}
	raw, err := b.baseDB.Read(utxoDBKey(outpoint.String()))
	if err == db.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ranges []*common.SatRange
	if err := decodeGob(raw, &ranges); err != nil {
		return nil, fmt.Errorf("decode ranges of %s: %v", outpoint.String(), err)
	}
	return ranges, nil
}

// FindSatPoint locates a tracked sat. Only block-start sats, the ones
// with a rarity above common, are tracked individually.
func (b *IndexerMgr) FindSatPoint(sat common.Sat) (*common.SatPoint, error) {
	if !b.enableSatIndex {
		return nil, nil
	}
	raw, err := b.baseDB.Read(rareSatDBKey(int64(sat)))
	if err == db.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return common.ParseSatPoint(string(raw))
}

func (b *IndexerMgr) GetRareSatPoints() ([]*common.SatSatPoint, error) {
	if !b.enableSatIndex {
		return nil, nil
	}
	var result []*common.SatSatPoint
	err := b.baseDB.BatchRead([]byte(DB_KEY_RARESAT), false, func(k, v []byte) error {
		sat := common.Sat(bytesToUint64(k[len(DB_KEY_RARESAT):]))
		if sat.Rarity() == common.RarityCommon {
			return nil
		}
		satpoint, err := common.ParseSatPoint(string(v))
		if err != nil {
			return err
		}
		result = append(result, &common.SatSatPoint{Sat: sat, SatPoint: *satpoint})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetInscriptionBySat returns the id of the inscription whose genesis
// sat this is, or "" when the sat carries none or is not indexed.
func (b *IndexerMgr) GetInscriptionBySat(sat common.Sat) (string, error) {
	if !b.enableSatIndex {
		return "", nil
	}
	raw, err := b.baseDB.Read(satInscriptionDBKey(int64(sat)))
	if err == db.ErrKeyNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (b *IndexerMgr) GetInscription(id string) (*common.Inscription, *common.SatPoint, error) {
	entry, err := b.readInscriptionEntry(id)
	if err != nil || entry == nil {
		return nil, nil, err
	}
	satpoint, err := common.ParseSatPoint(entry.SatPoint)
	if err != nil {
		return nil, nil, err
	}
	return &common.Inscription{
		ContentType: entry.ContentType,
		Content:     entry.Content,
	}, satpoint, nil
}

// GetInscriptionGenesisHeight returns -1 when the inscription is unknown.
func (b *IndexerMgr) GetInscriptionGenesisHeight(id string) (int64, error) {
	entry, err := b.readInscriptionEntry(id)
	if err != nil || entry == nil {
		return -1, err
	}
	return entry.GenesisHeight, nil
}

func (b *IndexerMgr) GetLatestInscriptions(n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	ids := make([]string, 0, n)
	err := b.baseDB.BatchRead([]byte(DB_KEY_INSLOG), true, func(k, v []byte) error {
		ids = append(ids, string(v))
		if len(ids) >= n {
			return db.ErrIterationDone
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (b *IndexerMgr) blockHeightByHash(hash *chainhash.Hash) (int64, error) {
	raw, err := b.baseDB.Read(blockHashDBKey(hash.String()))
	if err == db.ErrKeyNotFound {
		return -1, nil
	}
	if err != nil {
		return -1, err
	}
	return int64(bytesToUint64(raw)), nil
}

func (b *IndexerMgr) rawBlock(hash string) (*wire.MsgBlock, error) {
	rawHex, err := b.rpc.GetRawBlock(hash)
	if err != nil {
		return nil, fmt.Errorf("get raw block %s: %v", hash, err)
	}
	raw, err := hex.DecodeString(rawHex)
	if err != nil {
		return nil, fmt.Errorf("decode raw block %s: %v", hash, err)
	}
	block := &wire.MsgBlock{}
	if err := block.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("deserialize block %s: %v", hash, err)
	}
	return block, nil
}

func (b *IndexerMgr) readInscriptionEntry(id string) (*inscriptionEntry, error) {
	raw, err := b.baseDB.Read(inscriptionDBKey(id))
	if err == db.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	entry := &inscriptionEntry{}
	if err := decodeGob(raw, entry); err != nil {
		return nil, fmt.Errorf("decode inscription %s: %v", id, err)
	}
	return entry, nil
}

// bitcoind reports a missing transaction as RPC error -5.
func isTxNotFound(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "-5") ||
		strings.Contains(msg, "No such mempool or blockchain transaction")
}
