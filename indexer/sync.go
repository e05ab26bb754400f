package indexer

import (
	"fmt"

	"github.com/btcsuite/btcd/wire"
	"github.com/ordview-labs/ordview/common"
	"github.com/ordview-labs/ordview/indexer/db"
)

// SyncToChainTip advances the index to the node's best block. It returns
// early without error once a reorg has been flagged: the index is built
// on a dead branch and must be rebuilt by the operator.
func (b *IndexerMgr) SyncToChainTip(stop chan struct{}) error {
	count, err := b.rpc.GetBlockCount()
	if err != nil {
		return fmt.Errorf("get block count: %v", err)
	}
	tip := int64(count)
	b.chainTip.Store(tip)

	if b.reorgDetected.Load() {
		if !b.reorgLogged {
			common.Log.Error("reorg detected, index must be rebuilt")
			b.reorgLogged = true
		}
		return nil
	}

	syncHeight := b.syncHeight.Load()

	// The stored tip being replaced is a reorg even if no higher block
	// has arrived yet.
	if syncHeight >= 0 && tip >= syncHeight {
		hash, err := b.rpc.GetBlockHash(uint64(syncHeight))
		if err != nil {
			return fmt.Errorf("get block hash %d: %v", syncHeight, err)
		}
		entry, err := b.readBlockEntry(syncHeight)
		if err != nil {
			return err
		}
		if entry.Hash != hash {
			return b.flagReorg(syncHeight, entry.Hash, hash)
		}
	}

	for height := syncHeight + 1; height <= tip; height++ {
		select {
		case <-stop:
			return nil
		default:
		}

		block, hash, err := b.fetchBlock(height)
		if err != nil {
			return err
		}

		if height > 0 {
			prev, err := b.readBlockEntry(height - 1)
			if err != nil {
				return err
			}
			if block.Header.PrevBlock.String() != prev.Hash {
				return b.flagReorg(height-1, prev.Hash, block.Header.PrevBlock.String())
			}
		}

		if err := b.processBlock(block, height, hash); err != nil {
			return fmt.Errorf("process block %d: %v", height, err)
		}
		b.syncHeight.Store(height)
	}
	return nil
}

func (b *IndexerMgr) flagReorg(height int64, indexed, canonical string) error {
	b.reorgDetected.Store(true)
	if err := b.baseDB.Write([]byte(DB_KEY_REORG), []byte{1}); err != nil {
		return err
	}
	return fmt.Errorf("reorg at height %d: indexed %s, canonical %s", height, indexed, canonical)
}

func (b *IndexerMgr) fetchBlock(height int64) (*wire.MsgBlock, string, error) {
	hash, err := b.rpc.GetBlockHash(uint64(height))
	if err != nil {
		return nil, "", fmt.Errorf("get block hash %d: %v", height, err)
	}
	block, err := b.rawBlock(hash)
	if err != nil {
		return nil, "", err
	}
	return block, hash, nil
}

func (b *IndexerMgr) readBlockEntry(height int64) (*blockEntry, error) {
	raw, err := b.baseDB.Read(blockDBKey(height))
	if err != nil {
		return nil, fmt.Errorf("read block %d: %v", height, err)
	}
	entry := &blockEntry{}
	if err := decodeGob(raw, entry); err != nil {
		return nil, fmt.Errorf("decode block %d: %v", height, err)
	}
	return entry, nil
}

// processBlock applies one block to the index inside a single write
// batch: readers observe either all of it or none of it. The block is
// indexed against a snapshot of the pre-block state.
func (b *IndexerMgr) processBlock(block *wire.MsgBlock, height int64, hash string) error {
	wb := b.baseDB.NewWriteBatch()
	defer wb.Close()

	err := b.baseDB.View(func(view db.ReadBatch) error {
		entry := &blockEntry{
			Hash:      hash,
			PrevHash:  block.Header.PrevBlock.String(),
			Timestamp: block.Header.Timestamp.Unix(),
			TxCount:   len(block.Transactions),
		}
		raw, err := encodeGob(entry)
		if err != nil {
			return err
		}
		if err := wb.Put(blockDBKey(height), raw); err != nil {
			return err
		}
		if err := wb.Put(blockHashDBKey(hash), uint64ToBytes(uint64(height))); err != nil {
			return err
		}

		var revealSats map[string]common.Sat
		if b.enableSatIndex {
			revealSats, err = b.indexSatRanges(view, wb, block, height)
			if err != nil {
				return err
			}
		}

		if err := b.indexInscriptions(view, wb, block, height, revealSats); err != nil {
			return err
		}

		return wb.Put([]byte(DB_KEY_SYNC_HEIGHT), uint64ToBytes(uint64(height)))
	})
	if err != nil {
		return err
	}
	return wb.Flush()
}
