package indexer

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/ordview-labs/ordview/common"
	"github.com/ordview-labs/ordview/indexer/db"
)

// indexInscriptions records newly revealed inscriptions and moves
// existing ones whose holding output is spent by this block. revealSats
// maps txids to the first sat of their first output and is nil when the
// sat index is disabled.
func (b *IndexerMgr) indexInscriptions(view db.ReadBatch, wb db.WriteBatch, block *wire.MsgBlock, height int64, revealSats map[string]common.Sat) error {
	seq := uint64(0)
	if raw, err := view.Get([]byte(DB_KEY_INSCOUNT)); err == nil {
		seq = bytesToUint64(raw)
	} else if err != db.ErrKeyNotFound {
		return err
	}

	// State written earlier in this block, not yet visible through the
	// database: current locations and the entries behind them.
	pending := make(map[string]string)
	pendingEntries := make(map[string]*inscriptionEntry)

	for i, tx := range block.Transactions {
		txid := tx.TxHash()

		if i > 0 {
			for _, txIn := range tx.TxIn {
				spent := txIn.PreviousOutPoint.String()
				id, ok := pending[spent]
				if ok {
					delete(pending, spent)
				} else {
					raw, err := view.Get(inscriptionLocationDBKey(spent))
					if err == db.ErrKeyNotFound {
						continue
					}
					if err != nil {
						return err
					}
					id = string(raw)
				}
				if err := b.moveInscription(view, wb, id, &txid, spent, pending, pendingEntries); err != nil {
					return err
				}
			}
		}

		inscription := ParseEnvelope(tx)
		if inscription == nil {
			continue
		}
		id := txid.String()
		if _, err := view.Get(inscriptionDBKey(id)); err == nil {
			continue
		} else if err != db.ErrKeyNotFound {
			return err
		}

		outpoint := wire.NewOutPoint(&txid, 0)
		entry := &inscriptionEntry{
			ContentType:   inscription.ContentType,
			Content:       inscription.Content,
			GenesisHeight: height,
			SatPoint:      common.SatPoint{OutPoint: *outpoint}.String(),
		}
		raw, err := encodeGob(entry)
		if err != nil {
			return err
		}
		if err := wb.Put(inscriptionDBKey(id), raw); err != nil {
			return err
		}
		if err := wb.Put(inscriptionLocationDBKey(outpoint.String()), []byte(id)); err != nil {
			return err
		}
		pending[outpoint.String()] = id
		pendingEntries[id] = entry

		if sat, ok := revealSats[id]; ok {
			if err := wb.Put(satInscriptionDBKey(int64(sat)), []byte(id)); err != nil {
				return err
			}
		}

		if err := wb.Put(inscriptionLogDBKey(seq), []byte(id)); err != nil {
			return err
		}
		seq++
		if err := wb.Put([]byte(DB_KEY_INSCOUNT), uint64ToBytes(seq)); err != nil {
			return err
		}
	}
	return nil
}

// moveInscription reassigns an inscription to the first output of the
// transaction spending its holding output.
func (b *IndexerMgr) moveInscription(view db.ReadBatch, wb db.WriteBatch, id string, spender *chainhash.Hash, oldLocation string, pending map[string]string, pendingEntries map[string]*inscriptionEntry) error {
	entry, ok := pendingEntries[id]
	if !ok {
		raw, err := view.Get(inscriptionDBKey(id))
		if err != nil {
			return err
		}
		entry = &inscriptionEntry{}
		if err := decodeGob(raw, entry); err != nil {
			return err
		}
		pendingEntries[id] = entry
	}

	outpoint := wire.NewOutPoint(spender, 0)
	entry.SatPoint = common.SatPoint{OutPoint: *outpoint}.String()
	raw, err := encodeGob(entry)
	if err != nil {
		return err
	}
	if err := wb.Put(inscriptionDBKey(id), raw); err != nil {
		return err
	}
	if err := wb.Delete(inscriptionLocationDBKey(oldLocation)); err != nil {
		return err
	}
	if err := wb.Put(inscriptionLocationDBKey(outpoint.String()), []byte(id)); err != nil {
		return err
	}
	pending[outpoint.String()] = id
	return nil
}
