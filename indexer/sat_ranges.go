package indexer

import (
	"github.com/btcsuite/btcd/wire"
	"github.com/ordview-labs/ordview/common"
	"github.com/ordview-labs/ordview/indexer/db"
)

// indexSatRanges runs the ordinal transfer algorithm for one block:
// spent inputs surrender their ranges, outputs consume them in order,
// the remainder becomes fees and is paid to the coinbase after the
// block subsidy. It returns the first sat of every transaction's first
// output, the position new inscriptions are bound to.
func (b *IndexerMgr) indexSatRanges(view db.ReadBatch, wb db.WriteBatch, block *wire.MsgBlock, height int64) (map[string]common.Sat, error) {
	h := common.Height(height)
	subsidy := h.Subsidy()
	rewardRanges := make([]*common.SatRange, 0, 8)
	if subsidy > 0 {
		first := h.StartingSat()
		rewardRanges = append(rewardRanges, &common.SatRange{Start: first, End: first + common.Sat(subsidy)})
	}

	// Outputs created and spent within the same block are not yet
	// visible in the database, so the block keeps its own view.
	pending := make(map[string][]*common.SatRange)
	firstSats := make(map[string]common.Sat)

	var feeRanges []*common.SatRange
	for _, tx := range block.Transactions[1:] {
		var inputRanges []*common.SatRange
		for _, txIn := range tx.TxIn {
			outpoint := txIn.PreviousOutPoint.String()
			key := utxoDBKey(outpoint)
			if ranges, ok := pending[outpoint]; ok {
				inputRanges = append(inputRanges, ranges...)
				delete(pending, outpoint)
				if err := wb.Delete(key); err != nil {
					return nil, err
				}
				continue
			}
			raw, err := view.Get(key)
			if err == db.ErrKeyNotFound {
				continue
			}
			if err != nil {
				return nil, err
			}
			var ranges []*common.SatRange
			if err := decodeGob(raw, &ranges); err != nil {
				return nil, err
			}
			inputRanges = append(inputRanges, ranges...)
			if err := wb.Delete(key); err != nil {
				return nil, err
			}
		}
		rest, err := b.allocateRanges(wb, tx, inputRanges, pending)
		if err != nil {
			return nil, err
		}
		recordFirstSat(firstSats, tx, pending)
		feeRanges = append(feeRanges, rest...)
	}

	rewardRanges = append(rewardRanges, feeRanges...)
	lost, err := b.allocateRanges(wb, block.Transactions[0], rewardRanges, pending)
	if err != nil {
		return nil, err
	}
	recordFirstSat(firstSats, block.Transactions[0], pending)
	if len(lost) > 0 {
		// Underpaying coinbases burn sats; they stop being tracked.
		common.Log.Debugf("block %d: %d sat ranges lost to an underpaying coinbase", height, len(lost))
		for _, r := range lost {
			if err := b.forgetRareSats(wb, r); err != nil {
				return nil, err
			}
		}
	}
	return firstSats, nil
}

// recordFirstSat notes the first sat assigned to a transaction's first
// output. Reads pending right after allocation, before a later
// transaction in the block can spend the output away.
func recordFirstSat(firstSats map[string]common.Sat, tx *wire.MsgTx, pending map[string][]*common.SatRange) {
	txid := tx.TxHash()
	outpoint := wire.OutPoint{Hash: txid, Index: 0}
	if ranges, ok := pending[outpoint.String()]; ok && len(ranges) > 0 {
		firstSats[txid.String()] = ranges[0].Start
	}
}

// allocateRanges assigns input sat ranges to a transaction's outputs in
// order and returns whatever is left over.
func (b *IndexerMgr) allocateRanges(wb db.WriteBatch, tx *wire.MsgTx, ranges []*common.SatRange, pending map[string][]*common.SatRange) ([]*common.SatRange, error) {
	txid := tx.TxHash()
	for vout, txOut := range tx.TxOut {
		outpoint := wire.NewOutPoint(&txid, uint32(vout))
		remaining := txOut.Value
		offset := int64(0)
		var assigned []*common.SatRange
		for remaining > 0 && len(ranges) > 0 {
			r := ranges[0]
			take := r.Size()
			if take > remaining {
				take = remaining
			}
			part := &common.SatRange{Start: r.Start, End: r.Start + common.Sat(take)}
			assigned = append(assigned, part)
			if err := b.trackRareSats(wb, part, outpoint, offset); err != nil {
				return nil, err
			}
			offset += take
			remaining -= take
			if take == r.Size() {
				ranges = ranges[1:]
			} else {
				r.Start += common.Sat(take)
			}
		}
		if len(assigned) == 0 {
			continue
		}
		raw, err := encodeGob(assigned)
		if err != nil {
			return nil, err
		}
		if err := wb.Put(utxoDBKey(outpoint.String()), raw); err != nil {
			return nil, err
		}
		pending[outpoint.String()] = assigned
	}
	return ranges, nil
}

// trackRareSats records the new location of every block-start sat
// contained in an assigned range.
func (b *IndexerMgr) trackRareSats(wb db.WriteBatch, r *common.SatRange, outpoint *wire.OutPoint, baseOffset int64) error {
	h := r.Start.Height()
	start := h.StartingSat()
	if start < r.Start {
		h++
		start = h.StartingSat()
	}
	for start < r.End {
		satpoint := common.SatPoint{
			OutPoint: *outpoint,
			Offset:   baseOffset + int64(start-r.Start),
		}
		if err := wb.Put(rareSatDBKey(int64(start)), []byte(satpoint.String())); err != nil {
			return err
		}
		h++
		start = h.StartingSat()
	}
	return nil
}

// forgetRareSats drops the location entries of block-start sats burned
// with a lost range, so they no longer point at a spent output.
func (b *IndexerMgr) forgetRareSats(wb db.WriteBatch, r *common.SatRange) error {
	h := r.Start.Height()
	start := h.StartingSat()
	if start < r.Start {
		h++
		start = h.StartingSat()
	}
	for start < r.End {
		if err := wb.Delete(rareSatDBKey(int64(start))); err != nil {
			return err
		}
		h++
		start = h.StartingSat()
	}
	return nil
}
