package ordinals

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/ordview-labs/ordview/common"
	"github.com/ordview-labs/ordview/share/base_indexer"
)

const (
	homeBlockCount       = 100
	homeInscriptionCount = 8
	latestInscriptions   = 100
)

type Model struct {
	indexer base_indexer.Indexer
}

func NewModel(i base_indexer.Indexer) *Model {
	return &Model{
		indexer: i,
	}
}

func (m *Model) getHome() (*HomeResp, *ServerError) {
	blocks, err := m.indexer.GetLatestBlocks(homeBlockCount)
	if err != nil {
		return nil, errInternal(err, "error getting blocks")
	}
	inscriptions, err := m.indexer.GetLatestInscriptions(homeInscriptionCount)
	if err != nil {
		return nil, errInternal(err, "error getting inscriptions")
	}
	return &HomeResp{
		Blocks:       blocks,
		Inscriptions: inscriptions,
	}, nil
}

func (m *Model) getBlock(query *common.BlockQuery) (*BlockResp, *ServerError) {
	var block *wire.MsgBlock
	var height int64
	if query.Hash != nil {
		var err error
		block, height, err = m.indexer.GetBlockByHash(query.Hash)
		if err != nil {
			return nil, errInternal(err, "error serving request for block with hash %s", query.Hash)
		}
		if block == nil {
			return nil, errNotFound("block %s unknown", query.Hash)
		}
	} else {
		height = int64(query.Height)
		var err error
		block, err = m.indexer.GetBlockByHeight(height)
		if err != nil {
			return nil, errInternal(err, "error serving request for block with height %d", height)
		}
		if block == nil {
			return nil, errNotFound("block at height %d unknown", height)
		}
	}

	txids := make([]string, 0, len(block.Transactions))
	for _, tx := range block.Transactions {
		txids = append(txids, tx.TxHash().String())
	}
	return &BlockResp{
		Height:     height,
		Hash:       block.BlockHash().String(),
		PrevHash:   block.Header.PrevBlock.String(),
		Timestamp:  block.Header.Timestamp.Unix(),
		BestHeight: m.indexer.GetSyncHeight(),
		Txids:      txids,
	}, nil
}

func (m *Model) getTransaction(txid *chainhash.Hash) (*TxResp, *ServerError) {
	tx, err := m.indexer.GetTransaction(txid)
	if err != nil {
		return nil, errInternal(err, "error serving request for transaction %s", txid)
	}
	if tx == nil {
		return nil, errNotFound("transaction %s unknown", txid)
	}

	resp := &TxResp{Txid: txid.String()}
	for _, txIn := range tx.TxIn {
		resp.Inputs = append(resp.Inputs, &TxInResp{
			PrevOutPoint: txIn.PreviousOutPoint.String(),
			ScriptSig:    hex.EncodeToString(txIn.SignatureScript),
			Sequence:     txIn.Sequence,
		})
	}
	for _, txOut := range tx.TxOut {
		resp.Outputs = append(resp.Outputs, m.txOutResp(txOut))
	}

	if inscription, _, err := m.indexer.GetInscription(txid.String()); err == nil && inscription != nil {
		resp.InscriptionId = txid.String()
	} else if err != nil {
		return nil, errInternal(err, "failed to retrieve inscription from txid %s", txid)
	}
	return resp, nil
}

func (m *Model) getOutput(outpoint *wire.OutPoint) (*OutputResp, *ServerError) {
	tx, err := m.indexer.GetTransaction(&outpoint.Hash)
	if err != nil {
		return nil, errInternal(err, "error serving request for output %s", outpoint)
	}
	if tx == nil || int(outpoint.Index) >= len(tx.TxOut) {
		return nil, errNotFound("output %s unknown", outpoint)
	}
	txOut := tx.TxOut[outpoint.Index]

	out := m.txOutResp(txOut)
	resp := &OutputResp{
		OutPoint: outpoint.String(),
		Value:    out.Value,
		PkScript: out.PkScript,
		Address:  out.Address,
	}

	if m.indexer.HasSatIndex() {
		ranges, err := m.indexer.GetOrdinalsWithOutput(*outpoint)
		if err != nil {
			return nil, errInternal(err, "error listing output %s", outpoint)
		}
		if ranges == nil {
			return nil, errNotFound("output %s unknown", outpoint)
		}
		for _, r := range ranges {
			resp.SatRanges = append(resp.SatRanges, r.String())
		}
	}
	return resp, nil
}

func (m *Model) getSat(sat common.Sat) (*SatResp, *ServerError) {
	resp := m.satResp(sat)

	blocktime, err := m.indexer.GetBlockTime(sat.Height())
	if err != nil {
		return nil, errInternal(err, "failed to retrieve blocktime")
	}
	if blocktime != nil {
		resp.Timestamp = blocktime.Timestamp
		resp.Expected = blocktime.Expected
	}

	satpoint, err := m.indexer.FindSatPoint(sat)
	if err != nil {
		return nil, errInternal(err, "failed to retrieve satpoint for sat %s", sat)
	}
	if satpoint != nil {
		resp.SatPoint = satpoint.String()
	}

	id, err := m.indexer.GetInscriptionBySat(sat)
	if err != nil {
		return nil, errInternal(err, "failed to retrieve inscription for sat %s", sat)
	}
	resp.InscriptionId = id
	return resp, nil
}

func (m *Model) getInput(height int64, txIndex, inputIndex int) (*InputResp, *ServerError) {
	notFound := errNotFound("input /%d/%d/%d unknown", height, txIndex, inputIndex)

	block, err := m.indexer.GetBlockByHeight(height)
	if err != nil {
		return nil, errInternal(err, "error serving request for block with height %d", height)
	}
	if block == nil || txIndex >= len(block.Transactions) {
		return nil, notFound
	}
	tx := block.Transactions[txIndex]
	if inputIndex >= len(tx.TxIn) {
		return nil, notFound
	}
	txIn := tx.TxIn[inputIndex]

	resp := &InputResp{
		Height:       height,
		TxIndex:      txIndex,
		InputIndex:   inputIndex,
		PrevOutPoint: txIn.PreviousOutPoint.String(),
		ScriptSig:    hex.EncodeToString(txIn.SignatureScript),
		Sequence:     txIn.Sequence,
	}
	for _, item := range txIn.Witness {
		resp.Witness = append(resp.Witness, hex.EncodeToString(item))
	}
	return resp, nil
}

func (m *Model) getInscription(id string) (*InscriptionResp, *ServerError) {
	inscription, satpoint, err := m.indexer.GetInscription(id)
	if err != nil {
		return nil, errInternal(err, "failed to retrieve inscription %s", id)
	}
	if inscription == nil {
		return nil, errNotFound("transaction %s has no inscription", id)
	}
	genesisHeight, err := m.indexer.GetInscriptionGenesisHeight(id)
	if err != nil {
		return nil, errInternal(err, "failed to retrieve genesis height of %s", id)
	}
	location := ""
	if satpoint != nil {
		location = satpoint.String()
	}
	return &InscriptionResp{
		Id:            id,
		ContentType:   inscription.ContentType,
		ContentLength: len(inscription.Content),
		GenesisHeight: genesisHeight,
		SatPoint:      location,
	}, nil
}

func (m *Model) getContent(id string) (*common.Inscription, *ServerError) {
	inscription, _, err := m.indexer.GetInscription(id)
	if err != nil {
		return nil, errInternal(err, "failed to retrieve inscription %s", id)
	}
	if inscription == nil {
		return nil, errNotFound("transaction %s has no inscription", id)
	}
	if len(inscription.Content) == 0 {
		return nil, errNotFound("inscription %s has no content", id)
	}
	return inscription, nil
}

func (m *Model) getLatestInscriptions() (*InscriptionsResp, *ServerError) {
	ids, err := m.indexer.GetLatestInscriptions(latestInscriptions)
	if err != nil {
		return nil, errInternal(err, "error getting inscriptions")
	}
	if ids == nil {
		ids = []string{}
	}
	return &InscriptionsResp{Inscriptions: ids}, nil
}

// rareSats renders the two-column rare sat listing, ordered by sat.
func (m *Model) rareSats() (string, *ServerError) {
	points, err := m.indexer.GetRareSatPoints()
	if err != nil {
		return "", errInternal(err, "error getting rare sat satpoints")
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Sat < points[j].Sat
	})

	var sb strings.Builder
	sb.WriteString("sat\tsatpoint\n")
	for _, p := range points {
		fmt.Fprintf(&sb, "%d\t%s\n", p.Sat, p.SatPoint.String())
	}
	return sb.String(), nil
}

// searchTarget classifies a query and resolves the one ambiguous shape,
// a 64-hex string, with a single block lookup: known block hash wins,
// anything else is treated as a txid.
func (m *Model) searchTarget(query string) (string, *ServerError) {
	kind, query := common.ClassifySearchQuery(query)
	switch kind {
	case common.SearchHash:
		hash, err := chainhash.NewHashFromStr(query)
		if err != nil {
			return "", errBadRequest("invalid query %s", query)
		}
		info, err2 := m.indexer.GetBlockInfoByHash(hash)
		if err2 != nil {
			return "", errInternal(err2, "failed to retrieve block %s from index", query)
		}
		if info != nil {
			return "/block/" + query, nil
		}
		return "/tx/" + query, nil
	case common.SearchOutPoint:
		return "/output/" + query, nil
	default:
		return "/sat/" + query, nil
	}
}

func (m *Model) satResp(sat common.Sat) *SatResp {
	return &SatResp{
		Number:  sat.N(),
		Decimal: sat.Decimal(),
		Degree:  sat.Degree(),
		Name:    sat.Name(),
		Height:  int64(sat.Height()),
		Cycle:   sat.Cycle(),
		Epoch:   int64(sat.Epoch()),
		Period:  sat.Period(),
		Offset:  sat.Third(),
		Rarity:  sat.Rarity(),
	}
}

func (m *Model) txOutResp(txOut *wire.TxOut) *TxOutResp {
	resp := &TxOutResp{
		Value:    txOut.Value,
		PkScript: hex.EncodeToString(txOut.PkScript),
	}
	if addr, err := common.PkScriptToAddr(txOut.PkScript, m.indexer.GetChainParam()); err == nil {
		resp.Address = addr
	}
	return resp
}
