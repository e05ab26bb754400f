package ordinals

import (
	"github.com/ordview-labs/ordview/common"
)

type HomeResp struct {
	Blocks       []*common.BlockInfo `json:"blocks"`
	Inscriptions []string            `json:"inscriptions"`
}

type BlockResp struct {
	Height     int64    `json:"height"`
	Hash       string   `json:"hash"`
	PrevHash   string   `json:"prevhash"`
	Timestamp  int64    `json:"timestamp"`
	BestHeight int64    `json:"best_height"`
	Txids      []string `json:"txids"`
}

type TxInResp struct {
	PrevOutPoint string `json:"prev_outpoint"`
	ScriptSig    string `json:"script_sig"`
	Sequence     uint32 `json:"sequence"`
}

type TxOutResp struct {
	Value    int64  `json:"value"`
	PkScript string `json:"pkscript"`
	Address  string `json:"address,omitempty"`
}

type TxResp struct {
	Txid          string       `json:"txid"`
	Inputs        []*TxInResp  `json:"inputs"`
	Outputs       []*TxOutResp `json:"outputs"`
	InscriptionId string       `json:"inscription_id,omitempty"`
}

type OutputResp struct {
	OutPoint  string   `json:"outpoint"`
	Value     int64    `json:"value"`
	PkScript  string   `json:"pkscript"`
	Address   string   `json:"address,omitempty"`
	SatRanges []string `json:"sat_ranges,omitempty"`
}

type SatResp struct {
	Number        int64  `json:"number"`
	Decimal       string `json:"decimal"`
	Degree        string `json:"degree"`
	Name          string `json:"name"`
	Height        int64  `json:"height"`
	Cycle         int64  `json:"cycle"`
	Epoch         int64  `json:"epoch"`
	Period        int64  `json:"period"`
	Offset        int64  `json:"offset"`
	Rarity        string `json:"rarity"`
	Timestamp     int64  `json:"timestamp"`
	Expected      bool   `json:"expected,omitempty"`
	SatPoint      string `json:"satpoint,omitempty"`
	InscriptionId string `json:"inscription_id,omitempty"`
}

type RangeResp struct {
	Start *SatResp `json:"start"`
	End   *SatResp `json:"end"`
	Size  int64    `json:"size"`
}

type InputResp struct {
	Height       int64    `json:"height"`
	TxIndex      int      `json:"tx_index"`
	InputIndex   int      `json:"input_index"`
	PrevOutPoint string   `json:"prev_outpoint"`
	ScriptSig    string   `json:"script_sig"`
	Witness      []string `json:"witness,omitempty"`
	Sequence     uint32   `json:"sequence"`
}

type InscriptionResp struct {
	Id            string `json:"id"`
	ContentType   string `json:"content_type,omitempty"`
	ContentLength int    `json:"content_length"`
	GenesisHeight int64  `json:"genesis_height"`
	SatPoint      string `json:"satpoint"`
}

type InscriptionsResp struct {
	Inscriptions []string `json:"inscriptions"`
}
