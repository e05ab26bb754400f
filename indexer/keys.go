package indexer

import (
	"encoding/binary"
	"fmt"
)

const (
	DB_KEY_BLOCK       = "b-"  // height -> blockEntry
	DB_KEY_BLOCKHASH   = "bh-" // hash -> height
	DB_KEY_UTXO        = "u-"  // outpoint -> sat ranges
	DB_KEY_RARESAT     = "r-"  // sat -> satpoint
	DB_KEY_INSCRIPTION = "i-"  // txid -> inscriptionEntry
	DB_KEY_INSLOG      = "il-" // seq -> txid, insertion order
	DB_KEY_INSLOCATION = "io-" // outpoint -> txid
	DB_KEY_SATINS      = "si-" // genesis sat -> txid

	DB_KEY_SYNC_HEIGHT = "s-syncheight"
	DB_KEY_REORG       = "s-reorg"
	DB_KEY_SATINDEX    = "s-satindex"
	DB_KEY_INSCOUNT    = "s-inscount"
)

func uint64ToBytes(n uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, n)
	return buf
}

func bytesToUint64(buf []byte) uint64 {
	return binary.BigEndian.Uint64(buf)
}

func blockDBKey(height int64) []byte {
	return append([]byte(DB_KEY_BLOCK), uint64ToBytes(uint64(height))...)
}

func blockHashDBKey(hash string) []byte {
	return []byte(DB_KEY_BLOCKHASH + hash)
}

func utxoDBKey(outpoint string) []byte {
	return []byte(DB_KEY_UTXO + outpoint)
}

func rareSatDBKey(sat int64) []byte {
	return append([]byte(DB_KEY_RARESAT), uint64ToBytes(uint64(sat))...)
}

func inscriptionDBKey(txid string) []byte {
	return []byte(DB_KEY_INSCRIPTION + txid)
}

func inscriptionLogDBKey(seq uint64) []byte {
	return append([]byte(DB_KEY_INSLOG), uint64ToBytes(seq)...)
}

func inscriptionLocationDBKey(outpoint string) []byte {
	return []byte(DB_KEY_INSLOCATION + outpoint)
}

func satInscriptionDBKey(sat int64) []byte {
	return append([]byte(DB_KEY_SATINS), uint64ToBytes(uint64(sat))...)
}

func heightFromBlockDBKey(key []byte) (int64, error) {
	if len(key) != len(DB_KEY_BLOCK)+8 {
		return 0, fmt.Errorf("invalid block key %s", key)
	}
	return int64(bytesToUint64(key[len(DB_KEY_BLOCK):])), nil
}
