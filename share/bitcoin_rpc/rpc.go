package bitcoin_rpc

import (
	"github.com/OLProtocol/go-bitcoind"
)

// ChainRPC is the narrow slice of bitcoind the index engine reads from.
type ChainRPC interface {
	GetBlockCount() (uint64, error)
	GetBlockHash(height uint64) (string, error)
	GetRawBlock(blockHash string) (string, error)
	GetBestBlockHash() (string, error)
	GetRawTx(txid string) (string, error)
}

var ShareBitcoinRpc ChainRPC

func InitBitcoinRpc(host string, port int, user, passwd string, useSSL bool) error {
	rpc, err := bitcoind.New(
		host,
		port,
		user,
		passwd,
		useSSL,
		120,
	)
	if err != nil {
		return err
	}
	ShareBitcoinRpc = &BitcoindRPC{
		bitcoind: rpc,
	}
	return nil
}
