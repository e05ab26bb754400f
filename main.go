package main

import (
	"github.com/ordview-labs/ordview/common"
	"github.com/ordview-labs/ordview/config"
	"github.com/ordview-labs/ordview/indexer"
	"github.com/ordview-labs/ordview/rpcserver"
	"github.com/ordview-labs/ordview/share/base_indexer"
	"github.com/ordview-labs/ordview/share/bitcoin_rpc"
)

func init() {
	config.InitSigInt()
}

func main() {
	yamlcfg := config.InitConfig("")
	if yamlcfg == nil {
		return
	}
	config.InitLog(yamlcfg)

	common.Log.Info("Starting...")
	defer common.Log.Info("shut down")

	bitcoinConf := &yamlcfg.ShareRPC.Bitcoin
	err := bitcoin_rpc.InitBitcoinRpc(
		bitcoinConf.Host,
		bitcoinConf.Port,
		bitcoinConf.User,
		bitcoinConf.Password,
		false,
	)
	if err != nil {
		common.Log.Error(err)
		return
	}

	indexerMgr, err := indexer.NewIndexerMgr(yamlcfg)
	if err != nil {
		common.Log.Error(err)
		return
	}
	base_indexer.InitBaseIndexer(indexerMgr)
	if err := indexerMgr.Init(); err != nil {
		common.Log.Error(err)
		return
	}
	defer indexerMgr.Close()

	rpc := rpcserver.NewRpc()
	if err := rpc.Start(yamlcfg); err != nil {
		common.Log.Error(err)
		return
	}
	common.Log.Info("rpc started")

	stopChan := make(chan bool)
	config.RegistSigIntFunc(func() {
		common.Log.Info("handle SIGINT for close base indexer")
		stopChan <- true
	})

	common.Log.Info("base indexer start...")
	indexerMgr.StartDaemon(stopChan)

	rpc.Stop()
	common.Log.Info("prepare to release resource...")
}
