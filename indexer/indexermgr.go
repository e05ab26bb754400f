package indexer

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ordview-labs/ordview/common"
	"github.com/ordview-labs/ordview/config"
	"github.com/ordview-labs/ordview/indexer/db"
	"github.com/ordview-labs/ordview/share/bitcoin_rpc"
)

// IndexerMgr owns the index database and is its only writer. Request
// handlers read it concurrently through the base_indexer facade; all
// mutable state is either atomic or behind leveldb's own snapshots.
type IndexerMgr struct {
	cfg           *config.YamlConf
	chaincfgParam *chaincfg.Params
	baseDB        db.KVDB
	rpc           bitcoin_rpc.ChainRPC

	enableSatIndex bool
	syncInterval   time.Duration

	syncHeight    atomic.Int64
	chainTip      atomic.Int64
	reorgDetected atomic.Bool
	reorgLogged   bool
}

type blockEntry struct {
	Hash      string
	PrevHash  string
	Timestamp int64
	TxCount   int
}

type inscriptionEntry struct {
	ContentType   string
	Content       []byte
	GenesisHeight int64
	SatPoint      string
}

func NewIndexerMgr(yamlcfg *config.YamlConf) (*IndexerMgr, error) {
	chainParam, err := common.ChainParams(yamlcfg.Chain)
	if err != nil {
		return nil, err
	}

	mgr := &IndexerMgr{
		cfg:            yamlcfg,
		chaincfgParam:  chainParam,
		rpc:            bitcoin_rpc.ShareBitcoinRpc,
		enableSatIndex: yamlcfg.BasicIndex.EnableSatIndex,
		syncInterval:   time.Duration(yamlcfg.BasicIndex.SyncIntervalMs) * time.Millisecond,
	}
	mgr.syncHeight.Store(-1)
	return mgr, nil
}

func (b *IndexerMgr) Init() error {
	baseDB, err := db.OpenLevelDB(filepath.Join(b.cfg.DB.Path, "base"))
	if err != nil {
		return fmt.Errorf("open db: %v", err)
	}
	b.baseDB = baseDB

	if raw, err := b.baseDB.Read([]byte(DB_KEY_SYNC_HEIGHT)); err == nil {
		b.syncHeight.Store(int64(bytesToUint64(raw)))
	} else if err != db.ErrKeyNotFound {
		return err
	}

	if _, err := b.baseDB.Read([]byte(DB_KEY_REORG)); err == nil {
		b.reorgDetected.Store(true)
	} else if err != db.ErrKeyNotFound {
		return err
	}

	// A database built without the sat index cannot grow one later: sat
	// tracking is only correct from genesis.
	raw, err := b.baseDB.Read([]byte(DB_KEY_SATINDEX))
	switch {
	case err == db.ErrKeyNotFound:
		if b.syncHeight.Load() >= 0 && b.enableSatIndex {
			return fmt.Errorf("enable_sat_index requires a database built from genesis with it")
		}
		flag := byte(0)
		if b.enableSatIndex {
			flag = 1
		}
		if err := b.baseDB.Write([]byte(DB_KEY_SATINDEX), []byte{flag}); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		b.enableSatIndex = len(raw) == 1 && raw[0] == 1
	}

	common.Log.Infof("indexer initialized, sync height %d, sat index %v",
		b.syncHeight.Load(), b.enableSatIndex)
	return nil
}

func (b *IndexerMgr) Close() {
	if b.baseDB != nil {
		b.baseDB.Close()
	}
}

// StartDaemon runs the synchronization loop until stopChan fires. All
// failures are logged and retried on the next tick; the daemon never
// takes the process down.
func (b *IndexerMgr) StartDaemon(stopChan chan bool) {
	inner := make(chan struct{})
	go func() {
		<-stopChan
		close(inner)
	}()

	ticker := time.NewTicker(b.syncInterval)
	defer ticker.Stop()

	for {
		if err := b.SyncToChainTip(inner); err != nil {
			common.Log.Errorf("sync to chain tip: %v", err)
		}
		select {
		case <-inner:
			common.Log.Info("indexer daemon exit")
			return
		case <-ticker.C:
		}
	}
}

func encodeGob(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeGob(raw []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(raw)).Decode(v)
}
