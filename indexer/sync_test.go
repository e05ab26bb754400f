package indexer

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordview-labs/ordview/common"
	"github.com/ordview-labs/ordview/config"
	"github.com/ordview-labs/ordview/indexer/db"
)

// fakeChain serves an in-memory block list over the ChainRPC interface.
type fakeChain struct {
	blocks []*wire.MsgBlock
}

func (f *fakeChain) GetBlockCount() (uint64, error) {
	return uint64(len(f.blocks) - 1), nil
}

func (f *fakeChain) GetBlockHash(height uint64) (string, error) {
	if height >= uint64(len(f.blocks)) {
		return "", fmt.Errorf("block height out of range")
	}
	return f.blocks[height].BlockHash().String(), nil
}

func (f *fakeChain) GetRawBlock(blockHash string) (string, error) {
	for _, block := range f.blocks {
		if block.BlockHash().String() == blockHash {
			var buf bytes.Buffer
			if err := block.Serialize(&buf); err != nil {
				return "", err
			}
			return hex.EncodeToString(buf.Bytes()), nil
		}
	}
	return "", fmt.Errorf("block not found")
}

func (f *fakeChain) GetBestBlockHash() (string, error) {
	return f.blocks[len(f.blocks)-1].BlockHash().String(), nil
}

func (f *fakeChain) GetRawTx(txid string) (string, error) {
	for _, block := range f.blocks {
		for _, tx := range block.Transactions {
			if tx.TxHash().String() == txid {
				var buf bytes.Buffer
				if err := tx.Serialize(&buf); err != nil {
					return "", err
				}
				return hex.EncodeToString(buf.Bytes()), nil
			}
		}
	}
	return "", fmt.Errorf("-5: No such mempool or blockchain transaction")
}

func coinbaseTx(height int64, value int64) *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Index: 0xffffffff},
		SignatureScript:  []byte{byte(height), 0x01},
	})
	tx.AddTxOut(&wire.TxOut{Value: value, PkScript: []byte{0x51}})
	return tx
}

func appendBlock(chain *fakeChain, txs ...*wire.MsgTx) *wire.MsgBlock {
	block := &wire.MsgBlock{
		Header: wire.BlockHeader{
			Timestamp: time.Unix(1231006505+int64(len(chain.blocks))*600, 0),
		},
	}
	if len(chain.blocks) > 0 {
		block.Header.PrevBlock = chain.blocks[len(chain.blocks)-1].BlockHash()
	}
	for _, tx := range txs {
		block.AddTransaction(tx)
	}
	// not a real merkle root, just enough to make header hashes unique
	block.Header.MerkleRoot = txs[len(txs)-1].TxHash()
	chain.blocks = append(chain.blocks, block)
	return block
}

func revealTx(t *testing.T, prev wire.OutPoint, value int64, contentType string, content []byte) *wire.MsgTx {
	t.Helper()
	builder := txscript.NewScriptBuilder()
	builder.AddOp(txscript.OP_FALSE)
	builder.AddOp(txscript.OP_IF)
	builder.AddData([]byte("ord"))
	builder.AddData([]byte{1})
	builder.AddData([]byte(contentType))
	builder.AddData([]byte{0})
	builder.AddData(content)
	builder.AddOp(txscript.OP_ENDIF)
	script, err := builder.Script()
	require.NoError(t, err)

	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: prev,
		Witness:          wire.TxWitness{script},
	})
	tx.AddTxOut(&wire.TxOut{Value: value, PkScript: []byte{0x51}})
	return tx
}

func newTestMgr(t *testing.T, chain *fakeChain, satIndex bool) *IndexerMgr {
	t.Helper()
	mgr := &IndexerMgr{
		cfg: &config.YamlConf{
			DB: config.DB{Path: t.TempDir()},
		},
		chaincfgParam:  &chaincfg.RegressionNetParams,
		rpc:            chain,
		enableSatIndex: satIndex,
		syncInterval:   10 * time.Millisecond,
	}
	mgr.syncHeight.Store(-1)
	require.NoError(t, mgr.Init())
	t.Cleanup(mgr.Close)
	return mgr
}

func TestSyncToChainTip(t *testing.T) {
	chain := &fakeChain{}
	genesis := appendBlock(chain, coinbaseTx(0, 50*common.COIN_VALUE))
	genesisCoinbase := genesis.Transactions[0].TxHash()

	reveal := revealTx(t,
		wire.OutPoint{Hash: genesisCoinbase, Index: 0},
		50*common.COIN_VALUE-1000,
		"text/plain;charset=utf-8", []byte("hello"),
	)
	appendBlock(chain, coinbaseTx(1, 50*common.COIN_VALUE+1000), reveal)

	mgr := newTestMgr(t, chain, true)
	stop := make(chan struct{})
	require.NoError(t, mgr.SyncToChainTip(stop))

	assert.Equal(t, int64(1), mgr.GetSyncHeight())
	assert.Equal(t, int64(2), mgr.GetBlockCount())
	assert.False(t, mgr.IsReorgDetected())

	info, err := mgr.GetBlockInfo(0)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, genesis.BlockHash().String(), info.Hash)
	assert.Equal(t, 1, info.TxCount)

	// spent coinbase output gone, reveal output carries its sats
	ranges, err := mgr.GetOrdinalsWithOutput(wire.OutPoint{Hash: genesisCoinbase, Index: 0})
	require.NoError(t, err)
	assert.Nil(t, ranges)

	revealTxid := reveal.TxHash()
	ranges, err = mgr.GetOrdinalsWithOutput(wire.OutPoint{Hash: revealTxid, Index: 0})
	require.NoError(t, err)
	require.Len(t, ranges, 1)
	assert.Equal(t, common.Sat(0), ranges[0].Start)
	assert.Equal(t, common.Sat(50*common.COIN_VALUE-1000), ranges[0].End)

	// sat 0 now sits at the reveal output
	satpoint, err := mgr.FindSatPoint(common.Sat(0))
	require.NoError(t, err)
	require.NotNil(t, satpoint)
	assert.Equal(t, revealTxid.String()+":0:0", satpoint.String())

	inscription, insPoint, err := mgr.GetInscription(revealTxid.String())
	require.NoError(t, err)
	require.NotNil(t, inscription)
	assert.Equal(t, "text/plain;charset=utf-8", inscription.ContentType)
	assert.Equal(t, []byte("hello"), inscription.Content)
	assert.Equal(t, revealTxid.String()+":0:0", insPoint.String())

	genesisHeight, err := mgr.GetInscriptionGenesisHeight(revealTxid.String())
	require.NoError(t, err)
	assert.Equal(t, int64(1), genesisHeight)

	// the inscription is bound to the first sat of the reveal output
	inscribed, err := mgr.GetInscriptionBySat(common.Sat(0))
	require.NoError(t, err)
	assert.Equal(t, revealTxid.String(), inscribed)

	inscribed, err = mgr.GetInscriptionBySat(common.Sat(1))
	require.NoError(t, err)
	assert.Empty(t, inscribed)

	latest, err := mgr.GetLatestInscriptions(10)
	require.NoError(t, err)
	assert.Equal(t, []string{revealTxid.String()}, latest)
}

func TestSyncDetectsReorg(t *testing.T) {
	chain := &fakeChain{}
	appendBlock(chain, coinbaseTx(0, 50*common.COIN_VALUE))
	appendBlock(chain, coinbaseTx(1, 50*common.COIN_VALUE))

	mgr := newTestMgr(t, chain, false)
	stop := make(chan struct{})
	require.NoError(t, mgr.SyncToChainTip(stop))
	require.Equal(t, int64(1), mgr.GetSyncHeight())

	// replace the tip with a competing block
	chain.blocks = chain.blocks[:1]
	appendBlock(chain, coinbaseTx(1, 50*common.COIN_VALUE), coinbaseTx(2, 1000))

	err := mgr.SyncToChainTip(stop)
	require.Error(t, err)
	assert.True(t, mgr.IsReorgDetected())

	// the flag survives a restart
	raw, err2 := mgr.baseDB.Read([]byte(DB_KEY_REORG))
	require.NoError(t, err2)
	assert.Equal(t, []byte{1}, raw)

	// once flagged, further rounds are quiet no-ops
	require.NoError(t, mgr.SyncToChainTip(stop))
}

func TestConcurrentReadsDuringSync(t *testing.T) {
	chain := &fakeChain{}
	appendBlock(chain, coinbaseTx(0, 50*common.COIN_VALUE))

	mgr := newTestMgr(t, chain, false)
	stop := make(chan struct{})
	require.NoError(t, mgr.SyncToChainTip(stop))
	before := mgr.GetBlockCount()

	appendBlock(chain, coinbaseTx(1, 50*common.COIN_VALUE))

	var syncErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		syncErr = mgr.SyncToChainTip(stop)
	}()

	// Readers racing the writer must only ever see the old count or the
	// new one, and a new count must come with a complete block entry.
	var violations atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				n := mgr.GetBlockCount()
				if n != before && n != before+1 {
					violations.Add(1)
				}
				if n == before+1 {
					info, err := mgr.GetBlockInfo(n - 1)
					if err != nil || info == nil || info.Hash == "" {
						violations.Add(1)
					}
				}
				select {
				case <-done:
					return
				default:
				}
			}
		}()
	}
	<-done
	wg.Wait()

	require.NoError(t, syncErr)
	assert.Zero(t, violations.Load())
	// the advance is visible once the synchronizer returns
	assert.Equal(t, before+1, mgr.GetBlockCount())
}

func TestLostRangesDropRareSats(t *testing.T) {
	chain := &fakeChain{}
	genesis := appendBlock(chain, coinbaseTx(0, 50*common.COIN_VALUE))
	genesisCoinbase := genesis.Transactions[0].TxHash()

	mgr := newTestMgr(t, chain, true)
	stop := make(chan struct{})
	require.NoError(t, mgr.SyncToChainTip(stop))

	satpoint, err := mgr.FindSatPoint(common.Sat(0))
	require.NoError(t, err)
	require.NotNil(t, satpoint)

	// Burn the genesis reward: the whole value becomes a fee, and the
	// coinbase claims only the subsidy, so the fee ranges are lost.
	burn := wire.NewMsgTx(wire.TxVersion)
	burn.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Hash: genesisCoinbase, Index: 0},
	})
	burn.AddTxOut(&wire.TxOut{Value: 0, PkScript: []byte{0x51}})
	appendBlock(chain, coinbaseTx(1, 50*common.COIN_VALUE), burn)

	require.NoError(t, mgr.SyncToChainTip(stop))
	require.Equal(t, int64(1), mgr.GetSyncHeight())

	// sat 0 no longer points at the long-gone genesis output
	satpoint, err = mgr.FindSatPoint(common.Sat(0))
	require.NoError(t, err)
	assert.Nil(t, satpoint)
}

func TestSatIndexRequiresGenesis(t *testing.T) {
	chain := &fakeChain{}
	appendBlock(chain, coinbaseTx(0, 50*common.COIN_VALUE))

	dir := t.TempDir()
	mgr := &IndexerMgr{
		cfg:            &config.YamlConf{DB: config.DB{Path: dir}},
		chaincfgParam:  &chaincfg.RegressionNetParams,
		rpc:            chain,
		enableSatIndex: false,
		syncInterval:   10 * time.Millisecond,
	}
	mgr.syncHeight.Store(-1)
	require.NoError(t, mgr.Init())
	require.NoError(t, mgr.SyncToChainTip(make(chan struct{})))
	mgr.Close()

	// reopening an existing database with the sat index newly enabled fails
	mgr2 := &IndexerMgr{
		cfg:            &config.YamlConf{DB: config.DB{Path: dir}},
		chaincfgParam:  &chaincfg.RegressionNetParams,
		rpc:            chain,
		enableSatIndex: true,
		syncInterval:   10 * time.Millisecond,
	}
	mgr2.syncHeight.Store(-1)
	assert.Error(t, mgr2.Init())
}

func TestLevelDBBatchRead(t *testing.T) {
	kv, err := db.OpenLevelDB(t.TempDir())
	require.NoError(t, err)
	defer kv.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, kv.Write([]byte(fmt.Sprintf("p-%d", i)), []byte{byte(i)}))
	}
	require.NoError(t, kv.Write([]byte("q-0"), []byte{9}))

	var keys []string
	require.NoError(t, kv.BatchRead([]byte("p-"), false, func(k, v []byte) error {
		keys = append(keys, string(k))
		return nil
	}))
	assert.Equal(t, []string{"p-0", "p-1", "p-2", "p-3", "p-4"}, keys)

	keys = nil
	require.NoError(t, kv.BatchRead([]byte("p-"), true, func(k, v []byte) error {
		keys = append(keys, string(k))
		return nil
	}))
	assert.Equal(t, []string{"p-4", "p-3", "p-2", "p-1", "p-0"}, keys)

	// the callback can end the scan without failing it
	visited := 0
	require.NoError(t, kv.BatchRead([]byte("p-"), true, func(k, v []byte) error {
		visited++
		return db.ErrIterationDone
	}))
	assert.Equal(t, 1, visited)

	_, err = kv.Read([]byte("missing"))
	assert.Equal(t, db.ErrKeyNotFound, err)
}
