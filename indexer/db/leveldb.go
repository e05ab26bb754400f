package db

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

type levelDB struct {
	path string
	db   *leveldb.DB
}

func OpenLevelDB(filepath string) (KVDB, error) {
	ldb, err := leveldb.OpenFile(filepath, nil)
	if err != nil {
		return nil, err
	}
	return &levelDB{path: filepath, db: ldb}, nil
}

func (p *levelDB) Read(key []byte) ([]byte, error) {
	value, err := p.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrKeyNotFound
	}
	return value, err
}

func (p *levelDB) Write(key, value []byte) error {
	return p.db.Put(key, value, nil)
}

func (p *levelDB) Delete(key []byte) error {
	return p.db.Delete(key, nil)
}

func (p *levelDB) Close() error {
	return p.db.Close()
}

type levelWriteBatch struct {
	db    *leveldb.DB
	batch *leveldb.Batch
}

func (p *levelDB) NewWriteBatch() WriteBatch {
	return &levelWriteBatch{db: p.db, batch: new(leveldb.Batch)}
}

func (b *levelWriteBatch) Put(key, value []byte) error {
	b.batch.Put(key, value)
	return nil
}

func (b *levelWriteBatch) Delete(key []byte) error {
	b.batch.Delete(key)
	return nil
}

func (b *levelWriteBatch) Flush() error {
	return b.db.Write(b.batch, nil)
}

func (b *levelWriteBatch) Close() {
	b.batch.Reset()
}

func (p *levelDB) BatchRead(prefix []byte, reverse bool, r func(k, v []byte) error) error {
	iter := p.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	visit := func() error {
		k := make([]byte, len(iter.Key()))
		copy(k, iter.Key())
		v := make([]byte, len(iter.Value()))
		copy(v, iter.Value())
		return r(k, v)
	}

	if reverse {
		for ok := iter.Last(); ok; ok = iter.Prev() {
			if err := visit(); err != nil {
				if err == ErrIterationDone {
					return nil
				}
				return err
			}
		}
	} else {
		for iter.Next() {
			if err := visit(); err != nil {
				if err == ErrIterationDone {
					return nil
				}
				return err
			}
		}
	}
	return iter.Error()
}

type levelSnapshot struct {
	snap *leveldb.Snapshot
}

func (s *levelSnapshot) Get(key []byte) ([]byte, error) {
	value, err := s.snap.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrKeyNotFound
	}
	return value, err
}

func (p *levelDB) View(fn func(ReadBatch) error) error {
	snap, err := p.db.GetSnapshot()
	if err != nil {
		return err
	}
	defer snap.Release()
	return fn(&levelSnapshot{snap: snap})
}
