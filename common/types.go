package common

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// SatRange is a half-open interval [Start, End) of sats.
type SatRange struct {
	Start Sat `json:"start"`
	End   Sat `json:"end"`
}

func (r *SatRange) Size() int64 {
	return int64(r.End - r.Start)
}

func (r *SatRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// SatPoint is the location of a sat: an output plus an offset into it.
type SatPoint struct {
	OutPoint wire.OutPoint
	Offset   int64
}

func (p SatPoint) String() string {
	return fmt.Sprintf("%s:%d", p.OutPoint.String(), p.Offset)
}

// SatSatPoint pairs a rare sat with its current location.
type SatSatPoint struct {
	Sat      Sat
	SatPoint SatPoint
}

// BlockQuery identifies a block by height or by hash. The rule is fixed:
// a 64-character string is a hash, anything else is parsed as a height.
type BlockQuery struct {
	Hash   *chainhash.Hash
	Height Height
}

func ParseBlockQuery(s string) (*BlockQuery, error) {
	if len(s) == 64 {
		hash, err := chainhash.NewHashFromStr(s)
		if err != nil {
			return nil, fmt.Errorf("invalid block hash %s", s)
		}
		return &BlockQuery{Hash: hash}, nil
	}
	height, err := ParseHeight(s)
	if err != nil {
		return nil, err
	}
	return &BlockQuery{Height: height}, nil
}

func ParseOutPoint(s string) (*wire.OutPoint, error) {
	txidStr, voutStr, ok := strings.Cut(s, ":")
	if !ok {
		return nil, fmt.Errorf("invalid outpoint %s", s)
	}
	if len(txidStr) != 64 {
		return nil, fmt.Errorf("error parsing txid %s", txidStr)
	}
	txid, err := chainhash.NewHashFromStr(txidStr)
	if err != nil {
		return nil, fmt.Errorf("error parsing txid %s", txidStr)
	}
	vout, err := strconv.ParseUint(voutStr, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid output index %s", voutStr)
	}
	return wire.NewOutPoint(txid, uint32(vout)), nil
}

func ParseSatPoint(s string) (*SatPoint, error) {
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return nil, fmt.Errorf("invalid satpoint %s", s)
	}
	outpoint, err := ParseOutPoint(s[:i])
	if err != nil {
		return nil, fmt.Errorf("invalid satpoint %s", s)
	}
	offset, err := strconv.ParseInt(s[i+1:], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid satpoint %s", s)
	}
	return &SatPoint{OutPoint: *outpoint, Offset: offset}, nil
}

func ParseTxid(s string) (*chainhash.Hash, error) {
	if len(s) != 64 {
		return nil, fmt.Errorf("error parsing txid %s", s)
	}
	txid, err := chainhash.NewHashFromStr(s)
	if err != nil {
		return nil, fmt.Errorf("error parsing txid %s", s)
	}
	return txid, nil
}

// ParseInscriptionId parses an inscription identifier, which is the txid
// of the transaction that revealed the inscription.
func ParseInscriptionId(s string) (*chainhash.Hash, error) {
	id, err := ParseTxid(s)
	if err != nil {
		return nil, fmt.Errorf("invalid inscription id %s", s)
	}
	return id, nil
}

// Inscription is an immutable payload bound to the sat it was revealed on.
type Inscription struct {
	ContentType string
	Content     []byte
}

type BlockInfo struct {
	Height    int64  `json:"height"`
	Hash      string `json:"hash"`
	PrevHash  string `json:"prevhash"`
	Timestamp int64  `json:"timestamp"`
	TxCount   int    `json:"txcount"`
}

// BlockTime is the timestamp of a block, actual when the block has been
// indexed and an estimate otherwise.
type BlockTime struct {
	Timestamp int64
	Expected  bool
}

var (
	reHash     = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)
	reOutPoint = regexp.MustCompile(`^[0-9a-fA-F]{64}:\d+$`)
)

// SearchKind classifies a free-text query by lexical shape alone.
type SearchKind int

const (
	SearchHash SearchKind = iota // block hash or txid, the block index decides
	SearchOutPoint
	SearchSat
)

func ClassifySearchQuery(query string) (SearchKind, string) {
	query = strings.TrimSpace(query)
	switch {
	case reHash.MatchString(query):
		return SearchHash, query
	case reOutPoint.MatchString(query):
		return SearchOutPoint, query
	default:
		return SearchSat, query
	}
}
