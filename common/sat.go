package common

import (
	"fmt"
	"strconv"
	"strings"
)

// Sat is a single satoshi, numbered by mining order. Every textual
// encoding (plain integer, decimal, degree and name notation) normalizes
// to the same number.
type Sat int64

var ErrInvalidSat = fmt.Errorf("invalid sat")

// ParseSat accepts the four sat encodings:
//
//	"1232735286933201"       plain number
//	"727624.1017"            block height and offset within block
//	"3°440604′10554″1017‴"   cycle, epoch offset, period offset, block offset
//	"ahehcsqpqnmj"           ordinal name
func ParseSat(s string) (Sat, error) {
	if s == "" {
		return 0, ErrInvalidSat
	}
	switch {
	case s[0] >= 'a' && s[0] <= 'z':
		return satFromName(s)
	case strings.ContainsRune(s, '°'):
		return satFromDegree(s)
	case strings.ContainsRune(s, '.'):
		return satFromDecimal(s)
	default:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n < 0 {
			return 0, ErrInvalidSat
		}
		return checkSat(Sat(n))
	}
}

func checkSat(s Sat) (Sat, error) {
	if s < 0 || s > LastSat {
		return 0, ErrInvalidSat
	}
	return s, nil
}

func satFromName(s string) (Sat, error) {
	x := int64(0)
	for _, c := range s {
		if c < 'a' || c > 'z' {
			return 0, fmt.Errorf("invalid character in sat name: %q", c)
		}
		x = x*26 + int64(c-'a') + 1
		if x > SupplySats {
			return 0, ErrInvalidSat
		}
	}
	return checkSat(Sat(SupplySats - x))
}

func satFromDecimal(s string) (Sat, error) {
	heightStr, offsetStr, ok := strings.Cut(s, ".")
	if !ok {
		return 0, ErrInvalidSat
	}
	height, err := strconv.ParseInt(heightStr, 10, 64)
	if err != nil || height < 0 {
		return 0, ErrInvalidSat
	}
	offset, err := strconv.ParseInt(offsetStr, 10, 64)
	if err != nil || offset < 0 {
		return 0, ErrInvalidSat
	}
	if offset >= Height(height).Subsidy() {
		return 0, ErrInvalidSat
	}
	return checkSat(Height(height).StartingSat() + Sat(offset))
}

func satFromDegree(s string) (Sat, error) {
	hourStr, rest, ok := strings.Cut(s, "°")
	if !ok {
		return 0, ErrInvalidSat
	}
	minuteStr, rest, ok := strings.Cut(rest, "′")
	if !ok {
		return 0, ErrInvalidSat
	}
	secondStr, rest, ok := strings.Cut(rest, "″")
	if !ok {
		return 0, ErrInvalidSat
	}
	thirdStr, rest, ok := strings.Cut(rest, "‴")
	if !ok || rest != "" {
		return 0, ErrInvalidSat
	}

	hour, err := strconv.ParseInt(hourStr, 10, 64)
	if err != nil || hour < 0 {
		return 0, ErrInvalidSat
	}
	minute, err := strconv.ParseInt(minuteStr, 10, 64)
	if err != nil || minute < 0 || minute >= SUBSIDY_HALVING_INTERVAL {
		return 0, ErrInvalidSat
	}
	second, err := strconv.ParseInt(secondStr, 10, 64)
	if err != nil || second < 0 || second >= DIFFCHANGE_INTERVAL {
		return 0, ErrInvalidSat
	}
	third, err := strconv.ParseInt(thirdStr, 10, 64)
	if err != nil || third < 0 {
		return 0, ErrInvalidSat
	}

	// The height within a cycle is determined by the epoch offset and the
	// period offset together; only some combinations are reachable.
	height := int64(-1)
	for i := int64(0); i < CYCLE_EPOCHS; i++ {
		h := minute + i*SUBSIDY_HALVING_INTERVAL
		if h%DIFFCHANGE_INTERVAL == second {
			height = h
			break
		}
	}
	if height < 0 {
		return 0, ErrInvalidSat
	}
	height += hour * CYCLE_INTERVAL

	if third >= Height(height).Subsidy() {
		return 0, ErrInvalidSat
	}
	return checkSat(Height(height).StartingSat() + Sat(third))
}

func (s Sat) N() int64 {
	return int64(s)
}

func (s Sat) Epoch() Epoch {
	return EpochOf(s)
}

// Height is the block the sat was mined in.
func (s Sat) Height() Height {
	e := s.Epoch()
	subsidy := e.Subsidy()
	if subsidy == 0 {
		return e.StartingHeight()
	}
	return e.StartingHeight() + Height(int64(s-e.StartingSat())/subsidy)
}

// Third is the sat's offset within its block.
func (s Sat) Third() int64 {
	return int64(s - s.Height().StartingSat())
}

func (s Sat) Cycle() int64 {
	return s.Height().Cycle()
}

func (s Sat) Period() int64 {
	return s.Height().Period()
}

func (s Sat) Decimal() string {
	return fmt.Sprintf("%d.%d", s.Height(), s.Third())
}

func (s Sat) Degree() string {
	h := int64(s.Height())
	return fmt.Sprintf(
		"%d°%d′%d″%d‴",
		h/CYCLE_INTERVAL,
		h%SUBSIDY_HALVING_INTERVAL,
		h%DIFFCHANGE_INTERVAL,
		s.Third(),
	)
}

func (s Sat) Name() string {
	x := SupplySats - int64(s)
	var b []byte
	for x > 0 {
		b = append(b, byte('a'+(x-1)%26))
		x = (x - 1) / 26
	}
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

const (
	RarityCommon    = "common"
	RarityUncommon  = "uncommon"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
	RarityMythic    = "mythic"
)

// Rarity follows the Rodarmor scale: the first sat of every block is
// at least uncommon, with higher tiers at period, epoch and cycle starts.
func (s Sat) Rarity() string {
	h := s.Height()
	if s != h.StartingSat() {
		return RarityCommon
	}
	n := int64(h)
	switch {
	case n == 0:
		return RarityMythic
	case n%CYCLE_INTERVAL == 0:
		return RarityLegendary
	case n%SUBSIDY_HALVING_INTERVAL == 0:
		return RarityEpic
	case n%DIFFCHANGE_INTERVAL == 0:
		return RarityRare
	default:
		return RarityUncommon
	}
}

func (s Sat) String() string {
	return strconv.FormatInt(int64(s), 10)
}
