package common

import (
	"fmt"
	"strconv"
)

// Height is a block's position in the chain.
type Height int64

func ParseHeight(s string) (Height, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid height %s", s)
	}
	return Height(n), nil
}

func (h Height) Epoch() Epoch {
	return Epoch(int64(h) / SUBSIDY_HALVING_INTERVAL)
}

func (h Height) Subsidy() int64 {
	return h.Epoch().Subsidy()
}

// StartingSat is the first sat mined in the block at this height.
func (h Height) StartingSat() Sat {
	e := h.Epoch()
	if e >= FIRST_POST_SUBSIDY_EPOCH {
		return Sat(SupplySats)
	}
	return e.StartingSat() + Sat(int64(h-e.StartingHeight())*e.Subsidy())
}

func (h Height) Cycle() int64 {
	return int64(h) / CYCLE_INTERVAL
}

func (h Height) Period() int64 {
	return int64(h) / DIFFCHANGE_INTERVAL
}

func (h Height) PeriodOffset() int64 {
	return int64(h) % DIFFCHANGE_INTERVAL
}

func (h Height) EpochOffset() int64 {
	return int64(h) % SUBSIDY_HALVING_INTERVAL
}
