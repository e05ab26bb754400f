package common

// Epoch is a block-subsidy halving era. Subsidies run out after epoch 32.
type Epoch int64

var epochStartingSats [FIRST_POST_SUBSIDY_EPOCH + 1]Sat

func init() {
	sat := Sat(0)
	for e := Epoch(0); e <= FIRST_POST_SUBSIDY_EPOCH; e++ {
		epochStartingSats[e] = sat
		sat += Sat(SUBSIDY_HALVING_INTERVAL * e.Subsidy())
	}
}

func (e Epoch) Subsidy() int64 {
	if e >= FIRST_POST_SUBSIDY_EPOCH {
		return 0
	}
	return (50 * COIN_VALUE) >> uint(e)
}

func (e Epoch) StartingSat() Sat {
	if e > FIRST_POST_SUBSIDY_EPOCH {
		return Sat(SupplySats)
	}
	return epochStartingSats[e]
}

func (e Epoch) StartingHeight() Height {
	return Height(int64(e) * SUBSIDY_HALVING_INTERVAL)
}

// EpochOf returns the epoch a sat was mined in.
func EpochOf(sat Sat) Epoch {
	lo, hi := Epoch(0), Epoch(FIRST_POST_SUBSIDY_EPOCH)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if epochStartingSats[mid] <= sat {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}
