package common

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

func ChainParams(chain string) (*chaincfg.Params, error) {
	switch chain {
	case ChainMainnet:
		return &chaincfg.MainNetParams, nil
	case ChainTestnet:
		return &chaincfg.TestNet3Params, nil
	case ChainRegtest:
		return &chaincfg.RegressionNetParams, nil
	case ChainSignet:
		return &chaincfg.SigNetParams, nil
	default:
		return nil, fmt.Errorf("invalid chain: %s", chain)
	}
}

func PkScriptToAddr(pkScript []byte, params *chaincfg.Params) (string, error) {
	_, addrs, _, err := txscript.ExtractPkScriptAddrs(pkScript, params)
	if err != nil {
		return "", err
	}
	if len(addrs) == 0 {
		return "", fmt.Errorf("no address")
	}
	return addrs[0].EncodeAddress(), nil
}
