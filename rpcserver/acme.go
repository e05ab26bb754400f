package rpcserver

import (
	"crypto/tls"
	"os"
	"path/filepath"

	"golang.org/x/crypto/acme/autocert"

	"github.com/ordview-labs/ordview/common"
	"github.com/ordview-labs/ordview/config"
)

// acmeTLSConfig builds a TLS config whose certificates come from
// Let's Encrypt. Certificates are cached on disk and renewed in the
// background by autocert; the only input actually required is a
// resolvable domain, which falls back to the machine's hostname.
func acmeTLSConfig(conf *config.YamlConf) (*tls.Config, error) {
	acmeConf := &conf.RPCService.ACME

	domains := acmeConf.Domains
	if len(domains) == 0 {
		hostname, err := os.Hostname()
		if err != nil {
			return nil, err
		}
		domains = []string{hostname}
	}

	cacheDir := acmeConf.CacheDir
	if cacheDir == "" {
		cacheDir = filepath.Join(conf.DB.Path, "acme-cache")
	}

	manager := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		Cache:      autocert.DirCache(cacheDir),
		HostPolicy: autocert.HostWhitelist(domains...),
	}
	if len(acmeConf.Contacts) > 0 {
		manager.Email = acmeConf.Contacts[0]
	}

	common.Log.Infof("acme domains %v, cache %s", domains, cacheDir)

	tlsConf := manager.TLSConfig()
	inner := tlsConf.GetCertificate
	tlsConf.GetCertificate = func(hello *tls.ClientHelloInfo) (*tls.Certificate, error) {
		cert, err := inner(hello)
		if err != nil {
			common.Log.Warnf("acme certificate for %s: %v", hello.ServerName, err)
		}
		return cert, err
	}
	return tlsConf, nil
}
