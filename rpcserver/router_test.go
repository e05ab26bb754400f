package rpcserver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ordview-labs/ordview/config"
)

func TestListenPortsDefaults(t *testing.T) {
	// nothing configured: plain http on 80
	httpPort, httpsPort := ListenPorts(&config.RPCService{})
	assert.Equal(t, 80, httpPort)
	assert.Equal(t, 0, httpsPort)
}

func TestListenPortsHTTPOnly(t *testing.T) {
	httpPort, httpsPort := ListenPorts(&config.RPCService{
		HTTP: config.Listener{Enabled: true},
	})
	assert.Equal(t, 80, httpPort)
	assert.Equal(t, 0, httpsPort)

	httpPort, httpsPort = ListenPorts(&config.RPCService{
		HTTP: config.Listener{Port: 8080},
	})
	assert.Equal(t, 8080, httpPort)
	assert.Equal(t, 0, httpsPort)
}

func TestListenPortsHTTPSOnly(t *testing.T) {
	// configuring https alone disables the implicit http listener
	httpPort, httpsPort := ListenPorts(&config.RPCService{
		HTTPS: config.Listener{Enabled: true},
	})
	assert.Equal(t, 0, httpPort)
	assert.Equal(t, 443, httpsPort)

	httpPort, httpsPort = ListenPorts(&config.RPCService{
		HTTPS: config.Listener{Port: 8443},
	})
	assert.Equal(t, 0, httpPort)
	assert.Equal(t, 8443, httpsPort)
}

func TestListenPortsBoth(t *testing.T) {
	httpPort, httpsPort := ListenPorts(&config.RPCService{
		HTTP:  config.Listener{Enabled: true},
		HTTPS: config.Listener{Port: 8443},
	})
	assert.Equal(t, 80, httpPort)
	assert.Equal(t, 8443, httpsPort)

	// an explicit http port keeps http alive next to https
	httpPort, httpsPort = ListenPorts(&config.RPCService{
		HTTP:  config.Listener{Port: 8080},
		HTTPS: config.Listener{Enabled: true},
	})
	assert.Equal(t, 8080, httpPort)
	assert.Equal(t, 443, httpsPort)
}
