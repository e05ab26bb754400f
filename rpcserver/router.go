package rpcserver

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ordview-labs/ordview/common"
	"github.com/ordview-labs/ordview/config"
	"github.com/ordview-labs/ordview/rpcserver/ordinals"
	"github.com/ordview-labs/ordview/share/base_indexer"
)

const (
	STRICT_TRANSPORT_SECURITY = "strict-transport-security"
	CONTENT_SECURITY_POLICY   = "content-security-policy"
	VARY                      = "vary"
)

type Rpc struct {
	ordinalsService *ordinals.Service
	servers         []*http.Server
}

func NewRpc() *Rpc {
	return &Rpc{
		ordinalsService: ordinals.NewService(base_indexer.ShareBaseIndexer),
	}
}

// Start builds the gin engine and brings up the configured listeners.
// Each listener is bound synchronously so port conflicts surface here;
// startup fails only when no listener could be bound.
func (s *Rpc) Start(conf *config.YamlConf) error {
	rpcConf := &conf.RPCService

	r, err := s.buildEngine(rpcConf)
	if err != nil {
		return err
	}

	httpPort, httpsPort := ListenPorts(rpcConf)
	if httpPort == 0 && httpsPort == 0 {
		return fmt.Errorf("no listener configured")
	}

	var started int
	var lastErr error

	if httpPort != 0 {
		addr := fmt.Sprintf("%s:%d", rpcConf.Addr, httpPort)
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			common.Log.Errorf("http listener %s: %v", addr, err)
			lastErr = err
		} else {
			srv := &http.Server{Handler: r}
			s.servers = append(s.servers, srv)
			started++
			common.Log.Infof("http service listening on %s", addr)
			go func() {
				if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
					common.Log.Errorf("http service: %v", err)
				}
			}()
		}
	}

	if httpsPort != 0 {
		addr := fmt.Sprintf("%s:%d", rpcConf.Addr, httpsPort)
		tlsConf, err := acmeTLSConfig(conf)
		if err != nil {
			return err
		}
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			common.Log.Errorf("https listener %s: %v", addr, err)
			lastErr = err
		} else {
			srv := &http.Server{Handler: r, TLSConfig: tlsConf}
			s.servers = append(s.servers, srv)
			started++
			common.Log.Infof("https service listening on %s", addr)
			go func() {
				if err := srv.ServeTLS(ln, "", ""); err != nil && err != http.ErrServerClosed {
					common.Log.Errorf("https service: %v", err)
				}
			}()
		}
	}

	if started == 0 {
		return fmt.Errorf("all listeners failed: %v", lastErr)
	}
	return nil
}

func (s *Rpc) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, srv := range s.servers {
		if err := srv.Shutdown(ctx); err != nil {
			common.Log.Errorf("rpc shutdown: %v", err)
		}
	}
	s.servers = nil
}

// ListenPorts decides which listeners to run. Plain http runs when
// enabled explicitly, when an http port is given, or when https is not
// configured at all; https runs when enabled explicitly or an https
// port is given. Defaults are 80 and 443.
func ListenPorts(conf *config.RPCService) (httpPort, httpsPort int) {
	enableHTTPS := conf.HTTPS.Enabled || conf.HTTPS.Port != 0
	enableHTTP := conf.HTTP.Enabled || conf.HTTP.Port != 0 || !enableHTTPS

	if enableHTTP {
		httpPort = conf.HTTP.Port
		if httpPort == 0 {
			httpPort = 80
		}
	}
	if enableHTTPS {
		httpsPort = conf.HTTPS.Port
		if httpsPort == 0 {
			httpsPort = 443
		}
	}
	return httpPort, httpsPort
}

func (s *Rpc) buildEngine(conf *config.RPCService) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	var writers []io.Writer
	if conf.LogPath != "" {
		file, err := config.NewRotatingWriter(conf.LogPath, ".rpc", 7*24*time.Hour)
		if err != nil {
			return nil, err
		}
		writers = append(writers, file)
	}
	writers = append(writers, os.Stdout)
	gin.DefaultWriter = io.MultiWriter(writers...)
	r.Use(logger.SetLogger(
		logger.WithLogger(logger.Fn(func(c *gin.Context, l zerolog.Logger) zerolog.Logger {
			return l.With().Str("host", c.Request.Host).Logger()
		})),
	))

	corsConf := cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Length", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	corsConf.OptionsResponseStatusCode = 200
	r.Use(cors.New(corsConf))

	// common header
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set(VARY, "Origin")
		c.Writer.Header().Add(VARY, "Access-Control-Request-Method")
		c.Writer.Header().Add(VARY, "Access-Control-Request-Headers")

		c.Writer.Header().Set(
			CONTENT_SECURITY_POLICY,
			"default-src 'self'",
		)

		c.Writer.Header().Set(
			STRICT_TRANSPORT_SECURITY,
			"max-age=31536000; includeSubDomains; preload",
		)

		c.Next()
	})

	if conf.RateLimit > 0 {
		lmt := tollbooth.NewLimiter(float64(conf.RateLimit), &limiter.ExpirableOptions{
			DefaultExpirationTTL: time.Hour,
		})
		lmt.SetIPLookups([]string{"RemoteAddr", "X-Forwarded-For", "X-Real-IP"})
		r.Use(func(c *gin.Context) {
			if err := tollbooth.LimitByRequest(lmt, c.Writer, c.Request); err != nil {
				c.String(http.StatusTooManyRequests, "too many requests")
				c.Abort()
				return
			}
			c.Next()
		})
	}

	r.Use(CompressionMiddleware())

	basePath := strings.TrimSuffix(conf.Proxy, "/")
	s.ordinalsService.InitRouter(r, basePath)
	return r, nil
}
