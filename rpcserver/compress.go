package rpcserver

import (
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
)

const (
	CONTENT_ENCODING = "content-encoding"
)

type compressWriter struct {
	gin.ResponseWriter
	w io.Writer
}

func (cw *compressWriter) Write(p []byte) (int, error) {
	return cw.w.Write(p)
}

func (cw *compressWriter) WriteString(s string) (int, error) {
	return cw.w.Write([]byte(s))
}

// CompressionMiddleware encodes responses with brotli or gzip when the
// client accepts either, preferring brotli. Content-Length is dropped
// since the encoded size is unknown up front.
func CompressionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		accept := c.GetHeader("Accept-Encoding")

		var encoder io.WriteCloser
		switch {
		case strings.Contains(accept, "br"):
			c.Header(CONTENT_ENCODING, "br")
			encoder = brotli.NewWriter(c.Writer)
		case strings.Contains(accept, "gzip"):
			c.Header(CONTENT_ENCODING, "gzip")
			encoder = gzip.NewWriter(c.Writer)
		default:
			c.Next()
			return
		}
		c.Header("Vary", "Accept-Encoding")
		c.Writer.Header().Del("Content-Length")

		cw := &compressWriter{ResponseWriter: c.Writer, w: encoder}
		c.Writer = cw
		defer func() {
			encoder.Close()
		}()
		c.Next()
	}
}
