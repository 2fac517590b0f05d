// Package middleware carries the gin middleware the HTTP surface installs
// ahead of the four C7 handlers. Grounded on the teacher's
// pkg/middleware/compression.go, trimmed to the one call site
// (internal/api/router.go uses only the default-level gzip wrapper — the
// configurable-level and opt-out variants had no caller in the teacher's
// own tree either).
//
// JSON and text/srt response bodies (the only bodies this gateway ever
// writes, per spec.md §6) benefit from gzip; the sizable part of a
// request, the uploaded audio, never flows through this writer since it's
// consumed as a multipart form on the way in, not emitted on the way out.
package middleware

import (
	"compress/gzip"
	"io"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

var gzipWriterPool = sync.Pool{
	New: func() interface{} {
		gz, _ := gzip.NewWriterLevel(io.Discard, gzip.DefaultCompression)
		return gz
	},
}

// gzipWriter wraps gin.ResponseWriter so writes flow through gzip instead
// of straight to the connection.
type gzipWriter struct {
	gin.ResponseWriter
	gw *gzip.Writer
}

func (g *gzipWriter) Write(data []byte) (int, error) {
	return g.gw.Write(data)
}

func (g *gzipWriter) WriteString(s string) (int, error) {
	return g.gw.Write([]byte(s))
}

var compressibleTypes = []string{
	"application/json",
	"application/javascript",
	"text/html",
	"text/css",
	"text/plain",
	"text/xml",
	"application/xml",
}

func shouldCompress(c *gin.Context) bool {
	if !strings.Contains(c.Request.Header.Get("Accept-Encoding"), "gzip") {
		return false
	}

	contentType := c.Writer.Header().Get("Content-Type")
	if contentType == "" {
		contentType = c.ContentType()
	}
	for _, ct := range compressibleTypes {
		if strings.Contains(contentType, ct) {
			return true
		}
	}
	return false
}

func isStreamingResponse(c *gin.Context) bool {
	contentType := c.Writer.Header().Get("Content-Type")
	return strings.Contains(contentType, "text/event-stream") ||
		strings.Contains(contentType, "application/octet-stream")
}

// CompressionMiddleware gzip-encodes compressible response bodies when the
// client advertises support for it, reusing pooled writers across requests.
func CompressionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "HEAD" ||
			c.Request.Header.Get("Connection") == "Upgrade" ||
			isStreamingResponse(c) ||
			!shouldCompress(c) {
			c.Next()
			return
		}

		gz := gzipWriterPool.Get().(*gzip.Writer)
		defer gzipWriterPool.Put(gz)
		gz.Reset(c.Writer)
		defer gz.Close()

		c.Writer.Header().Set("Content-Encoding", "gzip")
		c.Writer.Header().Set("Vary", "Accept-Encoding")
		c.Writer.Header().Del("Content-Length")

		c.Writer = &gzipWriter{ResponseWriter: c.Writer, gw: gz}
		c.Next()
	}
}