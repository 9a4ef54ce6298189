package middleware

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"io"
	"milkroute/internal/models"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Content types that are already compressed
var excludedContentTypes = []string{
	"image/",
	"video/",
	"audio/",
	"application/zip",
	"application/gzip",
}

// CompressionConfig holds configuration for the compression middleware
type CompressionConfig struct {
	// Minimum body size in bytes that is worth compressing
	MinLength int
	// Gzip compression level (1-9, higher = better compression but slower)
	Level int
}

// DefaultCompressionConfig returns the default compression configuration
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinLength: 1024,
		Level:     gzip.DefaultCompression,
	}
}

// shouldCompress checks if the response should be compressed based on content type
func shouldCompress(contentType string) bool {
	for _, excluded := range excludedContentTypes {
		if strings.HasPrefix(contentType, excluded) {
			return false
		}
	}
	return true
}

// Compression inflates gzip request bodies and gzips responses of at least
// cfg.MinLength bytes for clients that accept it
func Compression(cfg CompressionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Header.Get("Content-Encoding") == "gzip" {
			if err := inflateBody(c.Request); err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid gzip body"})
				return
			}
		}

		if !strings.Contains(c.Request.Header.Get("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}

		gzipWriter := &gzipResponseWriter{
			ResponseWriter: c.Writer,
			minLength:      cfg.MinLength,
			level:          cfg.Level,
			buf:            new(bytes.Buffer),
		}
		c.Writer = gzipWriter
		c.Header("Vary", "Accept-Encoding")

		c.Next()

		if err := gzipWriter.finish(); err != nil {
			_ = c.Error(err)
		}
	}
}

func inflateBody(r *http.Request) error {
	reader, err := gzip.NewReader(r.Body)
	if err != nil {
		return err
	}
	defer reader.Close()

	body, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	r.Header.Del("Content-Encoding")
	r.ContentLength = int64(len(body))
	return nil
}

// gzipResponseWriter buffers the body so the size is known before choosing
// an encoding
type gzipResponseWriter struct {
	gin.ResponseWriter
	minLength int
	level     int
	buf       *bytes.Buffer
}

func (g *gzipResponseWriter) Write(data []byte) (int, error) {
	return g.buf.Write(data)
}

func (g *gzipResponseWriter) WriteString(s string) (int, error) {
	return g.buf.WriteString(s)
}

func (g *gzipResponseWriter) finish() error {
	content := g.buf.Bytes()
	if len(content) == 0 {
		return nil
	}

	header := g.Header()
	compress := len(content) >= g.minLength &&
		header.Get("Content-Encoding") == "" &&
		shouldCompress(header.Get("Content-Type"))

	if !compress {
		_, err := g.ResponseWriter.Write(content)
		return err
	}

	gz, err := gzip.NewWriterLevel(g.ResponseWriter, g.level)
	if err != nil {
		return err
	}
	header.Set("Content-Encoding", "gzip")
	header.Del("Content-Length")

	if _, err := gz.Write(content); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}

func (g *gzipResponseWriter) Flush() {
	g.ResponseWriter.Flush()
}

func (g *gzipResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return g.ResponseWriter.Hijack()
}
