package api

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"taskbook-api/domain"
)

// DefaultBodyLimit caps request bodies after decompression.
const DefaultBodyLimit = 64 << 10

// BodyMiddleware caps the request body at limit bytes and inflates
// gzip-encoded bodies so handlers always read plain JSON. The limit applies
// to the inflated stream as well. A body that is not valid gzip is answered
// with a 400 envelope.
func BodyMiddleware(limit int64) echo.MiddlewareFunc {
	if limit <= 0 {
		limit = DefaultBodyLimit
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Body == nil || req.Body == http.NoBody {
				return next(c)
			}
			req.Body = http.MaxBytesReader(c.Response(), req.Body, limit)

			if !isGzip(req.Header.Get(echo.HeaderContentEncoding)) {
				return next(c)
			}
			zr, err := gzip.NewReader(req.Body)
			if err != nil {
				_ = req.Body.Close()
				metricsFrom(c).SetErrorStage("decompress")
				return c.JSON(http.StatusBadRequest, domain.Fail(errInvalidBody))
			}
			req.Body = &inflated{zr: zr, raw: req.Body, left: limit, limit: limit}
			req.ContentLength = -1
			req.Header.Del(echo.HeaderContentEncoding)
			req.Header.Del(echo.HeaderContentLength)
			return next(c)
		}
	}
}

func isGzip(encoding string) bool {
	for _, enc := range strings.Split(encoding, ",") {
		switch strings.ToLower(strings.TrimSpace(enc)) {
		case "gzip", "x-gzip":
			return true
		}
	}
	return false
}

// inflated reads the decompressed body and fails with *http.MaxBytesError
// once more than limit bytes come out of it. Close closes the gzip reader
// and the raw body it wraps.
type inflated struct {
	zr    *gzip.Reader
	raw   io.Closer
	left  int64
	limit int64
}

func (b *inflated) Read(p []byte) (int, error) {
	if b.left < 0 {
		return 0, &http.MaxBytesError{Limit: b.limit}
	}
	if int64(len(p)) > b.left+1 {
		p = p[:b.left+1]
	}
	n, err := b.zr.Read(p)
	if int64(n) > b.left {
		n = int(b.left)
		b.left = -1
		return n, &http.MaxBytesError{Limit: b.limit}
	}
	b.left -= int64(n)
	return n, err
}

func (b *inflated) Close() error {
	zerr := b.zr.Close()
	if err := b.raw.Close(); err != nil {
		return err
	}
	return zerr
}
