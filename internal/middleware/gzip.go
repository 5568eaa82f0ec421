package middleware

import (
	"compress/gzip"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
)

var gzipReaderPool sync.Pool

var errBodyReleased = errors.New("gzip request body read after the handler returned")

// gzipBody inflates the request body. The gzip reader goes back to the pool
// once the handler returns; Close only closes the compressed source.
type gzipBody struct {
	zr  *gzip.Reader
	src io.ReadCloser
}

func (b *gzipBody) Read(p []byte) (int, error) {
	if b.zr == nil {
		return 0, errBodyReleased
	}
	return b.zr.Read(p)
}

func (b *gzipBody) Close() error {
	return b.src.Close()
}

func (b *gzipBody) release() {
	if b.zr == nil {
		return
	}
	_ = b.zr.Close()
	gzipReaderPool.Put(b.zr)
	b.zr = nil
}

// WithGzipRequest transparently inflates request bodies sent with
// Content-Encoding: gzip. Responses are compressed by chi's Compress.
func WithGzipRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		var (
			zr  *gzip.Reader
			err error
		)
		if pooled, ok := gzipReaderPool.Get().(*gzip.Reader); ok {
			zr = pooled
			if err = zr.Reset(r.Body); err != nil {
				gzipReaderPool.Put(zr)
			}
		} else {
			zr, err = gzip.NewReader(r.Body)
		}
		if err != nil {
			http.Error(w, "Failed to decompress request body", http.StatusBadRequest)
			return
		}

		body := &gzipBody{zr: zr, src: r.Body}
		defer body.release()

		r.Body = body
		r.Header.Del("Content-Encoding")
		r.Header.Del("Content-Length")
		r.ContentLength = -1

		next.ServeHTTP(w, r)
	})
}
