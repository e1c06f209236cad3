package xhttp

import (
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/subtrack/reminder-gateway/pkg/logger"
)

// ServerOption carries the fasthttp knobs we care about. Zero values fall
// back to the defaults below.
type ServerOption struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ReadBufferSize  int
	WriteBufferSize int
	Concurrency     int
}

var DefaultServerOption = ServerOption{
	ReadTimeout:     time.Millisecond * 2500,
	WriteTimeout:    time.Millisecond * 2500,
	IdleTimeout:     time.Second * 10,
	ReadBufferSize:  1024 * 4,
	WriteBufferSize: 1024 * 4,
	Concurrency:     1024,
}

// NewRouter returns a fasthttp router with a NotFound fallback already set.
func NewRouter() *router.Router {
	r := router.New()
	r.NotFound = func(ctx *fasthttp.RequestCtx) {
		ctx.Error(fasthttp.StatusMessage(fasthttp.StatusNotFound), fasthttp.StatusNotFound)
	}
	return r
}

// Serve blocks serving r on addr. Intended for auxiliary surfaces
// (metrics, health); errors are returned to the caller to decide on.
func Serve(addr string, r *router.Router, opts ...ServerOption) error {
	opt := DefaultServerOption
	if len(opts) > 0 {
		o := opts[0]
		if o.ReadTimeout > 0 {
			opt.ReadTimeout = o.ReadTimeout
		}
		if o.WriteTimeout > 0 {
			opt.WriteTimeout = o.WriteTimeout
		}
		if o.IdleTimeout > 0 {
			opt.IdleTimeout = o.IdleTimeout
		}
		if o.ReadBufferSize > 0 {
			opt.ReadBufferSize = o.ReadBufferSize
		}
		if o.WriteBufferSize > 0 {
			opt.WriteBufferSize = o.WriteBufferSize
		}
		if o.Concurrency > 0 {
			opt.Concurrency = o.Concurrency
		}
	}

	srv := &fasthttp.Server{
		Handler:         r.Handler,
		ReadTimeout:     opt.ReadTimeout,
		WriteTimeout:    opt.WriteTimeout,
		IdleTimeout:     opt.IdleTimeout,
		ReadBufferSize:  opt.ReadBufferSize,
		WriteBufferSize: opt.WriteBufferSize,
		Concurrency:     opt.Concurrency,
		ErrorHandler: func(ctx *fasthttp.RequestCtx, err error) {
			logger.Warn("http server error", "error", err)
		},
	}

	logger.Info("http server listening", "addr", addr)
	return srv.ListenAndServe(addr)
}
