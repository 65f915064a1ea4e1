package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var CORS_ALLOWED_METHODS_ALL = [...]string{"GET", "POST", "HEAD", "OPTIONS"}
var CORS_ALLOWED_ORIGINS = []string{"*"}
var CORS_ALLOWED_HEADERS = []string{"Authorization", "Content-Type", CSRFHeader}

var CORS_HANDLER_ALLOWED_HEADERS = handlers.AllowedHeaders(CORS_ALLOWED_HEADERS)
var CORS_HANDLER_ALLOWED_ORIGINS = handlers.AllowedOrigins(CORS_ALLOWED_ORIGINS)
var CORS_HANDLER_ALLOWED_METHODS = handlers.AllowedMethods(CORS_ALLOWED_METHODS_ALL[:])

// Wrap adds panic recovery, an access log on stderr and CORS around h.
func Wrap(h http.Handler) http.Handler {
	h = handlers.CORS(CORS_HANDLER_ALLOWED_HEADERS, CORS_HANDLER_ALLOWED_ORIGINS, CORS_HANDLER_ALLOWED_METHODS)(h)
	h = handlers.CombinedLoggingHandler(os.Stderr, h)
	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)
}

// Run serves h on port until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context, port int, h http.Handler) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           Wrap(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		glog.Infof("http server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		glog.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
