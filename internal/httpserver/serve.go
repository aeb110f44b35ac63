package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/taskdeck/taskdeck/internal/logutil"
)

// Serve runs handler on bind until ctx is cancelled, then drains
// in-flight requests before returning. Every request is expected to
// finish within a single bounded request/response cycle, so the
// timeouts are tight.
func Serve(ctx context.Context, bind string, handler http.Handler) error {
	server := http.Server{
		Handler:           handler,
		Addr:              bind,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
		ReadHeaderTimeout: time.Second * 30,
		IdleTimeout:       time.Minute * 2,
	}
	log := logutil.GetOrDefault(ctx).With().Str("server.addr", bind).Logger()
	errs := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting HTTP server")
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			// shutdown called, not a failure
			err = nil
		}
		errs <- err
	}()
	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		log.Info().Msg("Initiating shutdown process")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), time.Minute)
		defer cancelShutdown()
		err := server.Shutdown(shutdownCtx)
		log.Info().Msg("Shutdown completed")
		return err
	}
}
