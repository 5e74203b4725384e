package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 5 * time.Second

// Listen binds addr so callers can fail before starting anything else.
func Listen(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("diagnostics listen %s: %w", addr, err)
	}
	return ln, nil
}

// Serve runs e on ln until ctx is cancelled, then shuts it down. ln is
// closed on return.
func Serve(ctx context.Context, e *echo.Echo, ln net.Listener, log zerolog.Logger) error {
	e.Listener = ln
	addr := ln.Addr().String()

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("diagnostics server listening")
		errc <- e.Start(addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("diagnostics server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("diagnostics shutdown: %w", err)
	}
	log.Info().Msg("diagnostics server stopped")
	return nil
}
