package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/naveenspark/stageremote/internal/stagetwin"
	"github.com/naveenspark/stageremote/pkg/domain"
)

const sandboxRoom = "DEMO1234"

// runSandbox serves an in-memory stand-in of the service until interrupted.
func runSandbox(addr string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	key := "sbx-" + uuid.NewString()

	twin := stagetwin.New(sandboxRoom, key,
		stagetwin.WithLogger(logger),
		stagetwin.WithPingInterval(25*time.Second),
	)
	twin.Seed(
		domain.Timer{Name: "Welcome", Minutes: domain.IntPtr(5)},
		domain.Timer{Name: "Keynote", Minutes: domain.IntPtr(30)},
		domain.Timer{Name: "Q&A", Minutes: domain.IntPtr(10)},
	)

	srv := &http.Server{Addr: addr, Handler: twin, ReadHeaderTimeout: 10 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	base := "http://" + addr
	fmt.Printf("Sandbox listening on %s\n\n", base)
	fmt.Printf("  STAGEREMOTE_API_URL=%s/v1 STAGEREMOTE_SOCKET_URL=%s \\\n", base, base)
	fmt.Printf("    stageremote login %s %s\n\n", sandboxRoom, key)

	select {
	case err := <-errCh:
		return fmt.Errorf("sandbox server: %w", err)
	case <-ctx.Done():
	}
	shutCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}
