// Command audit-test drives the audit publisher with synthetic registry events
// so queue depth and drop metrics can be inspected by hand.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	id "tourmint/pkg/domain"
	audit "tourmint/pkg/platform/audit"
	auditmetrics "tourmint/pkg/platform/audit/metrics"
	auditpublisher "tourmint/pkg/platform/audit/publisher"
	auditstore "tourmint/pkg/platform/audit/store/memory"
)

func main() {
	metricsAddr := flag.String("metrics-addr", ":9090", "Address serving /metrics")
	buffer := flag.Int("buffer", 10, "Async buffer size")
	flood := flag.Int("flood", 20, "Events emitted without pause in the flood phase")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	metrics := auditmetrics.New()
	store := auditstore.NewInMemoryStore()
	publisher := auditpublisher.NewPublisher(
		store,
		auditpublisher.WithAsyncBuffer(*buffer),
		auditpublisher.WithPublisherMetrics(metrics),
		auditpublisher.WithPublisherLogger(logger),
	)
	defer publisher.Close()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: *metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		fmt.Printf("Metrics available at http://localhost%s/metrics\n", *metricsAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println("\n=== Audit Publisher Test ===")

	fmt.Println("1. Emitting 5 mint events (should all succeed)...")
	for i := 0; i < 5; i++ {
		if err := publisher.Emit(ctx, mintedEvent(id.CredentialID(i+1))); err != nil {
			fmt.Printf("   Event %d failed: %v\n", i+1, err)
		} else {
			fmt.Printf("   Event %d emitted\n", i+1)
		}
		time.Sleep(50 * time.Millisecond)
	}
	time.Sleep(200 * time.Millisecond)

	fmt.Printf("\n2. Flooding buffer with %d transfer events (buffer size is %d)...\n", *flood, *buffer)
	dropped := 0
	for i := 0; i < *flood; i++ {
		if err := publisher.Emit(ctx, transferredEvent(id.CredentialID(i%5+1))); err != nil {
			dropped++
		}
	}
	fmt.Printf("   Emitted %d events, %d dropped due to full buffer\n", *flood, dropped)
	time.Sleep(500 * time.Millisecond)

	fmt.Println("\n3. Checking store contents...")
	recent, err := store.ListRecent(ctx, 1000)
	if err != nil {
		fmt.Printf("   Listing failed: %v\n", err)
	}
	fmt.Printf("   Total events in store: %d\n", len(recent))
	history, _ := store.ListByCredential(ctx, 1) //nolint:errcheck // memory store never fails
	fmt.Printf("   Events for credential 1: %d\n", len(history))

	fmt.Println("\n=== Metrics Summary ===")
	fmt.Printf("Filter with: curl -s http://localhost%s/metrics | grep tourmint_audit\n", *metricsAddr)
	fmt.Println("\nPress Ctrl+C to exit...")

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx) //nolint:errcheck // exiting anyway
}

func mintedEvent(credentialID id.CredentialID) audit.Event {
	return audit.Event{
		Action:       string(audit.EventCredentialMinted),
		Actor:        "ST1MUSEUM",
		CredentialID: credentialID,
		RequestID:    uuid.New().String(),
	}
}

func transferredEvent(credentialID id.CredentialID) audit.Event {
	return audit.Event{
		Action:       string(audit.EventCredentialTransferred),
		Actor:        "ST1MUSEUM",
		CredentialID: credentialID,
		Recipient:    "ST1HOLDER",
		RequestID:    uuid.New().String(),
	}
}
