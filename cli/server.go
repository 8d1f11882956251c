package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jotfox-notes/jotfox/broker"
	"jotfox-notes/jotfox/database"
	"jotfox-notes/jotfox/routes"
	"jotfox-notes/jotfox/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newAPICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "api",
		Short: "Run the REST API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPI(cmd.Context(), app)
		},
	}
}

func newUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Run the websocket bridge the browser UI talks to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd.Context(), app)
		},
	}
}

func runAPI(ctx context.Context, app *App) error {
	cfg := app.cfg
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Setup(cfg)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer db.Close()

	if cfg.NATSURL == "" {
		log.Warn().Msg("NATS_URL not set, outbox events will stay pending")
	} else if producer, err := broker.NewNATSProducer(cfg.NATSURL); err != nil {
		log.Warn().Err(err).Msg("nats unavailable, outbox events will stay pending")
	} else {
		defer producer.Close()
		eventHandlerService := services.NewEventHandlerService(db, producer)
		services.EventHandlerServiceInstance = eventHandlerService
		eventHandlerService.Start()
		defer eventHandlerService.Stop()
	}

	authService := services.NewAuthService(cfg.JWTSecret, cfg.JWTExpirationHours)
	services.AuthServiceInstance = authService

	router := routes.NewAPIRouter(db, cfg.AllowedOrigins, authService, services.NoteItemServiceInstance)
	return serve(ctx, ":"+cfg.AppPort, router, "api")
}

func runUI(ctx context.Context, app *App) error {
	cfg := app.cfg
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	wsService := services.NewWebSocketService(services.ClientGatewayFactory(cfg.APIURL))
	services.WebSocketServiceInstance = wsService
	defer wsService.Stop()

	router := routes.NewUIRouter(cfg.AllowedOrigins, wsService)
	return serve(ctx, ":"+cfg.UIPort, router, "ui")
}

// serve runs handler until ctx is done or the process is interrupted.
func serve(ctx context.Context, addr string, handler http.Handler, name string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("server", name).Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Str("server", name).Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newEventsCmd(app *App) *cobra.Command {
	events := &cobra.Command{
		Use:   "events",
		Short: "Inspect the change events the API publishes",
	}

	var subject string
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Print events from NATS as they arrive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.cfg.NATSURL == "" {
				return errors.New("NATS_URL is not set")
			}
			consumer, err := broker.NewConsumer(app.cfg.NATSURL, subject)
			if err != nil {
				return err
			}
			defer consumer.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return printEvents(ctx, cmd, consumer.Messages())
		},
	}
	tail.Flags().StringVar(&subject, "subject", broker.AllEvents, "NATS subject to follow")
	events.AddCommand(tail)
	return events
}

func printEvents(ctx context.Context, cmd *cobra.Command, messages <-chan broker.Message) error {
	out := cmd.OutOrStdout()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			fmt.Fprintf(out, "%s\t%s\t%s\n", msg.Subject, msg.EventType, msg.Data)
		}
	}
}
