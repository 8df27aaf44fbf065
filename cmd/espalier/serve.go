package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/espalier"
	httpAdapter "github.com/aretw0/espalier/internal/adapters/http"
	redisAdapter "github.com/aretw0/espalier/internal/adapters/redis"
	"github.com/aretw0/espalier/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stateless HTTP server",
	Long:  `Starts the espalier engine in server mode, exposing a JSON routing API over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		port, _ := cmd.Flags().GetString("port")
		redisAddr, _ := cmd.Flags().GetString("redis")
		level, _ := cmd.Flags().GetString("log-level")

		logger := logging.New(logging.ParseLevel(level))
		registry := prometheus.NewRegistry()

		opts := []espalier.Option{
			espalier.WithLogger(logger),
			espalier.WithMetrics(registry),
		}

		var journal *redisAdapter.Journal
		if redisAddr != "" {
			journal = redisAdapter.New(redisAddr, "", 0)
			defer journal.Close()
			opts = append(opts, espalier.WithJournal(journal))
		}

		engine, err := espalier.New(configPath, opts...)
		if err != nil {
			fmt.Printf("Error initializing espalier: %v\n", err)
			os.Exit(1)
		}

		handlerOpts := []httpAdapter.HandlerOption{
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMetricsHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})),
		}
		if journal != nil {
			handlerOpts = append(handlerOpts, httpAdapter.WithJournal(journal))
		}
		handler := httpAdapter.NewHandler(engine, handlerOpts...)

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Espalier Server on %s\n", srv.Addr)
			fmt.Printf("Routing with configuration: %s\n", configPath)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			// Error when starting HTTP server.
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Espalier Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for the decision journal (empty disables it)")
	serveCmd.Flags().String("log-level", "info", "Log level: debug, info, warn or error")
}
