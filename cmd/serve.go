package main

import (
	"context"
	"errors"
	ctx "github.com/oishi/portfolio/pkg/context"
	"github.com/oishi/portfolio/pkg/jobs"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	warmTimeout     = 2 * time.Minute
	shutdownTimeout = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gateway",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
}

func runServe(cmd *cobra.Command, _ []string) error {
	config, err := prepare()
	if err != nil {
		return err
	}

	gateway := ctx.NewContext(config, nil)
	gateway.SetupContent()
	gateway.SetupAuth()
	gateway.SetupRouters(config.Routers)

	running, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go jobs.WarmContent(running, gateway.Catalog(), warmTimeout)
	if _, err := jobs.ScheduleContentWarmer(running, config.ContentCache.WarmSchedule, gateway.Catalog(), warmTimeout); err != nil {
		return err
	}

	port := viper.GetInt("port")
	server := gateway.BuildServer(port)
	go func() {
		<-running.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdown); err != nil {
			log.Warnf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Server starting on port %v", port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
