package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"youtrack-mcp-server/internal/application"
	"youtrack-mcp-server/internal/domain"
	"youtrack-mcp-server/internal/infrastructure"
)

var (
	configPath string
	logLevel   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "youtrack-mcp-server",
		Short: "MCP server exposing YouTrack issues, projects, search and users as tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s %s\n", application.ServerName, application.ServerVersion)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if err := configureLogging(); err != nil {
		return err
	}
	log := logrus.WithField("component", "main")

	log.WithField("path", configPath).Info("loading configuration")
	config, err := domain.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	authManager := domain.NewAuthenticationManagerFromConfig(config)
	httpClient, err := authManager.GetAuthenticatedClient()
	if err != nil {
		return fmt.Errorf("failed to create authenticated client: %w", err)
	}

	client := infrastructure.NewYouTrackClient(config.YouTrack.BaseURL, httpClient)
	defer client.Close()
	log.WithField("base_url", client.BaseURL()).Info("YouTrack client initialized")

	projectTools := application.NewProjectTools(client)
	issueTools := application.NewIssueTools(client, projectTools)
	searchTools := application.NewSearchTools(client)
	userTools := application.NewUserTools(client)

	router := application.NewRequestRouter(
		application.NewIssueHandler(issueTools),
		application.NewProjectHandler(projectTools),
		application.NewSearchHandler(searchTools),
		application.NewUserHandler(userTools),
		application.NewGuideHandler(application.NewSearchGuide()),
	)
	log.WithField("tools", len(router.ListAllTools())).Info("request router initialized")

	var transport domain.Transport
	switch config.Transport.Type {
	case "stdio":
		transport = domain.NewStdioTransport()
	case "http":
		transport = domain.NewHTTPTransport(config.Transport.HTTP.Host, config.Transport.HTTP.Port)
	default:
		return fmt.Errorf("invalid transport type: %s", config.Transport.Type)
	}

	server := application.NewServer(transport, router, config)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("server failed to start: %w", err)
	}

	select {
	case sig := <-sigChan:
		log.WithField("signal", sig.String()).Info("shutdown signal received")
		cancel()
	case <-ctx.Done():
	}

	if err := server.Close(); err != nil {
		return fmt.Errorf("error during server shutdown: %w", err)
	}

	log.Info("server shutdown complete")
	return nil
}

// configureLogging routes logs to stderr so stdio transport keeps stdout
// exclusively for JSON-RPC frames.
func configureLogging() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return nil
}
