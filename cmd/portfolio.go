package main

import (
	"fmt"
	"github.com/joho/godotenv"
	ctx "github.com/oishi/portfolio/pkg/context"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
	"os"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Portfolio gateway",
	Long: `Gateway in front of the portfolio site.

It guards private pages with the access gate, serves the auth, article
and works endpoints and proxies everything else to the page renderer.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ./config.yml or ./cmd/config.yml)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(syncCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// prepare loads .env, the config file and the environment secrets, then sets up logging.
func prepare() (*ctx.PortfolioConfiguration, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("Loading .env error: %v", err)
	}
	if err := configInit(); err != nil {
		return nil, err
	}
	config, err := loadConfig()
	if err != nil {
		return nil, err
	}
	setupLogging(config.LogLevel)

	bytes, _ := yaml.Marshal(config)
	log.Tracef("Resolved config:\n%+v", string(bytes))
	return config, nil
}

func setupLogging(logLevel ctx.LogLevel) {
	log.SetFormatter(&log.TextFormatter{
		ForceColors: true,
	})

	switch logLevel {
	case ctx.Info:
		log.SetLevel(log.InfoLevel)
	case ctx.Debug:
		log.SetLevel(log.DebugLevel)
	case ctx.Trace:
		log.SetLevel(log.TraceLevel)
	default:
		log.SetLevel(log.WarnLevel)
	}
}

func loadConfig() (*ctx.PortfolioConfiguration, error) {
	var config ctx.PortfolioConfiguration
	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, fmt.Errorf("Fatal error config file: %s", err)
	}

	config.Cognito.UserPoolId = envOr("COGNITO_USER_POOL_ID", config.Cognito.UserPoolId)
	config.Cognito.ClientId = envOr("COGNITO_CLIENT_ID", config.Cognito.ClientId)
	config.Cognito.Region = envOr("AWS_REGION", config.Cognito.Region)
	config.MicroCms.ServiceDomain = envOr("MICROCMS_SERVICE_DOMAIN", config.MicroCms.ServiceDomain)
	config.MicroCms.ApiKey = envOr("MICROCMS_API_KEY", config.MicroCms.ApiKey)
	config.Github.Token = envOr("GITHUB_TOKEN", config.Github.Token)
	return &config, nil
}

func envOr(name string, fallback string) string {
	_ = viper.BindEnv(name)
	if value := viper.GetString(name); value != "" {
		return value
	}
	return fallback
}

func configInit() error {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./cmd")
	}

	// Defaults
	viper.SetDefault("port", 8080)
	viper.SetDefault("cognito.region", "ap-northeast-1")
	viper.SetDefault("microcms.service-domain", "portfolio-oishi")
	viper.SetDefault("microcms.endpoint", "blog")
	viper.SetDefault("microcms.limit", 100)
	viper.SetDefault("github.owner", "ohishi-Ta")
	viper.SetDefault("github.repository", "Zenn")
	viper.SetDefault("github.articles-expression", "main:articles")
	viper.SetDefault("github.tag-mapping-expression", "main-actions:public/tags-mapping.json")
	viper.SetDefault("content-cache.expiration-time-minutes", 60)
	viper.SetDefault("content-cache.evict-schedule-time-minutes", 10)
	viper.SetDefault("content-cache.warm-schedule", "@every 1h")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("Fatal error config file: %s", err)
	}
	return nil
}
