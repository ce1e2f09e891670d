package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/nmunir/threadscout/cmd/threadscout/slackcmd"
	"github.com/nmunir/threadscout/llm"
	"github.com/nmunir/threadscout/providers/openai"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "threadscout",
		Short:         "Slack assistant that searches and summarizes workspace conversations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ./threadscout.yaml, then $HOME/.config/threadscout/threadscout.yaml).")

	root.AddCommand(slackcmd.NewCommand(slackcmd.Dependencies{
		LoggerFromViper: loggerFromViper,
		CreateLLMClient: func(endpoint, apiKey, model string, timeout time.Duration) (llm.Client, error) {
			return openai.New(openai.Config{
				Endpoint:       endpoint,
				APIKey:         apiKey,
				Model:          model,
				RequestTimeout: timeout,
			})
		},
	}))
	return root
}

func initConfig() error {
	if strings.TrimSpace(cfgFile) != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("threadscout")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home + "/.config/threadscout")
		}
	}
	viper.SetEnvPrefix("THREADSCOUT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
	viper.SetDefault("llm.endpoint", "https://api.openai.com/v1")
	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("llm.request_timeout", 60*time.Second)
	viper.SetDefault("slack.max_concurrency", 3)
	viper.SetDefault("slack.task_timeout", 2*time.Minute)
	viper.SetDefault("slack.event_cache_size", 1024)
	viper.SetDefault("assistant.context_limit", 8)
	viper.SetDefault("assistant.max_results", 5)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if strings.TrimSpace(cfgFile) != "" {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
		if !errors.As(err, &notFound) {
			return err
		}
	}
	return nil
}

func loggerFromViper() (*slog.Logger, error) {
	level := slog.LevelInfo
	switch strings.ToLower(strings.TrimSpace(viper.GetString("log.level"))) {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log.level %q", viper.GetString("log.level"))
	}
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(strings.TrimSpace(viper.GetString("log.format"))) {
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log.format %q", viper.GetString("log.format"))
	}
}
