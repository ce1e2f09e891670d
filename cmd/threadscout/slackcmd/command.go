package slackcmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nmunir/threadscout/internal/assistant"
	"github.com/nmunir/threadscout/internal/configutil"
	"github.com/nmunir/threadscout/internal/dedupe"
	"github.com/nmunir/threadscout/internal/healthcheck"
	"github.com/nmunir/threadscout/internal/homeview"
	"github.com/nmunir/threadscout/internal/slackapi"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newSlackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slack",
		Short: "Run the assistant against Slack with Socket Mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			botToken := strings.TrimSpace(configutil.FlagOrViperString(cmd, "slack-bot-token", "slack.bot_token"))
			if botToken == "" {
				return fmt.Errorf("missing slack.bot_token (set via --slack-bot-token or THREADSCOUT_SLACK_BOT_TOKEN)")
			}
			appToken := strings.TrimSpace(configutil.FlagOrViperString(cmd, "slack-app-token", "slack.app_token"))
			if appToken == "" {
				return fmt.Errorf("missing slack.app_token (set via --slack-app-token or THREADSCOUT_SLACK_APP_TOKEN)")
			}
			userToken := strings.TrimSpace(configutil.FlagOrViperString(cmd, "slack-user-token", "slack.user_token"))
			if userToken == "" {
				return fmt.Errorf("missing slack.user_token (set via --slack-user-token or THREADSCOUT_SLACK_USER_TOKEN)")
			}

			allowedTeams := toAllowlist(configutil.FlagOrViperStringArray(cmd, "slack-allowed-team-id", "slack.allowed_team_ids"))
			allowedChannels := toAllowlist(configutil.FlagOrViperStringArray(cmd, "slack-allowed-channel-id", "slack.allowed_channel_ids"))

			logger, err := loggerFromViper()
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			httpClient := &http.Client{Timeout: 30 * time.Second}
			api, err := slackapi.New(slackapi.Options{
				HTTPClient: httpClient,
				BotToken:   botToken,
				AppToken:   appToken,
				UserToken:  userToken,
			})
			if err != nil {
				return err
			}
			auth, err := api.AuthTest(cmd.Context())
			if err != nil {
				return fmt.Errorf("slack auth.test: %w", err)
			}
			botUserID := strings.TrimSpace(auth.UserID)
			if botUserID == "" {
				return fmt.Errorf("slack auth.test returned empty user_id")
			}
			if len(allowedTeams) == 0 && strings.TrimSpace(auth.TeamID) != "" {
				allowedTeams[strings.TrimSpace(auth.TeamID)] = true
			}

			client, err := llmClientFromConfig(
				strings.TrimSpace(viper.GetString("llm.endpoint")),
				strings.TrimSpace(viper.GetString("llm.api_key")),
				strings.TrimSpace(viper.GetString("llm.model")),
				viper.GetDuration("llm.request_timeout"),
			)
			if err != nil {
				return err
			}

			profile, err := assistant.LoadProfile(configutil.FlagOrViperString(cmd, "assistant-profile", "assistant.profile_path"))
			if err != nil {
				return err
			}
			homeViewRaw, err := homeview.Load(configutil.FlagOrViperString(cmd, "home-view", "assistant.home_view_path"))
			if err != nil {
				return err
			}

			bot, err := assistant.New(assistant.Options{
				LLM:          client,
				Workspace:    api,
				Profile:      profile,
				Logger:       logger,
				BotUserID:    botUserID,
				ContextLimit: viper.GetInt("assistant.context_limit"),
				MaxResults:   viper.GetInt("assistant.max_results"),
				HomeView:     homeViewRaw,
			})
			if err != nil {
				return err
			}

			taskTimeout := configutil.FlagOrViperDuration(cmd, "slack-task-timeout", "slack.task_timeout")
			if taskTimeout <= 0 {
				taskTimeout = 2 * time.Minute
			}
			maxConc := configutil.FlagOrViperInt(cmd, "slack-max-concurrency", "slack.max_concurrency")
			if maxConc <= 0 {
				maxConc = 3
			}
			sem := make(chan struct{}, maxConc)

			seen := dedupe.NewCache(viper.GetInt("slack.event_cache_size"))

			healthListen := healthcheck.NormalizeListen(configutil.FlagOrViperString(cmd, "health-listen", "health.listen"))
			if healthListen != "" {
				healthServer, err := healthcheck.StartServer(cmd.Context(), logger, healthListen, "slack")
				if err != nil {
					logger.Warn("slack_health_server_start_error", "addr", healthListen, "error", err.Error())
				} else {
					defer func() {
						shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
						_ = healthServer.Shutdown(shutdownCtx)
						cancel()
					}()
				}
			}

			logger.Info("slack_start",
				"bot_user_id", botUserID,
				"allowed_team_ids", len(allowedTeams),
				"allowed_channel_ids", len(allowedChannels),
				"task_timeout", taskTimeout.String(),
				"max_concurrency", maxConc,
				"model", strings.TrimSpace(viper.GetString("llm.model")),
			)

			for {
				if cmd.Context().Err() != nil {
					logger.Info("slack_stop", "reason", "context_canceled")
					return nil
				}
				conn, err := api.ConnectSocket(cmd.Context())
				if err != nil {
					if cmd.Context().Err() != nil {
						logger.Info("slack_stop", "reason", "context_canceled")
						return nil
					}
					logger.Warn("slack_socket_connect_error", "error", err.Error())
					if err := sleepWithContext(cmd.Context(), 2*time.Second); err != nil {
						return nil
					}
					continue
				}
				logger.Info("slack_socket_connected")
				readErr := consumeSocket(cmd.Context(), conn, func(envelope socketEnvelope) error {
					event, ok, err := parseInboundEvent(envelope, botUserID)
					if err != nil {
						return err
					}
					if !ok {
						return nil
					}
					if len(allowedTeams) > 0 && event.TeamID != "" && !allowedTeams[event.TeamID] {
						return nil
					}
					if len(allowedChannels) > 0 && event.ChannelID != "" && !allowedChannels[event.ChannelID] {
						return nil
					}
					if seen.Seen(event.EventID) {
						logger.Debug("slack_event_deduped", "event_id", event.EventID, "channel_id", event.ChannelID)
						return nil
					}

					sem <- struct{}{}
					go func(event assistant.InboundEvent) {
						defer func() { <-sem }()
						ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
						defer cancel()
						bot.Dispatch(ctx, event)
					}(event)
					return nil
				})
				_ = conn.Close()
				if readErr != nil && !errors.Is(readErr, context.Canceled) && !errors.Is(readErr, context.DeadlineExceeded) {
					logger.Warn("slack_socket_read_error", "error", readErr.Error())
				}
			}
		},
	}

	cmd.Flags().String("slack-bot-token", "", "Slack bot token (xoxb-...).")
	cmd.Flags().String("slack-app-token", "", "Slack app-level token for Socket Mode (xapp-...).")
	cmd.Flags().String("slack-user-token", "", "Slack user token for search.messages (xoxp-...).")
	cmd.Flags().StringArray("slack-allowed-team-id", nil, "Allowed Slack team id(s). If empty, defaults to the bot's home team.")
	cmd.Flags().StringArray("slack-allowed-channel-id", nil, "Allowed Slack channel id(s). If empty, allows all channels in allowed teams.")
	cmd.Flags().Duration("slack-task-timeout", 0, "Per-event processing timeout (0 uses 2m).")
	cmd.Flags().Int("slack-max-concurrency", 3, "Max number of Slack events processed concurrently.")
	cmd.Flags().String("assistant-profile", "", "Path to a YAML intent profile overriding the built-in labels and prompts.")
	cmd.Flags().String("home-view", "", "Path to a JSON Block Kit view published on app_home_opened.")
	cmd.Flags().String("health-listen", "", "Health endpoint listen address (e.g. :8710 or 127.0.0.1:8710).")

	return cmd
}

func consumeSocket(ctx context.Context, conn *websocket.Conn, onEnvelope func(envelope socketEnvelope) error) error {
	if conn == nil {
		return fmt.Errorf("slack websocket connection is nil")
	}
	for {
		if ctx != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var envelope socketEnvelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			continue
		}
		if strings.TrimSpace(envelope.EnvelopeID) != "" {
			if err := conn.WriteJSON(map[string]string{"envelope_id": envelope.EnvelopeID}); err != nil {
				return err
			}
		}
		if onEnvelope == nil {
			continue
		}
		if err := onEnvelope(envelope); err != nil {
			return err
		}
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
