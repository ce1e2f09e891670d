package slackcmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/nmunir/threadscout/llm"
	"github.com/spf13/cobra"
)

type Dependencies struct {
	LoggerFromViper func() (*slog.Logger, error)
	CreateLLMClient func(endpoint, apiKey, model string, timeout time.Duration) (llm.Client, error)
}

var deps Dependencies

func NewCommand(d Dependencies) *cobra.Command {
	deps = d
	return newSlackCmd()
}

func loggerFromViper() (*slog.Logger, error) {
	if deps.LoggerFromViper == nil {
		return nil, fmt.Errorf("LoggerFromViper dependency missing")
	}
	return deps.LoggerFromViper()
}

func llmClientFromConfig(endpoint, apiKey, model string, timeout time.Duration) (llm.Client, error) {
	if deps.CreateLLMClient == nil {
		return nil, fmt.Errorf("CreateLLMClient dependency missing")
	}
	return deps.CreateLLMClient(endpoint, apiKey, model, timeout)
}
