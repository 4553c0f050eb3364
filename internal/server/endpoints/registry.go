package endpoints

import (
	"github.com/jackzampolin/maestro/internal/api"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	SwaggerSpecPath string
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{},

		// Session lifecycle
		&CreateSessionEndpoint{},
		&ListSessionsEndpoint{},
		&GetSessionEndpoint{},
		&DeleteSessionEndpoint{},

		// Review loop
		&SessionExtractEndpoint{},
		&SessionEditEndpoint{},
		&SessionValidateEndpoint{},
		&SessionGenerateEndpoint{},

		// Schema and portal contract
		&SchemaEndpoint{},
		&PortalCheckEndpoint{},

		// Model call history
		&ListCallsEndpoint{},
		&GetCallEndpoint{},

		// Metrics
		&ListMetricsEndpoint{},
		&MetricsSummaryEndpoint{},
		&MetricsDetailedEndpoint{},

		// Prompts
		&ListPromptsEndpoint{},
		&GetPromptEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{SpecPath: cfg.SwaggerSpecPath},
		&SwaggerUIEndpoint{},
	}
}

// SessionCommands returns endpoints for session operations.
// This groups session-related commands under the "sessions" subcommand.
func SessionCommands() []api.Endpoint {
	return []api.Endpoint{
		&CreateSessionEndpoint{},
		&ListSessionsEndpoint{},
		&GetSessionEndpoint{},
		&DeleteSessionEndpoint{},
		&SessionExtractEndpoint{},
		&SessionEditEndpoint{},
		&SessionValidateEndpoint{},
		&SessionGenerateEndpoint{},
	}
}

// CallCommands returns endpoints for model call history operations.
// This groups call-related commands under the "calls" subcommand.
func CallCommands() []api.Endpoint {
	return []api.Endpoint{
		&ListCallsEndpoint{},
		&GetCallEndpoint{},
	}
}

// MetricsCommands returns endpoints for metrics operations.
// This groups metrics-related commands under the "metrics" subcommand.
func MetricsCommands() []api.Endpoint {
	return []api.Endpoint{
		&ListMetricsEndpoint{},
		&MetricsSummaryEndpoint{},
		&MetricsDetailedEndpoint{},
	}
}

// PromptCommands returns endpoints for prompt operations.
// This groups prompt-related commands under the "prompts" subcommand.
func PromptCommands() []api.Endpoint {
	return []api.Endpoint{
		&ListPromptsEndpoint{},
		&GetPromptEndpoint{},
	}
}
