package rest

import (
	"github.com/ajitpratap0/pipes/pkg/adapter/registry"
)

func init() {
	registry.Register(Type, New)

	registry.RegisterAdapterInfo(&registry.AdapterInfo{
		Type:         Type,
		Description:  "Pipe backed by a REST resource over HTTP with JSON bodies",
		Version:      "1.0.0",
		Capabilities: []string{"read", "save", "remove", "query"},
		Settings: map[string]interface{}{
			"baseURL": map[string]interface{}{
				"type":        "string",
				"required":    false,
				"description": "Prefix of the resource URL",
			},
			"endpoint": map[string]interface{}{
				"type":        "string",
				"required":    false,
				"description": "Resource path; defaults to the pipe name",
			},
			"timeout": map[string]interface{}{
				"type":        "duration",
				"required":    false,
				"default":     "30s",
				"description": "Request timeout",
			},
			"headers": map[string]interface{}{
				"type":        "map",
				"required":    false,
				"description": "Extra request headers",
			},
			"rateLimit": map[string]interface{}{
				"type":        "number",
				"required":    false,
				"default":     0,
				"description": "Maximum requests per second (0 = unlimited)",
			},
		},
	})
}
