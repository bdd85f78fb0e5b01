package memory

import (
	"github.com/ajitpratap0/pipes/pkg/adapter/registry"
)

func init() {
	registry.Register(Type, New)

	registry.RegisterAdapterInfo(&registry.AdapterInfo{
		Type:         Type,
		Description:  "In-process pipe holding records in memory",
		Version:      "1.0.0",
		Capabilities: []string{"read", "save", "remove", "query"},
		Settings: map[string]interface{}{
			"data": map[string]interface{}{
				"type":        "array",
				"required":    false,
				"description": "Records to seed the pipe with",
			},
		},
	})
}
