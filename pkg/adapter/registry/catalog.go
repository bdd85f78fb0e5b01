package registry

import (
	"sync"

	"github.com/ajitpratap0/pipes/pkg/errors"
)

// AdapterInfo provides information about an adapter
type AdapterInfo struct {
	Type         string                 `json:"type" yaml:"type"`
	Description  string                 `json:"description" yaml:"description"`
	Version      string                 `json:"version" yaml:"version"`
	Capabilities []string               `json:"capabilities" yaml:"capabilities"`
	Settings     map[string]interface{} `json:"settings" yaml:"settings"`
}

// Catalog manages adapter metadata
type Catalog struct {
	adapters map[string]*AdapterInfo
	mu       sync.RWMutex
}

// NewCatalog creates a new adapter catalog
func NewCatalog() *Catalog {
	return &Catalog{
		adapters: make(map[string]*AdapterInfo),
	}
}

// Register adds or replaces adapter information
func (c *Catalog) Register(info *AdapterInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.adapters[info.Type] = info
}

// Get retrieves adapter information
func (c *Catalog) Get(typeName string) (*AdapterInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	info, exists := c.adapters[typeName]
	if !exists {
		return nil, errors.Newf(errors.ErrorTypeNotFound, "adapter %s not found in catalog", typeName)
	}

	return info, nil
}

// Global catalog instance
var globalCatalog = NewCatalog()

// RegisterAdapterInfo registers adapter information in the global catalog
func RegisterAdapterInfo(info *AdapterInfo) {
	globalCatalog.Register(info)
}

// GetAdapterInfo retrieves adapter information from the global catalog
func GetAdapterInfo(typeName string) (*AdapterInfo, error) {
	return globalCatalog.Get(typeName)
}
