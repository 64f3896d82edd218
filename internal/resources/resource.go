package resources

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
)

// Resource is the interface that all resources must implement
type Resource interface {
	URI() string
	Name() string
	Description() string
	MimeType() string
	GetContent(ctx context.Context) (interface{}, error)
}

// Manager manages all resources
type Manager struct {
	mu        sync.RWMutex
	resources map[string]Resource
}

// NewManager creates a new resource manager
func NewManager(resources ...Resource) *Manager {
	m := &Manager{resources: make(map[string]Resource)}
	for _, r := range resources {
		m.Register(r)
	}
	return m
}

// Register registers a resource
func (m *Manager) Register(resource Resource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resources[resource.URI()] = resource
}

// HandleResource handles a resource request. String content is returned
// verbatim; anything else is rendered as indented JSON.
func (m *Manager) HandleResource(ctx context.Context, uri string) (*ReadResourceResponse, error) {
	m.mu.RLock()
	resource, exists := m.resources[uri]
	m.mu.RUnlock()
	if !exists {
		return nil, &ResourceNotFoundError{URI: uri}
	}

	content, err := resource.GetContent(ctx)
	if err != nil {
		return nil, err
	}

	text, ok := content.(string)
	if !ok {
		contentJSON, err := json.MarshalIndent(content, "", "  ")
		if err != nil {
			return nil, err
		}
		text = string(contentJSON)
	}

	return &ReadResourceResponse{
		Contents: []ResourceContent{
			{
				URI:      uri,
				MimeType: resource.MimeType(),
				Text:     text,
			},
		},
	}, nil
}

// ListResources returns all available resources ordered by URI
func (m *Manager) ListResources() []ResourceDefinition {
	m.mu.RLock()
	defer m.mu.RUnlock()

	definitions := make([]ResourceDefinition, 0, len(m.resources))
	for _, resource := range m.resources {
		definitions = append(definitions, ResourceDefinition{
			URI:         resource.URI(),
			Name:        resource.Name(),
			Description: resource.Description(),
			MimeType:    resource.MimeType(),
		})
	}
	sort.Slice(definitions, func(i, j int) bool {
		return definitions[i].URI < definitions[j].URI
	})
	return definitions
}

// ResourceDefinition represents a resource definition
type ResourceDefinition struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MimeType    string `json:"mimeType"`
}

// ReadResourceResponse represents a resource read response
type ReadResourceResponse struct {
	Contents []ResourceContent `json:"contents"`
}

// ResourceContent represents resource content
type ResourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
}

// ResourceNotFoundError is returned when a resource is not found
type ResourceNotFoundError struct {
	URI string
}

func (e *ResourceNotFoundError) Error() string {
	return "resource not found: " + e.URI
}
