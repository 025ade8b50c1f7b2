package rack

import (
	"encoding/json"
	"fmt"
)

// StateNode is one node of the persisted key/value state tree the host
// consumes and produces. Properties hold scalar values as strings; children
// are ordered and addressed by name.
type StateNode struct {
	Name       string            `json:"name"`
	Properties map[string]string `json:"properties,omitempty"`
	Children   []*StateNode      `json:"children,omitempty"`
}

// NewStateNode builds an empty node.
func NewStateNode(name string) *StateNode {
	return &StateNode{Name: name}
}

// Set stores a scalar property.
func (n *StateNode) Set(key, value string) {
	if n.Properties == nil {
		n.Properties = make(map[string]string)
	}
	n.Properties[key] = value
}

// SetFloat stores a float property with stable formatting.
func (n *StateNode) SetFloat(key string, value float64) {
	n.Set(key, fmt.Sprintf("%g", value))
}

// SetInt stores an integer property.
func (n *StateNode) SetInt(key string, value int) {
	n.Set(key, fmt.Sprintf("%d", value))
}

// Get returns a property value, "" when absent.
func (n *StateNode) Get(key string) string {
	if n == nil {
		return ""
	}
	return n.Properties[key]
}

// GetFloat parses a float property, returning fallback on absence or parse
// failure.
func (n *StateNode) GetFloat(key string, fallback float64) float64 {
	raw := n.Get(key)
	if raw == "" {
		return fallback
	}
	var value float64
	if _, err := fmt.Sscanf(raw, "%g", &value); err != nil {
		return fallback
	}
	return value
}

// GetInt parses an integer property, returning fallback on absence or parse
// failure.
func (n *StateNode) GetInt(key string, fallback int) int {
	raw := n.Get(key)
	if raw == "" {
		return fallback
	}
	var value int
	if _, err := fmt.Sscanf(raw, "%d", &value); err != nil {
		return fallback
	}
	return value
}

// Has reports whether the property is present.
func (n *StateNode) Has(key string) bool {
	if n == nil {
		return false
	}
	_, ok := n.Properties[key]
	return ok
}

// Child returns the first child with the given name, nil when absent. A nil
// receiver yields nil so lookups chain safely.
func (n *StateNode) Child(name string) *StateNode {
	if n == nil {
		return nil
	}
	for _, child := range n.Children {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// AddChild appends a new child node and returns it.
func (n *StateNode) AddChild(name string) *StateNode {
	child := NewStateNode(name)
	n.Children = append(n.Children, child)
	return child
}

// MarshalState encodes the tree as the JSON document stored in host chunks
// and preset files.
func MarshalState(root *StateNode) ([]byte, error) {
	if root == nil {
		return nil, fmt.Errorf("state tree is nil")
	}
	return json.MarshalIndent(root, "", "  ")
}

// UnmarshalState decodes a persisted state document.
func UnmarshalState(data []byte) (*StateNode, error) {
	var root StateNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse state document: %w", err)
	}
	return &root, nil
}
