package library

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ControlType identifies how a control renders and which value fields apply.
type ControlType string

const (
	ControlKnob   ControlType = "knob"
	ControlFader  ControlType = "fader"
	ControlSwitch ControlType = "switch"
	ControlButton ControlType = "button"
)

// IsStepped reports whether the control carries a discrete position index in
// addition to its continuous value.
func (t ControlType) IsStepped() bool {
	return t == ControlSwitch || t == ControlButton
}

// ControlSpec describes one control on a unit's faceplate.
type ControlSpec struct {
	Type      ControlType `json:"type"`
	Name      string      `json:"name"`
	Min       float64     `json:"min"`
	Max       float64     `json:"max"`
	Initial   float64     `json:"initial"`
	Positions int         `json:"positions,omitempty"` // switch/button detents
	AssetPath string      `json:"assetPath,omitempty"`
}

// Item is a gear unit template as read from the library. Instances copy from
// it; the template itself is never mounted in a rack slot.
type Item struct {
	UnitID         string        `json:"unitId"`
	Name           string        `json:"name"`
	Category       string        `json:"category"`
	Version        string        `json:"version"`
	FaceplateImage string        `json:"faceplateImage,omitempty"`
	ThumbnailImage string        `json:"thumbnailImage,omitempty"`
	Controls       []ControlSpec `json:"controls,omitempty"`
}

// HasSchema reports whether the control list has been populated.
func (i *Item) HasSchema() bool {
	return i != nil && len(i.Controls) > 0
}

// ParseItem decodes a unit definition document.
func ParseItem(doc string) (*Item, error) {
	var item Item
	if err := json.Unmarshal([]byte(doc), &item); err != nil {
		return nil, fmt.Errorf("parse unit definition: %w", err)
	}
	if strings.TrimSpace(item.UnitID) == "" {
		return nil, fmt.Errorf("unit definition missing unitId")
	}
	return &item, nil
}
