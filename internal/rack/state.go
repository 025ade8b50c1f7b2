package rack

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"gearrack/internal/library"
	"gearrack/internal/logging"
)

const (
	instancesNodeName = "instances"
	notesNodeName     = "notes"
	slotNodePrefix    = "slot_"
	controlNodePrefix = "control_"
)

// SaveState serializes the rack into a fresh instance-state tree. The tree
// is rebuilt from scratch on every call; occupied slots produce one child
// each, empty slots produce nothing.
func SaveState(r *Rack) *StateNode {
	root := NewStateNode(instancesNodeName)
	occupied, notes := r.snapshot()

	for _, entry := range occupied {
		slotNode := root.AddChild(fmt.Sprintf("%s%d", slotNodePrefix, entry.index))
		slotNode.Set("instanceId", entry.instance.InstanceID)
		slotNode.Set("sourceUnitId", entry.instance.SourceUnitID)

		controlsNode := slotNode.AddChild("controls")
		for i, control := range entry.instance.Controls {
			controlNode := controlsNode.AddChild(fmt.Sprintf("%s%d", controlNodePrefix, i))
			controlNode.Set("type", string(control.Type))
			controlNode.SetFloat("value", control.Value)
			controlNode.SetFloat("initialValue", control.InitialValue)
			if control.Type.IsStepped() {
				controlNode.SetInt("currentIndex", control.CurrentIndex)
			}
		}
	}

	notesNode := root.AddChild(notesNodeName)
	notesNode.Set("content", notes)
	return root
}

// savedControl buffers one persisted control record until the slot's schema
// is available.
type savedControl struct {
	index        int
	controlType  library.ControlType
	value        float64
	initialValue float64
	currentIndex int
	hasIndex     bool
}

// Restorer reconstructs rack contents from a persisted state tree.
type Restorer struct {
	library *library.Library
	rack    *Rack
	logger  *slog.Logger
}

// NewRestorer wires a restorer to its library and rack.
func NewRestorer(lib *library.Library, r *Rack, logger *slog.Logger) *Restorer {
	return &Restorer{
		library: lib,
		rack:    r,
		logger:  logging.NewComponentLogger(logger, "rack.restore"),
	}
}

// Restore rebuilds instances from a persisted tree. A nil tree no-ops. Slots
// whose source unit is missing from the library are skipped silently. Saved
// control values are captured before each slot's schema fetch is issued and
// applied by positional index once the fetch completes; notes restoration is
// unordered relative to the per-slot callbacks.
func (re *Restorer) Restore(ctx context.Context, root *StateNode) {
	if root == nil {
		return
	}
	tree := root
	if tree.Name != instancesNodeName {
		tree = root.Child(instancesNodeName)
		if tree == nil {
			return
		}
	}

	for _, slotNode := range tree.Children {
		index, ok := parseSlotIndex(slotNode.Name)
		if !ok {
			continue
		}
		sourceUnitID := slotNode.Get("sourceUnitId")
		item := re.library.ItemByUnitID(sourceUnitID)
		if item == nil {
			re.logger.Debug("persisted unit not in library, slot skipped",
				logging.String(logging.FieldUnitID, sourceUnitID),
				logging.Int(logging.FieldSlot, index))
			continue
		}

		// Installation mints a fresh instance identity; the persisted
		// instanceId is deliberately not reused.
		_, gen := re.rack.Mount(index, item)

		// Capture saved values before the asynchronous fetch so a slow
		// schema load cannot observe a half-read tree.
		saved := captureControls(slotNode.Child("controls"))

		slotIndex, slotGen := index, gen
		re.library.FetchSchema(ctx, sourceUnitID, func(ok bool) {
			if !ok {
				return
			}
			applied := re.rack.WithSlot(slotIndex, slotGen, func(inst *Instance) {
				inst.ApplySchema(re.library.ItemByUnitID(sourceUnitID))
				applySavedControls(inst, saved)
			})
			if !applied {
				re.logger.Debug("slot reused before schema arrived, restore dropped",
					logging.Int(logging.FieldSlot, slotIndex))
			}
		})
	}

	if notesNode := tree.Child(notesNodeName); notesNode != nil {
		re.rack.SetNotes(notesNode.Get("content"))
	}
}

func parseSlotIndex(name string) (int, bool) {
	if !strings.HasPrefix(name, slotNodePrefix) {
		return 0, false
	}
	index, err := strconv.Atoi(strings.TrimPrefix(name, slotNodePrefix))
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}

func captureControls(controlsNode *StateNode) []savedControl {
	if controlsNode == nil {
		return nil
	}
	saved := make([]savedControl, 0, len(controlsNode.Children))
	for _, node := range controlsNode.Children {
		if !strings.HasPrefix(node.Name, controlNodePrefix) {
			continue
		}
		index, err := strconv.Atoi(strings.TrimPrefix(node.Name, controlNodePrefix))
		if err != nil || index < 0 {
			continue
		}
		saved = append(saved, savedControl{
			index:        index,
			controlType:  library.ControlType(node.Get("type")),
			value:        node.GetFloat("value", 0),
			initialValue: node.GetFloat("initialValue", 0),
			currentIndex: node.GetInt("currentIndex", 0),
			hasIndex:     node.Has("currentIndex"),
		})
	}
	return saved
}

// applySavedControls copies buffered values onto the live control list by
// positional index. A saved index beyond the live list is dropped, not
// retried. The discrete position restores only for stepped control types.
func applySavedControls(inst *Instance, saved []savedControl) {
	for _, record := range saved {
		if record.index >= len(inst.Controls) {
			continue
		}
		control := &inst.Controls[record.index]
		control.Value = record.value
		control.InitialValue = record.initialValue
		if control.Type.IsStepped() && record.hasIndex {
			control.CurrentIndex = record.currentIndex
		}
	}
}
