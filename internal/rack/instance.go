package rack

import (
	"github.com/google/uuid"

	"gearrack/internal/library"
)

// Control is one live control on a mounted instance.
type Control struct {
	Type         library.ControlType
	Name         string
	Value        float64
	InitialValue float64
	CurrentIndex int
}

// Instance is a gear unit mounted in a rack slot. Each slot exclusively owns
// at most one instance; SourceUnitID points back at the library template.
type Instance struct {
	InstanceID   string
	SourceUnitID string
	Name         string
	Controls     []Control
}

// NewInstance copies a template into a fresh instance with a newly minted
// id. Control values start at the template's initial positions.
func NewInstance(item *library.Item) *Instance {
	inst := &Instance{
		InstanceID:   uuid.NewString(),
		SourceUnitID: item.UnitID,
		Name:         item.Name,
	}
	inst.populateControls(item)
	return inst
}

// populateControls builds the live control list from the template schema.
// A template without a schema yields an empty list; ApplySchema fills it in
// once the schema fetch completes.
func (inst *Instance) populateControls(item *library.Item) {
	if !item.HasSchema() {
		return
	}
	controls := make([]Control, 0, len(item.Controls))
	for _, spec := range item.Controls {
		controls = append(controls, Control{
			Type:         spec.Type,
			Name:         spec.Name,
			Value:        spec.Initial,
			InitialValue: spec.Initial,
		})
	}
	inst.Controls = controls
}

// ApplySchema populates the control list from a template if the instance
// does not have one yet.
func (inst *Instance) ApplySchema(item *library.Item) {
	if len(inst.Controls) > 0 {
		return
	}
	inst.populateControls(item)
}
