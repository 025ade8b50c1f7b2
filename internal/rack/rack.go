package rack

import (
	"sync"

	"gearrack/internal/library"
)

// Generation identifies one occupancy of a slot. Mounting or clearing a slot
// bumps its generation; a stale generation proves a pending operation's slot
// was reused.
type Generation uint64

type slot struct {
	instance   *Instance
	generation Generation
}

// Rack holds a fixed number of slots plus free-text session notes.
type Rack struct {
	mu    sync.Mutex
	slots []slot
	notes string
}

// New builds an empty rack with the given slot count.
func New(slotCount int) *Rack {
	if slotCount <= 0 {
		slotCount = 1
	}
	return &Rack{slots: make([]slot, slotCount)}
}

// SlotCount returns the fixed number of slots.
func (r *Rack) SlotCount() int {
	return len(r.slots)
}

// InstanceAt returns the instance mounted in slot index, nil when the index
// is out of range or the slot is empty.
func (r *Rack) InstanceAt(index int) *Instance {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index < 0 || index >= len(r.slots) {
		return nil
	}
	return r.slots[index].instance
}

// Mount installs a fresh instance of the template into slot index, replacing
// any prior occupant. Installation always mints a new instance identity.
// The returned generation belongs to the new occupancy.
func (r *Rack) Mount(index int, item *library.Item) (*Instance, Generation) {
	if item == nil {
		return nil, 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if index < 0 || index >= len(r.slots) {
		return nil, 0
	}
	inst := NewInstance(item)
	r.slots[index].instance = inst
	r.slots[index].generation++
	return inst, r.slots[index].generation
}

// Unmount clears slot index. Clearing an empty slot is a no-op that still
// invalidates pending operations against the slot.
func (r *Rack) Unmount(index int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index < 0 || index >= len(r.slots) {
		return
	}
	r.slots[index].instance = nil
	r.slots[index].generation++
}

// WithSlot runs fn against the instance in slot index if the slot still
// holds the occupancy identified by gen. It reports whether fn ran. The
// rack lock is held for the duration of fn.
func (r *Rack) WithSlot(index int, gen Generation, fn func(*Instance)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index < 0 || index >= len(r.slots) {
		return false
	}
	current := r.slots[index]
	if current.instance == nil || current.generation != gen {
		return false
	}
	fn(current.instance)
	return true
}

// Notes returns the session notes text.
func (r *Rack) Notes() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.notes
}

// SetNotes replaces the session notes text.
func (r *Rack) SetNotes(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = text
}

// snapshot copies the occupied slots for serialization.
func (r *Rack) snapshot() ([]indexedInstance, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	occupied := make([]indexedInstance, 0, len(r.slots))
	for i := range r.slots {
		inst := r.slots[i].instance
		if inst == nil || inst.InstanceID == "" || inst.SourceUnitID == "" {
			continue
		}
		copied := *inst
		copied.Controls = append([]Control(nil), inst.Controls...)
		occupied = append(occupied, indexedInstance{index: i, instance: &copied})
	}
	return occupied, r.notes
}

type indexedInstance struct {
	index    int
	instance *Instance
}
