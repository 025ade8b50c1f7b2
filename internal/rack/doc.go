// Package rack models the virtual rack: slots, mounted gear instances, and
// the persisted instance-state tree.
//
// An instance is a per-slot copy of a library template carrying its own
// control values and a freshly minted instance id; the template is only a
// lookup key, never an ownership edge. Saving rebuilds the state tree from
// scratch each time. Loading is two-phase: identity and saved control values
// are captured synchronously, then an asynchronous schema fetch per slot
// fills the control list before the saved values are applied by positional
// index. Each slot carries a generation counter so a schema callback that
// lands after the slot was remounted or cleared is a provable no-op.
package rack
