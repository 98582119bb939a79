package core

import "fmt"

// Identifiers hands out small integer ids for owners and recycles released
// slots. Id 0 is never handed out so it can stand for "no object".
type Identifiers struct {
	owners []interface{}
}

func (ids *Identifiers) Acquire(owner interface{}) uint32 {
	if len(ids.owners) == 0 {
		ids.owners = make([]interface{}, 100)
	}
	length := uint32(len(ids.owners))
	for i := uint32(1); i < length; i++ {
		// Existing free spot. Take it.
		if ids.owners[i] == nil {
			ids.owners[i] = owner
			return i
		}
	}

	// If here, no existing free slots. Need a new id, so push one.
	// This means the id will be length - 1
	ids.owners = append(ids.owners, owner)
	length = uint32(len(ids.owners))
	return length - 1
}

// Owner returns the owner registered for id.
func (ids *Identifiers) Owner(id uint32) (interface{}, bool) {
	if id == 0 || id >= uint32(len(ids.owners)) || ids.owners[id] == nil {
		return nil, false
	}
	return ids.owners[id], true
}

func (ids *Identifiers) Release(id uint32) error {
	if len(ids.owners) == 0 {
		return fmt.Errorf("release of id '%d' before any id was acquired: %w", id, ErrNotInitialized)
	}

	length := uint32(len(ids.owners))
	if id == 0 || id >= length {
		return fmt.Errorf("id '%d' out of range (max=%d): %w", id, length-1, ErrNotFound)
	}

	// Just zero out the entry, making it available for use.
	ids.owners[id] = nil
	return nil
}

// Live returns the number of ids currently held.
func (ids *Identifiers) Live() int {
	n := 0
	for _, o := range ids.owners {
		if o != nil {
			n++
		}
	}
	return n
}
