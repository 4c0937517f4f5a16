package domain

import (
	"fmt"
	"strings"

	oracleDomain "github.com/felixgeelhaar/slotwise/internal/oracle/domain"
)

// personIDPrefix marks references that are already canonical ids and bypass
// name resolution.
const personIDPrefix = "person_"

// DirectoryEntry is one id/name pair from a people table, whatever its
// external shape.
type DirectoryEntry struct {
	ID   string
	Name string
}

// Directory resolves participant references to canonical ids. It is built
// once at load time from either a columnar or a flat people table.
type Directory struct {
	byID   map[string]string
	byName map[string]string
}

// NewDirectory builds a directory from normalized entries.
func NewDirectory(entries []DirectoryEntry) *Directory {
	d := &Directory{
		byID:   make(map[string]string, len(entries)),
		byName: make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		if e.ID == "" {
			continue
		}
		d.byID[e.ID] = e.Name
		if e.Name != "" {
			d.byName[e.Name] = e.ID
		}
	}
	return d
}

// ResolveID maps a participant reference (name or id) to a canonical id.
// References already shaped like ids pass through unchanged.
func (d *Directory) ResolveID(ref string) (string, error) {
	if strings.HasPrefix(ref, personIDPrefix) {
		return ref, nil
	}
	if id, ok := d.byName[ref]; ok {
		return id, nil
	}
	return "", fmt.Errorf("%w: %q", oracleDomain.ErrUnknownParticipant, ref)
}

// NameOf returns the display name for an id, or the id itself when the
// directory has no name for it.
func (d *Directory) NameOf(id string) string {
	if name, ok := d.byID[id]; ok && name != "" {
		return name
	}
	return id
}

// Len reports the number of directory entries.
func (d *Directory) Len() int {
	return len(d.byID)
}
