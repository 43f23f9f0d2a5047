package model

import "time"

// Case is a named investigation container. Evidence keeps upload order.
// This is a pure domain model with no persistence-specific tags; it is shared by the
// HTTP, service and repository layers.
type Case struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	CreatedAt    time.Time      `json:"created_at"`
	StorageLabel string         `json:"storage_label"`
	Evidence     []EvidenceFile `json:"evidence"`
}

// FindEvidence returns a pointer into c.Evidence for the given ID, or nil.
func (c *Case) FindEvidence(id string) *EvidenceFile {
	for i := range c.Evidence {
		if c.Evidence[i].ID == id {
			return &c.Evidence[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the case so callers can hold a snapshot
// without sharing slices with the store.
func (c Case) Clone() Case {
	out := c
	if c.Evidence != nil {
		out.Evidence = make([]EvidenceFile, len(c.Evidence))
		for i, ev := range c.Evidence {
			out.Evidence[i] = ev.Clone()
		}
	}
	return out
}
