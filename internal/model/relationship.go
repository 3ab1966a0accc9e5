package model

import (
	"bytes"
	"encoding/json"
)

// LeadID is a lead identifier in canonical string form. It decodes from
// JSON strings and numbers alike.
type LeadID string

// UnmarshalJSON accepts "7", 7 and 7.0, all producing LeadID("7").
func (id *LeadID) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	if v == nil {
		*id = ""
		return nil
	}
	*id = LeadID(FormatID(v))
	return nil
}

// Relationship lists the leads connected to one lead, in inference order.
type Relationship struct {
	Connections []LeadID `json:"connections"`
}

// RelationshipMap maps a lead id to its connections. Connections may point
// at ids that are not part of the current collection.
type RelationshipMap map[string]Relationship

// Has reports whether id has an entry in the map.
func (m RelationshipMap) Has(id string) bool {
	_, ok := m[id]
	return ok
}

// Connect appends to as a connection of from, creating the entry if needed.
func (m RelationshipMap) Connect(from, to string) {
	r := m[from]
	r.Connections = append(r.Connections, LeadID(to))
	m[from] = r
}
