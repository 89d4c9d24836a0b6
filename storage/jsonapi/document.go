package jsonapi

import (
	"encoding/json"

	"github.com/pkg/errors"
)

type (
	// Document is the backend's response envelope.
	Document struct {
		Data     json.RawMessage            `json:"data,omitempty"`
		Included []Resource                 `json:"included,omitempty"`
		Meta     map[string]json.RawMessage `json:"meta,omitempty"`
	}

	Resource struct {
		ID            string                  `json:"id"`
		Type          string                  `json:"type"`
		Attributes    json.RawMessage         `json:"attributes"`
		Relationships map[string]Relationship `json:"relationships,omitempty"`
	}

	// Relationship data is either one identifier or an array of them.
	Relationship struct {
		Data json.RawMessage `json:"data,omitempty"`
	}

	Identifier struct {
		Type string `json:"type"`
		ID   string `json:"id"`
	}
)

// One decodes a single-resource document.
func (d *Document) One() (Resource, error) {
	var res Resource
	if len(d.Data) == 0 {
		return res, errors.New("document has no data")
	}
	if err := json.Unmarshal(d.Data, &res); err != nil {
		return res, errors.Wrap(err, "decoding resource")
	}
	return res, nil
}

// Many decodes a resource-collection document.
func (d *Document) Many() ([]Resource, error) {
	if len(d.Data) == 0 {
		return nil, nil
	}
	var res []Resource
	if err := json.Unmarshal(d.Data, &res); err != nil {
		return nil, errors.Wrap(err, "decoding resource collection")
	}
	return res, nil
}

// IncludedOfType filters the side-loaded resources.
func (d *Document) IncludedOfType(t string) []Resource {
	var out []Resource
	for _, res := range d.Included {
		if res.Type == t {
			out = append(out, res)
		}
	}
	return out
}

// MetaString returns a top-level string meta member, or "".
func (d *Document) MetaString(key string) string {
	raw, ok := d.Meta[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Attr decodes the resource attributes into out.
func (r Resource) Attr(out interface{}) error {
	if len(r.Attributes) == 0 {
		return nil
	}
	return errors.Wrapf(json.Unmarshal(r.Attributes, out), "decoding %s attributes", r.Type)
}

// Identifiers flattens a relationship into resource identifiers, whether it
// holds one or many.
func (rel Relationship) Identifiers() []Identifier {
	if len(rel.Data) == 0 {
		return nil
	}
	var many []Identifier
	if err := json.Unmarshal(rel.Data, &many); err == nil {
		return many
	}
	var one Identifier
	if err := json.Unmarshal(rel.Data, &one); err == nil && one.ID != "" {
		return []Identifier{one}
	}
	return nil
}

// payload builds the request envelope for writes.
func payload(resType string, attrs interface{}) map[string]interface{} {
	return map[string]interface{}{
		"data": map[string]interface{}{
			"type":       resType,
			"attributes": attrs,
		},
	}
}
