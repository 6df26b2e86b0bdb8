package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// AttributeKey identifies a product or image attribute group.
type AttributeKey string

// Known attribute keys. Attributes with any other key are dropped on decode.
const (
	AttributeName             AttributeKey = "name"
	AttributeBrand            AttributeKey = "brand"
	AttributeColor            AttributeKey = "color"
	AttributeSize             AttributeKey = "size"
	AttributeCategory         AttributeKey = "category"
	AttributePromotion        AttributeKey = "promotion"
	AttributePrimaryImage     AttributeKey = "primaryImage"
	AttributePrimaryImageType AttributeKey = "primaryImageType"
)

// KnownAttributeKeys returns the closed set of attribute keys the service understands.
func KnownAttributeKeys() []AttributeKey {
	return []AttributeKey{
		AttributeName,
		AttributeBrand,
		AttributeColor,
		AttributeSize,
		AttributeCategory,
		AttributePromotion,
		AttributePrimaryImage,
		AttributePrimaryImageType,
	}
}

// IsKnownAttributeKey checks whether the given key belongs to the known set.
func IsKnownAttributeKey(key AttributeKey) bool {
	for _, k := range KnownAttributeKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// AttributeValue is a single {id, label, value} tuple of an attribute group.
type AttributeValue struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Attribute is an attribute group holding either a single value or many.
// Single-valued groups are encoded with an object under "values", multi-valued
// groups with an array.
type Attribute struct {
	Key         AttributeKey     `json:"key"`
	Label       string           `json:"label"`
	MultiSelect bool             `json:"multiSelect"`
	Values      []AttributeValue `json:"values"`
}

// First returns the first value of the group.
func (a Attribute) First() (AttributeValue, bool) {
	if len(a.Values) == 0 {
		return AttributeValue{}, false
	}
	return a.Values[0], true
}

type attributeJSON struct {
	Key         AttributeKey    `json:"key"`
	Label       string          `json:"label"`
	MultiSelect bool            `json:"multiSelect"`
	Values      json.RawMessage `json:"values"`
}

// UnmarshalJSON decodes both the single-value and the multi-value encodings.
func (a *Attribute) UnmarshalJSON(data []byte) error {
	var raw attributeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode attribute: %w", err)
	}

	a.Key = raw.Key
	a.Label = raw.Label
	a.MultiSelect = raw.MultiSelect
	a.Values = nil

	values := bytes.TrimSpace(raw.Values)
	switch {
	case len(values) == 0 || bytes.Equal(values, []byte("null")):
		return nil
	case values[0] == '[':
		a.MultiSelect = true
		if err := json.Unmarshal(values, &a.Values); err != nil {
			return fmt.Errorf("decode attribute %q values: %w", raw.Key, err)
		}
	default:
		var single AttributeValue
		if err := json.Unmarshal(values, &single); err != nil {
			return fmt.Errorf("decode attribute %q value: %w", raw.Key, err)
		}
		a.Values = []AttributeValue{single}
	}
	return nil
}

// MarshalJSON writes single-valued groups as an object and multi-valued as an array.
func (a Attribute) MarshalJSON() ([]byte, error) {
	out := struct {
		Key         AttributeKey `json:"key"`
		Label       string       `json:"label"`
		MultiSelect bool         `json:"multiSelect"`
		Values      any          `json:"values"`
	}{Key: a.Key, Label: a.Label, MultiSelect: a.MultiSelect}

	switch {
	case a.MultiSelect || len(a.Values) > 1:
		out.MultiSelect = true
		values := a.Values
		if values == nil {
			values = []AttributeValue{}
		}
		out.Values = values
	case len(a.Values) == 1:
		out.Values = a.Values[0]
	default:
		out.Values = nil
	}
	return json.Marshal(out)
}

// Attributes maps known attribute keys to their groups.
type Attributes map[AttributeKey]Attribute

// Lookup returns the attribute group for key.
func (a Attributes) Lookup(key AttributeKey) (Attribute, bool) {
	attr, ok := a[key]
	return attr, ok
}

// Values returns every value of the group for key, or nil.
func (a Attributes) Values(key AttributeKey) []AttributeValue {
	attr, ok := a.Lookup(key)
	if !ok {
		return nil
	}
	return attr.Values
}

// First returns the first value of the group for key.
func (a Attributes) First(key AttributeKey) (AttributeValue, bool) {
	attr, ok := a.Lookup(key)
	if !ok {
		return AttributeValue{}, false
	}
	return attr.First()
}

// Flag reports whether the group for key holds a boolean true value. The
// value is parsed first, then the label.
func (a Attributes) Flag(key AttributeKey) bool {
	v, ok := a.First(key)
	if !ok {
		return false
	}
	if b, err := strconv.ParseBool(v.Value); err == nil {
		return b
	}
	b, err := strconv.ParseBool(v.Label)
	return err == nil && b
}

// UnmarshalJSON decodes a keyed attribute object, dropping unknown keys.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	var raw map[AttributeKey]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode attributes: %w", err)
	}

	out := make(Attributes, len(raw))
	for key, msg := range raw {
		if !IsKnownAttributeKey(key) {
			continue
		}
		var attr Attribute
		if err := json.Unmarshal(msg, &attr); err != nil {
			return err
		}
		if attr.Key == "" {
			attr.Key = key
		}
		out[key] = attr
	}
	*a = out
	return nil
}
