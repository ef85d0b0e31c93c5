package model

import (
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// QuestionType defines how a question is answered
type QuestionType string

const (
	QuestionTypeRating             QuestionType = "rating"               // 1..N scale
	QuestionTypeSingleChoice       QuestionType = "single_choice"        // pick one option
	QuestionTypeOpenText           QuestionType = "open_text"            // free text
	QuestionTypeMultiChoice        QuestionType = "multi_choice"         // pick many options
	QuestionTypeGroupedMultiChoice QuestionType = "grouped_multi_choice" // pick many, options in tabs/groups
)

// Scale bounds a rating question.
type Scale struct {
	Min int `json:"min" bson:"min"`
	Max int `json:"max" bson:"max"`
}

// QuestionOption is a selectable option for choice questions.
type QuestionOption struct {
	ID    string `json:"id" bson:"id"`
	Label string `json:"label" bson:"label"`
}

// QuestionGroup is a tab of options for grouped multi-choice questions.
type QuestionGroup struct {
	ID      string           `json:"id" bson:"id"`
	Label   string           `json:"label" bson:"label"`
	Options []QuestionOption `json:"options" bson:"options"`
}

// Question is a single node of a classic questionnaire, or an entry of a
// page's question group in paged mode.
type Question struct {
	ID            string           `json:"id" bson:"id"`
	Text          string           `json:"text" bson:"text"`
	Type          QuestionType     `json:"type" bson:"type"`
	Required      bool             `json:"required,omitempty" bson:"required,omitempty"`
	Scale         *Scale           `json:"scale,omitempty" bson:"scale,omitempty"`
	Options       []QuestionOption `json:"options,omitempty" bson:"options,omitempty"`
	Groups        []QuestionGroup  `json:"groups,omitempty" bson:"groups,omitempty"`
	SearchEnabled bool             `json:"searchEnabled,omitempty" bson:"searchEnabled,omitempty"`
	MaxSelections int              `json:"maxSelections,omitempty" bson:"maxSelections,omitempty"`
	Next          *NextSpec        `json:"next,omitempty" bson:"next,omitempty"`
}

// NextSpec declares where the flow goes after a question is answered.
// Content data encodes it either as a literal next-question id or as a
// mapping from stringified answer value to next id with an optional
// "default" fallthrough.
type NextSpec struct {
	Literal string
	Mapping map[string]string
	Default string
}

// Resolve returns the next question id for a stringified answer value.
// ok=false means there is no continuation (end of flow).
func (n *NextSpec) Resolve(key string) (string, bool) {
	if n == nil {
		return "", false
	}
	if n.Literal != "" {
		return n.Literal, true
	}
	if next, ok := n.Mapping[key]; ok {
		return next, true
	}
	if n.Default != "" {
		return n.Default, true
	}
	return "", false
}

const nextDefaultKey = "default"

func (n NextSpec) MarshalJSON() ([]byte, error) {
	if n.Literal != "" {
		return json.Marshal(n.Literal)
	}
	return json.Marshal(n.fullMapping())
}

func (n *NextSpec) UnmarshalJSON(data []byte) error {
	var literal string
	if err := json.Unmarshal(data, &literal); err == nil {
		*n = NextSpec{Literal: literal}
		return nil
	}
	var mapping map[string]string
	if err := json.Unmarshal(data, &mapping); err == nil {
		*n = specFromMapping(mapping)
		return nil
	}
	return fmt.Errorf("unsupported next spec: %s", data)
}

func (n NextSpec) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if n.Literal != "" {
		return bson.MarshalValue(n.Literal)
	}
	return bson.MarshalValue(n.fullMapping())
}

func (n *NextSpec) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeString:
		*n = NextSpec{Literal: raw.StringValue()}
		return nil
	case bson.TypeEmbeddedDocument:
		var mapping map[string]string
		if err := raw.Unmarshal(&mapping); err != nil {
			return err
		}
		*n = specFromMapping(mapping)
		return nil
	default:
		return fmt.Errorf("unsupported next spec type %s", t)
	}
}

// fullMapping re-folds the default key into the serialized mapping so the
// wire shape matches externally authored content.
func (n NextSpec) fullMapping() map[string]string {
	out := make(map[string]string, len(n.Mapping)+1)
	for k, v := range n.Mapping {
		out[k] = v
	}
	if n.Default != "" {
		out[nextDefaultKey] = n.Default
	}
	return out
}

func specFromMapping(mapping map[string]string) NextSpec {
	spec := NextSpec{Mapping: make(map[string]string, len(mapping))}
	for k, v := range mapping {
		if k == nextDefaultKey {
			spec.Default = v
			continue
		}
		spec.Mapping[k] = v
	}
	return spec
}
