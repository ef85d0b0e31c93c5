package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// AnswerKind discriminates the shapes an answer value can take.
type AnswerKind int

const (
	AnswerNone AnswerKind = iota
	AnswerString
	AnswerInt
	AnswerList
)

// AnswerValue is a dynamic value stored for a question: free text or a
// selected option id (string), a rating (int), or multi-choice selections
// ([]string). The zero value means "no answer".
type AnswerValue struct {
	Kind AnswerKind
	Str  string
	Int  int
	List []string
}

// StringAnswer wraps a string value.
func StringAnswer(s string) AnswerValue {
	return AnswerValue{Kind: AnswerString, Str: s}
}

// IntAnswer wraps an integer rating value.
func IntAnswer(n int) AnswerValue {
	return AnswerValue{Kind: AnswerInt, Int: n}
}

// ListAnswer wraps a multi-choice selection list.
func ListAnswer(ids ...string) AnswerValue {
	return AnswerValue{Kind: AnswerList, List: ids}
}

// StringKey returns the canonical string form used for condition
// evaluation and next-mapping lookup. Lists have no canonical form and
// report ok=false.
func (v AnswerValue) StringKey() (string, bool) {
	switch v.Kind {
	case AnswerString:
		return v.Str, true
	case AnswerInt:
		return strconv.Itoa(v.Int), true
	default:
		return "", false
	}
}

// IsEmpty reports whether the value counts as unanswered: no value at
// all, an empty string, or an empty selection list.
func (v AnswerValue) IsEmpty() bool {
	switch v.Kind {
	case AnswerString:
		return v.Str == ""
	case AnswerInt:
		return false
	case AnswerList:
		return len(v.List) == 0
	default:
		return true
	}
}

// Equal reports whether two values are the same answer.
func (v AnswerValue) Equal(other AnswerValue) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case AnswerString:
		return v.Str == other.Str
	case AnswerInt:
		return v.Int == other.Int
	case AnswerList:
		if len(v.List) != len(other.List) {
			return false
		}
		for i := range v.List {
			if v.List[i] != other.List[i] {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// MarshalJSON emits the underlying value without a wrapper object so the
// stored answer maps round-trip against external clients unchanged.
func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case AnswerString:
		return json.Marshal(v.Str)
	case AnswerInt:
		return json.Marshal(v.Int)
	case AnswerList:
		if v.List == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(v.List)
	default:
		return []byte("null"), nil
	}
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = AnswerValue{}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*v = IntAnswer(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = StringAnswer(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*v = AnswerValue{Kind: AnswerList, List: list}
		return nil
	}
	return fmt.Errorf("unsupported answer value: %s", data)
}

// MarshalBSONValue stores the value in its natural BSON shape, mirroring
// the JSON contract.
func (v AnswerValue) MarshalBSONValue() (bsontype.Type, []byte, error) {
	switch v.Kind {
	case AnswerString:
		return bson.MarshalValue(v.Str)
	case AnswerInt:
		return bson.MarshalValue(int64(v.Int))
	case AnswerList:
		if v.List == nil {
			return bson.MarshalValue([]string{})
		}
		return bson.MarshalValue(v.List)
	default:
		return bson.MarshalValue(nil)
	}
}

func (v *AnswerValue) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeNull:
		*v = AnswerValue{}
		return nil
	case bson.TypeString:
		*v = StringAnswer(raw.StringValue())
		return nil
	case bson.TypeInt32:
		*v = IntAnswer(int(raw.Int32()))
		return nil
	case bson.TypeInt64:
		*v = IntAnswer(int(raw.Int64()))
		return nil
	case bson.TypeDouble:
		*v = IntAnswer(int(raw.Double()))
		return nil
	case bson.TypeArray:
		var list []string
		if err := raw.Unmarshal(&list); err != nil {
			return err
		}
		*v = AnswerValue{Kind: AnswerList, List: list}
		return nil
	default:
		return fmt.Errorf("unsupported answer value type %s", t)
	}
}

// AnswerMap maps question ids to answer values.
type AnswerMap map[string]AnswerValue

// Clone returns a copy safe for independent mutation.
func (m AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// PageAnswerMap groups stored answers per page id.
type PageAnswerMap map[string]AnswerMap

// Clone returns a deep copy down to the per-page maps.
func (m PageAnswerMap) Clone() PageAnswerMap {
	out := make(PageAnswerMap, len(m))
	for pageID, answers := range m {
		out[pageID] = answers.Clone()
	}
	return out
}

// Flatten merges every per-page map into a single question-id keyed map.
// Each question belongs to exactly one page, so ordering between pages is
// immaterial.
func (m PageAnswerMap) Flatten() AnswerMap {
	flat := make(AnswerMap)
	for _, answers := range m {
		for qid, v := range answers {
			flat[qid] = v
		}
	}
	return flat
}

// UserAnswers is the persisted per-user, per-cluster answer document. It
// is always written whole (full replace, never a delta).
type UserAnswers struct {
	UserID      string        `json:"userId" bson:"userId"`
	Cluster     string        `json:"cluster" bson:"cluster"`
	Answers     AnswerMap     `json:"answers" bson:"answers"`
	PageAnswers PageAnswerMap `json:"pageAnswers" bson:"pageAnswers"`
	LastUpdated time.Time     `json:"lastUpdated" bson:"lastUpdated"`
}

// EnsureMaps initializes nil maps after decoding partial documents.
func (u *UserAnswers) EnsureMaps() {
	if u.Answers == nil {
		u.Answers = make(AnswerMap)
	}
	if u.PageAnswers == nil {
		u.PageAnswers = make(PageAnswerMap)
	}
}
