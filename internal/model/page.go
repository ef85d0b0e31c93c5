package model

// Operator types supported by routing conditions.
const (
	OpEqual        = "=="
	OpNotEqual     = "!="
	OpGreater      = ">"
	OpGreaterEqual = ">="
	OpLess         = "<"
	OpLessEqual    = "<="
)

// DefaultActionComplete marks a routing default that ends the flow
// instead of continuing to another page.
const DefaultActionComplete = "complete"

// Condition is a single routing predicate over a stored answer.
type Condition struct {
	QuestionID   string `json:"questionId" bson:"questionId"`
	OperatorType string `json:"operatorType,omitempty" bson:"operatorType,omitempty"`
	// LegacyOperator carries the pre-rename "operator" key still present
	// in older content documents.
	LegacyOperator string `json:"operator,omitempty" bson:"operator,omitempty"`
	Value          string `json:"value" bson:"value"`
}

// Op returns the effective operator, preferring the current key over the
// legacy one.
func (c Condition) Op() string {
	if c.OperatorType != "" {
		return c.OperatorType
	}
	return c.LegacyOperator
}

// RoutingRule routes to NextPage when its condition holds. Rules are
// evaluated in ascending Priority order (lower number wins).
type RoutingRule struct {
	Condition Condition `json:"condition" bson:"condition"`
	NextPage  string    `json:"nextPage" bson:"nextPage"`
	Priority  int       `json:"priority" bson:"priority"`
}

// Routing is a page's conditional-routing block. DefaultAction is either
// a page id (the fallthrough continuation) or "complete".
type Routing struct {
	Rules         []RoutingRule `json:"rules" bson:"rules"`
	DefaultAction string        `json:"defaultAction" bson:"defaultAction"`
}

// Page groups questions shown together in paged mode.
type Page struct {
	ID                 string     `json:"id" bson:"id"`
	Title              string     `json:"title,omitempty" bson:"title,omitempty"`
	Description        string     `json:"description,omitempty" bson:"description,omitempty"`
	Questions          []Question `json:"questions" bson:"questions"`
	ShowContinue       bool       `json:"showContinue" bson:"showContinue"`
	IsLast             bool       `json:"isLast" bson:"isLast"`
	ConditionalRouting *Routing   `json:"conditionalRouting,omitempty" bson:"conditionalRouting,omitempty"`
}

// RequiredQuestions returns the questions that count toward completion
// and progress.
func (p Page) RequiredQuestions() []Question {
	var out []Question
	for _, q := range p.Questions {
		if q.Required {
			out = append(out, q)
		}
	}
	return out
}
