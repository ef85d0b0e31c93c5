package model

// ClusterMode tells which of the two interchangeable questionnaire shapes
// a cluster uses.
type ClusterMode string

const (
	ModeClassic ClusterMode = "classic" // linked list of questions with per-answer branching
	ModePaged   ClusterMode = "paged"   // ordered pages with conditional routing
)

// Cluster is a named questionnaire: either a flat ordered question list
// (classic) or an ordered page list (paged). Content is externally
// authored and read-only for the engine.
type Cluster struct {
	Key                   string     `json:"key" bson:"key"`
	Title                 string     `json:"title,omitempty" bson:"title,omitempty"`
	QuestionnaireTitle    string     `json:"questionnaireTitle,omitempty" bson:"questionnaireTitle,omitempty"`
	QuestionnaireSubtitle string     `json:"questionnaireSubtitle,omitempty" bson:"questionnaireSubtitle,omitempty"`
	Questionnaire         []Question `json:"questionnaire,omitempty" bson:"questionnaire,omitempty"`
	Pages                 []Page     `json:"pages,omitempty" bson:"pages,omitempty"`
}

// Mode reports the cluster's shape. A cluster carrying pages is paged
// even if a stale questionnaire list is also present.
func (c *Cluster) Mode() ClusterMode {
	if len(c.Pages) > 0 {
		return ModePaged
	}
	return ModeClassic
}

// DisplayTitle prefers the explicit title and falls back to the key.
func (c *Cluster) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Key
}

// ClusterProgress is one row of the aggregate progress list view.
type ClusterProgress struct {
	Cluster               string `json:"cluster"`
	Title                 string `json:"title"`
	QuestionnaireTitle    string `json:"questionnaireTitle,omitempty"`
	QuestionnaireSubtitle string `json:"questionnaireSubtitle,omitempty"`
	Percent               int    `json:"percent"`
}
