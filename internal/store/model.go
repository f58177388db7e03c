package store

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SummaryRecord is the persisted unit: one analyzed recording.
// Collection: summaries. The date field is kept as a YYYY-MM-DD string;
// that format compares lexicographically in chronological order, so
// range queries work directly on the stored value.
type SummaryRecord struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Content       string             `bson:"content" json:"content"`
	ContentLength int                `bson:"content_length" json:"content_length"`
	Summary       string             `bson:"summary" json:"summary"`
	SummaryLength int                `bson:"summary_length" json:"summary_length"`
	KeyTerms      []string           `bson:"key_terms" json:"key_terms"`
	Date          string             `bson:"date" json:"date"`
	ThreatLevel   string             `bson:"threat_level" json:"threat_level"`
	Location      string             `bson:"location" json:"location"`
	CaseNumber    *int               `bson:"case_number,omitempty" json:"case_number,omitempty"`
	Resolved      bool               `bson:"resolved" json:"resolved"`
	Latitude      *float64           `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude     *float64           `bson:"longitude,omitempty" json:"longitude,omitempty"`
}

// UpdateFields carries a partial update; nil fields are left untouched.
type UpdateFields struct {
	Title       *string  `json:"title"`
	Content     *string  `json:"content"`
	Summary     *string  `json:"summary"`
	KeyTerms    []string `json:"key_terms"`
	Date        *string  `json:"date"`
	ThreatLevel *string  `json:"threat_level"`
	Location    *string  `json:"location"`
	CaseNumber  *int     `json:"case_number"`
	Resolved    *bool    `json:"resolved"`
}

// SearchFilters are ANDed together; zero values mean "no constraint".
type SearchFilters struct {
	Title         string
	Content       string
	Summary       string
	Location      string
	ThreatLevel   string
	Date          string
	DateBefore    string
	DateAfter     string
	KeyTerms      []string
	CaseNumber    *int
	ContentLength *int
	SummaryLength *int
	Resolved      *bool
	Latitude      *float64
	Longitude     *float64
}

// CaseLocation is the per-record digest returned for a case number.
type CaseLocation struct {
	Title       string `bson:"title" json:"title"`
	Location    string `bson:"location" json:"location"`
	ThreatLevel string `bson:"threat_level" json:"threat_level"`
}
