package store

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// containsPattern builds a case-insensitive substring match. The term is
// quoted so user input is never interpreted as a regular expression.
func containsPattern(term string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
}

// buildSearchFilter translates SearchFilters into a Mongo query document.
// All provided filters are ANDed.
func buildSearchFilter(f SearchFilters) bson.M {
	filter := bson.M{}

	if f.Title != "" {
		filter["title"] = containsPattern(f.Title)
	}
	if f.Content != "" {
		filter["content"] = containsPattern(f.Content)
	}
	if f.Summary != "" {
		filter["summary"] = containsPattern(f.Summary)
	}
	if f.Location != "" {
		filter["location"] = containsPattern(f.Location)
	}
	if f.ThreatLevel != "" {
		filter["threat_level"] = containsPattern(f.ThreatLevel)
	}

	switch {
	case f.Date != "":
		filter["date"] = f.Date
	case f.DateBefore != "" && f.DateAfter != "":
		filter["date"] = bson.M{"$gt": f.DateAfter, "$lt": f.DateBefore}
	case f.DateBefore != "":
		filter["date"] = bson.M{"$lt": f.DateBefore}
	case f.DateAfter != "":
		filter["date"] = bson.M{"$gt": f.DateAfter}
	}

	// Every requested term must match some key term (AND semantics).
	if len(f.KeyTerms) > 0 {
		clauses := make(bson.A, 0, len(f.KeyTerms))
		for _, term := range f.KeyTerms {
			clauses = append(clauses, bson.M{"key_terms": containsPattern(term)})
		}
		filter["$and"] = clauses
	}

	if f.CaseNumber != nil {
		filter["case_number"] = *f.CaseNumber
	}
	if f.ContentLength != nil {
		filter["content_length"] = *f.ContentLength
	}
	if f.SummaryLength != nil {
		filter["summary_length"] = *f.SummaryLength
	}
	if f.Resolved != nil {
		filter["resolved"] = *f.Resolved
	}
	if f.Latitude != nil {
		filter["latitude"] = *f.Latitude
	}
	if f.Longitude != nil {
		filter["longitude"] = *f.Longitude
	}

	return filter
}
