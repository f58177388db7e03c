package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nguyentantai21042004/audio-sentinel/internal/analysis"
)

// parseID converts the caller-supplied hex id, mapping malformed input
// to ErrInvalidID.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

func (s *implStore) Create(ctx context.Context, rec *SummaryRecord) (*SummaryRecord, error) {
	// Ids are store-assigned, never client-supplied.
	rec.ID = primitive.NilObjectID

	res, err := s.records.InsertOne(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("insert summary: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	rec.ID = oid

	s.logger.Debug(ctx, "Created summary record %s", oid.Hex())
	return rec, nil
}

func (s *implStore) List(ctx context.Context) ([]SummaryRecord, error) {
	return s.find(ctx, bson.M{})
}

func (s *implStore) GetByID(ctx context.Context, id string) (*SummaryRecord, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var rec SummaryRecord
	err = s.records.FindOne(ctx, bson.M{"_id": oid}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find summary: %w", err)
	}
	return &rec, nil
}

func (s *implStore) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := s.records.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete summary: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *implStore) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.records.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("delete all summaries: %w", err)
	}
	s.logger.Info(ctx, "Deleted %d summary records", res.DeletedCount)
	return res.DeletedCount, nil
}

// Update applies the provided non-nil fields. Word counts are recomputed
// when the corresponding text field is part of the update.
func (s *implStore) Update(ctx context.Context, id string, fields UpdateFields) (*SummaryRecord, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if fields.Title != nil {
		set["title"] = *fields.Title
	}
	if fields.Content != nil {
		set["content"] = *fields.Content
		set["content_length"] = analysis.WordCount(*fields.Content)
	}
	if fields.Summary != nil {
		set["summary"] = *fields.Summary
		set["summary_length"] = analysis.WordCount(*fields.Summary)
	}
	if fields.KeyTerms != nil {
		set["key_terms"] = fields.KeyTerms
	}
	if fields.Date != nil {
		set["date"] = *fields.Date
	}
	if fields.ThreatLevel != nil {
		set["threat_level"] = *fields.ThreatLevel
	}
	if fields.Location != nil {
		set["location"] = *fields.Location
	}
	if fields.CaseNumber != nil {
		set["case_number"] = *fields.CaseNumber
	}
	if fields.Resolved != nil {
		set["resolved"] = *fields.Resolved
	}

	if len(set) > 0 {
		res, err := s.records.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
		if err != nil {
			return nil, fmt.Errorf("update summary: %w", err)
		}
		if res.MatchedCount == 0 {
			return nil, ErrNotFound
		}
	}

	return s.GetByID(ctx, id)
}

func (s *implStore) UpdateCaseNumber(ctx context.Context, id string, caseNumber int) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := s.records.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"case_number": caseNumber}})
	if err != nil {
		return fmt.Errorf("update case number: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// BulkUpdateCaseNumber reassigns the case number on every matching
// record and returns how many were modified. Malformed ids fail the
// whole call; unknown ids are simply not counted.
func (s *implStore) BulkUpdateCaseNumber(ctx context.Context, ids []string, caseNumber int) (int64, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := parseID(id)
		if err != nil {
			return 0, err
		}
		oids = append(oids, oid)
	}

	res, err := s.records.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": oids}},
		bson.M{"$set": bson.M{"case_number": caseNumber}},
	)
	if err != nil {
		return 0, fmt.Errorf("bulk update case number: %w", err)
	}
	return res.ModifiedCount, nil
}

func (s *implStore) Search(ctx context.Context, filters SearchFilters) ([]SummaryRecord, error) {
	return s.find(ctx, buildSearchFilter(filters))
}

func (s *implStore) LocationsForCase(ctx context.Context, caseNumber int) ([]CaseLocation, error) {
	opts := options.Find().SetProjection(bson.M{"title": 1, "location": 1, "threat_level": 1})
	cursor, err := s.records.Find(ctx, bson.M{"case_number": caseNumber}, opts)
	if err != nil {
		return nil, fmt.Errorf("find case locations: %w", err)
	}

	locations := []CaseLocation{}
	if err := cursor.All(ctx, &locations); err != nil {
		return nil, fmt.Errorf("decode case locations: %w", err)
	}
	return locations, nil
}

func (s *implStore) find(ctx context.Context, filter bson.M) ([]SummaryRecord, error) {
	cursor, err := s.records.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find summaries: %w", err)
	}

	records := []SummaryRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode summaries: %w", err)
	}
	return records, nil
}
