package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound means no record matched the given id.
	ErrNotFound = errors.New("summary not found")
	// ErrInvalidID means the id is not a well-formed object id.
	ErrInvalidID = errors.New("invalid summary id")
)

// Store defines the gateway to the persisted summary records
type Store interface {
	Create(ctx context.Context, rec *SummaryRecord) (*SummaryRecord, error)
	List(ctx context.Context) ([]SummaryRecord, error)
	GetByID(ctx context.Context, id string) (*SummaryRecord, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, fields UpdateFields) (*SummaryRecord, error)
	UpdateCaseNumber(ctx context.Context, id string, caseNumber int) error
	BulkUpdateCaseNumber(ctx context.Context, ids []string, caseNumber int) (int64, error)
	Search(ctx context.Context, filters SearchFilters) ([]SummaryRecord, error)
	LocationsForCase(ctx context.Context, caseNumber int) ([]CaseLocation, error)
	Close(ctx context.Context) error
}
