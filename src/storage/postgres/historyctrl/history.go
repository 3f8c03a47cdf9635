package historyctrl

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// SearchRecord is one logged search request.
type SearchRecord struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	Query          string    `gorm:"not null" json:"query"`
	EffectiveQuery string    `gorm:"not null" json:"effective_query"`
	ResultCount    int       `gorm:"not null" json:"result_count"`
	ProviderCount  int       `gorm:"not null" json:"provider_count"`
	LLMUsed        bool      `gorm:"column:llm_used" json:"llm_used"`
	CreatedAt      time.Time `json:"created_at"`
}

type Service struct {
	db        *gorm.DB
	snowflake *snowflake.Node
}

func NewService(db *gorm.DB) (*Service, error) {
	// Node number 1 for search history
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %v", err)
	}

	if err := db.AutoMigrate(&SearchRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate search records: %v", err)
	}

	return &Service{
		db:        db,
		snowflake: node,
	}, nil
}

// Record appends one search to the history log.
func (s *Service) Record(ctx context.Context, query, effectiveQuery string, resultCount, providerCount int, llmUsed bool) (*SearchRecord, error) {
	record := &SearchRecord{
		ID:             s.snowflake.Generate().Int64(),
		Query:          query,
		EffectiveQuery: effectiveQuery,
		ResultCount:    resultCount,
		ProviderCount:  providerCount,
		LLMUsed:        llmUsed,
	}

	result := s.db.WithContext(ctx).Create(record)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to create search record: %v", result.Error)
	}

	return record, nil
}

// Recent returns the latest records, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]SearchRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	var records []SearchRecord
	result := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&records)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list search records: %v", result.Error)
	}
	return records, nil
}
