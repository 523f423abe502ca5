// Package idgen implements per-store identifier allocation on top of
// counter rows. Each (store, kind) pair owns one row; allocation advances
// the counter atomically and hands back the claimed range.
package idgen

import (
	"context"
	"sort"

	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/ports"

	"gorm.io/gorm"
)

// CounterDTO represents one identifier counter row.
type CounterDTO struct {
	StoreID int64  `gorm:"primaryKey;autoIncrement:false"`
	Kind    string `gorm:"primaryKey"`
	LastID  int64
}

// TableName specifies the database table name for identifier counters.
func (CounterDTO) TableName() string {
	return "id_counters"
}

// GormIDGenerator implements ports.IDGenerator using counter rows. Running
// it on the transaction of the surrounding unit of work keeps allocation
// and the write that consumes the identifiers atomic.
type GormIDGenerator struct {
	db *gorm.DB
}

// NewGormIDGenerator creates a counter-backed identifier generator.
func NewGormIDGenerator(db *gorm.DB) *GormIDGenerator {
	return &GormIDGenerator{db: db}
}

// Allocate claims the requested number of identifiers per kind in one
// round trip per counter. Kinds are processed in a stable order so two
// concurrent allocations lock counters consistently and cannot deadlock.
func (g *GormIDGenerator) Allocate(ctx context.Context, storeID kernel.StoreID, counts map[ports.IDKind]int) (*ports.IDBatch, error) {
	if err := storeID.Validate(); err != nil {
		return nil, err
	}

	kinds := make([]ports.IDKind, 0, len(counts))
	for kind, count := range counts {
		if count > 0 {
			kinds = append(kinds, kind)
		}
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	ids := make(map[ports.IDKind][]kernel.ID, len(kinds))
	for _, kind := range kinds {
		count := counts[kind]

		var lastID int64
		err := g.db.WithContext(ctx).Raw(`
			INSERT INTO id_counters (store_id, kind, last_id)
			VALUES (?, ?, ?)
			ON CONFLICT (store_id, kind)
			DO UPDATE SET last_id = id_counters.last_id + ?
			RETURNING last_id
		`, storeID.Int64(), string(kind), count, count).Scan(&lastID).Error
		if err != nil {
			return nil, err
		}

		queue := make([]kernel.ID, 0, count)
		for value := lastID - int64(count) + 1; value <= lastID; value++ {
			id, idErr := kernel.NewID(value)
			if idErr != nil {
				return nil, idErr
			}
			queue = append(queue, id)
		}
		ids[kind] = queue
	}

	return ports.NewIDBatch(ids), nil
}
