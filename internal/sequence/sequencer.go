package sequence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shoreline-studio/shop-backend/pkg/db/models"
)

// Sequencer allocates order display IDs of the form "YY-NNN". Counters are
// per calendar year and live in the order_counters table, which is the sole
// source of uniqueness; concurrent allocations never observe the same value.
type Sequencer struct {
	db *gorm.DB
}

func NewSequencer(db *gorm.DB) *Sequencer {
	return &Sequencer{db: db}
}

// Format renders a counter value as a display ID. The numeric part grows past
// three digits naturally once a year sees more than 999 orders.
func Format(year int, counter int64) string {
	return fmt.Sprintf("%02d-%03d", year%100, counter)
}

// Next allocates the next display ID for the year containing the given
// instant (UTC).
func (s *Sequencer) Next(ctx context.Context, at time.Time) (string, error) {
	year := at.UTC().Year()
	counter, err := s.nextCounter(ctx, year)
	if err != nil {
		return "", fmt.Errorf("allocating display id for year %d: %w", year, err)
	}
	return Format(year, counter), nil
}

func (s *Sequencer) nextCounter(ctx context.Context, year int) (int64, error) {
	switch s.db.Dialector.Name() {
	case "postgres", "sqlite":
		// Single-statement upsert keeps the increment atomic without an
		// explicit transaction.
		var counter int64
		err := s.db.WithContext(ctx).Raw(`
INSERT INTO order_counters (year, counter) VALUES (?, 1)
ON CONFLICT (year) DO UPDATE SET counter = order_counters.counter + 1
RETURNING counter`, year).Scan(&counter).Error
		return counter, err
	default:
		return s.nextCounterTx(ctx, year)
	}
}

// nextCounterTx is the fallback for dialects without upsert-returning: a
// transaction holding a row lock for the duration of the increment.
func (s *Sequencer) nextCounterTx(ctx context.Context, year int) (int64, error) {
	var counter int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.OrderCounter
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("year = ?", year).
			First(&row).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row = models.OrderCounter{Year: year, Counter: 1}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			row.Counter++
			if err := tx.Model(&models.OrderCounter{}).
				Where("year = ?", year).
				Update("counter", row.Counter).Error; err != nil {
				return err
			}
		}
		counter = row.Counter
		return nil
	})
	return counter, err
}

// Backfill assigns display IDs to orders that predate the sequencer. The
// whole pass runs in one transaction, oldest first, so historical ordering is
// preserved and the counters land in a consistent state even if the pass
// aborts midway. Orders that already carry a display ID are never renumbered.
// Returns the number of orders updated.
func (s *Sequencer) Backfill(ctx context.Context) (int, error) {
	assigned := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.
			Select("id", "created_at").
			Where("display_id IS NULL").
			Order("created_at ASC, id ASC")
		if tx.Dialector.Name() == "postgres" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var orders []models.Order
		if err := query.Find(&orders).Error; err != nil {
			return fmt.Errorf("listing orders without display ids: %w", err)
		}

		txSeq := NewSequencer(tx)
		for i := range orders {
			displayID, err := txSeq.Next(ctx, orders[i].CreatedAt)
			if err != nil {
				return err
			}
			res := tx.Model(&models.Order{}).
				Where("id = ? AND display_id IS NULL", orders[i].ID).
				Update("display_id", displayID)
			if res.Error != nil {
				return fmt.Errorf("assigning display id %s: %w", displayID, res.Error)
			}
			if res.RowsAffected > 0 {
				assigned++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return assigned, nil
}
