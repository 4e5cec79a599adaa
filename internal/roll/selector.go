// Package roll picks a random item from the catalog and shapes it for
// display.
package roll

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/meur/logroll/internal/models"
)

// Roller performs random selections. It is not safe for concurrent use;
// the server confines each roll to a single request.
type Roller struct {
	rng *rand.Rand
}

// New creates a Roller seeded from the clock.
func New() *Roller {
	now := uint64(time.Now().UnixNano())
	return &Roller{rng: rand.New(rand.NewPCG(now, now>>32))}
}

// NewSeeded creates a Roller with a fixed seed, for deterministic tests.
func NewSeeded(seed uint64) *Roller {
	return &Roller{rng: rand.New(rand.NewPCG(seed, seed))}
}

// Pick selects one item uniformly from the catalog, skipping names in
// exclude. Each remaining unique item is equally likely regardless of how
// many sources it has. Returns models.ErrEmptyPool when nothing remains.
func (r *Roller) Pick(catalog *models.Catalog, exclude map[string]bool) (models.Item, error) {
	pool := eligible(catalog, exclude)
	if len(pool) == 0 {
		return models.Item{}, models.ErrEmptyPool
	}
	return pool[r.rng.IntN(len(pool))], nil
}

// PickWeighted selects one item with probability proportional to its number
// of sources, so an item dropped by three bosses is three times as likely
// as a single-source item.
func (r *Roller) PickWeighted(catalog *models.Catalog, exclude map[string]bool) (models.Item, error) {
	pool := eligible(catalog, exclude)
	if len(pool) == 0 {
		return models.Item{}, models.ErrEmptyPool
	}

	total := 0
	for _, item := range pool {
		total += weight(item)
	}

	n := r.rng.IntN(total)
	for _, item := range pool {
		n -= weight(item)
		if n < 0 {
			return item, nil
		}
	}
	return pool[len(pool)-1], nil
}

// Roll performs a selection and wraps it with roll metadata. TempleMode is
// recorded whenever an exclusion set was supplied, even an empty one.
func (r *Roller) Roll(catalog *models.Catalog, exclude map[string]bool, weighted bool) (models.Roll, error) {
	pick := r.Pick
	if weighted {
		pick = r.PickWeighted
	}

	item, err := pick(catalog, exclude)
	if err != nil {
		return models.Roll{}, err
	}

	return models.Roll{
		ID:         uuid.NewString(),
		Item:       item,
		RolledAt:   time.Now().UTC(),
		TempleMode: exclude != nil,
		Weighted:   weighted,
		PoolSize:   len(eligible(catalog, exclude)),
	}, nil
}

func eligible(catalog *models.Catalog, exclude map[string]bool) []models.Item {
	if catalog == nil {
		return nil
	}
	if len(exclude) == 0 {
		return catalog.Items
	}
	var pool []models.Item
	for _, item := range catalog.Items {
		if !exclude[item.Name] {
			pool = append(pool, item)
		}
	}
	return pool
}

func weight(item models.Item) int {
	if len(item.Sources) == 0 {
		return 1
	}
	return len(item.Sources)
}
