package store

import (
	"context"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"
)

// eventSequence is the counter name stamped on LLM event rows. Event ids
// are per table; the sequence orders events across tables and survives a
// table being rebuilt.
const eventSequence = "events"

// counter hands out increasing values for one row of the counters table.
type counter struct {
	mu   sync.Mutex
	db   *sqlx.DB
	name string
}

func newCounter(ctx context.Context, db *sqlx.DB, name string) (*counter, error) {
	query, args := builder().Insert("counters").
		Columns("name", "value").
		Values(name, 0).
		OnConflict(entsql.ConflictColumns("name"), entsql.DoNothing()).
		Query()
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("seed counter %s: %w", name, err)
	}
	return &counter{db: db, name: name}, nil
}

// Next returns the counter's next value, starting at 1.
func (c *counter) Next(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var v int64
	err := c.db.GetContext(ctx, &v,
		`UPDATE counters SET value = value + 1 WHERE name = ? RETURNING value`, c.name)
	if err != nil {
		return 0, fmt.Errorf("advance counter %s: %w", c.name, err)
	}
	return v, nil
}
