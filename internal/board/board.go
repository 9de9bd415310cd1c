package board

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/edgarsautoshop/statusboard/internal/domain"
)

// Column is one status lane of the board: its cards plus the aggregates the
// UI shows in the column header.
type Column struct {
	Key   domain.Status         `json:"key"`
	Count int                   `json:"count"`
	Sum   float64               `json:"sum"`
	Cards []*domain.Appointment `json:"cards"`
}

// Snapshot is a consistent read of the whole board: every column is built
// from a single store read, so no response mixes pre- and post-move state
// for the same appointment.
type Snapshot struct {
	Generation  int64     `json:"generation"`
	Columns     []Column  `json:"columns"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Lister is the slice of the appointment repository the read model needs.
type Lister interface {
	List(ctx context.Context, f domain.BoardFilter) ([]*domain.Appointment, error)
}

// Cache stores rendered snapshots keyed by a generation counter.
// *redis.BoardCache satisfies this interface.
type Cache interface {
	Generation(ctx context.Context) (int64, error)
	BumpGeneration(ctx context.Context) error
	GetSnapshot(ctx context.Context, key string) ([]byte, bool, error)
	SetSnapshot(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}

// Model is the derived, non-authoritative board projection. It is rebuilt
// from the appointment store on demand and must never feed versions back
// into a compare-and-swap.
type Model struct {
	appointments Lister
	cache        Cache
	ttl          time.Duration
}

func New(appointments Lister, cache Cache, ttl time.Duration) *Model {
	return &Model{appointments: appointments, cache: cache, ttl: ttl}
}

// Query returns the board grouped by status. Snapshots are cached under the
// current generation; a cache outage degrades to rebuilding from the store.
func (m *Model) Query(ctx context.Context, f domain.BoardFilter) (*Snapshot, error) {
	gen, genErr := m.cache.Generation(ctx)
	if genErr == nil {
		key := snapshotKey(gen, f)

		payload, ok, getErr := m.cache.GetSnapshot(ctx, key)
		if getErr != nil {
			log.Warn().Err(getErr).Msg("board: snapshot read failed, rebuilding")
		} else if ok {
			var snap Snapshot
			if unmarshalErr := json.Unmarshal(payload, &snap); unmarshalErr == nil {
				return &snap, nil
			}
			log.Warn().Str("key", key).Msg("board: corrupt cached snapshot, rebuilding")
		}
	} else {
		log.Warn().Err(genErr).Msg("board: generation read failed, serving uncached")
	}

	appts, err := m.appointments.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("board.Model.Query: %w", err)
	}

	snap := build(appts, gen)

	if genErr == nil {
		payload, marshalErr := json.Marshal(snap)
		if marshalErr == nil {
			if setErr := m.cache.SetSnapshot(ctx, snapshotKey(gen, f), payload, m.ttl); setErr != nil {
				log.Warn().Err(setErr).Msg("board: snapshot write failed")
			}
		}
	}

	return snap, nil
}

// Invalidate advances the board generation after an accepted move so the
// next read, including one from the mover itself, rebuilds from the store.
func (m *Model) Invalidate(ctx context.Context) error {
	if err := m.cache.BumpGeneration(ctx); err != nil {
		return fmt.Errorf("board.Model.Invalidate: %w", err)
	}
	return nil
}

func build(appts []*domain.Appointment, gen int64) *Snapshot {
	byStatus := make(map[domain.Status][]*domain.Appointment, len(appts))
	for _, a := range appts {
		byStatus[a.Status] = append(byStatus[a.Status], a)
	}

	columns := make([]Column, 0, len(domain.Statuses()))
	for _, s := range domain.Statuses() {
		cards := byStatus[s]
		if cards == nil {
			cards = make([]*domain.Appointment, 0)
		}

		var sum float64
		for _, a := range cards {
			sum += a.EstimatedTotal
		}

		columns = append(columns, Column{Key: s, Count: len(cards), Sum: sum, Cards: cards})
	}

	return &Snapshot{
		Generation:  gen,
		Columns:     columns,
		GeneratedAt: time.Now().UTC(),
	}
}

func snapshotKey(gen int64, f domain.BoardFilter) string {
	return fmt.Sprintf("board:snap:%d:%d-%d", gen, f.From.Unix(), f.To.Unix())
}
