package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/KYVENetwork/sumo-dlt/destinations"
	"github.com/KYVENetwork/sumo-dlt/schema"
	"github.com/KYVENetwork/sumo-dlt/utils"
)

type WriterState int

const (
	StateIdle WriterState = iota
	StateAccumulating
	StateFlushing
	StateCommitted
)

func (s WriterState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAccumulating:
		return "accumulating"
	case StateFlushing:
		return "flushing"
	case StateCommitted:
		return "committed"
	}
	return fmt.Sprintf("WriterState(%d)", int(s))
}

// Writer transforms timestep groups and hands them to the destination.
//
// With the bulk-at-end strategy every group becomes one multi-row insert and
// the transaction is committed once by Finish. With the incremental strategy
// every record is inserted on its own and the transaction is committed at the
// first group boundary after the imported count passed the next batch window.
type Writer struct {
	destination   destinations.Destination
	source        schema.DataSource
	strategy      string
	batchSize     int64
	baseWallClock time.Time
	connection    string

	state    WriterState
	batch    []schema.TransformedRecord
	imported int64
	window   int64
	commits  int64
}

func NewWriter(destination destinations.Destination, source schema.DataSource, strategy string, batchSize int64, baseWallClock time.Time) (*Writer, error) {
	switch strategy {
	case utils.StrategyBulkAtEnd:
	case utils.StrategyIncremental:
		if batchSize <= 0 {
			return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
		}
	default:
		return nil, fmt.Errorf("unknown strategy %q", strategy)
	}

	return &Writer{
		destination:   destination,
		source:        source,
		strategy:      strategy,
		batchSize:     batchSize,
		baseWallClock: baseWallClock,
		state:         StateIdle,
		window:        1,
	}, nil
}

// WithConnection labels the writer metrics.
func (w *Writer) WithConnection(name string) *Writer {
	w.connection = name
	return w
}

func (w *Writer) WriteGroup(ctx context.Context, group *schema.TimestepGroup) error {
	if w.state == StateCommitted {
		return fmt.Errorf("writer already committed")
	}
	w.state = StateAccumulating

	if w.strategy == utils.StrategyBulkAtEnd {
		return w.writeBulk(ctx, group)
	}
	return w.writeIncremental(ctx, group)
}

func (w *Writer) writeBulk(ctx context.Context, group *schema.TimestepGroup) error {
	w.batch = w.batch[:0]
	for _, raw := range group.Vehicles {
		record, err := w.source.Transform(raw, group.Time, w.baseWallClock)
		if err != nil {
			return fmt.Errorf("timestep %v: %w", group.Time, err)
		}
		w.batch = append(w.batch, record)
	}

	if err := w.flush(ctx, w.batch); err != nil {
		return err
	}
	clear(w.batch)
	w.batch = w.batch[:0]
	return nil
}

func (w *Writer) writeIncremental(ctx context.Context, group *schema.TimestepGroup) error {
	for _, raw := range group.Vehicles {
		record, err := w.source.Transform(raw, group.Time, w.baseWallClock)
		if err != nil {
			return fmt.Errorf("timestep %v: %w", group.Time, err)
		}
		w.batch = append(w.batch[:0], record)
		if err := w.flush(ctx, w.batch); err != nil {
			return err
		}
	}
	clear(w.batch)
	w.batch = w.batch[:0]

	// commits only happen between groups
	if w.window*w.batchSize < w.imported {
		w.window++
		return w.commit(ctx)
	}
	return nil
}

func (w *Writer) flush(ctx context.Context, rows []schema.TransformedRecord) error {
	if len(rows) == 0 {
		return nil
	}

	w.state = StateFlushing
	if err := w.destination.InsertRows(ctx, rows); err != nil {
		return err
	}
	w.imported += int64(len(rows))
	w.state = StateAccumulating

	utils.PrometheusInsertCalls.WithLabelValues(w.connection).Inc()
	utils.PrometheusRecordsWritten.WithLabelValues(w.connection).Add(float64(len(rows)))
	return nil
}

func (w *Writer) commit(ctx context.Context) error {
	if err := w.destination.Commit(ctx); err != nil {
		return err
	}
	w.commits++
	utils.PrometheusCommits.WithLabelValues(w.connection).Inc()
	return nil
}

// Finish issues the final commit, it runs even when no record was written.
func (w *Writer) Finish(ctx context.Context) error {
	if w.state == StateCommitted {
		return nil
	}
	if err := w.commit(ctx); err != nil {
		return err
	}
	w.state = StateCommitted
	return nil
}

func (w *Writer) State() WriterState {
	return w.state
}

// Imported counts records handed to the destination, committed or not.
func (w *Writer) Imported() int64 {
	return w.imported
}

func (w *Writer) Commits() int64 {
	return w.commits
}
