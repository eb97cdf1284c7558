package loader

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/KYVENetwork/sumo-dlt/schema"
	"github.com/KYVENetwork/sumo-dlt/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingDestination keeps every call in order. Rows are copied because
// the writer reuses its batch slice.
type recordingDestination struct {
	ops      []string
	inserted [][]schema.TransformedRecord

	insertErr error
	commitErr error
}

func (d *recordingDestination) Open(ctx context.Context) error {
	d.ops = append(d.ops, "open")
	return nil
}

func (d *recordingDestination) Exec(ctx context.Context, stmt string) error {
	d.ops = append(d.ops, "exec "+stmt)
	return nil
}

func (d *recordingDestination) InsertRows(ctx context.Context, rows []schema.TransformedRecord) error {
	if d.insertErr != nil {
		return d.insertErr
	}
	d.ops = append(d.ops, "insert "+strconv.Itoa(len(rows)))
	d.inserted = append(d.inserted, append([]schema.TransformedRecord(nil), rows...))
	return nil
}

func (d *recordingDestination) Commit(ctx context.Context) error {
	if d.commitErr != nil {
		return d.commitErr
	}
	d.ops = append(d.ops, "commit")
	return nil
}

func (d *recordingDestination) Close() error {
	d.ops = append(d.ops, "close")
	return nil
}

func (d *recordingDestination) count(op string) int {
	n := 0
	for _, o := range d.ops {
		if o == op {
			n++
		}
	}
	return n
}

var baseWallClock = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func vehicle(id string) schema.RawVehicleRecord {
	return schema.RawVehicleRecord{Id: id, Lane: "1", X: "13.40", Y: "45.33", Angle: "90", Type: "car", Speed: "10"}
}

func group(simTime float64, ids ...string) *schema.TimestepGroup {
	g := &schema.TimestepGroup{Time: simTime}
	for _, id := range ids {
		g.Vehicles = append(g.Vehicles, vehicle(id))
	}
	return g
}

func TestBulkWriterInsertsOneStatementPerGroup(t *testing.T) {
	dest := &recordingDestination{}
	w, err := NewWriter(dest, schema.Projected{}, utils.StrategyBulkAtEnd, 0, baseWallClock)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, w.WriteGroup(ctx, group(0, "a", "b", "c")))
	assert.Equal(t, []string{"insert 3"}, dest.ops)
	assert.Equal(t, StateAccumulating, w.State())

	require.NoError(t, w.Finish(ctx))
	assert.Equal(t, []string{"insert 3", "commit"}, dest.ops)
	assert.Equal(t, int64(3), w.Imported())
	assert.Equal(t, int64(1), w.Commits())
	assert.Equal(t, StateCommitted, w.State())

	rows := dest.inserted[0]
	assert.Equal(t, []string{"a", "b", "c"}, []string{rows[0].VehicleId, rows[1].VehicleId, rows[2].VehicleId})
	assert.Equal(t, 36.0, rows[0].Speed)
}

func TestBulkWriterSkipsEmptyGroups(t *testing.T) {
	dest := &recordingDestination{}
	w, err := NewWriter(dest, schema.Geographic{}, utils.StrategyBulkAtEnd, 0, baseWallClock)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, w.WriteGroup(ctx, group(0)))
	require.NoError(t, w.WriteGroup(ctx, group(1, "a")))
	require.NoError(t, w.Finish(ctx))

	assert.Equal(t, []string{"insert 1", "commit"}, dest.ops)
}

func TestIncrementalWriterCommitsAtGroupBoundaries(t *testing.T) {
	dest := &recordingDestination{}
	w, err := NewWriter(dest, schema.Geographic{}, utils.StrategyIncremental, 100, baseWallClock)
	require.NoError(t, err)
	ctx := context.Background()

	var commitsAt []int64
	for i := 0; i < 250; i++ {
		before := w.Commits()
		require.NoError(t, w.WriteGroup(ctx, group(float64(i), fmt.Sprintf("veh%d", i))))
		if w.Commits() > before {
			commitsAt = append(commitsAt, w.Imported())
		}
	}
	require.NoError(t, w.Finish(ctx))

	assert.Equal(t, []int64{101, 201}, commitsAt)
	assert.Equal(t, int64(3), w.Commits())
	assert.Equal(t, 250, dest.count("insert 1"))
	assert.Equal(t, 3, dest.count("commit"))
}

func TestIncrementalWriterNeverCommitsMidGroup(t *testing.T) {
	dest := &recordingDestination{}
	w, err := NewWriter(dest, schema.Geographic{}, utils.StrategyIncremental, 2, baseWallClock)
	require.NoError(t, err)

	require.NoError(t, w.WriteGroup(context.Background(), group(0, "a", "b", "c", "d", "e")))

	assert.Equal(t, []string{"insert 1", "insert 1", "insert 1", "insert 1", "insert 1", "commit"}, dest.ops)
	assert.Equal(t, int64(1), w.Commits())
}

func TestWriterFinishCommitsEmptyImport(t *testing.T) {
	for _, strategy := range []string{utils.StrategyBulkAtEnd, utils.StrategyIncremental} {
		t.Run(strategy, func(t *testing.T) {
			dest := &recordingDestination{}
			w, err := NewWriter(dest, schema.Geographic{}, strategy, 10, baseWallClock)
			require.NoError(t, err)

			require.NoError(t, w.Finish(context.Background()))
			require.NoError(t, w.Finish(context.Background()))

			assert.Equal(t, []string{"commit"}, dest.ops)
			assert.Zero(t, w.Imported())
		})
	}
}

func TestWriterRejectsGroupsAfterFinish(t *testing.T) {
	w, err := NewWriter(&recordingDestination{}, schema.Geographic{}, utils.StrategyBulkAtEnd, 0, baseWallClock)
	require.NoError(t, err)

	require.NoError(t, w.Finish(context.Background()))
	assert.Error(t, w.WriteGroup(context.Background(), group(0, "a")))
}

func TestWriterStopsOnInvalidRecord(t *testing.T) {
	dest := &recordingDestination{}
	w, err := NewWriter(dest, schema.Projected{}, utils.StrategyBulkAtEnd, 0, baseWallClock)
	require.NoError(t, err)

	g := group(3, "a", "b")
	g.Vehicles[1].Speed = "fast"

	err = w.WriteGroup(context.Background(), g)
	assert.ErrorIs(t, err, utils.ErrInvalidRecord)
	assert.Empty(t, dest.ops)
}

func TestWriterPropagatesStoreErrors(t *testing.T) {
	storeErr := fmt.Errorf("%w: connection reset", utils.ErrStoreUnavailable)

	dest := &recordingDestination{insertErr: storeErr}
	w, err := NewWriter(dest, schema.Geographic{}, utils.StrategyIncremental, 10, baseWallClock)
	require.NoError(t, err)
	assert.ErrorIs(t, w.WriteGroup(context.Background(), group(0, "a")), utils.ErrStoreUnavailable)
	assert.Zero(t, w.Imported())

	dest = &recordingDestination{commitErr: storeErr}
	w, err = NewWriter(dest, schema.Geographic{}, utils.StrategyBulkAtEnd, 0, baseWallClock)
	require.NoError(t, err)
	assert.True(t, errors.Is(w.Finish(context.Background()), utils.ErrStoreUnavailable))
	assert.NotEqual(t, StateCommitted, w.State())
}

func TestNewWriterValidatesStrategy(t *testing.T) {
	_, err := NewWriter(&recordingDestination{}, schema.Geographic{}, "streaming", 10, baseWallClock)
	assert.Error(t, err)

	_, err = NewWriter(&recordingDestination{}, schema.Geographic{}, utils.StrategyIncremental, 0, baseWallClock)
	assert.Error(t, err)
}

func TestWriterStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "flushing", StateFlushing.String())
	assert.Equal(t, "WriterState(9)", WriterState(9).String())
}
