package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/KYVENetwork/sumo-dlt/loader/collector"
	"github.com/KYVENetwork/sumo-dlt/utils"
	"github.com/google/uuid"
)

var (
	logger = utils.DltLogger("loader")
)

// Start runs one full import: schema reset, pre-pass count, streaming load,
// final commit and, for summary schemas, the post-load aggregation. Any error
// aborts the run; work after the last commit is rolled back by the store.
func (loader *Loader) Start(ctx context.Context) (Status, error) {
	runId := uuid.New().String()
	log := logger.With().Str("run", runId).Str("connection", loader.config.ConnectionName).Logger()

	status := Status{StartTime: loader.now()}
	utils.PrometheusImportStarted.WithLabelValues(loader.config.ConnectionName).Inc()
	utils.TrackEvent(loader.config.Telemetry, utils.EventLoadStarted, map[string]interface{}{
		"strategy": loader.config.Strategy,
		"schema":   loader.source.Name(),
	})

	status, err := loader.run(ctx, status)
	status.Duration = loader.now().Sub(status.StartTime)

	if err != nil {
		utils.PrometheusImportFailed.WithLabelValues(loader.config.ConnectionName).Inc()
		utils.TrackEvent(loader.config.Telemetry, utils.EventLoadFailed, map[string]interface{}{
			"strategy": loader.config.Strategy,
			"schema":   loader.source.Name(),
		})
		log.Error().Str("err", err.Error()).Str("status", status.String()).Msg("import aborted")
		return status, err
	}

	utils.PrometheusImportFinished.WithLabelValues(loader.config.ConnectionName).Inc()
	utils.PrometheusLastImportDuration.WithLabelValues(loader.config.ConnectionName).Set(status.Duration.Seconds())
	utils.TrackEvent(loader.config.Telemetry, utils.EventLoadFinished, map[string]interface{}{
		"strategy": loader.config.Strategy,
		"schema":   loader.source.Name(),
		"records":  status.Imported,
	})
	log.Info().Msg("operations completed")
	return status, nil
}

func (loader *Loader) run(ctx context.Context, status Status) (Status, error) {
	// an unreadable source must fail before the table is dropped
	logger.Info().Str("path", loader.config.SourcePath).Msg("collecting data")
	total, err := collector.CountRecords(loader.config.SourcePath)
	if err != nil {
		return status, err
	}
	status.Total = total

	if o, ok := loader.destination.(opener); ok {
		if err := o.Open(ctx); err != nil {
			return status, err
		}
	}
	defer func() {
		if err := loader.destination.Close(); err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to close destination")
		}
	}()

	baseWallClock := loader.config.FromTime
	if baseWallClock.IsZero() {
		baseWallClock = status.StartTime.UTC()
	}

	writer, err := NewWriter(loader.destination, loader.source, loader.config.Strategy, loader.config.BatchSize, baseWallClock)
	if err != nil {
		return status, err
	}
	writer.WithConnection(loader.config.ConnectionName)

	manager := SchemaManager{
		Destination:       loader.destination,
		Source:            loader.source,
		TableName:         loader.config.TableName,
		SummaryViewName:   loader.config.SummaryViewName,
		SkipIndexCreation: loader.config.SkipIndexCreation,
	}
	if err := manager.Reset(ctx); err != nil {
		return status, err
	}
	// bulk-at-end keeps the reset in the single load transaction, a failed
	// run rolls the drop back and the previous table survives
	if loader.config.Strategy == utils.StrategyIncremental {
		if err := loader.destination.Commit(ctx); err != nil {
			return status, err
		}
	}

	status, err = loader.stream(ctx, writer, status)
	if err != nil {
		return status, err
	}

	logger.Info().Msg("committing insert")
	if err := writer.Finish(ctx); err != nil {
		return status, err
	}
	status.Commits = writer.Commits()
	logger.Info().Msg(fmt.Sprintf("import of %d records completed in %.2f seconds",
		status.Imported, loader.now().Sub(status.StartTime).Seconds()))

	if _, err := manager.Finalize(ctx); err != nil {
		return status, err
	}
	return status, nil
}

func (loader *Loader) stream(ctx context.Context, writer *Writer, status Status) (Status, error) {
	reader, err := collector.NewReader(loader.config.SourcePath)
	if err != nil {
		return status, err
	}
	defer reader.Close()

	logger.Info().Int64("total", status.Total).Msg("importing data")

	importStart := loader.now()
	eta := importStart
	for {
		if err := ctx.Err(); err != nil {
			return status, err
		}

		group, err := reader.Next()
		if errors.Is(err, io.EOF) {
			if status.Total > 0 && status.Imported < status.Total {
				// the bar only breaks the line on completion
				_, _ = io.WriteString(loader.out, "\n")
			}
			return status, nil
		}
		if err != nil {
			return status, err
		}

		if err := writer.WriteGroup(ctx, group); err != nil {
			return status, err
		}
		status.Imported = writer.Imported()
		status.Commits = writer.Commits()

		if status.Timesteps%int64(loader.config.EtaInterval) == 0 {
			etaSeconds := utils.EstimateSecondsRemaining(importStart, status.Imported, status.Total)
			eta = loader.now().Add(time.Duration(etaSeconds * float64(time.Second)))
			utils.LogMemoryStats(logger, loader.config.ConnectionName)
			utils.PrometheusImportProgress.WithLabelValues(loader.config.ConnectionName).Set(status.Fraction())
		}
		status.Timesteps++

		loader.renderProgress(status, eta)
	}
}

func (loader *Loader) renderProgress(status Status, eta time.Time) {
	// an empty source has nothing to render and would divide by zero
	if status.Total <= 0 {
		return
	}

	opts := loader.config.Bar
	opts.Prefix = "Progress: "
	opts.Suffix = "Estimation: " + eta.Format("15:04")
	_, _ = io.WriteString(loader.out, utils.FormatProgressBar(min(status.Imported, status.Total), status.Total, opts))
}
