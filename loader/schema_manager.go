package loader

import (
	"context"

	"github.com/KYVENetwork/sumo-dlt/destinations"
	"github.com/KYVENetwork/sumo-dlt/schema"
)

// SchemaManager owns the target table and, for summary schemas, the derived view.
type SchemaManager struct {
	Destination       destinations.Destination
	Source            schema.DataSource
	TableName         string
	SummaryViewName   string
	SkipIndexCreation bool
}

// Reset drops the view and table if they exist and recreates the table with
// its indexes. Running it twice yields the same schema.
func (m SchemaManager) Reset(ctx context.Context) error {
	logger.Info().Msg("db cleanup")
	if summary, ok := m.summary(); ok {
		if err := m.Destination.Exec(ctx, summary.GetPostgresDropSummaryCommand(m.SummaryViewName)); err != nil {
			return err
		}
	}
	if err := m.Destination.Exec(ctx, m.Source.GetPostgresDropTableCommand(m.TableName)); err != nil {
		return err
	}

	logger.Info().Str("table", m.TableName).Msg("creating table")
	if err := m.Destination.Exec(ctx, m.Source.GetPostgresCreateTableCommand(m.TableName)); err != nil {
		return err
	}

	if m.SkipIndexCreation {
		logger.Info().Msg("skipping index creation")
		return nil
	}
	return m.createIndexes(ctx, m.TableName, m.Source.GetPostgresIndexCommands(m.TableName))
}

// Finalize builds the summary view and its indexes after the last commit.
// Schemas without a summary are left untouched.
func (m SchemaManager) Finalize(ctx context.Context) (bool, error) {
	summary, ok := m.summary()
	if !ok {
		return false, nil
	}

	logger.Info().Str("view", m.SummaryViewName).Msg("creating summary materialized view")
	if err := m.Destination.Exec(ctx, summary.GetPostgresCreateSummaryCommand(m.TableName, m.SummaryViewName)); err != nil {
		return false, err
	}
	if err := m.Destination.Commit(ctx); err != nil {
		return false, err
	}

	if m.SkipIndexCreation {
		logger.Info().Msg("skipping index creation")
		return true, nil
	}

	// the table indexes come first, the view is built on top of the table
	if err := m.createIndexes(ctx, m.TableName, summary.GetPostgresPostLoadIndexCommands(m.TableName)); err != nil {
		return false, err
	}
	if err := m.createIndexes(ctx, m.SummaryViewName, summary.GetPostgresSummaryIndexCommands(m.SummaryViewName)); err != nil {
		return false, err
	}

	return true, m.Destination.Commit(ctx)
}

func (m SchemaManager) summary() (schema.SummarySource, bool) {
	summary, ok := m.Source.(schema.SummarySource)
	return summary, ok && m.SummaryViewName != ""
}

func (m SchemaManager) createIndexes(ctx context.Context, relation string, statements []string) error {
	for _, stmt := range statements {
		logger.Info().Str("relation", relation).Str("statement", stmt).Msg("creating index")
		if err := m.Destination.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
