package destinations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/KYVENetwork/sumo-dlt/schema"
	"github.com/KYVENetwork/sumo-dlt/utils"
	"github.com/lib/pq"
)

// postgres rejects statements with more bind parameters than this
const maxBindParameters = 65535

var (
	logger = utils.DltLogger("postgres")
)

type PostgresConfig struct {
	ConnectionUrl string
	TableName     string
	Schema        schema.DataSource
}

func NewPostgres(config PostgresConfig) *Postgres {
	return &Postgres{config: config}
}

type Postgres struct {
	config PostgresConfig
	db     *sql.DB
	tx     *sql.Tx

	singleRowInsert string
}

func (p *Postgres) Open(ctx context.Context) error {
	db, err := sql.Open("postgres", p.config.ConnectionUrl)
	if err != nil {
		return storeError("open", err)
	}
	// one connection, one statement at a time
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return storeError("connect", err)
	}

	p.db = db
	logger.Info().Str("table", p.config.TableName).Msg("Postgres connection established")
	return nil
}

func (p *Postgres) Exec(ctx context.Context, stmt string) error {
	tx, err := p.transaction(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return storeError(firstLine(stmt), err)
	}
	return nil
}

func (p *Postgres) InsertRows(ctx context.Context, rows []schema.TransformedRecord) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := p.transaction(ctx)
	if err != nil {
		return err
	}

	argsPerRow := len(p.config.Schema.ConvertToArgs(rows[0]))
	chunkSize := maxBindParameters / argsPerRow

	for start := 0; start < len(rows); start += chunkSize {
		end := min(start+chunkSize, len(rows))
		stmt, args := p.bulkInsert(rows[start:end], argsPerRow)
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return storeError(fmt.Sprintf("insert into %s", p.config.TableName), err)
		}
	}
	return nil
}

func (p *Postgres) Commit(ctx context.Context) error {
	if p.tx == nil {
		return nil
	}
	tx := p.tx
	p.tx = nil
	if err := tx.Commit(); err != nil {
		return storeError("commit", err)
	}
	return nil
}

// Close rolls back uncommitted work and closes the connection.
func (p *Postgres) Close() error {
	if p.tx != nil {
		if err := p.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			logger.Error().Str("err", err.Error()).Msg("rollback failed")
		}
		p.tx = nil
	}
	if p.db == nil {
		return nil
	}
	db := p.db
	p.db = nil
	return db.Close()
}

func (p *Postgres) transaction(ctx context.Context) (*sql.Tx, error) {
	if p.db == nil {
		return nil, fmt.Errorf("%w: connection is not open", utils.ErrStoreUnavailable)
	}
	if p.tx != nil {
		return p.tx, nil
	}
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storeError("begin", err)
	}
	p.tx = tx
	return tx, nil
}

func (p *Postgres) bulkInsert(items []schema.TransformedRecord, argsPerRow int) (string, []interface{}) {
	valueArgs := make([]interface{}, 0, len(items)*argsPerRow)
	for _, row := range items {
		valueArgs = append(valueArgs, p.config.Schema.ConvertToArgs(row)...)
	}

	if len(items) == 1 && p.singleRowInsert != "" {
		return p.singleRowInsert, valueArgs
	}

	templateStrings := make([]string, 0, len(items))
	for i := range items {
		templateStrings = append(templateStrings, p.config.Schema.GetPostgresValueTemplate(i*argsPerRow))
	}

	stmt := insertStatement(p.config.TableName, p.config.Schema.GetColumns(), templateStrings)
	if len(items) == 1 {
		p.singleRowInsert = stmt
	}
	return stmt, valueArgs
}

func insertStatement(table string, columns []string, templates []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = pq.QuoteIdentifier(c)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		pq.QuoteIdentifier(table),
		strings.Join(quoted, ", "),
		strings.Join(templates, ", "),
	)
}

func storeError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("%w: %s: %s (%s) %s", utils.ErrStoreUnavailable, op, pqErr.Message, pqErr.Code, pqErr.Detail)
	}
	return fmt.Errorf("%w: %s: %v", utils.ErrStoreUnavailable, op, err)
}

func firstLine(stmt string) string {
	stmt = strings.TrimSpace(stmt)
	if i := strings.IndexByte(stmt, '\n'); i >= 0 {
		return strings.TrimSpace(stmt[:i])
	}
	return stmt
}
