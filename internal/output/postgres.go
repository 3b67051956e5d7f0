package output

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/jackc/pgx/v5/pgxpool"

	"trafficpulse/internal/models"
)

// PostgresWriter persists result tables into Postgres, one table per result
// set, created on demand from the frame's column types and filled in a
// single transaction.
type PostgresWriter struct {
	pool *pgxpool.Pool
	ctx  context.Context
}

func NewPostgresWriter(ctx context.Context, cfg models.DatabaseConfig) (*PostgresWriter, error) {
	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, cfg.SSLMode,
	)

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	return &PostgresWriter{pool: pool, ctx: ctx}, nil
}

func (p *PostgresWriter) WriteTable(name string, df dataframe.DataFrame) error {
	table := sanitizeIdentifier(name)
	colNames := df.Names()
	colTypes := df.Types()

	defs := make([]string, len(colNames))
	cols := make([]string, len(colNames))
	placeholders := make([]string, len(colNames))
	for i, colName := range colNames {
		cols[i] = sanitizeIdentifier(colName)
		defs[i] = fmt.Sprintf("%s %s", cols[i], sqlType(colTypes[i]))
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	createStmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, strings.Join(defs, ", "))
	if _, err := p.pool.Exec(p.ctx, createStmt); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}

	tx, err := p.pool.Begin(p.ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(p.ctx)

	if _, err := tx.Exec(p.ctx, fmt.Sprintf("TRUNCATE %s", table)); err != nil {
		return fmt.Errorf("failed to truncate %s: %w", table, err)
	}

	insertStmt := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "),
	)
	for rowIdx := 0; rowIdx < df.Nrow(); rowIdx++ {
		args := make([]interface{}, len(colNames))
		for colIdx, colName := range colNames {
			args[colIdx] = df.Col(colName).Val(rowIdx)
		}
		if _, err := tx.Exec(p.ctx, insertStmt, args...); err != nil {
			return fmt.Errorf("failed to insert into %s row %d: %w", table, rowIdx, err)
		}
	}

	return tx.Commit(p.ctx)
}

func (p *PostgresWriter) Close() error {
	p.pool.Close()
	return nil
}

func sqlType(t series.Type) string {
	switch t {
	case series.Int:
		return "BIGINT"
	case series.Float:
		return "DOUBLE PRECISION"
	case series.Bool:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}

// sanitizeIdentifier restricts table and column names to [a-z0-9_], since
// identifiers are interpolated into SQL text.
func sanitizeIdentifier(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
