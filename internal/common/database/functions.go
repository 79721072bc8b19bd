package database

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tallyhq/tallybench/internal/configuration"
)

func CreateConnectionString(values map[string]string) string {
	// https://www.postgresql.org/docs/current/libpq-connect.html#LIBPQ-CONNSTRING-KEYWORD-VALUE
	result := ""
	replacer := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	for k, v := range values {
		result += k + "='" + replacer.Replace(v) + "' "
	}
	return result
}

func OpenPgxPool(ctx context.Context, config configuration.PostgresConfig) (*pgxpool.Pool, error) {
	db, err := pgxpool.New(ctx, CreateConnectionString(config.Connection))
	if err != nil {
		return nil, err
	}
	err = db.Ping(ctx)
	return db, err
}
