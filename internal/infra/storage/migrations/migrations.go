// Package migrations применяет SQL-миграции схемы, встроенные в бинарник.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

//go:embed sql/*.sql
var files embed.FS

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// TxManager интерфейс для управления транзакциями
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

const createVersionsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version    TEXT PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Names возвращает имена миграций в порядке применения
func Names() ([]string, error) {
	entries, err := fs.ReadDir(files, "sql")
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Up применяет все ещё не применённые миграции, каждую в своей транзакции
func Up(ctx context.Context, db dbmetrics.DBExecutor, txManager TxManager, log Logger) error {
	if _, err := db.ExecContext(ctx, createVersionsTable); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	names, err := Names()
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}

	for _, name := range names {
		applied, err := isApplied(ctx, db, name)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		body, err := files.ReadFile("sql/" + name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}

		err = txManager.Do(ctx, func(txCtx context.Context) error {
			executor := dbmetrics.GetExecutor(txCtx, db)
			if _, err := executor.ExecContext(txCtx, string(body)); err != nil {
				return fmt.Errorf("apply %s: %w", name, err)
			}

			query, args, err := psqlbuilder.Insert("schema_migrations").
				Columns("version").
				Values(name).
				ToSql()
			if err != nil {
				return err
			}
			_, err = executor.ExecContext(txCtx, query, args...)
			return err
		})
		if err != nil {
			return err
		}

		log.Info("Migration applied: %s", name)
	}

	return nil
}

func isApplied(ctx context.Context, db dbmetrics.DBExecutor, name string) (bool, error) {
	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("schema_migrations").
		Where("version = ?", name).
		ToSql()
	if err != nil {
		return false, err
	}

	var count int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("check migration %s: %w", name, err)
	}
	return count > 0, nil
}
