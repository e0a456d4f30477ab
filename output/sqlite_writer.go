package output

import (
	"database/sql"
	"fmt"
	"p6export/table"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteWriter stores one table per artifact, named after the entity, with a
// TEXT column per header.
type SQLiteWriter struct{}

func (w *SQLiteWriter) Format() string {
	return "sqlite"
}

func (w *SQLiteWriter) Extension() string {
	return ".sqlite"
}

func (w *SQLiteWriter) Write(path string, t table.Table) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite output %s: %w", path, err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping sqlite output %s: %w", path, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := writeSQLiteTable(tx, t); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return db.Close()
}

func writeSQLiteTable(tx *sql.Tx, t table.Table) error {
	name := quoteIdentifier(sheetName(t.Name))
	columns := make([]string, len(t.Header))
	definitions := make([]string, len(t.Header))
	placeholders := make([]string, len(t.Header))
	for i, header := range t.Header {
		columns[i] = quoteIdentifier(header)
		definitions[i] = columns[i] + " TEXT NOT NULL"
		placeholders[i] = "?"
	}

	if _, err := tx.Exec(`DROP TABLE IF EXISTS ` + name + `;`); err != nil {
		return fmt.Errorf("drop table %s: %w", t.Name, err)
	}
	if _, err := tx.Exec(`CREATE TABLE ` + name + ` (` + strings.Join(definitions, ", ") + `);`); err != nil {
		return fmt.Errorf("create table %s: %w", t.Name, err)
	}

	stmt, err := tx.Prepare(`INSERT INTO ` + name + ` (` + strings.Join(columns, ", ") + `) VALUES (` + strings.Join(placeholders, ", ") + `);`)
	if err != nil {
		return fmt.Errorf("prepare insert statement: %w", err)
	}
	defer stmt.Close()

	for i, row := range t.Rows {
		args := make([]any, len(row))
		for j, value := range row {
			args[j] = value
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("insert row %d into %s: %w", i+1, t.Name, err)
		}
	}

	return nil
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
