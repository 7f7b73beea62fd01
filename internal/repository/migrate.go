package repository

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/jmoiron/sqlx"
)

// Migrate применяет все *.sql файлы каталога по порядку имен, каждый в своей транзакции.
// Ошибка одного файла логируется и не останавливает остальные. Возвращает число примененных файлов.
func Migrate(db *sqlx.DB, dir string, log *slog.Logger) int {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		log.Error("[migrate] не удалось прочитать каталог миграций", "dir", dir, "err", err)
		return 0
	}
	sort.Strings(files)

	applied := 0
	for _, file := range files {
		if err := applyFile(db, file); err != nil {
			log.Error("[migrate] миграция завершилась ошибкой", "file", file, "err", err)
			continue
		}
		log.Info("[migrate] миграция применена", "file", file)
		applied++
	}
	return applied
}

func applyFile(db *sqlx.DB, file string) error {
	content, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(string(content)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (ошибка отката: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}
