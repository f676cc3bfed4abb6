package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DB is the shared database handle.
var DB *gorm.DB

// Init opens the database and runs auto-migration for all models.
// databaseURL selects postgres when non-empty; otherwise a sqlite file at
// databasePath (defaulting to digno.db) is used.
func Init(databaseURL, databasePath string) error {
	var dialector gorm.Dialector
	if strings.TrimSpace(databaseURL) != "" {
		dialector = postgres.Open(strings.TrimSpace(databaseURL))
	} else {
		path := strings.TrimSpace(databasePath)
		if path == "" {
			path = "digno.db"
		}
		if err := ensureParentDir(path); err != nil {
			return err
		}
		dialector = sqlite.Open(path)
	}

	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return err
	}

	return Migrate(DB)
}

// Migrate creates or updates the schema for every model.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&User{},
		&RoleGroup{},
		&Tag{},
		&Image{},
		&Article{},
		&ArticleLike{},
		&Comment{},
		&CommentLike{},
		&Donation{},
	)
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
