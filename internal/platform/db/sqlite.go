package db

import (
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// ConnectSQLite opens a file-backed sqlite database through the pure-Go
// driver. Used for local development and single-node setups.
func ConnectSQLite(path string) (*Handle, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open gorm sqlite: %w", err)
	}
	return &Handle{DB: db}, nil
}
