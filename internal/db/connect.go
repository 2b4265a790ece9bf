package db

import (
	"fmt"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vdbe/maze-lvl-maker/internal/config"
)

// DSN builds the MySQL DSN for the level library.
func DSN(host string, port int, database string) string {
	mc := mysqldriver.NewConfig()
	mc.User = "root"
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", host, port)
	mc.DBName = database
	mc.ParseTime = true
	return mc.FormatDSN()
}

// Connect opens a GORM connection to the level library described by cfg.
// The sqlite driver stores the library in a single file; mysql connects to
// a running server.
func Connect(cfg config.LibraryConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	switch cfg.Driver {
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(cfg.Path), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("db: open sqlite %s: %w", cfg.Path, err)
		}
		return db, nil
	case "mysql":
		db, err := gorm.Open(mysql.Open(DSN(cfg.Host, cfg.Port, cfg.Database)), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("db: connect to %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.Database, err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("db: unsupported driver %q", cfg.Driver)
	}
}

// ConnectAdmin opens a GORM connection to the MySQL server without selecting
// a database, used for CREATE DATABASE operations.
func ConnectAdmin(host string, port int) (*gorm.DB, error) {
	mc := mysqldriver.NewConfig()
	mc.User = "root"
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", host, port)
	mc.ParseTime = true

	db, err := gorm.Open(mysql.Open(mc.FormatDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("db: admin connect to %s:%d: %w", host, port, err)
	}
	return db, nil
}

// DropDatabase drops the named database if it exists.
func DropDatabase(adminDB *gorm.DB, name string) error {
	sql := fmt.Sprintf("DROP DATABASE IF EXISTS `%s`", name)
	if err := adminDB.Exec(sql).Error; err != nil {
		return fmt.Errorf("db: drop database %s: %w", name, err)
	}
	return nil
}

// CreateDatabase creates the named database if it doesn't already exist.
func CreateDatabase(adminDB *gorm.DB, name string) error {
	sql := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", name)
	if err := adminDB.Exec(sql).Error; err != nil {
		return fmt.Errorf("db: create database %s: %w", name, err)
	}
	return nil
}
