package postgres

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Credential roles. The app role is subject to the row policies applied to
// interactive traffic, the service role bypasses them.
const (
	AppRole     = "app"
	ServiceRole = "service"
)

type Credentials struct {
	Username string
	Password string
}

type Config struct {
	Host     string
	Port     string
	DBName   string
	SSLMode  string
	TimeZone string

	Roles map[string]Credentials
}

// RoleConnectionPool keeps one gorm connection per credential role and
// re-dials dead connections in the background.
type RoleConnectionPool struct {
	sync.Mutex
	pools map[string]*gorm.DB
	cfg   Config
	log   *logrus.Entry
}

func NewRoleConnectionPool(cfg Config, log *logrus.Entry) *RoleConnectionPool {
	return &RoleConnectionPool{
		cfg:   cfg,
		log:   log,
		pools: make(map[string]*gorm.DB),
	}
}

func (rcp *RoleConnectionPool) dsn(role string) (string, error) {
	creds, ok := rcp.cfg.Roles[role]
	if !ok {
		return "", fmt.Errorf("unknown role: %s", role)
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		rcp.cfg.Host, creds.Username, creds.Password, rcp.cfg.DBName, rcp.cfg.Port,
		rcp.cfg.SSLMode, rcp.cfg.TimeZone), nil
}

func open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func (rcp *RoleConnectionPool) GetConnectionPool(role string) (*gorm.DB, error) {
	rcp.Lock()
	defer rcp.Unlock()

	if pool, ok := rcp.pools[role]; ok {
		return pool, nil
	}

	dsn, err := rcp.dsn(role)
	if err != nil {
		return nil, err
	}

	db, err := open(dsn)
	if err != nil {
		return nil, err
	}

	rcp.pools[role] = db

	go func() {
		ticker := time.NewTicker(time.Second * 10)
		defer ticker.Stop()

		for range ticker.C {
			sqlDB, err := db.DB()
			if err != nil {
				continue
			}

			if err := sqlDB.Ping(); err != nil {
				fresh, err := open(dsn)
				if err != nil {
					rcp.log.Errorf("failed reconnect of %s pool: %v", role, err)
					continue
				}

				rcp.Lock()
				rcp.pools[role] = fresh
				db = fresh
				rcp.Unlock()

				rcp.log.Infof("reconnected %s pool", role)
			}
		}
	}()

	return db, nil
}
