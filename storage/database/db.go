package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/trezcool/classroom/core"
	"github.com/trezcool/classroom/core/attendance"
	"github.com/trezcool/classroom/core/calendar"
	"github.com/trezcool/classroom/core/group"
	"github.com/trezcool/classroom/core/homework"
	"github.com/trezcool/classroom/core/student"
	"github.com/trezcool/classroom/fs"
	inmemdb "github.com/trezcool/classroom/storage/database/inmem"
	mongorepos "github.com/trezcool/classroom/storage/database/mongodb"
	sqlxrepos "github.com/trezcool/classroom/storage/database/sqlx"
)

const migrationsDir = "migrations"

type (
	// DB is an open connection to the configured engine.
	DB struct {
		Engine string

		mem   *inmemdb.DB
		mongo *mongo.Client
		mdb   *mongo.Database
		sql   *sqlx.DB
	}

	Repositories struct {
		Groups     group.Repository
		Events     calendar.Source
		Students   student.Repository
		Homework   homework.Repository
		Attendance attendance.Repository
	}
)

var errUnknownEngine = errors.New("unknown database engine")

func openPostgres(dbName string, admin bool, conf *core.Config) (*sqlx.DB, error) {
	user := url.UserPassword(conf.Database.User, conf.Database.Password)
	if admin && conf.Database.AdminUser != "" {
		user = url.UserPassword(conf.Database.AdminUser, conf.Database.AdminPassword)
	}

	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   "postgres",
		User:     user,
		Host:     conf.Database.Address(),
		Path:     dbName,
		RawQuery: q.Encode(),
	}
	return sqlx.Open("postgres", u.String())
}

func mongoURI(conf *core.Config) string {
	if conf.Database.URI != "" {
		return conf.Database.URI
	}
	u := url.URL{Scheme: "mongodb", Host: conf.Database.Address()}
	if conf.Database.User != "" {
		u.User = url.UserPassword(conf.Database.User, conf.Database.Password)
	}
	return u.String()
}

// Open connects to the configured engine and waits for it to be ready.
func Open(ctx context.Context, conf *core.Config) (*DB, error) {
	db := &DB{Engine: conf.Database.Engine}

	switch conf.Database.Engine {
	case core.EngineMemory, "":
		db.Engine = core.EngineMemory
		db.mem = inmemdb.Open()

	case core.EngineMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI(conf)))
		if err != nil {
			return nil, errors.Wrap(err, "connecting to mongodb")
		}
		if err = ping(ctx, func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) }); err != nil {
			_ = client.Disconnect(ctx)
			return nil, errors.Wrap(err, "pinging mongodb")
		}
		db.mongo = client
		db.mdb = client.Database(conf.Database.Name)
		if err = mongorepos.EnsureIndexes(ctx, db.mdb); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}

	case core.EnginePostgres:
		sdb, err := openPostgres(conf.Database.Name, false, conf)
		if err != nil {
			return nil, errors.Wrap(err, "opening database")
		}
		if err = ping(ctx, sdb.PingContext); err != nil {
			_ = sdb.Close()
			return nil, errors.Wrap(err, "pinging database")
		}
		db.sql = sdb

	default:
		return nil, errors.Wrap(errUnknownEngine, conf.Database.Engine)
	}
	return db, nil
}

// Repositories returns the repositories of the open engine.
func (db *DB) Repositories() Repositories {
	switch {
	case db.mdb != nil:
		return Repositories{
			Groups:     mongorepos.NewGroupRepository(db.mdb),
			Events:     mongorepos.NewEventRepository(db.mdb),
			Students:   mongorepos.NewStudentRepository(db.mdb),
			Homework:   mongorepos.NewHomeworkRepository(db.mdb),
			Attendance: mongorepos.NewAttendanceRepository(db.mdb),
		}
	case db.sql != nil:
		return Repositories{
			Groups:     sqlxrepos.NewGroupRepository(db.sql),
			Events:     sqlxrepos.NewEventRepository(db.sql),
			Students:   sqlxrepos.NewStudentRepository(db.sql),
			Homework:   sqlxrepos.NewHomeworkRepository(db.sql),
			Attendance: sqlxrepos.NewAttendanceRepository(db.sql),
		}
	default:
		return Repositories{
			Groups:     inmemdb.NewGroupRepository(db.mem),
			Events:     inmemdb.NewEventRepository(db.mem),
			Students:   inmemdb.NewStudentRepository(db.mem),
			Homework:   inmemdb.NewHomeworkRepository(db.mem),
			Attendance: inmemdb.NewAttendanceRepository(db.mem),
		}
	}
}

// SQL returns the postgres handle, nil for other engines.
func (db *DB) SQL() *sql.DB {
	if db.sql == nil {
		return nil
	}
	return db.sql.DB
}

func (db *DB) Close(ctx context.Context) error {
	switch {
	case db.mongo != nil:
		return errors.Wrap(db.mongo.Disconnect(ctx), "disconnecting from mongodb")
	case db.sql != nil:
		return errors.Wrap(db.sql.Close(), "closing database")
	}
	return nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, pingFn func(context.Context) error) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = pingFn(ctx)
		if err == nil {
			break
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "DB ping cancelled")
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

func exists(ctx context.Context, db *sqlx.DB, query string, args ...any) (bool, error) {
	var found bool
	err := db.GetContext(ctx, &found, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return found, err
}

func createAppUser(ctx context.Context, db *sqlx.DB, conf *core.Config) error {
	if conf.Database.User == "" {
		return nil
	}

	found, err := exists(ctx, db, "SELECT true FROM pg_roles WHERE rolname = $1", conf.Database.User)
	if err != nil {
		return errors.Wrap(err, "checking app user")
	}
	if !found {
		q := fmt.Sprintf("CREATE USER %s CREATEDB ENCRYPTED PASSWORD '%s'", conf.Database.User, conf.Database.Password)
		if _, err = db.ExecContext(ctx, q); err != nil {
			return errors.Wrap(err, "creating app user")
		}
	}
	return nil
}

func createDB(ctx context.Context, db *sqlx.DB, conf *core.Config) error {
	found, err := exists(ctx, db, "SELECT true FROM pg_database WHERE datname = $1", conf.Database.Name)
	if err != nil {
		return errors.Wrap(err, "checking DB")
	}
	if !found {
		if _, err = db.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE %s", conf.Database.Name)); err != nil {
			return errors.Wrap(err, "creating database")
		}
	}
	return nil
}

// CreateIfNotExist creates the postgres app user and database. It is a no-op for other engines.
func CreateIfNotExist(ctx context.Context, conf *core.Config) error {
	if conf.Database.Engine != core.EnginePostgres {
		return nil
	}

	// connect as admin
	db, err := openPostgres("postgres", true, conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = db.Close() }()
	if err = ping(ctx, db.PingContext); err != nil {
		return errors.Wrap(err, "pinging database")
	}
	if err = createAppUser(ctx, db, conf); err != nil {
		return err
	}

	// create DB as app user
	appDB, err := openPostgres("postgres", false, conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = appDB.Close() }()
	return createDB(ctx, appDB, conf)
}

// RunMigrations runs a goose command (up, down, status, version, ...) with the embedded migrations.
func RunMigrations(ctx context.Context, db *sql.DB, command string, args ...string) error {
	goose.SetBaseFS(appfs.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "setting migrations dialect")
	}
	if err := goose.RunContext(ctx, command, db, migrationsDir, args...); err != nil {
		return errors.Wrapf(err, "running migrations (%s)", command)
	}
	return nil
}

func Migrate(ctx context.Context, db *sql.DB) error {
	return RunMigrations(ctx, db, "up")
}
