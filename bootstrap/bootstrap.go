package bootstrap

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fulldump/box"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/fulldump/lazyrows/api"
	"github.com/fulldump/lazyrows/configuration"
	"github.com/fulldump/lazyrows/database"
	"github.com/fulldump/lazyrows/paged"
	"github.com/fulldump/lazyrows/service"
	"github.com/fulldump/lazyrows/sqlsource"
)

var VERSION = "dev"

func Bootstrap(c *configuration.Configuration) (start, stop func()) {

	log := logrus.StandardLogger()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		log.WithError(err).Warn("bad log level, using info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	config := &database.Config{
		Dir:    c.Dir,
		Logger: log.WithField("component", "database"),
	}
	db := database.NewDatabase(config)

	s := service.NewService(db, paged.Options{
		PageSize: c.PageSize,
		Logger:   log.WithField("component", "paged"),
	}, log)

	var sqliteDB *sql.DB
	config.OnLoad = func(db *database.Database) error {
		err := s.RegisterCollections(db)
		if err != nil {
			return err
		}
		sqliteDB, err = registerSqlite(c, s)
		return err
	}

	b := api.Build(s, VERSION)
	if c.EnableCompression {
		b.WithInterceptors(api.Compression)
	}
	b.WithInterceptors(
		api.AccessLog(log.WithField("component", "access")),
		api.PrettyErrorInterceptor,
		api.InterceptorUnavailable(db),
		api.RecoverFromPanic(log),
	)

	server := &http.Server{
		Addr:    c.HttpAddr,
		Handler: box.Box2Http(b),
	}

	ln, err := net.Listen("tcp", c.HttpAddr)
	if err != nil {
		log.WithError(err).Fatal("listen")
	}
	log.WithField("addr", c.HttpAddr).Info("listening")

	stop = func() {
		err := db.Stop()
		if err != nil {
			log.WithError(err).Error("stop database")
		}
		if sqliteDB != nil {
			sqliteDB.Close()
		}
		server.Shutdown(context.Background())
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-signalChan
		log.WithField("signal", sig.String()).Info("signal received")
		stop()
	}()

	start = func() {

		g := &errgroup.Group{}

		g.Go(db.Start)

		g.Go(func() error {
			err := server.Serve(ln)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		})

		err := g.Wait()
		if err != nil {
			log.WithError(err).Error("server stopped")
		}
	}

	return
}

// registerSqlite serves the configured sqlite query, if any.
func registerSqlite(c *configuration.Configuration, s *service.Service) (*sql.DB, error) {

	if c.SqlitePath == "" {
		return nil, nil
	}
	if c.SqliteQuery == "" {
		return nil, errors.New("sqlite query is mandatory when a sqlite path is given")
	}

	db, err := sql.Open("sqlite", c.SqlitePath)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}

	var count sqlsource.CountStrategy = sqlsource.ExactCount{}
	if c.SqliteRootColumn != "" {
		count = sqlsource.RatioProjection{
			RootColumn:     c.SqliteRootColumn,
			RootCountQuery: c.SqliteRootCountQuery,
			SampleSize:     c.PageSize,
		}
	}

	err = s.RegisterSource(context.Background(), c.SqliteName, sqlsource.New(db, count, c.SqliteQuery))
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
