package database

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/fulldump/lazyrows/collection"
)

const (
	StatusOpening   = "opening"
	StatusOperating = "operating"
	StatusClosing   = "closing"
)

var ErrorCollectionAlreadyExists = errors.New("collection already exists")
var ErrorCollectionNotFound = errors.New("collection not found")

type Config struct {
	Dir string

	// OnLoad is called once every collection in Dir is open, before the
	// database starts operating. An error aborts the load.
	OnLoad func(db *Database) error

	Logger logrus.FieldLogger
}

type Database struct {
	config      *Config
	log         logrus.FieldLogger
	status      string
	mutex       sync.RWMutex
	collections map[string]*collection.Collection
	exit        chan struct{}
}

func NewDatabase(config *Config) *Database { // todo: return error?

	log := config.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	s := &Database{
		config:      config,
		log:         log,
		status:      StatusOpening,
		collections: map[string]*collection.Collection{},
		exit:        make(chan struct{}),
	}

	return s
}

func (db *Database) GetStatus() string {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	return db.status
}

func (db *Database) setStatus(status string) {
	db.mutex.Lock()
	db.status = status
	db.mutex.Unlock()
}

func (db *Database) GetCollection(name string) (*collection.Collection, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	col, exists := db.collections[name]
	if !exists {
		return nil, ErrorCollectionNotFound
	}
	return col, nil
}

// Collections returns a snapshot of the open collections by name.
func (db *Database) Collections() map[string]*collection.Collection {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	result := make(map[string]*collection.Collection, len(db.collections))
	for name, col := range db.collections {
		result[name] = col
	}
	return result
}

func (db *Database) CreateCollection(name string) (*collection.Collection, error) {

	db.mutex.Lock()
	defer db.mutex.Unlock()

	_, exists := db.collections[name]
	if exists {
		return nil, errors.Wrapf(ErrorCollectionAlreadyExists, "create '%s'", name)
	}

	filename := path.Join(db.config.Dir, name)
	col, err := collection.OpenCollection(filename)
	if err != nil {
		return nil, err
	}

	db.collections[name] = col

	return col, nil
}

func (db *Database) DropCollection(name string) error {

	db.mutex.Lock()
	defer db.mutex.Unlock()

	col, exists := db.collections[name]
	if !exists {
		return errors.Wrapf(ErrorCollectionNotFound, "drop '%s'", name)
	}

	err := col.Drop()
	if err != nil {
		return errors.Wrapf(err, "drop '%s'", name)
	}

	delete(db.collections, name)

	return nil
}

func (db *Database) Load() error {

	dir := db.config.Dir
	db.log.WithField("dir", dir).Info("loading database")

	err := os.MkdirAll(dir, 0755)
	if err != nil {
		db.setStatus(StatusClosing)
		return errors.Wrap(err, "create data directory")
	}

	err = filepath.WalkDir(dir, func(filename string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		name := filename
		name = strings.TrimPrefix(name, dir)
		name = strings.TrimPrefix(name, "/")

		t0 := time.Now()
		col, err := collection.OpenCollection(filename)
		if err != nil {
			db.log.WithError(err).WithField("filename", filename).Error("open collection")
			return errors.Wrapf(err, "open collection '%s'", name)
		}
		db.log.WithFields(logrus.Fields{
			"collection": name,
			"rows":       col.Len(),
			"elapsed":    time.Since(t0),
		}).Info("collection loaded")

		db.mutex.Lock()
		db.collections[name] = col
		db.mutex.Unlock()

		return nil
	})

	if err == nil && db.config.OnLoad != nil {
		err = db.config.OnLoad(db)
	}

	if err != nil {
		db.setStatus(StatusClosing)
		return err
	}

	db.setStatus(StatusOperating)

	return nil
}

// Start loads the database and blocks until Stop is called.
func (db *Database) Start() error {

	err := db.Load()
	if err != nil {
		return err
	}

	<-db.exit

	return nil
}

func (db *Database) Stop() error {

	defer close(db.exit)

	db.setStatus(StatusClosing)

	var lastErr error
	for name, col := range db.Collections() {
		db.log.WithField("collection", name).Info("closing")
		err := col.Close()
		if err != nil {
			db.log.WithError(err).WithField("collection", name).Error("close")
			lastErr = err
		}
	}

	return lastErr
}
