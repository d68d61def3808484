package service

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/fulldump/lazyrows/collectionsource"
	"github.com/fulldump/lazyrows/database"
	"github.com/fulldump/lazyrows/paged"
)

var ErrorSourceNotFound = errors.New("source not found")
var ErrorSourceAlreadyExists = errors.New("source already exists")
var ErrorPageNotResident = errors.New("page not resident")
var ErrorNotSearchable = errors.New("source does not support key search")
var ErrorNotACollection = errors.New("source is not a collection")
var ErrorNoDatabase = errors.New("no database configured")
var ErrorBadPosition = errors.New("position outside [0,1]")

// Columner is implemented by sources that know their column names.
type Columner interface {
	Columns() []string
}

// Keyer is implemented by sources that can build a compare function for a
// sorted column.
type Keyer interface {
	Key(column string, value any) (func(paged.Row) int, error)
}

// entry serializes every call to its pager.
type entry struct {
	name   string
	source paged.Source
	mutex  sync.Mutex
	pager  *paged.Pager
}

type Service struct {
	db      *database.Database
	options paged.Options
	log     logrus.FieldLogger
	mutex   sync.RWMutex
	sources map[string]*entry
}

var _ Servicer = &Service{}

// NewService builds an empty registry. db may be nil when no collections
// are served.
func NewService(db *database.Database, options paged.Options, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if options.Logger == nil {
		options.Logger = log
	}
	return &Service{
		db:      db,
		options: options,
		log:     log,
		sources: map[string]*entry{},
	}
}

// RegisterCollections exposes every collection of db as a source named
// after it. It fits database.Config.OnLoad.
func (s *Service) RegisterCollections(db *database.Database) error {
	for name, col := range db.Collections() {
		err := s.RegisterSource(context.Background(), name, &collectionsource.Source{
			Collection: col,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// CreateCollection creates an empty collection and serves it as a source
// with the given fields as columns.
func (s *Service) CreateCollection(ctx context.Context, name string, fields []string) (*SourceInfo, error) {

	if s.db == nil {
		return nil, ErrorNoDatabase
	}
	if _, err := s.get(name); err == nil {
		return nil, errors.Wrapf(ErrorSourceAlreadyExists, "create '%s'", name)
	}

	col, err := s.db.CreateCollection(name)
	if err != nil {
		return nil, err
	}

	err = s.RegisterSource(ctx, name, &collectionsource.Source{
		Collection: col,
		Fields:     fields,
	})
	if err != nil {
		return nil, err
	}

	return s.GetSource(name)
}

// InsertDocument appends document to the collection served as name.
func (s *Service) InsertDocument(name string, document map[string]any) error {

	e, err := s.get(name)
	if err != nil {
		return err
	}

	source, ok := e.source.(*collectionsource.Source)
	if !ok {
		return errors.Wrapf(ErrorNotACollection, "source '%s'", name)
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()

	_, err = source.Collection.Insert(document)
	if err != nil {
		return err
	}
	e.pager.RowsAppended(1)

	return nil
}

func (s *Service) RegisterSource(ctx context.Context, name string, source paged.Source) error {

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.sources[name]; exists {
		return errors.Wrapf(ErrorSourceAlreadyExists, "register '%s'", name)
	}

	options := s.options
	options.Logger = s.options.Logger.WithField("source", name)

	pager, err := paged.New(ctx, source, options)
	if err != nil {
		return errors.Wrapf(err, "register '%s'", name)
	}
	pager.OnSizeChanged(func(change paged.SizeChange) {
		s.log.WithFields(logrus.Fields{
			"source": name,
			"delta":  change.Delta(),
			"known":  change.New.Known,
		}).Info("estimated size changed")
	})

	s.sources[name] = &entry{
		name:   name,
		source: source,
		pager:  pager,
	}

	return nil
}

func (s *Service) get(name string) (*entry, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	e, exists := s.sources[name]
	if !exists {
		return nil, errors.Wrapf(ErrorSourceNotFound, "source '%s'", name)
	}
	return e, nil
}

func (s *Service) ListSources() []*SourceInfo {

	s.mutex.RLock()
	entries := make([]*entry, 0, len(s.sources))
	for _, e := range s.sources {
		entries = append(entries, e)
	}
	s.mutex.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].name < entries[j].name
	})

	result := []*SourceInfo{}
	for _, e := range entries {
		e.mutex.Lock()
		result = append(result, e.info())
		e.mutex.Unlock()
	}
	return result
}

func (s *Service) GetSource(name string) (*SourceInfo, error) {
	e, err := s.get(name)
	if err != nil {
		return nil, err
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.info(), nil
}

func (s *Service) FirstPage(ctx context.Context, name string) (*PageDocument, error) {
	return s.withPager(name, func(p *paged.Pager) (*paged.Page, error) {
		return p.FirstPage(ctx)
	})
}

// NextPage returns the page following the resident page that starts at
// offset.
func (s *Service) NextPage(ctx context.Context, name string, offset int) (*PageDocument, error) {
	return s.withPager(name, func(p *paged.Pager) (*paged.Page, error) {
		prev := p.PageAt(offset)
		if prev == nil {
			return nil, errors.Wrapf(ErrorPageNotResident, "offset %d", offset)
		}
		return p.NextPage(ctx, prev)
	})
}

func (s *Service) PageForPosition(ctx context.Context, name string, position float64) (*PageDocument, error) {
	if position < 0 || position > 1 || position != position {
		return nil, errors.Wrapf(ErrorBadPosition, "position %v", position)
	}
	return s.withPager(name, func(p *paged.Pager) (*paged.Page, error) {
		return p.GetPageForPosition(ctx, position)
	})
}

func (s *Service) withPager(name string, f func(p *paged.Pager) (*paged.Page, error)) (*PageDocument, error) {

	e, err := s.get(name)
	if err != nil {
		return nil, err
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()

	page, err := f(e.pager)
	if err != nil {
		return nil, err
	}

	return newPageDocument(e.pager, page), nil
}

// FindRow looks up the row whose column equals value. The whole source is
// loaded first so the binary search only probes resident rows.
func (s *Service) FindRow(ctx context.Context, name, column string, value any) (*RowDocument, error) {

	e, err := s.get(name)
	if err != nil {
		return nil, err
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()

	compare, err := e.key(column, value)
	if err != nil {
		return nil, err
	}

	err = loadAll(ctx, e.pager)
	if err != nil {
		return nil, err
	}

	row, page, index := e.pager.FindRow(compare)
	return e.rowDocument(row, page, index, row != nil), nil
}

// InsertRow stores row in the sorted position given by its column value.
func (s *Service) InsertRow(ctx context.Context, name, column string, row paged.Row) (*RowDocument, error) {

	e, err := s.get(name)
	if err != nil {
		return nil, err
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()

	if _, ok := e.source.(paged.Inserter); !ok {
		return nil, errors.Wrapf(paged.ErrReadOnly, "source '%s'", name)
	}

	c, err := e.column(column)
	if err != nil {
		return nil, err
	}
	if c >= len(row) {
		return nil, errors.Errorf("row has %d values, column '%s' is number %d", len(row), column, c+1)
	}

	compare, err := e.key(column, row[c])
	if err != nil {
		return nil, err
	}

	err = loadAll(ctx, e.pager)
	if err != nil {
		return nil, err
	}

	page, index, err := e.pager.InsertRow(ctx, row, compare)
	if err != nil {
		return nil, err
	}

	return e.rowDocument(page.Row(index), page, page.Offset()+index, true), nil
}

func (e *entry) columns() []string {
	if c, ok := e.source.(Columner); ok {
		return c.Columns()
	}
	return nil
}

func (e *entry) column(name string) (int, error) {
	for i, column := range e.columns() {
		if column == name {
			return i, nil
		}
	}
	return 0, errors.Errorf("column '%s' not found", name)
}

func (e *entry) key(column string, value any) (func(paged.Row) int, error) {
	k, ok := e.source.(Keyer)
	if !ok {
		return nil, errors.Wrapf(ErrorNotSearchable, "source '%s'", e.name)
	}
	return k.Key(column, value)
}

func (e *entry) info() *SourceInfo {
	size := e.pager.Size()
	return &SourceInfo{
		Name:      e.name,
		Columns:   e.columns(),
		Estimated: size.Estimated,
		Known:     size.Known,
		Pages:     len(e.pager.Resident()),
	}
}

func (e *entry) rowDocument(row paged.Row, page *paged.Page, index int, found bool) *RowDocument {
	size := e.pager.Size()
	doc := &RowDocument{
		Found:     found,
		Index:     index,
		Row:       row,
		Estimated: size.Estimated,
		Known:     size.Known,
	}
	if page != nil {
		doc.Page = page.Offset()
	}
	return doc
}

// loadAll reads every page up to the end of the data.
func loadAll(ctx context.Context, p *paged.Pager) error {
	page, err := p.FirstPage(ctx)
	for page != nil && err == nil {
		page, err = p.NextPage(ctx, page)
	}
	return err
}
