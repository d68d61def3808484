package collection

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/SierraSoftworks/connor"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrClosed = errors.New("collection is closed")

// Collection is an ordered list of JSON documents kept in memory and
// persisted as an append only log of commands, one JSON object per line.
type Collection struct {
	filename string // Just informative...
	file     *os.File
	mutex    sync.RWMutex
	rows     []*Row
}

type Row struct {
	I       int // position in rows
	Payload jsontext.Value
}

// Decode unmarshals the row payload into v.
func (r *Row) Decode(v any) error {
	return json.Unmarshal(r.Payload, v)
}

func OpenCollection(filename string) (*Collection, error) {

	f, err := os.OpenFile(filename, os.O_RDONLY|os.O_CREATE, 0666)
	if err != nil {
		return nil, errors.Wrap(err, "open file for read")
	}
	defer f.Close()

	c := &Collection{
		filename: filename,
		rows:     []*Row{},
	}

	d := jsontext.NewDecoder(f)
	for {
		value, err := d.ReadValue()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "decode command at byte %d", d.InputOffset())
		}

		command := &Command{}
		err = json.Unmarshal(value, command)
		if err != nil {
			return nil, errors.Wrap(err, "decode command")
		}

		switch command.Name {
		case CommandInsert:
			c.insertRow(len(c.rows), command.Payload.Clone())
		case CommandInsertAt:
			params := insertAtPayload{}
			err := json.Unmarshal(command.Payload, &params)
			if err != nil {
				return nil, errors.Wrap(err, "decode insert_at")
			}
			if params.I < 0 || params.I > len(c.rows) {
				return nil, errors.Errorf("insert_at %d out of range [0,%d]", params.I, len(c.rows))
			}
			c.insertRow(params.I, params.Item.Clone())
		default:
			return nil, errors.Errorf("unknown command '%s'", command.Name)
		}
	}

	// Open file for append only
	c.file, err = os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666)
	if err != nil {
		return nil, errors.Wrap(err, "open file for write")
	}

	return c, nil
}

// insertRow must be called with the mutex held or before the collection is
// shared.
func (c *Collection) insertRow(i int, payload jsontext.Value) *Row {

	row := &Row{
		I:       i,
		Payload: payload,
	}

	c.rows = append(c.rows, nil)
	copy(c.rows[i+1:], c.rows[i:])
	c.rows[i] = row
	for _, later := range c.rows[i+1:] {
		later.I++
	}

	return row
}

func (c *Collection) persist(name string, payload jsontext.Value) error {

	command := &Command{
		Name:      name,
		Uuid:      uuid.New().String(),
		Timestamp: time.Now().UnixNano(),
		StartByte: 0,
		Payload:   payload,
	}

	line, err := json.Marshal(command)
	if err != nil {
		return errors.Wrap(err, "json encode command")
	}

	_, err = c.file.Write(append(line, '\n'))
	return errors.Wrap(err, "write command")
}

// Insert appends item.
func (c *Collection) Insert(item any) (*Row, error) {

	payload, err := json.Marshal(item, json.Deterministic(true))
	if err != nil {
		return nil, errors.Wrap(err, "json encode payload")
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.file == nil {
		return nil, ErrClosed
	}

	err = c.persist(CommandInsert, payload)
	if err != nil {
		return nil, err
	}

	return c.insertRow(len(c.rows), payload), nil
}

// InsertAt puts item at position i, moving the following rows one place.
func (c *Collection) InsertAt(i int, item any) (*Row, error) {

	payload, err := json.Marshal(item, json.Deterministic(true))
	if err != nil {
		return nil, errors.Wrap(err, "json encode payload")
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.file == nil {
		return nil, ErrClosed
	}
	if i < 0 || i > len(c.rows) {
		return nil, errors.Errorf("insert position %d out of range [0,%d]", i, len(c.rows))
	}

	params, err := json.Marshal(insertAtPayload{I: i, Item: payload})
	if err != nil {
		return nil, errors.Wrap(err, "json encode insert_at")
	}
	err = c.persist(CommandInsertAt, params)
	if err != nil {
		return nil, err
	}

	return c.insertRow(i, payload), nil
}

// Len returns the number of documents, ignoring any filter.
func (c *Collection) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.rows)
}

// Traverse calls f for the documents matching filter, skipping the first
// skip matches and stopping after limit calls. A negative limit means no
// limit. f must not modify the collection.
func (c *Collection) Traverse(filter map[string]any, skip, limit int, f func(row *Row) error) error {

	c.mutex.RLock()
	defer c.mutex.RUnlock()

	hasFilter := len(filter) > 0

	for _, row := range c.rows {

		if limit == 0 {
			break
		}

		if hasFilter {
			match, err := matches(filter, row)
			if err != nil {
				return errors.Wrapf(err, "match row %d", row.I)
			}
			if !match {
				continue
			}
		}

		if skip > 0 {
			skip--
			continue
		}

		limit--
		err := f(row)
		if err != nil {
			return err
		}
	}

	return nil
}

// Count returns the number of documents matching filter.
func (c *Collection) Count(filter map[string]any) (int, error) {
	if len(filter) == 0 {
		return c.Len(), nil
	}
	n := 0
	err := c.Traverse(filter, 0, -1, func(row *Row) error {
		n++
		return nil
	})
	return n, err
}

func matches(filter map[string]any, row *Row) (bool, error) {
	rowData := map[string]any{}
	err := row.Decode(&rowData)
	if err != nil {
		return false, err
	}
	return connor.Match(filter, rowData)
}

func (c *Collection) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.file == nil {
		return nil
	}
	err := c.file.Close()
	c.file = nil
	return err
}

func (c *Collection) Drop() error {
	err := c.Close()
	if err != nil {
		return errors.Wrap(err, "close")
	}

	err = os.Remove(c.filename)
	if err != nil {
		return errors.Wrap(err, "remove")
	}

	return nil
}
