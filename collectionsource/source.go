// Package collectionsource pages through the documents of a collection.
package collectionsource

import (
	"cmp"
	"context"
	"fmt"
	"reflect"
	"slices"

	"github.com/go-json-experiment/json"
	"github.com/pkg/errors"

	"github.com/fulldump/lazyrows/collection"
	"github.com/fulldump/lazyrows/paged"
)

// Source reads the documents of a collection matching Filter, in stored
// order. Each row holds the values of Fields; with no Fields a row is the
// whole document.
//
// The initial estimate is the unfiltered length of the collection, so a
// selective filter makes it an overestimate that the pager corrects.
type Source struct {
	Collection *collection.Collection
	Filter     map[string]any
	Fields     []string
}

var _ paged.Source = &Source{}
var _ paged.Inserter = &Source{}

func (s *Source) Columns() []string {
	if len(s.Fields) == 0 {
		return []string{"document"}
	}
	return s.Fields
}

func (s *Source) EstimateInitialCount(ctx context.Context) (int, error) {
	return s.Collection.Len(), nil
}

func (s *Source) ReadPage(ctx context.Context, offset, limit int) ([]paged.Row, error) {

	rows := []paged.Row{}
	err := s.Collection.Traverse(s.Filter, offset, limit, func(row *collection.Row) error {
		r, err := s.decode(row)
		if err != nil {
			return errors.Wrapf(err, "decode document %d", row.I)
		}
		rows = append(rows, r)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, paged.ErrNoData
	}
	return rows, nil
}

func (s *Source) decode(row *collection.Row) (paged.Row, error) {

	document := map[string]any{}
	err := row.Decode(&document)
	if err != nil {
		return nil, err
	}

	if len(s.Fields) == 0 {
		return paged.Row{document}, nil
	}

	result := make(paged.Row, len(s.Fields))
	for i, field := range s.Fields {
		value, ok := document[field]
		if !ok {
			return nil, errors.Errorf("field '%s' not found", field)
		}
		result[i] = value
	}
	return result, nil
}

// InsertRow stores the document built from row so that it becomes the
// index-th matching document. The new document must match Filter.
func (s *Source) InsertRow(ctx context.Context, index int, row paged.Row) error {

	document, err := s.encode(row)
	if err != nil {
		return err
	}

	position := s.Collection.Len()
	err = s.Collection.Traverse(s.Filter, index, 1, func(row *collection.Row) error {
		position = row.I
		return nil
	})
	if err != nil {
		return err
	}

	_, err = s.Collection.InsertAt(position, document)
	return err
}

func (s *Source) encode(row paged.Row) (map[string]any, error) {

	if len(s.Fields) == 0 {
		if len(row) != 1 {
			return nil, errors.Errorf("expected one document, got %d values", len(row))
		}
		document, ok := row[0].(map[string]any)
		if !ok {
			return nil, errors.Errorf("unexpected document type %T", row[0])
		}
		return document, nil
	}

	if len(row) != len(s.Fields) {
		return nil, errors.Errorf("expected %d values, got %d", len(s.Fields), len(row))
	}
	document := map[string]any{}
	for i, field := range s.Fields {
		document[field] = row[i]
	}
	return document, nil
}

// Key returns a compare function for FindRow/InsertRow over the column
// named field. Values are ordered as JSON values: null, booleans, numbers,
// strings, arrays, objects.
func (s *Source) Key(field string, value any) (func(paged.Row) int, error) {

	column := -1
	for i, f := range s.Fields {
		if f == field {
			column = i
		}
	}
	if column < 0 {
		return nil, errors.Errorf("column '%s' not found", field)
	}

	want, err := normalize(value)
	if err != nil {
		return nil, errors.Wrapf(err, "key value for column '%s'", field)
	}

	return func(row paged.Row) int {
		return compareValues(row[column], want)
	}, nil
}

// normalize brings Go values to the types a JSON document decodes to.
func normalize(value any) (any, error) {
	b, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var result any
	err = json.Unmarshal(b, &result)
	return result, err
}

const (
	kindNull = iota
	kindBool
	kindNumber
	kindString
	kindArray
	kindObject
	kindOther
)

func kindOf(v any) int {
	switch v.(type) {
	case nil:
		return kindNull
	case bool:
		return kindBool
	case string:
		return kindString
	case []any:
		return kindArray
	case map[string]any:
		return kindObject
	}
	if _, ok := number(v); ok {
		return kindNumber
	}
	return kindOther
}

func number(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// compareValues is a total order over decoded JSON values. Values of any
// other type sort last, by type name and then by their printed form.
func compareValues(a, b any) int {

	ka, kb := kindOf(a), kindOf(b)
	if ka != kb {
		return cmp.Compare(ka, kb)
	}

	switch ka {
	case kindNull:
		return 0
	case kindBool:
		x, y := a.(bool), b.(bool)
		if x == y {
			return 0
		}
		if !x {
			return -1
		}
		return 1
	case kindNumber:
		x, _ := number(a)
		y, _ := number(b)
		return cmp.Compare(x, y)
	case kindString:
		return cmp.Compare(a.(string), b.(string))
	case kindArray:
		x, y := a.([]any), b.([]any)
		for i := 0; i < len(x) && i < len(y); i++ {
			if c := compareValues(x[i], y[i]); c != 0 {
				return c
			}
		}
		return cmp.Compare(len(x), len(y))
	case kindObject:
		x, y := a.(map[string]any), b.(map[string]any)
		kx, ky := sortedKeys(x), sortedKeys(y)
		for i := 0; i < len(kx) && i < len(ky); i++ {
			if c := cmp.Compare(kx[i], ky[i]); c != 0 {
				return c
			}
			if c := compareValues(x[kx[i]], y[ky[i]]); c != 0 {
				return c
			}
		}
		return cmp.Compare(len(kx), len(ky))
	}

	if c := cmp.Compare(fmt.Sprintf("%T", a), fmt.Sprintf("%T", b)); c != 0 {
		return c
	}
	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
