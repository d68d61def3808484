package collectionsource

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/fulldump/biff"

	"github.com/fulldump/lazyrows/collection"
	"github.com/fulldump/lazyrows/paged"
)

type JSON = map[string]any

// newPeople stores 30 people ordered by id; one in three is an admin.
func newPeople(t *testing.T) *collection.Collection {
	t.Helper()
	c, err := collection.OpenCollection(filepath.Join(t.TempDir(), "people"))
	if err != nil {
		t.Fatalf("open collection: %v", err)
	}
	t.Cleanup(func() {
		c.Close()
	})
	for i := 0; i < 30; i++ {
		c.Insert(JSON{
			"id":    i * 10,
			"name":  fmt.Sprintf("person-%02d", i),
			"admin": i%3 == 0,
		})
	}
	return c
}

func TestSource_ReadPage(t *testing.T) {

	ctx := context.Background()
	s := &Source{
		Collection: newPeople(t),
		Fields:     []string{"id", "name"},
	}

	biff.Alternative("People", func(a *biff.A) {

		a.Alternative("Fields", func(a *biff.A) {
			rows, err := s.ReadPage(ctx, 28, 10)
			biff.AssertNil(err)
			biff.AssertEqual(rows, []paged.Row{
				{float64(280), "person-28"},
				{float64(290), "person-29"},
			})
		})

		a.Alternative("Whole document", func(a *biff.A) {
			s.Fields = nil
			rows, err := s.ReadPage(ctx, 1, 1)
			biff.AssertNil(err)
			biff.AssertEqualJson(rows[0][0], JSON{"id": 10, "name": "person-01", "admin": false})
			biff.AssertEqual(s.Columns(), []string{"document"})
		})

		a.Alternative("Missing field", func(a *biff.A) {
			s.Fields = []string{"email"}
			_, err := s.ReadPage(ctx, 0, 10)
			biff.AssertNotNil(err)
		})

		a.Alternative("Past the end", func(a *biff.A) {
			_, err := s.ReadPage(ctx, 30, 10)
			biff.AssertEqual(err, paged.ErrNoData)
		})
	})
}

func TestSource_FilterOverestimates(t *testing.T) {

	ctx := context.Background()
	s := &Source{
		Collection: newPeople(t),
		Filter:     JSON{"admin": true},
		Fields:     []string{"id"},
	}

	p, err := paged.New(ctx, s, paged.Options{PageSize: 4})
	biff.AssertNil(err)
	biff.AssertEqual(p.EstimateRowCount(), 30)

	page, err := p.GetPageForPosition(ctx, 0.5)

	biff.AssertNil(err)
	biff.AssertEqual(p.Size(), paged.Size{Estimated: 12, Known: 8})
	biff.AssertTrue(page.Contains(6))
	biff.AssertEqual(page.Row(6-page.Offset()), paged.Row{float64(180)})

	page, err = p.GetPageForPosition(ctx, 1)

	biff.AssertNil(err)
	biff.AssertEqual(p.Size(), paged.Size{Estimated: 10, Known: 10})
	biff.AssertEqual(page.Offset(), 8)
}

func TestSource_InsertRow(t *testing.T) {

	ctx := context.Background()
	c := newPeople(t)
	s := &Source{
		Collection: c,
		Filter:     JSON{"admin": true},
		Fields:     []string{"id", "name", "admin"},
	}

	p, err := paged.New(ctx, s, paged.Options{PageSize: 100})
	biff.AssertNil(err)
	_, err = p.FirstPage(ctx)
	biff.AssertNil(err)

	key, err := s.Key("id", 35)
	biff.AssertNil(err)

	page, index, err := p.InsertRow(ctx, paged.Row{35, "newcomer", true}, key)

	biff.AssertNil(err)
	biff.AssertEqual(page.Offset(), 0)
	biff.AssertEqual(index, 2)
	biff.AssertEqual(c.Len(), 31)

	// The document lands before id 60 in the unfiltered collection
	rows, err := (&Source{Collection: c, Fields: []string{"id"}}).ReadPage(ctx, 4, 3)
	biff.AssertNil(err)
	biff.AssertEqual(rows, []paged.Row{{float64(40)}, {float64(50)}, {float64(35)}})
}

func TestSource_Key(t *testing.T) {

	s := &Source{Fields: []string{"name"}}

	key, err := s.Key("name", "m")
	biff.AssertNil(err)
	biff.AssertEqual(key(paged.Row{"a"}), -1)
	biff.AssertEqual(key(paged.Row{"m"}), 0)
	biff.AssertEqual(key(paged.Row{"z"}), 1)

	_, err = s.Key("id", 1)
	biff.AssertNotNil(err)
}

func TestSource_KeyNullIsNotAMatch(t *testing.T) {

	ctx := context.Background()
	c, err := collection.OpenCollection(filepath.Join(t.TempDir(), "ids"))
	biff.AssertNil(err)
	defer c.Close()
	c.Insert(JSON{"id": 1})
	c.Insert(JSON{"id": 2})
	c.Insert(JSON{"id": nil})

	s := &Source{Collection: c, Fields: []string{"id"}}
	p, err := paged.New(ctx, s, paged.Options{PageSize: 10})
	biff.AssertNil(err)
	_, err = p.FirstPage(ctx)
	biff.AssertNil(err)

	key, err := s.Key("id", 5)
	biff.AssertNil(err)

	row, _, index := p.FindRow(key)
	biff.AssertNil(row)
	biff.AssertEqual(index, 3)
}

func TestSource_KeyUnsupportedValue(t *testing.T) {

	s := &Source{Fields: []string{"id"}}

	_, err := s.Key("id", make(chan int))
	biff.AssertNotNil(err)
}

func TestCompareValues(t *testing.T) {

	ordered := []any{
		nil,
		false,
		true,
		float64(-1),
		2,
		float64(3),
		"a",
		"b",
		[]any{float64(1)},
		[]any{float64(1), float64(2)},
		map[string]any{"a": float64(1)},
		map[string]any{"b": nil},
	}

	for i := range ordered {
		biff.AssertEqual(compareValues(ordered[i], ordered[i]), 0)
		for j := i + 1; j < len(ordered); j++ {
			biff.AssertEqual(compareValues(ordered[i], ordered[j]), -1)
			biff.AssertEqual(compareValues(ordered[j], ordered[i]), 1)
		}
	}
}
