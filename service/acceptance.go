package service

import (
	"net/http"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
)

type JSON = map[string]interface{}

// Acceptance runs the api scenarios. The service behind apiRequest must
// serve a source "numbers" with page size 10 that holds the numbers 0..15
// and claims 30 rows.
func Acceptance(a *biff.A, apiRequest func(method, path string) *apitest.Request) {

	a.Alternative("List sources", func(a *biff.A) {
		resp := apiRequest("GET", "/sources").Do()
		Save(resp, "List sources")

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		biff.AssertEqualJson(resp.BodyJson(), []JSON{
			{
				"name":      "numbers",
				"columns":   []string{"Number"},
				"estimated": 30,
				"known":     0,
				"pages":     0,
			},
		})
	})

	a.Alternative("Retrieve unknown source", func(a *biff.A) {
		resp := apiRequest("GET", "/sources/nope").Do()
		Save(resp, "Retrieve source - not found")

		biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
	})

	a.Alternative("First page", func(a *biff.A) {
		resp := apiRequest("GET", "/sources/numbers/first").Do()
		Save(resp, "First page")

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		biff.AssertEqualJson(resp.BodyJson(), JSON{
			"offset":    0,
			"rows":      [][]int{{0}, {1}, {2}, {3}, {4}, {5}, {6}, {7}, {8}, {9}},
			"estimated": 30,
			"known":     10,
			"end":       false,
		})

		a.Alternative("Next page", func(a *biff.A) {
			resp := apiRequest("GET", "/sources/numbers/next").
				WithQuery("offset", "0").Do()
			Save(resp, "Next page")

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), JSON{
				"offset":    10,
				"rows":      [][]int{{10}, {11}, {12}, {13}, {14}, {15}},
				"estimated": 30,
				"known":     16,
				"end":       false,
			})

			a.Alternative("End of data", func(a *biff.A) {
				resp := apiRequest("GET", "/sources/numbers/next").
					WithQuery("offset", "10").Do()
				Save(resp, "Next page - end of data")

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"offset":    16,
					"rows":      []int{},
					"estimated": 16,
					"known":     16,
					"end":       true,
				})
			})
		})

		a.Alternative("Next of a page not resident", func(a *biff.A) {
			resp := apiRequest("GET", "/sources/numbers/next").
				WithQuery("offset", "3").Do()
			Save(resp, "Next page - not resident")

			biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
		})

		a.Alternative("Next with a bad offset", func(a *biff.A) {
			resp := apiRequest("GET", "/sources/numbers/next").
				WithQuery("offset", "three").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})
	})

	a.Alternative("Page for position", func(a *biff.A) {
		resp := apiRequest("GET", "/sources/numbers/position").
			WithQuery("p", "0.8").Do()
		// The source claimed 30 rows; the lookup corrects it to 16
		Save(resp, "Page for position")

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		biff.AssertEqualJson(resp.BodyJson(), JSON{
			"offset":    10,
			"rows":      [][]int{{10}, {11}, {12}, {13}, {14}, {15}},
			"estimated": 16,
			"known":     16,
			"end":       false,
		})

		a.Alternative("Retrieve source", func(a *biff.A) {
			resp := apiRequest("GET", "/sources/numbers").Do()
			Save(resp, "Retrieve source")

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), JSON{
				"name":      "numbers",
				"columns":   []string{"Number"},
				"estimated": 16,
				"known":     16,
				"pages":     1,
			})
		})
	})

	a.Alternative("Page for position out of range", func(a *biff.A) {
		resp := apiRequest("GET", "/sources/numbers/position").
			WithQuery("p", "1.5").Do()
		Save(resp, "Page for position - out of range")

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})

	a.Alternative("Insert into a read only source", func(a *biff.A) {
		resp := apiRequest("POST", "/sources/numbers:insert").
			WithBodyJson(JSON{
				"column": "Number",
				"row":    []int{100},
			}).Do()
		Save(resp, "Insert row - read only")

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})

	a.Alternative("Create collection", func(a *biff.A) {
		resp := apiRequest("POST", "/collections").
			WithBodyJson(JSON{
				"name":   "people",
				"fields": []string{"id", "name"},
			}).Do()
		Save(resp, "Create collection")

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		biff.AssertEqualJson(resp.BodyJson(), JSON{
			"name":      "people",
			"columns":   []string{"id", "name"},
			"estimated": 0,
			"known":     0,
			"pages":     0,
		})

		a.Alternative("Create collection again", func(a *biff.A) {
			resp := apiRequest("POST", "/collections").
				WithBodyJson(JSON{"name": "people"}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusConflict)
		})

		a.Alternative("Insert documents", func(a *biff.A) {
			for _, document := range []JSON{
				{"id": 10, "name": "Alfonso"},
				{"id": 20, "name": "Gerardo"},
				{"id": 30, "name": "Pedro"},
			} {
				resp := apiRequest("POST", "/collections/people:insert").
					WithBodyJson(document).Do()
				Save(resp, "Insert document")
				biff.AssertEqual(resp.StatusCode, http.StatusCreated)
			}

			a.Alternative("Position after inserts", func(a *biff.A) {
				resp := apiRequest("GET", "/sources/people/position").
					WithQuery("p", "0.5").Do()
				Save(resp, "Position after inserts")

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"offset":    0,
					"rows":      []any{[]any{10, "Alfonso"}, []any{20, "Gerardo"}, []any{30, "Pedro"}},
					"estimated": 3,
					"known":     3,
					"end":       false,
				})
			})

			a.Alternative("First page", func(a *biff.A) {
				resp := apiRequest("GET", "/sources/people/first").Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"offset":    0,
					"rows":      []any{[]any{10, "Alfonso"}, []any{20, "Gerardo"}, []any{30, "Pedro"}},
					"estimated": 3,
					"known":     3,
					"end":       false,
				})
			})

			a.Alternative("Find row", func(a *biff.A) {
				resp := apiRequest("POST", "/sources/people:find").
					WithBodyJson(JSON{
						"column": "id",
						"value":  20,
					}).Do()
				Save(resp, "Find row")

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"found":     true,
					"index":     1,
					"page":      0,
					"row":       []any{20, "Gerardo"},
					"estimated": 3,
					"known":     3,
				})
			})

			a.Alternative("Find missing row", func(a *biff.A) {
				resp := apiRequest("POST", "/sources/people:find").
					WithBodyJson(JSON{
						"column": "id",
						"value":  25,
					}).Do()
				Save(resp, "Find row - insertion point")

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"found":     false,
					"index":     2,
					"page":      0,
					"row":       []any{},
					"estimated": 3,
					"known":     3,
				})
			})

			a.Alternative("Insert row", func(a *biff.A) {
				resp := apiRequest("POST", "/sources/people:insert").
					WithBodyJson(JSON{
						"column": "id",
						"row":    []any{15, "Benito"},
					}).Do()
				Save(resp, "Insert row")

				biff.AssertEqual(resp.StatusCode, http.StatusCreated)
				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"found":     true,
					"index":     1,
					"page":      0,
					"row":       []any{15, "Benito"},
					"estimated": 4,
					"known":     4,
				})

				a.Alternative("Insert duplicated row", func(a *biff.A) {
					resp := apiRequest("POST", "/sources/people:insert").
						WithBodyJson(JSON{
							"column": "id",
							"row":    []any{15, "Benito"},
						}).Do()
					Save(resp, "Insert row - duplicated")

					biff.AssertEqual(resp.StatusCode, http.StatusConflict)
				})
			})
		})
	})
}
