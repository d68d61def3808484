package api

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/fulldump/box"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/pkg/errors"

	"github.com/fulldump/lazyrows/database"
	"github.com/fulldump/lazyrows/paged"
	"github.com/fulldump/lazyrows/service"
)

var ErrBadRequest = errors.New("bad request")
var ErrUnavailable = errors.New("temporary unavailable")

type PrettyError struct {
	Message     string `json:"message"`
	Description string `json:"description"`
}

func (p PrettyError) MarshalTo(w io.Writer) error {
	return json.MarshalWrite(w, map[string]any{
		"error": p,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.WriteHeader(status)
	return json.MarshalWrite(w, v, json.Deterministic(true))
}

func readJSON(r *http.Request, v any) error {
	err := json.UnmarshalRead(r.Body, v)
	if err != nil {
		return errors.Wrapf(ErrBadRequest, "malformed body: %s", err.Error())
	}
	return nil
}

func queryInt(r *http.Request, key string) (int, error) {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0, errors.Wrapf(ErrBadRequest, "query parameter '%s' must be an integer", key)
	}
	return v, nil
}

func queryFloat(r *http.Request, key string) (float64, error) {
	v, err := strconv.ParseFloat(r.URL.Query().Get(key), 64)
	if err != nil {
		return 0, errors.Wrapf(ErrBadRequest, "query parameter '%s' must be a number", key)
	}
	return v, nil
}

type errorMapping struct {
	target      error
	status      int
	description string
}

var errorMappings = []errorMapping{
	{service.ErrorSourceNotFound, http.StatusNotFound, "source not found"},
	{service.ErrorPageNotResident, http.StatusNotFound, "page not resident, read it first"},
	{database.ErrorCollectionNotFound, http.StatusNotFound, "collection not found"},
	{box.ErrResourceNotFound, http.StatusNotFound, "resource not found"},
	{box.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "method not allowed"},
	{service.ErrorSourceAlreadyExists, http.StatusConflict, "source already exists"},
	{database.ErrorCollectionAlreadyExists, http.StatusConflict, "collection already exists"},
	{paged.ErrDuplicateRow, http.StatusConflict, "row already exists"},
	{paged.ErrReadOnly, http.StatusBadRequest, "source is read only"},
	{service.ErrorNotSearchable, http.StatusBadRequest, "source is not searchable"},
	{service.ErrorNotACollection, http.StatusBadRequest, "source is not a collection"},
	{service.ErrorBadPosition, http.StatusBadRequest, "position must be in [0,1]"},
	{ErrBadRequest, http.StatusBadRequest, "bad request"},
	{ErrUnavailable, http.StatusServiceUnavailable, "try again later"},
}

func PrettyErrorInterceptor(next box.H) box.H {
	return func(ctx context.Context) {

		next(ctx)

		err := box.GetError(ctx)
		if err == nil {
			return
		}
		w := box.GetResponse(ctx)

		status := http.StatusInternalServerError
		description := "Unexpected error"
		for _, m := range errorMappings {
			if errors.Is(err, m.target) {
				status = m.status
				description = m.description
				break
			}
		}

		var syntactic *jsontext.SyntacticError
		if errors.As(err, &syntactic) {
			status = http.StatusBadRequest
			description = "Malformed JSON"
		}

		w.WriteHeader(status)
		PrettyError{
			Message:     err.Error(),
			Description: description,
		}.MarshalTo(w)
	}
}
