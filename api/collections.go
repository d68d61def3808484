package api

import (
	"context"
	"net/http"

	"github.com/fulldump/box"
	"github.com/pkg/errors"
)

func createCollection(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	input := struct {
		Name   string   `json:"name"`
		Fields []string `json:"fields"`
	}{}
	err := readJSON(r, &input)
	if err != nil {
		return err
	}
	if input.Name == "" {
		return errors.Wrap(ErrBadRequest, "field 'name' is mandatory")
	}

	info, err := GetServicer(ctx).CreateCollection(ctx, input.Name, input.Fields)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusCreated, info)
}

func insertDocument(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	document := map[string]any{}
	err := readJSON(r, &document)
	if err != nil {
		return err
	}

	collectionName := box.GetUrlParameter(ctx, "collectionName")

	err = GetServicer(ctx).InsertDocument(collectionName, document)
	if err != nil {
		return err
	}

	w.WriteHeader(http.StatusCreated)
	return nil
}
