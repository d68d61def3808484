package api

import (
	"context"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/lazyrows/paged"
)

func find(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	input := struct {
		Column string `json:"column"`
		Value  any    `json:"value"`
	}{}
	err := readJSON(r, &input)
	if err != nil {
		return err
	}

	sourceName := box.GetUrlParameter(ctx, "sourceName")

	result, err := GetServicer(ctx).FindRow(ctx, sourceName, input.Column, input.Value)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, result)
}

func insert(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	input := struct {
		Column string    `json:"column"`
		Row    paged.Row `json:"row"`
	}{}
	err := readJSON(r, &input)
	if err != nil {
		return err
	}

	sourceName := box.GetUrlParameter(ctx, "sourceName")

	result, err := GetServicer(ctx).InsertRow(ctx, sourceName, input.Column, input.Row)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusCreated, result)
}
