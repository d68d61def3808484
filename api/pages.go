package api

import (
	"context"
	"net/http"

	"github.com/fulldump/box"
)

func firstPage(ctx context.Context, w http.ResponseWriter) error {

	sourceName := box.GetUrlParameter(ctx, "sourceName")

	page, err := GetServicer(ctx).FirstPage(ctx, sourceName)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, page)
}

func nextPage(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	offset, err := queryInt(r, "offset")
	if err != nil {
		return err
	}

	sourceName := box.GetUrlParameter(ctx, "sourceName")

	page, err := GetServicer(ctx).NextPage(ctx, sourceName, offset)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, page)
}

func pageForPosition(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	position, err := queryFloat(r, "p")
	if err != nil {
		return err
	}

	sourceName := box.GetUrlParameter(ctx, "sourceName")

	page, err := GetServicer(ctx).PageForPosition(ctx, sourceName, position)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, page)
}
