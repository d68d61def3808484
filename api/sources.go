package api

import (
	"context"
	"net/http"

	"github.com/fulldump/box"
)

func listSources(ctx context.Context, w http.ResponseWriter) error {
	return writeJSON(w, http.StatusOK, GetServicer(ctx).ListSources())
}

func getSource(ctx context.Context, w http.ResponseWriter) error {

	sourceName := box.GetUrlParameter(ctx, "sourceName")

	info, err := GetServicer(ctx).GetSource(sourceName)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, info)
}
