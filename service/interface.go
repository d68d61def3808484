package service

import (
	"context"

	"github.com/fulldump/lazyrows/paged"
)

type Servicer interface {
	CreateCollection(ctx context.Context, name string, fields []string) (*SourceInfo, error)
	InsertDocument(name string, document map[string]any) error
	RegisterSource(ctx context.Context, name string, source paged.Source) error
	ListSources() []*SourceInfo
	GetSource(name string) (*SourceInfo, error)
	FirstPage(ctx context.Context, name string) (*PageDocument, error)
	NextPage(ctx context.Context, name string, offset int) (*PageDocument, error)
	PageForPosition(ctx context.Context, name string, position float64) (*PageDocument, error)
	FindRow(ctx context.Context, name, column string, value any) (*RowDocument, error)
	InsertRow(ctx context.Context, name, column string, row paged.Row) (*RowDocument, error)
}
