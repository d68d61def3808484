package service

import (
	"github.com/fulldump/lazyrows/paged"
)

type SourceInfo struct {
	Name      string   `json:"name"`
	Columns   []string `json:"columns"`
	Estimated int      `json:"estimated"`
	Known     int      `json:"known"`
	Pages     int      `json:"pages"`
}

// PageDocument is a page plus the size of the source right after it was
// returned. End is set when there is no page: the data ended.
type PageDocument struct {
	Offset    int         `json:"offset"`
	Rows      []paged.Row `json:"rows"`
	Estimated int         `json:"estimated"`
	Known     int         `json:"known"`
	End       bool        `json:"end"`
}

type RowDocument struct {
	Found     bool      `json:"found"`
	Index     int       `json:"index"`
	Page      int       `json:"page"`
	Row       paged.Row `json:"row"`
	Estimated int       `json:"estimated"`
	Known     int       `json:"known"`
}

func newPageDocument(p *paged.Pager, page *paged.Page) *PageDocument {
	size := p.Size()
	doc := &PageDocument{
		Rows:      []paged.Row{},
		Estimated: size.Estimated,
		Known:     size.Known,
	}
	if page == nil {
		doc.Offset = size.Known
		doc.End = true
		return doc
	}
	doc.Offset = page.Offset()
	doc.Rows = page.Rows()
	return doc
}
