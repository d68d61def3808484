package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fulldump/apitest"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/sirupsen/logrus"
)

// Save writes a markdown example of an API exchange to $API_EXAMPLES_PATH,
// if set. Page and row responses get a summary of the source size they
// report, so the examples show how the estimate is corrected along the
// scenario.
func Save(response *apitest.Response, title string) {

	dir := os.Getenv("API_EXAMPLES_PATH")
	if dir == "" {
		return
	}

	request := response.Request

	target := request.URL.Path
	if request.URL.RawQuery != "" {
		target += "?" + request.URL.RawQuery
	}

	b := &strings.Builder{}
	fmt.Fprintf(b, "# %s\n\n", title)
	fmt.Fprintf(b, "```http\n%s %s\n", request.Method, target)
	if body := indentJSON(response.BodyRequestString()); body != "" {
		fmt.Fprintf(b, "\n%s\n", body)
	}
	fmt.Fprintf(b, "```\n\n")

	fmt.Fprintf(b, "Response `%s`:\n\n", response.Status)
	fmt.Fprintf(b, "```json\n%s\n```\n", indentJSON(response.BodyString()))

	if summary := sizeSummary(response.BodyString()); summary != "" {
		fmt.Fprintf(b, "\n%s\n", summary)
	}

	filename := filepath.Join(dir, strings.ReplaceAll(strings.ToLower(title), " ", "_")+".md")
	err := os.WriteFile(filename, []byte(b.String()), 0666)
	if err != nil {
		logrus.WithError(err).WithField("filename", filename).Error("save api example")
		return
	}
	logrus.WithField("filename", filename).Debug("api example saved")
}

func indentJSON(body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	var value any
	err := json.Unmarshal([]byte(body), &value)
	if err != nil {
		return body
	}
	indented, err := json.Marshal(value, json.Deterministic(true), jsontext.WithIndent("    "))
	if err != nil {
		return body
	}
	return string(indented)
}

// sizeSummary describes the estimate reported by a page or row document.
func sizeSummary(body string) string {

	doc := struct {
		Offset    *int  `json:"offset"`
		Rows      []any `json:"rows"`
		Estimated *int  `json:"estimated"`
		Known     *int  `json:"known"`
		End       bool  `json:"end"`
	}{}
	err := json.Unmarshal([]byte(body), &doc)
	if err != nil || doc.Estimated == nil || doc.Known == nil {
		return ""
	}

	s := fmt.Sprintf("The source reports %d rows, %d of them confirmed by reads", *doc.Estimated, *doc.Known)
	switch {
	case doc.End:
		s += "; the data ended, so the count is exact."
	case *doc.Estimated == *doc.Known:
		s += "; the estimate matches what was read."
	default:
		s += "; the rest is still an estimate."
	}
	if doc.Offset != nil && doc.Rows != nil {
		s += fmt.Sprintf(" This page holds rows %d to %d.", *doc.Offset, *doc.Offset+len(doc.Rows))
	}
	return s
}
