package collection

import (
	"github.com/go-json-experiment/json/jsontext"
)

const (
	CommandInsert   = "insert"
	CommandInsertAt = "insert_at"
)

type Command struct {
	Name      string         `json:"name"`
	Uuid      string         `json:"uuid"`
	Timestamp int64          `json:"timestamp"`
	StartByte int64          `json:"start_byte"`
	Payload   jsontext.Value `json:"payload"`
}

type insertAtPayload struct {
	I    int            `json:"i"`
	Item jsontext.Value `json:"item"`
}
