package message

import (
	"encoding/json"
	"fmt"
)

// Envelope reads messages superficially only to extract the core attributes.
// It is enough to pick the schema a message is validated against.
type Envelope struct {
	MessageHeader json.RawMessage `json:"messageHeader"`
	MessageBody   json.RawMessage `json:"messageBody"`
	Attributes    Attributes      `json:"-"`
}

// Open returns the Envelope of a message stream.
func Open(stream []byte) (*Envelope, error) {
	e := Envelope{Attributes: Attributes{}}

	if err := json.Unmarshal(stream, &e); err != nil {
		return nil, fmt.Errorf("error decoding header/body streams: %v", err)
	}

	if err := e.inspect(); err != nil {
		return nil, fmt.Errorf("error decoding envelope attributes: %v", err)
	}

	return &e, nil
}

type Attributes struct {
	Version     string `json:"version"`
	MessageType string `json:"messageType"`
}

// inspect extracts the main headers (version, type).
func (e *Envelope) inspect() error {
	if err := json.Unmarshal(e.MessageHeader, &e.Attributes); err != nil {
		return err
	}

	if e.Attributes.Version == "" {
		return fmt.Errorf("version header is empty or missing")
	}

	if e.Attributes.MessageType == "" {
		return fmt.Errorf("message type header is empty or missing")
	}

	return nil
}

const (
	SchemaMetadataChanged = "schema/metadata_changed.json"
	SchemaImportCompleted = "schema/import_completed.json"
)

// SchemaDefinition returns the path of the embedded schema of the message.
func (e *Envelope) SchemaDefinition() string {
	switch e.Attributes.MessageType {
	case MessageTypeEnum_MetadataChanged.String():
		return SchemaMetadataChanged
	case MessageTypeEnum_ImportCompleted.String():
		return SchemaImportCompleted
	}

	return ""
}
