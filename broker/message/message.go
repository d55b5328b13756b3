package message

import (
	"encoding/json"
	"time"

	"github.com/JiscSD/native-xml-adapter/version"

	"github.com/google/uuid"
)

// Message represents event messages.
type Message struct {
	// MessageHeader carries the message headers.
	MessageHeader MessageHeader

	// MessageBody carries the message payload.
	MessageBody interface{}
}

// New returns a pointer to a new message with a new ID.
func New(t MessageTypeEnum) *Message {
	return &Message{
		MessageHeader: MessageHeader{
			ID:          uuid.New().String(),
			MessageType: t,
			Published:   time.Now().UTC(),
			Version:     Version,
			Generator:   "native-xml-adapter/" + version.VERSION,
		},
		MessageBody: typedBody(t),
	}
}

// MetadataChanged is published once per imported document.
type MetadataChanged struct {
	Context       string  `json:"context"`
	SubmissionIDs []int64 `json:"submissionIds"`
}

// ImportCompleted summarizes an import run.
type ImportCompleted struct {
	Context  string `json:"context"`
	Document string `json:"document"`
	Items    int    `json:"items"`
	Warnings int    `json:"warnings"`
	Errors   int    `json:"errors"`
}

// messageAlias is proxy type for Message. Using json.RawMessage in order to:
// - Delay JSON decoding.
// - Precompute JSON encoding.
type messageAlias struct {
	MessageHeader json.RawMessage `json:"messageHeader"`
	MessageBody   json.RawMessage `json:"messageBody"`
}

func (m *Message) ID() string {
	return m.MessageHeader.ID
}

// MarshalJSON implements Marshaler.
func (m *Message) MarshalJSON() ([]byte, error) {
	header, err := json.Marshal(m.MessageHeader)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(m.MessageBody)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&messageAlias{
		MessageHeader: json.RawMessage(header),
		MessageBody:   json.RawMessage(body),
	})
}

// UnmarshalJSON implements Unmarshaler.
func (m *Message) UnmarshalJSON(data []byte) error {
	msg := messageAlias{}
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}
	if err := json.Unmarshal(msg.MessageHeader, &m.MessageHeader); err != nil {
		return err
	}
	m.MessageBody = typedBody(m.MessageHeader.MessageType)
	return json.Unmarshal(msg.MessageBody, m.MessageBody)
}

// typedBody returns an interface{} type where the type of the underlying value
// is chosen after the header message type.
func typedBody(t MessageTypeEnum) interface{} {
	var body interface{}
	switch t {
	case MessageTypeEnum_MetadataChanged:
		body = new(MetadataChanged)
	case MessageTypeEnum_ImportCompleted:
		body = new(ImportCompleted)
	}
	return body
}
