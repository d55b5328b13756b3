package message

import "time"

// Version of the message format.
const Version = "1.0.0"

// MessageHeader describes the message itself.
type MessageHeader struct {
	ID          string          `json:"messageId"`
	MessageType MessageTypeEnum `json:"messageType"`
	Published   time.Time       `json:"publishedTimestamp"`
	Version     string          `json:"version"`
	Generator   string          `json:"generator"`
}
