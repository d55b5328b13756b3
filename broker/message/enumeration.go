package message

import "fmt"

// MessageTypeEnum identifies the type of a message and its body.
type MessageTypeEnum int

const (
	MessageTypeEnum_MetadataChanged MessageTypeEnum = 1
	MessageTypeEnum_ImportCompleted MessageTypeEnum = 2
)

var _MessageTypeEnumValueToName = map[MessageTypeEnum]string{
	MessageTypeEnum_MetadataChanged: "MetadataChanged",
	MessageTypeEnum_ImportCompleted: "ImportCompleted",
}

var _MessageTypeEnumNameToValue = map[string]MessageTypeEnum{
	"MetadataChanged": MessageTypeEnum_MetadataChanged,
	"ImportCompleted": MessageTypeEnum_ImportCompleted,
}

func (t MessageTypeEnum) String() string {
	if name, ok := _MessageTypeEnumValueToName[t]; ok {
		return name
	}
	return ""
}

func (t MessageTypeEnum) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *MessageTypeEnum) UnmarshalText(text []byte) error {
	v, ok := _MessageTypeEnumNameToValue[string(text)]
	if !ok {
		return fmt.Errorf("unknown message type %q", text)
	}
	*t = v
	return nil
}
