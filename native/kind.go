package native

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind identifies an entity type handled by the pipeline.
type Kind int

const (
	KindSubmission Kind = iota + 1
	KindPublication
	KindAuthor
	KindGalley
	KindSubmissionFile
	KindReviewRound
	KindReviewAssignment
	KindReviewForm
	KindQuery
	KindNote
	KindContext
)

// Kinds lists every kind a registry must serve.
var Kinds = []Kind{
	KindSubmission,
	KindPublication,
	KindAuthor,
	KindGalley,
	KindSubmissionFile,
	KindReviewRound,
	KindReviewAssignment,
	KindReviewForm,
	KindQuery,
	KindNote,
	KindContext,
}

var _KindValueToName = map[Kind]string{
	KindSubmission:       "submission",
	KindPublication:      "publication",
	KindAuthor:           "author",
	KindGalley:           "representation",
	KindSubmissionFile:   "submission-file",
	KindReviewRound:      "review-round",
	KindReviewAssignment: "review-assignment",
	KindReviewForm:       "review-form",
	KindQuery:            "query",
	KindNote:             "note",
	KindContext:          "context",
}

var _KindNameToValue = func() map[string]Kind {
	m := make(map[string]Kind, len(_KindValueToName))
	for k, name := range _KindValueToName {
		m[name] = k
	}
	return m
}()

func (k Kind) String() string {
	if name, ok := _KindValueToName[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind returns the kind with the given name.
func ParseKind(name string) (Kind, bool) {
	k, ok := _KindNameToValue[name]
	return k, ok
}

// Direction tells an export (entity to XML) from an import.
type Direction int

const (
	Export Direction = iota + 1
	Import
)

func (d Direction) String() string {
	switch d {
	case Export:
		return "export"
	case Import:
		return "import"
	}
	return "unknown"
}

// NativeXML is the type name of the XML side of a group key.
const NativeXML = "native-xml"

// GroupKey renders the "{source}=>{target}" key of a kind and direction,
// e.g. "native-xml=>author" for the author import.
func GroupKey(k Kind, d Direction) string {
	if d == Import {
		return NativeXML + "=>" + k.String()
	}
	return k.String() + "=>" + NativeXML
}

// ParseGroupKey is the inverse of GroupKey.
func ParseGroupKey(key string) (Kind, Direction, error) {
	parts := strings.Split(key, "=>")
	if len(parts) != 2 {
		return 0, 0, errors.Wrapf(ErrCodecNotRegistered, "malformed group key %q", key)
	}
	src, dst := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	var (
		name string
		dir  Direction
	)
	switch {
	case src == NativeXML && dst != NativeXML:
		name, dir = dst, Import
	case dst == NativeXML && src != NativeXML:
		name, dir = src, Export
	default:
		return 0, 0, errors.Wrapf(ErrCodecNotRegistered, "group key %q has no native-xml side", key)
	}
	k, ok := ParseKind(name)
	if !ok {
		return 0, 0, errors.Wrapf(ErrCodecNotRegistered, "group key %q", key)
	}
	return k, dir, nil
}
