package native

import (
	"encoding/base64"
	"sort"
	"strings"
	"time"

	"github.com/JiscSD/native-xml-adapter/model"

	"github.com/beevik/etree"
	"github.com/spf13/cast"
)

// DateFormat is the layout of every date attribute.
const DateFormat = "2006-01-02"

// base carries the helpers shared by every codec. Issues are recorded
// against the codec's kind.
type base struct {
	kind Kind
}

func (b base) Kind() Kind { return b.kind }

// text appends <tag>value</tag> unless value is empty.
func text(parent *etree.Element, tag, value string) *etree.Element {
	if value == "" {
		return nil
	}
	el := parent.CreateElement(tag)
	el.SetText(value)
	return el
}

// localized appends one <tag locale="..."> per non-empty locale, sorted.
func localized(parent *etree.Element, tag string, values model.LocalizedString) {
	for _, locale := range values.Locales() {
		el := parent.CreateElement(tag)
		el.CreateAttr("locale", locale)
		el.SetText(values[locale])
	}
}

// vocabulary appends one <wrapper locale="..."> per locale holding one
// <tag> per term.
func vocabulary(parent *etree.Element, wrapper, tag string, values model.Vocabulary) {
	for _, locale := range values.Locales() {
		w := parent.CreateElement(wrapper)
		w.CreateAttr("locale", locale)
		for _, term := range values[locale] {
			text(w, tag, term)
		}
	}
}

func setAttr(el *etree.Element, key, value string) {
	if value != "" {
		el.CreateAttr(key, value)
	}
}

func setInt(el *etree.Element, key string, value int64) {
	el.CreateAttr(key, cast.ToString(value))
}

func setNonZero(el *etree.Element, key string, value int64) {
	if value != 0 {
		setInt(el, key, value)
	}
}

// setBool writes "true" for true values; false is written as absence.
func setBool(el *etree.Element, key string, value bool) {
	if value {
		el.CreateAttr(key, "true")
	}
}

func setDate(el *etree.Element, key string, value time.Time) {
	if !value.IsZero() {
		el.CreateAttr(key, value.Format(DateFormat))
	}
}

// value returns the trimmed text of an element.
func value(el *etree.Element) string {
	return strings.TrimSpace(el.Text())
}

// locale returns the locale attribute of el or the fallback.
func locale(el *etree.Element, fallback string) string {
	if l := el.SelectAttrValue("locale", ""); l != "" {
		return l
	}
	return fallback
}

// readLocalized stores the text of el in values under its locale.
func readLocalized(el *etree.Element, fallback string, values *model.LocalizedString) {
	values.Set(locale(el, fallback), value(el))
}

// readVocabulary collects the terms of a vocabulary wrapper.
func readVocabulary(el *etree.Element, fallback string, values *model.Vocabulary) {
	l := locale(el, fallback)
	for _, term := range el.ChildElements() {
		values.Add(l, value(term))
	}
}

func attrBool(el *etree.Element, key string) bool {
	switch strings.ToLower(el.SelectAttrValue(key, "")) {
	case "true", "1":
		return true
	}
	return false
}

// attrInt parses an integer attribute. A malformed value is recorded as a
// warning and read as zero.
func (b base) attrInt(d *Deployment, id int64, el *etree.Element, key string) int64 {
	raw := strings.TrimSpace(el.SelectAttrValue(key, ""))
	if raw == "" {
		return 0
	}
	v, err := cast.ToInt64E(raw)
	if err != nil {
		d.Warn(b.kind, id, "attribute %s of <%s> is not a number: %q", key, el.Tag, raw)
		return 0
	}
	return v
}

// textInt parses the text of el as an integer.
func (b base) textInt(d *Deployment, id int64, el *etree.Element) int64 {
	raw := value(el)
	if raw == "" {
		return 0
	}
	v, err := cast.ToInt64E(raw)
	if err != nil {
		d.Warn(b.kind, id, "<%s> is not a number: %q", el.Tag, raw)
		return 0
	}
	return v
}

var dateLayouts = []string{DateFormat, "2006-01-02 15:04:05", time.RFC3339}

// attrDate parses a date attribute. A malformed value is recorded as a
// warning and read as the zero time.
func (b base) attrDate(d *Deployment, id int64, el *etree.Element, key string) time.Time {
	raw := strings.TrimSpace(el.SelectAttrValue(key, ""))
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	d.Warn(b.kind, id, "attribute %s of <%s> is not a date: %q", key, el.Tag, raw)
	return time.Time{}
}

// unknown records an unexpected child element.
func (b base) unknown(d *Deployment, id int64, parent, child *etree.Element) {
	d.Warn(b.kind, id, "unknown element <%s> in <%s>", child.Tag, parent.Tag)
}

// internalID returns the value of the <id type="internal"> child, which
// only serves to map references inside the document.
func (b base) internalID(d *Deployment, el *etree.Element) int64 {
	for _, child := range el.SelectElements("id") {
		if t := child.SelectAttrValue("type", "internal"); t == "internal" {
			return b.textInt(d, 0, child)
		}
	}
	return 0
}

// bySeq sorts a slice in place by a sequence number, keeping ID order for
// equal values.
func bySeq[T any](items []T, seq func(T) int) {
	sort.SliceStable(items, func(i, j int) bool { return seq(items[i]) < seq(items[j]) })
}

// ref appends <submission_file_ref id="..."/>.
func ref(parent *etree.Element, id int64) {
	setInt(parent.CreateElement("submission_file_ref"), "id", id)
}

func base64Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
