package native

import (
	"testing"
	"time"

	"github.com/JiscSD/native-xml-adapter/model"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
)

func TestLocalized(t *testing.T) {
	el := etree.NewElement("publication")
	localized(el, "title", model.LocalizedString{"fr": "Titre", "en": "Title", "de": ""})

	titles := el.SelectElements("title")
	if assert.Len(t, titles, 2) {
		assert.Equal(t, "en", titles[0].SelectAttrValue("locale", ""))
		assert.Equal(t, "Title", titles[0].Text())
		assert.Equal(t, "fr", titles[1].SelectAttrValue("locale", ""))
		assert.Equal(t, "Titre", titles[1].Text())
	}

	var got model.LocalizedString
	for _, n := range titles {
		readLocalized(n, "en", &got)
	}
	assert.Equal(t, model.LocalizedString{"en": "Title", "fr": "Titre"}, got)
}

func TestReadLocalized_Fallback(t *testing.T) {
	var got model.LocalizedString
	readLocalized(parse(t, `<title>Untagged</title>`), "es", &got)
	readLocalized(parse(t, `<title locale="de"></title>`), "es", &got)
	assert.Equal(t, model.LocalizedString{"es": "Untagged"}, got)
}

func TestVocabulary(t *testing.T) {
	el := etree.NewElement("publication")
	vocabulary(el, "keywords", "keyword", model.Vocabulary{"en": {"a", "b"}, "fr": nil})
	wrappers := el.SelectElements("keywords")
	if assert.Len(t, wrappers, 1) {
		assert.Len(t, wrappers[0].SelectElements("keyword"), 2)
	}

	var got model.Vocabulary
	readVocabulary(wrappers[0], "fr", &got)
	assert.Equal(t, model.Vocabulary{"en": {"a", "b"}}, got)
}

func TestAttributes(t *testing.T) {
	d := newTestDeployment(t, Options{})
	b := base{kind: KindPublication}

	el := etree.NewElement("publication")
	setBool(el, "approved", false)
	setBool(el, "viewable", true)
	setDate(el, "date_published", time.Date(2024, 2, 29, 15, 4, 5, 0, time.UTC))
	setDate(el, "date_submitted", time.Time{})
	setNonZero(el, "primary_contact_id", 0)
	setInt(el, "seq", 0)

	assert.Nil(t, el.SelectAttr("approved"))
	assert.Equal(t, "true", el.SelectAttrValue("viewable", ""))
	assert.Equal(t, "2024-02-29", el.SelectAttrValue("date_published", ""))
	assert.Nil(t, el.SelectAttr("date_submitted"))
	assert.Nil(t, el.SelectAttr("primary_contact_id"))
	assert.Equal(t, "0", el.SelectAttrValue("seq", ""))

	assert.True(t, attrBool(el, "viewable"))
	assert.False(t, attrBool(el, "approved"))
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), b.attrDate(d, 1, el, "date_published"))
	assert.Empty(t, d.Report().Issues())

	bad := parse(t, `<publication seq="first" date_published="yesterday"/>`)
	assert.Equal(t, int64(0), b.attrInt(d, 1, bad, "seq"))
	assert.True(t, b.attrDate(d, 1, bad, "date_published").IsZero())
	assert.Len(t, d.Report().Warnings(), 2)
}
