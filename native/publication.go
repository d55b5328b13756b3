package native

import (
	"context"

	"github.com/JiscSD/native-xml-adapter/model"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

type publicationCodec struct {
	base
}

var _ Codec = (*publicationCodec)(nil)

func newPublicationCodec() *publicationCodec {
	return &publicationCodec{base{kind: KindPublication}}
}

func (c *publicationCodec) Element() string    { return "publication" }
func (c *publicationCodec) Collection() string { return "publications" }

func (c *publicationCodec) Export(ctx context.Context, d *Deployment, v interface{}) (*etree.Element, error) {
	pub, ok := v.(*model.Publication)
	if !ok {
		return nil, unexpected(c.kind, v)
	}
	el := etree.NewElement(c.Element())
	setInt(el, "version", int64(pub.Version))
	setInt(el, "status", int64(pub.Status))
	setNonZero(el, "primary_contact_id", pub.PrimaryContactID)
	setAttr(el, "url_path", pub.URLPath)
	setInt(el, "seq", int64(pub.Seq))
	setNonZero(el, "access_status", int64(pub.AccessStatus))
	setDate(el, "date_published", pub.DatePublished)
	if pub.SectionID != 0 {
		if s, ok := d.Context.Section(pub.SectionID); ok {
			setAttr(el, "section_ref", s.Abbrev)
		} else {
			d.Warn(c.kind, pub.ID, "unknown section %d", pub.SectionID)
		}
	}

	err := c.exportIdentifiers(ctx, d, el, pub.ID, identifiers{
		storedPubID: &pub.StoredPubID,
		pubIDs:      &pub.PubIDs,
		doiID:       &pub.DOIID,
	})
	if err != nil {
		return nil, err
	}

	localized(el, "title", pub.Title)
	localized(el, "prefix", pub.Prefix)
	localized(el, "subtitle", pub.Subtitle)
	localized(el, "abstract", pub.Abstract)
	localized(el, "coverage", pub.Coverage)
	localized(el, "type", pub.Type)
	localized(el, "source", pub.Source)
	localized(el, "rights", pub.Rights)
	text(el, "licenseUrl", pub.LicenseURL)
	localized(el, "copyrightHolder", pub.CopyrightHolder)
	if pub.CopyrightYear != 0 {
		text(el, "copyrightYear", int64String(int64(pub.CopyrightYear)))
	}

	vocabulary(el, "keywords", "keyword", pub.Keywords)
	vocabulary(el, "agencies", "agency", pub.Agencies)
	vocabulary(el, "disciplines", "discipline", pub.Disciplines)
	vocabulary(el, "subjects", "subject", pub.Subjects)

	authors, err := d.Store.Authors.Find(ctx, func(a *model.Author) bool { return a.PublicationID == pub.ID })
	if err != nil {
		return nil, errors.Wrap(err, "authors cannot be listed")
	}
	bySeq(authors, func(a *model.Author) int { return a.Seq })
	wrapper := el.CreateElement("authors")
	for _, a := range authors {
		child, err := d.Export(ctx, KindAuthor, a)
		if err != nil {
			return nil, err
		}
		if child != nil {
			wrapper.AddChild(child)
		}
	}

	galleys, err := d.Store.Galleys.Find(ctx, func(g *model.Galley) bool { return g.PublicationID == pub.ID })
	if err != nil {
		return nil, errors.Wrap(err, "galleys cannot be listed")
	}
	bySeq(galleys, func(g *model.Galley) int { return g.Seq })
	for _, g := range galleys {
		child, err := d.Export(ctx, KindGalley, g)
		if err != nil {
			return nil, err
		}
		if child != nil {
			el.AddChild(child)
		}
	}

	if len(pub.Citations) > 0 {
		citations := el.CreateElement("citations")
		for _, citation := range pub.Citations {
			text(citations, "citation", citation)
		}
	}
	text(el, "pages", pub.Pages)
	return el, nil
}

func (c *publicationCodec) Import(ctx context.Context, d *Deployment, el *etree.Element, p Parent) (interface{}, error) {
	oldID := c.internalID(d, el)
	fallback := d.locale(ctx, p)
	pub := &model.Publication{
		SubmissionID:     p.SubmissionID,
		Version:          int(c.attrInt(d, oldID, el, "version")),
		Status:           int(c.attrInt(d, oldID, el, "status")),
		PrimaryContactID: c.attrInt(d, oldID, el, "primary_contact_id"),
		URLPath:          el.SelectAttrValue("url_path", ""),
		Seq:              int(c.attrInt(d, oldID, el, "seq")),
		AccessStatus:     int(c.attrInt(d, oldID, el, "access_status")),
		DatePublished:    c.attrDate(d, oldID, el, "date_published"),
	}
	if pub.Version == 0 {
		pub.Version = 1
	}
	if pub.Status == 0 {
		pub.Status = model.StatusQueued
	}
	var sectionIssue string
	if ref := el.SelectAttrValue("section_ref", ""); ref != "" {
		if s, ok := d.Context.SectionByAbbrev(ref); ok {
			pub.SectionID = s.ID
		} else {
			sectionIssue = ref
		}
	}

	// Children refer to the publication, so it is stored before them.
	if _, err := d.Store.Publications.Add(ctx, pub); err != nil {
		return nil, errors.Wrap(err, "publication cannot be stored")
	}
	d.MapID(c.kind, oldID, pub.ID)
	if sectionIssue != "" {
		d.Error(c.kind, pub.ID, "unknown section %q", sectionIssue)
	}

	child := Parent{SubmissionID: p.SubmissionID, PublicationID: pub.ID}
	galley := d.element(KindGalley)
	var primaryContact int64
	for _, n := range el.ChildElements() {
		switch n.Tag {
		case "id":
			err := c.parseIdentifier(ctx, d, n, pub.ID, identifiers{
				storedPubID: &pub.StoredPubID,
				pubIDs:      &pub.PubIDs,
				doiID:       &pub.DOIID,
			})
			if err != nil {
				return nil, err
			}
		case "title":
			readLocalized(n, fallback, &pub.Title)
		case "prefix":
			readLocalized(n, fallback, &pub.Prefix)
		case "subtitle":
			readLocalized(n, fallback, &pub.Subtitle)
		case "abstract":
			readLocalized(n, fallback, &pub.Abstract)
		case "coverage":
			readLocalized(n, fallback, &pub.Coverage)
		case "type":
			readLocalized(n, fallback, &pub.Type)
		case "source":
			readLocalized(n, fallback, &pub.Source)
		case "rights":
			readLocalized(n, fallback, &pub.Rights)
		case "copyrightHolder":
			readLocalized(n, fallback, &pub.CopyrightHolder)
		case "licenseUrl":
			pub.LicenseURL = value(n)
		case "copyrightYear":
			pub.CopyrightYear = int(c.textInt(d, pub.ID, n))
		case "pages":
			pub.Pages = value(n)
		case "keywords":
			readVocabulary(n, fallback, &pub.Keywords)
		case "subjects":
			readVocabulary(n, fallback, &pub.Subjects)
		case "disciplines":
			readVocabulary(n, fallback, &pub.Disciplines)
		case "agencies":
			readVocabulary(n, fallback, &pub.Agencies)
		case "citations":
			for _, citation := range n.ChildElements() {
				if v := value(citation); v != "" {
					pub.Citations = append(pub.Citations, v)
				}
			}
		case "authors":
			for _, an := range n.ChildElements() {
				if an.Tag != d.element(KindAuthor) {
					c.unknown(d, pub.ID, n, an)
					continue
				}
				v, err := d.Import(ctx, KindAuthor, an, child)
				if err != nil {
					return nil, err
				}
				if a, ok := v.(*model.Author); ok && attrBool(an, "primary_contact") {
					primaryContact = a.ID
				}
			}
		case galley:
			if _, err := d.Import(ctx, KindGalley, n, child); err != nil {
				return nil, err
			}
		default:
			c.unknown(d, pub.ID, el, n)
		}
	}

	switch newID, ok := d.LookupID(KindAuthor, pub.PrimaryContactID); {
	case ok:
		pub.PrimaryContactID = newID
	case primaryContact != 0:
		pub.PrimaryContactID = primaryContact
	default:
		if pub.PrimaryContactID != 0 {
			d.Warn(c.kind, pub.ID, "primary contact %d is not among the imported authors", pub.PrimaryContactID)
		}
		pub.PrimaryContactID = 0
	}

	if err := d.Store.Publications.Edit(ctx, pub); err != nil {
		return nil, errors.Wrap(err, "publication cannot be updated")
	}
	return pub, nil
}
