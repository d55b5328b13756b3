package native

import (
	"context"

	"github.com/JiscSD/native-xml-adapter/model"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

// galleyCodec handles representations. The element name depends on the
// profile, e.g. <preprint_galley> for preprint servers.
type galleyCodec struct {
	base
	element string
}

var _ Codec = (*galleyCodec)(nil)

func newGalleyCodec(element string) *galleyCodec {
	return &galleyCodec{base: base{kind: KindGalley}, element: element}
}

func (c *galleyCodec) Element() string    { return c.element }
func (c *galleyCodec) Collection() string { return "" }

func (c *galleyCodec) Export(ctx context.Context, d *Deployment, v interface{}) (*etree.Element, error) {
	g, ok := v.(*model.Galley)
	if !ok {
		return nil, unexpected(c.kind, v)
	}
	el := etree.NewElement(c.element)
	setAttr(el, "locale", g.Locale)
	setBool(el, "approved", g.Approved)
	setAttr(el, "url_path", g.URLPath)
	err := c.exportIdentifiers(ctx, d, el, g.ID, identifiers{
		storedPubID: &g.StoredPubID,
		pubIDs:      &g.PubIDs,
		doiID:       &g.DOIID,
	})
	if err != nil {
		return nil, err
	}
	localized(el, "name", g.Label)
	text(el, "seq", int64String(int64(g.Seq)))
	if g.URLRemote != "" {
		el.CreateElement("remote").CreateAttr("src", g.URLRemote)
	}
	if g.SubmissionFileID != 0 {
		ref(el, g.SubmissionFileID)
	}
	return el, nil
}

func (c *galleyCodec) Import(ctx context.Context, d *Deployment, el *etree.Element, p Parent) (interface{}, error) {
	d.hold(c.kind)
	oldID := c.internalID(d, el)
	storedID := oldID
	defer func() { d.release(storedID) }()

	fallback := d.locale(ctx, p)
	g := &model.Galley{
		PublicationID: p.PublicationID,
		Locale:        locale(el, fallback),
		Approved:      attrBool(el, "approved"),
		URLPath:       el.SelectAttrValue("url_path", ""),
	}
	for _, n := range el.ChildElements() {
		switch n.Tag {
		case "id":
			err := c.parseIdentifier(ctx, d, n, oldID, identifiers{
				storedPubID: &g.StoredPubID,
				pubIDs:      &g.PubIDs,
				doiID:       &g.DOIID,
			})
			if err != nil {
				return nil, err
			}
		case "name":
			readLocalized(n, fallback, &g.Label)
		case "seq":
			g.Seq = int(c.textInt(d, oldID, n))
		case "remote":
			g.URLRemote = n.SelectAttrValue("src", "")
		case "submission_file_ref":
			if id, ok := c.resolveFileRef(d, oldID, n); ok {
				g.SubmissionFileID = id
			}
		default:
			c.unknown(d, oldID, el, n)
		}
	}
	if _, err := d.Store.Galleys.Add(ctx, g); err != nil {
		return nil, errors.Wrap(err, "galley cannot be stored")
	}
	storedID = g.ID
	d.MapID(c.kind, oldID, g.ID)
	return g, nil
}
