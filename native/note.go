package native

import (
	"context"

	"github.com/JiscSD/native-xml-adapter/model"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

type noteCodec struct {
	base
}

var _ Codec = (*noteCodec)(nil)

func newNoteCodec() *noteCodec {
	return &noteCodec{base{kind: KindNote}}
}

func (c *noteCodec) Element() string    { return "note" }
func (c *noteCodec) Collection() string { return "notes" }

func (c *noteCodec) Export(ctx context.Context, d *Deployment, v interface{}) (*etree.Element, error) {
	n, ok := v.(*model.Note)
	if !ok {
		return nil, unexpected(c.kind, v)
	}
	user, err := username(ctx, d, n.UserID)
	if err != nil {
		return nil, err
	}
	if user == "" {
		d.Warn(c.kind, n.ID, "author %d of the note is unknown, note skipped", n.UserID)
		return nil, nil
	}
	el := etree.NewElement(c.Element())
	setAttr(el, "user", user)
	setDate(el, "date_created", n.DateCreated)
	setDate(el, "date_modified", n.DateModified)
	text(el, "title", n.Title)
	el.CreateElement("contents").SetText(n.Contents)
	return el, nil
}

func (c *noteCodec) Import(ctx context.Context, d *Deployment, el *etree.Element, p Parent) (interface{}, error) {
	var storedID int64
	d.hold(c.kind)
	defer func() { d.release(storedID) }()

	userID, ok, err := c.resolveUser(ctx, d, 0, el.SelectAttrValue("user", ""))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	n := &model.Note{
		QueryID:      p.QueryID,
		UserID:       userID,
		DateCreated:  c.attrDate(d, 0, el, "date_created"),
		DateModified: c.attrDate(d, 0, el, "date_modified"),
	}
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "title":
			n.Title = value(child)
		case "contents":
			n.Contents = child.Text()
		default:
			c.unknown(d, 0, el, child)
		}
	}
	if _, err := d.Store.Notes.Add(ctx, n); err != nil {
		return nil, errors.Wrap(err, "note cannot be stored")
	}
	storedID = n.ID
	return n, nil
}
