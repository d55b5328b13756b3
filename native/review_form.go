package native

import (
	"context"

	"github.com/JiscSD/native-xml-adapter/model"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

type reviewFormCodec struct {
	base
}

var _ Codec = (*reviewFormCodec)(nil)

func newReviewFormCodec() *reviewFormCodec {
	return &reviewFormCodec{base{kind: KindReviewForm}}
}

func (c *reviewFormCodec) Element() string    { return "reviewForm" }
func (c *reviewFormCodec) Collection() string { return "reviewForms" }

func (c *reviewFormCodec) Export(ctx context.Context, d *Deployment, v interface{}) (*etree.Element, error) {
	f, ok := v.(*model.ReviewForm)
	if !ok {
		return nil, unexpected(c.kind, v)
	}
	el := etree.NewElement(c.Element())
	setInt(el, "id", f.ID)
	setInt(el, "seq", int64(f.Seq))
	setBool(el, "is_active", f.Active)
	localized(el, "title", f.Title)
	localized(el, "description", f.Description)
	if len(f.Elements) == 0 {
		return el, nil
	}
	elements := el.CreateElement("reviewFormElements")
	for _, item := range f.Elements {
		n := elements.CreateElement("reviewFormElement")
		setInt(n, "seq", int64(item.Seq))
		setInt(n, "element_type", int64(item.ElementType))
		setBool(n, "required", item.Required)
		setBool(n, "included", item.Included)
		localized(n, "question", item.Question)
		localized(n, "description", item.Description)
		if len(item.PossibleResponses) == 0 {
			continue
		}
		responses := n.CreateElement("possibleResponses")
		for i, response := range item.PossibleResponses {
			for _, l := range response.Locales() {
				r := responses.CreateElement("possibleResponse")
				setInt(r, "order", int64(i+1))
				r.CreateAttr("locale", l)
				r.SetText(response[l])
			}
		}
	}
	return el, nil
}

func (c *reviewFormCodec) Import(ctx context.Context, d *Deployment, el *etree.Element, p Parent) (interface{}, error) {
	oldID := c.attrInt(d, 0, el, "id")
	fallback := d.Context.PrimaryLocale
	f := &model.ReviewForm{
		ContextID: d.Context.ID,
		Seq:       int(c.attrInt(d, oldID, el, "seq")),
		Active:    attrBool(el, "is_active"),
	}
	if _, err := d.Store.ReviewForms.Add(ctx, f); err != nil {
		return nil, errors.Wrap(err, "review form cannot be stored")
	}
	d.MapID(c.kind, oldID, f.ID)
	for _, n := range el.ChildElements() {
		switch n.Tag {
		case "title":
			readLocalized(n, fallback, &f.Title)
		case "description":
			readLocalized(n, fallback, &f.Description)
		case "reviewFormElements":
			for _, item := range n.ChildElements() {
				if item.Tag != "reviewFormElement" {
					c.unknown(d, f.ID, n, item)
					continue
				}
				f.Elements = append(f.Elements, c.importElement(d, f.ID, item, fallback))
			}
		default:
			c.unknown(d, f.ID, el, n)
		}
	}
	if err := d.Store.ReviewForms.Edit(ctx, f); err != nil {
		return nil, errors.Wrap(err, "review form cannot be updated")
	}
	return f, nil
}

func (c *reviewFormCodec) importElement(d *Deployment, formID int64, el *etree.Element, fallback string) model.ReviewFormElement {
	item := model.ReviewFormElement{
		Seq:         int(c.attrInt(d, formID, el, "seq")),
		ElementType: int(c.attrInt(d, formID, el, "element_type")),
		Required:    attrBool(el, "required"),
		Included:    attrBool(el, "included"),
	}
	for _, n := range el.ChildElements() {
		switch n.Tag {
		case "question":
			readLocalized(n, fallback, &item.Question)
		case "description":
			readLocalized(n, fallback, &item.Description)
		case "possibleResponses":
			for _, r := range n.ChildElements() {
				order := int(c.attrInt(d, formID, r, "order"))
				if order <= 0 {
					order = len(item.PossibleResponses) + 1
				}
				for len(item.PossibleResponses) < order {
					item.PossibleResponses = append(item.PossibleResponses, model.LocalizedString{})
				}
				readLocalized(r, fallback, &item.PossibleResponses[order-1])
			}
		default:
			c.unknown(d, formID, el, n)
		}
	}
	return item
}
