package native

import (
	"context"

	"github.com/JiscSD/native-xml-adapter/model"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

type queryCodec struct {
	base
}

var _ Codec = (*queryCodec)(nil)

func newQueryCodec() *queryCodec {
	return &queryCodec{base{kind: KindQuery}}
}

func (c *queryCodec) Element() string    { return "query" }
func (c *queryCodec) Collection() string { return "queries" }

func (c *queryCodec) Export(ctx context.Context, d *Deployment, v interface{}) (*etree.Element, error) {
	q, ok := v.(*model.Query)
	if !ok {
		return nil, unexpected(c.kind, v)
	}
	el := etree.NewElement(c.Element())
	setInt(el, "seq", int64(q.Seq))
	setAttr(el, "stage", q.StageID.String())
	setBool(el, "closed", q.Closed)

	participants := el.CreateElement("participants")
	for _, id := range q.ParticipantIDs {
		name, err := username(ctx, d, id)
		if err != nil {
			return nil, err
		}
		if name == "" {
			d.Warn(c.kind, q.ID, "participant %d is unknown", id)
			continue
		}
		text(participants, "participant", name)
	}

	notes, err := d.Store.Notes.Find(ctx, func(n *model.Note) bool { return n.QueryID == q.ID })
	if err != nil {
		return nil, errors.Wrap(err, "notes cannot be listed")
	}
	wrapper := el.CreateElement(d.collection(KindNote))
	for _, n := range notes {
		if err := appendExport(ctx, d, wrapper, KindNote, n); err != nil {
			return nil, err
		}
	}
	return el, nil
}

func (c *queryCodec) Import(ctx context.Context, d *Deployment, el *etree.Element, p Parent) (interface{}, error) {
	q := &model.Query{
		AssocType: model.AssocTypeSubmission,
		AssocID:   p.SubmissionID,
		Seq:       int(c.attrInt(d, 0, el, "seq")),
		Closed:    attrBool(el, "closed"),
	}
	if name := el.SelectAttrValue("stage", ""); name != "" {
		if stage, ok := model.ParseWorkflowStage(name); ok {
			q.StageID = stage
		} else {
			d.Warn(c.kind, 0, "unknown workflow stage %q", name)
		}
	}

	// Notes refer to the query, so it is stored before them.
	if _, err := d.Store.Queries.Add(ctx, q); err != nil {
		return nil, errors.Wrap(err, "query cannot be stored")
	}
	child := Parent{SubmissionID: p.SubmissionID, QueryID: q.ID}
	for _, n := range el.ChildElements() {
		switch n.Tag {
		case "participants":
			for _, participant := range n.ChildElements() {
				id, ok, err := c.resolveUser(ctx, d, q.ID, value(participant))
				if err != nil {
					return nil, err
				}
				if ok {
					q.ParticipantIDs = append(q.ParticipantIDs, id)
				}
			}
		case d.collection(KindNote):
			if err := importAll(ctx, d, n, KindNote, child); err != nil {
				return nil, err
			}
		default:
			c.unknown(d, q.ID, el, n)
		}
	}
	if err := d.Store.Queries.Edit(ctx, q); err != nil {
		return nil, errors.Wrap(err, "query cannot be updated")
	}
	return q, nil
}
