package native

import (
	"context"

	"github.com/JiscSD/native-xml-adapter/model"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

type reviewRoundCodec struct {
	base
}

var _ Codec = (*reviewRoundCodec)(nil)

func newReviewRoundCodec() *reviewRoundCodec {
	return &reviewRoundCodec{base{kind: KindReviewRound}}
}

func (c *reviewRoundCodec) Element() string    { return "reviewRound" }
func (c *reviewRoundCodec) Collection() string { return "reviewRounds" }

func (c *reviewRoundCodec) Export(ctx context.Context, d *Deployment, v interface{}) (*etree.Element, error) {
	r, ok := v.(*model.ReviewRound)
	if !ok {
		return nil, unexpected(c.kind, v)
	}
	el := etree.NewElement(c.Element())
	setAttr(el, "stage", r.StageID.String())
	setInt(el, "round", int64(r.Round))
	setInt(el, "status", int64(r.Status))

	if len(r.FileIDs) > 0 {
		files := el.CreateElement("reviewRoundFiles")
		for _, id := range r.FileIDs {
			ref(files, id)
		}
	}

	assignments, err := d.Store.ReviewAssignments.Find(ctx, func(a *model.ReviewAssignment) bool {
		return a.ReviewRoundID == r.ID
	})
	if err != nil {
		return nil, errors.Wrap(err, "review assignments cannot be listed")
	}
	if len(assignments) > 0 {
		wrapper := el.CreateElement(d.collection(KindReviewAssignment))
		for _, a := range assignments {
			if err := appendExport(ctx, d, wrapper, KindReviewAssignment, a); err != nil {
				return nil, err
			}
		}
	}
	return el, nil
}

func (c *reviewRoundCodec) Import(ctx context.Context, d *Deployment, el *etree.Element, p Parent) (interface{}, error) {
	r := &model.ReviewRound{
		SubmissionID: p.SubmissionID,
		Round:        int(c.attrInt(d, 0, el, "round")),
		Status:       int(c.attrInt(d, 0, el, "status")),
	}
	name := el.SelectAttrValue("stage", "")
	stage, ok := model.ParseWorkflowStage(name)
	if !ok || !stage.IsReview() {
		d.Error(c.kind, 0, "review round has an invalid stage %q and is skipped", name)
		return nil, nil
	}
	r.StageID = stage
	if r.Round == 0 {
		r.Round = 1
	}

	// Assignments refer to the round, so it is stored before them.
	if _, err := d.Store.ReviewRounds.Add(ctx, r); err != nil {
		return nil, errors.Wrap(err, "review round cannot be stored")
	}
	child := Parent{SubmissionID: p.SubmissionID, ReviewRoundID: r.ID}
	for _, n := range el.ChildElements() {
		switch n.Tag {
		case "reviewRoundFiles":
			r.FileIDs = append(r.FileIDs, c.resolveFileRefs(d, r.ID, n)...)
		case d.collection(KindReviewAssignment):
			if err := importAll(ctx, d, n, KindReviewAssignment, child); err != nil {
				return nil, err
			}
		default:
			c.unknown(d, r.ID, el, n)
		}
	}
	if err := d.Store.ReviewRounds.Edit(ctx, r); err != nil {
		return nil, errors.Wrap(err, "review round cannot be updated")
	}
	return r, nil
}
