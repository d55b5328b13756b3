package native

import (
	"context"

	"github.com/JiscSD/native-xml-adapter/model"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

type reviewAssignmentCodec struct {
	base
}

var _ Codec = (*reviewAssignmentCodec)(nil)

func newReviewAssignmentCodec() *reviewAssignmentCodec {
	return &reviewAssignmentCodec{base{kind: KindReviewAssignment}}
}

func (c *reviewAssignmentCodec) Element() string    { return "reviewAssignment" }
func (c *reviewAssignmentCodec) Collection() string { return "reviewAssignments" }

func (c *reviewAssignmentCodec) Export(ctx context.Context, d *Deployment, v interface{}) (*etree.Element, error) {
	a, ok := v.(*model.ReviewAssignment)
	if !ok {
		return nil, unexpected(c.kind, v)
	}
	reviewer, err := username(ctx, d, a.ReviewerID)
	if err != nil {
		return nil, err
	}
	if reviewer == "" {
		d.Warn(c.kind, a.ID, "reviewer %d is unknown, review assignment skipped", a.ReviewerID)
		return nil, nil
	}
	el := etree.NewElement(c.Element())
	setAttr(el, "reviewer", reviewer)
	setInt(el, "method", int64(a.ReviewMethod))
	setNonZero(el, "recommendation", int64(a.Recommendation))
	setAttr(el, "competing_interests", a.CompetingInterests)
	setDate(el, "date_assigned", a.DateAssigned)
	setDate(el, "date_notified", a.DateNotified)
	setDate(el, "date_confirmed", a.DateConfirmed)
	setDate(el, "date_completed", a.DateCompleted)
	setDate(el, "date_due", a.DateDue)
	setDate(el, "date_response_due", a.DateResponseDue)
	setBool(el, "declined", a.Declined)
	setBool(el, "cancelled", a.Cancelled)
	setNonZero(el, "quality", int64(a.Quality))
	setNonZero(el, "considered", int64(a.Considered))
	setNonZero(el, "review_form_id", a.ReviewFormID)
	if len(a.SubmissionFileIDs) > 0 {
		files := el.CreateElement("reviewFiles")
		for _, id := range a.SubmissionFileIDs {
			ref(files, id)
		}
	}
	return el, nil
}

func (c *reviewAssignmentCodec) Import(ctx context.Context, d *Deployment, el *etree.Element, p Parent) (interface{}, error) {
	var storedID int64
	d.hold(c.kind)
	defer func() { d.release(storedID) }()

	name := el.SelectAttrValue("reviewer", "")
	reviewerID, ok, err := c.resolveUser(ctx, d, 0, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	round, err := d.Store.ReviewRounds.Get(ctx, p.ReviewRoundID)
	if err != nil {
		return nil, errors.Wrapf(err, "review round %d cannot be loaded", p.ReviewRoundID)
	}
	a := &model.ReviewAssignment{
		SubmissionID:       p.SubmissionID,
		ReviewRoundID:      round.ID,
		StageID:            round.StageID,
		Round:              round.Round,
		ReviewerID:         reviewerID,
		ReviewMethod:       int(c.attrInt(d, 0, el, "method")),
		Recommendation:     int(c.attrInt(d, 0, el, "recommendation")),
		CompetingInterests: el.SelectAttrValue("competing_interests", ""),
		DateAssigned:       c.attrDate(d, 0, el, "date_assigned"),
		DateNotified:       c.attrDate(d, 0, el, "date_notified"),
		DateConfirmed:      c.attrDate(d, 0, el, "date_confirmed"),
		DateCompleted:      c.attrDate(d, 0, el, "date_completed"),
		DateDue:            c.attrDate(d, 0, el, "date_due"),
		DateResponseDue:    c.attrDate(d, 0, el, "date_response_due"),
		Declined:           attrBool(el, "declined"),
		Cancelled:          attrBool(el, "cancelled"),
		Quality:            int(c.attrInt(d, 0, el, "quality")),
		Considered:         int(c.attrInt(d, 0, el, "considered")),
	}
	var formIssue int64
	if form := c.attrInt(d, 0, el, "review_form_id"); form != 0 {
		if id, ok := d.LookupID(KindReviewForm, form); ok {
			a.ReviewFormID = id
		} else {
			formIssue = form
		}
	}
	var files *etree.Element
	for _, n := range el.ChildElements() {
		switch n.Tag {
		case "reviewFiles":
			files = n
		default:
			c.unknown(d, 0, el, n)
		}
	}
	if files != nil {
		a.SubmissionFileIDs = c.resolveFileRefs(d, 0, files)
	}
	if _, err := d.Store.ReviewAssignments.Add(ctx, a); err != nil {
		return nil, errors.Wrap(err, "review assignment cannot be stored")
	}
	storedID = a.ID
	if formIssue != 0 {
		d.Warn(c.kind, a.ID, "review form %d is not in the document", formIssue)
	}
	return a, nil
}
