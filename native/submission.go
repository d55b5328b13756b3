package native

import (
	"context"

	"github.com/JiscSD/native-xml-adapter/model"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// submissionCodec handles the root entity. Profiles rename its element,
// e.g. <preprint> or <article>.
type submissionCodec struct {
	base
	element    string
	collection string
}

var _ Codec = (*submissionCodec)(nil)

func newSubmissionCodec(element, collection string) *submissionCodec {
	return &submissionCodec{base: base{kind: KindSubmission}, element: element, collection: collection}
}

func (c *submissionCodec) Element() string    { return c.element }
func (c *submissionCodec) Collection() string { return c.collection }

func (c *submissionCodec) Export(ctx context.Context, d *Deployment, v interface{}) (*etree.Element, error) {
	s, ok := v.(*model.Submission)
	if !ok {
		return nil, unexpected(c.kind, v)
	}
	d.logger.WithFields(logrus.Fields{"kind": c.kind, "id": s.ID}).Debug("Exporting submission.")
	el := etree.NewElement(c.element)
	setAttr(el, "locale", s.Locale)
	setDate(el, "date_submitted", s.DateSubmitted)
	setInt(el, "status", int64(s.Status))
	setAttr(el, "submission_progress", s.SubmissionProgress)
	setNonZero(el, "current_publication_id", s.CurrentPublicationID)
	setAttr(el, "stage", s.StageID.String())
	setInternal(el, s.ID)

	files, err := d.Store.SubmissionFiles.Find(ctx, func(f *model.SubmissionFile) bool { return f.SubmissionID == s.ID })
	if err != nil {
		return nil, errors.Wrap(err, "submission files cannot be listed")
	}
	for _, f := range files {
		if err := appendExport(ctx, d, el, KindSubmissionFile, f); err != nil {
			return nil, err
		}
	}

	pubs, err := d.Store.Publications.Find(ctx, func(p *model.Publication) bool { return p.SubmissionID == s.ID })
	if err != nil {
		return nil, errors.Wrap(err, "publications cannot be listed")
	}
	for _, p := range pubs {
		if err := appendExport(ctx, d, el, KindPublication, p); err != nil {
			return nil, err
		}
	}

	if !d.IncludeWorkflow {
		return el, nil
	}

	rounds, err := d.Store.ReviewRounds.Find(ctx, func(r *model.ReviewRound) bool { return r.SubmissionID == s.ID })
	if err != nil {
		return nil, errors.Wrap(err, "review rounds cannot be listed")
	}
	if len(rounds) > 0 {
		wrapper := el.CreateElement(d.collection(KindReviewRound))
		for _, r := range rounds {
			if err := appendExport(ctx, d, wrapper, KindReviewRound, r); err != nil {
				return nil, err
			}
		}
	}

	queries, err := d.Store.Queries.Find(ctx, func(q *model.Query) bool {
		return q.AssocType == model.AssocTypeSubmission && q.AssocID == s.ID
	})
	if err != nil {
		return nil, errors.Wrap(err, "queries cannot be listed")
	}
	bySeq(queries, func(q *model.Query) int { return q.Seq })
	if len(queries) > 0 {
		wrapper := el.CreateElement(d.collection(KindQuery))
		for _, q := range queries {
			if err := appendExport(ctx, d, wrapper, KindQuery, q); err != nil {
				return nil, err
			}
		}
	}
	return el, nil
}

// appendExport exports v and appends the result to parent unless the
// entity was dropped.
func appendExport(ctx context.Context, d *Deployment, parent *etree.Element, k Kind, v interface{}) error {
	child, err := d.Export(ctx, k, v)
	if err != nil {
		return err
	}
	if child != nil {
		parent.AddChild(child)
	}
	return nil
}

// Import stores a shell submission, imports its children in document
// order and then resolves the current publication, which the document
// refers to by its old ID.
func (c *submissionCodec) Import(ctx context.Context, d *Deployment, el *etree.Element, p Parent) (interface{}, error) {
	s := &model.Submission{
		ContextID:            d.Context.ID,
		Locale:               el.SelectAttrValue("locale", d.Context.PrimaryLocale),
		DateSubmitted:        c.attrDate(d, 0, el, "date_submitted"),
		Status:               int(c.attrInt(d, 0, el, "status")),
		SubmissionProgress:   el.SelectAttrValue("submission_progress", ""),
		CurrentPublicationID: c.attrInt(d, 0, el, "current_publication_id"),
		StageID:              model.WorkflowStageEnum_submission,
	}
	if s.Status == 0 {
		s.Status = model.StatusQueued
	}
	if name := el.SelectAttrValue("stage", ""); name != "" {
		if stage, ok := model.ParseWorkflowStage(name); ok {
			s.StageID = stage
		} else {
			d.Warn(c.kind, 0, "unknown workflow stage %q", name)
		}
	}
	s.DateLastActivity = d.now()
	if _, err := d.Store.Submissions.Add(ctx, s); err != nil {
		return nil, errors.Wrap(err, "submission cannot be stored")
	}
	d.MapID(c.kind, c.internalID(d, el), s.ID)
	logger := d.logger.WithFields(logrus.Fields{"kind": c.kind, "id": s.ID})
	logger.Debug("Importing submission.")

	child := Parent{SubmissionID: s.ID}
	var publications []int64
	for _, n := range el.ChildElements() {
		switch n.Tag {
		case "id":
			// Submissions carry no public identifiers.
		case d.element(KindSubmissionFile):
			if _, err := d.Import(ctx, KindSubmissionFile, n, child); err != nil {
				return nil, err
			}
		case d.element(KindPublication):
			v, err := d.Import(ctx, KindPublication, n, child)
			if err != nil {
				return nil, err
			}
			if pub, ok := v.(*model.Publication); ok {
				publications = append(publications, pub.ID)
			}
		case d.collection(KindReviewRound):
			if err := importAll(ctx, d, n, KindReviewRound, child); err != nil {
				return nil, err
			}
		case d.collection(KindQuery):
			if err := importAll(ctx, d, n, KindQuery, child); err != nil {
				return nil, err
			}
		default:
			c.unknown(d, s.ID, el, n)
		}
	}

	stored, err := d.Store.Submissions.Get(ctx, s.ID)
	if err != nil {
		return nil, errors.Wrap(err, "submission cannot be reloaded")
	}
	s = stored
	if newID, ok := d.LookupID(KindPublication, s.CurrentPublicationID); ok {
		s.CurrentPublicationID = newID
	} else {
		if s.CurrentPublicationID != 0 {
			d.Warn(c.kind, s.ID, "current publication %d is not in the document", s.CurrentPublicationID)
		}
		s.CurrentPublicationID = 0
		if n := len(publications); n > 0 {
			s.CurrentPublicationID = publications[n-1]
		}
	}
	if len(publications) == 0 {
		d.Error(c.kind, s.ID, "submission has no publication")
	}
	if err := d.Store.Submissions.Edit(ctx, s); err != nil {
		return nil, errors.Wrap(err, "submission cannot be updated")
	}

	if err := c.ensureReviewRound(ctx, d, s); err != nil {
		return nil, err
	}
	d.submissions = append(d.submissions, s.ID)
	return s, nil
}

// ensureReviewRound opens the first round of a submission imported into a
// review stage without rounds of its own.
func (c *submissionCodec) ensureReviewRound(ctx context.Context, d *Deployment, s *model.Submission) error {
	if !s.StageID.IsReview() {
		return nil
	}
	rounds, err := d.Store.ReviewRounds.Find(ctx, func(r *model.ReviewRound) bool {
		return r.SubmissionID == s.ID && r.StageID == s.StageID
	})
	if err != nil {
		return errors.Wrap(err, "review rounds cannot be listed")
	}
	if len(rounds) > 0 {
		return nil
	}
	_, err = d.Store.ReviewRounds.Add(ctx, &model.ReviewRound{
		SubmissionID: s.ID,
		StageID:      s.StageID,
		Round:        1,
		Status:       model.ReviewRoundStatusPendingReviewers,
	})
	return errors.Wrap(err, "review round cannot be stored")
}

// importAll imports every child of a collection wrapper.
func importAll(ctx context.Context, d *Deployment, wrapper *etree.Element, k Kind, p Parent) error {
	element := d.element(k)
	for _, n := range wrapper.ChildElements() {
		if n.Tag != element {
			d.Warn(k, 0, "unknown element <%s> in <%s>", n.Tag, wrapper.Tag)
			continue
		}
		if _, err := d.Import(ctx, k, n, p); err != nil {
			return err
		}
	}
	return nil
}
