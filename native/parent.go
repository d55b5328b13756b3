package native

import (
	"context"

	"github.com/JiscSD/native-xml-adapter/store"

	"github.com/pkg/errors"
)

// Parent carries the IDs assigned to the enclosing entities of an element.
type Parent struct {
	SubmissionID  int64
	PublicationID int64
	ReviewRoundID int64
	QueryID       int64
}

// requiredParent returns the kind of the enclosing entity that entities of
// kind k cannot be stored without, or zero.
func requiredParent(k Kind) Kind {
	switch k {
	case KindPublication, KindSubmissionFile, KindReviewRound, KindQuery:
		return KindSubmission
	case KindAuthor, KindGalley:
		return KindPublication
	case KindReviewAssignment:
		return KindReviewRound
	case KindNote:
		return KindQuery
	}
	return 0
}

func (p Parent) id(k Kind) int64 {
	switch k {
	case KindSubmission:
		return p.SubmissionID
	case KindPublication:
		return p.PublicationID
	case KindReviewRound:
		return p.ReviewRoundID
	case KindQuery:
		return p.QueryID
	}
	return 0
}

// resolveParent verifies the enclosing entities given for root elements of
// kind k. They must exist in the deployment context and agree on their
// submission, which is filled in when only a nested parent is given.
func (d *Deployment) resolveParent(ctx context.Context, k Kind, p Parent) (Parent, error) {
	owners := []struct {
		kind Kind
		id   int64
		get  func() (int64, error)
	}{
		{KindPublication, p.PublicationID, func() (int64, error) {
			v, err := d.Store.Publications.Get(ctx, p.PublicationID)
			if err != nil {
				return 0, err
			}
			return v.SubmissionID, nil
		}},
		{KindReviewRound, p.ReviewRoundID, func() (int64, error) {
			v, err := d.Store.ReviewRounds.Get(ctx, p.ReviewRoundID)
			if err != nil {
				return 0, err
			}
			return v.SubmissionID, nil
		}},
		{KindQuery, p.QueryID, func() (int64, error) {
			v, err := d.Store.Queries.Get(ctx, p.QueryID)
			if err != nil {
				return 0, err
			}
			return v.AssocID, nil
		}},
	}
	for _, o := range owners {
		if o.id == 0 {
			continue
		}
		submissionID, err := o.get()
		if err != nil {
			return p, parentLookupError(err, o.kind, o.id)
		}
		if p.SubmissionID == 0 {
			p.SubmissionID = submissionID
		} else if p.SubmissionID != submissionID {
			return p, errors.Wrapf(ErrMissingParent, "%s %d does not belong to submission %d", o.kind, o.id, p.SubmissionID)
		}
	}

	if p.SubmissionID != 0 {
		s, err := d.Store.Submissions.Get(ctx, p.SubmissionID)
		if err != nil {
			return p, parentLookupError(err, KindSubmission, p.SubmissionID)
		}
		if s.ContextID != d.Context.ID {
			return p, errors.Wrapf(ErrMissingParent, "submission %d belongs to another context", s.ID)
		}
	}

	if want := requiredParent(k); want != 0 && p.id(want) == 0 {
		return p, errors.Wrapf(ErrMissingParent, "%s needs a %s", k, want)
	}
	return p, nil
}

func parentLookupError(err error, k Kind, id int64) error {
	if errors.Cause(err) == store.ErrNotFound {
		return errors.Wrapf(ErrMissingParent, "%s %d does not exist", k, id)
	}
	return errors.Wrapf(err, "%s %d cannot be loaded", k, id)
}
