package native

import "github.com/pkg/errors"

// Profile selects the element names used by an application flavour.
type Profile string

const (
	ProfileGeneric  Profile = "generic"
	ProfilePreprint Profile = "preprint"
	ProfileArticle  Profile = "article"
)

// ParseProfile validates a profile name; the empty string means generic.
func ParseProfile(name string) (Profile, error) {
	switch p := Profile(name); p {
	case "":
		return ProfileGeneric, nil
	case ProfileGeneric, ProfilePreprint, ProfileArticle:
		return p, nil
	}
	return "", errors.Errorf("unknown profile %q", name)
}

// DefaultCodecs returns one codec per kind with generic element names.
func DefaultCodecs() []Codec {
	return []Codec{
		newSubmissionCodec("submission", "submissions"),
		newPublicationCodec(),
		newAuthorCodec(),
		newGalleyCodec("galley"),
		newSubmissionFileCodec(),
		newReviewRoundCodec(),
		newReviewAssignmentCodec(),
		newReviewFormCodec(),
		newQueryCodec(),
		newNoteCodec(),
		newContextCodec(),
	}
}

// NewProfileRegistry returns the registry of a profile: the default codecs
// with submission and galley element names substituted.
func NewProfileRegistry(p Profile) (*Registry, error) {
	r, err := NewRegistry(DefaultCodecs()...)
	if err != nil {
		return nil, err
	}
	switch p {
	case ProfileGeneric, "":
		return r, nil
	case ProfilePreprint:
		return r.Override(newSubmissionCodec("preprint", "preprints"), newGalleyCodec("preprint_galley"))
	case ProfileArticle:
		return r.Override(newSubmissionCodec("article", "articles"), newGalleyCodec("article_galley"))
	}
	return nil, errors.Errorf("unknown profile %q", p)
}
