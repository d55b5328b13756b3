package native

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	t.Run("Every kind served", func(t *testing.T) {
		r, err := NewRegistry(DefaultCodecs()...)
		require.NoError(t, err)
		for _, k := range Kinds {
			c, err := r.Codec(k)
			assert.NoError(t, err)
			assert.Equal(t, k, c.Kind())
		}
	})
	t.Run("Missing codec", func(t *testing.T) {
		codecs := DefaultCodecs()
		_, err := NewRegistry(codecs[1:]...)
		assert.Equal(t, ErrCodecNotRegistered, errors.Cause(err))
	})
	t.Run("Duplicate codec", func(t *testing.T) {
		codecs := append(DefaultCodecs(), newAuthorCodec())
		_, err := NewRegistry(codecs...)
		assert.Equal(t, ErrDuplicateCodec, errors.Cause(err))
	})
	t.Run("Element claimed twice", func(t *testing.T) {
		r, err := NewRegistry(DefaultCodecs()...)
		require.NoError(t, err)
		_, err = r.Override(newGalleyCodec("author"))
		assert.Equal(t, ErrDuplicateCodec, errors.Cause(err))
	})
}

func TestRegistry_Resolve(t *testing.T) {
	r, err := NewRegistry(DefaultCodecs()...)
	require.NoError(t, err)

	tests := []struct {
		key     string
		kind    Kind
		wantErr bool
	}{
		{"native-xml=>author", KindAuthor, false},
		{"author=>native-xml", KindAuthor, false},
		{"native-xml=>submission-file", KindSubmissionFile, false},
		{"review-round=>native-xml", KindReviewRound, false},
		{"native-xml=>representation", KindGalley, false},
		{"native-xml=>native-xml", 0, true},
		{"author=>article", 0, true},
		{"native-xml=>issue", 0, true},
		{"author", 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			c, err := r.Resolve(tc.key)
			if tc.wantErr {
				assert.Equal(t, ErrCodecNotRegistered, errors.Cause(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.kind, c.Kind())
		})
	}
}

func TestGroupKey(t *testing.T) {
	for _, k := range Kinds {
		for _, dir := range []Direction{Import, Export} {
			kind, d, err := ParseGroupKey(GroupKey(k, dir))
			require.NoError(t, err)
			assert.Equal(t, k, kind)
			assert.Equal(t, dir, d)
		}
	}
	assert.Equal(t, "native-xml=>author", GroupKey(KindAuthor, Import))
}

func TestNewProfileRegistry(t *testing.T) {
	tests := []struct {
		profile    Profile
		submission string
		collection string
		galley     string
	}{
		{ProfileGeneric, "submission", "submissions", "galley"},
		{ProfilePreprint, "preprint", "preprints", "preprint_galley"},
		{ProfileArticle, "article", "articles", "article_galley"},
	}
	for _, tc := range tests {
		t.Run(string(tc.profile), func(t *testing.T) {
			r, err := NewProfileRegistry(tc.profile)
			require.NoError(t, err)

			c, collection, ok := r.ByElement(tc.submission)
			require.True(t, ok)
			assert.False(t, collection)
			assert.Equal(t, KindSubmission, c.Kind())

			c, collection, ok = r.ByElement(tc.collection)
			require.True(t, ok)
			assert.True(t, collection)
			assert.Equal(t, KindSubmission, c.Kind())

			c, _, ok = r.ByElement(tc.galley)
			require.True(t, ok)
			assert.Equal(t, KindGalley, c.Kind())
		})
	}

	r, err := NewProfileRegistry(ProfileGeneric)
	require.NoError(t, err)
	_, _, ok := r.ByElement("preprint")
	assert.False(t, ok)

	_, err = ParseProfile("monograph")
	assert.Error(t, err)
	p, err := ParseProfile("")
	assert.NoError(t, err)
	assert.Equal(t, ProfileGeneric, p)
}
