package native

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/JiscSD/native-xml-adapter/internal/testutil"
	"github.com/JiscSD/native-xml-adapter/model"
	"github.com/JiscSD/native-xml-adapter/store"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.Out = io.Discard
	return logger
}

func testContext() *model.Context {
	return &model.Context{
		Path:          "publicknowledge",
		PrimaryLocale: "en",
		Name:          model.LocalizedString{"en": "Journal of Public Knowledge"},
		Sections: []model.Section{
			{ID: 1, Abbrev: "ART", Title: model.LocalizedString{"en": "Articles"}},
		},
		Genres: []model.Genre{
			{ID: 1, Name: model.LocalizedString{"en": "Article Text"}},
			{ID: 2, Name: model.LocalizedString{"en": "Image"}},
		},
		UserGroups: []model.UserGroup{
			{ID: 14, Name: model.LocalizedString{"en": "Author"}, ContributorRole: "AUTHOR"},
			{ID: 15, Name: model.LocalizedString{"en": "Translator"}},
		},
		ContributorRoles: []model.ContributorRole{
			{ID: 1, Identifier: "AUTHOR"},
			{ID: 2, Identifier: "TRANSLATOR"},
		},
	}
}

// newTestDeployment returns a deployment over an in-memory store holding
// the test context and the users admin and reviewer.
func newTestDeployment(t *testing.T, opts Options) *Deployment {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemory()
	c := testContext()
	_, err := st.Contexts.Add(ctx, c)
	require.NoError(t, err)
	for _, name := range []string{"admin", "reviewer"} {
		_, err := st.Users.Add(ctx, &model.User{Username: name, Email: name + "@example.org"})
		require.NoError(t, err)
	}
	reg, err := NewProfileRegistry(ProfileGeneric)
	require.NoError(t, err)
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
	if opts.Files == nil {
		opts.Files = NewFileStore(afero.NewMemMapFs())
	}
	if opts.Fetcher == nil {
		opts.Fetcher = NewFetcher(afero.NewMemMapFs(), nil, opts.Logger)
	}
	d, err := NewDeployment(c, st, reg, opts)
	require.NoError(t, err)
	return d
}

func fixture(t *testing.T, name string) io.Reader {
	t.Helper()
	return bytes.NewReader(testutil.Fixture(t, "native/testdata/"+name))
}

// parse returns the root element of an XML snippet.
func parse(t *testing.T, blob string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(blob))
	require.NotNil(t, doc.Root())
	return doc.Root()
}

func messages(issues []Issue) []string {
	ret := make([]string, 0, len(issues))
	for _, i := range issues {
		ret = append(ret, i.Message)
	}
	return ret
}

// addSubmission stores an empty submission of the deployment context and
// returns its ID.
func addSubmission(t *testing.T, d *Deployment) int64 {
	t.Helper()
	id, err := d.Store.Submissions.Add(context.Background(), &model.Submission{ContextID: d.Context.ID, Locale: "en"})
	require.NoError(t, err)
	return id
}
