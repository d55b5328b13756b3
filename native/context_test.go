package native

import (
	"context"
	"strings"
	"testing"

	"github.com/JiscSD/native-xml-adapter/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextCodec_RoundTrip(t *testing.T) {
	ctx := context.Background()
	source := newTestDeployment(t, Options{})
	_, err := source.Store.Users.Add(ctx, &model.User{Username: "editor", Email: "editor@example.org"})
	require.NoError(t, err)

	other := testContext()
	other.Path = "otherjournal"
	other.Name = model.LocalizedString{"en": "Other Journal"}
	doc, err := source.ExportDocument(ctx, KindContext, other)
	require.NoError(t, err)
	blob, err := doc.WriteToString()
	require.NoError(t, err)

	target := newTestDeployment(t, Options{})
	items, err := target.ImportDocument(ctx, strings.NewReader(blob), Parent{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Empty(t, target.Report().Issues())

	got, err := target.Store.ContextByPath(ctx, "otherjournal")
	require.NoError(t, err)
	assert.Equal(t, items[0].(*model.Context).ID, got.ID)
	assert.Equal(t, other.Name, got.Name)
	assert.Equal(t, other.Sections, got.Sections)
	assert.Equal(t, other.Genres, got.Genres)
	assert.Equal(t, other.UserGroups, got.UserGroups)
	assert.Equal(t, other.ContributorRoles, got.ContributorRoles)

	users, err := target.Store.Users.Find(ctx, nil)
	require.NoError(t, err)
	require.Len(t, users, 3, "known usernames are not duplicated")
	assert.Equal(t, "editor", users[2].Username)
	assert.Equal(t, "editor@example.org", users[2].Email)
}

func TestContextCodec_Import(t *testing.T) {
	tests := []struct {
		name     string
		blob     string
		warnings []string
		errors   []string
		created  bool
		sections []model.Section
	}{
		{
			name:     "Existing path",
			blob:     `<context path="publicknowledge"><name locale="en">Renamed</name></context>`,
			warnings: []string{`context "publicknowledge" already exists`},
		},
		{
			name:   "Missing path",
			blob:   `<context primary_locale="en"/>`,
			errors: []string{"context has no path and is skipped"},
		},
		{
			name: "Generated lookup ids",
			blob: `<context path="new">
			  <sections><section abbrev="ED"/><section/><chapter/></sections>
			  <users><user email="nobody@example.org"/></users>
			</context>`,
			warnings: []string{"unknown element <chapter> in <sections>"},
			errors:   []string{"section 2 has no abbreviation and is skipped", "user without username is skipped"},
			created:  true,
			sections: []model.Section{{ID: 1, Abbrev: "ED"}},
		},
		{
			name: "Duplicate lookup ids",
			blob: `<context path="new">
			  <sections><section id="3" abbrev="A"/><section id="3" abbrev="B"/></sections>
			  <genres><genre id="2"/><genre/></genres>
			</context>`,
			errors:   []string{"duplicate section id 3, entry skipped", "duplicate genre id 2, entry skipped"},
			created:  true,
			sections: []model.Section{{ID: 3, Abbrev: "A"}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			d := newTestDeployment(t, Options{})
			v, err := d.Import(ctx, KindContext, parse(t, tc.blob), Parent{})
			require.NoError(t, err)
			assert.Equal(t, tc.warnings, nilIfEmpty(messages(d.Report().Warnings())))
			assert.Equal(t, tc.errors, nilIfEmpty(messages(d.Report().Errors())))

			contexts, err := d.Store.Contexts.Find(ctx, nil)
			require.NoError(t, err)
			if !tc.created {
				assert.Len(t, contexts, 1)
				return
			}
			require.Len(t, contexts, 2)
			m := v.(*model.Context)
			assert.Equal(t, "en", m.PrimaryLocale)
			assert.Equal(t, tc.sections, m.Sections)
			for _, i := range d.Report().Issues() {
				assert.Equal(t, m.ID, i.EntityID, i.Message)
			}
		})
	}
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
