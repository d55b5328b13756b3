package native

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JiscSD/native-xml-adapter/model"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionFileCodec_ImportSkipsMissingRevision(t *testing.T) {
	ctx := context.Background()
	d := newTestDeployment(t, Options{ImportDir: "/import"})
	submissionID := addSubmission(t, d)

	items, err := d.ImportDocument(ctx, fixture(t, "submission_file_revisions.xml"), Parent{SubmissionID: submissionID})
	require.NoError(t, err)
	require.Len(t, items, 1)
	sf := items[0].(*model.SubmissionFile)

	require.Len(t, sf.Revisions, 1)
	assert.Equal(t, sf.Revisions[0], sf.FileID)
	assert.Equal(t, submissionID, sf.SubmissionID)
	assert.Equal(t, model.FileStageEnum_submission, sf.FileStage)
	assert.Equal(t, int64(1), sf.GenreID)
	assert.Equal(t, int64(1), sf.UploaderUserID)
	assert.True(t, sf.Viewable)
	assert.Equal(t, "manuscript.txt", sf.Name.Get("en"))

	warnings := d.Report().Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, sf.ID, warnings[0].EntityID)
	assert.Contains(t, warnings[0].Message, "revision 40")
	assert.Empty(t, d.Report().Errors())

	f, err := d.Store.Files.Get(ctx, sf.FileID)
	require.NoError(t, err)
	assert.Equal(t, int64(11), f.Size)
	assert.True(t, strings.HasPrefix(f.Path, fmt.Sprintf("contexts/1/submissions/%d/", submissionID)))
	assert.True(t, strings.HasSuffix(f.Path, ".txt"))
	data, err := d.Files.ReadFile(f.Path)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))

	newID, ok := d.LookupID(KindSubmissionFile, 31)
	assert.True(t, ok)
	assert.Equal(t, sf.ID, newID)
	newFileID, ok := d.LookupFileID(41)
	assert.True(t, ok)
	assert.Equal(t, sf.FileID, newFileID)
}

func TestSubmissionFileCodec_ImportWithoutLocatableRevision(t *testing.T) {
	ctx := context.Background()
	d := newTestDeployment(t, Options{ImportDir: "/import"})

	items, err := d.ImportDocument(ctx, fixture(t, "submission_file_unlocatable.xml"), Parent{SubmissionID: addSubmission(t, d)})
	require.NoError(t, err)
	assert.Empty(t, items)

	warnings := d.Report().Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, KindSubmissionFile, warnings[0].Kind)
	assert.Equal(t, int64(32), warnings[0].EntityID)

	files, err := d.Store.SubmissionFiles.Find(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, files)
	revisions, err := d.Store.Files.Find(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, revisions)
	leftovers, err := afero.ReadDir(d.Files.Fs(), tempDir)
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestSubmissionFileCodec_ImportSources(t *testing.T) {
	pdf := []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/article.pdf":
			w.Write(pdf)
		case "/empty.pdf":
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	source := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(source, "/import/local/figure.png", []byte("\x89PNG\r\n\x1a\nrest"), 0o644))
	require.NoError(t, afero.WriteFile(source, "/data/absolute.txt", []byte("absolute"), 0o644))

	tests := []struct {
		name      string
		file      string
		revisions int
		mimeType  string
		warnings  int
	}{
		{
			name:      "Remote",
			file:      fmt.Sprintf(`<file id="1" filesize="%d"><href src="%s/article.pdf" mime_type="application/pdf"/></file>`, len(pdf), server.URL),
			revisions: 1,
			mimeType:  "application/pdf",
		},
		{
			name:      "Remote not found",
			file:      fmt.Sprintf(`<file id="1"><href src="%s/missing.pdf"/></file>`, server.URL),
			revisions: 0,
			warnings:  1,
		},
		{
			name:      "Remote empty",
			file:      fmt.Sprintf(`<file id="1"><href src="%s/empty.pdf"/></file>`, server.URL),
			revisions: 0,
			warnings:  1,
		},
		{
			name:      "Relative path sniffed",
			file:      `<file id="1"><href src="local/figure.png"/></file>`,
			revisions: 1,
			mimeType:  "image/png",
		},
		{
			name:      "Absolute path",
			file:      `<file id="1" extension="txt"><href src="/data/absolute.txt" mime_type="text/plain"/></file>`,
			revisions: 1,
			mimeType:  "text/plain",
		},
		{
			name:      "Size mismatch",
			file:      `<file id="1" filesize="999"><embed encoding="base64">aGVsbG8=</embed></file>`,
			revisions: 1,
			mimeType:  "text/plain",
			warnings:  1,
		},
		{
			name:      "Undecodable embed",
			file:      `<file id="1"><embed encoding="base64">***</embed></file>`,
			revisions: 0,
			warnings:  1,
		},
		{
			name:      "No source",
			file:      `<file id="1"/>`,
			revisions: 0,
			warnings:  1,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			fetcher := NewFetcher(source, nil, discardLogger())
			fetcher.HTTPClient = server.Client()
			fetcher.Retries = 0
			d := newTestDeployment(t, Options{ImportDir: "/import", Fetcher: fetcher})

			el := parse(t, `<submission_file id="9" stage="proof">`+tc.file+`</submission_file>`)
			v, err := newSubmissionFileCodec().Import(ctx, d, el, Parent{SubmissionID: 1})
			require.NoError(t, err)
			assert.Len(t, d.Report().Warnings(), tc.warnings, "%v", messages(d.Report().Issues()))
			if tc.revisions == 0 {
				assert.Nil(t, v)
				return
			}
			sf := v.(*model.SubmissionFile)
			require.Len(t, sf.Revisions, tc.revisions)
			f, err := d.Store.Files.Get(ctx, sf.FileID)
			require.NoError(t, err)
			assert.Equal(t, tc.mimeType, f.MimeType)
			assert.True(t, d.Files.Exists(f.Path))
		})
	}
}

func TestSubmissionFileCodec_ImportUnsupportedEncoding(t *testing.T) {
	d := newTestDeployment(t, Options{})
	el := parse(t, `<submission_file id="9" stage="proof"><file id="1"><embed encoding="hex">68656c6c6f</embed></file></submission_file>`)

	_, err := newSubmissionFileCodec().Import(context.Background(), d, el, Parent{SubmissionID: 1})
	assert.Equal(t, ErrUnsupportedEncoding, errors.Cause(err))
}

func TestSubmissionFileCodec_ImportStages(t *testing.T) {
	tests := []struct {
		stage    string
		workflow bool
		imported bool
		issues   int
	}{
		{"submission", false, true, 0},
		{"query", false, false, 1},
		{"query", true, true, 0},
		{"review_attachment", false, false, 1},
		{"galley", false, false, 1},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("%s/%v", tc.stage, tc.workflow), func(t *testing.T) {
			d := newTestDeployment(t, Options{IncludeWorkflow: tc.workflow})
			el := parse(t, `<submission_file id="9" stage="`+tc.stage+`"><file id="1"><embed encoding="base64">aGVsbG8=</embed></file></submission_file>`)
			v, err := newSubmissionFileCodec().Import(context.Background(), d, el, Parent{SubmissionID: 1})
			require.NoError(t, err)
			assert.Equal(t, tc.imported, v != nil)
			assert.Len(t, d.Report().Issues(), tc.issues)
		})
	}
}

func TestSubmissionFileCodec_ImportDependentFile(t *testing.T) {
	ctx := context.Background()
	d := newTestDeployment(t, Options{})
	c := newSubmissionFileCodec()

	parent, err := c.Import(ctx, d, parse(t, `<submission_file id="9" stage="proof"><file id="1"><embed encoding="base64">PGh0bWw+PC9odG1sPg==</embed></file></submission_file>`), Parent{SubmissionID: 1})
	require.NoError(t, err)
	child, err := c.Import(ctx, d, parse(t, `<submission_file id="10" stage="dependent"><submission_file_ref id="9"/><file id="2"><embed encoding="base64">aGVsbG8=</embed></file></submission_file>`), Parent{SubmissionID: 1})
	require.NoError(t, err)

	dependent := child.(*model.SubmissionFile)
	assert.Equal(t, model.AssocTypeSubmissionFile, dependent.AssocType)
	assert.Equal(t, parent.(*model.SubmissionFile).ID, dependent.AssocID)

	_, err = c.Import(ctx, d, parse(t, `<submission_file id="11" stage="dependent"><submission_file_ref id="404"/><file id="3"><embed encoding="base64">aGVsbG8=</embed></file></submission_file>`), Parent{SubmissionID: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"unknown submission file reference 404"}, messages(d.Report().Errors()))
}

func TestSubmissionFileCodec_ExportMissingRevision(t *testing.T) {
	ctx := context.Background()
	d := newTestDeployment(t, Options{})
	f := &model.File{Path: "contexts/1/submissions/1/gone.pdf", MimeType: "application/pdf", Size: 10}
	_, err := d.Store.Files.Add(ctx, f)
	require.NoError(t, err)
	sf := &model.SubmissionFile{SubmissionID: 1, FileID: f.ID, Revisions: []int64{f.ID}, FileStage: model.FileStageEnum_submission}
	_, err = d.Store.SubmissionFiles.Add(ctx, sf)
	require.NoError(t, err)

	el, err := d.Export(ctx, KindSubmissionFile, sf)
	require.NoError(t, err)
	assert.Nil(t, el)

	warnings := d.Report().Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, sf.ID, warnings[0].EntityID)
}

func TestSubmissionFileCodec_Export(t *testing.T) {
	ctx := context.Background()
	d := newTestDeployment(t, Options{ExportBaseURL: "https://files.example.org/"})
	require.NoError(t, afero.WriteFile(d.Files.Fs(), "contexts/1/submissions/1/a.pdf", []byte("%PDF-1.4"), 0o644))

	kept := &model.File{Path: "contexts/1/submissions/1/a.pdf", MimeType: "application/pdf", Size: 8}
	gone := &model.File{Path: "contexts/1/submissions/1/b.pdf", MimeType: "application/pdf", Size: 8}
	for _, f := range []*model.File{gone, kept} {
		_, err := d.Store.Files.Add(ctx, f)
		require.NoError(t, err)
	}
	sf := &model.SubmissionFile{
		SubmissionID:   1,
		FileID:         kept.ID,
		Revisions:      []int64{gone.ID, kept.ID},
		FileStage:      model.FileStageEnum_proof,
		GenreID:        2,
		UploaderUserID: 1,
		Viewable:       true,
		Name:           model.LocalizedString{"en": "a.pdf"},
	}
	_, err := d.Store.SubmissionFiles.Add(ctx, sf)
	require.NoError(t, err)

	el, err := d.Export(ctx, KindSubmissionFile, sf)
	require.NoError(t, err)
	require.NotNil(t, el)

	assert.Equal(t, "proof", el.SelectAttrValue("stage", ""))
	assert.Equal(t, "Image", el.SelectAttrValue("genre", ""))
	assert.Equal(t, "admin", el.SelectAttrValue("uploader", ""))
	assert.Equal(t, "true", el.SelectAttrValue("viewable", ""))
	files := el.SelectElements("file")
	require.Len(t, files, 1)
	assert.Equal(t, "pdf", files[0].SelectAttrValue("extension", ""))
	href := files[0].SelectElement("href")
	require.NotNil(t, href)
	assert.Equal(t, "https://files.example.org/contexts/1/submissions/1/a.pdf", href.SelectAttrValue("src", ""))
	assert.Equal(t, "application/pdf", href.SelectAttrValue("mime_type", ""))
	assert.Len(t, d.Report().Warnings(), 1)
}

func TestSubmissionFileCodec_ImportMalformedRevisionID(t *testing.T) {
	ctx := context.Background()
	d := newTestDeployment(t, Options{})

	v, err := newSubmissionFileCodec().Import(ctx, d, parse(t, `<submission_file id="12" stage="submission"><file id="x1"><embed encoding="base64">aGVsbG8=</embed></file></submission_file>`), Parent{SubmissionID: 1})
	require.NoError(t, err)
	sf := v.(*model.SubmissionFile)

	warnings := d.Report().Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, `attribute id of <file> is not a number: "x1"`, warnings[0].Message)
	assert.Equal(t, sf.ID, warnings[0].EntityID)
}
