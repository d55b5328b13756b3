package native

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/JiscSD/native-xml-adapter/model"
	"github.com/JiscSD/native-xml-adapter/store"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

type submissionFileCodec struct {
	base
}

var _ Codec = (*submissionFileCodec)(nil)

func newSubmissionFileCodec() *submissionFileCodec {
	return &submissionFileCodec{base{kind: KindSubmissionFile}}
}

func (c *submissionFileCodec) Element() string    { return "submission_file" }
func (c *submissionFileCodec) Collection() string { return "submission_files" }

// workflowOnly reports whether files of a stage only travel when the
// deployment includes the editorial workflow.
func workflowOnly(stage model.FileStageEnum) bool {
	switch stage {
	case model.FileStageEnum_query, model.FileStageEnum_note, model.FileStageEnum_reviewAttachment:
		return true
	}
	return false
}

func (c *submissionFileCodec) Export(ctx context.Context, d *Deployment, v interface{}) (*etree.Element, error) {
	sf, ok := v.(*model.SubmissionFile)
	if !ok {
		return nil, unexpected(c.kind, v)
	}
	if !d.IncludeWorkflow && workflowOnly(sf.FileStage) {
		d.Warn(c.kind, sf.ID, "files of stage %s are not exported", sf.FileStage)
		return nil, nil
	}

	var (
		revisions []*model.File
		missing   []string
	)
	for _, id := range sf.Revisions {
		f, err := d.Store.Files.Get(ctx, id)
		if err == store.ErrNotFound {
			missing = append(missing, fmt.Sprintf("revision %d is not stored", id))
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "revision %d cannot be loaded", id)
		}
		if !d.Files.Exists(f.Path) {
			missing = append(missing, fmt.Sprintf("revision %d is missing from %s", id, f.Path))
			continue
		}
		revisions = append(revisions, f)
	}
	if len(revisions) == 0 {
		d.Warn(c.kind, sf.ID, "no locatable revision, submission file skipped: %s", strings.Join(missing, "; "))
		return nil, nil
	}
	for _, msg := range missing {
		d.Warn(c.kind, sf.ID, "%s", msg)
	}

	el := etree.NewElement(c.Element())
	setInt(el, "id", sf.ID)
	setDate(el, "created_at", sf.CreatedAt)
	setAttr(el, "date_created", sf.DateCreated)
	setInt(el, "file_id", sf.FileID)
	setAttr(el, "stage", sf.FileStage.String())
	setDate(el, "updated_at", sf.UpdatedAt)
	setBool(el, "viewable", sf.Viewable)
	setAttr(el, "language", sf.Language)
	setAttr(el, "direct_sales_price", sf.DirectSalesPrice)
	if g, ok := d.Context.Genre(sf.GenreID); ok {
		setAttr(el, "genre", g.Name.Any(d.Context.PrimaryLocale))
	}
	uploader, err := username(ctx, d, sf.UploaderUserID)
	if err != nil {
		return nil, err
	}
	setAttr(el, "uploader", uploader)
	setNonZero(el, "source_submission_file_id", sf.SourceFileID)

	localized(el, "creator", sf.Creator)
	localized(el, "description", sf.Description)
	localized(el, "name", sf.Name)
	localized(el, "publisher", sf.Publisher)
	localized(el, "source", sf.Source)
	localized(el, "sponsor", sf.Sponsor)
	localized(el, "subject", sf.Subject)
	if sf.AssocType == model.AssocTypeSubmissionFile && sf.AssocID != 0 {
		ref(el, sf.AssocID)
	}

	for _, f := range revisions {
		if err := c.exportRevision(d, el, f); err != nil {
			return nil, err
		}
	}
	return el, nil
}

func (c *submissionFileCodec) exportRevision(d *Deployment, parent *etree.Element, f *model.File) error {
	el := parent.CreateElement("file")
	setInt(el, "id", f.ID)
	setInt(el, "filesize", f.Size)
	setAttr(el, "extension", strings.TrimPrefix(path.Ext(f.Path), "."))
	if d.EmbedFiles {
		data, err := d.Files.ReadFile(f.Path)
		if err != nil {
			return errors.Wrapf(err, "revision %d cannot be read", f.ID)
		}
		embed := el.CreateElement("embed")
		embed.CreateAttr("encoding", EncodingBase64)
		embed.SetText(base64Encode(data))
		return nil
	}
	src := f.Path
	if d.ExportBaseURL != "" {
		src = strings.TrimSuffix(d.ExportBaseURL, "/") + "/" + f.Path
	}
	href := el.CreateElement("href")
	href.CreateAttr("src", src)
	setAttr(href, "mime_type", f.MimeType)
	return nil
}

func (c *submissionFileCodec) Import(ctx context.Context, d *Deployment, el *etree.Element, p Parent) (interface{}, error) {
	d.hold(c.kind)
	oldID := c.attrInt(d, 0, el, "id")
	storedID := oldID
	defer func() { d.release(storedID) }()

	stageName := el.SelectAttrValue("stage", "")
	stage, ok := model.ParseFileStage(stageName)
	if !ok {
		d.Error(c.kind, oldID, "unknown file stage %q, submission file skipped", stageName)
		return nil, nil
	}
	if !d.IncludeWorkflow && workflowOnly(stage) {
		d.Warn(c.kind, oldID, "files of stage %s are not imported", stage)
		return nil, nil
	}

	sf := &model.SubmissionFile{
		SubmissionID:     p.SubmissionID,
		FileStage:        stage,
		Viewable:         attrBool(el, "viewable"),
		CreatedAt:        c.attrDate(d, oldID, el, "created_at"),
		UpdatedAt:        c.attrDate(d, oldID, el, "updated_at"),
		DateCreated:      el.SelectAttrValue("date_created", ""),
		Language:         el.SelectAttrValue("language", ""),
		DirectSalesPrice: el.SelectAttrValue("direct_sales_price", ""),
	}
	if sf.CreatedAt.IsZero() {
		sf.CreatedAt = d.now()
	}
	if sf.UpdatedAt.IsZero() {
		sf.UpdatedAt = sf.CreatedAt
	}
	if source := c.attrInt(d, oldID, el, "source_submission_file_id"); source != 0 {
		if id, ok := d.LookupID(c.kind, source); ok {
			sf.SourceFileID = id
		}
	}
	if name := el.SelectAttrValue("genre", ""); name != "" {
		if g, ok := d.Context.GenreByName(name); ok {
			sf.GenreID = g.ID
		} else {
			d.Error(c.kind, oldID, "unknown genre %q", name)
		}
	}
	if name := el.SelectAttrValue("uploader", ""); name != "" {
		id, ok, err := c.resolveUser(ctx, d, oldID, name)
		if err != nil {
			return nil, err
		}
		if ok {
			sf.UploaderUserID = id
		}
	}

	fallback := d.locale(ctx, p)
	revisions := map[int64]int64{}
	var failures []string
	for _, n := range el.ChildElements() {
		switch n.Tag {
		case "creator":
			readLocalized(n, fallback, &sf.Creator)
		case "description":
			readLocalized(n, fallback, &sf.Description)
		case "name":
			readLocalized(n, fallback, &sf.Name)
		case "publisher":
			readLocalized(n, fallback, &sf.Publisher)
		case "source":
			readLocalized(n, fallback, &sf.Source)
		case "sponsor":
			readLocalized(n, fallback, &sf.Sponsor)
		case "subject":
			readLocalized(n, fallback, &sf.Subject)
		case "submission_file_ref":
			if id, ok := c.resolveFileRef(d, oldID, n); ok {
				sf.AssocType = model.AssocTypeSubmissionFile
				sf.AssocID = id
			}
		case "file":
			revision := c.attrInt(d, oldID, n, "id")
			f, reason, err := d.materialize(ctx, n, revision, oldID, p.SubmissionID)
			if err != nil {
				return nil, err
			}
			if f == nil {
				failures = append(failures, fmt.Sprintf("revision %d: %s", revision, reason))
				continue
			}
			sf.Revisions = append(sf.Revisions, f.ID)
			revisions[revision] = f.ID
		default:
			c.unknown(d, oldID, el, n)
		}
	}

	if len(sf.Revisions) == 0 {
		d.Warn(c.kind, oldID, "no locatable revision, submission file skipped: %s", strings.Join(failures, "; "))
		return nil, nil
	}
	for _, msg := range failures {
		d.Warn(c.kind, oldID, "%s", msg)
	}

	current := c.attrInt(d, oldID, el, "file_id")
	if id, ok := revisions[current]; ok {
		sf.FileID = id
	} else {
		sf.FileID = sf.Revisions[len(sf.Revisions)-1]
		if current != 0 {
			d.Warn(c.kind, oldID, "current revision %d was not imported, the latest imported revision is used", current)
		}
	}

	if _, err := d.Store.SubmissionFiles.Add(ctx, sf); err != nil {
		return nil, errors.Wrap(err, "submission file cannot be stored")
	}
	storedID = sf.ID
	d.MapID(c.kind, oldID, sf.ID)
	return sf, nil
}
