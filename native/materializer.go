package native

import (
	"context"
	"encoding/base64"
	"io"
	"strings"

	"github.com/JiscSD/native-xml-adapter/model"

	"github.com/beevik/etree"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// EncodingBase64 is the only supported encoding of <embed> payloads.
const EncodingBase64 = "base64"

// payload describes the content of a revision after source selection.
type payload struct {
	size     int64
	mimeType string
}

// materialize stores the revision oldID described by a <file> element of
// the submission file sfID. A revision that cannot be located yields a reason
// and no file; the caller decides how to report it. Only an unsupported
// embed encoding or a storage failure is returned as an error.
func (d *Deployment) materialize(ctx context.Context, el *etree.Element, oldID, sfID, submissionID int64) (*model.File, string, error) {
	b := base{kind: KindSubmissionFile}

	tmp, err := d.Files.TempFile()
	if err != nil {
		return nil, "", err
	}
	committed := false
	defer func() {
		if !committed {
			d.Files.Discard(tmp)
		}
	}()

	p, reason, err := d.selectSource(ctx, el, tmp)
	if err != nil || reason != "" {
		return nil, reason, err
	}

	if declared := b.attrInt(d, sfID, el, "filesize"); declared != 0 && declared != p.size {
		d.Warn(KindSubmissionFile, sfID, "revision %d: declared size %d differs from actual size %d", oldID, declared, p.size)
	}
	ext := el.SelectAttrValue("extension", "")
	if ext == "" {
		if mt := mimetype.Lookup(p.mimeType); mt != nil {
			ext = mt.Extension()
		}
	}

	if err := tmp.Close(); err != nil {
		return nil, "", errors.Wrap(err, "temporary file cannot be closed")
	}
	path, err := d.Files.Commit(tmp.Name(), d.Context.ID, submissionID, ext)
	if err != nil {
		return nil, "", err
	}
	committed = true

	file := &model.File{Path: path, MimeType: p.mimeType, Size: p.size}
	if _, err := d.Store.Files.Add(ctx, file); err != nil {
		return nil, "", errors.Wrap(err, "file cannot be stored")
	}
	d.MapFileID(oldID, file.ID)
	return file, "", nil
}

// selectSource writes the revision content into tmp from the <href> or
// <embed> child of el.
func (d *Deployment) selectSource(ctx context.Context, el *etree.Element, tmp afero.File) (*payload, string, error) {
	var (
		size     int64
		mimeType string
	)
	if href := el.SelectElement("href"); href != nil {
		src := href.SelectAttrValue("src", "")
		if src == "" {
			return nil, "href has no src", nil
		}
		n, err := d.Fetcher.Fetch(ctx, tmp, src, d.ImportDir)
		if err != nil {
			return nil, "cannot fetch " + src + ": " + err.Error(), nil
		}
		if n == 0 {
			return nil, src + " is empty", nil
		}
		size, mimeType = n, href.SelectAttrValue("mime_type", "")
	} else if embed := el.SelectElement("embed"); embed != nil {
		if enc := embed.SelectAttrValue("encoding", ""); enc != EncodingBase64 {
			return nil, "", errors.Wrapf(ErrUnsupportedEncoding, "%q", enc)
		}
		data, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(embed.Text()), ""))
		if err != nil {
			return nil, "embedded content cannot be decoded: " + err.Error(), nil
		}
		if len(data) == 0 {
			return nil, "embedded content is empty", nil
		}
		n, err := tmp.Write(data)
		if err != nil {
			return nil, "embedded content cannot be written: " + err.Error(), nil
		}
		size = int64(n)
	} else {
		return nil, "no href or embed element", nil
	}

	if mimeType == "" {
		detected, err := sniff(tmp)
		if err != nil {
			return nil, "", err
		}
		mimeType = detected
	}
	return &payload{size: size, mimeType: mimeType}, "", nil
}

// sniff detects the content type from the first bytes of f.
func sniff(f afero.File) (string, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", errors.Wrap(err, "temporary file cannot be read")
	}
	buf := make([]byte, 3072)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", errors.Wrap(err, "temporary file cannot be read")
	}
	mt := mimetype.Detect(buf[:n])
	return strings.TrimSpace(strings.SplitN(mt.String(), ";", 2)[0]), nil
}
