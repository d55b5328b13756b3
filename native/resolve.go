package native

import (
	"context"
	"strconv"

	"github.com/JiscSD/native-xml-adapter/store"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

func int64String(v int64) string {
	return strconv.FormatInt(v, 10)
}

// resolveFileRef maps a <submission_file_ref id="..."/> to the stored
// submission file imported earlier in the same document.
func (b base) resolveFileRef(d *Deployment, id int64, el *etree.Element) (int64, bool) {
	old := b.attrInt(d, id, el, "id")
	if newID, ok := d.LookupID(KindSubmissionFile, old); ok {
		return newID, true
	}
	d.Error(b.kind, id, "unknown submission file reference %d", old)
	return 0, false
}

// resolveFileRefs resolves every reference held by a wrapper element.
func (b base) resolveFileRefs(d *Deployment, id int64, wrapper *etree.Element) []int64 {
	var ids []int64
	for _, child := range wrapper.ChildElements() {
		if child.Tag != "submission_file_ref" {
			b.unknown(d, id, wrapper, child)
			continue
		}
		if newID, ok := b.resolveFileRef(d, id, child); ok {
			ids = append(ids, newID)
		}
	}
	return ids
}

// resolveUser maps a username to a user ID. Unknown users are recorded as
// errors.
func (b base) resolveUser(ctx context.Context, d *Deployment, id int64, username string) (int64, bool, error) {
	u, err := d.Store.UserByUsername(ctx, username)
	switch {
	case err == store.ErrNotFound:
		d.Error(b.kind, id, "unknown user %q", username)
		return 0, false, nil
	case err != nil:
		return 0, false, errors.Wrap(err, "user lookup failed")
	}
	return u.ID, true, nil
}

// username returns the username of a user ID or the empty string.
func username(ctx context.Context, d *Deployment, id int64) (string, error) {
	if id == 0 {
		return "", nil
	}
	u, err := d.Store.Users.Get(ctx, id)
	if err == store.ErrNotFound {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "user lookup failed")
	}
	return u.Username, nil
}
