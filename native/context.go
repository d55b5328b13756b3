package native

import (
	"context"

	"github.com/JiscSD/native-xml-adapter/model"
	"github.com/JiscSD/native-xml-adapter/store"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

// contextCodec carries the publishing context with the lookup tables that
// other elements refer to by name: sections, genres, user groups and
// contributor roles. Users travel along since the document refers to them
// by username. Importing an unknown path creates the context; a known path
// is left untouched.
type contextCodec struct {
	base
}

var _ Codec = (*contextCodec)(nil)

func newContextCodec() *contextCodec {
	return &contextCodec{base{kind: KindContext}}
}

func (c *contextCodec) Element() string    { return "context" }
func (c *contextCodec) Collection() string { return "contexts" }

func (c *contextCodec) Export(ctx context.Context, d *Deployment, v interface{}) (*etree.Element, error) {
	m, ok := v.(*model.Context)
	if !ok {
		return nil, unexpected(c.kind, v)
	}
	el := etree.NewElement(c.Element())
	setAttr(el, "path", m.Path)
	setAttr(el, "primary_locale", m.PrimaryLocale)
	localized(el, "name", m.Name)

	if len(m.Sections) > 0 {
		wrapper := el.CreateElement("sections")
		for _, s := range m.Sections {
			n := wrapper.CreateElement("section")
			setInt(n, "id", s.ID)
			setAttr(n, "abbrev", s.Abbrev)
			localized(n, "title", s.Title)
		}
	}
	if len(m.Genres) > 0 {
		wrapper := el.CreateElement("genres")
		for _, g := range m.Genres {
			n := wrapper.CreateElement("genre")
			setInt(n, "id", g.ID)
			localized(n, "name", g.Name)
		}
	}
	if len(m.UserGroups) > 0 {
		wrapper := el.CreateElement("user_groups")
		for _, g := range m.UserGroups {
			n := wrapper.CreateElement("user_group")
			setInt(n, "id", g.ID)
			setAttr(n, "contributor_role", g.ContributorRole)
			localized(n, "name", g.Name)
		}
	}
	if len(m.ContributorRoles) > 0 {
		wrapper := el.CreateElement("contributor_roles")
		for _, r := range m.ContributorRoles {
			n := wrapper.CreateElement("contributor_role")
			setInt(n, "id", r.ID)
			setAttr(n, "identifier", r.Identifier)
			localized(n, "name", r.Name)
		}
	}

	users, err := d.Store.Users.Find(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "users cannot be listed")
	}
	if len(users) > 0 {
		wrapper := el.CreateElement("users")
		for _, u := range users {
			n := wrapper.CreateElement("user")
			setAttr(n, "username", u.Username)
			setAttr(n, "email", u.Email)
		}
	}
	return el, nil
}

func (c *contextCodec) Import(ctx context.Context, d *Deployment, el *etree.Element, p Parent) (interface{}, error) {
	var storedID int64
	d.hold(c.kind)
	defer func() { d.release(storedID) }()

	path := el.SelectAttrValue("path", "")
	if path == "" {
		d.Error(c.kind, 0, "context has no path and is skipped")
		return nil, nil
	}
	existing, err := d.Store.ContextByPath(ctx, path)
	if err == nil {
		storedID = existing.ID
		d.Warn(c.kind, existing.ID, "context %q already exists", path)
		return existing, nil
	}
	if err != store.ErrNotFound {
		return nil, errors.Wrap(err, "context lookup failed")
	}
	m := &model.Context{
		Path:          path,
		PrimaryLocale: el.SelectAttrValue("primary_locale", d.Context.PrimaryLocale),
	}
	fallback := m.PrimaryLocale
	var users []*etree.Element
	for _, n := range el.ChildElements() {
		switch n.Tag {
		case "name":
			readLocalized(n, fallback, &m.Name)
		case "sections":
			seen := map[int64]bool{}
			for i, item := range c.items(d, n, "section") {
				id, ok := c.itemID(d, item, i, seen)
				if !ok {
					continue
				}
				s := model.Section{ID: id, Abbrev: item.SelectAttrValue("abbrev", "")}
				for _, title := range item.SelectElements("title") {
					readLocalized(title, fallback, &s.Title)
				}
				if s.Abbrev == "" {
					d.Error(c.kind, 0, "section %d has no abbreviation and is skipped", s.ID)
					continue
				}
				m.Sections = append(m.Sections, s)
			}
		case "genres":
			seen := map[int64]bool{}
			for i, item := range c.items(d, n, "genre") {
				id, ok := c.itemID(d, item, i, seen)
				if !ok {
					continue
				}
				g := model.Genre{ID: id}
				for _, name := range item.SelectElements("name") {
					readLocalized(name, fallback, &g.Name)
				}
				m.Genres = append(m.Genres, g)
			}
		case "user_groups":
			seen := map[int64]bool{}
			for i, item := range c.items(d, n, "user_group") {
				id, ok := c.itemID(d, item, i, seen)
				if !ok {
					continue
				}
				g := model.UserGroup{
					ID:              id,
					ContributorRole: item.SelectAttrValue("contributor_role", ""),
				}
				for _, name := range item.SelectElements("name") {
					readLocalized(name, fallback, &g.Name)
				}
				m.UserGroups = append(m.UserGroups, g)
			}
		case "contributor_roles":
			seen := map[int64]bool{}
			for i, item := range c.items(d, n, "contributor_role") {
				id, ok := c.itemID(d, item, i, seen)
				if !ok {
					continue
				}
				r := model.ContributorRole{
					ID:         id,
					Identifier: item.SelectAttrValue("identifier", ""),
				}
				for _, name := range item.SelectElements("name") {
					readLocalized(name, fallback, &r.Name)
				}
				m.ContributorRoles = append(m.ContributorRoles, r)
			}
		case "users":
			users = append(users, c.items(d, n, "user")...)
		default:
			c.unknown(d, 0, el, n)
		}
	}
	if _, err := d.Store.Contexts.Add(ctx, m); err != nil {
		return nil, errors.Wrap(err, "context cannot be stored")
	}
	storedID = m.ID
	if err := c.importUsers(ctx, d, m.ID, users); err != nil {
		return nil, err
	}
	return m, nil
}

// items returns the children of a wrapper with the expected tag.
func (c *contextCodec) items(d *Deployment, wrapper *etree.Element, tag string) []*etree.Element {
	var ret []*etree.Element
	for _, n := range wrapper.ChildElements() {
		if n.Tag != tag {
			c.unknown(d, 0, wrapper, n)
			continue
		}
		ret = append(ret, n)
	}
	return ret
}

// itemID reads the id of a lookup table entry, numbering from one when it
// is missing. An entry reusing an id already in seen is skipped.
func (c *contextCodec) itemID(d *Deployment, el *etree.Element, i int, seen map[int64]bool) (int64, bool) {
	id := c.attrInt(d, 0, el, "id")
	if id <= 0 {
		id = int64(i + 1)
	}
	if seen[id] {
		d.Error(c.kind, 0, "duplicate %s id %d, entry skipped", el.Tag, id)
		return id, false
	}
	seen[id] = true
	return id, true
}

// importUsers creates the accounts that do not exist yet.
func (c *contextCodec) importUsers(ctx context.Context, d *Deployment, contextID int64, users []*etree.Element) error {
	for _, n := range users {
		username := n.SelectAttrValue("username", "")
		if username == "" {
			d.Error(c.kind, contextID, "user without username is skipped")
			continue
		}
		_, err := d.Store.UserByUsername(ctx, username)
		if err == nil {
			continue
		}
		if err != store.ErrNotFound {
			return errors.Wrap(err, "user lookup failed")
		}
		u := &model.User{Username: username, Email: n.SelectAttrValue("email", "")}
		if _, err := d.Store.Users.Add(ctx, u); err != nil {
			return errors.Wrap(err, "user cannot be stored")
		}
	}
	return nil
}
