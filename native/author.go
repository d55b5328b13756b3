package native

import (
	"context"

	"github.com/JiscSD/native-xml-adapter/model"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

// DefaultContributorRole is the role given to authors that declare none.
const DefaultContributorRole = "AUTHOR"

type authorCodec struct {
	base
}

var _ Codec = (*authorCodec)(nil)

func newAuthorCodec() *authorCodec {
	return &authorCodec{base{kind: KindAuthor}}
}

func (c *authorCodec) Element() string    { return "author" }
func (c *authorCodec) Collection() string { return "authors" }

func (c *authorCodec) Export(ctx context.Context, d *Deployment, v interface{}) (*etree.Element, error) {
	a, ok := v.(*model.Author)
	if !ok {
		return nil, unexpected(c.kind, v)
	}
	el := etree.NewElement(c.Element())
	if a.PublicationID != 0 {
		pub, err := d.Store.Publications.Get(ctx, a.PublicationID)
		if err == nil && pub.PrimaryContactID == a.ID {
			setBool(el, "primary_contact", true)
		}
	}
	setBool(el, "include_in_browse", a.IncludeInBrowse)
	if g, ok := d.Context.UserGroup(a.UserGroupID); ok {
		setAttr(el, "user_group_ref", g.Name.Any(d.Context.PrimaryLocale))
	}
	setInt(el, "seq", int64(a.Seq))
	setInt(el, "id", a.ID)
	setAttr(el, "contributor_type", string(a.ContributorType))

	localized(el, "givenname", a.GivenName)
	localized(el, "familyname", a.FamilyName)
	localized(el, "affiliation", a.Affiliation)
	for _, ror := range a.RORAffiliations {
		r := el.CreateElement("rorAffiliation")
		r.CreateAttr("ror", ror.ROR)
		localized(r, "name", ror.Name)
	}
	text(el, "country", a.Country)
	text(el, "email", a.Email)
	text(el, "url", a.URL)
	text(el, "orcid", a.ORCID)
	localized(el, "biography", a.Biography)
	localized(el, "preferredPublicName", a.PreferredPublicName)

	if len(a.ContributorRoleIDs) > 0 {
		roles := el.CreateElement("contributor_roles")
		for _, id := range a.ContributorRoleIDs {
			role, ok := d.Context.ContributorRole(id)
			if !ok {
				d.Warn(c.kind, a.ID, "unknown contributor role %d", id)
				continue
			}
			text(roles, "contributor_role", role.Identifier)
		}
	}
	return el, nil
}

func (c *authorCodec) Import(ctx context.Context, d *Deployment, el *etree.Element, p Parent) (interface{}, error) {
	d.hold(c.kind)
	oldID := c.attrInt(d, 0, el, "id")
	storedID := oldID
	defer func() { d.release(storedID) }()

	fallback := d.locale(ctx, p)
	a := &model.Author{
		PublicationID:   p.PublicationID,
		Seq:             int(c.attrInt(d, oldID, el, "seq")),
		IncludeInBrowse: attrBool(el, "include_in_browse"),
	}
	ct, ok := model.ParseContributorType(el.SelectAttrValue("contributor_type", ""))
	if !ok {
		d.Warn(c.kind, oldID, "unknown contributor type %q", el.SelectAttrValue("contributor_type", ""))
	}
	a.ContributorType = ct

	if ref := el.SelectAttrValue("user_group_ref", ""); ref != "" {
		if g, ok := d.Context.UserGroupByName(ref); ok {
			a.UserGroupID = g.ID
		} else {
			d.Error(c.kind, oldID, "unknown user group %s", ref)
		}
	}

	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "givenname":
			readLocalized(child, fallback, &a.GivenName)
		case "familyname":
			readLocalized(child, fallback, &a.FamilyName)
		case "affiliation":
			readLocalized(child, fallback, &a.Affiliation)
		case "biography":
			readLocalized(child, fallback, &a.Biography)
		case "preferredPublicName":
			readLocalized(child, fallback, &a.PreferredPublicName)
		case "country":
			a.Country = value(child)
		case "email":
			a.Email = value(child)
		case "url":
			a.URL = value(child)
		case "orcid":
			a.ORCID = value(child)
		case "rorAffiliation":
			ror := model.RORAffiliation{ROR: child.SelectAttrValue("ror", "")}
			for _, name := range child.SelectElements("name") {
				readLocalized(name, fallback, &ror.Name)
			}
			if ror.ROR != "" {
				a.RORAffiliations = append(a.RORAffiliations, ror)
			}
		case "contributor_roles":
			for _, role := range child.ChildElements() {
				identifier := value(role)
				if r, ok := d.Context.ContributorRoleByIdentifier(identifier); ok {
					a.ContributorRoleIDs = append(a.ContributorRoleIDs, r.ID)
				} else {
					d.Error(c.kind, oldID, "unknown contributor role %s", identifier)
				}
			}
		default:
			c.unknown(d, oldID, el, child)
		}
	}

	// A group bound to a role stands in for an explicit role.
	if len(a.ContributorRoleIDs) == 0 && a.UserGroupID != 0 {
		if g, _ := d.Context.UserGroup(a.UserGroupID); g.ContributorRole != "" {
			if r, ok := d.Context.ContributorRoleByIdentifier(g.ContributorRole); ok {
				a.ContributorRoleIDs = append(a.ContributorRoleIDs, r.ID)
			}
		}
	}

	// Anonymous contributors carry no identifying metadata.
	anonymous := a.ContributorType == model.ContributorTypeEnum_anonymous
	if !anonymous {
		if a.FullName(fallback) == "" {
			d.Error(c.kind, oldID, "author has no name")
		}
		if a.Email == "" {
			d.Error(c.kind, oldID, "author has no email")
		}
		if a.Country == "" {
			d.Error(c.kind, oldID, "author has no country")
		}
		if len(a.ContributorRoleIDs) == 0 {
			d.Error(c.kind, oldID, "author has no contributor role, the default role is assigned")
		}
	}
	if len(a.ContributorRoleIDs) == 0 {
		if r, ok := defaultContributorRole(d.Context); ok {
			a.ContributorRoleIDs = []int64{r.ID}
		}
	}

	if _, err := d.Store.Authors.Add(ctx, a); err != nil {
		return nil, errors.Wrap(err, "author cannot be stored")
	}
	storedID = a.ID
	d.MapID(c.kind, oldID, a.ID)
	return a, nil
}

func defaultContributorRole(c *model.Context) (model.ContributorRole, bool) {
	if r, ok := c.ContributorRoleByIdentifier(DefaultContributorRole); ok {
		return r, true
	}
	if len(c.ContributorRoles) > 0 {
		return c.ContributorRoles[0], true
	}
	return model.ContributorRole{}, false
}
