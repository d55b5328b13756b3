package model

// Context is a journal, press or preprint server hosting submissions.
type Context struct {
	ID               int64             `json:"id"`
	Path             string            `json:"path"`
	PrimaryLocale    string            `json:"primaryLocale"`
	Name             LocalizedString   `json:"name,omitempty"`
	Sections         []Section         `json:"sections,omitempty"`
	Genres           []Genre           `json:"genres,omitempty"`
	UserGroups       []UserGroup       `json:"userGroups,omitempty"`
	ContributorRoles []ContributorRole `json:"contributorRoles,omitempty"`
}

// Section groups publications; publications reference it by abbreviation.
type Section struct {
	ID     int64           `json:"id"`
	Abbrev string          `json:"abbrev"`
	Title  LocalizedString `json:"title,omitempty"`
}

// Genre classifies submission files, e.g. "Preprint Text" or "Image".
type Genre struct {
	ID   int64           `json:"id"`
	Name LocalizedString `json:"name"`
}

// UserGroup is a role-bearing group. Authors historically pointed to one by
// name (user_group_ref); ContributorRole ties it to the current role model.
type UserGroup struct {
	ID              int64           `json:"id"`
	Name            LocalizedString `json:"name"`
	ContributorRole string          `json:"contributorRole,omitempty"`
}

// ContributorRole is a credit role (e.g. AUTHOR, TRANSLATOR) defined by the
// context.
type ContributorRole struct {
	ID         int64           `json:"id"`
	Identifier string          `json:"identifier"`
	Name       LocalizedString `json:"name,omitempty"`
}

// SectionByAbbrev returns the section with the given abbreviation.
func (c *Context) SectionByAbbrev(abbrev string) (Section, bool) {
	for _, s := range c.Sections {
		if s.Abbrev == abbrev {
			return s, true
		}
	}
	return Section{}, false
}

// Section returns a section by ID.
func (c *Context) Section(id int64) (Section, bool) {
	for _, s := range c.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// GenreByName matches a genre name in any locale.
func (c *Context) GenreByName(name string) (Genre, bool) {
	for _, g := range c.Genres {
		for _, v := range g.Name {
			if v == name {
				return g, true
			}
		}
	}
	return Genre{}, false
}

// Genre returns a genre by ID.
func (c *Context) Genre(id int64) (Genre, bool) {
	for _, g := range c.Genres {
		if g.ID == id {
			return g, true
		}
	}
	return Genre{}, false
}

// UserGroupByName matches a user group name in any locale.
func (c *Context) UserGroupByName(name string) (UserGroup, bool) {
	for _, g := range c.UserGroups {
		for _, v := range g.Name {
			if v == name {
				return g, true
			}
		}
	}
	return UserGroup{}, false
}

// UserGroup returns a user group by ID.
func (c *Context) UserGroup(id int64) (UserGroup, bool) {
	for _, g := range c.UserGroups {
		if g.ID == id {
			return g, true
		}
	}
	return UserGroup{}, false
}

// ContributorRoleByIdentifier returns the role with the given identifier.
func (c *Context) ContributorRoleByIdentifier(identifier string) (ContributorRole, bool) {
	for _, r := range c.ContributorRoles {
		if r.Identifier == identifier {
			return r, true
		}
	}
	return ContributorRole{}, false
}

// ContributorRole returns a role by ID.
func (c *Context) ContributorRole(id int64) (ContributorRole, bool) {
	for _, r := range c.ContributorRoles {
		if r.ID == id {
			return r, true
		}
	}
	return ContributorRole{}, false
}

// User is an account, referenced in the native format by username.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}
