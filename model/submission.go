package model

import "time"

// Submission is the root of the entity graph carried by a native document.
type Submission struct {
	ID                   int64             `json:"id"`
	ContextID            int64             `json:"contextId"`
	Locale               string            `json:"locale"`
	DateSubmitted        time.Time         `json:"dateSubmitted"`
	DateLastActivity     time.Time         `json:"dateLastActivity"`
	Status               int               `json:"status"`
	SubmissionProgress   string            `json:"submissionProgress,omitempty"`
	StageID              WorkflowStageEnum `json:"stageId"`
	CurrentPublicationID int64             `json:"currentPublicationId"`
}

// Publication is one version of a submission's metadata.
type Publication struct {
	ID               int64             `json:"id"`
	SubmissionID     int64             `json:"submissionId"`
	Version          int               `json:"version"`
	Status           int               `json:"status"`
	PrimaryContactID int64             `json:"primaryContactId"`
	URLPath          string            `json:"urlPath,omitempty"`
	Seq              int               `json:"seq"`
	AccessStatus     int               `json:"accessStatus"`
	DatePublished    time.Time         `json:"datePublished"`
	SectionID        int64             `json:"sectionId"`
	Title            LocalizedString   `json:"title,omitempty"`
	Subtitle         LocalizedString   `json:"subtitle,omitempty"`
	Prefix           LocalizedString   `json:"prefix,omitempty"`
	Abstract         LocalizedString   `json:"abstract,omitempty"`
	Coverage         LocalizedString   `json:"coverage,omitempty"`
	Type             LocalizedString   `json:"type,omitempty"`
	Source           LocalizedString   `json:"source,omitempty"`
	Rights           LocalizedString   `json:"rights,omitempty"`
	CopyrightHolder  LocalizedString   `json:"copyrightHolder,omitempty"`
	LicenseURL       string            `json:"licenseUrl,omitempty"`
	CopyrightYear    int               `json:"copyrightYear,omitempty"`
	Pages            string            `json:"pages,omitempty"`
	Keywords         Vocabulary        `json:"keywords,omitempty"`
	Subjects         Vocabulary        `json:"subjects,omitempty"`
	Disciplines      Vocabulary        `json:"disciplines,omitempty"`
	Agencies         Vocabulary        `json:"agencies,omitempty"`
	Citations        []string          `json:"citations,omitempty"`
	StoredPubID      string            `json:"storedPubId,omitempty"`
	PubIDs           map[string]string `json:"pubIds,omitempty"`
	DOIID            int64             `json:"doiId,omitempty"`
}

// Author is a contributor to a publication.
type Author struct {
	ID                  int64               `json:"id"`
	PublicationID       int64               `json:"publicationId"`
	Seq                 int                 `json:"seq"`
	ContributorType     ContributorTypeEnum `json:"contributorType"`
	IncludeInBrowse     bool                `json:"includeInBrowse"`
	UserGroupID         int64               `json:"userGroupId,omitempty"`
	GivenName           LocalizedString     `json:"givenName,omitempty"`
	FamilyName          LocalizedString     `json:"familyName,omitempty"`
	PreferredPublicName LocalizedString     `json:"preferredPublicName,omitempty"`
	Affiliation         LocalizedString     `json:"affiliation,omitempty"`
	Biography           LocalizedString     `json:"biography,omitempty"`
	Country             string              `json:"country,omitempty"`
	Email               string              `json:"email,omitempty"`
	URL                 string              `json:"url,omitempty"`
	ORCID               string              `json:"orcid,omitempty"`
	RORAffiliations     []RORAffiliation    `json:"rorAffiliations,omitempty"`
	ContributorRoleIDs  []int64             `json:"contributorRoleIds,omitempty"`
}

// RORAffiliation is an affiliation identified by a ROR id.
type RORAffiliation struct {
	ROR  string          `json:"ror"`
	Name LocalizedString `json:"name,omitempty"`
}

// FullName joins given and family names for the locale, falling back to
// any locale that has data.
func (a *Author) FullName(locale string) string {
	given, family := a.GivenName.Any(locale), a.FamilyName.Any(locale)
	switch {
	case given == "":
		return family
	case family == "":
		return given
	}
	return given + " " + family
}

// Galley is a representation of a publication (PDF, HTML, remote URL).
type Galley struct {
	ID               int64             `json:"id"`
	PublicationID    int64             `json:"publicationId"`
	Locale           string            `json:"locale"`
	Label            LocalizedString   `json:"label,omitempty"`
	Seq              int               `json:"seq"`
	URLPath          string            `json:"urlPath,omitempty"`
	URLRemote        string            `json:"urlRemote,omitempty"`
	Approved         bool              `json:"approved"`
	SubmissionFileID int64             `json:"submissionFileId,omitempty"`
	StoredPubID      string            `json:"storedPubId,omitempty"`
	PubIDs           map[string]string `json:"pubIds,omitempty"`
	DOIID            int64             `json:"doiId,omitempty"`
}

// DOI is a registered or pending Digital Object Identifier.
type DOI struct {
	ID        int64  `json:"id"`
	ContextID int64  `json:"contextId"`
	DOI       string `json:"doi"`
	Status    int    `json:"status"`
}
