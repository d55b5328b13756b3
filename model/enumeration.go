package model

import "fmt"

// WorkflowStageEnum identifies the editorial stage a submission is in.
type WorkflowStageEnum int

const (
	WorkflowStageEnum_submission     WorkflowStageEnum = 1
	WorkflowStageEnum_internalReview WorkflowStageEnum = 2
	WorkflowStageEnum_externalReview WorkflowStageEnum = 3
	WorkflowStageEnum_editorial      WorkflowStageEnum = 4
	WorkflowStageEnum_production     WorkflowStageEnum = 5
)

var _WorkflowStageEnumValueToName = map[WorkflowStageEnum]string{
	WorkflowStageEnum_submission:     "submission",
	WorkflowStageEnum_internalReview: "internalReview",
	WorkflowStageEnum_externalReview: "externalReview",
	WorkflowStageEnum_editorial:      "editorial",
	WorkflowStageEnum_production:     "production",
}

var _WorkflowStageEnumNameToValue = map[string]WorkflowStageEnum{
	"submission":     WorkflowStageEnum_submission,
	"internalReview": WorkflowStageEnum_internalReview,
	"externalReview": WorkflowStageEnum_externalReview,
	"editorial":      WorkflowStageEnum_editorial,
	"production":     WorkflowStageEnum_production,
}

func (t WorkflowStageEnum) String() string {
	if name, ok := _WorkflowStageEnumValueToName[t]; ok {
		return name
	}
	return ""
}

// IsReview reports whether the stage holds review rounds.
func (t WorkflowStageEnum) IsReview() bool {
	return t == WorkflowStageEnum_internalReview || t == WorkflowStageEnum_externalReview
}

// ParseWorkflowStage looks up a stage by its path name.
func ParseWorkflowStage(name string) (WorkflowStageEnum, bool) {
	v, ok := _WorkflowStageEnumNameToValue[name]
	return v, ok
}

func (t WorkflowStageEnum) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *WorkflowStageEnum) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*t = 0
		return nil
	}
	v, ok := _WorkflowStageEnumNameToValue[string(text)]
	if !ok {
		return fmt.Errorf("unknown workflow stage %q", text)
	}
	*t = v
	return nil
}

// FileStageEnum identifies where in the workflow a submission file lives.
type FileStageEnum int

const (
	FileStageEnum_submission             FileStageEnum = 2
	FileStageEnum_note                   FileStageEnum = 3
	FileStageEnum_reviewFile             FileStageEnum = 4
	FileStageEnum_reviewAttachment       FileStageEnum = 5
	FileStageEnum_final                  FileStageEnum = 6
	FileStageEnum_copyedit               FileStageEnum = 9
	FileStageEnum_proof                  FileStageEnum = 10
	FileStageEnum_productionReady        FileStageEnum = 11
	FileStageEnum_attachment             FileStageEnum = 13
	FileStageEnum_reviewRevision         FileStageEnum = 15
	FileStageEnum_dependent              FileStageEnum = 17
	FileStageEnum_query                  FileStageEnum = 18
	FileStageEnum_internalReviewFile     FileStageEnum = 19
	FileStageEnum_internalReviewRevision FileStageEnum = 20
	FileStageEnum_jats                   FileStageEnum = 21
)

var _FileStageEnumValueToName = map[FileStageEnum]string{
	FileStageEnum_submission:             "submission",
	FileStageEnum_note:                   "note",
	FileStageEnum_reviewFile:             "review_file",
	FileStageEnum_reviewAttachment:       "review_attachment",
	FileStageEnum_final:                  "final",
	FileStageEnum_copyedit:               "copyedit",
	FileStageEnum_proof:                  "proof",
	FileStageEnum_productionReady:        "production_ready",
	FileStageEnum_attachment:             "attachment",
	FileStageEnum_reviewRevision:         "review_revision",
	FileStageEnum_dependent:              "dependent",
	FileStageEnum_query:                  "query",
	FileStageEnum_internalReviewFile:     "internal_review_file",
	FileStageEnum_internalReviewRevision: "internal_review_revision",
	FileStageEnum_jats:                   "jats",
}

var _FileStageEnumNameToValue = func() map[string]FileStageEnum {
	m := make(map[string]FileStageEnum, len(_FileStageEnumValueToName))
	for v, name := range _FileStageEnumValueToName {
		m[name] = v
	}
	return m
}()

func (t FileStageEnum) String() string {
	if name, ok := _FileStageEnumValueToName[t]; ok {
		return name
	}
	return ""
}

// ParseFileStage looks up a file stage by its wire name.
func ParseFileStage(name string) (FileStageEnum, bool) {
	v, ok := _FileStageEnumNameToValue[name]
	return v, ok
}

func (t FileStageEnum) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *FileStageEnum) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*t = 0
		return nil
	}
	v, ok := _FileStageEnumNameToValue[string(text)]
	if !ok {
		return fmt.Errorf("unknown file stage %q", text)
	}
	*t = v
	return nil
}

// ContributorTypeEnum tells persons, organizations and anonymous
// contributors apart.
type ContributorTypeEnum string

const (
	ContributorTypeEnum_person       ContributorTypeEnum = "person"
	ContributorTypeEnum_organization ContributorTypeEnum = "organization"
	ContributorTypeEnum_anonymous    ContributorTypeEnum = "anonymous"
)

// ParseContributorType returns the contributor type, defaulting to person.
func ParseContributorType(name string) (ContributorTypeEnum, bool) {
	switch t := ContributorTypeEnum(name); t {
	case ContributorTypeEnum_person, ContributorTypeEnum_organization, ContributorTypeEnum_anonymous:
		return t, true
	case "":
		return ContributorTypeEnum_person, true
	}
	return ContributorTypeEnum_person, false
}

// Submission statuses.
const (
	StatusQueued    = 1
	StatusPublished = 3
	StatusDeclined  = 4
	StatusScheduled = 5
)

// Review round statuses.
const (
	ReviewRoundStatusRevisionsRequested = 1
	ReviewRoundStatusResubmitForReview  = 2
	ReviewRoundStatusDeclined           = 4
	ReviewRoundStatusPendingReviewers   = 6
	ReviewRoundStatusPendingReviews     = 7
	ReviewRoundStatusReviewsReady       = 8
	ReviewRoundStatusReviewsCompleted   = 9
	ReviewRoundStatusAccepted           = 11
)

// Association types used by submission files and queries.
const (
	AssocTypeSubmission     = 1048585
	AssocTypeSubmissionFile = 515
	AssocTypeReviewRound    = 523
	AssocTypeNote           = 520
)
