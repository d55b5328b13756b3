package model

import "time"

// ReviewRound groups review assignments for one stage and round number.
type ReviewRound struct {
	ID           int64             `json:"id"`
	SubmissionID int64             `json:"submissionId"`
	StageID      WorkflowStageEnum `json:"stageId"`
	Round        int               `json:"round"`
	Status       int               `json:"status"`
	FileIDs      []int64           `json:"submissionFileIds,omitempty"`
}

// ReviewAssignment is a request to one reviewer within a review round.
type ReviewAssignment struct {
	ID                 int64             `json:"id"`
	SubmissionID       int64             `json:"submissionId"`
	ReviewRoundID      int64             `json:"reviewRoundId"`
	StageID            WorkflowStageEnum `json:"stageId"`
	Round              int               `json:"round"`
	ReviewerID         int64             `json:"reviewerId"`
	ReviewMethod       int               `json:"reviewMethod"`
	ReviewFormID       int64             `json:"reviewFormId,omitempty"`
	Recommendation     int               `json:"recommendation,omitempty"`
	CompetingInterests string            `json:"competingInterests,omitempty"`
	DateAssigned       time.Time         `json:"dateAssigned"`
	DateNotified       time.Time         `json:"dateNotified"`
	DateConfirmed      time.Time         `json:"dateConfirmed"`
	DateCompleted      time.Time         `json:"dateCompleted"`
	DateDue            time.Time         `json:"dateDue"`
	DateResponseDue    time.Time         `json:"dateResponseDue"`
	Declined           bool              `json:"declined"`
	Cancelled          bool              `json:"cancelled"`
	Considered         int               `json:"considered,omitempty"`
	Quality            int               `json:"quality,omitempty"`
	SubmissionFileIDs  []int64           `json:"submissionFileIds,omitempty"`
}

// ReviewForm is a context-level questionnaire used by reviewers.
type ReviewForm struct {
	ID          int64               `json:"id"`
	ContextID   int64               `json:"contextId"`
	Seq         int                 `json:"seq"`
	Active      bool                `json:"active"`
	Title       LocalizedString     `json:"title,omitempty"`
	Description LocalizedString     `json:"description,omitempty"`
	Elements    []ReviewFormElement `json:"elements,omitempty"`
}

// ReviewFormElement is one question of a review form.
type ReviewFormElement struct {
	Seq               int               `json:"seq"`
	ElementType       int               `json:"elementType"`
	Required          bool              `json:"required"`
	Included          bool              `json:"included"`
	Question          LocalizedString   `json:"question,omitempty"`
	Description       LocalizedString   `json:"description,omitempty"`
	PossibleResponses []LocalizedString `json:"possibleResponses,omitempty"`
}

// Query is an editorial discussion attached to a submission.
type Query struct {
	ID             int64             `json:"id"`
	AssocType      int               `json:"assocType"`
	AssocID        int64             `json:"assocId"`
	StageID        WorkflowStageEnum `json:"stageId"`
	Seq            int               `json:"seq"`
	Closed         bool              `json:"closed"`
	ParticipantIDs []int64           `json:"participantIds,omitempty"`
}

// Note is a message posted to a query.
type Note struct {
	ID           int64     `json:"id"`
	QueryID      int64     `json:"queryId"`
	UserID       int64     `json:"userId"`
	DateCreated  time.Time `json:"dateCreated"`
	DateModified time.Time `json:"dateModified"`
	Title        string    `json:"title,omitempty"`
	Contents     string    `json:"contents"`
}
