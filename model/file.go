package model

import "time"

// SubmissionFile is a workflow file. Its content lives in one or more
// revisions (File); FileID points at the current one.
type SubmissionFile struct {
	ID               int64           `json:"id"`
	SubmissionID     int64           `json:"submissionId"`
	FileID           int64           `json:"fileId"`
	Revisions        []int64         `json:"revisions"`
	FileStage        FileStageEnum   `json:"fileStage"`
	GenreID          int64           `json:"genreId,omitempty"`
	UploaderUserID   int64           `json:"uploaderUserId,omitempty"`
	Viewable         bool            `json:"viewable"`
	AssocType        int             `json:"assocType,omitempty"`
	AssocID          int64           `json:"assocId,omitempty"`
	SourceFileID     int64           `json:"sourceSubmissionFileId,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
	DateCreated      string          `json:"dateCreated,omitempty"`
	Language         string          `json:"language,omitempty"`
	Name             LocalizedString `json:"name,omitempty"`
	Creator          LocalizedString `json:"creator,omitempty"`
	Description      LocalizedString `json:"description,omitempty"`
	Publisher        LocalizedString `json:"publisher,omitempty"`
	Source           LocalizedString `json:"source,omitempty"`
	Sponsor          LocalizedString `json:"sponsor,omitempty"`
	Subject          LocalizedString `json:"subject,omitempty"`
	DirectSalesPrice string          `json:"directSalesPrice,omitempty"`
}

// HasRevision reports whether fileID is one of the file's revisions.
func (f *SubmissionFile) HasRevision(fileID int64) bool {
	for _, id := range f.Revisions {
		if id == fileID {
			return true
		}
	}
	return false
}

// File is a stored revision: a blob in permanent storage.
type File struct {
	ID       int64  `json:"id"`
	Path     string `json:"path"`
	MimeType string `json:"mimetype"`
	Size     int64  `json:"size"`
}
