package native

import (
	"context"

	"github.com/sirupsen/logrus"
)

// EventSink is notified once per imported document.
type EventSink interface {
	MetadataChanged(ctx context.Context, submissionIDs []int64) error
}

// LogEvents is an EventSink that only logs.
type LogEvents struct {
	Logger logrus.FieldLogger
}

var _ EventSink = (*LogEvents)(nil)

func (e *LogEvents) MetadataChanged(ctx context.Context, submissionIDs []int64) error {
	e.Logger.WithField("submissions", submissionIDs).Info("Submission metadata changed.")
	return nil
}
