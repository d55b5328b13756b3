// Package broker publishes native XML events to a SNS topic.
package broker

import (
	"context"
	"encoding/json"

	"github.com/JiscSD/native-xml-adapter/broker/message"
	"github.com/JiscSD/native-xml-adapter/native"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sns"
	"github.com/aws/aws-sdk-go/service/sns/snsiface"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Publisher sends event messages to a SNS topic.
//
// Messages are validated before they are sent. Publishing is
// fire-and-forget: no response is expected from the subscribers.
type Publisher struct {
	logger      logrus.FieldLogger
	validator   message.Validator
	snsClient   snsiface.SNSAPI
	topicARN    string
	contextPath string
}

var _ native.EventSink = (*Publisher)(nil)

// New returns a Publisher bound to the given context path.
func New(logger logrus.FieldLogger, validator message.Validator, snsClient snsiface.SNSAPI, topicARN, contextPath string) *Publisher {
	return &Publisher{
		logger:      logger,
		validator:   validator,
		snsClient:   snsClient,
		topicARN:    topicARN,
		contextPath: contextPath,
	}
}

// MetadataChanged implements native.EventSink.
func (p *Publisher) MetadataChanged(ctx context.Context, submissionIDs []int64) error {
	if len(submissionIDs) == 0 {
		return nil
	}
	msg := message.New(message.MessageTypeEnum_MetadataChanged)
	body := msg.MessageBody.(*message.MetadataChanged)
	body.Context = p.contextPath
	body.SubmissionIDs = submissionIDs
	return p.Request(ctx, msg)
}

// ImportCompleted announces the outcome of an import run.
func (p *Publisher) ImportCompleted(ctx context.Context, document string, items int, report *native.Report) error {
	msg := message.New(message.MessageTypeEnum_ImportCompleted)
	body := msg.MessageBody.(*message.ImportCompleted)
	body.Context = p.contextPath
	body.Document = document
	body.Items = items
	body.Warnings = len(report.Warnings())
	body.Errors = len(report.Errors())
	return p.Request(ctx, msg)
}

// Request validates and sends a fire-and-forget message.
func (p *Publisher) Request(ctx context.Context, msg *message.Message) error {
	logger := p.logger.WithFields(logrus.Fields{"id": msg.ID(), "type": msg.MessageHeader.MessageType})
	payload, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "message could not be encoded")
	}
	if payload, err = p.validator.Validate(ctx, payload); err != nil {
		return errors.Wrap(err, "message is not valid")
	}
	if err := p.publishMessage(ctx, string(payload)); err != nil {
		return errors.Wrap(err, "message could not be published")
	}
	logger.Debug("Message published.")
	return nil
}

// publishMessage puts a message into the SNS topic.
func (p *Publisher) publishMessage(ctx context.Context, payload string) error {
	_, err := p.snsClient.PublishWithContext(ctx, &sns.PublishInput{
		Message:  aws.String(payload),
		TopicArn: aws.String(p.topicARN),
	})
	return err
}
