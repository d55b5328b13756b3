package broker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/JiscSD/native-xml-adapter/broker/message"
	"github.com/JiscSD/native-xml-adapter/native"

	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/sns"
	"github.com/aws/aws-sdk-go/service/sns/snsiface"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type snsMock struct {
	snsiface.SNSAPI
	mock.Mock
}

func (m *snsMock) PublishWithContext(ctx context.Context, input *sns.PublishInput, opts ...request.Option) (*sns.PublishOutput, error) {
	args := m.Called(input)
	return &sns.PublishOutput{}, args.Error(0)
}

func newPublisher(t *testing.T, client snsiface.SNSAPI) *Publisher {
	logger, _ := test.NewNullLogger()
	validator, err := message.NewValidator()
	require.NoError(t, err)
	return New(logger, validator, client, "arn:aws:sns:eu-west-2:123456789012:native-xml", "journal")
}

func decode(t *testing.T, input *sns.PublishInput) *message.Message {
	msg := &message.Message{}
	require.NoError(t, json.Unmarshal([]byte(*input.Message), msg))
	return msg
}

func TestPublisher_MetadataChanged(t *testing.T) {
	client := &snsMock{}
	var published *sns.PublishInput
	client.On("PublishWithContext", mock.Anything).Run(func(args mock.Arguments) {
		published = args.Get(0).(*sns.PublishInput)
	}).Return(nil).Once()

	p := newPublisher(t, client)
	require.NoError(t, p.MetadataChanged(context.Background(), []int64{4, 5}))

	client.AssertExpectations(t)
	assert.Equal(t, "arn:aws:sns:eu-west-2:123456789012:native-xml", *published.TopicArn)
	msg := decode(t, published)
	assert.Equal(t, message.MessageTypeEnum_MetadataChanged, msg.MessageHeader.MessageType)
	assert.Equal(t, &message.MetadataChanged{Context: "journal", SubmissionIDs: []int64{4, 5}}, msg.MessageBody)
}

func TestPublisher_MetadataChangedEmpty(t *testing.T) {
	client := &snsMock{}

	p := newPublisher(t, client)
	require.NoError(t, p.MetadataChanged(context.Background(), nil))

	client.AssertNotCalled(t, "PublishWithContext", mock.Anything)
}

func TestPublisher_ImportCompleted(t *testing.T) {
	client := &snsMock{}
	var published *sns.PublishInput
	client.On("PublishWithContext", mock.Anything).Run(func(args mock.Arguments) {
		published = args.Get(0).(*sns.PublishInput)
	}).Return(nil).Once()

	p := newPublisher(t, client)
	require.NoError(t, p.ImportCompleted(context.Background(), "issue.xml", 2, &native.Report{}))

	msg := decode(t, published)
	assert.Equal(t, &message.ImportCompleted{Context: "journal", Document: "issue.xml", Items: 2}, msg.MessageBody)
}

func TestPublisher_PublishError(t *testing.T) {
	client := &snsMock{}
	client.On("PublishWithContext", mock.Anything).Return(errors.New("throttled")).Once()

	p := newPublisher(t, client)
	err := p.MetadataChanged(context.Background(), []int64{1})

	assert.EqualError(t, err, "message could not be published: throttled")
}

func TestPublisher_InvalidMessage(t *testing.T) {
	client := &snsMock{}

	logger, _ := test.NewNullLogger()
	validator, err := message.NewValidator()
	require.NoError(t, err)
	p := New(logger, validator, client, "arn", "")

	err = p.MetadataChanged(context.Background(), []int64{1})

	assert.Error(t, err)
	client.AssertNotCalled(t, "PublishWithContext", mock.Anything)
}
