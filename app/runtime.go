package app

import (
	"context"
	"fmt"
	"io"

	"github.com/JiscSD/native-xml-adapter/broker"
	"github.com/JiscSD/native-xml-adapter/broker/message"
	"github.com/JiscSD/native-xml-adapter/model"
	"github.com/JiscSD/native-xml-adapter/native"
	"github.com/JiscSD/native-xml-adapter/s3"
	"github.com/JiscSD/native-xml-adapter/store"

	"github.com/aws/aws-sdk-go/service/sns"
	"github.com/aws/aws-sdk-go/service/sns/snsiface"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// runtime holds the collaborators shared by the import and export
// commands.
type runtime struct {
	logger   logrus.FieldLogger
	config   *Config
	store    *store.Store
	registry *native.Registry
	files    *native.FileStore
	fetcher  *native.Fetcher
	gatherer *prometheus.Registry
	metrics  *native.Metrics

	// Only set when events are published.
	snsClient snsiface.SNSAPI
	validator message.Validator
}

func newRuntime(ctx context.Context, logger logrus.FieldLogger, config *Config) (*runtime, error) {
	r := &runtime{logger: logger, config: config}

	{
		var err error
		switch config.Storage.Driver {
		case "memory":
			r.store = store.NewMemory()
			r.files = native.NewFileStore(afero.NewMemMapFs())
		default:
			r.store, err = store.OpenSQLite(ctx, config.Storage.DSN)
			if err != nil {
				return nil, err
			}
			fs := afero.NewOsFs()
			if err := fs.MkdirAll(config.Storage.FilesDir, 0o755); err != nil {
				r.store.Close()
				return nil, errors.Wrap(err, "files directory cannot be created")
			}
			r.files = native.NewFileStore(afero.NewBasePathFs(fs, config.Storage.FilesDir))
		}
	}

	{
		profile, err := native.ParseProfile(config.Import.Profile)
		if err != nil {
			r.store.Close()
			return nil, err
		}
		r.registry, err = native.NewProfileRegistry(profile)
		if err != nil {
			r.store.Close()
			return nil, err
		}
	}

	{
		sess, err := awsSession(logger, config.AWS.S3Profile, config.AWS.S3Endpoint)
		if err != nil {
			r.store.Close()
			return nil, errors.Wrap(err, "AWS session cannot be created")
		}
		r.fetcher = native.NewFetcher(afero.NewOsFs(), s3.New(sess), logger.WithField("component", "fetcher"))
		r.fetcher.Timeout = config.Import.FetchTimeout
		r.fetcher.Retries = config.Import.FetchRetries
	}

	if topic := config.Events.SNSTopic; topic != "" {
		sess, err := awsSession(logger, config.AWS.SNSProfile, config.AWS.SNSEndpoint)
		if err != nil {
			r.store.Close()
			return nil, errors.Wrap(err, "AWS session cannot be created")
		}
		validator, err := message.NewValidator()
		if err != nil {
			r.store.Close()
			return nil, err
		}
		r.snsClient = sns.New(sess)
		r.validator = validator
	}

	r.gatherer = prometheus.NewRegistry()
	r.metrics = native.NewMetrics(r.gatherer)

	return r, nil
}

// context looks up the context of the run by path.
func (r *runtime) context(ctx context.Context, path string) (*model.Context, error) {
	c, err := r.store.ContextByPath(ctx, path)
	if err == store.ErrNotFound {
		return nil, errors.Errorf("context %q does not exist", path)
	}
	if err != nil {
		return nil, errors.Wrap(err, "context lookup failed")
	}
	return c, nil
}

// publisher returns the event publisher of the context or nil when events
// are not configured.
func (r *runtime) publisher(c *model.Context) *broker.Publisher {
	if r.snsClient == nil || c.Path == "" {
		return nil
	}
	return broker.New(r.logger.WithField("component", "broker"), r.validator, r.snsClient, r.config.Events.SNSTopic, c.Path)
}

func (r *runtime) deployment(c *model.Context, opts native.Options) (*native.Deployment, error) {
	if p := r.publisher(c); p != nil {
		opts.Events = p
	}
	opts.Files = r.files
	opts.Fetcher = r.fetcher
	opts.Metrics = r.metrics
	opts.Logger = r.logger
	return native.NewDeployment(c, r.store, r.registry, opts)
}

// close writes the metrics textfile when configured and releases the
// store.
func (r *runtime) close() error {
	var err error
	if path := r.config.Metrics.Textfile; path != "" {
		if werr := prometheus.WriteToTextfile(path, r.gatherer); werr != nil {
			err = errors.Wrap(werr, "metrics cannot be written")
		}
	}
	if cerr := r.store.Close(); cerr != nil && err == nil {
		err = errors.Wrap(cerr, "store cannot be closed")
	}
	return err
}

func printReport(out io.Writer, report *native.Report) {
	if len(report.Issues()) == 0 {
		return
	}
	fmt.Fprintln(out, "\n################################################################# Report")
	fmt.Fprint(out, report.String())
	fmt.Fprintf(out, "%d warning(s), %d error(s)\n", len(report.Warnings()), len(report.Errors()))
}
