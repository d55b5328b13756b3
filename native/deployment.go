package native

import (
	"context"
	"fmt"
	"time"

	"github.com/JiscSD/native-xml-adapter/model"
	"github.com/JiscSD/native-xml-adapter/store"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Options tune a deployment. Zero values are usable.
type Options struct {
	// ImportDir resolves relative href paths.
	ImportDir string

	// EmbedFiles writes revisions as base64 instead of href elements.
	EmbedFiles bool

	// ExportBaseURL prefixes the href of revisions that are not embedded.
	ExportBaseURL string

	// IncludeWorkflow carries review rounds, queries and workflow-only
	// file stages.
	IncludeWorkflow bool

	Files   *FileStore
	Fetcher *Fetcher
	Events  EventSink
	Metrics *Metrics
	Logger  logrus.FieldLogger
}

// Deployment is the state of one import or export run.
type Deployment struct {
	Context  *model.Context
	Store    *store.Store
	Registry *Registry
	Options

	report      Report
	ids         map[Kind]map[int64]int64
	fileIDs     map[int64]int64
	submissions []int64
	locales     map[int64]string
	holds       []*held
	logger      logrus.FieldLogger
}

// held buffers the issues of an entity found before it is stored.
type held struct {
	kind   Kind
	issues []Issue
}

// NewDeployment prepares a run against the given context.
func NewDeployment(c *model.Context, s *store.Store, r *Registry, opts Options) (*Deployment, error) {
	if c == nil {
		return nil, ErrMissingContext
	}
	if r == nil {
		return nil, ErrCodecNotRegistered
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Files == nil {
		opts.Files = NewFileStore(afero.NewMemMapFs())
	}
	if opts.Fetcher == nil {
		opts.Fetcher = NewFetcher(afero.NewOsFs(), nil, opts.Logger)
	}
	if opts.Events == nil {
		opts.Events = &LogEvents{Logger: opts.Logger}
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics(nil)
	}
	return &Deployment{
		Context:  c,
		Store:    s,
		Registry: r,
		Options:  opts,
		ids:      map[Kind]map[int64]int64{},
		fileIDs:  map[int64]int64{},
		locales:  map[int64]string{},
		logger: opts.Logger.WithFields(logrus.Fields{
			"run":     uuid.New().String(),
			"context": c.Path,
		}),
	}, nil
}

// Report returns the issues recorded so far.
func (d *Deployment) Report() *Report {
	return &d.report
}

// Warn records a warning against an entity.
func (d *Deployment) Warn(k Kind, id int64, format string, args ...interface{}) {
	d.record(SeverityWarning, k, id, fmt.Sprintf(format, args...))
}

// Error records a non-fatal error against an entity.
func (d *Deployment) Error(k Kind, id int64, format string, args ...interface{}) {
	d.record(SeverityError, k, id, fmt.Sprintf(format, args...))
}

func (d *Deployment) record(s Severity, k Kind, id int64, msg string) {
	if n := len(d.holds); n > 0 && d.holds[n-1].kind == k {
		h := d.holds[n-1]
		h.issues = append(h.issues, Issue{Severity: s, Kind: k, EntityID: id, Message: msg})
		return
	}
	d.report.add(Issue{Severity: s, Kind: k, EntityID: id, Message: msg})
	d.Metrics.issue(s)
	logger := d.logger.WithFields(logrus.Fields{"kind": k, "id": id})
	if s == SeverityError {
		logger.Error(msg)
	} else {
		logger.Warn(msg)
	}
}

// hold buffers the issues recorded for kind k until the matching release,
// which records them against the ID the entity was stored under.
func (d *Deployment) hold(k Kind) {
	d.holds = append(d.holds, &held{kind: k})
}

// release records the issues of the innermost hold against id.
func (d *Deployment) release(id int64) {
	n := len(d.holds)
	if n == 0 {
		return
	}
	h := d.holds[n-1]
	d.holds = d.holds[:n-1]
	for _, i := range h.issues {
		d.record(i.Severity, i.Kind, id, i.Message)
	}
}

// MapID records that the entity known as old in the document was stored
// as newID.
func (d *Deployment) MapID(k Kind, old, newID int64) {
	if old == 0 {
		return
	}
	m, ok := d.ids[k]
	if !ok {
		m = map[int64]int64{}
		d.ids[k] = m
	}
	m[old] = newID
}

// LookupID returns the stored ID of a document ID.
func (d *Deployment) LookupID(k Kind, old int64) (int64, bool) {
	id, ok := d.ids[k][old]
	return id, ok
}

// MapFileID records the stored ID of a file revision.
func (d *Deployment) MapFileID(old, newID int64) {
	if old == 0 {
		return
	}
	d.fileIDs[old] = newID
}

// LookupFileID returns the stored ID of a document revision ID.
func (d *Deployment) LookupFileID(old int64) (int64, bool) {
	id, ok := d.fileIDs[old]
	return id, ok
}

// ImportedSubmissions lists the submissions stored by this run.
func (d *Deployment) ImportedSubmissions() []int64 {
	return append([]int64(nil), d.submissions...)
}

// Export renders an entity with the codec of its kind.
func (d *Deployment) Export(ctx context.Context, k Kind, v interface{}) (*etree.Element, error) {
	c, err := d.Registry.Codec(k)
	if err != nil {
		return nil, err
	}
	el, err := c.Export(ctx, d, v)
	if err != nil {
		return nil, err
	}
	if el != nil {
		d.Metrics.entity(k, Export)
	}
	return el, nil
}

// Import stores the entity described by el with the codec of its kind.
func (d *Deployment) Import(ctx context.Context, k Kind, el *etree.Element, p Parent) (interface{}, error) {
	c, err := d.Registry.Codec(k)
	if err != nil {
		return nil, err
	}
	v, err := c.Import(ctx, d, el, p)
	if err != nil {
		return nil, err
	}
	if v != nil {
		d.Metrics.entity(k, Import)
	}
	return v, nil
}

// element returns the tag used for a kind by the current registry.
func (d *Deployment) element(k Kind) string {
	c, err := d.Registry.Codec(k)
	if err != nil {
		return ""
	}
	return c.Element()
}

// locale returns the default locale of the elements under p: the locale of
// the enclosing submission or the context's primary locale.
func (d *Deployment) locale(ctx context.Context, p Parent) string {
	if p.SubmissionID == 0 {
		return d.Context.PrimaryLocale
	}
	if locale, ok := d.locales[p.SubmissionID]; ok {
		return locale
	}
	locale := d.Context.PrimaryLocale
	if s, err := d.Store.Submissions.Get(ctx, p.SubmissionID); err == nil && s.Locale != "" {
		locale = s.Locale
	}
	d.locales[p.SubmissionID] = locale
	return locale
}

func (d *Deployment) now() time.Time {
	return time.Now().UTC()
}

// collection returns the wrapper tag used for a kind.
func (d *Deployment) collection(k Kind) string {
	c, err := d.Registry.Codec(k)
	if err != nil {
		return ""
	}
	return c.Collection()
}
