package native

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	d := newTestDeployment(t, Options{})
	d.Warn(KindAuthor, 3, "author %s has no email", "Ana")
	d.Error(KindPublication, 1, "unknown section %q", "XYZ")
	d.Warn(KindGalley, 0, "no label")

	r := d.Report()
	assert.True(t, r.HasErrors())
	assert.Len(t, r.Issues(), 3)
	assert.Len(t, r.Warnings(), 2)
	require.Len(t, r.Errors(), 1)
	assert.Equal(t, `error: publication #1: unknown section "XYZ"`, r.Errors()[0].String())
	assert.Equal(t, "warning: author #3: author Ana has no email\n"+
		"error: publication #1: unknown section \"XYZ\"\n"+
		"warning: "+KindGalley.String()+" #0: no label\n", r.String())

	// Issues returns a copy.
	issues := r.Issues()
	issues[0].Message = "changed"
	assert.Equal(t, "author Ana has no email", r.Issues()[0].Message)
}

func TestMetrics(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	d := newTestDeployment(t, Options{IncludeWorkflow: true, Metrics: m})

	_, err := d.ImportDocument(ctx, fixture(t, "submission_review.xml"), Parent{})
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Issues.WithLabelValues(SeverityError.String())))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Issues.WithLabelValues(SeverityWarning.String())))
	for kind, want := range map[Kind]float64{
		KindSubmission:       1,
		KindSubmissionFile:   1,
		KindPublication:      1,
		KindAuthor:           1,
		KindReviewRound:      1,
		KindReviewAssignment: 1,
		KindQuery:            1,
		KindNote:             1,
	} {
		got := testutil.ToFloat64(m.Entities.WithLabelValues(kind.String(), Import.String()))
		assert.Equal(t, want, got, kind.String())
	}

	n, err := testutil.GatherAndCount(reg, "native_xml_adapter_entities_total")
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}
