package app

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/JiscSD/native-xml-adapter/model"
	"github.com/JiscSD/native-xml-adapter/native"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type exportOptions struct {
	contextPath string
	submissions []int64
	reviewForms bool
	workflow    bool
}

func NewCmdExport(out io.Writer, logger logrus.FieldLogger, config *Config) *cobra.Command {
	opts := exportOptions{}
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Export the submissions or review forms of a context",
		Long: "Export the submissions or review forms of a context.\n\n" +
			"Use - as FILE to write the document to the standard output.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// The report must not end up in a document written to stdout.
			report := out
			if args[0] == "-" {
				report = cmd.ErrOrStderr()
			}
			return doExport(cmd.Context(), out, report, logger, config, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.contextPath, "context", "", "Path of the context")
	cmd.Flags().Int64SliceVar(&opts.submissions, "submission", nil, "Submission ID (repeatable, defaults to all)")
	cmd.Flags().BoolVar(&opts.reviewForms, "review-forms", false, "Export review forms instead of submissions")
	cmd.Flags().BoolVar(&opts.workflow, "workflow", false, "Include review rounds, queries and workflow-only files")
	_ = cmd.MarkFlagRequired("context")

	return cmd
}

func doExport(ctx context.Context, out, report io.Writer, logger logrus.FieldLogger, config *Config, file string, opts exportOptions) (err error) {
	rt, err := newRuntime(ctx, logger, config)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rt.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	c, err := rt.context(ctx, opts.contextPath)
	if err != nil {
		return err
	}
	d, err := rt.deployment(c, native.Options{
		EmbedFiles:      config.Export.EmbedFiles,
		ExportBaseURL:   config.Export.BaseURL,
		IncludeWorkflow: config.Export.IncludeWorkflow || opts.workflow,
	})
	if err != nil {
		return err
	}

	kind, items, err := exportItems(ctx, d, opts)
	if err != nil {
		return err
	}
	doc, err := d.ExportDocument(ctx, kind, items...)
	printReport(report, d.Report())
	if err != nil {
		return errors.Wrap(err, "export failed")
	}
	blob, err := doc.WriteToBytes()
	if err != nil {
		return errors.Wrap(err, "document cannot be serialized")
	}
	if !config.Export.NoValidation {
		if err := native.Validate(bytes.NewReader(blob), rt.registry); err != nil {
			return errors.Wrap(err, "exported document is not valid")
		}
	}

	if file == "-" {
		_, err = out.Write(blob)
		return err
	}
	if err := afero.WriteFile(afero.NewOsFs(), file, blob, 0o644); err != nil {
		return errors.Wrapf(err, "cannot write %s", file)
	}
	_, err = fmt.Fprintf(report, "%d item(s) exported to %s.\n", len(items), file)
	return err
}

// exportItems lists the entities selected by the command line.
func exportItems(ctx context.Context, d *native.Deployment, opts exportOptions) (native.Kind, []interface{}, error) {
	var items []interface{}
	if opts.reviewForms {
		forms, err := d.Store.ReviewForms.Find(ctx, func(f *model.ReviewForm) bool { return f.ContextID == d.Context.ID })
		if err != nil {
			return 0, nil, errors.Wrap(err, "review forms cannot be listed")
		}
		for _, f := range forms {
			items = append(items, f)
		}
		return native.KindReviewForm, items, nil
	}

	wanted := map[int64]bool{}
	for _, id := range opts.submissions {
		wanted[id] = true
	}
	submissions, err := d.Store.Submissions.Find(ctx, func(s *model.Submission) bool {
		return s.ContextID == d.Context.ID && (len(wanted) == 0 || wanted[s.ID])
	})
	if err != nil {
		return 0, nil, errors.Wrap(err, "submissions cannot be listed")
	}
	for _, s := range submissions {
		delete(wanted, s.ID)
		items = append(items, s)
	}
	for _, id := range opts.submissions {
		if wanted[id] {
			return 0, nil, errors.Errorf("submission %d does not exist in context %q", id, d.Context.Path)
		}
	}
	return native.KindSubmission, items, nil
}
