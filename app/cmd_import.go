package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/JiscSD/native-xml-adapter/model"
	"github.com/JiscSD/native-xml-adapter/native"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func NewCmdImport(out io.Writer, logger logrus.FieldLogger, config *Config) *cobra.Command {
	var (
		contextPath string
		parent      native.Parent
	)
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a native XML document into a context",
		Long: "Import a native XML document into a context.\n\n" +
			"Documents describing contexts can be imported without --context.\n" +
			"Documents rooted at entities that belong to another one (publications,\n" +
			"authors, galleys, submission files, review rounds and assignments,\n" +
			"queries and notes) need the ID of their parent.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doImport(cmd.Context(), out, logger, config, args[0], contextPath, parent)
		},
	}

	cmd.Flags().StringVar(&contextPath, "context", "", "Path of the target context")
	cmd.Flags().Int64Var(&parent.SubmissionID, "submission", 0, "ID of the parent submission")
	cmd.Flags().Int64Var(&parent.PublicationID, "publication", 0, "ID of the parent publication")
	cmd.Flags().Int64Var(&parent.ReviewRoundID, "review-round", 0, "ID of the parent review round")
	cmd.Flags().Int64Var(&parent.QueryID, "query", 0, "ID of the parent query")

	return cmd
}

func doImport(ctx context.Context, out io.Writer, logger logrus.FieldLogger, config *Config, file, contextPath string, parent native.Parent) (err error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return errors.Wrap(err, "cannot read file")
	}

	rt, err := newRuntime(ctx, logger, config)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rt.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	var c *model.Context
	if contextPath == "" {
		var kind native.Kind
		kind, err = native.RootKind(bytes.NewReader(data), rt.registry)
		if err != nil {
			return err
		}
		if kind != native.KindContext {
			return errors.New("--context is required unless the document describes contexts")
		}
		if parent != (native.Parent{}) {
			return errors.New("parent flags need --context")
		}
		c = &model.Context{PrimaryLocale: "en"}
	} else {
		c, err = rt.context(ctx, contextPath)
		if err != nil {
			return err
		}
	}

	dir := config.Import.Dir
	if dir == "" {
		dir = filepath.Dir(file)
	}
	d, err := rt.deployment(c, native.Options{ImportDir: dir})
	if err != nil {
		return err
	}

	items, err := d.ImportDocument(ctx, bytes.NewReader(data), parent)
	printReport(out, d.Report())
	if err != nil {
		return errors.Wrapf(err, "import of %s failed", file)
	}
	if p := rt.publisher(d.Context); p != nil {
		if err := p.ImportCompleted(ctx, filepath.Base(file), len(items), d.Report()); err != nil {
			logger.WithError(err).Warn("Import summary could not be published.")
		}
	}
	_, err = fmt.Fprintf(out, "%d item(s) imported.\n", len(items))
	return err
}
