package app

import (
	"fmt"
	"io"
	"os"

	"github.com/JiscSD/native-xml-adapter/native"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func NewCmdValidate(out io.Writer, config *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate native XML documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doValidate(out, config, args[0])
		},
	}
}

func doValidate(out io.Writer, config *Config, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return errors.Wrap(err, "cannot read file")
	}
	defer f.Close()

	profile, err := native.ParseProfile(config.Import.Profile)
	if err != nil {
		return err
	}
	reg, err := native.NewProfileRegistry(profile)
	if err != nil {
		return err
	}
	if err := native.Validate(f, reg); err != nil {
		fmt.Fprintln(out, "The document is invalid!")
		return err
	}
	_, err = fmt.Fprintln(out, "The document is valid.")
	return err
}
