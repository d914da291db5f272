package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/maxviazov/recent-repos/internal/service"
)

type renderOptions struct {
	output string
	watch  bool
	strict bool
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Enhance one HTML page and write the result",
		Long: `Render reads an HTML page (a file, or stdin when the argument is "-" or
missing), fills its render container with repository tables and writes the
page to stdout or to --output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(root)
			if err != nil {
				return err
			}
			defer a.Close()

			input := "-"
			if len(args) == 1 {
				input = args[0]
			}

			if opts.watch {
				if input == "-" || opts.output == "" {
					return errors.New("--watch needs an input file and --output")
				}
				return watchAndRender(cmd.Context(), a, input, opts)
			}
			return renderOnce(cmd.Context(), a.pages, input, opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the page to this file instead of stdout")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-render whenever the input file changes")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit non-zero when any user's table could not be rendered")
	return cmd
}

// renderOnce runs a single pipeline pass. The output is only written once the
// whole document is ready, so a failed run never truncates an existing file.
func renderOnce(ctx context.Context, pages service.PageService, input string, opts *renderOptions, stdin io.Reader, stdout io.Writer) error {
	in := stdin
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	var buf bytes.Buffer
	rep, err := pages.Enhance(ctx, in, &buf)
	if err != nil {
		return err
	}

	if opts.output == "" {
		if _, err := stdout.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	} else if err := os.WriteFile(opts.output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if opts.strict {
		return rep.Err()
	}
	return nil
}
