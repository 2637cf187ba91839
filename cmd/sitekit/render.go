package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/sitekit/internal/errors"
	"github.com/vango-dev/sitekit/pkg/clock"
	"github.com/vango-dev/sitekit/pkg/page"
)

func renderCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Print a page as it is first served",
		Long: `Load an HTML page, apply the load-time preparation (lazy images,
active navigation link, hydration ids) and print the result.

Examples:
  sitekit render site/index.html
  sitekit render site/contact.html --path=/contact.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := renderFile(args[0], path)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "/", "URL path the page is served under")

	return cmd
}

func renderFile(file, path string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", errors.New("E300").WithDetail("Cannot open " + file).Wrap(err)
	}
	defer f.Close()

	p, err := page.Load(f, clock.Real{}, page.WithPath(path))
	if err != nil {
		return "", err
	}
	defer p.Close()
	return p.HTML(), nil
}
