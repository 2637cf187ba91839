package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vango-dev/sitekit/pkg/validate"
)

// errInvalid makes the command exit non-zero without extra output.
type errInvalid struct{ message string }

func (e errInvalid) Error() string { return e.message }

func validateCmd() *cobra.Command {
	var f validate.Field
	var kind string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check one field value against the form rules",
		Long: `Run the contact form field rules against a single value.

Examples:
  sitekit validate --kind=email --value=ada@example.com
  sitekit validate --kind=tel --value=555 --required
  sitekit validate --kind=checkbox --value=on --required --checked=false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f.Kind = validate.Kind(kind)
			return runValidate(cmd.OutOrStdout(), f)
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", string(validate.KindText), "Field type (text, email, tel, textarea, checkbox, ...)")
	cmd.Flags().StringVarP(&f.Value, "value", "v", "", "Field value")
	cmd.Flags().StringVar(&f.ID, "id", "", "Field id")
	cmd.Flags().StringVar(&f.Name, "name", "", "Field name")
	cmd.Flags().BoolVarP(&f.Required, "required", "r", false, "Field is required")
	cmd.Flags().BoolVar(&f.Checked, "checked", false, "Checkbox state")

	return cmd
}

func runValidate(w io.Writer, f validate.Field) error {
	r := validate.Validate(f)
	if !r.Valid {
		fmt.Fprintf(w, "\033[31m✗\033[0m %s\n", r.Message)
		return errInvalid{r.Message}
	}
	fmt.Fprintln(w, "\033[32m✓\033[0m valid")
	return nil
}
