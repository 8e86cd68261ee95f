package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xavierca1/woo-crm/internal/config"
	"github.com/xavierca1/woo-crm/internal/infra/database"
	"github.com/xavierca1/woo-crm/internal/usecase"
)

var (
	formTitle   string
	formTags    []string
	formReplace bool
)

var formsCmd = &cobra.Command{
	Use:   "forms",
	Short: "List or import lead capture forms",
}

var formsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List forms",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(true)
		if err != nil {
			return err
		}
		defer e.close()

		ctx, cancel := commandContext(cmd)
		defer cancel()

		admin := usecase.NewFormAdmin(database.NewFormRepository(e.db), database.NewFormVariantRepository(e.db), e.log)
		forms, err := admin.List(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SLUG\tTITLE\tSTATUS\tFIELDS")
		for _, f := range forms {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", f.Slug, f.Title, f.Status, len(f.Fields))
		}
		return tw.Flush()
	},
}

var formsImportCmd = &cobra.Command{
	Use:   "import <slug> <fields.yaml>",
	Short: "Create a form from a YAML field list",
	Long: `Create a form whose fields are read from a YAML list:

  - name: email
    type: email
    required: true
  - name: message
    type: textarea

With --replace an existing form of the same slug is updated instead.`,
	Args: cobra.ExactArgs(2),
	RunE: runFormsImport,
}

func init() {
	formsImportCmd.Flags().StringVar(&formTitle, "title", "", "Form title (default: the slug)")
	formsImportCmd.Flags().StringSliceVar(&formTags, "tags", nil, "Tags applied to every submission")
	formsImportCmd.Flags().BoolVar(&formReplace, "replace", false, "Update the form if the slug exists")
}

func runFormsImport(cmd *cobra.Command, args []string) error {
	slug, path := args[0], args[1]
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	fields, err := config.FieldsFromYAML(raw)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	title := formTitle
	if title == "" {
		title = slug
	}
	input := usecase.FormInput{Slug: slug, Title: title, Fields: fields, DefaultTags: formTags}

	e, err := newEnv(true)
	if err != nil {
		return err
	}
	defer e.close()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	admin := usecase.NewFormAdmin(database.NewFormRepository(e.db), database.NewFormVariantRepository(e.db), e.log)
	form, err := admin.Create(ctx, input)

	var de *usecase.DomainError
	if errors.As(err, &de) && de.Code == "FORM_SLUG_TAKEN" && formReplace {
		form, err = admin.Update(ctx, slug, input)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "form %s saved with %d fields\n", form.Slug, len(form.Fields))
	return nil
}
