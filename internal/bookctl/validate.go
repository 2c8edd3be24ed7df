package bookctl

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bookstore-admin/internal/submission"
)

// errInvalidDraft makes the command exit non-zero after the violations were printed.
var errInvalidDraft = errors.New("draft is not valid")

func newValidateCmd() *cobra.Command {
	var (
		file     string
		edition  string
		audience string
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a draft against an edition's field rules",
		Example: `  bookctl validate -f draft.yaml --edition paper
  bookctl validate -f ebook.yaml --edition electronic`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), file, edition, audience)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the YAML draft (required)")
	cmd.Flags().StringVar(&edition, "edition", string(submission.KindPaper), "Edition kind: paper or electronic")
	cmd.Flags().StringVar(&audience, "audience", string(submission.AudienceAdmin), "Form audience: admin or vendor")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runValidate(w io.Writer, file, edition, audience string) error {
	ed, err := submission.NewEdition(submission.EditionKind(edition), submission.Audience(audience))
	if err != nil {
		return err
	}
	draft, err := loadDraft(file)
	if err != nil {
		return err
	}

	violations := submission.Validate(ed, draft)
	if len(violations) == 0 {
		fmt.Fprintf(w, "%s: valid %s draft\n", file, ed.Kind)
		return nil
	}
	fmt.Fprintf(w, "%s: %d problem(s)\n", file, len(violations))
	for _, v := range violations {
		fmt.Fprintf(w, "    %s\n", v)
	}
	return errInvalidDraft
}
