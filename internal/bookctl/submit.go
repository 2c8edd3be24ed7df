package bookctl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"bookstore-admin/internal/catalogclient"
	"bookstore-admin/internal/shared/id"
	"bookstore-admin/internal/submission"
)

var errSubmissionFailed = errors.New("submission failed")

type submitOptions struct {
	File     string
	Edition  string
	Audience string
	API      string
	Token    string
	UserID   string
	Role     string
	Timeout  time.Duration
}

func newSubmitCmd() *cobra.Command {
	var opts submitOptions

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Upload a draft's attachments and create the book",
		Long: `Submit runs the whole add-book pipeline against a remote API: the draft is
validated, every attachment is uploaded, and the catalog record is created.
Exits with status 1 when the attempt fails.`,
		Example: `  bookctl submit -f ebook.yaml --edition electronic --audience vendor \
    --api https://admin.example.com --token $BOOKSTORE_API_TOKEN

  # local API, dev headers instead of a token
  bookctl submit -f draft.yaml --api http://localhost:8080 --user dev --role admin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.API == "" {
				opts.API = os.Getenv("BOOKSTORE_API_URL")
			}
			if opts.Token == "" {
				opts.Token = os.Getenv("BOOKSTORE_API_TOKEN")
			}
			return runSubmit(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "Path to the YAML draft (required)")
	cmd.Flags().StringVar(&opts.Edition, "edition", string(submission.KindPaper), "Edition kind: paper or electronic")
	cmd.Flags().StringVar(&opts.Audience, "audience", string(submission.AudienceAdmin), "Form audience: admin or vendor")
	cmd.Flags().StringVar(&opts.API, "api", "", "Base URL of the API (default $BOOKSTORE_API_URL)")
	cmd.Flags().StringVar(&opts.Token, "token", "", "Bearer token (default $BOOKSTORE_API_TOKEN)")
	cmd.Flags().StringVar(&opts.UserID, "user", "", "X-User-Id for dev servers when no token is given")
	cmd.Flags().StringVar(&opts.Role, "role", "admin", "X-Role for dev servers when no token is given")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", time.Minute, "Per-request timeout")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runSubmit(ctx context.Context, stdout, stderr io.Writer, opts submitOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ed, err := submission.NewEdition(submission.EditionKind(opts.Edition), submission.Audience(opts.Audience))
	if err != nil {
		return err
	}
	draft, err := loadDraft(opts.File)
	if err != nil {
		return err
	}
	client, err := catalogclient.New(catalogclient.Options{
		BaseURL: opts.API,
		Token:   opts.Token,
		UserID:  opts.UserID,
		Role:    opts.Role,
		Timeout: opts.Timeout,
	})
	if err != nil {
		return err
	}

	formID, err := id.Generate("cli")
	if err != nil {
		return err
	}
	orch := submission.New(formID, ed, submission.Deps{
		Uploader:  client,
		Submitter: client,
		Orphans:   stderrOrphans{w: stderr},
		Presenter: newTerminalPresenter(stdout),
	})
	if err := orch.Update(func(d *submission.Draft) error {
		*d = draft
		return nil
	}); err != nil {
		return err
	}

	state, err := orch.Submit(ctx)
	if err != nil {
		return err
	}
	if state.Phase != submission.PhaseSucceeded {
		return fmt.Errorf("%w: %s", errSubmissionFailed, state.Error)
	}
	return nil
}
