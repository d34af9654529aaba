package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"pbix-insight/src/service/ghactions"
	"pbix-insight/src/util"
)

func (h *Handler) extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Manage the Windows extraction workflow",
		Long: "Triggers and inspects the GitHub Actions workflow that produces full " +
			".dax and .bim extraction artifacts. The workflow only sees PBIX files " +
			"committed to the configured repository.",
	}

	cmd.AddCommand(h.extractTriggerCmd())
	cmd.AddCommand(h.extractStatusCmd())

	return cmd
}

func (h *Handler) extractTriggerCmd() *cobra.Command {
	var (
		pbixPath           string
		runAll             bool
		modelSerialization string
		timeout            time.Duration
	)

	cmd := &cobra.Command{
		Use:   "trigger",
		Short: "Dispatch the extraction workflow",
		RunE: func(cmd *cobra.Command, args []string) error {
			if h.cfg.GitHub.Token == "" {
				return fmt.Errorf("github.token is required (set GITHUB_TOKEN via config expansion)")
			}
			if !runAll && pbixPath == "" {
				return fmt.Errorf("--pbix-path is required unless --all is set")
			}

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			client := ghactions.NewClient(h.cfg.GitHub)
			if err := client.TriggerExtract(ctx, h.cfg.GitHub.Ref, runAll, pbixPath, modelSerialization); err != nil {
				return fmt.Errorf("triggering workflow: %w", err)
			}

			util.Info("Workflow %s dispatched on %s@%s", h.cfg.GitHub.WorkflowFile, h.cfg.GitHub.Repo, h.cfg.GitHub.Ref)
			fmt.Println("Workflow triggered successfully.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&pbixPath, "pbix-path", "p", "", "PBIX path inside the repository")
	cmd.Flags().BoolVar(&runAll, "all", false, "Extract every PBIX in the repository")
	cmd.Flags().StringVarP(&modelSerialization, "serialization", "s", "Legacy", "Model serialization (Legacy, Tmdl, Raw, Default)")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", time.Minute, "Request timeout")

	return cmd
}

func (h *Handler) extractStatusCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the latest extraction workflow run and its artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if h.cfg.GitHub.Token == "" {
				return fmt.Errorf("github.token is required (set GITHUB_TOKEN via config expansion)")
			}

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			client := ghactions.NewClient(h.cfg.GitHub)
			run, err := client.LatestRun(ctx)
			if err != nil {
				return fmt.Errorf("fetching workflow run: %w", err)
			}
			if run == nil {
				fmt.Println("No workflow runs found.")
				return nil
			}

			fmt.Printf("Run %d: status=%s conclusion=%s\n", run.ID, run.Status, run.Conclusion)
			fmt.Printf("  created: %s  updated: %s\n", run.CreatedAt, run.UpdatedAt)
			fmt.Printf("  url: %s\n", run.HTMLURL)

			artifacts, err := client.ArtifactsForRun(ctx, run.ID)
			if err != nil {
				return fmt.Errorf("fetching run artifacts: %w", err)
			}
			if len(artifacts) == 0 {
				fmt.Println("No artifacts uploaded yet.")
				return nil
			}

			fmt.Println("Artifacts:")
			for _, a := range artifacts {
				fmt.Printf("  - %s (%d bytes)\n", a.Name, a.SizeInBytes)
			}
			if run.Conclusion == "success" {
				fmt.Println("Download the extraction artifact and pass it to analyze --artifact-zip.")
			}
			return nil
		},
	}

	cmd.Flags().DurationVarP(&timeout, "timeout", "t", time.Minute, "Request timeout")

	return cmd
}
