package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"skillman/internal/app"
	"skillman/internal/bulkops"
	"skillman/internal/dashboard"
	"skillman/internal/registry"
)

type ExitCoder interface {
	ExitCode() int
}

type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }
func (e *exitError) ExitCode() int { return e.code }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if ex, ok := err.(ExitCoder); ok {
			os.Exit(ex.ExitCode())
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var jsonOutput bool
	var qualityCommand string
	var updaterCommand string
	var interactive bool
	var sortFlag string

	newSvc := func() (*app.Service, error) {
		return app.New(app.Options{
			ConfigPath:     configPath,
			QualityCommand: qualityCommand,
			UpdaterCommand: updaterCommand,
		})
	}

	cmd := &cobra.Command{
		Use:           "skillman",
		Short:         "Status dashboard and maintenance runner for local skill directories",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := registry.ParseSortKey(sortFlag)
			if err != nil {
				return err
			}
			svc, err := newSvc()
			if err != nil {
				return err
			}
			if _, err := svc.Scan(cmd.Context()); err != nil {
				return err
			}
			if interactive {
				return runInteractive(cmd.Context(), svc, key, os.Stdin, os.Stdout)
			}
			if jsonOutput {
				return print(true, svc.Snapshot(), "")
			}
			fmt.Print(dashboard.Render(svc.DashboardView(key)))
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")
	cmd.PersistentFlags().StringVar(&qualityCommand, "quality-checker", "", "override the configured quality checker command")
	cmd.PersistentFlags().StringVar(&updaterCommand, "updater", "", "override the configured updater command")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "interactive dashboard loop")
	cmd.Flags().StringVar(&sortFlag, "sort", "name", "dashboard order: name|age|quality")

	cmd.AddCommand(newScanCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newShowCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newCheckCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newUpdateCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newInitCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newReportCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newPathCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newDoctorCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newVersionCmd(newSvc, &jsonOutput))

	return cmd
}

func newScanCmd(newSvc func() (*app.Service, error), jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:     "scan",
		Aliases: []string{"rescan", "discover"},
		Short:   "Rescan the search paths for skill directories",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			res, err := svc.Scan(cmd.Context())
			if err != nil {
				return err
			}
			if *jsonOutput {
				return print(true, res, "")
			}
			for _, rec := range res.Records {
				fmt.Printf("- %s (%s)\n", rec.Name, rec.Path)
			}
			for _, d := range res.Duplicates {
				fmt.Printf("duplicate skill name %s at %s (kept %s)\n", d.Name, d.Path, d.Kept)
			}
			for _, root := range res.MissingRoots {
				fmt.Printf("search path matches no directory: %s\n", root)
			}
			fmt.Println(countSkills(len(res.Records)))
			return nil
		},
	}
}

func newShowCmd(newSvc func() (*app.Service, error), jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:     "show <name>",
		Aliases: []string{"info", "details"},
		Short:   "Show one skill in detail",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			if _, err := svc.Scan(cmd.Context()); err != nil {
				return err
			}
			if *jsonOutput {
				rec, ok := svc.Registry.Get(args[0])
				if !ok {
					return fmt.Errorf("SCAN_UNKNOWN_SKILL: no skill named %q", args[0])
				}
				return print(true, rec, "")
			}
			details, err := svc.Show(args[0])
			if err != nil {
				return err
			}
			fmt.Print(details)
			return nil
		},
	}
}

func newCheckCmd(newSvc func() (*app.Service, error), jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:     "check",
		Aliases: []string{"check-quality", "quality"},
		Short:   "Run the quality checker over every skill",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBulk(cmd, newSvc, *jsonOutput, "check", func(ctx context.Context, svc *app.Service, progress bulkops.ProgressFunc) (bulkops.Summary, error) {
				return svc.CheckQuality(ctx, progress)
			})
		},
	}
}

func newUpdateCmd(newSvc func() (*app.Service, error), jsonOutput *bool) *cobra.Command {
	var checkOnly bool
	var dryRun bool
	cmd := &cobra.Command{
		Use:     "update",
		Aliases: []string{"upgrade"},
		Short:   "Run the updater over every skill with metadata",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if checkOnly {
				return runBulk(cmd, newSvc, *jsonOutput, "update-check", func(ctx context.Context, svc *app.Service, progress bulkops.ProgressFunc) (bulkops.Summary, error) {
					return svc.CheckUpdates(ctx, progress)
				})
			}
			return runBulk(cmd, newSvc, *jsonOutput, "update", func(ctx context.Context, svc *app.Service, progress bulkops.ProgressFunc) (bulkops.Summary, error) {
				return svc.UpdateAll(ctx, dryRun, progress)
			})
		},
	}
	cmd.Flags().BoolVar(&checkOnly, "check", false, "only check for available updates")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "pass --dry-run to the updater and write nothing")
	return cmd
}

func newInitCmd(newSvc func() (*app.Service, error), jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:     "init",
		Aliases: []string{"init-metadata"},
		Short:   "Create metadata sidecars for skills that lack one",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if _, err := svc.Scan(ctx); err != nil {
				return err
			}
			if svc.Registry.Len() == 0 {
				return print(*jsonOutput, bulkops.Summary{Op: "init"}, "No skills found")
			}
			var progress bulkops.ProgressFunc
			if !*jsonOutput {
				progress = progressTo(os.Stdout)
			}
			sum, err := svc.InitMetadata(ctx, progress)
			if err != nil {
				return err
			}
			if sum.Total == 0 {
				return print(*jsonOutput, sum, "All skills already have metadata")
			}
			return finishBulk(*jsonOutput, sum)
		},
	}
}

func newReportCmd(newSvc func() (*app.Service, error), jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:     "report [file]",
		Aliases: []string{"export"},
		Short:   "Render the markdown status report",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			svc, err := newSvc()
			if err != nil {
				return err
			}
			if _, err := svc.Scan(cmd.Context()); err != nil {
				return err
			}
			markdown, err := svc.Report(cmd.Context(), path)
			if err != nil {
				return err
			}
			if path == "" {
				if *jsonOutput {
					return print(true, map[string]string{"markdown": markdown}, "")
				}
				fmt.Print(markdown)
				return nil
			}
			return print(*jsonOutput, map[string]string{"path": path}, "Report saved to: "+path)
		},
	}
}

func newPathCmd(newSvc func() (*app.Service, error), jsonOutput *bool) *cobra.Command {
	pathCmd := &cobra.Command{Use: "path", Aliases: []string{"paths"}, Short: "Manage search paths"}

	addCmd := &cobra.Command{
		Use:   "add <dir>",
		Short: "Add a search path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			if err := svc.PathAdd(args[0]); err != nil {
				return err
			}
			return print(*jsonOutput, map[string]string{"added": args[0]}, "added search path "+args[0])
		},
	}

	removeCmd := &cobra.Command{
		Use:     "remove <dir>",
		Aliases: []string{"rm"},
		Short:   "Remove a search path",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			if err := svc.PathRemove(args[0]); err != nil {
				return err
			}
			return print(*jsonOutput, map[string]string{"removed": args[0]}, "removed search path "+args[0])
		},
	}

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List search paths",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			paths := svc.PathList()
			if *jsonOutput {
				return print(true, paths, "")
			}
			if len(paths) == 0 {
				fmt.Println("no search paths configured")
				return nil
			}
			for _, p := range paths {
				fmt.Println("- " + p)
			}
			return nil
		},
	}

	pathCmd.AddCommand(addCmd, removeCmd, listCmd)
	return pathCmd
}

func newDoctorCmd(newSvc func() (*app.Service, error), jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:     "doctor",
		Aliases: []string{"diag", "checkup"},
		Short:   "Run diagnostics",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			report := svc.DoctorRun(cmd.Context())
			if *jsonOutput {
				if err := print(true, report, ""); err != nil {
					return err
				}
			} else if report.Healthy {
				fmt.Println("healthy")
				for _, f := range report.Findings {
					if f.Level == "warn" {
						fmt.Printf("- [%s] %s: %s\n", f.Level, f.Code, f.Message)
					}
				}
			} else {
				fmt.Println("issues found:")
				for _, f := range report.Findings {
					if f.Level == "ok" {
						continue
					}
					fmt.Printf("- [%s] %s: %s\n", f.Level, f.Code, f.Message)
				}
			}
			if !report.Healthy {
				return &exitError{code: 1, msg: "doctor found problems"}
			}
			return nil
		},
	}
}

// runBulk is the shared spine of check and update: resolve the service,
// rescan, refuse the empty set, run the pass with [i/N] progress, then
// turn failures into exit status 1 once the summary is out.
func runBulk(cmd *cobra.Command, newSvc func() (*app.Service, error), jsonOutput bool, op string, pass func(context.Context, *app.Service, bulkops.ProgressFunc) (bulkops.Summary, error)) error {
	svc, err := newSvc()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if _, err := svc.Scan(ctx); err != nil {
		return err
	}
	if svc.Registry.Len() == 0 {
		return print(jsonOutput, bulkops.Summary{Op: op}, "No skills found")
	}
	var progress bulkops.ProgressFunc
	if !jsonOutput {
		progress = progressTo(os.Stdout)
	}
	sum, err := pass(ctx, svc, progress)
	if err != nil {
		return err
	}
	return finishBulk(jsonOutput, sum)
}

func finishBulk(jsonOutput bool, sum bulkops.Summary) error {
	if jsonOutput {
		if err := print(true, sum, ""); err != nil {
			return err
		}
	} else {
		writeSummary(os.Stdout, sum)
	}
	if sum.Failed > 0 {
		return &exitError{code: 1, msg: fmt.Sprintf("%s: %d of %d failed", sum.Op, sum.Failed, sum.Total)}
	}
	return nil
}

func writeSummary(out io.Writer, sum bulkops.Summary) {
	line := sum.Line()
	if sum.DryRun {
		line += " (dry run)"
	}
	fmt.Fprintln(out, line)
	if sum.UpdatesAvailable > 0 {
		fmt.Fprintf(out, "updates available: %d\n", sum.UpdatesAvailable)
	}
}

func progressTo(out io.Writer) bulkops.ProgressFunc {
	return func(p bulkops.Progress) {
		switch p.Phase {
		case "start":
			fmt.Fprintf(out, "[%d/%d] %s ... ", p.Index, p.Total, p.Skill)
		case "done":
			if p.Outcome == nil || p.Outcome.Detail == "" {
				fmt.Fprintln(out, "done")
				return
			}
			if p.Outcome.Status == bulkops.StatusOK {
				fmt.Fprintln(out, p.Outcome.Detail)
				return
			}
			fmt.Fprintf(out, "%s: %s\n", p.Outcome.Status, p.Outcome.Detail)
		}
	}
}

func countSkills(n int) string {
	if n == 1 {
		return "found 1 skill"
	}
	return fmt.Sprintf("found %d skills", n)
}

func print(jsonOutput bool, payload any, message string) error {
	if jsonOutput {
		blob, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(blob))
		return nil
	}
	if message != "" {
		fmt.Println(message)
	}
	return nil
}
