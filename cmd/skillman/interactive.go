package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"skillman/internal/app"
	"skillman/internal/bulkops"
	"skillman/internal/dashboard"
	"skillman/internal/registry"
)

// runInteractive drives the dashboard loop: render, show the quick
// actions, read one choice, dispatch, repeat. Actions that change state
// rescan before the next render so the table never shows stale rows.
// EOF and "0" both exit cleanly.
func runInteractive(ctx context.Context, svc *app.Service, key registry.SortKey, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(out, dashboard.Render(svc.DashboardView(key)))
		fmt.Fprint(out, dashboard.Menu())
		fmt.Fprint(out, "\n  > ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		choice := strings.TrimSpace(scanner.Text())
		rescan := false
		switch choice {
		case "0", "q", "quit", "exit":
			return nil
		case "1", "2", "3", "4":
			dispatchBulk(ctx, svc, out, choice)
			rescan = true
		case "5":
			path := promptLine(scanner, out, "Output path", "skill-report.md")
			if _, err := svc.Report(ctx, path); err != nil {
				fmt.Fprintln(out, "Error:", err)
			} else {
				fmt.Fprintln(out, "Report saved to: "+path)
			}
		case "6":
			name := promptLine(scanner, out, "Skill name", "")
			if name == "" {
				continue
			}
			details, err := svc.Show(name)
			if err != nil {
				fmt.Fprintln(out, "Error:", err)
			} else {
				fmt.Fprint(out, details)
			}
		case "7":
			rescan = true
		case "8":
			dir := promptLine(scanner, out, "Directory to add", "")
			if dir == "" {
				continue
			}
			if err := svc.PathAdd(dir); err != nil {
				fmt.Fprintln(out, "Error:", err)
			} else {
				fmt.Fprintln(out, "added search path "+dir)
				rescan = true
			}
		default:
			fmt.Fprintln(out, "Invalid choice.")
		}
		if rescan {
			if _, err := svc.Scan(ctx); err != nil {
				fmt.Fprintln(out, "Error:", err)
			}
		}
	}
}

func dispatchBulk(ctx context.Context, svc *app.Service, out io.Writer, choice string) {
	if svc.Registry.Len() == 0 {
		fmt.Fprintln(out, "No skills found")
		return
	}
	progress := progressTo(out)
	var (
		sum bulkops.Summary
		err error
	)
	switch choice {
	case "1":
		sum, err = svc.CheckUpdates(ctx, progress)
	case "2":
		sum, err = svc.CheckQuality(ctx, progress)
	case "3":
		sum, err = svc.UpdateAll(ctx, false, progress)
	case "4":
		sum, err = svc.InitMetadata(ctx, progress)
	}
	if err != nil {
		fmt.Fprintln(out, "Error:", err)
		return
	}
	if choice == "4" && sum.Total == 0 {
		fmt.Fprintln(out, "All skills already have metadata")
		return
	}
	writeSummary(out, sum)
}

// promptLine reads one trimmed line; empty input falls back to def.
func promptLine(scanner *bufio.Scanner, out io.Writer, label, def string) string {
	if def != "" {
		fmt.Fprintf(out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(out, "%s: ", label)
	}
	if !scanner.Scan() {
		return def
	}
	text := strings.TrimSpace(scanner.Text())
	if text == "" {
		return def
	}
	return text
}
