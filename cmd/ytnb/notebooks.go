package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ytnotebook/ytnotebook/internal/workspace"
	"github.com/ytnotebook/ytnotebook/internal/youtube"
)

const listTimeLayout = "2006-01-02 15:04"

func (a *app) notebooksCmd() *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "notebooks",
		Short: "List your notebooks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := a.workspace()
			if err != nil {
				return err
			}
			if _, err := w.LoadNotebooks(cmd.Context()); err != nil {
				return userError(err)
			}

			notebooks := w.Directory.Filter(filter)
			out := cmd.OutOrStdout()
			if len(notebooks) == 0 {
				fmt.Fprintln(out, "No notebooks found.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tVIDEO\tCREATED")
			for _, nb := range notebooks {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", nb.ID, nb.Title, nb.VideoID, nb.CreatedAt.Local().Format(listTimeLayout))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "only show notebooks whose title contains this text")
	return cmd
}

func (a *app) newCmd() *cobra.Command {
	var sub workspace.Submission
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a notebook from a YouTube link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := a.workspace()
			if err != nil {
				return err
			}
			err = w.Submitter().Submit(cmd.Context(), &sub)
			var partial *workspace.PartialSubmissionError
			if errors.As(err, &partial) {
				return fmt.Errorf("video %s was accepted but the notebook could not be created: %w", partial.VideoID, userError(partial.Err))
			}
			if err != nil {
				return userError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Notebook created successfully!\nID: %s\nVideo: %s\n", sub.NotebookID, youtube.WatchURL(sub.VideoID))
			return nil
		},
	}
	cmd.Flags().StringVar(&sub.URL, "url", "", "YouTube watch URL or youtu.be link")
	cmd.Flags().StringVar(&sub.Title, "title", "", "notebook title")
	return cmd
}

func (a *app) openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <notebook>",
		Short: "Show a notebook's video and current conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, sel, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			openErr := w.OpenNotebook(cmd.Context(), sel)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n%s\n", sel.Title, w.Video.Title())
			if id, ok := w.Reconciler.Current(); ok {
				fmt.Fprintf(out, "Session: %s\n", id)
			} else {
				fmt.Fprintln(out, "Session: new")
			}
			fmt.Fprintln(out)
			printTurns(cmd, w.Conversation())
			return userError(openErr)
		},
	}
}

func (a *app) sessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions <notebook>",
		Short: "List a notebook's chat sessions, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, sel, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := w.Reconciler.Open(cmd.Context(), sel.NotebookID, sel.VideoID); err != nil {
				return userError(err)
			}

			summaries := w.Registry.Summaries()
			out := cmd.OutOrStdout()
			if len(summaries) == 0 {
				fmt.Fprintln(out, "No chat sessions yet.")
				return nil
			}
			current, _ := w.Reconciler.Current()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "\tSESSION\tSTARTED\tFIRST PROMPT")
			for _, s := range summaries {
				mark := ""
				if s.SessionID == current {
					mark = "*"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", mark, s.SessionID, s.CreatedAt.Local().Format(listTimeLayout), truncate(s.FirstPrompt, 60))
			}
			return tw.Flush()
		},
	}
}

func (a *app) describeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <notebook>",
		Short: "Show the description of a notebook's video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, sel, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			loadErr := w.Video.Load(cmd.Context(), sel.VideoID)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, w.Video.Title())
			details := w.Video.Details()
			if details == nil {
				return userError(loadErr)
			}
			fmt.Fprintln(out, youtube.WatchURL(details.VideoID))
			desc := details.Description
			if len(desc.Keywords) > 0 {
				fmt.Fprintf(out, "\nKeywords: %s\n", strings.Join(desc.Keywords, ", "))
			}
			if len(desc.CategoryTags) > 0 {
				fmt.Fprintf(out, "Categories: %s\n", strings.Join(desc.CategoryTags, ", "))
			}
			printPoints(cmd, "Description", desc.DetailedDescription)
			printPoints(cmd, "Summary", desc.Summary)
			if len(details.Transcript) > 0 {
				last := details.Transcript[len(details.Transcript)-1]
				length := time.Duration((last.Start + last.Duration) * float64(time.Second))
				fmt.Fprintf(out, "\nTranscript: %d segments, %s\n", len(details.Transcript), youtube.FormatMarker(length))
			}
			return nil
		},
	}
}

func (a *app) timestampsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "timestamps <notebook> <query>",
		Short: "Find the moments of a notebook's video that match a query",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, sel, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := w.Video.Load(cmd.Context(), sel.VideoID); err != nil {
				a.log.Debug("video details unavailable", "video_id", sel.VideoID, "error", err)
			}

			out := cmd.OutOrStdout()
			matches, err := w.Video.Search(cmd.Context(), strings.Join(args[1:], " "))
			if errors.Is(err, workspace.ErrNoTimestamps) {
				fmt.Fprintln(out, "No relevant timestamps found.")
				return nil
			}
			if err != nil {
				return userError(err)
			}
			for _, m := range matches {
				link, err := w.Video.PlayerURL(m)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s  %s\n    %s\n", m.Timestamp, m.Text, link)
			}
			return nil
		},
	}
}

// printPoints prints a "||"-separated field as a bulleted list.
func printPoints(cmd *cobra.Command, heading, field string) {
	var points []string
	for _, p := range strings.Split(field, "||") {
		if p = strings.TrimSpace(p); p != "" {
			points = append(points, p)
		}
	}
	if len(points) == 0 {
		return
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%s:\n", heading)
	for _, p := range points {
		fmt.Fprintf(out, "  - %s\n", p)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
