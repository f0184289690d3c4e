package cli

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"taskcrafter/internal/model"
	"taskcrafter/internal/repository"
	"taskcrafter/internal/store"
)

func statsCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task counts and completion rate",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshots(cmd.Context(), open, func(snapshots *repository.SnapshotRepository) error {
				ctx := cmd.Context()
				tasks := snapshots.Load(ctx)
				st := store.New(nil, nil, store.WithTasks(tasks)).Stats()

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "Tasks")
				writeTable(out, [][2]string{
					{"Total", strconv.Itoa(st.Total)},
					{"Completed", strconv.Itoa(st.Completed)},
					{"Pending", strconv.Itoa(st.Pending)},
					{"Archived", strconv.Itoa(st.Archived)},
					{"Overdue", strconv.Itoa(st.Overdue)},
					{"Completion", fmt.Sprintf("%d%%", st.CompletionRate)},
				})

				fmt.Fprintln(out, "\nBy priority")
				var rows [][2]string
				for _, p := range []model.Priority{model.PriorityHigh, model.PriorityMedium, model.PriorityLow} {
					rows = append(rows, [2]string{string(p), strconv.Itoa(st.ByPriority[p])})
				}
				writeTable(out, rows)

				fmt.Fprintln(out, "\nBy status")
				rows = rows[:0]
				statuses := make([]string, 0, len(st.ByStatus))
				for s := range st.ByStatus {
					statuses = append(statuses, string(s))
				}
				slices.Sort(statuses)
				for _, s := range statuses {
					rows = append(rows, [2]string{s, strconv.Itoa(st.ByStatus[model.Status(s)])})
				}
				writeTable(out, rows)

				saved, ok, err := snapshots.LastSaved(ctx)
				switch {
				case err != nil:
					fmt.Fprintf(out, "\nLast saved: unknown (%v)\n", err)
				case ok:
					fmt.Fprintf(out, "\nLast saved: %s\n", saved.Format(time.RFC3339))
				default:
					fmt.Fprintln(out, "\nLast saved: never")
				}
				return nil
			})
		},
	}
}

func restoreCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "restore-backup",
		Short: "Swap the previous snapshot back in",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshots(cmd.Context(), open, func(snapshots *repository.SnapshotRepository) error {
				tasks, err := snapshots.RestoreBackup(cmd.Context())
				if errors.Is(err, repository.ErrNoBackup) {
					return fmt.Errorf("nothing to restore: %w", err)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Restored %d tasks from backup\n", len(tasks))
				return nil
			})
		},
	}
}
