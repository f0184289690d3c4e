package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"taskcrafter/internal/model"
	"taskcrafter/internal/repository"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func exportCmd(open Opener) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored tasks as JSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshots(cmd.Context(), open, func(snapshots *repository.SnapshotRepository) error {
				tasks := snapshots.Load(cmd.Context())
				data, err := encodeTasks(tasks, format)
				if err != nil {
					return err
				}

				if out == "" {
					_, err = cmd.OutOrStdout().Write(data)
					return err
				}
				if err := os.WriteFile(out, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", out, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tasks to %s\n", len(tasks), out)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "Output format (json, yaml)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to file instead of stdout")

	return cmd
}

func importCmd(open Opener) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Replace the stored tasks with the contents of a file",
		Long: `Replace the stored task collection with the tasks in a JSON or YAML file.
The current collection is kept in the backup slot and can be brought back
with "taskctl restore-backup".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			if format == "" {
				format = formatFromPath(args[0])
			}
			tasks, err := decodeTasks(data, format)
			if err != nil {
				return err
			}

			return withSnapshots(cmd.Context(), open, func(snapshots *repository.SnapshotRepository) error {
				if err := snapshots.Save(cmd.Context(), tasks); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks\n", len(tasks))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Input format (json, yaml); guessed from the extension when empty")

	return cmd
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatJSON
	}
}

func encodeTasks(tasks []model.Task, format string) ([]byte, error) {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case formatYAML:
		return yaml.Marshal(tasks)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// decodeTasks applies the same acceptance rules as a stored snapshot.
func decodeTasks(data []byte, format string) ([]model.Task, error) {
	switch format {
	case formatJSON:
		tasks, err := repository.DecodeSnapshot(data)
		if err != nil {
			return nil, err
		}
		for i := range tasks {
			tasks[i].Normalize()
		}
		return tasks, nil
	case formatYAML:
		var tasks []model.Task
		if err := yaml.Unmarshal(data, &tasks); err != nil {
			return nil, fmt.Errorf("%w: %v", repository.ErrInvalidSnapshot, err)
		}
		if tasks == nil {
			tasks = []model.Task{}
		}
		for i := range tasks {
			if tasks[i].ID == "" || strings.TrimSpace(tasks[i].Title) == "" {
				return nil, fmt.Errorf("%w: record %d needs id and title", repository.ErrInvalidSnapshot, i)
			}
			tasks[i].Normalize()
		}
		return tasks, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func writeTable(w io.Writer, rows [][2]string) {
	width := 0
	for _, r := range rows {
		width = max(width, len(r[0]))
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %-*s  %s\n", width, r[0], r[1])
	}
}
