// Package cli implements taskctl, the offline maintenance tool for the task
// snapshot: export, import, statistics and backup restore.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"taskcrafter/internal/repository"
)

// Opener connects to the configured key-value store.
type Opener func(ctx context.Context) (repository.KVStore, func() error, error)

var Version = "dev"

func NewRootCmd(open Opener) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "taskctl",
		Short:         "Inspect and maintain the stored task collection",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(exportCmd(open))
	rootCmd.AddCommand(importCmd(open))
	rootCmd.AddCommand(statsCmd(open))
	rootCmd.AddCommand(restoreCmd(open))

	return rootCmd
}

// withSnapshots opens storage for the duration of fn.
func withSnapshots(ctx context.Context, open Opener, fn func(*repository.SnapshotRepository) error) error {
	kv, closeFn, err := open(ctx)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer closeFn()
	return fn(repository.NewSnapshotRepository(kv))
}
