package main

import (
	"context"
	"fmt"
	"os"

	"taskcrafter/internal/cli"
	"taskcrafter/internal/config"
	"taskcrafter/internal/repository"
)

func main() {
	rootCmd := cli.NewRootCmd(func(ctx context.Context) (repository.KVStore, func() error, error) {
		return repository.OpenKVStore(ctx, config.Load())
	})

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
