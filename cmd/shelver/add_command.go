package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"shelver/internal/ipc"
	"shelver/internal/vault"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var inPlace bool
	cmd := &cobra.Command{
		Use:   "add <path>...",
		Short: "Move files into the inbox and enqueue them for processing",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			v := vault.New()
			paths := make([]string, 0, len(args))
			for _, arg := range args {
				absPath, err := filepath.Abs(arg)
				if err != nil {
					return fmt.Errorf("resolve path: %w", err)
				}
				info, err := os.Stat(absPath)
				if err != nil {
					if errors.Is(err, os.ErrNotExist) {
						return fmt.Errorf("file does not exist: %s", absPath)
					}
					return fmt.Errorf("inspect file: %w", err)
				}
				if info.IsDir() {
					return fmt.Errorf("%s is a directory", absPath)
				}

				target := absPath
				if !inPlace && filepath.Dir(absPath) != cfg.Paths.InboxDir {
					moved, err := v.MoveTo(absPath, cfg.Paths.InboxDir)
					if err != nil {
						return err
					}
					target = moved
				}
				paths = append(paths, target)
			}

			// The watcher enqueues moved files on its own; the explicit call
			// covers files already inside the inbox and deduplicates against
			// any watcher enqueue that raced ahead.
			err = ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Enqueue(paths)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}
				for i, id := range resp.IDs {
					fmt.Fprintf(cmd.OutOrStdout(), "Enqueued %s as %s\n", filepath.Base(paths[i]), shortID(id))
				}
				return nil
			})
			if err != nil && !inPlace {
				// Daemon not running: the files are staged in the inbox and
				// will be picked up on the next start.
				fmt.Fprintf(cmd.OutOrStdout(), "Moved %d file(s) into %s (daemon unreachable; they will be processed on next start)\n",
					len(paths), cfg.Paths.InboxDir)
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&inPlace, "in-place", false, "Enqueue without moving the file into the inbox")
	return cmd
}
