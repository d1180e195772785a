package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"github.com/PerAsperaMods/modkit/adapters/cachefile"
)

func (c *CLI) newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the persisted type cache index",
	}

	cmd.PersistentFlags().StringP("index", "i", "", "Path to the cache index file (defaults to the per-user location)")

	cmd.AddCommand(c.newCacheStatsCmd())
	cmd.AddCommand(c.newCacheEntriesCmd())
	cmd.AddCommand(c.newCacheClearCmd())

	return cmd
}

func indexPath(cmd *cobra.Command) (string, error) {
	path, err := cmd.Flags().GetString("index")
	if err != nil {
		return "", err
	}
	if path != "" {
		return path, nil
	}
	return cachefile.DefaultPath()
}

func (c *CLI) newCacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show a summary of the cache index file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := indexPath(cmd)
			if err != nil {
				return err
			}
			store := cachefile.NewStore(path)

			info, err := store.Info()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "index:        %s\n", info.Path)
			if !info.Exists {
				_, _ = fmt.Fprintln(out, "no cache index found")
				return nil
			}

			index, err := store.Load()
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(out, "size:         %d bytes\n", info.Size)
			_, _ = fmt.Fprintf(out, "modified:     %s\n", info.ModTime.Format(time.RFC3339))
			_, _ = fmt.Fprintf(out, "game version: %s\n", index.GameVersion)
			_, _ = fmt.Fprintf(out, "saved at:     %s\n", index.SavedAt.Format(time.RFC3339))
			_, _ = fmt.Fprintf(out, "entries:      %d\n", len(index.Entries))
			return nil
		},
	}
}

func (c *CLI) newCacheEntriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "entries",
		Short: "List the cached type resolutions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := indexPath(cmd)
			if err != nil {
				return err
			}

			index, err := cachefile.NewStore(path).Load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(index.Entries) == 0 {
				_, _ = fmt.Fprintln(out, "no cached entries")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "NAME\tTYPE\tMODULE\tCHECKSUM\tCACHED AT")
			for _, name := range slices.Sorted(maps.Keys(index.Entries)) {
				e := index.Entries[name]
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					name, e.FullTypeName, e.ModuleName, e.ModuleChecksum, e.CachedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}
}

func (c *CLI) newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the cache index file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := indexPath(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := os.Remove(path); err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					_, _ = fmt.Fprintf(out, "no cache index at %s\n", path)
					return nil
				}
				return zerr.Wrap(err, "failed to remove cache index")
			}
			_, _ = fmt.Fprintf(out, "removed %s\n", path)
			return nil
		},
	}
}
