package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"geotag/internal/config"
	"geotag/internal/memo"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the memo cache file",
	}
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheTrimCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func loadCache(cfg *config.Config) (*memo.DiskStore, *memo.Cache, error) {
	disk := memo.NewDiskStore(cfg.Cache.File, nil)
	image, err := disk.Load()
	if err != nil {
		return nil, nil, err
	}
	return disk, memo.New(image, cfg.Cache.MaxEntries, nil), nil
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	var showKeys bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache size and entries per namespace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			disk, cache, err := loadCache(cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			stats := cache.Stats()

			size := "-"
			if info, err := os.Stat(disk.Path()); err == nil {
				size = strconv.FormatInt(info.Size(), 10) + " bytes"
			}
			fmt.Fprintln(out, renderTable(tableSpec{
				title:   "Cache",
				headers: []string{"Field", "Value"},
				rows: [][]string{
					{"File", disk.Path()},
					{"Size", size},
					{"Enabled", yesNo(cfg.Cache.Enabled)},
					{"Entries", strconv.Itoa(stats.Entries)},
					{"Capacity", strconv.Itoa(stats.Capacity)},
				},
			}))

			namespaces := cache.Snapshot().Namespaces()
			if len(namespaces) > 0 {
				names := make([]string, 0, len(namespaces))
				for name := range namespaces {
					names = append(names, name)
				}
				sort.Strings(names)
				rows := make([][]string, 0, len(names))
				for _, name := range names {
					rows = append(rows, []string{name, strconv.Itoa(namespaces[name])})
				}
				fmt.Fprintln(out, renderTable(tableSpec{
					headers: []string{"Namespace", "Entries"},
					rows:    rows,
					numeric: []int{2},
				}))
			}

			if showKeys {
				for _, key := range cache.Keys() {
					fmt.Fprintln(out, key)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showKeys, "keys", false, "List cached keys, oldest first")
	return cmd
}

func newCacheTrimCommand(ctx *commandContext) *cobra.Command {
	var maxEntries int

	cmd := &cobra.Command{
		Use:   "trim",
		Short: "Evict the oldest entries down to a size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			disk, cache, err := loadCache(cfg)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("max") {
				maxEntries = cfg.Cache.MaxEntries
			}
			before := cache.Len()
			cache.SetMaxSize(maxEntries)
			if err := disk.Persist(cache.Snapshot()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Evicted %d of %d entries\n", before-cache.Len(), before)
			return nil
		},
	}
	cmd.Flags().IntVar(&maxEntries, "max", 0, "Entries to keep (defaults to cache.max_entries)")
	return cmd
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if remove {
				disk := memo.NewDiskStore(cfg.Cache.File, nil)
				if err := disk.Remove(); err != nil {
					return err
				}
				fmt.Fprintf(out, "Removed cache file %s\n", disk.Path())
				return nil
			}
			disk, cache, err := loadCache(cfg)
			if err != nil {
				return err
			}
			cleared := cache.Len()
			cache.Clear()
			if err := disk.Persist(cache.Snapshot()); err != nil {
				return err
			}
			fmt.Fprintf(out, "Cleared %d entries from %s\n", cleared, disk.Path())
			return nil
		},
	}
	cmd.Flags().BoolVar(&remove, "remove", false, "Delete the cache file instead of emptying it (use when it is corrupt)")
	return cmd
}
