package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/skill-intel/internal/db"
	"github.com/jonathan/skill-intel/internal/trends"
)

var (
	trendsPeriod     string
	trendsBack       int
	trendsComparison string
	pruneBefore      string
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Manage and analyze skill-count snapshots",
}

var trendsStoreCmd = &cobra.Command{
	Use:   "store <counts.json>",
	Short: "Store a skill-count snapshot for a period",
	Long:  `Store aggregated skill counts from a JSON file ({"Python": 45, ...}) under --period, defaulting to today's date.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTrendsStore,
}

var trendsAnalyzeCmd = &cobra.Command{
	Use:   "analyze <counts.json>",
	Short: "Classify current counts against stored history",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrendsAnalyze,
}

var trendsPeriodsCmd = &cobra.Command{
	Use:   "periods",
	Short: "List stored snapshot periods, most recent first",
	RunE:  runTrendsPeriods,
}

var trendsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove stored snapshots",
	Long:  `Remove snapshots with period ids below --before, or the whole history when --before is not given.`,
	RunE:  runTrendsPrune,
}

func init() {
	trendsStoreCmd.Flags().StringVar(&trendsPeriod, "period", "", "Period id (defaults to today's date)")
	trendsAnalyzeCmd.Flags().StringVar(&trendsComparison, "period", "", "Specific period to compare against")
	trendsAnalyzeCmd.Flags().IntVar(&trendsBack, "back", 1, "Number of periods to look back")
	trendsPruneCmd.Flags().StringVar(&pruneBefore, "before", "", "Remove only periods below this id")

	trendsCmd.AddCommand(trendsStoreCmd, trendsAnalyzeCmd, trendsPeriodsCmd, trendsPruneCmd)
	rootCmd.AddCommand(trendsCmd)
}

func runTrendsStore(cmd *cobra.Command, args []string) error {
	counts, err := readCountsFile(args[0])
	if err != nil {
		return err
	}

	store, cleanup, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	period, err := store.Save(cmd.Context(), counts, trendsPeriod)
	if err != nil {
		return err
	}

	fmt.Printf("Stored %d skills under period %s\n", len(counts), period)
	return nil
}

func runTrendsAnalyze(cmd *cobra.Command, args []string) error {
	counts, err := readCountsFile(args[0])
	if err != nil {
		return err
	}

	store, cleanup, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	engine := trends.NewEngine(store)
	records, err := engine.AnalyzeTrends(cmd.Context(), counts, trendsComparison, trendsBack)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(trends.SortedRecords(records))
}

func runTrendsPeriods(cmd *cobra.Command, _ []string) error {
	store, cleanup, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	periods, err := store.ListPeriods(cmd.Context())
	if err != nil {
		return err
	}
	for _, period := range periods {
		fmt.Println(period)
	}
	return nil
}

func runTrendsPrune(cmd *cobra.Command, _ []string) error {
	store, cleanup, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	removed, err := store.ClearBefore(cmd.Context(), pruneBefore)
	if err != nil {
		return err
	}

	fmt.Printf("Removed %d periods\n", removed)
	return nil
}

// openStore opens the configured snapshot store: PostgreSQL when a database
// URL is set, the file store otherwise. cleanup releases any held
// connections.
func openStore(ctx context.Context) (trends.Store, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, nil, err
		}
		return db.NewSnapshotStore(database), database.Close, nil
	}

	store, err := trends.NewFileStore(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {}, nil
}

func readCountsFile(path string) (map[string]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read counts file: %w", err)
	}
	var counts map[string]int
	if err := json.Unmarshal(data, &counts); err != nil {
		return nil, fmt.Errorf("failed to parse counts JSON: %w", err)
	}
	return counts, nil
}
