// cmd/tools/catalog-seeder/main.go

// catalog-seeder imports assessment and profession reference data from a
// seed file into postgres, refreshes the search index, and drops the
// catalog cache so running services pick up the new content.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"careercompass-workers/internal/catalog"
	"careercompass-workers/internal/common/config"
	"careercompass-workers/internal/common/database"
	"careercompass-workers/internal/common/logger"
)

var (
	seedFile  string
	skipES    bool
	skipCache bool
)

func main() {
	root := &cobra.Command{
		Use:   "catalog-seeder",
		Short: "Import assessments and professions into the catalog",
	}

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Validate a seed file and load it into postgres and elasticsearch",
		RunE:  runImport,
	}
	importCmd.Flags().StringVarP(&seedFile, "file", "f", "", "path to the seed JSON file")
	importCmd.Flags().BoolVar(&skipES, "skip-es", false, "do not index professions into elasticsearch")
	importCmd.Flags().BoolVar(&skipCache, "skip-cache", false, "do not invalidate the redis catalog cache")
	importCmd.MarkFlagRequired("file")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a seed file without touching any backend",
		RunE:  runValidate,
	}
	validateCmd.Flags().StringVarP(&seedFile, "file", "f", "", "path to the seed JSON file")
	validateCmd.MarkFlagRequired("file")

	root.AddCommand(importCmd, validateCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	seed, err := loadSeedFile(seedFile)
	if err != nil {
		return err
	}
	fmt.Printf("Seed file valid: %d assessments, %d professions\n",
		len(seed.Assessments), len(seed.Professions))
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	seed, err := loadSeedFile(seedFile)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}

	importer := newImporter(pg.DB, zapLog)
	if err := importer.importSeed(ctx, seed); err != nil {
		return err
	}

	if !skipES && len(seed.Professions) > 0 {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return fmt.Errorf("connect elasticsearch: %w", err)
		}
		if err := indexProfessions(ctx, es.Client, seed.Professions, zapLog); err != nil {
			return err
		}
	}

	if !skipCache {
		redis, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer redis.Close()

		store := catalog.NewStore(pg.DB, redis.Client,
			time.Duration(cfg.Matching.CatalogCacheTTL)*time.Second, log)
		ids := make([]string, 0, len(seed.Assessments))
		for _, a := range seed.Assessments {
			ids = append(ids, a.ID)
		}
		if err := store.Invalidate(ctx, ids...); err != nil {
			zapLog.Warn("cache invalidation failed, entries expire on their own", zap.Error(err))
		}
	}

	zapLog.Info("Catalog import complete",
		zap.Int("assessments", len(seed.Assessments)),
		zap.Int("professions", len(seed.Professions)))
	return nil
}
