package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/careerdex/internal/usecase/indexer"
	"github.com/kailas-cloud/careerdex/internal/usecase/prepare"
	"github.com/kailas-cloud/careerdex/internal/usecase/wages"
)

func newPrepareCommand(load func() (*app, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "prepare",
		Short: "Clean raw O*NET files into the gold dataset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			d := a.cfg.Data
			rep, err := prepare.New(a.logger).Prepare(cmd.Context(), prepare.Sources{
				Occupations: d.Path(d.OccupationsFile),
				Skills:      d.Path(d.SkillsFile),
				JobZones:    d.Path(d.JobZonesFile),
				Output:      d.Path(d.DatasetFile),
			})
			if err != nil {
				return fmt.Errorf("prepare: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "prepared %d occupations (%d with skills, %d with job zone) -> %s\n",
				rep.Records, rep.WithSkills, rep.WithZone, rep.Output)
			return nil
		},
	}
}

func newIndexCommand(load func() (*app, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Embed the gold dataset and load it into the vector store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()
			ctx := cmd.Context()

			chain, err := a.buildEmbedder(ctx)
			if err != nil {
				return fmt.Errorf("embedder: %w", err)
			}
			defer chain.close()

			vs := a.cfg.VectorStore
			store, err := openStore(ctx, vs, a.logger)
			if err != nil {
				return fmt.Errorf("vector store: %w", err)
			}
			defer store.Close()

			a.logger.Info("Indexing", zap.String("backend", store.Driver()), zap.String("collection", vs.Collection))

			d := a.cfg.Data
			rep, err := indexer.New(store, chain.embedder, indexer.Options{
				Collection:     vs.Collection,
				Dimensions:     vs.Dimensions,
				BatchSize:      vs.BatchSize,
				DatasetPath:    d.Path(d.DatasetFile),
				EmbeddingsPath: d.Path(d.EmbeddingsFile),
			}, a.logger).Run(ctx)
			if err != nil {
				return fmt.Errorf("index: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d/%d occupations into %s (%d failed batches)\n",
				rep.Uploaded, rep.Records, rep.Backend, rep.FailedBatches)
			return nil
		},
	}
}

func newWagesCommand(load func() (*app, error)) *cobra.Command {
	var seed uint64

	cmd := &cobra.Command{
		Use:   "wages",
		Short: "Generate a mock wages and employment file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			var rng *rand.Rand
			if cmd.Flags().Changed("seed") {
				rng = rand.New(rand.NewPCG(seed, seed))
			}

			d := a.cfg.Data
			n, err := wages.New(d.Path(d.DatasetFile), d.Path(d.WagesFile), rng, a.logger).Generate(cmd.Context())
			if err != nil {
				return fmt.Errorf("wages: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "generated wages for %d occupations -> %s\n", n, d.Path(d.WagesFile))
			return nil
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for reproducible output")
	return cmd
}
