package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"api-scaffolder/internal/assembler"
	"api-scaffolder/internal/catalog"
	"api-scaffolder/internal/classifier"
	"api-scaffolder/internal/config"
	"api-scaffolder/internal/dbsample"
	"api-scaffolder/internal/emitter"
	"api-scaffolder/internal/inference"
	"api-scaffolder/internal/llm"
	"api-scaffolder/internal/logger"
	"api-scaffolder/internal/parser"
)

var (
	configPath string
	debugFlag  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "scaffold",
		Short: "Generate a pytest API test project from an endpoint catalog",
		Long: `scaffold turns an OpenAPI-derived endpoint catalog into a ready-to-run
API test project: path constants, response validation models, randomized
payload builders, per-title collections and dependency-ordered test cases.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newParseCmd(), newGenerateCmd(), newInspectCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newParseCmd builds the command that normalizes an OpenAPI document into
// an endpoint catalog file
func newParseCmd() *cobra.Command {
	var (
		inputFile string
		baseURL   string
		outFile   string
	)

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Normalize an OpenAPI document into an endpoint catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputFile == "" && baseURL == "" {
				return fmt.Errorf("either --input or --url is required")
			}

			p := parser.NewParser()
			var (
				cat *catalog.Catalog
				err error
			)
			if inputFile != "" {
				cat, err = p.ParseFile(inputFile)
			} else {
				cat, err = p.ParseURL(strings.TrimRight(baseURL, "/"))
			}
			if err != nil {
				return err
			}

			if err := cat.Save(outFile); err != nil {
				return err
			}
			fmt.Printf("Catalog with %d endpoints written to %s\n", len(cat.Entries), outFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "OpenAPI document file (json or yaml)")
	cmd.Flags().StringVarP(&baseURL, "url", "u", "", "base URL of a running API exposing its OpenAPI doc")
	cmd.Flags().StringVarP(&outFile, "out", "o", "endpoints.json", "output catalog file")
	return cmd
}

// newGenerateCmd builds the command that turns a catalog into a scaffolded
// test project
func newGenerateCmd() *cobra.Command {
	var catalogFile string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the test project from an endpoint catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if debugFlag {
				cfg.Logging.Debug = true
			}

			log, err := logger.NewLogger(cfg.Logging.Dir, cfg.Logging.Debug)
			if err != nil {
				return fmt.Errorf("failed to create logger: %v", err)
			}
			defer log.Close()

			cat, err := catalog.Load(catalogFile)
			if err != nil {
				return err
			}
			log.Printf("loaded catalog %s with %d endpoints", catalogFile, len(cat.Entries))

			services := classifier.GroupByService(cat)
			mappings := inference.PredictIDUsage(services)
			for _, svc := range mappings.Services() {
				if m, ok := mappings.Get(svc); ok {
					log.Printf("service %s: id field %q captured by %s, used in %d endpoints",
						svc, m.IDField, m.SourceKey, len(m.UsedIn))
				}
			}
			for _, skipped := range mappings.Skipped {
				log.Printf("skipped creation candidate %s for service %s: service already mapped",
					skipped.Key, skipped.Service)
			}

			seeds := collectSeeds(cmd.Context(), cfg, log, services)

			gen := emitter.New(services, mappings, emitter.Options{
				APIPrefix:   cfg.Project.APIPrefix,
				FakerLocale: cfg.Project.FakerLocale,
				Seeds:       seeds,
			})
			out := gen.Generate()

			asm := assembler.New(cfg.Project.OutputDir)
			manifest, err := asm.Write(out, assembler.RootFiles(cfg.Project.AuthTokenEnv))
			if err != nil {
				return fmt.Errorf("failed to write project: %v", err)
			}

			fmt.Printf("Project generated at %s\n", manifest.ProjectDir)
			fmt.Printf("  endpoints: %d, validations: %d, payloads: %d, collections: %d, tests: %d\n",
				manifest.Artifacts["src/models/endpoints"],
				manifest.Artifacts["src/models/validations"],
				manifest.Artifacts["src/models/payloads"],
				manifest.Artifacts["src/models/collections"],
				manifest.Artifacts["src/tests"])
			return nil
		},
	}

	cmd.Flags().StringVarP(&catalogFile, "catalog", "f", "endpoints.json", "endpoint catalog file")
	return cmd
}

// newInspectCmd builds the command that prints the classified services and
// inferred identifier mappings without generating anything
func newInspectCmd() *cobra.Command {
	var catalogFile string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show classified services and inferred identifier mappings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load(catalogFile)
			if err != nil {
				return err
			}

			services := classifier.GroupByService(cat)
			mappings := inference.PredictIDUsage(services)

			for _, svc := range services {
				fmt.Printf("service %s (title %s): %d endpoints\n", svc.Name, svc.Title, len(svc.Endpoints))
				for _, ep := range svc.Endpoints {
					fmt.Printf("  %-6s %s\n", ep.Method, ep.Path)
				}
				if m, ok := mappings.Get(svc.Name); ok {
					fmt.Printf("  id field: %s (captured by %s)\n", m.IDField, m.SourceKey)
					for _, key := range m.UsedIn {
						fmt.Printf("    used in %s\n", key)
					}
				}
			}
			if len(mappings.Skipped) > 0 {
				fmt.Println("skipped creation candidates:")
				for _, sk := range mappings.Skipped {
					fmt.Printf("  %s (%s)\n", sk.Key, sk.Service)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&catalogFile, "catalog", "f", "endpoints.json", "endpoint catalog file")
	return cmd
}

// collectSeeds runs the configured enrichment sources. Database samples are
// collected first; LLM suggestions fill fields the database did not cover.
func collectSeeds(ctx context.Context, cfg *config.Config, log *logger.Logger, services []*classifier.Service) map[string]map[string]interface{} {
	if ctx == nil {
		ctx = context.Background()
	}
	seeds := map[string]map[string]interface{}{}

	if cfg.Enrichment.DB.Enabled {
		sampler := dbsample.NewSampler(dbsample.DBConfig{
			Type:     cfg.Enrichment.DB.Type,
			Host:     cfg.Enrichment.DB.Host,
			Port:     cfg.Enrichment.DB.Port,
			Database: cfg.Enrichment.DB.Database,
			User:     cfg.Enrichment.DB.User,
			Password: cfg.Enrichment.DB.Password,
		}, log)
		if err := sampler.Connect(); err != nil {
			log.Printf("database enrichment disabled: %v", err)
		} else {
			defer sampler.Close()
			seeds = sampler.CollectSeeds(services)
			log.Printf("database enrichment seeded %d endpoints", len(seeds))
		}
	}

	if cfg.Enrichment.LLM.Enabled {
		client, err := llm.NewClient(&llm.Config{
			Provider:    cfg.Enrichment.LLM.Provider,
			APIKey:      os.Getenv("OPENAI_API_KEY"),
			Model:       cfg.Enrichment.LLM.Model,
			Temperature: cfg.Enrichment.LLM.Temperature,
			MaxTokens:   cfg.Enrichment.LLM.MaxTokens,
		}, log)
		if err != nil {
			log.Printf("LLM enrichment disabled: %v", err)
		} else {
			for key, values := range llm.CollectSeeds(ctx, client, services) {
				existing, ok := seeds[key]
				if !ok {
					seeds[key] = values
					continue
				}
				for field, value := range values {
					if _, taken := existing[field]; !taken {
						existing[field] = value
					}
				}
			}
			log.Printf("LLM enrichment complete: %d endpoints seeded", len(seeds))
		}
	}

	return seeds
}
