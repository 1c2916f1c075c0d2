package main

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/CIRISAI/ciris-trace-core/internal/catalog"
	"github.com/CIRISAI/ciris-trace-core/internal/fixtureloader"
	"github.com/CIRISAI/ciris-trace-core/internal/tclog"
)

func newCatalogCmd(logCfg *tclog.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect catalog fixtures",
	}
	cmd.AddCommand(newCatalogInspectCmd(logCfg))
	return cmd
}

type catalogInspectDiagnostics struct {
	LoadedVersions []string `json:"loaded_versions"`
	KeyCount       int      `json:"key_count"`
	NeedsRefresh   bool     `json:"needs_refresh"`
	CacheAgeSecs   float64  `json:"cache_age_secs"`
}

func newCatalogInspectCmd(logCfg *tclog.Config) *cobra.Command {
	var schemasPath, keysPath string

	cmd := &cobra.Command{
		Use:   "inspect --schemas schemas.yaml",
		Short: "Print loaded_versions/key_count/needs_refresh diagnostics",
		RunE: func(_ *cobra.Command, _ []string) error {
			log, err := logCfg.NewLogger(os.Stderr)
			if err != nil {
				return err
			}

			schemas := catalog.NewSchemaCatalog()
			keys := catalog.NewKeyCatalog()

			var doc fixtureloader.Document
			if schemasPath != "" {
				schemaDoc, err := fixtureloader.ParseFile(schemasPath)
				if err != nil {
					return err
				}
				doc.Schemas = schemaDoc.Schemas
			}
			if keysPath != "" {
				keyDoc, err := fixtureloader.ParseFile(keysPath)
				if err != nil {
					return err
				}
				doc.Keys = keyDoc.Keys
			}
			for _, e := range fixtureloader.LoadInto(doc, schemas, keys) {
				log.Warn("key decode error", "error", e)
			}

			diag := catalogInspectDiagnostics{
				LoadedVersions: schemas.LoadedVersions(),
				KeyCount:       keys.KeyCount(),
				NeedsRefresh:   schemas.NeedsRefresh(),
				CacheAgeSecs:   schemas.CacheAgeSecs(),
			}

			out, err := json.MarshalIndent(diag, "", "  ")
			if err != nil {
				return fmt.Errorf("encode diagnostics: %w", err)
			}
			out = append(out, '\n')
			_, err = os.Stdout.Write(out)
			return err
		},
	}

	cmd.Flags().StringVar(&schemasPath, "schemas", "", "path to schema fixture (yaml/json)")
	cmd.Flags().StringVar(&keysPath, "keys", "", "path to key fixture (yaml/json)")

	return cmd
}
