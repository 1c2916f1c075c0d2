package main

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/CIRISAI/ciris-trace-core/internal/catalog"
	"github.com/CIRISAI/ciris-trace-core/internal/fixtureloader"
	"github.com/CIRISAI/ciris-trace-core/internal/pipeline"
	"github.com/CIRISAI/ciris-trace-core/internal/route"
	"github.com/CIRISAI/ciris-trace-core/internal/tclog"
)

type processFlags struct {
	schemasPath      string
	keysPath         string
	tier             string
	correlation      string
	consentTimestamp string
}

func newProcessCmd(logCfg *tclog.Config) *cobra.Command {
	pf := &processFlags{}

	cmd := &cobra.Command{
		Use:   "process --schemas schemas.yaml --keys keys.yaml --tier <tier> <batch.json>",
		Short: "Run one batch of traces through the ingestion pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runProcess(logCfg, pf, args[0])
		},
	}

	cmd.Flags().StringVar(&pf.schemasPath, "schemas", "", "path to schema fixture (yaml/json)")
	cmd.Flags().StringVar(&pf.keysPath, "keys", "", "path to key fixture (yaml/json)")
	cmd.Flags().StringVar(&pf.tier, "tier", string(route.TierGeneric), "trace tier: generic, detailed, full_traces")
	cmd.Flags().StringVar(&pf.correlation, "correlation", "", "opaque correlation id to attach to every accepted non-connectivity record")
	cmd.Flags().StringVar(&pf.consentTimestamp, "consent-timestamp", "", "RFC3339 consent timestamp to attach to every accepted non-connectivity record")
	_ = cmd.MarkFlagRequired("schemas")

	return cmd
}

func runProcess(logCfg *tclog.Config, pf *processFlags, batchPath string) error {
	log, err := logCfg.NewLogger(os.Stderr)
	if err != nil {
		return err
	}

	tier := route.Tier(pf.tier)
	if !tier.Valid() {
		return fmt.Errorf("invalid tier %q: must be generic, detailed, or full_traces", pf.tier)
	}

	schemas := catalog.NewSchemaCatalog()
	keys := catalog.NewKeyCatalog()

	var doc fixtureloader.Document
	if pf.schemasPath != "" {
		schemaDoc, err := fixtureloader.ParseFile(pf.schemasPath)
		if err != nil {
			return err
		}
		doc.Schemas = schemaDoc.Schemas
	}
	if pf.keysPath != "" {
		keyDoc, err := fixtureloader.ParseFile(pf.keysPath)
		if err != nil {
			return err
		}
		doc.Keys = keyDoc.Keys
	}
	for _, e := range fixtureloader.LoadInto(doc, schemas, keys) {
		log.Warn("key decode error", "error", e)
	}

	raw, err := os.ReadFile(batchPath)
	if err != nil {
		return fmt.Errorf("read batch file: %w", err)
	}

	var traces []string
	if err := json.Unmarshal(raw, &traces); err != nil {
		return fmt.Errorf("batch file must be a JSON array of trace strings: %w", err)
	}

	p := pipeline.New(schemas, keys, log)
	resp, err := p.ProcessBatch(pipeline.Request{
		Traces:           traces,
		Tier:             tier,
		Correlation:      pf.correlation,
		ConsentTimestamp: pf.consentTimestamp,
	})
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("encode batch response: %w", err)
	}
	out = append(out, '\n')
	_, err = os.Stdout.Write(out)
	return err
}
