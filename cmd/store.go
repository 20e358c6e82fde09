package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-sdk/internal/model"
	"github.com/sells-group/outreach-sdk/internal/registry"
)

// The registry lives only for the process; the snapshot file is an external
// collaborator that lets consecutive CLI invocations see the same leads.
var snapshotPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&snapshotPath, "snapshot", "leads.json", "path of the lead snapshot file")
}

// loadSnapshot restores leads from the snapshot file. A missing file is an
// empty registry, not an error.
func loadSnapshot(reg *registry.Registry) error {
	data, err := os.ReadFile(snapshotPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return eris.Wrap(err, "read lead snapshot")
	}

	var leads []*model.Lead
	if err := json.Unmarshal(data, &leads); err != nil {
		return eris.Wrap(err, "parse lead snapshot")
	}

	reg.Restore(leads)
	zap.L().Debug("restored lead snapshot",
		zap.String("path", snapshotPath),
		zap.Int("leads", len(leads)),
	)
	return nil
}

// saveSnapshot exports the registry to the snapshot file.
func saveSnapshot(reg *registry.Registry) error {
	data, err := json.MarshalIndent(reg.Snapshot(), "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal lead snapshot")
	}
	if err := os.WriteFile(snapshotPath, data, 0o644); err != nil {
		return eris.Wrap(err, "write lead snapshot")
	}
	return nil
}
