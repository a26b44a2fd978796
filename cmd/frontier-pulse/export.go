// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/frontier-pulse/internal/export"
	"github.com/pdiddy/frontier-pulse/internal/store"
	"github.com/pdiddy/frontier-pulse/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render a brief version for external platforms",
	Long: `Export transforms a brief version into platform-specific artifacts: a
numbered Twitter thread, a LinkedIn post, or the raw markdown. Artifacts
are persisted alongside the brief version; --brief-version selects a
specific version, otherwise the latest brief is exported.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().Int64("brief-version", 0, "brief version id (default: latest)")
	exportCmd.Flags().StringSlice("platforms", []string{export.PlatformTwitter, export.PlatformLinkedIn}, "platforms to render")
	exportCmd.Flags().Bool("no-save", false, "print only, skip persisting artifacts")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	versionID, _ := cmd.Flags().GetInt64("brief-version")

	var version *types.BriefVersion
	if versionID > 0 {
		version, err = st.BriefVersionByID(ctx, versionID)
	} else {
		version, err = st.LatestBriefVersion(ctx, "")
	}
	if err != nil {
		return err
	}

	platforms, _ := cmd.Flags().GetStringSlice("platforms")
	noSave, _ := cmd.Flags().GetBool("no-save")

	for _, platform := range platforms {
		content := export.Build(version.Markdown, platform, cfg.Project)

		fmt.Fprintf(os.Stdout, "=== %s (brief %s v%d) ===\n%s\n\n",
			platform, version.WeekKey, version.VersionNumber, content)

		if noSave {
			continue
		}
		artifact := &types.ExportArtifact{
			BriefVersionID: version.ID,
			Platform:       platform,
			Content:        content,
			CreatedAt:      time.Now().UTC(),
		}
		if err := st.SaveExportArtifact(ctx, artifact); err != nil {
			return err
		}
	}
	return nil
}
