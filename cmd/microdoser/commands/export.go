// ABOUTME: CLI command to export the store to YAML or Markdown
// ABOUTME: The file type follows --type or the output file's extension
package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	exportType string
)

// NewExportCmd creates the export command
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Export medicines, plans, events, diary and notes",
		Long: `Export the whole store to a YAML or Markdown file.

The type is taken from --type, or from the file extension
(.yaml/.yml or .md) when --type is not given.

Examples:
  microdoser export backup.yaml
  microdoser export --type markdown ~/Documents/medications.txt`,
		Args: cobra.ExactArgs(1),
		RunE: runExport,
	}

	cmd.Flags().StringVar(&exportType, "type", "", "Export type: yaml or markdown")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	path := args[0]
	kind, err := exportKind(exportType, path)
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	switch kind {
	case "yaml":
		err = a.store.ExportToYAML(path)
	default:
		err = a.store.ExportToMarkdown(path)
	}
	if err != nil {
		return fmt.Errorf("exporting: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported to %s\n", path)
	}
	return nil
}

// exportKind resolves the export type from the flag or the path's extension
func exportKind(flag, path string) (string, error) {
	switch strings.ToLower(flag) {
	case "yaml", "yml":
		return "yaml", nil
	case "markdown", "md":
		return "markdown", nil
	case "":
	default:
		return "", fmt.Errorf("--type must be yaml or markdown, got %q", flag)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml", nil
	case ".md", ".markdown":
		return "markdown", nil
	}
	return "", fmt.Errorf("cannot infer export type from %q; pass --type yaml or --type markdown", path)
}
