package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/render-examples/create-demo/internal/cmdtypes"
	"github.com/render-examples/create-demo/internal/cmdutil"
	oerrors "github.com/render-examples/create-demo/internal/errors"
	"github.com/render-examples/create-demo/internal/output"
	"github.com/render-examples/create-demo/internal/registry"
	"github.com/render-examples/create-demo/internal/resolver"
)

// kindPreset lists presets next to the component kinds.
const kindPreset registry.Kind = "preset"

func listableKinds() []string {
	var kinds []string
	for _, k := range registry.Kinds() {
		kinds = append(kinds, string(k))
	}
	return append(kinds, string(kindPreset))
}

// componentRow is one listed component or preset.
type componentRow struct {
	Kind        registry.Kind `json:"kind" yaml:"kind"`
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Details     string        `json:"details,omitempty" yaml:"details,omitempty"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
}

// NewComponentsCmd creates the components command.
func NewComponentsCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		format string
		kind   string
	)

	c := &cobra.Command{
		Use:     "components",
		Aliases: []string{"ls"},
		Short:   "List the available components",
		Long: `List the components of the registry, grouped by kind, followed by
the presets.

Examples:
  create-demo components
  create-demo components --kind worker
  create-demo components --kind preset
  create-demo components -o json`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runComponents(c, gc, format, kind)
		},
	}

	c.Flags().StringVarP(&format, "output", "o", "table",
		"Output format: "+strings.Join(output.ValidListFormats(), ", "))
	c.Flags().StringVar(&kind, "kind", "",
		"Only list one kind: "+strings.Join(listableKinds(), ", "))

	return c
}

func runComponents(c *cobra.Command, gc *cmdtypes.GlobalConfig, format, kind string) error {
	errOut := c.ErrOrStderr()

	if !slices.Contains(output.ValidListFormats(), format) {
		return cmdutil.Fail(errOut, "invalid output format", oerrors.NewValidationError(
			fmt.Sprintf("unsupported output format %q", format), "", "output",
			"Use one of: "+strings.Join(output.ValidListFormats(), ", ")))
	}
	if kind != "" && !slices.Contains(listableKinds(), kind) {
		return cmdutil.Fail(errOut, "invalid kind", oerrors.NewValidationError(
			fmt.Sprintf("unknown component kind %q", kind), "", "kind",
			"Use one of: "+strings.Join(listableKinds(), ", ")))
	}

	reg, err := cmdutil.LoadRegistry(gc.FS(), gc.Config())
	if err != nil {
		return cmdutil.Fail(errOut, "loading components", err)
	}

	var rows []componentRow
	for _, comp := range reg.Components() {
		if kind != "" && comp.Kind() != registry.Kind(kind) {
			continue
		}
		rows = append(rows, newComponentRow(comp))
	}
	if kind == "" || kind == string(kindPreset) {
		for _, p := range reg.Presets() {
			rows = append(rows, newPresetRow(p))
		}
	}

	return writeComponents(c.OutOrStdout(), rows, output.ParseFormat(format))
}

func newComponentRow(comp registry.Component) componentRow {
	meta := comp.Meta()
	row := componentRow{
		Kind:        comp.Kind(),
		ID:          meta.ID,
		Name:        meta.Name,
		Description: meta.Description,
	}

	switch v := comp.(type) {
	case *registry.Frontend:
		var deploys []string
		for _, d := range v.DeployTypes() {
			deploys = append(deploys, string(d))
		}
		row.Details = strings.Join(deploys, ", ")
	case *registry.API:
		row.Details = fmt.Sprintf("%s, %s/", v.Runtime, v.Subdir)
	case *registry.Worker:
		row.Details = fmt.Sprintf("%s %s, %s/", v.Runtime, v.WorkerType, resolver.WorkerSubdir(v))
	case *registry.Database:
		row.Details = fmt.Sprintf("%s, postgres %s", v.Blueprint.Plan, v.Blueprint.PostgresMajorVersion)
	case *registry.Cache:
		row.Details = v.Blueprint.Plan
	}
	return row
}

func newPresetRow(p *registry.Preset) componentRow {
	var picks []string
	if p.Frontend != "" {
		pick := p.Frontend
		if p.Deploy != "" {
			pick += " (" + string(p.Deploy) + ")"
		}
		picks = append(picks, pick)
	}
	picks = append(picks, p.APIs...)
	picks = append(picks, p.Workers...)
	for _, id := range []string{p.Database, p.Cache} {
		if id != "" {
			picks = append(picks, id)
		}
	}
	return componentRow{
		Kind:        kindPreset,
		ID:          p.ID,
		Name:        p.Name,
		Details:     strings.Join(picks, " + "),
		Description: p.Description,
	}
}

func writeComponents(w io.Writer, rows []componentRow, format output.Format) error {
	switch format {
	case output.FormatJSON:
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling components: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case output.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("marshaling components: %w", err)
		}
		return enc.Close()
	default:
		tbl := output.NewTable("KIND", "ID", "NAME", "DETAILS")
		for _, r := range rows {
			tbl.Row(string(r.Kind), r.ID, r.Name, r.Details)
		}
		_, err := fmt.Fprintln(w, tbl.String())
		return err
	}
}
