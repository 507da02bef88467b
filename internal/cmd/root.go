// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/render-examples/create-demo/internal/cmdtypes"
	"github.com/render-examples/create-demo/internal/config"
	"github.com/render-examples/create-demo/internal/output"
)

// dotEnvFile is loaded from the working directory before env resolution.
const dotEnvFile = ".env"

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	config     string
	verbose    bool
	registry   string
	templates  string
	timestamps bool
}

// NewRootCmd creates the root command for the create-demo CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&cmdtypes.GlobalConfig{})
}

func newRootCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var flags rootFlags

	rootCmd := &cobra.Command{
		Use:   "create-demo",
		Short: "Scaffold multi-service demo projects for Render",
		Long: `create-demo composes a project from a frontend, APIs, background workers,
a database and a cache, and compiles the selection into a directory layout,
a render.yaml blueprint and a set of editor rule files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initializeGlobals(cmd, gc, &flags)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.config, "config", "", "Path to config file (env: CREATE_DEMO_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.registry, "registry", "", "Component catalog file (env: CREATE_DEMO_REGISTRY)")
	rootCmd.PersistentFlags().StringVar(&flags.templates, "templates", "", "Directory overlaying the embedded templates (env: CREATE_DEMO_TEMPLATES)")
	rootCmd.PersistentFlags().BoolVar(&flags.timestamps, "timestamps", true, "Show timestamps in log output")

	rootCmd.AddCommand(
		NewInitCmd(gc),
		NewBlueprintCmd(gc),
		NewComponentsCmd(gc),
		NewCheckCmd(gc),
		NewSyncCmd(gc),
		NewDiffCmd(gc),
		NewVersionCmd(gc),
		NewConfigCmd(gc),
	)

	return rootCmd
}

// initializeGlobals loads configuration and sets up logging.
func initializeGlobals(cmd *cobra.Command, gc *cmdtypes.GlobalConfig, flags *rootFlags) error {
	dotEnvErr := config.LoadDotEnv(dotEnvFile)

	pathResult, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{
		FlagValue: flags.config,
	})
	if err != nil {
		return err
	}

	loader := config.NewLoader()
	readErr := loader.ReadFile(pathResult.ConfigPath)

	var cfgFlags config.Flags
	if cmd.Flags().Changed("registry") {
		cfgFlags.Registry = &flags.registry
	}
	if cmd.Flags().Changed("templates") {
		cfgFlags.Templates = &flags.templates
	}
	if cmd.Flags().Changed("timestamps") {
		cfgFlags.Timestamps = &flags.timestamps
	}
	if f := cmd.Flags().Lookup("skip-install"); f != nil && f.Changed {
		skip, _ := cmd.Flags().GetBool("skip-install")
		cfgFlags.SkipInstall = &skip
	}

	resolved := loader.Resolve(cfgFlags)

	gc.Resolved = resolved
	gc.ConfigPath = pathResult.ConfigPath
	gc.Verbose = flags.verbose

	output.SetupLogging(output.LogConfig{
		Verbose:    flags.verbose,
		Timestamps: resolved.Config.Log.Timestamps,
		Writer:     cmd.ErrOrStderr(),
	})

	if dotEnvErr != nil {
		output.Warn("could not load .env", "error", dotEnvErr)
	}
	if readErr != nil {
		// Commands that don't need config still work; config vet reports it.
		output.Warn("ignoring config file", "path", pathResult.ConfigPath, "error", readErr)
	}

	if flags.verbose {
		output.Debug("initializing CLI",
			"config", pathResult.ConfigPath,
			"config_source", pathResult.Source,
		)
		config.LogResolvedValues(resolved.Values)
	}

	return nil
}
