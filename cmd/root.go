package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"prebuilt-deploy/internal/config"
	"prebuilt-deploy/internal/installer"
	"prebuilt-deploy/internal/logger"
)

// options holds the values of the command-line flags.
type options struct {
	debug         bool              // --debug: enable cyan debug logging
	destination   string            // --destination/-d: root for installed trees and setup_prebuilt.sh
	ubuntuRelease string            // --ubuntu-release/-r: empty keeps the registry's ubuntu_release
	params        map[string]string // --param key=value: extra archive template parameters
	registryPath  string            // --registry: YAML/TOML registry replacing the built-in one
	extractor     string            // --extractor: "tar" or "native"
	tmpDir        string            // --tmp-dir: where archives are downloaded
}

// newRootCmd builds the `prebuilt-deploy` command. The root command itself runs
// the install pipeline for the packages named as arguments.
func newRootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prebuilt-deploy [flags] <prebuilt list>",
		Short: "Download and install prebuilt toolchains",
		Long:  "Download and install prebuilt toolchains and write setup_prebuilt.sh.\n\n" + epilog(nil),

		// Positional arguments are package ids. Without this cobra treats them
		// as unknown subcommands because the root has `list` registered.
		Args: cobra.ArbitraryArgs,

		// Errors are logged once by Execute; usage is only printed for an empty selection.
		SilenceUsage:  true,
		SilenceErrors: true,

		// PersistentPreRun runs before the root command and every subcommand.
		// Here, we initialize the logger based on the debug flag.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(opts.debug)
		},

		// RunE installs the selected prebuilts and writes the setup script.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, opts, args)
		},
	}

	// Flags shared with subcommands (list reads the same registry).
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&opts.registryPath, "registry", "", "Registry file (.yaml, .yml or .toml) replacing the built-in one")

	// Install-only flags.
	flags := cmd.Flags()
	flags.StringVarP(&opts.destination, "destination", "d", "/opt/optimsoc", "Destination folder")
	flags.StringVarP(&opts.ubuntuRelease, "ubuntu-release", "r", "", ubuntuReleaseUsage())
	flags.StringToStringVar(&opts.params, "param", nil, "Extra archive template parameter as key=value")
	flags.StringVar(&opts.extractor, "extractor", installer.ExtractorTar, "Extraction backend: tar or native")
	flags.StringVar(&opts.tmpDir, "tmp-dir", os.TempDir(), "Directory for downloaded archives")

	// Register the `list` subcommand (defined in list.go).
	cmd.AddCommand(newListCmd(opts))
	return cmd
}

// Execute builds the root command and runs it.
// A fatal error is printed in red and the process exits with status 1;
// an empty selection is not an error and exits 0.
func Execute() {
	if err := newRootCmd(&options{}).Execute(); err != nil {
		logger.Error("[ERROR] %v\n", err)
		os.Exit(1)
	}
}

// runInstall selects the requested packages from the registry and runs the
// installer over them. CLI params override the registry's template defaults.
func runInstall(cmd *cobra.Command, opts *options, args []string) error {
	reg, err := loadRegistry(opts)
	if err != nil {
		return err
	}

	pkgs := reg.Select(args)
	if len(pkgs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No prebuilts given.")
		cmd.Long = "Download and install prebuilt toolchains and write setup_prebuilt.sh.\n\n" + epilog(reg)
		return cmd.Help()
	}
	logger.Debug("[DEBUG] Selected %d of %d prebuilts\n", len(pkgs), len(reg.Packages))

	overrides := map[string]string{"ubuntu_release": opts.ubuntuRelease}
	for k, v := range opts.params {
		overrides[k] = v
	}

	runner := installer.ShellRunner{}
	extractor, err := installer.NewExtractor(opts.extractor, runner)
	if err != nil {
		return err
	}
	in := &installer.Installer{
		Dest:      opts.destination,
		Params:    reg.MergeParams(overrides),
		TmpDir:    opts.tmpDir,
		Fetcher:   installer.HTTPFetcher{},
		Extractor: extractor,
		Runner:    runner,
	}
	return in.Run(cmd.Context(), pkgs)
}

// loadRegistry returns the --registry file if given, else the built-in registry.
func loadRegistry(opts *options) (*config.Registry, error) {
	if opts.registryPath == "" {
		return config.DefaultRegistry()
	}
	logger.Debug("[DEBUG] Loading registry from %s\n", opts.registryPath)
	return config.LoadRegistry(opts.registryPath)
}

// ubuntuReleaseUsage describes --ubuntu-release with the built-in registry's default,
// since the flag itself defaults to empty so a --registry file can supply its own.
func ubuntuReleaseUsage() string {
	const usage = "Ubuntu release for archive names"
	reg, err := config.DefaultRegistry()
	if err != nil || reg.Params["ubuntu_release"] == "" {
		return usage + " (default from registry)"
	}
	return fmt.Sprintf("%s (default from registry: %s)", usage, reg.Params["ubuntu_release"])
}

// epilog lists the package ids of reg, or of the built-in registry when reg is nil.
func epilog(reg *config.Registry) string {
	if reg == nil {
		var err error
		if reg, err = config.DefaultRegistry(); err != nil {
			return "<prebuilt list> is either 'all' or a list of package ids."
		}
	}
	return "<prebuilt list> is either 'all' or a list of: " + strings.Join(reg.IDs(), " ")
}
