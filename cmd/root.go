/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/notargets/comsol2aero/InputParameters"
	"github.com/notargets/comsol2aero/comsol"
	"github.com/notargets/comsol2aero/converter"
	"github.com/notargets/comsol2aero/generator"
	"github.com/notargets/comsol2aero/mapping"
	"github.com/notargets/comsol2aero/utils"
)

const longUsage = `Convert a comsol mesh to an aero mesh. Can operate on files, standard input and standard output.

To generate a mesh in comsol:
1. Right click on the Mesh of interest (i.e. Mesh 1)
2. Choose "Export to file".
3. In "File type" choose "COMSOL Multiphysics text (.mphtxt)"
4. Type in a filename.
5. Make sure the Geometric entities options is enabled.
6. Make sure the selections export is selected if you plan to use the selections feature of the Converter.
7. Click "Export"

Supported elements:
Comsol: 8 node hexahedral, 6 node prismatic, 5 node pyramidal, 4 node tetrahedral, 4 node quadrilateral, 3 node triangular
Aero:   See the element mapping flags (--tri, --quad, --tet, --pyr, --prism, --hex).

Examples:
comsol2aero comsolmesh.mphtxt
comsol2aero -vf comsolmesh.mphtxt
comsol2aero -v -o aero.mesh comsolmesh.mphtxt
cat comsol_mesh.mphtxt | comsol2aero
comsol2aero barmesh_dense.mphtxt -o barmesh.top --tet 5 --tri 4 -e -n InletFixed -n StickFixed -n OutletFixed
comsol2aero selections.mphtxt -o selections.geom -s "Center Mat 1" -s "Center Mat 2" -s "Surrounding"
comsol2aero inspect comsolmesh.mphtxt`

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "comsol2aero: Error: %v\n", err)
		fmt.Fprintln(root.ErrOrStderr(), "Please call with --help for a help message.")
		os.Exit(1)
	}
}

// NewRootCmd builds the convert command with its own viper instance, so
// every invocation starts from the defaults.
func NewRootCmd() *cobra.Command {
	var (
		cfgFile string
		v       = viper.New()
	)
	rootCmd := &cobra.Command{
		Use:           "comsol2aero [flags] [FILE]",
		Short:         "Convert a COMSOL mesh to an AERO-S or AERO-F mesh",
		Long:          longUsage,
		Version:       generator.Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, v, args)
		},
	}
	rootCmd.SetVersionTemplate("Comsol to Aero v.{{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.comsol2aero.yaml)")
	pf.BoolP("verbose", "v", false, "verbose mode. Messages are streamed to stderr.")

	f := rootCmd.Flags()
	f.BoolP("aero-f", "e", false, "output in aero-f mode instead of the default aero-s mode. Surface type "+
		"(StickFixedXXX_i, SlipMovingXXX_i, InletFixedXXX_i, etc.) may be defined by using the -n [ --names ] argument.")
	f.BoolP("matusage", "m", false, "outputs matusage directives in addition to attributes. To be used when "+
		"relevant matlaw is enabled.")
	f.BoolP("attributes-from-selections", "a", false, "convert comsol geometry ids (domains) to selection ids. "+
		"Later selections overwrite earlier ones.")
	f.StringArrayP("selections", "s", nil, "accepted selection name (label in comsol), repeatable. Implies -a; "+
		"the position in the list becomes the attribute id and every domain element must be covered.")
	f.StringArrayP("names", "n", nil, "generated surface name prefix, repeatable, by geometric index. The "+
		"prefixes define the aero-f surface type and are not allowed in aero-s mode.")
	f.StringP("output", "o", "", "output file name. If no output argument is provided the program streams to stdout.")
	f.BoolP("force", "f", false, "force verbose output when output file name argument is not provided. "+
		"Allowed only in verbose mode.")
	f.String("selection-policy", converter.NonSurfaceSelections.String(),
		"selections folded into attributes: non-surface (all but face selections) or volume")
	f.Bool("duplicate-labels", false, "repeat the attribute labels once per element set")
	f.StringP("parameters", "I", "", "YAML conversion parameters file, for example:"+InputParameters.ExampleFile)
	f.String("profile", "", "write a cpu or mem profile of the run")
	f.String("profile-path", ".", "directory for profile output")
	for _, sh := range mapping.Shapes {
		f.Int(sh.Keyword(), sh.DefaultTargetID(), sh.HelpText())
	}
	f.SortFlags = false

	_ = v.BindPFlags(pf)
	_ = v.BindPFlags(f)

	rootCmd.AddCommand(newInspectCmd(v))
	return rootCmd
}

// initConfig reads in config file and ENV variables if set.
func initConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return err
		}
		v.AddConfigPath(home)
		v.SetConfigName(".comsol2aero")
	}
	v.SetEnvPrefix("COMSOL2AERO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return err
		}
	}
	return nil
}

// settings reads one resolved option. Lists given on the command line are
// taken from the flag itself so labels keep embedded commas.
type settings struct {
	cmd *cobra.Command
	v   *viper.Viper
}

func (s settings) list(name string) []string {
	if s.cmd.Flags().Changed(name) {
		vals, _ := s.cmd.Flags().GetStringArray(name)
		return vals
	}
	if !s.v.IsSet(name) {
		return nil
	}
	return s.v.GetStringSlice(name)
}

type binding struct {
	flag  string
	apply func(cp *InputParameters.ConversionParameters, s settings)
}

var bindings = []binding{
	{"aero-f", func(cp *InputParameters.ConversionParameters, s settings) { cp.AeroF = s.v.GetBool("aero-f") }},
	{"matusage", func(cp *InputParameters.ConversionParameters, s settings) { cp.Matusage = s.v.GetBool("matusage") }},
	{"attributes-from-selections", func(cp *InputParameters.ConversionParameters, s settings) {
		cp.SelectionsToAttributes = s.v.GetBool("attributes-from-selections")
	}},
	{"selections", func(cp *InputParameters.ConversionParameters, s settings) { cp.Selections = s.list("selections") }},
	{"names", func(cp *InputParameters.ConversionParameters, s settings) { cp.SurfaceNames = s.list("names") }},
	{"selection-policy", func(cp *InputParameters.ConversionParameters, s settings) {
		cp.SelectionPolicy = s.v.GetString("selection-policy")
	}},
	{"duplicate-labels", func(cp *InputParameters.ConversionParameters, s settings) {
		cp.DuplicateLabels = s.v.GetBool("duplicate-labels")
	}},
}

func init() {
	for _, sh := range mapping.Shapes {
		kw := sh.Keyword()
		bindings = append(bindings, binding{kw, func(cp *InputParameters.ConversionParameters, s settings) {
			cp.ElementMapping[kw] = s.v.GetInt(kw)
		}})
	}
}

// resolveParameters layers the settings: defaults, config file and
// environment, then the parameters file, then flags given on the command
// line.
func resolveParameters(cmd *cobra.Command, v *viper.Viper) (cp *InputParameters.ConversionParameters, err error) {
	s := settings{cmd: cmd, v: v}
	cp = InputParameters.NewConversionParameters()
	for _, b := range bindings {
		b.apply(cp, s)
	}
	if path := v.GetString("parameters"); path != "" {
		if err = cp.ReadFile(path); err != nil {
			return nil, err
		}
		for _, b := range bindings {
			if cmd.Flags().Changed(b.flag) {
				b.apply(cp, s)
			}
		}
	}
	return cp, cp.Validate()
}

func checkVerbosity(v *viper.Viper) error {
	verbose, force, output := v.GetBool("verbose"), v.GetBool("force"), v.GetString("output")
	switch {
	case force && !verbose:
		return errors.New("-f [ --force ] option is allowed only if -v [ --verbose ] is present")
	case force && output != "":
		return errors.New("-f [ --force ] option has no effect and is not allowed when the output target is a file")
	case verbose && !force && output == "":
		return errors.New("when an output filename is not specified run with -f to force verbose output to stderr")
	}
	return nil
}

type terminal interface {
	IsTerminal() bool
}

// stdinPiped reports whether r carries redirected input rather than an
// interactive terminal.
func stdinPiped(r io.Reader) bool {
	switch in := r.(type) {
	case terminal:
		return !in.IsTerminal()
	case *os.File:
		return !term.IsTerminal(int(in.Fd()))
	}
	return true
}

// readMesh parses the file named in args, or standard input when it is
// redirected. Exactly one of the two must be present.
func readMesh(cmd *cobra.Command, args []string, log *jww.Notepad) (*comsol.Mesh, error) {
	piped := stdinPiped(cmd.InOrStdin())
	p := comsol.NewParser(log)
	switch {
	case len(args) == 1 && piped:
		return nil, errors.New("you can either redirect from standard input or a file or provide an input " +
			"file name, not combinations of those")
	case len(args) == 1:
		return p.ParseFile(args[0])
	case !piped:
		return nil, errors.New("you must either specify the input filename, or redirect from standard input or a file")
	}
	return p.Parse(cmd.InOrStdin())
}

func writeOutput(cmd *cobra.Command, path string, data []byte, log *jww.Notepad) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	log.INFO.Printf("Opening for aero mesh output: %s", path)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("could not open file %s for writing: %w", path, err)
	}
	return nil
}

func runConvert(cmd *cobra.Command, v *viper.Viper, args []string) (err error) {
	if err = checkVerbosity(v); err != nil {
		return
	}
	switch v.GetString("profile") {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(v.GetString("profile-path")),
			profile.NoShutdownHook, profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(v.GetString("profile-path")),
			profile.NoShutdownHook, profile.Quiet).Stop()
	default:
		return fmt.Errorf("unknown profile %q, valid values: cpu, mem", v.GetString("profile"))
	}

	log := utils.NewNotepad(cmd.ErrOrStderr(), v.GetBool("verbose"))
	log.INFO.Printf("Comsol to Aero v.%s", generator.Version)

	cp, err := resolveParameters(cmd, v)
	if err != nil {
		return
	}
	if utils.Verbose(log) {
		cp.Print(log.INFO.Writer())
	}
	opts, err := cp.ConverterOptions()
	if err != nil {
		return
	}

	src, err := readMesh(cmd, args, log)
	if err != nil {
		return
	}
	mesh, _, err := converter.New(opts, log).Convert(src)
	if err != nil {
		return
	}
	if len(mesh.Elements) == 0 {
		return converter.ErrNoDomainElements
	}

	var gen generator.Generator
	if cp.AeroF {
		gen = generator.NewFluid(mesh, log)
	} else {
		gen = generator.NewSolid(mesh, generator.SolidOptions{Matusage: cp.Matusage}, log)
	}
	var buf bytes.Buffer
	if err = gen.Generate(&buf); err != nil {
		return
	}
	if err = writeOutput(cmd, v.GetString("output"), buf.Bytes(), log); err != nil {
		return
	}
	log.INFO.Printf("Memory: %s", utils.GetMemUsage())
	return
}
