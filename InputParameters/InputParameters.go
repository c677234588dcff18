package InputParameters

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/ghodss/yaml"

	"github.com/notargets/comsol2aero/converter"
	"github.com/notargets/comsol2aero/mapping"
)

// ExampleFile is a complete parameters file.
const ExampleFile = `
########################################
Title: "Bar with three materials"
AeroF: false
Matusage: true
Selections: ["Center Mat 1", "Center Mat 2", "Surrounding"]
SelectionPolicy: non-surface # or "volume"
ElementMapping:
  tet: 23
  tri: 4
########################################
`

// ErrNamesRequireAeroF rejects surface names in AERO-S mode.
var ErrNamesRequireAeroF = errors.New("-n [ --names ] option is allowed only aero-f mode")

// Parameters obtained from the YAML parameters file
type ConversionParameters struct {
	Title                  string         `json:"Title"`
	AeroF                  bool           `json:"AeroF"`
	Matusage               bool           `json:"Matusage"`
	SelectionsToAttributes bool           `json:"SelectionsToAttributes"`
	Selections             []string       `json:"Selections"`   // Accepted selection labels, implies SelectionsToAttributes
	SurfaceNames           []string       `json:"SurfaceNames"` // AERO-F surface name prefixes by geometric index
	ElementMapping         map[string]int `json:"ElementMapping"`
	SelectionPolicy        string         `json:"SelectionPolicy"`
	DuplicateLabels        bool           `json:"DuplicateLabels"`
}

func NewConversionParameters() *ConversionParameters {
	return &ConversionParameters{ElementMapping: make(map[string]int)}
}

// ReadFile parses the parameters file at path over the values already in
// cp. Keys missing from the file keep their current value.
func (cp *ConversionParameters) ReadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err = cp.Parse(data); err != nil {
		return fmt.Errorf("parameters file %s: %w", path, err)
	}
	return nil
}

func (cp *ConversionParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, cp)
}

func (cp *ConversionParameters) Print(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", cp.Title)
	fmt.Fprintf(w, "[%v]\t\t\t= AERO-F output\n", cp.AeroF)
	fmt.Fprintf(w, "[%v]\t\t\t= Matusage\n", cp.Matusage)
	fmt.Fprintf(w, "[%v]\t\t\t= Selections to attributes\n", cp.UseSelections())
	fmt.Fprintf(w, "%q\t= Accepted selections\n", cp.Selections)
	fmt.Fprintf(w, "%q\t= Surface names\n", cp.SurfaceNames)
	fmt.Fprintf(w, "[%s]\t= Selection policy\n", cp.policyName())
	keys := make([]string, len(cp.ElementMapping))
	i := 0
	for k := range cp.ElementMapping {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(w, "ElementMapping[%s] = %d\n", key, cp.ElementMapping[key])
	}
}

// UseSelections is true when selections are folded into attributes.
func (cp *ConversionParameters) UseSelections() bool {
	return cp.SelectionsToAttributes || len(cp.Selections) > 0
}

func (cp *ConversionParameters) policyName() string {
	if cp.SelectionPolicy == "" {
		return converter.NonSurfaceSelections.String()
	}
	return cp.SelectionPolicy
}

// Validate checks the combination of parameters and every element mapping
// against the target ids the shape supports.
func (cp *ConversionParameters) Validate() error {
	if len(cp.SurfaceNames) > 0 && !cp.AeroF {
		return ErrNamesRequireAeroF
	}
	if _, err := converter.ParseSelectionPolicy(cp.policyName()); err != nil {
		return err
	}
	_, err := cp.mapping()
	return err
}

func (cp *ConversionParameters) mapping() (map[mapping.Shape]int, error) {
	m := mapping.DefaultMapping()
	for kw, id := range cp.ElementMapping {
		sh, ok := mapping.ShapeFromKeyword(kw)
		if !ok {
			return nil, fmt.Errorf("unknown element type %q in element mapping", kw)
		}
		if !sh.IsSupported(id) {
			return nil, fmt.Errorf("the argument ('%d') for option '--%s' is invalid. %s", id, kw, sh.HelpText())
		}
		m[sh] = id
	}
	return m, nil
}

// ConverterOptions validates the parameters and builds the conversion options.
func (cp *ConversionParameters) ConverterOptions() (opts converter.Options, err error) {
	if err = cp.Validate(); err != nil {
		return
	}
	if opts.Mapping, err = cp.mapping(); err != nil {
		return
	}
	opts.SelectionPolicy, _ = converter.ParseSelectionPolicy(cp.policyName())
	opts.SelectionsToAttributes = cp.UseSelections()
	opts.AcceptedSelections = cp.Selections
	opts.SurfacePrefixes = cp.SurfaceNames
	opts.DuplicateLabels = cp.DuplicateLabels
	return
}
