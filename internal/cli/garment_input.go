package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/zerodesign/internal/footprint"
)

// Process option names accepted by --dye and --finish.
const (
	dyeConventional = "conventional"
	dyeNatural      = "natural"
	dyeLowImpact    = "low-impact"
	dyeWaterBased   = "water-based"

	finishStandard  = "standard"
	finishEnzymatic = "enzymatic"
	finishOzone     = "ozone"
	finishLaser     = "laser"

	defaultGarmentName = "Untitled garment"
)

// garmentFlags collects a garment from a file, flags, or both. Flags that
// were set on the command line override the file.
type garmentFlags struct {
	file     string
	name     string
	category string
	fibers   []string
	fabric   string
	weight   float64
	dye      []string
	finish   []string
}

func (f *garmentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "garment definition file (YAML or JSON)")
	cmd.Flags().StringVar(&f.name, "name", "", "garment name")
	cmd.Flags().StringVar(&f.category, "category", "", "garment category, e.g. Tops")
	cmd.Flags().StringArrayVar(&f.fibers, "fiber", nil, "fiber share as NAME=PERCENT (repeatable)")
	cmd.Flags().StringVar(&f.fabric, "fabric", "", "fabric name used to seed fibers when --fiber is not given")
	cmd.Flags().Float64Var(&f.weight, "weight", 0, "garment weight in grams")
	cmd.Flags().StringSliceVar(&f.dye, "dye", nil,
		"dyeing stage: conventional, natural, low-impact, water-based (comma-separated)")
	cmd.Flags().StringSliceVar(&f.finish, "finish", nil,
		"finishing stage: standard, enzymatic, ozone, laser (comma-separated)")
}

// garment builds and validates the garment. table supplies factors for
// fabric seeding.
func (f *garmentFlags) garment(cmd *cobra.Command, table footprint.FactorLookup) (footprint.Garment, error) {
	var g footprint.Garment
	if f.file != "" {
		loaded, err := readGarmentFile(f.file)
		if err != nil {
			return footprint.Garment{}, err
		}
		g = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		g.Name = f.name
	}
	if flags.Changed("category") {
		g.Category = f.category
	}
	if flags.Changed("weight") {
		g.WeightGrams = f.weight
	}
	if flags.Changed("fiber") {
		fibers, err := parseFibers(f.fibers)
		if err != nil {
			return footprint.Garment{}, err
		}
		g.Fibers = fibers
	}
	if len(g.Fibers) == 0 && f.fabric != "" {
		if rows, ok := footprint.SeedFibers(f.fabric, table); ok {
			fibers, weight := footprint.Components(rows)
			g.Fibers = fibers
			if g.WeightGrams == 0 {
				g.WeightGrams = weight
			}
		}
	}
	if flags.Changed("dye") {
		dyeing, err := parseDyeing(f.dye)
		if err != nil {
			return footprint.Garment{}, err
		}
		g.Processes.Dyeing = dyeing
	}
	if flags.Changed("finish") {
		finishing, err := parseFinishing(f.finish)
		if err != nil {
			return footprint.Garment{}, err
		}
		g.Processes.Finishing = finishing
	}

	if g.Name == "" {
		g.Name = defaultGarmentName
	}
	if err := footprint.ValidateGarment(g); err != nil {
		return footprint.Garment{}, err
	}
	return g, nil
}

// readGarmentFile decodes a single garment. .json files use the JSON field
// names; anything else is read as YAML.
func readGarmentFile(path string) (footprint.Garment, error) {
	var g footprint.Garment
	if err := decodeFile(path, &g); err != nil {
		return footprint.Garment{}, err
	}
	return g, nil
}

// collectionFile is the YAML/JSON layout of a collection. A bare list of
// garments is accepted too.
type collectionFile struct {
	Garments []footprint.Garment `json:"garments" yaml:"garments"`
}

// readCollectionFile decodes a list of garments.
func readCollectionFile(path string) ([]footprint.Garment, error) {
	var wrapped collectionFile
	if err := decodeFile(path, &wrapped); err == nil && len(wrapped.Garments) > 0 {
		return wrapped.Garments, nil
	}
	var bare []footprint.Garment
	if err := decodeFile(path, &bare); err != nil {
		return nil, err
	}
	return bare, nil
}

func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// parseFibers parses NAME=PERCENT pairs. The last '=' separates the
// percentage so fiber names may contain one.
func parseFibers(values []string) ([]footprint.FiberComponent, error) {
	fibers := make([]footprint.FiberComponent, 0, len(values))
	for _, v := range values {
		i := strings.LastIndex(v, "=")
		if i <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFiber, v)
		}
		name := strings.TrimSpace(v[:i])
		pct, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v[i+1:]), "%")), 64)
		if name == "" || err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFiber, v)
		}
		fibers = append(fibers, footprint.FiberComponent{Type: name, Percentage: pct})
	}
	return fibers, nil
}

// parseDyeing turns option names into a dyeing stage. "conventional" alone
// enables the stage with no low-impact flags.
func parseDyeing(values []string) (*footprint.DyeingConfig, error) {
	d := &footprint.DyeingConfig{}
	for _, v := range values {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case dyeConventional:
		case dyeNatural:
			d.NaturalDye = true
		case dyeLowImpact:
			d.LowImpactDye = true
		case dyeWaterBased:
			d.WaterBasedDye = true
		default:
			return nil, fmt.Errorf("%w: dye %q", ErrInvalidProcess, v)
		}
	}
	return d, nil
}

// parseFinishing turns option names into a finishing stage. "standard"
// alone enables the stage with no treatments.
func parseFinishing(values []string) (*footprint.FinishingConfig, error) {
	f := &footprint.FinishingConfig{}
	for _, v := range values {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case finishStandard:
		case finishEnzymatic:
			f.EnzymaticWash = true
		case finishOzone:
			f.OzoneTreatment = true
		case finishLaser:
			f.LaserTreatment = true
		default:
			return nil, fmt.Errorf("%w: finish %q", ErrInvalidProcess, v)
		}
	}
	return f, nil
}
