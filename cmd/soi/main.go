package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ChristopherRabotin/pconics"
	"github.com/ChristopherRabotin/pconics/units"
	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/spf13/cobra"
)

// This code only computes the spheres of influence of a catalog, it does not design any trajectory.

var errValidation = errors.New("reference validation failed")

type options struct {
	configFile  string
	catalogFile string
	unit        string
	format      string
	logLevel    string
}

// setup loads the configuration and applies the command line overrides.
func (o *options) setup(stderr io.Writer) (*pconics.Calculator, units.Unit, kitlog.Logger, error) {
	conf, err := pconics.LoadConfig(o.configFile)
	if err != nil {
		return nil, units.Unit{}, nil, err
	}
	if o.catalogFile != "" {
		conf.CatalogFile = o.catalogFile
	}
	if o.logLevel != "" {
		conf.LogLevel = strings.ToLower(o.logLevel)
	}
	if o.unit != "" {
		u, err := units.ParseUnit(o.unit)
		if err != nil {
			return nil, units.Unit{}, nil, err
		}
		if u.Dimension() != units.Length {
			return nil, units.Unit{}, nil, fmt.Errorf("--unit %s: %w", u, units.ErrIncompatible)
		}
		conf.Unit = u
	}
	logger, err := pconics.NewLogger(stderr, conf.LogLevel)
	if err != nil {
		return nil, units.Unit{}, nil, err
	}
	cat, err := conf.Catalog()
	if err != nil {
		return nil, units.Unit{}, nil, err
	}
	level.Debug(logger).Log("msg", "catalog loaded", "bodies", cat.Len(), "root", cat.Root().Name())
	return pconics.NewCalculator(cat, pconics.WithLogger(logger)), conf.Unit, logger, nil
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "soi [body...]",
		Short:         "Sphere of influence radii of the bodies of a catalog",
		Long:          "Computes the Laplace sphere of influence of each requested body (all bodies if none) with respect to its parent.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			calc, u, logger, err := opts.setup(stderr)
			if err != nil {
				return err
			}
			rows, err := selectRows(calc, args)
			if err != nil {
				return err
			}
			level.Info(logger).Log("msg", "computed", "bodies", len(rows))
			switch opts.format {
			case "csv":
				return pconics.WriteCSV(stdout, rows, u)
			case "json":
				return pconics.WriteJSON(stdout, rows, u)
			case "text":
				for _, row := range rows {
					if r, ok := row.Result.Radius(); ok {
						fmt.Fprintf(stdout, "%-10s %-10s %.6g %s\n", row.Body.Name(), row.Parent, r.In(u), u)
					} else {
						fmt.Fprintf(stdout, "%-10s %-10s %s\n", row.Body.Name(), "-", row.Result)
					}
				}
				return nil
			default:
				return fmt.Errorf("unknown format '%s'", opts.format)
			}
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "configuration file (default: $"+pconics.ConfigEnv+"/conf.toml)")
	flags.StringVar(&opts.catalogFile, "catalog", "", "catalog file with [[bodies]] tables (default: solar system)")
	flags.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn, error or none")
	root.Flags().StringVar(&opts.unit, "unit", "", "length unit of the radii (m, km, au)")
	root.Flags().StringVar(&opts.format, "format", "text", "output format (text, csv, json)")

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Compare the computed radii with Curtis, Table A.2",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			calc, _, logger, err := opts.setup(stderr)
			if err != nil {
				return err
			}
			devs, err := pconics.Validate(calc, pconics.CurtisReference(), pconics.ReferenceTolerance)
			if err != nil {
				return err
			}
			failed := 0
			for _, dev := range devs {
				fmt.Fprintln(stdout, dev)
				if !dev.Within {
					failed++
					level.Warn(logger).Log("body", dev.Body, "deviation", dev.Relative)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d bodies", errValidation, failed, len(devs))
			}
			return nil
		},
	}
	root.AddCommand(validate)
	return root
}

func selectRows(calc *pconics.Calculator, names []string) ([]pconics.SOIRow, error) {
	if len(names) == 0 {
		return calc.Table()
	}
	cat := calc.Catalog()
	rows := make([]pconics.SOIRow, len(names))
	for i, name := range names {
		b, err := cat.Lookup(name)
		if err != nil {
			return nil, err
		}
		res, err := calc.SOI(b)
		if err != nil {
			return nil, err
		}
		rows[i] = pconics.SOIRow{Body: b, Result: res}
		if parent, ok, _ := cat.ParentOf(b); ok {
			rows[i].Parent = parent.Name()
		}
	}
	return rows, nil
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "soi: %s\n", err)
		os.Exit(1)
	}
}
