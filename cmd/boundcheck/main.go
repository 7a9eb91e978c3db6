package main

import (
	"context"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"text/tabwriter"

	"github.com/mapreg/boundcheck"
	"github.com/mapreg/boundcheck/internal/config"
)

func main() {
	fs := flag.NewFlagSet("boundcheck", flag.ExitOnError)
	var (
		confFilename = fs.String("config", "", "Sets configuration filename. Optional.")
		input        = fs.String("input", "", "GeoJSON FeatureCollection to inspect.")
		region       = fs.String("region", "", "Claimed region code, e.g. KY.")
		layer        = fs.String("layer", "county", "Claimed layer type.")
		name         = fs.String("name", "", "Human-readable target name.")
		unionCode    = fs.String("union", "", "Identifier code of the authoritative union, if any.")
	)
	fs.Usage = usageFor(fs, os.Args[0]+" [flags]")
	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Printf("[ERROR] fs.Parse(%v) => %v\n", os.Args[1:], err)
		os.Exit(1)
	}

	envConfFilename := os.Getenv("CONFIG")
	if len(envConfFilename) > 0 {
		*confFilename = envConfFilename
	}
	conf := &config.Config{}
	if len(*confFilename) > 0 {
		loaded, err := config.FromFile(*confFilename)
		if err != nil {
			fmt.Printf("[ERROR] config.FromFile(%s) => %v\n", *confFilename, err)
			os.Exit(1)
		}
		conf = loaded
	}

	logger, err := conf.BuildLogger()
	if err != nil {
		fmt.Printf("[ERROR] conf.BuildLogger() => %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if len(*input) == 0 || len(*region) == 0 {
		fs.Usage()
		os.Exit(1)
	}

	raw, err := ioutil.ReadFile(*input)
	if err != nil {
		logger.Sugar().Errorf("read input: %v", err)
		os.Exit(1)
	}
	features, err := boundcheck.ParseFeatureCollection(raw)
	if err != nil {
		logger.Sugar().Errorf("parse input: %v", err)
		os.Exit(1)
	}

	opts := []boundcheck.Option{boundcheck.WithLogger(logger)}
	if len(conf.Validation.ReferenceData) > 0 {
		refdata, err := boundcheck.ReferenceDataFromFile(conf.Validation.ReferenceData)
		if err != nil {
			logger.Sugar().Errorf("load reference data: %v", err)
			os.Exit(1)
		}
		opts = append(opts, boundcheck.WithReferenceData(refdata))
	}
	if len(conf.Validation.UnionEndpoint) > 0 {
		provider := boundcheck.NewHTTPUnionProvider(
			conf.Validation.UnionEndpoint,
			conf.Validation.UnionTimeout.Std(),
		)
		opts = append(opts, boundcheck.WithUnionProvider(provider))
	}

	engine := boundcheck.New(opts...)
	report, err := engine.Inspect(context.Background(), boundcheck.Dataset{
		Target: boundcheck.RegionTarget{
			Name:           *name,
			RegionCode:     *region,
			IdentifierCode: *unionCode,
			LayerType:      *layer,
		},
		Features: features,
	})
	if err != nil {
		logger.Sugar().Errorf("inspect: %v", err)
		os.Exit(1)
	}

	printReport(report)
	if report.Tier == boundcheck.TierReject {
		os.Exit(2)
	}
}

func printReport(report *boundcheck.QualityReport) {
	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintf(w, "report\t%s\n", report.ReportID)
	fmt.Fprintf(w, "target\t%s/%s\n", report.Target.RegionCode, report.Target.LayerType)
	fmt.Fprintf(w, "score\t%d\n", report.Score)
	fmt.Fprintf(w, "tier\t%s\n", report.Tier)
	fmt.Fprintf(w, "bounds\tvalid=%v confidence=%d\n", report.Bounds.Valid, report.Bounds.Confidence)
	fmt.Fprintf(w, "topology\tvalid=%v invalid=%d selfIntersections=%d overlaps=%d gaps=%d\n",
		report.Topology.Valid,
		len(report.Topology.InvalidGeometries),
		report.Topology.SelfIntersections(),
		len(report.Topology.Overlaps),
		len(report.Topology.Gaps))
	fmt.Fprintf(w, "coordinates\tvalid=%v null=%d outOfRange=%d suspicious=%d\n",
		report.Coordinates.Valid,
		len(report.Coordinates.NullCoordinates),
		report.Coordinates.OutOfRangeCount,
		len(report.Coordinates.SuspiciousLocations))
	fmt.Fprintf(w, "completeness\tvalid=%v %d/%d (%.2f%%)\n",
		report.Completeness.Valid,
		report.Completeness.Actual,
		report.Completeness.Expected,
		report.Completeness.Percentage)
	for _, issue := range report.Bounds.Issues {
		fmt.Fprintf(w, "issue\t%s\n", issue)
	}
	for _, warning := range allWarnings(report) {
		fmt.Fprintf(w, "warning\t%s\n", warning)
	}
	w.Flush()
}

func allWarnings(report *boundcheck.QualityReport) []string {
	var out []string
	out = append(out, report.Bounds.Warnings...)
	out = append(out, report.Topology.Warnings...)
	out = append(out, report.Coordinates.Warnings...)
	out = append(out, report.Completeness.Warnings...)
	return out
}

func usageFor(fs *flag.FlagSet, short string) func() {
	return func() {
		fmt.Fprintf(os.Stderr, "USAGE\n")
		fmt.Fprintf(os.Stderr, "  %s\n", short)
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "FLAGS\n")
		w := tabwriter.NewWriter(os.Stderr, 0, 2, 2, ' ', 0)
		fs.VisitAll(func(f *flag.Flag) {
			fmt.Fprintf(w, "\t-%s %s\t%s\n", f.Name, f.DefValue, f.Usage)
		})
		w.Flush()
		fmt.Fprintf(os.Stderr, "\n")
	}
}
