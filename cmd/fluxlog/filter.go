package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fluxlog/fluxlog"
	"github.com/fluxlog/fluxlog/compiler"
	"github.com/fluxlog/fluxlog/compiler/parser"
	"github.com/fluxlog/fluxlog/schema"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type filterFlags struct {
	schemaPath string
	filter     string
	verbose    bool
}

func newFilterCommand() *cobra.Command {
	var flags filterFlags
	cmd := &cobra.Command{
		Use:   "filter [file.ndjson]",
		Short: "compile a filter expression and run it over NDJSON records",
		Long: `Filter compiles the given expression against a YAML-declared schema and
prints every input record the compiled expression matches.  Records are
read as NDJSON from the named file, or from stdin when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(&flags, args)
		},
	}
	cmd.Flags().StringVarP(&flags.schemaPath, "schema", "s", "", "YAML schema file")
	cmd.Flags().StringVarP(&flags.filter, "filter", "f", "", "filter expression (empty matches everything)")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	cmd.MarkFlagRequired("schema")
	return cmd
}

func runFilter(flags *filterFlags, args []string) error {
	cfg := zap.NewProductionConfig()
	if flags.verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	defer logger.Sync()

	sc, err := loadSchema(flags.schemaPath)
	if err != nil {
		return err
	}
	node, err := parser.Parse(flags.filter)
	if err != nil {
		return err
	}
	e, err := compiler.Compile(node, sc)
	if err != nil {
		return err
	}
	logger.Debug("compiled filter",
		zap.String("filter", flags.filter),
		zap.Stringer("canonical", e),
		zap.Int("minterms", e.Len()))

	input := io.Reader(os.Stdin)
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		input = f
	}

	var scanned, matched int
	lines := bufio.NewScanner(input)
	lines.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for lines.Scan() {
		line := bytes.TrimSpace(lines.Bytes())
		if len(line) == 0 {
			continue
		}
		scanned++
		rec, err := decodeRecord(sc, line)
		if err != nil {
			logger.Warn("skipping record", zap.Int("line", scanned), zap.Error(err))
			continue
		}
		if e.Test(rec) {
			matched++
			fmt.Printf("%s\n", line)
		}
	}
	if err := lines.Err(); err != nil {
		return err
	}
	logger.Info("scan complete", zap.Int("scanned", scanned), zap.Int("matched", matched))
	return nil
}

type schemaFile struct {
	Fields []struct {
		Name string `yaml:"name"`
		Type string `yaml:"type"`
		Size int    `yaml:"size"`
	} `yaml:"fields"`
}

func loadSchema(path string) (*schema.Schema, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var def schemaFile
	if err := yaml.Unmarshal(b, &def); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	fields := make([]schema.Field, 0, len(def.Fields))
	for _, f := range def.Fields {
		typ, err := fluxlog.TypeOf(f.Type)
		if err != nil {
			return nil, fmt.Errorf("%s: field %q: %w", path, f.Name, err)
		}
		fields = append(fields, schema.Field{Name: f.Name, Type: typ, Size: f.Size})
	}
	return schema.New(fields)
}

func decodeRecord(sc *schema.Schema, line []byte) (*schema.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	literals := make([]string, 0, len(sc.Columns()))
	for _, c := range sc.Columns() {
		v, ok := obj[c.Name]
		if !ok {
			return nil, fmt.Errorf("missing field %q", c.Name)
		}
		literals = append(literals, literalOf(v))
	}
	return sc.ParseRecord(literals...)
}

func literalOf(v any) string {
	switch v := v.(type) {
	case json.Number:
		return v.String()
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	}
	return fmt.Sprint(v)
}
