package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog/log"

	"tag2pack/internal/config"
	"tag2pack/internal/convert"
	"tag2pack/internal/diagnostic"
	"tag2pack/internal/mapping"
	"tag2pack/internal/match"
	"tag2pack/internal/packfile"
	"tag2pack/internal/patch"
	"tag2pack/internal/remap"
	"tag2pack/internal/schema"
	"tag2pack/internal/tagfile"
)

func runConvert(c *config.Convert, baseDir string) error {
	started := time.Now()
	templates := config.ResolveTemplates(c.Templates, baseDir)

	report := &diagnostic.Report{
		Input:     c.Input,
		Output:    c.OutputPath(),
		Templates: templates,
		Started:   started,
	}

	err := convertFile(c, templates, report)
	report.Failed = err != nil || report.Diags.HasErrors()
	report.Duration = time.Since(started).String()

	if c.Report != "" {
		if rerr := diagnostic.WriteReport(report, c.Report); rerr != nil {
			log.Error().Err(rerr).Msg("report not written")
		} else {
			log.Info().Str("path", c.Report).Msg("report written")
		}
	}

	return err
}

func convertFile(c *config.Convert, templates string, report *diagnostic.Report) error {
	dict, err := packfile.LoadDictionary(templates)
	if err != nil {
		return err
	}

	profile, err := loadProfile(c.Profile)
	if err != nil {
		return err
	}

	doc, err := tagfile.LoadFile(c.Input)
	if err != nil {
		return err
	}

	report.SourceVersion = doc.Version
	report.SDKVersion = doc.SDKVersion

	log.Debug().Int("types", len(doc.Types)).Int("objects", len(doc.Objects)).Int("classes", dict.Len()).Msg("inputs loaded")

	cfg := convert.DefaultConfig()
	cfg.Strict = c.Strict

	res, err := convert.NewConverter(doc, dict, profile, cfg).Convert()
	if res != nil {
		report.Diags = res.Diagnostics
		report.Converted = res.Converted
		report.Skipped = res.Skipped
		logDiagnostics(res.Diagnostics)
	}

	if err != nil {
		return fmt.Errorf("nothing written: %w", err)
	}

	restore, err := backup(c)
	if err != nil {
		return err
	}

	if err := packfile.WriteFile(res.Packfile, c.OutputPath()); err != nil {
		if rerr := restore(); rerr != nil {
			log.Error().Err(rerr).Msg("failed to restore input from backup")
		}

		return err
	}

	log.Info().
		Str("output", c.OutputPath()).
		Int("converted", res.Converted).
		Int("skipped", len(res.Skipped)).
		Msg("packfile written")

	return nil
}

// backup saves the input before it is overwritten. The returned func undoes
// a rename backup when the output could not be written.
func backup(c *config.Convert) (func() error, error) {
	noop := func() error { return nil }

	path := c.BackupPath()
	if path == "" {
		return noop, nil
	}

	if c.CompressBackup {
		if err := tagfile.CompressFile(c.Input, path); err != nil {
			return nil, fmt.Errorf("failed to back up %s: %w", c.Input, err)
		}

		log.Info().Str("path", path).Msg("compressed backup written")

		return noop, nil
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to replace old backup %s: %w", path, err)
	}

	if err := os.Rename(c.Input, path); err != nil {
		return nil, fmt.Errorf("failed to back up %s: %w", c.Input, err)
	}

	log.Info().Str("path", path).Msg("backup written")

	return func() error { return os.Rename(path, c.Input) }, nil
}

func logDiagnostics(d diagnostic.Diagnostics) {
	for _, i := range d.Infos {
		log.Debug().Msg(i.String())
	}

	for _, w := range d.Warnings {
		log.Warn().Msg(w.String())
	}

	for _, e := range d.Errors {
		log.Error().Msg(e.String())
	}
}

func runDumpClasses(c *config.DumpClasses) error {
	added, err := packfile.DumpClasses(c.Packfile, c.Templates)
	if err != nil {
		return err
	}

	for _, name := range added {
		log.Info().Str("class", name).Msg("class added")
	}

	log.Info().Int("added", len(added)).Str("dictionary", c.Templates).Msg("class dictionary updated")

	return nil
}

func loadProfile(path string) (*mapping.Profile, error) {
	if path == "" {
		return mapping.DefaultProfile(), nil
	}

	return mapping.LoadFile(path)
}

func runDumpProfile(c *config.DumpProfile, stdout io.Writer) error {
	profile, err := loadProfile(c.Profile)
	if err != nil {
		return err
	}

	if c.Output != "" {
		if err := mapping.WriteFile(profile, c.Output); err != nil {
			return err
		}

		log.Info().Str("path", c.Output).Msg("profile written")

		return nil
	}

	data, err := mapping.Marshal(profile)
	if err != nil {
		return err
	}

	_, err = stdout.Write(data)

	return err
}

func runInspect(c *config.Inspect, stdout io.Writer, baseDir string) error {
	doc, err := tagfile.LoadFile(c.Input)
	if err != nil {
		return err
	}

	obj, ok := doc.Object(c.ObjectID)
	if !ok {
		return fmt.Errorf("no object %s in %s", c.ObjectID, c.Input)
	}

	resolver, err := schema.NewResolver(doc)
	if err != nil {
		return err
	}

	class, err := resolver.ObjectTypeName(obj)
	if err != nil {
		log.Warn().Err(err).Msg("class not resolved")
		class = "?"
	}

	fmt.Fprintf(stdout, "%s (%s)\n", obj.ID, class)

	dumper := spew.ConfigState{
		Indent:                  "  ",
		MaxDepth:                16,
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
	}
	dumper.Fdump(stdout, obj.Record)

	if c.Field == "" {
		return nil
	}

	return explainField(c, resolver, obj, class, baseDir, stdout)
}

// explainField prints which rule fills one template field of obj and the
// text it produces.
func explainField(c *config.Inspect, resolver *schema.Resolver, obj *tagfile.Object, class, baseDir string, stdout io.Writer) error {
	dict, err := packfile.LoadDictionary(config.ResolveTemplates(c.Templates, baseDir))
	if err != nil {
		return err
	}

	profile, err := loadProfile(c.Profile)
	if err != nil {
		return err
	}

	tmpl, ok := dict.Class(class)
	if !ok {
		return fmt.Errorf("%w: no template for %s", diagnostic.ErrUnknownClass, class)
	}

	if _, ok := tmpl.Field(c.Field); !ok {
		err := fmt.Errorf("template %s has no field %s", class, c.Field)
		if names := match.Suggest(c.Field, tmpl.FieldNames(), 3); len(names) > 0 {
			err = fmt.Errorf("%w (did you mean %s?)", err, strings.Join(names, ", "))
		}

		return err
	}

	var diags diagnostic.Diagnostics

	registry := patch.Default()
	ctx := &patch.Context{Resolver: resolver, Diags: &diags, Offset: remap.Offset(profile.ReferenceOffset)}
	engine := mapping.NewEngine(resolver, profile, registry.Bind(ctx))

	if _, ok := registry.Lookup(c.Field); ok {
		fmt.Fprintf(stdout, "%s: has a patcher\n", c.Field)
	}

	v, tier, err := engine.Lookup(c.Field, tmpl.FieldNames(), obj.Record)
	if err != nil {
		return err
	}

	switch def, hasDefault := profile.Defaults[c.Field]; {
	case v != nil:
		fmt.Fprintf(stdout, "%s: %s match at %s\n", c.Field, tier, v.Path())
	case hasDefault:
		fmt.Fprintf(stdout, "%s: %s %q\n", c.Field, mapping.TierDefault, def)
	default:
		fmt.Fprintf(stdout, "%s: no source\n", c.Field)
	}

	out, err := engine.BuildObject(tmpl, obj.Record)
	if err != nil {
		fmt.Fprintf(stdout, "object does not convert: %v\n", err)
		return nil
	}

	p, _ := out.Param(c.Field)
	if len(p.Objects) > 0 {
		fmt.Fprintf(stdout, "%s = %d nested object(s)\n", c.Field, len(p.Objects))
	} else {
		fmt.Fprintf(stdout, "%s = %q\n", c.Field, p.Value)
	}

	for _, w := range diags.Warnings {
		fmt.Fprintln(stdout, w.String())
	}

	return nil
}
