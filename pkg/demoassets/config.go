package demoassets

import (
	"gopkg.in/yaml.v3"

	"github.com/Eddieg26/gob/pkg/asset"
	gobErrors "github.com/Eddieg26/gob/pkg/errors"
	"github.com/Eddieg26/gob/pkg/importer"
	"github.com/Eddieg26/gob/pkg/library"
)

// ConfigAsset holds a decoded YAML document as a key/value map.
type ConfigAsset struct {
	Values map[string]any
}

// ConfigSettings optionally names another .yml/.yaml source this config
// inherits unset keys from.
type ConfigSettings struct {
	DependsOn string `toml:"depends_on"`
}

// ConfigImporter decodes .yml/.yaml sources as YAML and, when Settings
// names a DependsOn path already present in the library, records a
// dependency edge on it.
type ConfigImporter struct {
	Library *library.Library
}

func (ConfigImporter) Extensions() []string { return []string{".yml", ".yaml"} }

func (c ConfigImporter) Import(ctx *importer.LoadContext[ConfigSettings]) (ConfigAsset, error) {
	var values map[string]any
	if err := yaml.Unmarshal(ctx.Bytes(), &values); err != nil {
		return ConfigAsset{}, gobErrors.Wrap(gobErrors.CodeInvalidData, err, "decode yaml config")
	}

	if dep := ctx.Settings().DependsOn; dep != "" {
		if id, ok := c.Library.PathId(dep); ok {
			ctx.AddDependency(id)
		}
	}

	return ConfigAsset{Values: values}, nil
}

// ConfigProcessor fills in any key missing from the asset's own values from
// its declared dependency, letting a config inherit defaults from another.
type ConfigProcessor struct {
	Library *library.Library
}

func (p ConfigProcessor) Process(a *ConfigAsset, ctx *importer.ProcessContext[ConfigSettings]) error {
	dep := ctx.Metadata().Settings.DependsOn
	if dep == "" {
		return nil
	}

	id, ok := p.Library.PathId(dep)
	if !ok {
		return nil
	}

	base, ok := importer.GetAsset[ConfigAsset](ctx, id)
	if !ok {
		return nil
	}

	if a.Values == nil {
		a.Values = map[string]any{}
	}
	for k, v := range base.Values {
		if _, exists := a.Values[k]; !exists {
			a.Values[k] = v
		}
	}
	return nil
}

// ConfigSaver serializes ConfigAsset back to YAML for the artifact payload.
type ConfigSaver struct{}

func (ConfigSaver) Save(a ConfigAsset, _ asset.Metadata[ConfigSettings]) []byte {
	out, err := yaml.Marshal(a.Values)
	if err != nil {
		return nil
	}
	return out
}

func (ConfigSaver) Load(b []byte) ConfigAsset {
	var values map[string]any
	_ = yaml.Unmarshal(b, &values)
	return ConfigAsset{Values: values}
}
