package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Eddieg26/gob/internal/config"
	"github.com/Eddieg26/gob/internal/logging"
	"github.com/Eddieg26/gob/pkg/asset"
	"github.com/Eddieg26/gob/pkg/assetdb"
	"github.com/Eddieg26/gob/pkg/assetio"
	"github.com/Eddieg26/gob/pkg/demoassets"
	"github.com/Eddieg26/gob/pkg/importer"
	"github.com/Eddieg26/gob/pkg/library"
	"github.com/Eddieg26/gob/pkg/pipeline"
)

// newImportCommand builds the pipeline's only subcommand: a full import run
// over the project's Assets/ directory.
func newImportCommand(cfg *config.Config, logger logging.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Import every asset under Assets/",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cfg, logger)
		},
	}
}

func runImport(cfg *config.Config, logger logging.Logger) error {
	layout := asset.NewLayout(cfg.Root)
	fs := assetio.New(layout, assetio.LocalFileSystem{})

	if err := layout.EnsureDirs(fs, logger); err != nil {
		return err
	}

	lib := loadLibrary(fs, logger)
	db := assetdb.New(lib, registeredImporters(lib))

	paths, err := sourcesUnder(fs, layout.Assets)
	if err != nil {
		return err
	}

	logger.Info("starting import", "root", cfg.Root, "sources", len(paths))
	pipeline.FullImport(paths, fs, db, logger, cfg.Pipeline.ChunkSize, cfg.Pipeline.Workers)

	if err := fs.Write(layout.LibraryPath(), db.Library().Encode()); err != nil {
		return err
	}
	logger.Info("import complete", "assets", db.Library().Len())
	return nil
}

// loadLibrary reads the persisted path/id index, if any, falling back to an
// empty one on first run or a corrupt file.
func loadLibrary(fs *assetio.AssetFS, logger logging.Logger) *library.Library {
	data, err := fs.Read(fs.Layout.LibraryPath())
	if err != nil {
		return library.New()
	}

	lib, ok := library.Decode(data)
	if !ok {
		logger.Warn("discarding corrupt asset library", "path", fs.Layout.LibraryPath())
		return library.New()
	}
	return lib
}

// registeredImporters builds the importer registry with the demo asset
// types this repo ships: TextAsset for .txt and ConfigAsset for .yml/.yaml.
// ConfigImporter/ConfigProcessor resolve DependsOn paths through lib, the
// same path/id index the pipeline itself is running against.
func registeredImporters(lib *library.Library) *importer.Importers {
	reg := importer.NewImporters()

	importer.Register[demoassets.TextAsset, demoassets.TextSettings](
		reg, demoassets.TextImporter{}, demoassets.TextSaver{},
		func() demoassets.TextSettings { return demoassets.TextSettings{} },
	)

	importer.Register[demoassets.ConfigAsset, demoassets.ConfigSettings](
		reg, demoassets.ConfigImporter{Library: lib}, demoassets.ConfigSaver{},
		func() demoassets.ConfigSettings { return demoassets.ConfigSettings{} },
	)
	importer.SetProcessor[demoassets.ConfigAsset, demoassets.ConfigSettings](reg, demoassets.ConfigProcessor{Library: lib})

	return reg
}

// sourcesUnder lists every file under root except sidecar .meta files.
func sourcesUnder(fs *assetio.AssetFS, root string) ([]string, error) {
	all, err := fs.ReadDirectory(root, true)
	if err != nil {
		return nil, err
	}

	var sources []string
	for _, path := range all {
		if filepath.Ext(path) == ".meta" {
			continue
		}
		sources = append(sources, path)
	}
	return sources, nil
}
