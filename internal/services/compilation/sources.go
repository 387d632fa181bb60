package compilation

import (
	"os"

	"github.com/KirkDiggler/craft-sim/internal/catalogs"
	crafterr "github.com/KirkDiggler/craft-sim/internal/errors"
	"github.com/KirkDiggler/craft-sim/internal/reconciler"
)

// SourceFiles locates the payloads on disk
type SourceFiles struct {
	SimulatorPath string
	OfficialPath  string
	// OverridesPath is optional
	OverridesPath string
}

// ReadInput decodes the payload and override files into a CompileInput
func ReadInput(files *SourceFiles) (*CompileInput, error) {
	if files == nil {
		return nil, crafterr.InvalidArgument("source files cannot be nil")
	}

	input := &CompileInput{Overrides: reconciler.Overrides{}}

	f, err := openSource(files.SimulatorPath, "simulator")
	if err != nil {
		return nil, err
	}
	input.Simulator, err = catalogs.DecodeSimulatorPayload(f)
	_ = f.Close()
	if err != nil {
		return nil, crafterr.Wrapf(err, "failed to read %s", files.SimulatorPath)
	}

	f, err = openSource(files.OfficialPath, "official")
	if err != nil {
		return nil, err
	}
	input.Official, err = catalogs.DecodeOfficialPayload(f)
	_ = f.Close()
	if err != nil {
		return nil, crafterr.Wrapf(err, "failed to read %s", files.OfficialPath)
	}

	if files.OverridesPath != "" {
		f, err = openSource(files.OverridesPath, "overrides")
		if err != nil {
			return nil, err
		}
		input.Overrides, err = reconciler.LoadOverrides(f)
		_ = f.Close()
		if err != nil {
			return nil, crafterr.Wrapf(err, "failed to read %s", files.OverridesPath)
		}
	}

	return input, nil
}

func openSource(path, source string) (*os.File, error) {
	if path == "" {
		return nil, crafterr.Configurationf("%s payload path is required", source).
			WithMeta("source", source)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, crafterr.WrapWithCode(err, crafterr.CodeConfiguration, "failed to open "+source+" payload").
			WithMeta("source", source).
			WithMeta("path", path)
	}
	return f, nil
}
