package registry

import (
	"context"
	"os"

	"systemuser/internal/systemuser/model"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type registryFile struct {
	Systems []model.RegisteredSystem `yaml:"systems"`
}

// FileRegistry serves registered systems from a YAML seed file loaded once.
type FileRegistry struct {
	systems map[string]model.RegisteredSystem
}

func LoadFileRegistry(path string) (*FileRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read registry file %s", path)
	}
	return FileRegistryFromYAML(data)
}

func FileRegistryFromYAML(data []byte) (*FileRegistry, error) {
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "invalid registry yaml")
	}

	systems := make(map[string]model.RegisteredSystem, len(f.Systems))
	for _, s := range f.Systems {
		if s.SystemID == "" {
			return nil, errors.New("registry entry without system_id")
		}
		if _, dup := systems[s.SystemID]; dup {
			return nil, errors.Errorf("duplicate system_id %q in registry", s.SystemID)
		}
		if s.SystemInternalID == "" {
			s.SystemInternalID = s.SystemID
		}
		systems[s.SystemID] = s
	}
	return &FileRegistry{systems: systems}, nil
}

func (r *FileRegistry) GetRegisteredSystem(ctx context.Context, systemID string) (*model.RegisteredSystem, error) {
	s, ok := r.systems[systemID]
	if !ok || s.IsDeleted {
		return nil, nil
	}
	s.Rights = append([]model.Right(nil), s.Rights...)
	return &s, nil
}

func (r *FileRegistry) GetDefaultRights(ctx context.Context, systemID string) ([]model.Right, error) {
	s, err := r.GetRegisteredSystem(ctx, systemID)
	if err != nil || s == nil {
		return nil, err
	}
	return s.Rights, nil
}
