package am

import (
	"os"
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/nodegraph/errors"
	"github.com/teranos/nodegraph/logger"
)

// GetUIConfigPath returns ~/.nodegraph/am_from_ui.toml, the file holding
// settings changed from a connected client rather than by hand.
func GetUIConfigPath() string {
	dir := UserDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "am_from_ui.toml")
}

// createBackup rotates .back1 -> .back2 -> .back3 before the file is rewritten
func createBackup(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil
	}

	back1 := configPath + ".back1"
	back2 := configPath + ".back2"
	back3 := configPath + ".back3"

	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		logger.Warnw("Failed to delete old config backup", logger.FieldFile, back3, logger.FieldError, err)
	}
	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}
	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	if err := os.WriteFile(back1, content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}

func loadOverrides(configPath string) (map[string]interface{}, error) {
	config := make(map[string]interface{})
	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read UI config")
	}
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(err, "failed to parse UI config")
	}
	return config, nil
}

// SaveSectionOverrides merges values into one section ("layout", "view")
// of the given override file, keeping a rotating backup.
func SaveSectionOverrides(configPath, section string, values map[string]interface{}) error {
	if configPath == "" {
		return errors.New("could not determine config path")
	}
	if err := os.MkdirAll(filepath.Dir(configPath), DefaultDirPermissions); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	config, err := loadOverrides(configPath)
	if err != nil {
		return err
	}

	sectionMap, ok := config[section].(map[string]interface{})
	if !ok {
		sectionMap = make(map[string]interface{})
	}
	for key, value := range values {
		sectionMap[key] = value
	}
	config[section] = sectionMap

	if err := createBackup(configPath); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if w := GetGlobalWatcher(); w != nil {
		w.MarkOwnWrite()
	}

	if err := os.WriteFile(configPath, data, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to write UI config")
	}
	return nil
}

// SaveLayoutOverrides persists physics constants tuned from a client
func SaveLayoutOverrides(values map[string]interface{}) error {
	return SaveSectionOverrides(GetUIConfigPath(), "layout", values)
}

// ApplyLayoutOverrides decodes values (layout keys such as "link_distance")
// onto a copy of cfg, validates the result and persists values to the UI
// config file. Unknown keys are rejected. cfg is not modified.
func ApplyLayoutOverrides(cfg *Config, values map[string]interface{}) (*Config, error) {
	if len(values) == 0 {
		return nil, errors.New("no layout overrides given")
	}

	next := *cfg
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &next.Layout,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create layout decoder")
	}
	if err := decoder.Decode(values); err != nil {
		return nil, errors.Wrap(err, "invalid layout overrides")
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}

	if err := SaveLayoutOverrides(values); err != nil {
		return nil, err
	}
	return &next, nil
}
