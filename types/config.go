package types

import (
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"text2phenotype.com/postag/logger"
	"text2phenotype.com/postag/tagset"
	"text2phenotype.com/postag/utils"
)

const (
	FormatCoNLLU = "conllu"
	FormatJSON   = "json"

	// labeling functions
	GoldLabeling      = "gold"
	TreebankLabeling  = "treebank"
	UniversalLabeling = "universal"

	DefaultDataset = "UD_English-EWT"
	DefaultSplit   = "train"
)

var ErrInvalidConfiguration = errors.New("invalid configuration")

type Configuration struct {
	Name     string `yaml:"-" json:"name"`
	FilePath string `yaml:"-" json:"file_path"`
	Dataset  string `yaml:"dataset" json:"dataset"`
	Format   string `yaml:"format" json:"format"`
	Split    string `yaml:"split" json:"split"`
	// Subset limits the number of documents read; nil reads all of them.
	Subset            *int     `yaml:"subset" json:"subset,omitempty"`
	TagField          string   `yaml:"tag_field" json:"tag_field"`
	Labels            []string `yaml:"labels" json:"labels"`
	LabelsFile        string   `yaml:"labels_file" json:"labels_file,omitempty"`
	LabelingFunctions []string `yaml:"labeling_functions" json:"labeling_functions"`
}

func (cfg Configuration) CheckLabelingFunction(name string) bool {
	for _, lf := range cfg.LabelingFunctions {
		if lf == name {
			return true
		}
	}
	return false
}

// withDefaults fills empty fields and merges LabelsFile into Labels. When the
// treebank labeling function is configured, every label must be a universal
// category since that function compares labels against mapped tags.
func (cfg Configuration) withDefaults() (Configuration, error) {
	if cfg.Dataset == "" {
		cfg.Dataset = DefaultDataset
	}
	if cfg.Format == "" {
		cfg.Format = FormatCoNLLU
	}
	if cfg.Split == "" {
		cfg.Split = DefaultSplit
	}
	if len(cfg.LabelingFunctions) == 0 {
		cfg.LabelingFunctions = []string{GoldLabeling}
	}
	field, err := ParseTagField(cfg.TagField)
	if err != nil {
		return cfg, fmt.Errorf("%w: %s", ErrInvalidConfiguration, err)
	}
	cfg.TagField = string(field)
	if cfg.Subset != nil && *cfg.Subset < 0 {
		return cfg, fmt.Errorf("%w: negative subset %d", ErrInvalidConfiguration, *cfg.Subset)
	}

	if cfg.LabelsFile != "" {
		labelsPath := cfg.LabelsFile
		if !path.IsAbs(labelsPath) && cfg.FilePath != "" {
			labelsPath = path.Join(path.Dir(cfg.FilePath), labelsPath)
		}
		fromFile, err := utils.ReadSet(labelsPath)
		if err != nil {
			return cfg, fmt.Errorf("%w: labels file: %s", ErrInvalidConfiguration, err)
		}
		for _, label := range cfg.Labels {
			fromFile[label] = true
		}
		labels := make([]string, 0, len(fromFile))
		for label := range fromFile {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		cfg.Labels = labels
	}

	if cfg.CheckLabelingFunction(TreebankLabeling) {
		for _, label := range cfg.Labels {
			if err := tagset.ValidateLabel(label); err != nil {
				return cfg, fmt.Errorf("%w: %s labeling: %w", ErrInvalidConfiguration, TreebankLabeling, err)
			}
		}
	}
	return cfg, nil
}

// LoadConfiguration reads a single YAML tagging configuration.
func LoadConfiguration(filePath string) (Configuration, error) {
	cfg := Configuration{
		Name:     strings.TrimSuffix(path.Base(filePath), path.Ext(filePath)),
		FilePath: filePath,
	}
	buf, err := os.ReadFile(filePath)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s", ErrInvalidConfiguration, err)
	}
	return cfg.withDefaults()
}

// LoadConfigurations reads every *.yaml file in dirPath. Files that fail to
// load are logged and skipped. The result is sorted by name.
func LoadConfigurations(dirPath string) ([]Configuration, error) {
	cfgLogger := logger.NewLogger("LoadConfigurations")

	files, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	configChan := make(chan Configuration, len(files))
	for _, f := range files {
		// Skip dirs and non-yaml files
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".yaml") {
			continue
		}

		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			cfg, err := LoadConfiguration(path.Join(dirPath, name))
			if err != nil {
				cfgLogger.Err(err).Str("file", name).Msg("Skipping configuration")
				return
			}
			configChan <- cfg
		}(f.Name())
	}

	wg.Wait()
	close(configChan)

	configs := make([]Configuration, 0, len(configChan))
	for cfg := range configChan {
		configs = append(configs, cfg)
	}
	sort.Slice(configs, func(i, j int) bool { return configs[i].Name < configs[j].Name })
	return configs, nil
}
