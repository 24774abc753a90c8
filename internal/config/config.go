// Package config loads optional filter defaults from a JSON file.
package config

import (
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/xeipuuv/gojsonschema"

	"github.com/linuxmatters/midifilter/internal/processor"
)

//go:embed schema.json
var schemaData []byte

// Config holds filter options that rarely change between runs. Map and
// ClearCtrl preset those filters; the matching command line flags replace them.
type Config struct {
	NormaliseMode string   `json:"normaliseMode,omitempty"` // "global" or "track"
	TrimProtect   string   `json:"trimProtect,omitempty"`   // "structural" or "tempo"
	TrimTempo     *bool    `json:"trimTempo,omitempty"`
	Map           string   `json:"map,omitempty"`       // e.g. "drum=127,dmap=60:36"
	ClearCtrl     string   `json:"clearCtrl,omitempty"` // e.g. "7,10"
	Order         []string `json:"order,omitempty"`     // filter names, e.g. ["trim", "map"]
	Debug         bool     `json:"debug,omitempty"`
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "midifilter"), nil
}

// DefaultPath returns the full path to config.json
func DefaultPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config at path. An empty path means the default location;
// a missing file there is not an error. A path given explicitly must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return &Config{}, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &Config{}, nil
		}
		return nil, fault.Wrap(err, ftag.With(ftag.NotFound), fmsg.With("read config"))
	}

	if !json.Valid(data) {
		return nil, fault.New("invalid JSON",
			ftag.With(ftag.InvalidArgument),
			fmsg.WithDesc("parse config", "Config file "+path+" is not valid JSON"))
	}
	// the schema reports type errors by field name, so it runs before decoding
	if err := validate(data); err != nil {
		return nil, fault.Wrap(err,
			ftag.With(ftag.InvalidArgument),
			fmsg.WithDesc("validate config", "Config file "+path+": "+err.Error()))
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fault.Wrap(err,
			ftag.With(ftag.InvalidArgument),
			fmsg.WithDesc("parse config", "Config file "+path+" is not valid JSON"))
	}
	return &cfg, nil
}

// validate checks a config document against the embedded JSON schema.
func validate(data []byte) error {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaData))
	if err != nil {
		return fault.Wrap(err, ftag.With(ftag.Internal))
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fault.New(strings.Join(msgs, "; "))
}

// Apply copies the file's options onto fc. Unset fields leave fc alone.
func (c *Config) Apply(fc *processor.FilterChainConfig) error {
	if c.NormaliseMode != "" {
		mode, err := processor.ParseNormaliseMode(c.NormaliseMode)
		if err != nil {
			return fault.Wrap(err, ftag.With(ftag.InvalidArgument))
		}
		fc.NormaliseMode = mode
	}
	if c.TrimProtect != "" {
		protect, err := processor.ParseProtectSet(c.TrimProtect)
		if err != nil {
			return fault.Wrap(err, ftag.With(ftag.InvalidArgument))
		}
		fc.TrimProtect = protect
	}
	if c.TrimTempo != nil {
		fc.TrimTempo = *c.TrimTempo
	}
	if c.Map != "" {
		fc.MapEnabled = true
		fc.MapSpec = c.Map
	}
	if c.ClearCtrl != "" {
		fc.ClearCtrlEnabled = true
		fc.ClearCtrlSpec = c.ClearCtrl
	}
	if len(c.Order) > 0 {
		order := make([]processor.FilterID, 0, len(c.Order))
		for _, name := range c.Order {
			id, err := processor.ParseFilterID(name)
			if err != nil {
				return fault.Wrap(err, ftag.With(ftag.InvalidArgument))
			}
			order = append(order, id)
		}
		// unlisted filters keep their default relative order, after the listed ones
		for _, id := range processor.DefaultFilterOrder {
			if !slices.Contains(order, id) {
				order = append(order, id)
			}
		}
		fc.Order = order
	}
	return nil
}
