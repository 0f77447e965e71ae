package config

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/kolah/routespec/model"
	"github.com/spf13/cobra"
)

const DefaultFile = "routespec.yaml"

type Config struct {
	Routes         string       `koanf:"routes"`
	Output         string       `koanf:"output"`
	Format         string       `koanf:"format"`
	OpenAPIVersion string       `koanf:"openapi-version"`
	Strict         bool         `koanf:"strict"`
	StrictCycles   bool         `koanf:"strict-cycles"`
	Info           InfoConfig   `koanf:"info"`
	Host           string       `koanf:"host"`
	ShowHost       bool         `koanf:"show-host"`
	BasePath       string       `koanf:"base-path"`
	Schemes        []string     `koanf:"schemes"`
	Tags           []TagConfig  `koanf:"tags"`
	Serve          ServeConfig  `koanf:"serve"`
	Naming         NamingConfig `koanf:"naming"`
}

type InfoConfig struct {
	Title          string `koanf:"title"`
	Version        string `koanf:"version"`
	Description    string `koanf:"description"`
	TermsOfService string `koanf:"terms-of-service"`
	// Contact is either "Name <email> (url)" or a mapping with name,
	// email and url.
	Contact any `koanf:"contact"`
	// License is either a name or a mapping with name and url.
	License any `koanf:"license"`
}

type TagConfig struct {
	Name        string `koanf:"name"`
	Description string `koanf:"description"`
}

type ServeConfig struct {
	Addr     string `koanf:"addr"`
	JSONPath string `koanf:"json-path"`
	YAMLPath string `koanf:"yaml-path"`
}

type NamingConfig struct {
	AdditionalInitialisms []string `koanf:"additional-initialisms"`
}

var defaults = map[string]any{
	"format":          "json",
	"openapi-version": "2.0",
	"serve.addr":      ":8080",
	"serve.json-path": "/swagger.json",
	"serve.yaml-path": "/swagger.yaml",
}

// BindFlags binds the flags shared by all commands.
func BindFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringP("config", "c", "", "Config file path (default: routespec.yaml)")
	flags.StringP("routes", "r", "", "Route manifest file path")
	flags.String("openapi-version", "", "Output version: 2.0, 3.0")
	flags.Bool("strict", false, "Fail on validation violations")
	flags.Bool("strict-cycles", false, "Reject anonymous recursive types")
	flags.String("title", "", "API title")
	flags.String("api-version", "", "API version")
	flags.String("host", "", "API host")
	flags.String("base-path", "", "URL prefix of all operations")
	flags.StringSlice("schemes", nil, "Transfer protocols: http, https")
	flags.StringSlice("additional-initialisms", nil, "Additional initialisms")
}

func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	configFile, _ := cmd.Flags().GetString("config")
	if configFile == "" {
		configFile, _ = cmd.PersistentFlags().GetString("config")
	}
	if configFile == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			configFile = DefaultFile
		}
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	flagsMap := buildFlagsMap(cmd)
	if len(flagsMap) > 0 {
		if err := k.Load(confmap.Provider(flagsMap, "."), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if _, ok := flagsMap["info.version"]; !ok && configFile != "" {
		version, err := literalVersion(configFile)
		if err != nil {
			return nil, err
		}
		if version != "" {
			cfg.Info.Version = version
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func buildFlagsMap(cmd *cobra.Command) map[string]any {
	m := make(map[string]any)

	getString := func(name string) string {
		if v, err := cmd.Flags().GetString(name); err == nil && v != "" {
			return v
		}
		if v, err := cmd.PersistentFlags().GetString(name); err == nil && v != "" {
			return v
		}
		return ""
	}

	getStringSlice := func(name string) []string {
		if v, err := cmd.Flags().GetStringSlice(name); err == nil && len(v) > 0 {
			return v
		}
		if v, err := cmd.PersistentFlags().GetStringSlice(name); err == nil && len(v) > 0 {
			return v
		}
		return nil
	}

	flagChanged := func(name string) bool {
		return cmd.Flags().Changed(name) || cmd.PersistentFlags().Changed(name)
	}

	getBool := func(name string) bool {
		if v, err := cmd.Flags().GetBool(name); err == nil {
			return v
		}
		if v, err := cmd.PersistentFlags().GetBool(name); err == nil {
			return v
		}
		return false
	}

	if v := getString("routes"); v != "" {
		m["routes"] = v
	}
	if v := getString("output"); v != "" {
		m["output"] = v
	}
	if v := getString("format"); v != "" {
		m["format"] = v
	}
	if v := getString("openapi-version"); v != "" {
		m["openapi-version"] = v
	}
	if v := getString("title"); v != "" {
		m["info.title"] = v
	}
	if v := getString("api-version"); v != "" {
		m["info.version"] = v
	}
	if v := getString("host"); v != "" {
		m["host"] = v
	}
	if v := getString("base-path"); v != "" {
		m["base-path"] = v
	}
	if v := getStringSlice("schemes"); len(v) > 0 {
		m["schemes"] = v
	}
	if v := getStringSlice("additional-initialisms"); len(v) > 0 {
		m["naming.additional-initialisms"] = v
	}
	for _, name := range []string{"strict", "strict-cycles", "show-host"} {
		if flagChanged(name) {
			m[name] = getBool(name)
		}
	}

	// serve flags
	if v := getString("addr"); v != "" {
		m["serve.addr"] = v
	}
	if v := getString("json-path"); v != "" {
		m["serve.json-path"] = v
	}
	if v := getString("yaml-path"); v != "" {
		m["serve.yaml-path"] = v
	}

	return m
}

func (c *Config) Validate() error {
	validFormats := map[string]bool{"json": true, "yaml": true}
	if !validFormats[c.Format] {
		return fmt.Errorf("invalid format: %s (valid: json, yaml)", c.Format)
	}

	if _, err := c.Version(); err != nil {
		return err
	}

	if _, err := c.Info.ContactInfo(); err != nil {
		return err
	}
	if _, err := c.Info.LicenseInfo(); err != nil {
		return err
	}

	for _, t := range c.Tags {
		if t.Name == "" {
			return fmt.Errorf("tag without a name")
		}
	}

	return nil
}

// Version maps openapi-version to the document version.
func (c *Config) Version() (model.Version, error) {
	switch c.OpenAPIVersion {
	case "", "2", "2.0":
		return model.Swagger2, nil
	case "3", "3.0", "3.0.3":
		return model.OpenAPI3, nil
	}
	return "", fmt.Errorf("invalid openapi version: %s (valid: 2.0, 3.0)", c.OpenAPIVersion)
}

// DocumentInfo builds the info object. Errors are those reported by
// Validate.
func (c *Config) DocumentInfo() (model.Info, error) {
	info := model.Info{
		Title:          c.Info.Title,
		Version:        c.Info.Version,
		Description:    c.Info.Description,
		TermsOfService: c.Info.TermsOfService,
	}
	var err error
	if info.Contact, err = c.Info.ContactInfo(); err != nil {
		return info, err
	}
	if info.License, err = c.Info.LicenseInfo(); err != nil {
		return info, err
	}
	return info, nil
}

// DocumentHost returns the host to publish, which is empty unless
// show-host is set.
func (c *Config) DocumentHost() string {
	if !c.ShowHost {
		return ""
	}
	return c.Host
}

func (c *Config) DocumentTags() []model.Tag {
	tags := make([]model.Tag, len(c.Tags))
	for i, t := range c.Tags {
		tags[i] = model.Tag{Name: t.Name, Description: t.Description}
	}
	return tags
}
