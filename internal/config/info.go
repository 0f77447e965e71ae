package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/kolah/routespec/model"
	"go.yaml.in/yaml/v4"
)

var contactPattern = regexp.MustCompile(`^\s*([^<(]*?)\s*(?:<([^>]*)>)?\s*(?:\(([^)]*)\))?\s*$`)

// ParseContact reads the "Name <email> (url)" form used by package
// managers. Every part is optional; an empty result yields nil.
func ParseContact(s string) *model.Contact {
	match := contactPattern.FindStringSubmatch(s)
	if match == nil {
		return &model.Contact{Name: strings.TrimSpace(s)}
	}
	c := &model.Contact{
		Name:  match[1],
		Email: strings.TrimSpace(match[2]),
		URL:   strings.TrimSpace(match[3]),
	}
	if *c == (model.Contact{}) {
		return nil
	}
	return c
}

// ContactInfo converts the contact setting.
func (i InfoConfig) ContactInfo() (*model.Contact, error) {
	switch v := i.Contact.(type) {
	case nil:
		return nil, nil
	case string:
		return ParseContact(v), nil
	case map[string]any:
		c := &model.Contact{
			Name:  stringValue(v, "name"),
			Email: stringValue(v, "email"),
			URL:   stringValue(v, "url"),
		}
		if *c == (model.Contact{}) {
			return nil, nil
		}
		return c, nil
	}
	return nil, fmt.Errorf("invalid info.contact: expected a string or a mapping, got %T", i.Contact)
}

// LicenseInfo converts the license setting.
func (i InfoConfig) LicenseInfo() (*model.License, error) {
	switch v := i.License.(type) {
	case nil:
		return nil, nil
	case string:
		if v == "" {
			return nil, nil
		}
		return &model.License{Name: v}, nil
	case map[string]any:
		l := &model.License{Name: stringValue(v, "name"), URL: stringValue(v, "url")}
		if l.Name == "" {
			return nil, fmt.Errorf("invalid info.license: name is required")
		}
		return l, nil
	}
	return nil, fmt.Errorf("invalid info.license: expected a string or a mapping, got %T", i.License)
}

func stringValue(m map[string]any, key string) string {
	if v, ok := m[key]; ok && v != nil {
		return strings.TrimSpace(fmt.Sprint(v))
	}
	return ""
}

// literalVersion returns info.version exactly as written in the config
// file. An unquoted 1.0 is a float to the yaml parser and would otherwise
// be published as "1".
func literalVersion(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading config file: %w", err)
	}
	var raw struct {
		Info struct {
			Version yaml.Node `yaml:"version"`
		} `yaml:"info"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return "", fmt.Errorf("reading config file: %w", err)
	}
	v := raw.Info.Version
	if v.Kind != yaml.ScalarNode || v.Tag == "!!null" {
		return "", nil
	}
	return v.Value, nil
}
