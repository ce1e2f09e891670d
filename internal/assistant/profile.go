package assistant

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_profile.yaml
var defaultProfileYAML []byte

// Profile externalizes the prompt templates, reply strings, and the
// allowed intent labels. The label strings have churned across bot
// revisions, so they are configuration, not constants; routing happens on
// the stable roles (search/summarize/other), never on the display labels.
type Profile struct {
	Intents struct {
		Search    string `yaml:"search"`
		Summarize string `yaml:"summarize"`
		Other     string `yaml:"other"`
	} `yaml:"intents"`
	Prompts struct {
		RefineSystem    string `yaml:"refine_system"`
		RefineUser      string `yaml:"refine_user"`
		ClassifySystem  string `yaml:"classify_system"`
		SummarizeSystem string `yaml:"summarize_system"`
		SummarizeUser   string `yaml:"summarize_user"`
		GistSystem      string `yaml:"gist_system"`
		GistUser        string `yaml:"gist_user"`
		FallbackSystem  string `yaml:"fallback_system"`
		FallbackUser    string `yaml:"fallback_user"`
	} `yaml:"prompts"`
	Replies struct {
		Apology        string `yaml:"apology"`
		FeatureMissing string `yaml:"feature_missing"`
		NoResults      string `yaml:"no_results"`
		GistFallback   string `yaml:"gist_fallback"`
	} `yaml:"replies"`
}

// DefaultProfile returns the embedded profile.
func DefaultProfile() (Profile, error) {
	return parseProfile(defaultProfileYAML)
}

// LoadProfile reads a profile from path, or the embedded default when
// path is empty. File values overlay the defaults, so a partial file only
// has to name what it changes.
func LoadProfile(path string) (Profile, error) {
	profile, err := DefaultProfile()
	if err != nil {
		return Profile{}, err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return profile, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read prompt profile: %w", err)
	}
	if err := yaml.Unmarshal(raw, &profile); err != nil {
		return Profile{}, fmt.Errorf("parse prompt profile %s: %w", path, err)
	}
	if err := profile.validate(); err != nil {
		return Profile{}, fmt.Errorf("prompt profile %s: %w", path, err)
	}
	return profile, nil
}

func parseProfile(raw []byte) (Profile, error) {
	var profile Profile
	if err := yaml.Unmarshal(raw, &profile); err != nil {
		return Profile{}, fmt.Errorf("parse prompt profile: %w", err)
	}
	if err := profile.validate(); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

func (p *Profile) validate() error {
	labels := []string{p.Intents.Search, p.Intents.Summarize, p.Intents.Other}
	seen := make(map[string]bool, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			return fmt.Errorf("intent labels are required")
		}
		if seen[label] {
			return fmt.Errorf("intent label %q is duplicated", label)
		}
		seen[label] = true
	}
	return nil
}

// Labels returns the allowed intent labels in classification order.
func (p *Profile) Labels() []string {
	return []string{p.Intents.Search, p.Intents.Summarize, p.Intents.Other}
}

// renderTemplate substitutes {name} placeholders. Unknown placeholders are
// left in place so a malformed profile fails visibly in the prompt rather
// than silently dropping inputs.
func renderTemplate(template string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
