package score

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/outreach-sdk/internal/model"
)

// TargetProfile describes the ideal customer the deterministic sub-scores
// compare leads against.
type TargetProfile struct {
	Industries   []model.Industry    `yaml:"industries"`
	Sizes        []model.CompanySize `yaml:"sizes"`
	MinEmployees int                 `yaml:"min_employees"`
	MaxEmployees int                 `yaml:"max_employees"`
	Technologies []string            `yaml:"technologies"`
}

// DefaultProfile returns the built-in target profile used when no profile
// file is configured.
func DefaultProfile() TargetProfile {
	return TargetProfile{
		Industries:   []model.Industry{model.IndustryTechnology, model.IndustryFinance, model.IndustryHealthcare},
		Sizes:        []model.CompanySize{model.SizeSmall, model.SizeMedium, model.SizeLarge},
		MinEmployees: 10,
		MaxEmployees: 1000,
		Technologies: []string{"Go", "Python", "Kubernetes", "AWS", "PostgreSQL", "React"},
	}
}

// LoadProfile reads a target profile from a YAML file, with unset fields
// falling back to the defaults. An empty path returns the defaults.
func LoadProfile(path string) (TargetProfile, error) {
	profile := DefaultProfile()
	if path == "" {
		return profile, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return profile, eris.Wrap(err, "score: read target profile")
	}
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return profile, eris.Wrap(err, "score: parse target profile")
	}
	return profile, nil
}

func (p TargetProfile) matchesIndustry(i model.Industry) bool {
	for _, want := range p.Industries {
		if want == i {
			return true
		}
	}
	return false
}

func (p TargetProfile) matchesSize(s model.CompanySize) bool {
	for _, want := range p.Sizes {
		if want == s {
			return true
		}
	}
	return false
}

func (p TargetProfile) employeeCountInRange(n int) bool {
	if p.MinEmployees > 0 && n < p.MinEmployees {
		return false
	}
	if p.MaxEmployees > 0 && n > p.MaxEmployees {
		return false
	}
	return true
}
