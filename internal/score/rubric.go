package score

import (
	"strings"

	"github.com/sells-group/outreach-sdk/internal/model"
)

// The rubric computes the four deterministic sub-scores, each bounded to
// [0,100]. Unknown fields earn partial credit rather than zero so that an
// unenriched lead is not automatically disqualified.

// companyFit scores how well the company matches the target profile across
// industry, size bucket, and headcount range.
func companyFit(c *model.Company, p TargetProfile) float64 {
	var score float64

	switch {
	case c.Industry == "":
		score += 20
	case p.matchesIndustry(c.Industry):
		score += 40
	default:
		score += 10
	}

	switch {
	case c.Size == "":
		score += 15
	case p.matchesSize(c.Size):
		score += 30
	default:
		score += 10
	}

	switch {
	case c.EmployeeCount == nil:
		score += 15
	case p.employeeCountInRange(*c.EmployeeCount):
		score += 30
	default:
		score += 10
	}

	return clamp(score)
}

// contactQuality scores the best available contact, with a small bonus for
// additional contacts.
func contactQuality(contacts []model.Contact) float64 {
	if len(contacts) == 0 {
		return 0
	}

	var best float64
	for i := range contacts {
		c := &contacts[i]
		var s float64
		if c.IsDecisionMaker() {
			s += 40
		} else if c.Role != "" {
			s += 15
		}
		if c.Email != "" {
			s += 25
		}
		if c.Title != "" {
			s += 15
		}
		if c.LinkedInURL != "" {
			s += 20
		}
		if s > best {
			best = s
		}
	}

	bonus := float64(len(contacts)-1) * 5
	if bonus > 10 {
		bonus = 10
	}
	return clamp(best + bonus)
}

// engagementPotential scores observable presence: website, description
// richness, social profiles, LinkedIn, and funding signals.
func engagementPotential(c *model.Company) float64 {
	var score float64

	if c.Website != "" {
		score += 25
	}
	switch {
	case len(c.Description) >= 80:
		score += 20
	case len(c.Description) > 0:
		score += 10
	}
	switch {
	case len(c.SocialProfiles) >= 3:
		score += 25
	case len(c.SocialProfiles) > 0:
		score += 15
	}
	if c.LinkedInURL != "" {
		score += 15
	}
	if len(c.FundingInfo) > 0 {
		score += 15
	}

	return clamp(score)
}

// technologyFit scores the overlap between the company's stack and the
// target technologies. A profile without target technologies is neutral.
func technologyFit(c *model.Company, p TargetProfile) float64 {
	if len(p.Technologies) == 0 {
		return 50
	}
	if len(c.Technologies) == 0 {
		return 25
	}

	matched := 0
	for _, want := range p.Technologies {
		for _, have := range c.Technologies {
			if strings.EqualFold(want, have) {
				matched++
				break
			}
		}
	}

	ratio := float64(matched) / float64(len(p.Technologies))
	return clamp(30 + 70*ratio)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
