package enrich

import (
	"github.com/sells-group/outreach-sdk/internal/model"
)

// mergeState applies source data to a company. A field already populated on
// the company is kept unless force is set; within a single enrichment run the
// first source to provide a field wins either way.
type mergeState struct {
	force   bool
	written map[string]bool
}

func newMergeState(force bool) *mergeState {
	return &mergeState{
		force:   force,
		written: make(map[string]bool),
	}
}

func (s *mergeState) canWrite(field string, empty bool) bool {
	if s.written[field] {
		return false
	}
	return empty || s.force
}

func (s *mergeState) setString(field string, dst *string, data map[string]any) {
	v, ok := asString(data[field])
	if !ok || v == "" {
		return
	}
	if s.canWrite(field, *dst == "") {
		*dst = v
		s.written[field] = true
	}
}

func (s *mergeState) setInt(field string, dst **int, data map[string]any) {
	v, ok := asInt(data[field])
	if !ok {
		return
	}
	if s.canWrite(field, *dst == nil) {
		val := v
		*dst = &val
		s.written[field] = true
	}
}

// apply merges a single source's data map into the company.
func (s *mergeState) apply(c *model.Company, data map[string]any) {
	s.setString("domain", &c.Domain, data)
	s.setString("website", &c.Website, data)
	s.setString("description", &c.Description, data)
	s.setString("headquarters", &c.Headquarters, data)
	s.setString("city", &c.City, data)
	s.setString("state", &c.State, data)
	s.setString("country", &c.Country, data)
	s.setString("phone", &c.Phone, data)
	s.setString("linkedin_url", &c.LinkedInURL, data)
	s.setString("annual_revenue", &c.AnnualRevenue, data)

	s.setInt("employee_count", &c.EmployeeCount, data)
	s.setInt("founded_year", &c.FoundedYear, data)

	if v, ok := asString(data["industry"]); ok && v != "" {
		if s.canWrite("industry", c.Industry == "") {
			c.Industry = model.Industry(v)
			s.written["industry"] = true
		}
	}
	if v, ok := asString(data["size"]); ok && v != "" {
		if s.canWrite("size", c.Size == "") {
			c.Size = model.CompanySize(v)
			s.written["size"] = true
		}
	}

	if fi, ok := data["funding_info"].(map[string]any); ok && len(fi) > 0 {
		if s.canWrite("funding_info", len(c.FundingInfo) == 0) {
			c.FundingInfo = fi
			s.written["funding_info"] = true
		}
	}

	// Technologies accumulate across sources instead of first-wins.
	for _, tech := range asStringSlice(data["technologies"]) {
		if tech != "" && !c.HasTechnology(tech) {
			c.Technologies = append(c.Technologies, tech)
		}
	}
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// asInt accepts int and float64 since JSON decoding yields float64 numbers.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

func asStringSlice(v any) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
