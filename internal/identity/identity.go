// Package identity derives a canonical institutional identity from a
// verified email address.
package identity

import (
	"errors"
	"strconv"

	"pledge/internal/config"
	"pledge/internal/validation"
)

// ErrUnsupportedDomain is returned when the email's domain has no configured
// institution rule. Resolution must fail explicitly rather than silently
// accept unknown domains: onboarding needs the institution and campus fields.
var ErrUnsupportedDomain = errors.New("this network is exclusively for verified students of supported institutions")

// StudentIdentity is the identity inferred from an institutional email.
type StudentIdentity struct {
	InstitutionID string `json:"institution_id"`
	BatchYear     *int   `json:"batch_year"` // nil when the roll number carries no year prefix
	RollNumber    string `json:"roll_number"`
	CampusCode    string `json:"campus_code"`
}

// Rule maps an email domain to an institution.
type Rule struct {
	InstitutionID string
	CampusCode    string
	Domains       []string
}

// Resolver resolves emails against a set of institution rules.
type Resolver struct {
	rules []Rule
}

// defaultRules covers LUMS, the one institution supported out of the box.
var defaultRules = []Rule{
	{
		InstitutionID: "LUMS",
		CampusCode:    "LUMS-MAIN",
		Domains:       []string{"lums.edu.pk"},
	},
}

// NewResolver builds a resolver from the optional YAML config, falling back
// to the built-in rules when no config file is present.
func NewResolver(cfg *config.YAMLConfig) *Resolver {
	if cfg == nil || len(cfg.Institutions) == 0 {
		return &Resolver{rules: defaultRules}
	}

	rules := make([]Rule, 0, len(cfg.Institutions))
	for _, inst := range cfg.Institutions {
		rules = append(rules, Rule{
			InstitutionID: inst.ID,
			CampusCode:    inst.CampusCode,
			Domains:       inst.Domains,
		})
	}
	return &Resolver{rules: rules}
}

// Resolve infers a student identity from an email address. The local part of
// the email is the roll number; when it begins with exactly two digits they
// are read as a two-digit graduation year (batch 2000+NN).
func (r *Resolver) Resolve(email string) (*StudentIdentity, error) {
	email = validation.NormalizeEmail(email)
	local, domain := validation.SplitEmail(email)

	for _, rule := range r.rules {
		for _, d := range rule.Domains {
			if domain != d {
				continue
			}
			ident := &StudentIdentity{
				InstitutionID: rule.InstitutionID,
				RollNumber:    local,
				CampusCode:    rule.CampusCode,
			}
			if year, ok := batchYearFromRollNumber(local); ok {
				ident.BatchYear = &year
			}
			return ident, nil
		}
	}

	return nil, ErrUnsupportedDomain
}

// batchYearFromRollNumber reads a leading two-digit year prefix, e.g.
// "24100123" -> 2024.
func batchYearFromRollNumber(roll string) (int, bool) {
	if len(roll) < 2 || !isDigit(roll[0]) || !isDigit(roll[1]) {
		return 0, false
	}
	short, err := strconv.Atoi(roll[:2])
	if err != nil {
		return 0, false
	}
	return 2000 + short, true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
