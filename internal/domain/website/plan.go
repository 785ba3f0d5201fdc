package website

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

type Plan string

const (
	PlanFree       Plan = "FREE"
	PlanBasic      Plan = "BASIC"
	PlanPro        Plan = "PRO"
	PlanEnterprise Plan = "ENTERPRISE"
)

func ParsePlan(s string) (Plan, error) {
	p := Plan(strings.ToUpper(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPlan, s)
	}
	return p, nil
}

func (p Plan) IsValid() bool {
	switch p {
	case PlanFree, PlanBasic, PlanPro, PlanEnterprise:
		return true
	}
	return false
}

// SupportsMessenger reports whether the plan includes the Messenger bot.
func (p Plan) SupportsMessenger() bool {
	return p == PlanBasic || p == PlanPro || p == PlanEnterprise
}

func (p Plan) String() string { return string(p) }

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusInactive  Status = "INACTIVE"
	StatusSuspended Status = "SUSPENDED"
)

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// PlanInfo describes a plan as offered in the console.
type PlanInfo struct {
	Plan           Plan   `yaml:"plan" json:"plan"`
	Label          string `yaml:"label" json:"label"`
	DefaultCredits int    `yaml:"default_credits" json:"default_credits"`
	Description    string `yaml:"description" json:"description"`
	Messenger      bool   `yaml:"-" json:"messenger"`
}

//go:embed plans.yaml
var plansYAML []byte

var (
	catalog     []PlanInfo
	catalogOnce sync.Once
)

// Catalog returns the plans in display order.
func Catalog() []PlanInfo {
	catalogOnce.Do(func() {
		var doc struct {
			Plans []PlanInfo `yaml:"plans"`
		}
		if err := yaml.Unmarshal(plansYAML, &doc); err != nil {
			panic(fmt.Sprintf("website: invalid embedded plan catalog: %v", err))
		}
		for i := range doc.Plans {
			doc.Plans[i].Messenger = doc.Plans[i].Plan.SupportsMessenger()
		}
		catalog = doc.Plans
	})
	out := make([]PlanInfo, len(catalog))
	copy(out, catalog)
	return out
}

// DefaultCredits returns the monthly credit allowance suggested for p.
func DefaultCredits(p Plan) int {
	for _, info := range Catalog() {
		if info.Plan == p {
			return info.DefaultCredits
		}
	}
	return 0
}
