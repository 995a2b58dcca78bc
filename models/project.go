package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Implementation statuses.
const (
	ProjectOngoing   = "ongoing"
	ProjectSuspended = "suspended"
	ProjectCompleted = "completed"
)

// Funding statuses.
const (
	FundingFunded    = "funded"
	FundingPartially = "partially_funded"
	FundingUnfunded  = "unfunded"
)

type Task struct {
	Name string `json:"name"`
	Done bool   `json:"done"`
}

type Phase struct {
	Name  string `json:"name"`
	Tasks []Task `json:"tasks"`
}

type Partner struct {
	Name         string          `json:"name"`
	Contribution decimal.Decimal `json:"contribution"`
}

// OngoingProject can be referenced by aid and supplies records.
type OngoingProject struct {
	ID                   int             `json:"id"`
	Name                 string          `json:"name"`
	Committee            string          `json:"committee"`
	Budget               decimal.Decimal `json:"budget"`
	StartDate            time.Time       `json:"startDate"`
	EndDate              *time.Time      `json:"endDate"`
	ImplementationStatus string          `json:"implementationStatus"`
	FundingStatus        string          `json:"fundingStatus"`
	Phases               []Phase         `json:"phases"`
	Partners             []Partner       `json:"partners"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

// Complete moves the project to completed. It is the only transition the
// API exposes.
func (p *OngoingProject) Complete() error {
	if p.ImplementationStatus == ProjectCompleted {
		return ErrAlreadyCompleted
	}
	p.ImplementationStatus = ProjectCompleted
	return nil
}

type OngoingProjectInput struct {
	Name                 string          `json:"name"`
	Committee            string          `json:"committee"`
	Budget               decimal.Decimal `json:"budget"`
	StartDate            *time.Time      `json:"startDate"`
	EndDate              *time.Time      `json:"endDate"`
	ImplementationStatus string          `json:"implementationStatus"`
	FundingStatus        string          `json:"fundingStatus"`
	Phases               []Phase         `json:"phases"`
	Partners             []Partner       `json:"partners"`
}

func (p *OngoingProjectInput) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fieldErr("name", "اسم المشروع مطلوب")
	}
	if strings.TrimSpace(p.Committee) == "" {
		return fieldErr("committee", "اللجنة مطلوبة")
	}
	if p.Budget.IsNegative() {
		return fieldErr("budget", "الميزانية لا يمكن أن تكون سالبة")
	}
	if p.StartDate == nil {
		return fieldErr("startDate", "تاريخ البداية مطلوب")
	}
	if p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return fieldErr("endDate", "تاريخ النهاية يجب أن يكون بعد تاريخ البداية")
	}
	if p.ImplementationStatus == "" {
		p.ImplementationStatus = ProjectOngoing
	}
	switch p.ImplementationStatus {
	case ProjectOngoing, ProjectSuspended, ProjectCompleted:
	default:
		return fieldErr("implementationStatus", MsgInvalidValue)
	}
	if p.FundingStatus == "" {
		p.FundingStatus = FundingUnfunded
	}
	switch p.FundingStatus {
	case FundingFunded, FundingPartially, FundingUnfunded:
	default:
		return fieldErr("fundingStatus", MsgInvalidValue)
	}
	for _, ph := range p.Phases {
		if strings.TrimSpace(ph.Name) == "" {
			return fieldErr("phases", "اسم المرحلة مطلوب")
		}
	}
	for _, pt := range p.Partners {
		if strings.TrimSpace(pt.Name) == "" {
			return fieldErr("partners", "اسم الشريك مطلوب")
		}
	}
	return nil
}
