package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"

	"ngoadmin/models"
)

// projectRow is the table shape of an ongoing project; phases and partners
// live in jsonb columns.
type projectRow struct {
	ID                   int             `db:"id"`
	Name                 string          `db:"name"`
	Committee            string          `db:"committee"`
	Budget               decimal.Decimal `db:"budget"`
	StartDate            time.Time       `db:"start_date"`
	EndDate              *time.Time      `db:"end_date"`
	ImplementationStatus string          `db:"implementation_status"`
	FundingStatus        string          `db:"funding_status"`
	Phases               types.JSONText  `db:"phases"`
	Partners             types.JSONText  `db:"partners"`
	CreatedAt            time.Time       `db:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at"`
}

func (r *projectRow) toModel() (*models.OngoingProject, error) {
	p := &models.OngoingProject{
		ID:                   r.ID,
		Name:                 r.Name,
		Committee:            r.Committee,
		Budget:               r.Budget,
		StartDate:            r.StartDate,
		EndDate:              r.EndDate,
		ImplementationStatus: r.ImplementationStatus,
		FundingStatus:        r.FundingStatus,
		Phases:               []models.Phase{},
		Partners:             []models.Partner{},
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
	if err := r.Phases.Unmarshal(&p.Phases); err != nil {
		return nil, fmt.Errorf("decode phases of project %d: %w", r.ID, err)
	}
	if err := r.Partners.Unmarshal(&p.Partners); err != nil {
		return nil, fmt.Errorf("decode partners of project %d: %w", r.ID, err)
	}
	return p, nil
}

func projectJSON(p *models.OngoingProject) (phases, partners types.JSONText, err error) {
	if p.Phases == nil {
		p.Phases = []models.Phase{}
	}
	if p.Partners == nil {
		p.Partners = []models.Partner{}
	}
	if phases, err = json.Marshal(p.Phases); err != nil {
		return nil, nil, err
	}
	if partners, err = json.Marshal(p.Partners); err != nil {
		return nil, nil, err
	}
	return phases, partners, nil
}

const projectSelect = `
        SELECT id, name, committee, budget, start_date, end_date, implementation_status,
               funding_status, phases, partners, created_at, updated_at
        FROM ongoing_projects`

func (s *Storage) ListProjects(ctx context.Context) ([]models.OngoingProject, error) {
	var rows []projectRow
	if err := s.db.SelectContext(ctx, &rows, projectSelect+` ORDER BY start_date DESC, id DESC`); err != nil {
		return nil, err
	}
	projects := make([]models.OngoingProject, 0, len(rows))
	for i := range rows {
		p, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, nil
}

func (s *Storage) GetProject(ctx context.Context, id int) (*models.OngoingProject, error) {
	var row projectRow
	if err := s.db.GetContext(ctx, &row, projectSelect+` WHERE id = $1`, id); err != nil {
		return nil, notFound(err)
	}
	return row.toModel()
}

func (s *Storage) CreateProject(ctx context.Context, p *models.OngoingProject) error {
	phases, partners, err := projectJSON(p)
	if err != nil {
		return err
	}
	query := `
        INSERT INTO ongoing_projects
            (name, committee, budget, start_date, end_date, implementation_status, funding_status, phases, partners)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at, updated_at`
	return s.db.QueryRowContext(ctx, query,
		p.Name, p.Committee, p.Budget, p.StartDate, p.EndDate, p.ImplementationStatus, p.FundingStatus,
		phases, partners).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// SetProjectStatus stores a new implementation status.
func (s *Storage) SetProjectStatus(ctx context.Context, id int, status string) error {
	query := `UPDATE ongoing_projects SET implementation_status=$1, updated_at=NOW() WHERE id=$2`
	return mustAffect(s.db.ExecContext(ctx, query, status, id))
}

func (s *Storage) DeleteProject(ctx context.Context, id int) error {
	return mustAffect(s.db.ExecContext(ctx, `DELETE FROM ongoing_projects WHERE id=$1`, id))
}
