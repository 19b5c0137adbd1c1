// internal/store/submissions.go
package store

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"readiness-workers/internal/assessment"
	"readiness-workers/internal/models"
)

// Repository is the persistence boundary for scored submissions. The worker
// handlers and the intake server depend on this interface, not on postgres.
type Repository interface {
	Append(ctx context.Context, sub *models.Submission) error
	GetByID(ctx context.Context, id string) (*models.Submission, error)
	List(ctx context.Context, limit, offset int) ([]models.SubmissionSummary, error)
	UpdateStatus(ctx context.Context, id, status string) error
	ExportCSV(ctx context.Context) ([]byte, error)
}

// PostgresRepository implements Repository over database/sql.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// pillar score columns are stored typed, in catalog order
var pillarColumns = []string{"score_strategy", "score_program", "score_enablement", "score_sales_ops", "score_growth"}

func (r *PostgresRepository) Append(ctx context.Context, sub *models.Submission) error {
	answersJSON, err := json.Marshal(sub.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	scores := make([]float64, len(pillarColumns))
	for i, ps := range sub.PillarScores {
		if i < len(scores) {
			scores[i] = ps.Score
		}
	}

	now := time.Now().UTC()
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = now
	}
	sub.UpdatedAt = now

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO submissions (
			id, submitted_at, company, contact_name, email, role, phone, distributor_ids,
			answers, score_strategy, score_program, score_enablement, score_sales_ops, score_growth,
			overall_score, tier, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		sub.ID,
		sub.Timestamp,
		sub.Company,
		sub.ContactName,
		sub.Email,
		sub.Role,
		sub.Phone,
		sub.DistributorIDs,
		answersJSON,
		scores[0], scores[1], scores[2], scores[3], scores[4],
		sub.OverallScore,
		sub.Tier,
		sub.Status,
		sub.CreatedAt,
		sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, submitted_at, company, contact_name, email, role, phone, distributor_ids,
			answers, score_strategy, score_program, score_enablement, score_sales_ops, score_growth,
			overall_score, tier, status, created_at, updated_at
		FROM submissions WHERE id = $1`, id)

	var sub models.Submission
	var answersJSON []byte
	scores := make([]float64, len(pillarColumns))

	err := row.Scan(
		&sub.ID, &sub.Timestamp, &sub.Company, &sub.ContactName, &sub.Email,
		&sub.Role, &sub.Phone, &sub.DistributorIDs,
		&answersJSON, &scores[0], &scores[1], &scores[2], &scores[3], &scores[4],
		&sub.OverallScore, &sub.Tier, &sub.Status, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query submission: %w", err)
	}

	if err := json.Unmarshal(answersJSON, &sub.Answers); err != nil {
		return nil, fmt.Errorf("unmarshal answers: %w", err)
	}

	sub.PillarScores = make([]models.PillarResult, len(assessment.Pillars))
	for i, p := range assessment.Pillars {
		detail := make(map[string]int, len(p.Questions))
		for _, q := range p.Questions {
			detail[q] = sub.Answers[q]
		}
		sub.PillarScores[i] = models.PillarResult{Name: p.Name, Score: scores[i], Detail: detail}
	}

	return &sub, nil
}

func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]models.SubmissionSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, submitted_at, company, contact_name, email, overall_score, tier, status
		FROM submissions
		ORDER BY submitted_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var out []models.SubmissionSummary
	for rows.Next() {
		var s models.SubmissionSummary
		if err := rows.Scan(&s.ID, &s.Timestamp, &s.Company, &s.ContactName, &s.Email,
			&s.OverallScore, &s.Tier, &s.Status); err != nil {
			return nil, fmt.Errorf("scan submission row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE submissions SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update status rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ExportCSV renders the full submission log with one column per question code
// plus the per-pillar and overall scores.
func (r *PostgresRepository) ExportCSV(ctx context.Context) ([]byte, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, submitted_at, company, contact_name, email, role, phone, distributor_ids,
			answers, score_strategy, score_program, score_enablement, score_sales_ops, score_growth,
			overall_score, tier, status
		FROM submissions
		ORDER BY submitted_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("export query: %w", err)
	}
	defer rows.Close()

	var buf strings.Builder
	w := csv.NewWriter(&buf)

	header := []string{"id", "timestamp", "company", "contact_name", "email", "role", "phone", "distributor_ids"}
	for _, p := range assessment.Pillars {
		header = append(header, p.Questions...)
	}
	for _, p := range assessment.Pillars {
		header = append(header, p.Name)
	}
	header = append(header, "overall_score", "tier", "status")
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for rows.Next() {
		var (
			id, company, contactName, email, role, phone, distributorIDs, tier, status string
			submittedAt                                                                time.Time
			answersJSON                                                                []byte
			overall                                                                    float64
		)
		scores := make([]float64, len(pillarColumns))

		if err := rows.Scan(&id, &submittedAt, &company, &contactName, &email, &role, &phone, &distributorIDs,
			&answersJSON, &scores[0], &scores[1], &scores[2], &scores[3], &scores[4],
			&overall, &tier, &status); err != nil {
			return nil, fmt.Errorf("scan export row: %w", err)
		}

		var answers map[string]int
		if err := json.Unmarshal(answersJSON, &answers); err != nil {
			return nil, fmt.Errorf("unmarshal answers for %s: %w", id, err)
		}

		record := []string{id, submittedAt.UTC().Format(time.RFC3339), company, contactName, email, role, phone, distributorIDs}
		for _, p := range assessment.Pillars {
			for _, q := range p.Questions {
				record = append(record, strconv.Itoa(answers[q]))
			}
		}
		for i := range assessment.Pillars {
			record = append(record, strconv.FormatFloat(scores[i], 'f', 1, 64))
		}
		record = append(record,
			strconv.FormatFloat(overall, 'f', 1, 64),
			tier,
			status,
		)
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}
