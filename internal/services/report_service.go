package services

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/yoockh/aieta/internal/models"
	mongorepo "github.com/yoockh/aieta/internal/repositories/mongo"
	"github.com/yoockh/aieta/internal/storage"
	"github.com/yoockh/aieta/internal/utils"
)

//go:embed report.html.tmpl
var reportTemplate string

const (
	reportFileLayout    = "20060102_150405"
	reportDisplayLayout = "January 02, 2006, 03:04 PM"

	// report percentages assume a five point scale
	reportScale = 5.0
)

var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"deref": func(p *int) int { return *p },
	"title": titleCase,
}).Parse(reportTemplate))

type ReportService interface {
	// Build renders the HTML report and returns its local path.
	Build(ctx context.Context, candidateID string) (string, error)
	ExportXLSX(ctx context.Context, candidateID string) (string, error)
	// CleanupOld removes generated files older than the given age.
	CleanupOld(olderThan time.Duration) (int, error)
}

type reportService struct {
	results  mongorepo.LegacyRepository
	dir      string
	uploader storage.Uploader // optional
	log      *logrus.Logger
	now      func() time.Time
}

func NewReportService(results mongorepo.LegacyRepository, dir string, uploader storage.Uploader, log *logrus.Logger) ReportService {
	if dir == "" {
		dir = "reports"
	}
	return &reportService{results: results, dir: dir, uploader: uploader, log: log, now: time.Now}
}

type categoryView struct {
	Name  string
	Score float64
}

type reportView struct {
	CandidateID        string
	Position           string
	InterviewDate      string
	InterviewerName    string
	AverageScore       float64
	Percentage         float64
	TotalScore         float64
	MaxPossibleScore   float64
	ScoredInteractions int
	Categories         []categoryView
	Interactions       []models.Interaction
	ImprovementAreas   []models.ImprovementArea
	GeneratedAt        string
}

func (s *reportService) Build(ctx context.Context, candidateID string) (string, error) {
	const op = "ReportService.Build"

	res, err := s.load(ctx, op, candidateID)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, s.view(res)); err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to render report", err)
	}

	name := fmt.Sprintf("interview_report_%s_%s.html", candidateID, s.now().Format(reportFileLayout))
	path, err := s.write(name, buf.Bytes())
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to write report", err)
	}

	s.publish(ctx, name, "text/html; charset=utf-8", buf.Bytes())
	return path, nil
}

func (s *reportService) ExportXLSX(ctx context.Context, candidateID string) (string, error) {
	const op = "ReportService.ExportXLSX"

	res, err := s.load(ctx, op, candidateID)
	if err != nil {
		return "", err
	}

	f, err := buildWorkbook(s.view(res))
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to build workbook", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to encode workbook", err)
	}

	name := fmt.Sprintf("interview_report_%s_%s.xlsx", candidateID, s.now().Format(reportFileLayout))
	path, err := s.write(name, buf.Bytes())
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to write workbook", err)
	}

	s.publish(ctx, name, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	return path, nil
}

func (s *reportService) CleanupOld(olderThan time.Duration) (int, error) {
	const op = "ReportService.CleanupOld"

	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to list reports", err)
	}

	cutoff := s.now().Add(-olderThan)
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), "interview_report_") {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			return removed, utils.E(utils.CodeInternal, op, "failed to remove report", err)
		}
		removed++
	}
	return removed, nil
}

func (s *reportService) load(ctx context.Context, op, candidateID string) (*models.InterviewResult, error) {
	if candidateID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "candidate_id is required", nil)
	}
	res, err := s.results.GetResult(ctx, candidateID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "Candidate not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to read interview result", err)
	}
	return res, nil
}

func (s *reportService) view(res *models.InterviewResult) reportView {
	v := reportView{
		CandidateID:        res.CandidateID,
		Position:           orNA(res.Metadata.Position),
		InterviewerName:    orNA(res.Metadata.InterviewerName),
		AverageScore:       res.Scores.AverageScore,
		Percentage:         res.Scores.AverageScore / reportScale * 100,
		TotalScore:         res.Scores.TotalScore,
		MaxPossibleScore:   res.Scores.MaxPossibleScore,
		ScoredInteractions: res.Scores.ScoredInteractions,
		Interactions:       res.Interactions,
		ImprovementAreas:   res.ImprovementAreas,
		GeneratedAt:        s.now().Format(reportDisplayLayout),
	}
	if res.InterviewCompletedAt != nil {
		v.InterviewDate = res.InterviewCompletedAt.Format(reportDisplayLayout)
	}

	for name, score := range res.Scores.CategoryAverages {
		if score > 0 {
			v.Categories = append(v.Categories, categoryView{Name: titleCase(name), Score: score})
		}
	}
	sort.Slice(v.Categories, func(i, j int) bool { return v.Categories[i].Name < v.Categories[j].Name })
	return v
}

func (s *reportService) write(name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// publish copies the artifact to object storage; the local file stays authoritative.
func (s *reportService) publish(ctx context.Context, name, contentType string, data []byte) {
	if s.uploader == nil {
		return
	}
	url, err := s.uploader.Upload(ctx, "reports/"+name, contentType, bytes.NewReader(data))
	if err != nil {
		s.log.WithError(err).WithField("file", name).Warn("report upload failed")
		return
	}
	s.log.WithField("url", url).Info("report uploaded")
}

func buildWorkbook(v reportView) (*excelize.File, error) {
	f := excelize.NewFile()

	summary := "Summary"
	details := "Interactions"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(details); err != nil {
		return nil, err
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	_ = f.SetColWidth(summary, "A", "A", 25)
	_ = f.SetColWidth(summary, "B", "B", 40)
	rows := [][]any{
		{"Candidate ID", v.CandidateID},
		{"Position", v.Position},
		{"Interview Date", v.InterviewDate},
		{"Interviewer", v.InterviewerName},
		{"Average Score", v.AverageScore},
		{"Percentage", fmt.Sprintf("%.1f%%", v.Percentage)},
		{"Total Score", v.TotalScore},
		{"Max Possible Score", v.MaxPossibleScore},
		{"Scored Questions", v.ScoredInteractions},
	}
	for _, c := range v.Categories {
		rows = append(rows, []any{c.Name + " Score", c.Score})
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summary, cell, &r); err != nil {
			return nil, err
		}
	}

	_ = f.SetColWidth(details, "A", "A", 6)
	_ = f.SetColWidth(details, "B", "C", 60)
	_ = f.SetColWidth(details, "E", "E", 80)
	if err := f.SetSheetRow(details, "A1", &[]any{"#", "Question", "Answer", "Score", "Feedback"}); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(details, "A1", "E1", header)

	row := 2
	var add func(prefix string, it models.Interaction) error
	add = func(prefix string, it models.Interaction) error {
		var score any = ""
		if it.Score != nil {
			score = *it.Score
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		vals := []any{prefix, it.Question, it.Answer, score, strings.Join(it.Feedback, "\n")}
		if err := f.SetSheetRow(details, cell, &vals); err != nil {
			return err
		}
		row++
		if it.FollowUp != nil {
			return add(prefix+".1", *it.FollowUp)
		}
		return nil
	}
	for i, it := range v.Interactions {
		if err := add(fmt.Sprint(i+1), it); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// titleCase turns "problem_solving" into "Problem Solving".
func titleCase(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}
