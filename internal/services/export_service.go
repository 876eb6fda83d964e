package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/feedback-form-service/internal/models"
	"github.com/SAP-F-2025/feedback-form-service/internal/repositories"
)

const (
	csvContentType  = "text/csv"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	submissionDateLayout = "2006-01-02 15:04:05"
)

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

// FormResponsesCSV renders every response of a form, owner only
func (s *exportService) FormResponsesCSV(ctx context.Context, formID uint, username string) (*ExportFile, error) {
	form, err := s.getOwnedForm(ctx, formID, username, "export")
	if err != nil {
		return nil, err
	}

	responses, err := s.repo.Response().GetByForm(ctx, nil, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to load responses: %w", err)
	}

	return &ExportFile{
		Filename:    fmt.Sprintf("form_%d_responses.csv", formID),
		ContentType: csvContentType,
		Content:     writeCSV(renderTable(form, responses)),
	}, nil
}

// ResponseCSV renders one response, authorized through the form owner
func (s *exportService) ResponseCSV(ctx context.Context, responseID uint, username string) (*ExportFile, error) {
	response, err := s.getResponse(ctx, responseID)
	if err != nil {
		return nil, err
	}

	if response.Form.CreatedBy.Username != username {
		return nil, NewPermissionError(username, responseID, "response", "export", "not the form owner")
	}

	form, err := s.getFormWithDetails(ctx, response.FormID)
	if err != nil {
		return nil, err
	}

	return &ExportFile{
		Filename:    fmt.Sprintf("response_%d.csv", responseID),
		ContentType: csvContentType,
		Content:     writeCSV(renderTable(form, []*models.Response{response})),
	}, nil
}

// RespondentResponseCSV renders one response for its own respondent
func (s *exportService) RespondentResponseCSV(ctx context.Context, responseID uint, email string) (*ExportFile, error) {
	response, err := s.getResponse(ctx, responseID)
	if err != nil {
		return nil, err
	}

	if response.RespondentEmail == nil || *response.RespondentEmail != email {
		return nil, NewPermissionError(email, responseID, "response", "export", "respondent email does not match")
	}

	form, err := s.getFormWithDetails(ctx, response.FormID)
	if err != nil {
		return nil, err
	}

	return &ExportFile{
		Filename:    fmt.Sprintf("my_response_%d.csv", responseID),
		ContentType: csvContentType,
		Content:     writeCSV(renderTable(form, []*models.Response{response})),
	}, nil
}

// FormResponsesXLSX renders the same table as FormResponsesCSV into a
// spreadsheet.
func (s *exportService) FormResponsesXLSX(ctx context.Context, formID uint, username string) (*ExportFile, error) {
	form, err := s.getOwnedForm(ctx, formID, username, "export")
	if err != nil {
		return nil, err
	}

	responses, err := s.repo.Response().GetByForm(ctx, nil, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to load responses: %w", err)
	}

	content, err := writeXLSX(renderTable(form, responses))
	if err != nil {
		return nil, fmt.Errorf("failed to render spreadsheet: %w", err)
	}

	return &ExportFile{
		Filename:    fmt.Sprintf("form_%d_responses.xlsx", formID),
		ContentType: xlsxContentType,
		Content:     content,
	}, nil
}

// ===== LOOKUPS =====

func (s *exportService) getOwnedForm(ctx context.Context, formID uint, username, action string) (*models.Form, error) {
	form, err := s.getFormWithDetails(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form.CreatedBy.Username != username {
		return nil, NewPermissionError(username, formID, "form", action, "not the form owner")
	}
	return form, nil
}

func (s *exportService) getFormWithDetails(ctx context.Context, formID uint) (*models.Form, error) {
	form, err := s.repo.Form().GetByIDWithDetails(ctx, nil, formID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	return form, nil
}

func (s *exportService) getResponse(ctx context.Context, responseID uint) (*models.Response, error) {
	response, err := s.repo.Response().GetByID(ctx, nil, responseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrResponseNotFound
		}
		return nil, fmt.Errorf("failed to get response: %w", err)
	}
	return response, nil
}

// ===== RENDERER =====

// exportCell is one CSV cell. Quoted cells are wrapped in double
// quotes with embedded quotes doubled; bare cells (numerics and the
// fixed header labels) are emitted as-is.
type exportCell struct {
	value  string
	quoted bool
}

func quotedCell(value string) exportCell { return exportCell{value: value, quoted: true} }
func bareCell(value string) exportCell   { return exportCell{value: value} }
func emptyCell() exportCell              { return exportCell{} }

// renderTable flattens the heterogeneous answer schema into one
// rectangular table: four metadata columns, then one column per
// question in form order.
func renderTable(form *models.Form, responses []*models.Response) [][]exportCell {
	header := []exportCell{
		bareCell("Response ID"),
		bareCell("Respondent Name"),
		bareCell("Respondent Email"),
		bareCell("Submission Date"),
	}
	for i := range form.Questions {
		header = append(header, quotedCell(form.Questions[i].Text))
	}

	table := [][]exportCell{header}
	for _, response := range responses {
		answers := make(map[uint]*models.Answer, len(response.Answers))
		for i := range response.Answers {
			answers[response.Answers[i].QuestionID] = &response.Answers[i]
		}

		row := []exportCell{
			bareCell(strconv.FormatUint(uint64(response.ID), 10)),
			optionalCell(response.RespondentName),
			optionalCell(response.RespondentEmail),
			quotedCell(response.SubmittedAt.Format(submissionDateLayout)),
		}
		for i := range form.Questions {
			question := &form.Questions[i]
			row = append(row, renderAnswerCell(answers[question.ID], question.Type))
		}
		table = append(table, row)
	}
	return table
}

func optionalCell(value *string) exportCell {
	if value == nil {
		return emptyCell()
	}
	return quotedCell(*value)
}

// renderAnswerCell renders one (response, question) cell per the
// question type; ratings are emitted bare, everything else quoted.
func renderAnswerCell(answer *models.Answer, qt models.QuestionType) exportCell {
	if answer == nil {
		return emptyCell()
	}

	switch v := answer.Value(qt).(type) {
	case models.TextValue:
		return quotedCell(v.Text)
	case models.SelectionValue:
		return quotedCell(v.Option.Text)
	case models.MultiSelectionValue:
		texts := make([]string, len(v.Options))
		for i := range v.Options {
			texts[i] = v.Options[i].Text
		}
		return quotedCell(strings.Join(texts, ", "))
	case models.RatingValue:
		return bareCell(strconv.Itoa(v.Rating))
	case models.DateValue:
		return quotedCell(v.Date)
	}
	return emptyCell()
}

// writeCSV emits the table with LF row terminators and no BOM. The
// stdlib csv.Writer only quotes when a delimiter forces it, while this
// format always quotes textual cells, so the quoting is written
// directly; the output stays readable by any RFC-4180 parser.
func writeCSV(table [][]exportCell) []byte {
	var buf bytes.Buffer
	for _, row := range table {
		for i, cell := range row {
			if i > 0 {
				buf.WriteByte(',')
			}
			if cell.quoted {
				buf.WriteByte('"')
				buf.WriteString(strings.ReplaceAll(cell.value, `"`, `""`))
				buf.WriteByte('"')
			} else {
				buf.WriteString(cell.value)
			}
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func writeXLSX(table [][]exportCell) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Responses"
	f.SetSheetName("Sheet1", sheet)

	for rowIdx, row := range table {
		for colIdx, cell := range row {
			ref, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return nil, err
			}

			if !cell.quoted && cell.value != "" {
				if n, err := strconv.Atoi(cell.value); err == nil && rowIdx > 0 {
					if err := f.SetCellValue(sheet, ref, n); err != nil {
						return nil, err
					}
					continue
				}
			}
			if err := f.SetCellValue(sheet, ref, cell.value); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
