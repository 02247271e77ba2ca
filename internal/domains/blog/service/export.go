package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"plik-backend/internal/domains/blog/model"
)

const exportSheet = "Blog posts"

var exportHeaders = []string{
	"ID",
	"Slug",
	"Title",
	"Category",
	"Language",
	"Tags",
	"Featured",
	"Read Time",
	"Author",
	"Image",
	"Created At",
	"Updated At",
}

// ExportXLSX exports every post matching the filter unless a limit is given.
func (s *blogService) ExportXLSX(ctx context.Context, req model.ListPostsRequest) ([]byte, error) {
	// Step 1: Validate filter
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidInputError(err.Error())
	}
	limited := req.Limit > 0
	req.Normalize()

	filter := toFilter(req)
	if !limited {
		filter.Limit = 0
	}

	// Step 2: Load posts
	posts, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	// Step 3: Build workbook
	f, err := buildPostsWorkbook(model.ToResponses(posts))
	if err != nil {
		return nil, fmt.Errorf("failed to build excel file: %w", err)
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func buildPostsWorkbook(posts []model.PostResponse) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	// Row 1: header
	for colIdx, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))
		_ = f.SetCellStyle(exportSheet, "A1", lastCol+"1", headerStyle)
	}

	// Data rows start at row 2
	for i, p := range posts {
		row := []interface{}{
			p.ID,
			p.Slug,
			p.Title,
			p.Category,
			p.Language,
			strings.Join(p.Tags, ", "),
			p.Featured,
			p.ReadTime,
			p.Author.Name,
			p.Image,
			p.PublishedAt.UTC().Format("2006-01-02 15:04:05"),
			p.UpdatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	_ = f.SetColWidth(exportSheet, "B", "C", 40)
	_ = f.SetColWidth(exportSheet, "J", "J", 50)

	return f, nil
}
