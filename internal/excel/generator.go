package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/armandusbasson/KSA-PSMS/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate builds the contract register workbook: a summary sheet with
// counts by status followed by one row per contract on the register sheet.
func (g *Generator) Generate(contracts []model.Contract, summary model.ContractSummary) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Summary"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, summary); err != nil {
		return nil, err
	}

	registerSheet := "Contract Register"
	file.NewSheet(registerSheet)
	if err := g.writeRegister(file, registerSheet, contracts); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, summary model.ContractSummary) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Contract Register Summary")
	set("A2", "Generated")
	set("B2", time.Now().Format("2006-01-02 15:04:05"))

	tableRow := 4
	rows := []struct {
		label string
		count int64
	}{
		{"Total contracts", summary.TotalContracts},
		{"Active", summary.ActiveCount},
		{"Expired", summary.ExpiredCount},
		{"Completed", summary.CompletedCount},
		{"Cancelled", summary.CancelledCount},
		{"Overdue", summary.OverdueCount},
	}
	for i, row := range rows {
		set(fmt.Sprintf("A%d", tableRow+i), row.label)
		set(fmt.Sprintf("B%d", tableRow+i), row.count)
	}

	_ = file.SetColWidth(sheet, "A", "A", 28)
	_ = file.SetColWidth(sheet, "B", "B", 20)
	return nil
}

func (g *Generator) writeRegister(file *excelize.File, sheet string, contracts []model.Contract) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{
		"ID",
		"Eskom Reference",
		"Type",
		"Status",
		"Site ID",
		"Start Date",
		"End Date",
		"Contract Value",
		"Contact Person",
		"Contact Telephone",
		"Contact Email",
		"Document",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, contract := range contracts {
		row := 2 + i
		set(fmt.Sprintf("A%d", row), contract.ID)
		set(fmt.Sprintf("B%d", row), contract.EskomReference)
		set(fmt.Sprintf("C%d", row), string(contract.ContractType))
		set(fmt.Sprintf("D%d", row), string(contract.Status))
		set(fmt.Sprintf("E%d", row), contract.SiteID)
		set(fmt.Sprintf("F%d", row), formatDate(contract.StartDate))
		set(fmt.Sprintf("G%d", row), formatDate(contract.EndDate))
		set(fmt.Sprintf("H%d", row), formatValue(contract.ContractValue))
		set(fmt.Sprintf("I%d", row), contract.ContactPersonName)
		set(fmt.Sprintf("J%d", row), contract.ContactPersonTelephone)
		set(fmt.Sprintf("K%d", row), contract.ContactPersonEmail)
		set(fmt.Sprintf("L%d", row), contract.DocumentFilename)
	}

	_ = file.SetColWidth(sheet, "A", "A", 8)
	_ = file.SetColWidth(sheet, "B", "B", 22)
	_ = file.SetColWidth(sheet, "C", "E", 12)
	_ = file.SetColWidth(sheet, "F", "G", 14)
	_ = file.SetColWidth(sheet, "H", "H", 16)
	_ = file.SetColWidth(sheet, "I", "K", 26)
	_ = file.SetColWidth(sheet, "L", "L", 32)
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatValue(value *float64) string {
	if value == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *value)
}
