package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Row is one line of the printable asset register. Missing values are empty strings.
type Row struct {
	AssetID            int64  `db:"asset_id" json:"asset_id"`
	AssetType          string `db:"asset_type" json:"asset_type"`
	Brand              string `db:"brand" json:"brand"`
	Model              string `db:"model" json:"model"`
	PartNo             string `db:"part_no" json:"part_no"`
	SerialNo           string `db:"serial_no" json:"serial_no"`
	Location           string `db:"location" json:"location"`
	Status             string `db:"status" json:"status"`
	EmployeeName       string `db:"employee_name" json:"employee_name"`
	EmployeeDepartment string `db:"employee_department" json:"employee_department"`
}

var Headers = []string{
	"ID", "Type", "Brand", "Model", "Part No", "Serial No", "Location", "Status", "Employee", "Department",
}

func (r Row) values() []string {
	return []string{
		strconv.FormatInt(r.AssetID, 10),
		r.AssetType,
		r.Brand,
		r.Model,
		r.PartNo,
		r.SerialNo,
		r.Location,
		r.Status,
		r.EmployeeName,
		r.EmployeeDepartment,
	}
}

// WriteCSV writes a header line followed by one record per row.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row.values()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// RenderTable prints the register as a terminal table.
func RenderTable(w io.Writer, rows []Row) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := table.Row{}
	for _, h := range Headers {
		headerRow = append(headerRow, h)
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		tr := table.Row{}
		for _, v := range row.values() {
			tr = append(tr, v)
		}
		t.AppendRow(tr)
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "", "", "Total", len(rows), ""})

	t.Render()
}
