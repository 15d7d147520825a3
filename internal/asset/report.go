package asset

// ReportColumns is the fixed column order for inventory CSV exports.
var ReportColumns = []string{
	"asset_tag",
	"brand",
	"model",
	"cpu",
	"ram",
	"storage",
	"os",
	"serial_number",
	"status",
	"assigned_to",
	"purchase_date",
	"warranty_expiry",
	"notes",
}

// ReportRows flattens the read models into export rows keyed by ReportColumns.
// Absent optional values map to nil so the CSV writer renders them empty.
func ReportRows(pcs []*PcWithEmployee) []map[string]any {
	rows := make([]map[string]any, 0, len(pcs))
	for _, p := range pcs {
		row := map[string]any{
			"asset_tag":     p.AssetTag,
			"brand":         p.Brand,
			"model":         p.Model,
			"cpu":           p.CPU,
			"ram":           p.RAM,
			"storage":       p.Storage,
			"os":            p.OS,
			"serial_number": p.SerialNumber,
			"status":        p.Status,
			"notes":         p.Notes,
		}

		if p.Employee != nil {
			row["assigned_to"] = p.Employee.Name
		} else {
			row["assigned_to"] = nil
		}
		if p.PurchaseDate != nil {
			row["purchase_date"] = p.PurchaseDate.Format("2006-01-02")
		} else {
			row["purchase_date"] = nil
		}
		if p.WarrantyExpiry != nil {
			row["warranty_expiry"] = p.WarrantyExpiry.Format("2006-01-02")
		} else {
			row["warranty_expiry"] = nil
		}

		rows = append(rows, row)
	}
	return rows
}
