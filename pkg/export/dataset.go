package export

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// NewDataset creates an empty dataset with the given column order.
func NewDataset(headers ...string) Dataset {
	return Dataset{Headers: headers, Rows: make([]map[string]string, 0)}
}

// Append adds a row whose values follow the header order. Missing trailing
// values are left empty.
func (d *Dataset) Append(values ...string) {
	row := make(map[string]string, len(d.Headers))
	for i, header := range d.Headers {
		if i < len(values) {
			row[header] = values[i]
		} else {
			row[header] = ""
		}
	}
	d.Rows = append(d.Rows, row)
}

// Len reports the number of data rows.
func (d Dataset) Len() int {
	return len(d.Rows)
}

// Records returns rows as ordered string slices.
func (d Dataset) Records() [][]string {
	out := make([][]string, 0, len(d.Rows))
	for _, row := range d.Rows {
		record := make([]string, len(d.Headers))
		for i, header := range d.Headers {
			record[i] = row[header]
		}
		out = append(out, record)
	}
	return out
}
