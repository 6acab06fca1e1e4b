package storage

// intersectColumns returns the schema columns present in the record,
// preserving schema order. Record keys unknown to the schema are dropped.
func intersectColumns(schema []string, record map[string]string) []string {
	cols := make([]string, 0, len(schema))
	for _, col := range schema {
		if _, ok := record[col]; ok {
			cols = append(cols, col)
		}
	}
	return cols
}

// changedColumns returns the schema columns whose record value differs from
// the stored one, in schema order. An empty result means the write is a
// no-op. A column the record does not carry is never reported as changed.
func changedColumns(schema []string, existing, record map[string]string) []string {
	var changed []string
	for _, col := range schema {
		value, ok := record[col]
		if !ok {
			continue
		}
		// A NULL column is absent from existing; it differs from any
		// recorded value, the empty string included.
		old, had := existing[col]
		if !had || old != value {
			changed = append(changed, col)
		}
	}
	return changed
}
