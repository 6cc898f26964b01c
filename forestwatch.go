// Package forestwatch provides the analytics core behind the ForestWatch
// dashboard: it normalizes loosely-structured forest-change spreadsheets
// (deforestation/reforestation hectares by region and year) into canonical
// records and derives aggregates, benchmarks, and linear-trend projections.
//
// Usage:
//
//	rows, err := decode.Rows("upload.csv", data)
//	records, err := ingest.Ingest(rows, ingest.DefaultRules(), time.Now().Year())
//
//	filtered := engine.Apply(records, engine.Criteria{Region: "Kerala"})
//	totals := engine.Sum(filtered)
//	byYear := engine.GroupByYear(filtered)
//	marks := engine.Benchmarks(filtered)
//	future := engine.Projections(filtered)
//
// The engine package holds no state and calls no external service — every
// output is recomputed from (records, criteria) on each request. File
// decoding lives in decode; the HTTP boundary for the browser dashboard
// lives in server.
package forestwatch
