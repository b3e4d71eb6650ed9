// Package csvutil reads and writes delimiter-separated value files.
//
// A file is handled either as rows (positional fields, no header) or as
// records (field name to value, under a header line). Write and Read dispatch
// on an explicit Shape; WriteRows, WriteRecords, ReadRows and ReadRecords are
// the statically typed entry points behind them.
//
// Defaults follow the semicolon convention: delimiter ';', newline "\n",
// encoding "utf-8". Every value is text; quoting follows encoding/csv.
//
//	err := csvutil.WriteRows("out.csv", [][]string{{"a", "b"}, {"1", "2"}})
//	// out.csv: "a;b\n1;2\n"
//
//	records, err := csvutil.ReadRecords("out.csv")
//	// records[0]: a=1, b=2
//
// Calls are stateless and open exactly one file, closed before they return.
// Concurrent access to the same path is not coordinated.
package csvutil
