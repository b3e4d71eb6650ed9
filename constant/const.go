package constant

import "time"

const DefaultTimeout = 5 * time.Second
const DefaultSignedURLExpiry = 20 * time.Minute

const DefaultDelimiter = ';'
const DefaultNewline = "\n"
const DefaultEncoding = "utf-8"

// DefaultRestKey holds the surplus fields of a line that is longer than its header.
const DefaultRestKey = "_rest"

const ContentTypeCSV = "text/csv"
