package report

import "io"

// Writer renders a Summary in one output format. The HTML pages do not go
// through Writer: their layout depends on pagination, so the Paginator
// owns them.
type Writer interface {
	Write(summary *Summary) (int, error)
}

// baseWriter holds the destination shared by the summary writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
