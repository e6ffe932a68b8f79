package dataframe

import (
	"github.com/paveg/tabula/internal/aggregation"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/logging"
	"github.com/paveg/tabula/internal/value"
	"go.uber.org/zap"
)

// Rolling reduces a sliding window of window rows for every column in spec.
//
// Row i reduces rows i-window+1..i. Until the window is full, rows hold the
// running count for Count and Missing for every other kind. Columns whose
// type does not support their kind are left out of the result. The result
// keeps the source index and schema column order.
func (df *DataFrame) Rolling(window int, spec map[string]aggregation.Kind) (*DataFrame, error) {
	const op = "Rolling"
	if len(spec) == 0 {
		return nil, errors.NewInvalidInputError(op, "aggregation map cannot be empty")
	}
	if window < 1 {
		return nil, errors.NewInvalidInputError(op, "window must be at least 1")
	}
	for name, kind := range spec {
		if !df.HasColumn(name) {
			return nil, errors.NewColumnNotFoundError(op, name)
		}
		if !kind.Valid() {
			return nil, errors.NewUnsupportedError(op, name, "unknown aggregation kind")
		}
	}

	var cols []int
	for c, name := range df.schema.names {
		kind, ok := spec[name]
		if !ok {
			continue
		}
		if !aggregation.Supported(kind, df.schema.types[c]) {
			logging.Debug("rolling drops column",
				zap.String("column", name),
				zap.Stringer("kind", kind),
				zap.Stringer("type", df.schema.types[c]))
			continue
		}
		cols = append(cols, c)
	}

	var result *DataFrame
	err := record(op, df.Len(), func() error {
		out := df.project(cols)
		for i, c := range cols {
			kind := spec[df.schema.names[c]]
			t := df.schema.types[c]
			rolled, err := rollColumn(df.column(c), window, kind, t)
			if err != nil {
				return err
			}
			for r, v := range rolled {
				out.setCell(r, i, v)
			}
			out.schema.setType(i, ResultType(kind, t))
		}
		result = out
		return nil
	})
	return result, err
}

// rollColumn slides a FIFO window of size window over values
func rollColumn(values []value.Value, window int, kind aggregation.Kind, t value.ColType) ([]value.Value, error) {
	out := make([]value.Value, len(values))
	fifo := make([]value.Value, 0, window)
	for i, v := range values {
		fifo = append(fifo, v)
		if i+1 < window {
			if kind == aggregation.Count {
				out[i] = value.Int64(int64(len(fifo)))
			}
			continue
		}
		r, err := aggregation.Reduce(fifo, kind, t)
		if err != nil {
			return nil, err
		}
		out[i] = r
		fifo = append(fifo[:0], fifo[1:]...)
	}
	return out, nil
}
