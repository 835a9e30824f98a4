package rel

import "io"

// Source is a pull-based, finite sequence of rows. Next returns io.EOF
// after the last row. Consuming a source may block on the producer; the
// join core treats that as an opaque call. Close releases the producer's
// resources and is safe to call more than once.
type Source interface {
	Next() (Row, error)
	Close() error
}

// SliceSource adapts an in-memory row slice to a Source. Used by tests
// and the CLI demo; production inputs come from external executors.
type SliceSource struct {
	rows []Row
	pos  int
}

// NewSliceSource creates a Source over the given rows. The slice is not
// copied; the caller must not mutate it while the source is live.
func NewSliceSource(rows []Row) *SliceSource {
	return &SliceSource{rows: rows}
}

// Next returns the next row or io.EOF.
func (s *SliceSource) Next() (Row, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}

// Close releases the backing slice.
func (s *SliceSource) Close() error {
	s.rows = nil
	s.pos = 0
	return nil
}

// Collect drains a source into a slice and closes it. The source's error,
// if any, takes precedence over the close error.
func Collect(src Source) ([]Row, error) {
	defer src.Close()

	var rows []Row
	for {
		row, err := src.Next()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}
