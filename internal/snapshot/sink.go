package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/julianstephens/questlog/internal/constants"
	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/utils"
)

// Snapshot is a point-in-time export of the aggregate.
type Snapshot struct {
	Name string
	Data []byte
}

// Export encodes agg under the fixed export file name.
func Export(agg models.Aggregate) (Snapshot, error) {
	data, err := Encode(agg)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Name: constants.ExportFileName, Data: data}, nil
}

// Sink receives exported snapshots.
type Sink interface {
	Deliver(ctx context.Context, snap Snapshot) error
	// Target describes where snapshots end up
	Target() string
}

// DirSink writes snapshots into a directory, replacing the previous file.
type DirSink struct {
	Dir string
}

func NewDirSink(dir string) *DirSink {
	return &DirSink{Dir: dir}
}

func (s *DirSink) Deliver(ctx context.Context, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return utils.WriteFileAtomic(filepath.Join(s.Dir, snap.Name), snap.Data, 0644)
}

func (s *DirSink) Target() string {
	return filepath.Join(s.Dir, constants.ExportFileName)
}

// WriterSink writes snapshot contents to an io.Writer such as stdout.
type WriterSink struct {
	W    io.Writer
	Name string
}

func NewWriterSink(w io.Writer, name string) *WriterSink {
	return &WriterSink{W: w, Name: name}
}

func (s *WriterSink) Deliver(_ context.Context, snap Snapshot) error {
	if _, err := s.W.Write(snap.Data); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	_, err := io.WriteString(s.W, "\n")
	return err
}

func (s *WriterSink) Target() string {
	return s.Name
}

// MultiSink delivers to every sink and joins their errors.
type MultiSink []Sink

func (m MultiSink) Deliver(ctx context.Context, snap Snapshot) error {
	var errs []error
	for _, s := range m {
		if err := s.Deliver(ctx, snap); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Target(), err))
		}
	}
	return errors.Join(errs...)
}

func (m MultiSink) Target() string {
	switch len(m) {
	case 0:
		return "none"
	case 1:
		return m[0].Target()
	}
	return fmt.Sprintf("%s (+%d more)", m[0].Target(), len(m)-1)
}
