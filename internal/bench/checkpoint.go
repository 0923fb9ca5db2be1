package bench

import (
	"encoding/gob"
	"os"
)

// Checkpoint holds state for resuming an interrupted benchmark run over a
// large query file, mirroring the teacher's result.Checkpoint shape (a gob
// snapshot of accumulated rows plus a resume position) for a CSV recorder
// instead of a rule table.
type Checkpoint struct {
	Rows      []Row
	Completed int // number of query lines fully processed
}

func init() {
	gob.Register(Row{})
}

// SaveCheckpoint writes the recorder's current rows and a resume position to
// path.
func SaveCheckpoint(path string, rec *Recorder, completed int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	ckpt := Checkpoint{Rows: rec.Rows(), Completed: completed}
	return gob.NewEncoder(f).Encode(ckpt)
}

// LoadCheckpoint loads a previously saved checkpoint from path.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var ckpt Checkpoint
	if err := gob.NewDecoder(f).Decode(&ckpt); err != nil {
		return nil, err
	}
	return &ckpt, nil
}

// Restore replays a checkpoint's rows into a fresh Recorder, returning the
// resume position so the caller can skip already-processed query lines.
func Restore(ckpt *Checkpoint) (*Recorder, int) {
	rec := NewRecorder()
	for _, r := range ckpt.Rows {
		rec.Add(r)
	}
	return rec, ckpt.Completed
}
