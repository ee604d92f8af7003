// Package journal records what the session did — applied deltas, chunk
// loads, commit attempts — as zstd-compressed JSONL for post-session
// debugging. A nil *Journal is a valid no-op sink.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
)

type Journal struct {
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// Open creates one journal file per session under dir.
func Open(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	name := fmt.Sprintf("session-%s.jsonl.zst", time.Now().UTC().Format("2006-01-02-150405"))
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Journal{f: f, enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}, nil
}

func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	_ = j.w.Flush()
	err := j.enc.Close()
	if cerr := j.f.Close(); err == nil {
		err = cerr
	}
	return err
}

type entry struct {
	At   string `json:"at"`
	Kind string `json:"kind"`
	Data any    `json:"data,omitempty"`
}

func (j *Journal) write(kind string, data any) {
	if j == nil {
		return
	}
	b, err := json.Marshal(entry{At: time.Now().UTC().Format(time.RFC3339Nano), Kind: kind, Data: data})
	if err != nil {
		return
	}
	_, _ = j.w.Write(b)
	_ = j.w.WriteByte('\n')
	_ = j.w.Flush()
}

type DeltaEntry struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
}

func (j *Journal) DeltaApplied(x, y int64) {
	j.write("delta", DeltaEntry{X: x, Y: y})
}

type ChunkEntry struct {
	ChunkX int64  `json:"chunkX"`
	ChunkY int64  `json:"chunkY"`
	Err    string `json:"err,omitempty"`
}

func (j *Journal) ChunkLoaded(cx, cy int64) {
	j.write("chunk", ChunkEntry{ChunkX: cx, ChunkY: cy})
}

func (j *Journal) ChunkFailed(cx, cy int64, err error) {
	j.write("chunk_failed", ChunkEntry{ChunkX: cx, ChunkY: cy, Err: err.Error()})
}

type CommitEntry struct {
	Action  string `json:"action"`
	X       int64  `json:"x"`
	Y       int64  `json:"y"`
	Payment uint64 `json:"payment"`
	Err     string `json:"err,omitempty"`
}

func (j *Journal) CommitIssued(action string, x, y int64, payment uint64) {
	j.write("commit", CommitEntry{Action: action, X: x, Y: y, Payment: payment})
}

func (j *Journal) CommitFailed(action string, x, y int64, err error) {
	j.write("commit_failed", CommitEntry{Action: action, X: x, Y: y, Err: err.Error()})
}
