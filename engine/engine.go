// Package engine runs an export: collect meshes from a scene, serialize them
// and write the collmesh file.
package engine

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/spaghettifunk/collmesh/engine/collector"
	"github.com/spaghettifunk/collmesh/engine/collmesh"
	"github.com/spaghettifunk/collmesh/engine/core"
	"github.com/spaghettifunk/collmesh/engine/scene"
)

type Stage uint8

const (
	// Nothing has been checked or read yet
	StageStart Stage = iota
	// Traversing groups for matching meshes
	StageCollect
	// Scanning objects and building the chunk payloads
	StageSerialize
	// Writing and publishing the output file
	StageWrite
	// The file is in place
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageCollect:
		return "collect"
	case StageSerialize:
		return "serialize"
	case StageWrite:
		return "write"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// Options select what to export and where.
type Options struct {
	// Group to start from; empty means the scene's master group.
	Group string
	// Pattern for mesh names; empty means every mesh.
	Pattern string
	// Output is the destination file. It is replaced only on success.
	Output string
}

// Report describes a finished run.
type Report struct {
	RunID  string
	Output string
	// Groups visited while collecting, in visit order.
	Groups   []string
	Meshes   int
	Vertices int

	PositionsBytes int64
	StringsBytes   int64
	IndexBytes     int64
	TotalBytes     int64

	Timings []core.StageTiming
	Elapsed time.Duration
}

type run struct {
	id      string
	stage   Stage
	metrics *core.Metrics
}

func (r *run) enter(ctx context.Context, s Stage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.stage = s
	r.metrics.Begin(s.String())
	core.LogDebug("[%s] stage %s", r.id, s)
	return nil
}

// fail annotates err with the stage it happened in.
func (r *run) fail(err error) error {
	r.metrics.End()
	return errors.WithMessagef(err, "export %s failed in stage %s", r.id, r.stage)
}

// Export runs the whole pipeline once. Any error aborts the run and leaves
// no output file behind; the error names the stage that failed.
func Export(ctx context.Context, src scene.Source, opts Options) (*Report, error) {
	r := &run{id: uuid.NewString(), stage: StageStart, metrics: core.NewMetrics()}
	r.metrics.Begin(StageStart.String())

	// Configuration is checked before anything is traversed or written.
	pattern, err := collector.CompilePattern(opts.Pattern)
	if err != nil {
		return nil, r.fail(err)
	}
	if opts.Output == "" {
		return nil, r.fail(core.Configurationf("no output file given"))
	}
	root := src.Root()
	if opts.Group != "" {
		grp, ok := src.Group(opts.Group)
		if !ok || grp == nil {
			return nil, r.fail(core.Configurationf("group '%s' does not exist in scene", opts.Group))
		}
		root = grp
	}
	if root == nil {
		return nil, r.fail(core.Configurationf("scene has no master group"))
	}
	core.LogInfo("[%s] exporting meshes referenced from group '%s', matching /%s/, to '%s'.",
		r.id, root.Name, pattern, opts.Output)

	if err := r.enter(ctx, StageCollect); err != nil {
		return nil, r.fail(err)
	}
	c := collector.New(pattern)
	if err := c.Visit(root); err != nil {
		return nil, r.fail(err)
	}
	collected := c.Result()
	core.LogInfo("[%s] added %d mesh(es) from: %v", r.id, len(collected), c.Groups())

	if err := r.enter(ctx, StageSerialize); err != nil {
		return nil, r.fail(err)
	}
	blob, err := collmesh.Serialize(src, collected, src.Objects())
	if err != nil {
		return nil, r.fail(err)
	}

	if err := r.enter(ctx, StageWrite); err != nil {
		return nil, r.fail(err)
	}
	wrote, err := writeAtomic(ctx, opts.Output, blob)
	if err != nil {
		return nil, r.fail(err)
	}

	r.stage = StageDone
	r.metrics.End()
	report := &Report{
		RunID:          r.id,
		Output:         opts.Output,
		Groups:         c.Groups(),
		Meshes:         len(blob.Entries),
		Vertices:       int(blob.VertexCount),
		PositionsBytes: int64(len(blob.Positions)) + collmesh.ChunkHeaderSize,
		StringsBytes:   int64(len(blob.Strings)) + collmesh.ChunkHeaderSize,
		IndexBytes:     int64(len(blob.Index)) + collmesh.ChunkHeaderSize,
		TotalBytes:     wrote,
		Timings:        r.metrics.Timings,
		Elapsed:        r.metrics.Total(),
	}
	core.LogInfo("[%s] wrote %d bytes [== %d bytes of positions + %d bytes of strings + %d bytes of index] to '%s' in %s.",
		r.id, report.TotalBytes, report.PositionsBytes, report.StringsBytes, report.IndexBytes, opts.Output, report.Elapsed)
	return report, nil
}

// OutputMode is the permission of a newly created output file. A replaced
// file keeps its own mode.
const OutputMode os.FileMode = 0o644

// writeAtomic writes blob to a temporary file next to path and renames it
// over path once it is complete and synced.
func writeAtomic(ctx context.Context, path string, blob *collmesh.Blob) (n int64, err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, &core.IOError{Op: "create", Path: path, Err: err}
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	n, err = blob.WriteTo(tmp)
	if err != nil {
		return 0, &core.IOError{Op: "write", Path: tmp.Name(), Err: err}
	}
	if n != blob.Size() {
		return 0, core.Integrityf("wrote %d bytes, expected %d", n, blob.Size())
	}
	mode := OutputMode
	if info, statErr := os.Stat(path); statErr == nil && info.Mode().IsRegular() {
		mode = info.Mode().Perm()
	}
	if err = tmp.Chmod(mode); err != nil {
		return 0, &core.IOError{Op: "chmod", Path: tmp.Name(), Err: err}
	}
	if err = tmp.Sync(); err != nil {
		return 0, &core.IOError{Op: "sync", Path: tmp.Name(), Err: err}
	}
	if err = tmp.Close(); err != nil {
		return 0, &core.IOError{Op: "close", Path: tmp.Name(), Err: err}
	}
	if err = ctx.Err(); err != nil {
		return 0, err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return 0, &core.IOError{Op: "rename", Path: path, Err: err}
	}
	return n, nil
}
