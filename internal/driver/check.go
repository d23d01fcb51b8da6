package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"tycore/internal/ast"
	"tycore/internal/diag"
	"tycore/internal/observ"
	"tycore/internal/project"
	"tycore/internal/sema"
	"tycore/internal/source"
	"tycore/internal/trace"
	"tycore/internal/ty"
)

// FileExt is the extension of declaration files.
const FileExt = ".tyd.toml"

// Options configure CheckFiles.
type Options struct {
	// Jobs caps parallel units; 0 uses GOMAXPROCS.
	Jobs int
	// MaxDiagnostics bounds each unit's bag; 0 means unbounded. Cached
	// summaries keep every diagnostic regardless.
	MaxDiagnostics int
	// Cache stores unit summaries; nil disables caching.
	Cache *DiskCache
	// Timings appends a timing diagnostic to the merged bag.
	Timings bool
}

// Unit is one declaration file checked with its own engines. A unit
// restored from the cache has a Summary but no Engines or Checker.
type Unit struct {
	Path    string
	FileID  source.FileID
	Bag     *diag.Bag
	Engines *ty.Engines
	Checker *sema.Checker
	Result  sema.Result
	Summary *Summary
	Cached  bool
}

// Report is the outcome of CheckFiles. Units keep the order of the input.
type Report struct {
	FileSet *source.FileSet
	Units   []*Unit
	Timer   *observ.Timer
	timings bool
}

// Bag merges the unit bags, sorted by file and position, without repeats.
func (r *Report) Bag(maxItems int) *diag.Bag {
	out := diag.NewBag(maxItems)
	for _, u := range r.Units {
		out.Merge(u.Bag)
	}
	out.Sort()
	out.Dedup()
	if r.timings {
		appendTimingDiagnostic(out, r.Timer)
	}
	return out
}

func (r *Report) HasErrors() bool {
	return slices.ContainsFunc(r.Units, func(u *Unit) bool { return u.Bag.HasErrors() })
}

// ListFiles expands directories in paths into their declaration files,
// sorted for a deterministic order. Plain files are kept as given.
func ListFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, FileExt) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		slices.Sort(found)
		files = append(files, found...)
	}
	return files, nil
}

// CheckFiles checks every file as an independent unit. Files are loaded up
// front; units then run in parallel and never share engines. A file that
// fails to load becomes a unit with a single I/O diagnostic. The returned
// error is only set for cancellation.
func CheckFiles(ctx context.Context, paths []string, opts Options) (*Report, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "check", 0)
	defer span.End("")

	report := &Report{
		FileSet: source.NewFileSet(),
		Units:   make([]*Unit, len(paths)),
		Timer:   observ.NewTimer(),
		timings: opts.Timings,
	}
	if len(paths) == 0 {
		return report, nil
	}

	doneLoad := report.Timer.Track("load")
	loadErrors := make(map[int]error)
	for i, path := range paths {
		u := &Unit{Path: path, Bag: diag.NewBag(opts.MaxDiagnostics)}
		report.Units[i] = u
		id, err := report.FileSet.Load(path)
		if err != nil {
			loadErrors[i] = err
			continue
		}
		u.FileID = id
	}
	doneLoad(fmt.Sprintf("%d files", len(paths)))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, u := range report.Units {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			if err, failed := loadErrors[i]; failed {
				u.Bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to load file: "+err.Error()))
				return nil
			}
			done := report.Timer.Track("unit " + u.Path)
			defer func() { done(unitNote(u)) }()
			checkUnit(u, report.FileSet.Get(u.FileID), opts.Cache, tracer, span.ID())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}
	span.WithCount("units", len(paths))
	return report, nil
}

func unitNote(u *Unit) string {
	if u.Cached {
		return "cached"
	}
	return ""
}

// checkUnit fills u from the cache or by checking f.
func checkUnit(u *Unit, f *source.File, cache *DiskCache, tracer trace.Tracer, parent uint64) {
	key := project.UnitKey(project.Digest(f.Hash), diskCacheSchemaVersion)
	var cached Summary
	if ok, err := cache.Get(key, &cached); err == nil && ok {
		u.Summary, u.Cached = &cached, true
		cached.Replay(u.FileID, u.Bag)
		trace.Point(tracer, trace.ScopeDriver, "cache:hit", u.Path, parent)
		return
	}

	// кэш хранит полный список, лимит применяется при выдаче
	bounded := u.Bag
	u.Bag = diag.NewBag(0)
	CheckUnit(u, f, tracer, parent)
	u.Summary = Summarize(u.Path, u.Engines, u.Result, u.Bag)
	bounded.Merge(u.Bag)
	u.Bag = bounded
	// кэш необязателен, ошибки записи не влияют на результат проверки
	if err := cache.Put(key, u.Summary); err != nil {
		trace.ErrorPoint(tracer, trace.ScopeDriver, "cache:put", err.Error(), parent)
	}
}

// CheckUnit decodes and checks f into u with fresh engines. Decode errors
// still let the declarations that decoded be checked.
func CheckUnit(u *Unit, f *source.File, tracer trace.Tracer, parent uint64) {
	span := trace.Begin(tracer, trace.ScopeDriver, "unit", parent).WithExtra("path", u.Path)
	defer span.End("")

	u.Engines = ty.NewEngines()
	rep := diag.NewDedupReporter(&diag.BagReporter{Bag: u.Bag})
	file, err := ast.Decode(f, u.Engines.Strings, rep)
	if err != nil && !errors.Is(err, diag.ErrEmitted) {
		u.Bag.Add(diag.NewError(diag.SynDeclFile, source.Span{File: f.ID}, err.Error()))
	}
	u.Checker = sema.New(u.Engines, sema.Options{Reporter: rep, Tracer: tracer, Parent: span.ID()})
	u.Result, _ = u.Checker.CheckFile(file)
}
