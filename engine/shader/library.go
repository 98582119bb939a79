package shader

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/esutil/engine/core"
)

// ProgramInfo describes a program kept by a Library.
type ProgramInfo struct {
	Name       string
	VertexPath string
	FragPath   string
	Program    Program
	LastLoaded time.Time
	// LastError is the error of the most recent failed reload, cleared by a successful one.
	LastError error
}

// Library keeps named programs built from source files. Reload and
// ReloadPending call into the Driver and must run on the GL goroutine;
// Watch only records which programs changed.
type Library struct {
	driver Driver

	mutex    sync.RWMutex
	programs map[string]*ProgramInfo
	pending  map[string]struct{}

	watcher *fsnotify.Watcher
	done    chan struct{}
}

func NewLibrary(d Driver) *Library {
	return &Library{
		driver:   d,
		programs: make(map[string]*ProgramInfo),
		pending:  make(map[string]struct{}),
	}
}

// Add builds a program from the two files and registers it under name.
func (l *Library) Add(name, vsPath, fsPath string) (Program, error) {
	l.mutex.RLock()
	_, exists := l.programs[name]
	l.mutex.RUnlock()
	if exists {
		return 0, fmt.Errorf("program %q: %w", name, core.ErrAlreadyExists)
	}

	p, err := LoadProgramFiles(l.driver, vsPath, fsPath)
	if err != nil {
		return 0, fmt.Errorf("program %q: %w", name, err)
	}

	l.mutex.Lock()
	l.programs[name] = &ProgramInfo{
		Name:       name,
		VertexPath: filepath.Clean(vsPath),
		FragPath:   filepath.Clean(fsPath),
		Program:    p,
		LastLoaded: time.Now(),
	}
	fsWatch := l.watcher
	l.mutex.Unlock()

	if fsWatch != nil {
		if err := watchDirs(fsWatch, vsPath, fsPath); err != nil {
			core.LogWarn("Program '%s' will not be watched: %s", name, err)
		}
	}
	core.LogDebug("Loaded program '%s' (%d).", name, p)
	return p, nil
}

// Program returns the current handle for name.
func (l *Library) Program(name string) (Program, bool) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	info, ok := l.programs[name]
	if !ok {
		return 0, false
	}
	return info.Program, true
}

// Info returns a copy of the bookkeeping for name.
func (l *Library) Info(name string) (ProgramInfo, bool) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	info, ok := l.programs[name]
	if !ok {
		return ProgramInfo{}, false
	}
	return *info, true
}

// Names returns the registered program names in sorted order.
func (l *Library) Names() []string {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	names := make([]string, 0, len(l.programs))
	for name := range l.programs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reload rebuilds name from its files. If the rebuild fails the previous
// program stays in place and the error is returned and remembered.
func (l *Library) Reload(name string) error {
	l.mutex.RLock()
	info, ok := l.programs[name]
	var vsPath, fsPath string
	if ok {
		vsPath, fsPath = info.VertexPath, info.FragPath
	}
	l.mutex.RUnlock()
	if !ok {
		return fmt.Errorf("program %q: %w", name, core.ErrNotFound)
	}

	p, err := LoadProgramFiles(l.driver, vsPath, fsPath)

	l.mutex.Lock()
	defer l.mutex.Unlock()
	info, ok = l.programs[name]
	if !ok {
		// Removed while rebuilding.
		if p != 0 {
			l.driver.DeleteProgram(p)
		}
		return fmt.Errorf("program %q: %w", name, core.ErrNotFound)
	}
	if err != nil {
		info.LastError = err
		core.LogWarn("Reload of program '%s' failed, keeping the previous one.", name)
		return fmt.Errorf("program %q: %w", name, err)
	}

	old := info.Program
	info.Program = p
	info.LastLoaded = time.Now()
	info.LastError = nil
	l.driver.DeleteProgram(old)
	core.LogInfo("Reloaded program '%s'.", name)
	return nil
}

// Pending returns the names Watch has marked for reloading.
func (l *Library) Pending() []string {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	names := make([]string, 0, len(l.pending))
	for name := range l.pending {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReloadPending reloads every program Watch has marked and clears the
// marks. It returns the names that relinked and the errors of those that
// did not; a failed program keeps serving its previous version.
func (l *Library) ReloadPending() ([]string, []error) {
	l.mutex.Lock()
	names := make([]string, 0, len(l.pending))
	for name := range l.pending {
		names = append(names, name)
	}
	l.pending = make(map[string]struct{})
	l.mutex.Unlock()

	sort.Strings(names)
	var reloaded []string
	var errs []error
	for _, name := range names {
		if err := l.Reload(name); err != nil {
			errs = append(errs, err)
			continue
		}
		reloaded = append(reloaded, name)
	}
	return reloaded, errs
}

func (l *Library) Remove(name string) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	info, ok := l.programs[name]
	if !ok {
		return fmt.Errorf("program %q: %w", name, core.ErrNotFound)
	}
	l.driver.DeleteProgram(info.Program)
	delete(l.programs, name)
	delete(l.pending, name)
	return nil
}

// Close stops watching and deletes every program.
func (l *Library) Close() {
	l.mutex.Lock()
	if l.done != nil {
		close(l.done)
		l.done = nil
	}
	for name, info := range l.programs {
		l.driver.DeleteProgram(info.Program)
		delete(l.programs, name)
	}
	l.pending = make(map[string]struct{})
	l.mutex.Unlock()
}

// Watch starts watching the directories of every registered source file
// and returns once the watches are in place. A write to a source file
// marks the programs using it as pending. Watching stops when ctx is done
// or the library is closed.
func (l *Library) Watch(ctx context.Context) error {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	l.mutex.Lock()
	if l.watcher != nil {
		l.mutex.Unlock()
		fsWatch.Close()
		return fmt.Errorf("library is already watching: %w", core.ErrAlreadyExists)
	}
	l.watcher = fsWatch
	l.done = make(chan struct{})
	done := l.done
	var paths []string
	for _, info := range l.programs {
		paths = append(paths, info.VertexPath, info.FragPath)
	}
	l.mutex.Unlock()

	if err := watchDirs(fsWatch, paths...); err != nil {
		l.stopWatching(fsWatch)
		return err
	}

	go l.start(ctx, fsWatch, done)
	return nil
}

func watchDirs(fsWatch *fsnotify.Watcher, paths ...string) error {
	for _, path := range paths {
		// Editors often replace files instead of writing them, so the
		// directory is watched rather than the file.
		if err := fsWatch.Add(filepath.Dir(path)); err != nil {
			return err
		}
	}
	return nil
}

func (l *Library) start(ctx context.Context, fsWatch *fsnotify.Watcher, done chan struct{}) {
	defer l.stopWatching(fsWatch)
	for {
		select {
		case e, ok := <-fsWatch.Events:
			if !ok {
				return
			}
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				l.handleFileEvent(filepath.Clean(e.Name))
			}

		case err, ok := <-fsWatch.Errors:
			if !ok {
				return
			}
			core.LogError(err.Error())

		case <-done:
			return

		case <-ctx.Done():
			return
		}
	}
}

func (l *Library) stopWatching(fsWatch *fsnotify.Watcher) {
	fsWatch.Close()
	l.mutex.Lock()
	if l.watcher == fsWatch {
		l.watcher = nil
	}
	l.mutex.Unlock()
}

// Mark every program that reads path as pending.
func (l *Library) handleFileEvent(path string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	for name, info := range l.programs {
		if info.VertexPath == path || info.FragPath == path {
			l.pending[name] = struct{}{}
			core.LogDebug("Source '%s' changed, program '%s' marked for reload.", path, name)
		}
	}
}
