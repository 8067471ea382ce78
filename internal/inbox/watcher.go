package inbox

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cyberblog/internal/content"
	"github.com/cyberblog/internal/service"
	"github.com/fsnotify/fsnotify"
	logging "github.com/ipfs/go-log/v2"
)

var logger = logging.Logger("cyberblog/inbox")

// ImportedDir 是导入成功的文件被移入的子目录。
const ImportedDir = "imported"

const (
	defaultSettle = 300 * time.Millisecond
	pendingSuffix = ".pending"
)

// errUnchanged 表示文件自上次发布失败后没有修改。
var errUnchanged = errors.New("inbox file unchanged since last failure")

// Publisher is the subset of service.Publisher used by the watcher.
type Publisher interface {
	Publish(ctx context.Context, draft service.Draft) (content.Item, error)
}

// Watcher 监听目录中新出现的 Markdown 文件，并把它们作为新内容发布。
type Watcher struct {
	dir       string
	publisher Publisher
	settle    time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
	failed  map[string]time.Time
}

// New creates a Watcher for dir.
func New(dir string, publisher Publisher) *Watcher {
	return &Watcher{
		dir:       dir,
		publisher: publisher,
		settle:    defaultSettle,
		pending:   make(map[string]*time.Timer),
		failed:    make(map[string]time.Time),
	}
}

// Scan 导入目录中已经存在的 Markdown 文件，返回成功导入的数量。
func (w *Watcher) Scan(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return 0, fmt.Errorf("read inbox: %w", err)
	}
	imported := 0
	for _, entry := range entries {
		if entry.IsDir() || !service.IsMarkdownFile(entry.Name(), "") {
			continue
		}
		if err := w.ImportFile(ctx, filepath.Join(w.dir, entry.Name())); err != nil {
			if errors.Is(err, errUnchanged) {
				continue
			}
			logger.Warnw("inbox import failed", "file", entry.Name(), "error", err)
			continue
		}
		imported++
	}
	return imported, nil
}

// Run 启动时先扫描一次，然后持续监听直到 ctx 结束。
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("prepare inbox: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	if err := os.MkdirAll(filepath.Join(w.dir, ImportedDir), 0o755); err != nil {
		return fmt.Errorf("prepare inbox: %w", err)
	}

	if n, err := w.Scan(ctx); err != nil {
		logger.Warnw("initial inbox scan failed", "error", err)
	} else if n > 0 {
		logger.Infow("imported existing inbox files", "count", n)
	}

	logger.Infow("watching markdown inbox", "dir", w.dir)
	for {
		select {
		case <-ctx.Done():
			w.stopPending()
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !service.IsMarkdownFile(event.Name, "") {
				continue
			}
			w.schedule(ctx, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Errorw("inbox watcher error", "error", err)
		}
	}
}

// schedule 合并同一文件的连续写事件，写入停止 settle 之后才导入。
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		if err := w.ImportFile(ctx, path); err != nil && !errors.Is(err, os.ErrNotExist) && !errors.Is(err, errUnchanged) {
			logger.Warnw("inbox import failed", "file", path, "error", err)
		}
	})
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}

// ImportFile 解析并发布单个文件。文件先移入 imported/ 再发布，成功后按内容 id 重命名；
// 发布失败时移回原位，未再修改之前不会重复尝试。
func (w *Watcher) ImportFile(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if w.unchangedSinceFailure(path, info.ModTime()) {
		return errUnchanged
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	draft, err := service.ImportMarkdown(filepath.Base(path), "", f)
	f.Close()
	if err != nil {
		return err
	}

	importedDir := filepath.Join(w.dir, ImportedDir)
	if err := os.MkdirAll(importedDir, 0o755); err != nil {
		return fmt.Errorf("prepare imported dir: %w", err)
	}
	claimed := filepath.Join(importedDir, filepath.Base(path)+pendingSuffix)
	if err := os.Rename(path, claimed); err != nil {
		return fmt.Errorf("claim inbox file: %w", err)
	}

	item, err := w.publisher.Publish(ctx, draft)
	if err != nil {
		if restoreErr := os.Rename(claimed, path); restoreErr != nil {
			logger.Errorw("failed to restore inbox file", "file", filepath.Base(path), "error", restoreErr)
		} else {
			w.rememberFailure(path, info.ModTime())
		}
		return err
	}
	w.forgetFailure(path)

	target := filepath.Join(importedDir, uniqueName(filepath.Base(path), item.ID))
	if err := os.Rename(claimed, target); err != nil {
		logger.Warnw("published file kept under pending name", "file", claimed, "error", err)
	}

	logger.Infow("inbox file published", "file", filepath.Base(path), "collection", item.Category.Collection(), "id", item.ID)
	return nil
}

func (w *Watcher) unchangedSinceFailure(path string, modTime time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	failedAt, ok := w.failed[path]
	return ok && failedAt.Equal(modTime)
}

func (w *Watcher) rememberFailure(path string, modTime time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.failed[path] = modTime
}

func (w *Watcher) forgetFailure(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.failed, path)
}

func uniqueName(name, id string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	short := id
	if len(short) > 8 {
		short = short[:8]
	}
	return stem + "-" + short + ext
}
