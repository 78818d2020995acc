package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/julianstephens/levelup/internal/backup"
	"github.com/julianstephens/levelup/internal/gate"
	"github.com/julianstephens/levelup/internal/logger"
	"github.com/julianstephens/levelup/internal/session"
	"github.com/julianstephens/levelup/internal/storage"
)

// Context is handed to every command's Run method.
type Context struct {
	Store  storage.Provider
	Gate   *gate.Gate
	NoLock bool

	// Out receives command output; nil means stdout.
	Out io.Writer
	// Clock overrides the wall clock; nil means time.Now.
	Clock func() time.Time

	mu      sync.Mutex
	session *session.Session
}

func (c *Context) Ctx() context.Context {
	return context.Background()
}

func (c *Context) Writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Writer(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Writer(), args...)
}

// Session opens the store, prunes expired logs and loads the cache on first use.
func (c *Context) Session() (*session.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		return c.session, nil
	}

	var opts []session.Option
	if c.Clock != nil {
		opts = append(opts, session.WithClock(c.Clock))
	}
	s, err := session.Open(c.Ctx(), c.Store, opts...)
	if err != nil {
		return nil, err
	}
	if n := s.Pruned(); n > 0 {
		logger.Info("Pruned logs at startup", "count", n)
	}
	c.session = s
	return s, nil
}

// ResetSession drops the cached session so the next call reopens the store.
func (c *Context) ResetSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	path := c.Store.Path()
	if path == "" {
		return
	}
	if _, err := backup.NewManager(path).Create(c.Ctx()); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}
