package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/shiftplan/internal/script"
	"github.com/dshills/shiftplan/internal/store"
)

var errUsage = errors.New("usage")

func checkCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("%w: check SCRIPT", errUsage)
	}
	s, err := script.Load(c.Args().First())
	if err != nil {
		return err
	}

	name := s.Name
	if name == "" {
		name = c.Args().First()
	}
	fmt.Fprintf(c.App.Writer, "%s: %d ops, size delta %+d, reaches offset %d\n",
		name, len(s.Ops), s.SizeDelta(), s.Reach())
	return nil
}

func planCommand(c *cli.Context) error {
	if c.NArg() > 1 {
		return fmt.Errorf("%w: plan --script SCRIPT [FILE]", errUsage)
	}
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	s, err := script.Load(c.String("script"))
	if err != nil {
		return err
	}

	// Plans are computed on an in-memory copy so FILE is never modified.
	var name string
	var data []byte
	if c.NArg() == 1 {
		name = c.Args().First()
		if data, err = os.ReadFile(name); err != nil {
			return err
		}
	} else {
		name = "zero"
		data = make([]byte, max(c.Int64("size"), s.Reach()))
	}

	st, err := store.OpenMemory(name, data, storeOptions(cfg, logger, nil)...)
	if err != nil {
		return err
	}
	defer st.Close()

	if _, err := s.Apply(st); err != nil {
		return err
	}
	steps, err := st.Plan()
	if err != nil {
		return err
	}

	w := c.App.Writer
	for i, a := range steps {
		fmt.Fprintf(w, "%4d  %s\n", i, a)
	}
	fmt.Fprintf(w, "%d changes, %d steps, size %d -> %d\n",
		len(st.Pending()), len(steps), len(data), int64(len(data))+st.SizeDelta())
	return nil
}

func applyCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("%w: apply --script SCRIPT FILE...", errUsage)
	}
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	s, err := script.Load(c.String("script"))
	if err != nil {
		return err
	}

	var mu sync.Mutex
	report := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(c.App.Writer, format, args...)
	}

	paths, err := uniquePaths(c.Args().Slice())
	if err != nil {
		return err
	}

	metrics := store.NewMetrics()
	opts := storeOptions(cfg, logger, metrics)

	g, ctx := errgroup.WithContext(c.Context)
	g.SetLimit(max(c.Int("jobs"), 1))
	for _, path := range paths {
		g.Go(func() error {
			before, after, err := applyFile(ctx, s, path, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			report("%s: %d bytes -> %d bytes\n", path, before, after)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if c.Bool("stats") {
		m := metrics.Snapshot()
		fmt.Fprintf(c.App.Writer, "%d flushes, %d changes, %d steps, %d bytes read, %d bytes written, avg %v, max %v\n",
			m.Flushes, m.Changes, m.Steps, m.BytesRead, m.BytesWritten, m.AvgFlush, m.MaxFlush)
	}
	return nil
}

// uniquePaths drops arguments naming a file listed earlier. Paths are compared
// absolute, with symlinks resolved where the file exists.
func uniquePaths(args []string) ([]string, error) {
	seen := make(map[string]bool, len(args))
	out := make([]string, 0, len(args))
	for _, p := range args {
		key, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		if resolved, err := filepath.EvalSymlinks(key); err == nil {
			key = resolved
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out, nil
}

// applyFile schedules s on the file at path, flushes and returns the file
// size before and after.
func applyFile(ctx context.Context, s *script.Script, path string, opts []store.Option) (before, after int64, err error) {
	st, err := store.OpenFile(path, false, opts...)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if cerr := st.Close(); err == nil {
			err = cerr
		}
	}()

	if before, err = st.Size(); err != nil {
		return 0, 0, err
	}
	if _, err = s.Apply(st); err != nil {
		return 0, 0, err
	}
	if err = st.Flush(ctx); err != nil {
		return 0, 0, err
	}
	after, err = st.Size()
	return before, after, err
}
