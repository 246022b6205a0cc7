package ui

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/roster/internal/db"
)

func (a *App) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [database_path]",
		Short: "Import a timetable from another database",
		Long: `Import lessons, periods, teachers and rooms from another roster
database into the current one.

Imported lessons replace the lesson held by the same class at the same
time. Periods missing from the grid are added.

Example:
  roster import /path/to/other.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, path, err := a.openImportSource(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = source.Close() }()

			sess, err := a.openSession(cmd)
			if err != nil {
				return err
			}
			res, err := sess.Import(cmdContext(cmd), source)
			if err != nil {
				return err
			}
			reportResult(cmd, res.Result)

			m := res.Merge
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d lessons (%d replaced, %d new), %d periods, %d teachers, %d rooms from %s\n",
				m.Replaced+m.Appended, m.Replaced, m.Appended, res.Periods, res.Teachers, res.Rooms, path)
			return nil
		},
	}
}

// openImportSource opens the database at arg, refusing the configured
// database itself and anything that is not an existing file.
func (a *App) openImportSource(arg string) (*db.SQLite, string, error) {
	path, err := resolvePath(arg)
	if err != nil {
		return nil, "", err
	}
	if current, err := resolvePath(a.config.Storage.DBPath); err == nil && current == path {
		return nil, "", errors.New("source database matches current database")
	}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, "", fmt.Errorf("source database does not exist: %s", path)
	case err != nil:
		return nil, "", fmt.Errorf("checking source database: %w", err)
	case info.IsDir():
		return nil, "", fmt.Errorf("source database path is a directory: %s", path)
	}

	source, err := db.New(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening source database: %w", err)
	}
	return source, path, nil
}

// resolvePath expands a leading ~ and makes path absolute.
func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("empty path")
	}
	rest, ok := strings.CutPrefix(path, "~/")
	if path == "~" {
		rest, ok = "", true
	}
	if ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, rest)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return abs, nil
}
