package scheme

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/roach88/varnamd/internal/vocab"
)

//go:embed schemes/*.cue
var builtin embed.FS

// Builtin returns the schemes shipped with the binary.
func Builtin() fs.FS {
	sub, err := fs.Sub(builtin, "schemes")
	if err != nil {
		panic(fmt.Sprintf("scheme: embedded schemes missing: %v", err))
	}
	return sub
}

// Source returns dir as a file system, or the builtin schemes when dir is
// empty.
func Source(dir string) fs.FS {
	if dir == "" {
		return Builtin()
	}
	return os.DirFS(dir)
}

// FindFiles returns the .cue files at the top level of fsys, sorted.
func FindFiles(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".cue") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files, nil
}

// Load compiles every scheme in fsys and indexes them by language code.
// It stops at the first error.
func Load(fsys fs.FS) (map[vocab.Code]*Scheme, error) {
	schemes, errs := LoadAll(fsys)
	if len(errs) > 0 {
		return nil, errs[0]
	}

	out := make(map[vocab.Code]*Scheme, len(schemes))
	for _, s := range schemes {
		if _, dup := out[s.Code]; dup {
			return nil, fmt.Errorf("load schemes: duplicate language code %q", s.Code)
		}
		out[s.Code] = s
	}
	return out, nil
}

// LoadAll compiles every scheme in fsys and collects all errors instead of
// stopping at the first one.
func LoadAll(fsys fs.FS) ([]*Scheme, []error) {
	files, err := FindFiles(fsys)
	if err != nil {
		return nil, []error{fmt.Errorf("scan schemes: %w", err)}
	}
	if len(files) == 0 {
		return nil, []error{fmt.Errorf("scan schemes: no .cue files found")}
	}

	var (
		schemes []*Scheme
		errs    []error
	)
	for _, name := range files {
		src, err := fs.ReadFile(fsys, name)
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", name, err))
			continue
		}
		s, err := Compile(name, src)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if want := strings.TrimSuffix(path.Base(name), ".cue"); string(s.Code) != want {
			errs = append(errs, &CompileError{
				Field:   "code",
				Message: fmt.Sprintf("%s declares code %q, expected %q", name, s.Code, want),
			})
			continue
		}
		schemes = append(schemes, s)
	}
	return schemes, errs
}
