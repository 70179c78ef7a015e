package pitchset

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	path2 "path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gethiox/notepitch/internal/pkg/logger"
)

const (
	FactoryDir = "factory"
	UserDir    = "user"
)

var log = logger.GetLogger()

var (
	UnsupportedFileType = errors.New("unsupported file type")
	SetNotFound         = errors.New("set not found")
)

type SetMap map[string]Set

type Sets struct {
	Factory SetMap
	User    SetMap
}

// FindSet looks up user sets first, user files may override factory ones.
func (s *Sets) FindSet(name string) (Set, SetType, error) {
	set, ok := s.User[name]
	if ok {
		return set, User, nil
	}
	set, ok = s.Factory[name]
	if ok {
		return set, Factory, nil
	}
	return Set{}, "", fmt.Errorf("%w: %s", SetNotFound, name)
}

// Names returns every known set name sorted, user overrides counted once.
func (s *Sets) Names() []string {
	var names []string
	for name := range s.Factory {
		if _, ok := s.User[name]; !ok {
			names = append(names, name)
		}
	}
	for name := range s.User {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func supported(name string) bool {
	name = strings.ToLower(name)
	for _, ext := range []string{".toml", ".yaml", ".yml"} {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// LoadSets reads factory and user subdirectories of root. Broken files are
// reported and skipped, missing user directory is not an error.
func LoadSets(root string) (Sets, error) {
	sets := Sets{
		Factory: make(SetMap),
		User:    make(SetMap),
	}

	for _, pair := range []struct {
		dir    string
		setMap SetMap
		typ    SetType
	}{
		{filepath.Join(root, FactoryDir), sets.Factory, Factory},
		{filepath.Join(root, UserDir), sets.User, User},
	} {
		_, err := os.Stat(pair.dir)
		if errors.Is(err, fs.ErrNotExist) && pair.typ == User {
			log.Info(fmt.Sprintf("user set directory \"%s\" does not exist", pair.dir), logger.Debug)
			continue
		}

		err = loadDirectory(pair.dir, pair.typ, pair.setMap)
		if err != nil {
			return sets, fmt.Errorf("loading \"%s\" directory failed: %w", pair.dir, err)
		}
	}
	return sets, nil
}

func loadDirectory(root string, setType SetType, setMap SetMap) error {
	err := filepath.Walk(root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		if !supported(info.Name()) {
			return nil
		}

		setFile, err := LoadFile(path, setType)
		if err != nil {
			log.Info(fmt.Sprintf("set file %s (%s) load failed: %s", info.Name(), setType, err), logger.Warning)
			return nil
		}
		for _, set := range setFile.Sets {
			if _, ok := setMap[set.Name]; ok {
				log.Info(fmt.Sprintf("set \"%s\" redefined in %s", set.Name, setFile.Path), logger.Warning)
			}
			setMap[set.Name] = set
		}
		log.Info(fmt.Sprintf("loaded %d sets from %s (%s)", len(setFile.Sets), setFile.Path, setType), logger.Debug)

		return nil
	})
	if err != nil {
		return fmt.Errorf("walk failed: %w", err)
	}
	return nil
}

// LoadFile reads single set file, format is picked by extension.
func LoadFile(path string, setType SetType) (SetFile, error) {
	fd, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return SetFile{}, fmt.Errorf("opening set file failed: %w", err)
	}
	defer fd.Close()

	data, err := io.ReadAll(fd)
	if err != nil {
		return SetFile{}, fmt.Errorf("reading file data failed: %w", err)
	}

	var sets []Set
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		sets, err = ParseData(data)
	case ".yaml", ".yml":
		sets, err = ParseYAMLData(data)
	default:
		return SetFile{}, fmt.Errorf("%w: %s", UnsupportedFileType, ext)
	}
	if err != nil {
		return SetFile{}, err
	}

	return SetFile{
		Path: path2.Base(path),
		Type: setType,
		Sets: sets,
	}, nil
}
