package main

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
)

const configDir = "notepitch-config"

var platforms = []platform{
	{goos: "linux", goarch: "amd64"},
	{goos: "linux", goarch: "386"},
	{goos: "linux", goarch: "arm64"},
	{goos: "linux", goarch: "arm", goarm: "7"},
	{goos: "darwin", goarch: "amd64"},
	{goos: "darwin", goarch: "arm64"},
	{goos: "windows", goarch: "amd64"},
}

type platform struct {
	goos, goarch, goarm string
}

func (p platform) String() string {
	if p.goarm != "" {
		return fmt.Sprintf("%s-%s-v%s", p.goos, p.goarch, p.goarm)
	}
	return fmt.Sprintf("%s-%s", p.goos, p.goarch)
}

func (p platform) binary(base string) string {
	if p.goos == "windows" {
		return base + ".exe"
	}
	return base
}

func (p platform) env() []string {
	env := []string{"GOOS=" + p.goos, "GOARCH=" + p.goarch, "CGO_ENABLED=0"}
	if p.goarm != "" {
		env = append(env, "GOARM="+p.goarm)
	}
	return env
}

// release is a directory holding the binary next to a copy of the default config,
// the layout the binary expects when started from its own directory.
type release struct {
	platform platform
	dir      string
	output   string // compiler output, set on failure
}

var (
	selection string
	project   string
	basename  string
	outDir    string
	archive   bool
	jobs      int
)

func init() {
	var names []string
	for _, p := range platforms {
		names = append(names, p.String())
	}
	flag.StringVar(&selection, "platforms", "all", "comma-separated platform list\navailable: "+strings.Join(names, ","))
	flag.StringVar(&project, "project", "./cmd/notepitch", "main package directory, its notepitch-config is bundled")
	flag.StringVar(&basename, "base", "notepitch", "base name for binaries and release directories")
	flag.StringVar(&outDir, "out", "./builds", "output directory")
	flag.BoolVar(&archive, "archive", false, "pack each release (tar.gz, zip for windows)")
	flag.IntVar(&jobs, "jobs", runtime.NumCPU(), "parallel builds")
	flag.Parse()
}

func selectPlatforms(selection string) ([]platform, error) {
	if selection == "all" {
		return platforms, nil
	}
	var selected []platform
root:
	for _, name := range strings.Split(selection, ",") {
		for _, p := range platforms {
			if p.String() == name {
				selected = append(selected, p)
				continue root
			}
		}
		return nil, fmt.Errorf("platform not found: %s", name)
	}
	return selected, nil
}

func compile(r *release) error {
	var out bytes.Buffer
	cmd := exec.Command("go", "build", "-trimpath", "-o", filepath.Join(r.dir, r.platform.binary(basename)), project)
	cmd.Env = append(os.Environ(), r.platform.env()...)
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	if err != nil {
		r.output = out.String()
		return fmt.Errorf("go build failed: %w", err)
	}
	return nil
}

// copyTree copies src into dst, skipping .gitkeep placeholders but keeping the
// directories they hold.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if d.Name() == ".gitkeep" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
}

type packer interface {
	add(name string, info fs.FileInfo, body io.Reader) error
	Close() error
}

type tarPacker struct {
	gz *gzip.Writer
	tw *tar.Writer
}

func (p *tarPacker) add(name string, info fs.FileInfo, body io.Reader) error {
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = name
	if info.IsDir() {
		hdr.Name += "/"
	}
	err = p.tw.WriteHeader(hdr)
	if err != nil || body == nil {
		return err
	}
	_, err = io.Copy(p.tw, body)
	return err
}

func (p *tarPacker) Close() error {
	err := p.tw.Close()
	if err != nil {
		return err
	}
	return p.gz.Close()
}

type zipPacker struct {
	zw *zip.Writer
}

func (p *zipPacker) add(name string, info fs.FileInfo, body io.Reader) error {
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = name
	if info.IsDir() {
		hdr.Name += "/"
	} else {
		hdr.Method = zip.Deflate
	}
	w, err := p.zw.CreateHeader(hdr)
	if err != nil || body == nil {
		return err
	}
	_, err = io.Copy(w, body)
	return err
}

func (p *zipPacker) Close() error {
	return p.zw.Close()
}

// pack archives release directory, entries are prefixed with its base name.
func pack(r *release) (string, error) {
	var path string
	var fd *os.File
	var p packer
	var err error

	if r.platform.goos == "windows" {
		path = r.dir + ".zip"
		if fd, err = os.Create(path); err != nil {
			return "", err
		}
		p = &zipPacker{zw: zip.NewWriter(fd)}
	} else {
		path = r.dir + ".tar.gz"
		if fd, err = os.Create(path); err != nil {
			return "", err
		}
		gz := gzip.NewWriter(fd)
		p = &tarPacker{gz: gz, tw: tar.NewWriter(gz)}
	}
	defer fd.Close()

	prefix := filepath.Base(r.dir)
	err = filepath.WalkDir(r.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(r.dir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(filepath.Join(prefix, rel))
		if d.IsDir() {
			return p.add(name, info, nil)
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return p.add(name, info, f)
	})
	if err != nil {
		p.Close()
		return "", err
	}
	return path, p.Close()
}

func (r *release) make() error {
	err := os.RemoveAll(r.dir)
	if err != nil {
		return err
	}
	err = compile(r)
	if err != nil {
		return err
	}
	err = copyTree(filepath.Join(project, configDir), filepath.Join(r.dir, configDir))
	if err != nil {
		return fmt.Errorf("bundling %s failed: %w", configDir, err)
	}
	if archive {
		path, err := pack(r)
		if err != nil {
			return fmt.Errorf("packing failed: %w", err)
		}
		log.Printf("%-20s packed %s", r.platform, path)
	}
	return nil
}

func main() {
	log.SetFlags(log.Ltime)

	selected, err := selectPlatforms(selection)
	if err != nil {
		log.Print(err)
		os.Exit(1)
	}
	if jobs < 1 {
		jobs = 1
	}

	var releases []*release
	for _, p := range selected {
		releases = append(releases, &release{
			platform: p,
			dir:      filepath.Join(outDir, fmt.Sprintf("%s-%s", basename, p)),
		})
	}
	log.Printf("building %s for %d platforms, %d at a time", project, len(releases), jobs)

	var failed = make(map[string]error)
	var mu sync.Mutex
	var wg sync.WaitGroup
	var slots = make(chan struct{}, jobs)

	for _, r := range releases {
		wg.Add(1)
		go func(r *release) {
			defer wg.Done()
			slots <- struct{}{}
			defer func() { <-slots }()

			err := r.make()
			if err != nil {
				mu.Lock()
				failed[r.platform.String()] = err
				mu.Unlock()
				log.Printf("%-20s failed: %s", r.platform, err)
				return
			}
			log.Printf("%-20s ok: %s", r.platform, r.dir)
		}(r)
	}
	wg.Wait()

	if len(failed) == 0 {
		return
	}

	var names []string
	for name := range failed {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, r := range releases {
		if r.output == "" {
			continue
		}
		fmt.Printf("\n>>> %s\n%s", r.platform, r.output)
	}
	log.Printf("%d of %d builds failed: %s", len(failed), len(releases), strings.Join(names, ", "))
	os.Exit(1)
}
