package source

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/denismitr/ladder/internal/logger"
	"github.com/denismitr/ladder/migration"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const DefaultMigrationsFolder = "./migrations"

const (
	upgradeFileSuffix   = "upgrade"
	downgradeFileSuffix = "downgrade"

	defaultUpgradeFileFullExtension   = ".upgrade.sql"
	defaultDowngradeFileFullExtension = ".downgrade.sql"

	migrationFileFormat = `^(?P<sequence>\d+)_?(?P<name>[\w-]*)\.(?P<direction>upgrade|downgrade)\.sql$`
)

var migrationFileRegexp = regexp.MustCompile(migrationFileFormat)

// migrationFiles holds the paths found for one migration stem
type migrationFiles struct {
	stem      string
	sequence  int
	name      string
	upgrade   string
	downgrade string
}

// LocalFileSource reads NNNN_name.upgrade.sql / NNNN_name.downgrade.sql pairs
// from a single folder. Files not matching the pattern are ignored.
// Scripts are split by migration.SplitStatements, so trigger and function
// bodies stay whole while MySQL DELIMITER directives are not supported.
type LocalFileSource struct {
	folder string
	lg     logger.Logger
}

var _ Source = (*LocalFileSource)(nil)

func NewLocalFileSource(folder string, lg logger.Logger) *LocalFileSource {
	if lg == nil {
		lg = logger.NullLogger{}
	}

	return &LocalFileSource{folder: folder, lg: lg}
}

func (lfs *LocalFileSource) Folder() string {
	return lfs.folder
}

func (lfs *LocalFileSource) IsValid() bool {
	info, err := os.Stat(lfs.folder)
	if os.IsNotExist(err) {
		return false
	}

	return err == nil && info.IsDir()
}

// AlreadyExists reports whether any migration in the folder has the given name
func (lfs *LocalFileSource) AlreadyExists(name string) bool {
	files, err := lfs.scanFolder()
	if err != nil {
		return false
	}

	slug := migration.Slug(name)

	for _, f := range files {
		if f.name == slug {
			return true
		}
	}

	return false
}

// Next returns the sequence number the next created migration receives
func (lfs *LocalFileSource) Next(ctx context.Context) (int, error) {
	set, err := lfs.Select(ctx)
	if err != nil {
		return 0, err
	}

	return set.Head() + 1, nil
}

// Create writes empty script files for the next migration in the folder
func (lfs *LocalFileSource) Create(ctx context.Context, name string, withDowngrade bool) (*migration.Unit, error) {
	if lfs.AlreadyExists(name) {
		return nil, errors.Wrapf(ErrMigrationExists, "[%s]", name)
	}

	next, err := lfs.Next(ctx)
	if err != nil {
		return nil, err
	}

	key := migration.CreateKey(next, name)

	if err := createEmptyFile(filepath.Join(lfs.folder, key+defaultUpgradeFileFullExtension)); err != nil {
		return nil, err
	}

	if withDowngrade {
		if err := createEmptyFile(filepath.Join(lfs.folder, key+defaultDowngradeFileFullExtension)); err != nil {
			return nil, err
		}
	}

	lfs.lg.Successf("created migration %s", key)

	return &migration.Unit{Key: key, Name: name, Sequence: next}, nil
}

// Select reads every migration in the folder and validates the numbering
func (lfs *LocalFileSource) Select(ctx context.Context) (migration.Set, error) {
	files, err := lfs.scanFolder()
	if err != nil {
		return nil, err
	}

	units := make([]*migration.Unit, len(files))
	eg, ctx := errgroup.WithContext(ctx)

	for i := range files {
		i := i
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			u, err := lfs.readOne(files[i])
			if err != nil {
				mErr := errors.Wrapf(err, "with key %s", files[i].stem)
				lfs.lg.Error(mErr)
				return mErr
			}

			units[i] = u
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return migration.NewSet(units...)
}

func (lfs *LocalFileSource) scanFolder() ([]*migrationFiles, error) {
	entries, err := ioutil.ReadDir(lfs.folder)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read migrations from folder %s", lfs.folder)
	}

	byStem := make(map[string]*migrationFiles)

	for i := range entries {
		if entries[i].IsDir() {
			continue
		}

		stem, direction, err := parseFilename(entries[i].Name())
		if err != nil {
			lfs.lg.Debugf("skipping %s: %s", entries[i].Name(), err.Error())
			continue
		}

		f, ok := byStem[stem.stem]
		if !ok {
			f = stem
			byStem[stem.stem] = f
		}

		path := filepath.Join(lfs.folder, entries[i].Name())
		switch direction {
		case upgradeFileSuffix:
			if f.upgrade != "" {
				return nil, errors.Wrapf(ErrTooManyFilesForKey, "%s", f.stem)
			}
			f.upgrade = path
		case downgradeFileSuffix:
			if f.downgrade != "" {
				return nil, errors.Wrapf(ErrTooManyFilesForKey, "%s", f.stem)
			}
			f.downgrade = path
		}
	}

	result := make([]*migrationFiles, 0, len(byStem))
	for _, f := range byStem {
		result = append(result, f)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].sequence == result[j].sequence {
			return result[i].stem < result[j].stem
		}

		return result[i].sequence < result[j].sequence
	})

	return result, nil
}

func (lfs *LocalFileSource) readOne(f *migrationFiles) (*migration.Unit, error) {
	var upgrade, downgrade []string

	if f.upgrade != "" {
		contents, err := ioutil.ReadFile(f.upgrade)
		if err != nil {
			return nil, errors.Wrapf(err, "could not read %s", f.upgrade)
		}

		upgrade = migration.SplitStatements(string(contents))
	}

	if f.downgrade != "" {
		contents, err := ioutil.ReadFile(f.downgrade)
		if err != nil {
			return nil, errors.Wrapf(err, "could not read %s", f.downgrade)
		}

		downgrade = migration.SplitStatements(string(contents))
	}

	// sequence numbers below one are left for NewSet to report as a gap
	u := &migration.Unit{
		Key:      f.stem,
		Name:     humanize(f.name),
		Sequence: f.sequence,
	}

	// present but empty files still count as an operation
	if f.upgrade != "" {
		u.Upgrade = migration.Scripts(upgrade...)
	}

	if f.downgrade != "" {
		u.Downgrade = migration.Scripts(downgrade...)
	}

	return u, nil
}

func parseFilename(filename string) (*migrationFiles, string, error) {
	matches := migrationFileRegexp.FindStringSubmatch(filepath.Base(filename))
	if len(matches) != 4 {
		return nil, "", ErrNotAMigrationFile
	}

	sequence, err := strconv.Atoi(matches[1])
	if err != nil {
		return nil, "", errors.Wrap(ErrNotAMigrationFile, err.Error())
	}

	stem := strings.TrimSuffix(filepath.Base(filename), "."+matches[3]+".sql")

	return &migrationFiles{
		stem:     stem,
		sequence: sequence,
		name:     matches[2],
	}, matches[3], nil
}

func createEmptyFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "could not create file [%s]", path)
	}

	if cErr := f.Close(); cErr != nil {
		return errors.Wrapf(cErr, "could not close file %s", path)
	}

	return nil
}
