package cli

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	DefaultDirectory  = "./migrations"
	DefaultConfigFile = "ladder.yml"
	DefaultDSNEnv     = "LADDER_DSN"

	configVersion = "1"
	readmeFile    = "README"
	readmeStub    = "Basic ladder setup.\n\nCreate migrations with `ladder create <name>` and apply them with `ladder migrate`.\n"
)

var (
	ErrFolderExists         = errors.New("migrations folder already exists")
	ErrDatabaseURLMissing   = errors.New("database url was not defined")
	ErrConfigVersionUnknown = errors.New("unknown ladder configuration version")
)

type (
	Config struct {
		DatabaseURL      string
		MigrationsFolder string
		VersionTable     string
	}

	migrations struct {
		Folder       string `yaml:"folder"`
		DatabaseURL  string `yaml:"database_url"`
		VersionTable string `yaml:"version_table,omitempty"`
	}

	configFile struct {
		Version    string     `yaml:"version"`
		Migrations migrations `yaml:"migrations"`
	}
)

// LoadConfig reads the environment descriptor. Values wrapped in %% are read
// from the environment, a relative folder is resolved against the descriptor location.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	b, err := ioutil.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "could not read ladder configuration file")
	}

	var cfgFile configFile
	if err := yaml.Unmarshal(b, &cfgFile); err != nil {
		return cfg, errors.Wrap(err, "could not parse ladder configuration file")
	}

	if cfgFile.Version != "" && cfgFile.Version != configVersion {
		return cfg, errors.Wrapf(ErrConfigVersionUnknown, "%s", cfgFile.Version)
	}

	cfg.DatabaseURL = fromEnv(cfgFile.Migrations.DatabaseURL)
	cfg.VersionTable = fromEnv(cfgFile.Migrations.VersionTable)

	folder := fromEnv(cfgFile.Migrations.Folder)
	if folder == "" {
		folder = "."
	}

	if !filepath.IsAbs(folder) {
		folder = filepath.Join(filepath.Dir(path), folder)
	}

	cfg.MigrationsFolder = folder

	return cfg, nil
}

// Init scaffolds the migrations folder with an environment descriptor and a README,
// an existing folder is never touched.
func Init(dir, dsn string) (string, error) {
	if _, err := os.Stat(dir); err == nil {
		return "", errors.Wrapf(ErrFolderExists, "%s", dir)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, "could not create folder %s", dir)
	}

	if dsn == "" {
		dsn = "%%" + DefaultDSNEnv + "%%"
	}

	b, err := yaml.Marshal(configFile{
		Version: configVersion,
		Migrations: migrations{
			Folder:      ".",
			DatabaseURL: dsn,
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "could not render ladder configuration")
	}

	path := filepath.Join(dir, DefaultConfigFile)
	if err := ioutil.WriteFile(path, b, 0644); err != nil {
		return "", errors.Wrap(err, "could not create config file")
	}

	if err := ioutil.WriteFile(filepath.Join(dir, readmeFile), []byte(readmeStub), 0644); err != nil {
		return "", errors.Wrap(err, "could not create README")
	}

	return path, nil
}

func FileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}

	return err == nil && !info.IsDir()
}

func fromEnv(value string) string {
	if len(value) > 4 && strings.HasPrefix(value, "%%") && strings.HasSuffix(value, "%%") {
		return os.Getenv(strings.Trim(value, "%"))
	}

	return value
}
