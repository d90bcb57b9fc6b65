package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/hipparchia-console/internal/app"
	"github.com/atomicstack/hipparchia-console/internal/hipparchia"
	"github.com/atomicstack/hipparchia-console/internal/jobs"
	"github.com/atomicstack/hipparchia-console/internal/progress"
	"github.com/atomicstack/hipparchia-console/internal/render"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config captures runtime configuration for the application.
type Config struct {
	App      app.Config
	Logging  Logging
	Features Features
	Flags    map[string]string
	Args     []string
	Sources  []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

type Features struct {
	Verbose bool
}

// Setting names double as flag names. The environment variable for a
// setting is envPrefix plus the upper-cased name with dashes turned into
// underscores.
const (
	keyServer       = "server"
	keyWidth        = "width"
	keyHeight       = "height"
	keyFooter       = "footer"
	keyVerbose      = "verbose"
	keyTrace        = "trace"
	keyLogFile      = "log-file"
	keyRootMenu     = "root-menu"
	keyImages       = "images"
	keyVariants     = "progress"
	keyRefresh      = "refresh"
	keyDialAttempts = "dial-attempts"
	keyDialInterval = "dial-interval"
	keyCacheTTL     = "cache-ttl"

	keyConfigFile = "config"
	keyEnvFile    = "env-file"
)

const (
	envPrefix     = "HIPPARCHIA_CONSOLE_"
	defaultServer = "http://127.0.0.1:8000"
	defaultEnv    = ".env"
)

var settingOrder = []string{
	keyServer, keyWidth, keyHeight, keyFooter, keyVerbose, keyTrace, keyLogFile,
	keyRootMenu, keyImages, keyVariants, keyRefresh, keyDialAttempts, keyDialInterval, keyCacheTTL,
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		App: app.Config{
			ServerURL:       defaultServer,
			Images:          render.ImageStack,
			RefreshInterval: 5 * time.Second,
			DialAttempts:    progress.DefaultMaxAttempts,
			DialInterval:    progress.DefaultRetryInterval,
			CacheTTL:        10 * time.Minute,
		},
	}
}

// Bind registers every setting on fs. Flag defaults are the built-in ones;
// only flags set on the command line override the other sources.
func Bind(fs *pflag.FlagSet) {
	d := Defaults()
	fs.String(keyServer, d.App.ServerURL, "Hipparchia server URL")
	fs.Int(keyWidth, 0, "desired viewport width in cells (0 uses terminal width)")
	fs.Int(keyHeight, 0, "desired viewport height in rows (0 uses terminal height)")
	fs.Bool(keyFooter, false, "enable footer hint row")
	fs.Bool(keyVerbose, false, "print success messages for actions")
	fs.Bool(keyTrace, false, "enable verbose JSON trace logging")
	fs.String(keyLogFile, "", "path to the log file")
	fs.String(keyRootMenu, "", "open the menu at this node")
	fs.String(keyImages, string(d.App.Images), "image policy: stack or replace")
	fs.String(keyVariants, "", "progress rendering per job kind, e.g. search=full,index=none")
	fs.Duration(keyRefresh, d.App.RefreshInterval, "interval between option and selection polls")
	fs.Int(keyDialAttempts, d.App.DialAttempts, "attempts at opening a progress channel")
	fs.Duration(keyDialInterval, d.App.DialInterval, "wait between progress channel attempts")
	fs.Duration(keyCacheTTL, d.App.CacheTTL, "how long author and list lookups are reused")
	fs.String(keyConfigFile, "", "YAML configuration file (env "+envName(keyConfigFile)+")")
	fs.String(keyEnvFile, defaultEnv, "dotenv file merged under the process environment")
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	fs := pflag.NewFlagSet("hipparchia-console", pflag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))
	Bind(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg, err := Resolve(fs, environ)
	if err != nil {
		return Config{}, err
	}
	cfg.Args = append([]string(nil), args...)
	return cfg, nil
}

// Resolve layers, in increasing priority, the built-in defaults, the YAML
// file, the dotenv file, the process environment, and the flags changed on
// fs.
func Resolve(fs *pflag.FlagSet, environ []string) (Config, error) {
	env := parseEnv(environ)
	cfg := Defaults()
	effective := make(map[string]string, len(settingOrder))
	for _, key := range settingOrder {
		if f := fs.Lookup(key); f != nil {
			effective[key] = f.DefValue
		}
	}
	if effective[keyVariants] == "" {
		effective[keyVariants] = formatVariants(jobs.DefaultVariants())
	}

	path := flagOr(fs, keyConfigFile, env[envName(keyConfigFile)])
	if path != "" {
		values, err := readYAML(path)
		if err != nil {
			return Config{}, err
		}
		merge(effective, values)
		cfg.Sources = append(cfg.Sources, path)
	}

	dotenv := flagOr(fs, keyEnvFile, defaultEnv)
	if dotenv != "" {
		values, err := godotenv.Read(dotenv)
		switch {
		case err == nil:
			for k, v := range values {
				if _, ok := env[k]; !ok {
					env[k] = v
				}
			}
			cfg.Sources = append(cfg.Sources, dotenv)
		case errors.Is(err, os.ErrNotExist) && !fs.Changed(keyEnvFile):
		default:
			return Config{}, fmt.Errorf("read %s: %w", dotenv, err)
		}
	}

	for _, key := range settingOrder {
		if v, ok := env[envName(key)]; ok && strings.TrimSpace(v) != "" {
			effective[key] = v
		}
	}
	for _, key := range settingOrder {
		if fs.Changed(key) {
			effective[key] = fs.Lookup(key).Value.String()
		}
	}

	if err := apply(&cfg, effective); err != nil {
		return Config{}, err
	}
	cfg.Flags = effective
	return cfg, nil
}

func apply(cfg *Config, values map[string]string) error {
	var err error
	a := &cfg.App
	a.ServerURL = strings.TrimSpace(values[keyServer])
	if a.Width, err = parseInt(keyWidth, values[keyWidth]); err != nil {
		return err
	}
	if a.Height, err = parseInt(keyHeight, values[keyHeight]); err != nil {
		return err
	}
	if a.ShowFooter, err = parseBool(keyFooter, values[keyFooter]); err != nil {
		return err
	}
	if a.Verbose, err = parseBool(keyVerbose, values[keyVerbose]); err != nil {
		return err
	}
	cfg.Features.Verbose = a.Verbose
	if cfg.Logging.Trace, err = parseBool(keyTrace, values[keyTrace]); err != nil {
		return err
	}
	cfg.Logging.FilePath = values[keyLogFile]
	a.RootMenu = strings.TrimSpace(values[keyRootMenu])
	if a.Images, err = render.ParseImagePolicy(values[keyImages]); err != nil {
		return err
	}
	if a.Variants, err = parseVariants(values[keyVariants]); err != nil {
		return err
	}
	if a.RefreshInterval, err = parseDuration(keyRefresh, values[keyRefresh]); err != nil {
		return err
	}
	if a.DialAttempts, err = parseInt(keyDialAttempts, values[keyDialAttempts]); err != nil {
		return err
	}
	if a.DialInterval, err = parseDuration(keyDialInterval, values[keyDialInterval]); err != nil {
		return err
	}
	if a.CacheTTL, err = parseDuration(keyCacheTTL, values[keyCacheTTL]); err != nil {
		return err
	}
	return nil
}

// parseVariants reads "kind=variant" pairs separated by commas. Kinds not
// named keep their default.
func parseVariants(s string) (map[hipparchia.Kind]progress.Variant, error) {
	out := jobs.DefaultVariants()
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("%s: expected kind=variant, got %q", keyVariants, pair)
		}
		kind, err := hipparchia.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", keyVariants, err)
		}
		v, err := progress.ParseVariant(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", keyVariants, err)
		}
		out[kind] = v
	}
	return out, nil
}

func formatVariants(m map[hipparchia.Kind]progress.Variant) string {
	pairs := make([]string, 0, len(m))
	for kind, v := range m {
		pairs = append(pairs, string(kind)+"="+string(v))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

// fileConfig is the YAML layout. Durations use Go syntax ("5s").
type fileConfig struct {
	Server       string            `yaml:"server"`
	Width        *int              `yaml:"width"`
	Height       *int              `yaml:"height"`
	Footer       *bool             `yaml:"footer"`
	Verbose      *bool             `yaml:"verbose"`
	Trace        *bool             `yaml:"trace"`
	LogFile      string            `yaml:"log_file"`
	RootMenu     string            `yaml:"root_menu"`
	Images       string            `yaml:"images"`
	Progress     map[string]string `yaml:"progress"`
	Refresh      string            `yaml:"refresh"`
	DialAttempts *int              `yaml:"dial_attempts"`
	DialInterval string            `yaml:"dial_interval"`
	CacheTTL     string            `yaml:"cache_ttl"`
}

func readYAML(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	values := map[string]string{
		keyServer:       fc.Server,
		keyLogFile:      fc.LogFile,
		keyRootMenu:     fc.RootMenu,
		keyImages:       fc.Images,
		keyRefresh:      fc.Refresh,
		keyDialInterval: fc.DialInterval,
		keyCacheTTL:     fc.CacheTTL,
	}
	for key, p := range map[string]*int{keyWidth: fc.Width, keyHeight: fc.Height, keyDialAttempts: fc.DialAttempts} {
		if p != nil {
			values[key] = strconv.Itoa(*p)
		}
	}
	for key, p := range map[string]*bool{keyFooter: fc.Footer, keyVerbose: fc.Verbose, keyTrace: fc.Trace} {
		if p != nil {
			values[key] = strconv.FormatBool(*p)
		}
	}
	if len(fc.Progress) > 0 {
		pairs := make([]string, 0, len(fc.Progress))
		for kind, v := range fc.Progress {
			pairs = append(pairs, kind+"="+v)
		}
		sort.Strings(pairs)
		values[keyVariants] = strings.Join(pairs, ",")
	}
	return values, nil
}

// merge copies the non-empty entries of src into dst.
func merge(dst, src map[string]string) {
	for k, v := range src {
		if v != "" {
			dst[k] = v
		}
	}
}

func flagOr(fs *pflag.FlagSet, name, fallback string) string {
	f := fs.Lookup(name)
	if f == nil {
		return fallback
	}
	if fs.Changed(name) || fallback == "" {
		return f.Value.String()
	}
	return fallback
}

func envName(key string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func parseInt(key, v string) (int, error) {
	if strings.TrimSpace(v) == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func parseBool(key, v string) (bool, error) {
	if strings.TrimSpace(v) == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func parseDuration(key, v string) (time.Duration, error) {
	if strings.TrimSpace(v) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// Validate checks the values no single parser can reject on its own.
func Validate(cfg Config) error {
	a := cfg.App
	if a.ServerURL == "" {
		return errors.New("server must not be empty")
	}
	if a.Width < 0 {
		return fmt.Errorf("width must be >= 0 (got %d)", a.Width)
	}
	if a.Height < 0 {
		return fmt.Errorf("height must be >= 0 (got %d)", a.Height)
	}
	if a.DialAttempts < 1 {
		return fmt.Errorf("dial-attempts must be >= 1 (got %d)", a.DialAttempts)
	}
	if a.RefreshInterval < time.Second {
		return fmt.Errorf("refresh must be at least 1s (got %s)", a.RefreshInterval)
	}
	return nil
}
