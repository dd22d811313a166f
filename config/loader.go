package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/modkit/util"
)

// FileSystem abstracts file operations so loading can be tested without disk access.
type FileSystem interface {
	Exists(path string) bool
	ReadEnv(path string) (map[string]string, error)
	Environ() []string
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (RealFileSystem) ReadEnv(path string) (map[string]string, error) {
	return godotenv.Read(path)
}

func (RealFileSystem) Environ() []string {
	return os.Environ()
}

// Resolver finds service config files in the standard locations.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns explicit paths if provided, otherwise searches for them.
func (r *Resolver) ResolveFiles(serviceName string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = r.firstExisting(
			fmt.Sprintf("./cmd/%s/config.yml", serviceName),
			"./config/config.yml",
			"./config.yml",
		)
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = r.firstExisting(
			fmt.Sprintf("./cmd/%s/.env", serviceName),
			fmt.Sprintf(".env.%s", serviceName),
			".env",
		)
	}
	return resolved
}

func (r *Resolver) firstExisting(paths ...string) string {
	for _, p := range paths {
		if r.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
	EnvPrefix  string
}

// LoaderOption is a functional option for LoadConfig and LoadView.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix overlays environment variables starting with prefix+"_".
// MODKIT_LOGGING_LEVEL with prefix MODKIT overrides logging.level.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = strings.ToUpper(prefix) }
}

func resolveLoaderConfig(opts []LoaderOption) LoaderConfig {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = RealFileSystem{}
	}
	return lc
}

// LoadConfig loads the service configuration into cfg. The YAML config file
// is read first, then the .env file and process environment are overlaid.
func LoadConfig(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	lc := resolveLoaderConfig(opts)
	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(serviceName, lc)

	v := viper.New()
	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", files.ConfigFile, err)
		}
	}

	overlay, err := envOverlay(lc, files.EnvFile)
	if err != nil {
		return err
	}
	for name, val := range overlay {
		for _, variant := range envKeyVariants(name) {
			v.Set(variant, val)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for service %s: %w", serviceName, err)
	}
	return nil
}

// LoadView reads a flat key/value file into a View.
//
// Files ending in .yml, .yaml, .json or .toml are read with viper and
// flattened to dotted keys; viper lowercases keys, so module IDs declared
// there are lowercase. Any other extension (.properties, .conf, .env) is read
// as KEY=VALUE lines and keeps keys exactly as written.
//
// Variables carrying the env prefix overlay the file. Their names lose the
// prefix, are lowercased and have every "_" turned into ".", so
// MODKIT_MODULE_A_1 becomes module.a.1. Module IDs declared through the
// environment are therefore always lowercase and cannot contain "_".
func LoadView(path string, opts ...LoaderOption) (View, error) {
	lc := resolveLoaderConfig(opts)
	entries := make(map[string]string)

	if path != "" {
		if !lc.FileSystem.Exists(path) {
			return View{}, fmt.Errorf("module config file %s not found", path)
		}
		var (
			fileEntries map[string]string
			err         error
		)
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yml", ".yaml", ".json", ".toml":
			fileEntries, err = readStructured(path)
		default:
			fileEntries, err = lc.FileSystem.ReadEnv(path)
		}
		if err != nil {
			return View{}, fmt.Errorf("failed to read module config %s: %w", path, err)
		}
		for k, val := range fileEntries {
			if key := util.SanitizeKey(k); key != "" {
				entries[key] = val
			}
		}
	}

	overlay, err := envOverlay(lc, lc.EnvFile)
	if err != nil {
		return View{}, err
	}
	for name, val := range overlay {
		entries[strings.ReplaceAll(name, "_", ".")] = val
	}
	return View{entries: entries}, nil
}

// FromViper flattens every key known to v into a View.
func FromViper(v *viper.Viper) View {
	entries := make(map[string]string)
	for _, k := range v.AllKeys() {
		entries[k] = v.GetString(k)
	}
	return View{entries: entries}
}

func readStructured(path string) (map[string]string, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return FromViper(v).entries, nil
}

// envOverlay collects prefixed variables from the .env file and the process
// environment, keyed by their lowercased name without the prefix. Process
// variables win over the .env file and have surrounding quotes stripped.
func envOverlay(lc LoaderConfig, envFile string) (map[string]string, error) {
	overlay := make(map[string]string)
	if lc.EnvPrefix == "" {
		return overlay, nil
	}

	if envFile != "" && lc.FileSystem.Exists(envFile) {
		fileVars, err := lc.FileSystem.ReadEnv(envFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read env file %s: %w", envFile, err)
		}
		for k, val := range fileVars {
			if key, ok := envKey(lc.EnvPrefix, k); ok {
				overlay[key] = val
			}
		}
	}

	for _, kv := range lc.FileSystem.Environ() {
		k, val, found := strings.Cut(kv, "=")
		if !found {
			continue
		}
		if key, ok := envKey(lc.EnvPrefix, k); ok {
			overlay[key] = util.SanitizeEnvValue(val)
		}
	}
	return overlay, nil
}

// envKey maps PREFIX_A_B to a_b.
func envKey(prefix, name string) (string, bool) {
	rest, ok := strings.CutPrefix(name, prefix+"_")
	if !ok || rest == "" {
		return "", false
	}
	return strings.ToLower(rest), true
}

// envKeyVariants expands an underscore-separated name into every nesting it
// could denote, since struct keys may themselves contain underscores.
//
//	runtime_readiness_timeout -> [runtime_readiness_timeout, runtime.readiness.timeout,
//	                              runtime.readiness_timeout, runtime_readiness.timeout]
func envKeyVariants(name string) []string {
	parts := strings.Split(name, "_")
	if len(parts) <= 1 {
		return []string{name}
	}

	variants := []string{name, strings.Join(parts, ".")}
	for i := 1; i < len(parts); i++ {
		variants = append(variants,
			strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"),
			strings.Join(parts[:i], "_")+"."+strings.Join(parts[i:], "."),
		)
	}
	return slices.Compact(slices.Sorted(slices.Values(variants)))
}
