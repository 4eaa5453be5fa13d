// Command fscli uploads, inspects, transforms, and removes files through the
// Filestack APIs from the command line.
//
// Configuration is resolved from flags, then environment variables
// (FILESTACK_API_KEY, FILESTACK_CNAME, FILESTACK_POLICY,
// FILESTACK_SIGNATURE), then ~/.filestack/config.yaml. A .env file in the
// working directory is honored.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/filestack/filestack-go"
	"github.com/filestack/filestack-go/options"
	"github.com/filestack/filestack-go/security"
)

var (
	successf = color.New(color.FgGreen).PrintfFunc()
	errorf   = color.New(color.FgRed).FprintfFunc()
)

// fileConfig mirrors ~/.filestack/config.yaml.
type fileConfig struct {
	APIKey   string `yaml:"apikey"`
	Cname    string `yaml:"cname"`
	Security struct {
		Policy    string `yaml:"policy"`
		Signature string `yaml:"signature"`
	} `yaml:"security"`
}

type cliFlags struct {
	apiKey     string
	cname      string
	policy     string
	signature  string
	configPath string
}

func main() {
	_ = godotenv.Load()

	flags := &cliFlags{}
	root := &cobra.Command{
		Use:           "fscli",
		Short:         "Upload, inspect, transform, and remove files via the Filestack APIs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.apiKey, "apikey", "", "api key (env FILESTACK_API_KEY)")
	root.PersistentFlags().StringVar(&flags.cname, "cname", "", "custom domain (env FILESTACK_CNAME)")
	root.PersistentFlags().StringVar(&flags.policy, "policy", "", "encoded security policy (env FILESTACK_POLICY)")
	root.PersistentFlags().StringVar(&flags.signature, "signature", "", "security signature (env FILESTACK_SIGNATURE)")
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default ~/.filestack/config.yaml)")

	root.AddCommand(
		newUploadCommand(flags),
		newMetadataCommand(flags),
		newRemoveCommand(flags),
		newURLCommand(flags),
		newStoreURLCommand(flags),
		newLogoutCommand(flags),
	)

	if err := root.Execute(); err != nil {
		errorf(os.Stderr, "fscli: %v\n", err)
		os.Exit(1)
	}
}

// newClient resolves configuration and builds the SDK client.
func newClient(flags *cliFlags, extra ...options.NewClientOption[filestack.Client]) (*filestack.Client, error) {
	cfg, err := loadFileConfig(flags.configPath)
	if err != nil {
		return nil, err
	}

	apiKey := firstNonEmpty(flags.apiKey, os.Getenv("FILESTACK_API_KEY"), cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("no api key: set --apikey, FILESTACK_API_KEY, or apikey in the config file")
	}

	opts := make([]options.NewClientOption[filestack.Client], 0, len(extra)+2)
	if cname := firstNonEmpty(flags.cname, os.Getenv("FILESTACK_CNAME"), cfg.Cname); cname != "" {
		opts = append(opts, filestack.WithCname(cname))
	}
	policy := firstNonEmpty(flags.policy, os.Getenv("FILESTACK_POLICY"), cfg.Security.Policy)
	signature := firstNonEmpty(flags.signature, os.Getenv("FILESTACK_SIGNATURE"), cfg.Security.Signature)
	if policy != "" && signature != "" {
		opts = append(opts, filestack.WithSecurity(security.Security{Policy: policy, Signature: signature}))
	}
	opts = append(opts, extra...)

	return filestack.NewClient(apiKey, opts...)
}

func loadFileConfig(path string) (fileConfig, error) {
	cfg := fileConfig{}
	if path == "" {
		home, err := homedir.Dir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(home, ".filestack", "config.yaml")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
