// Package cli implements the mixcloud command.
package cli

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jaki95/mixcloud/config"
	"github.com/jaki95/mixcloud/mixcloud"
)

type globalArgs struct {
	configPath string
	token      string

	cfg *config.Config
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	args := &globalArgs{}

	rootCmd := &cobra.Command{
		Use:           "mixcloud",
		Short:         "Browse and upload Mixcloud cloudcasts",
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, positional []string) error {
			return args.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&args.configPath, "config", "c", "", "path to the YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&args.token, "token", "", "access token, overrides every configured source")

	rootCmd.AddCommand(artistSetup(args))
	rootCmd.AddCommand(userSetup(args))
	rootCmd.AddCommand(meSetup(args))
	rootCmd.AddCommand(cloudcastSetup(args))
	rootCmd.AddCommand(cloudcastsSetup(args))
	rootCmd.AddCommand(uploadSetup(args))
	rootCmd.AddCommand(authSetup(args))

	return rootCmd
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "error: %s\n", err)
		return 1
	}
	return 0
}

func (a *globalArgs) load(cmd *cobra.Command) error {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
	}
	if a.token != "" {
		cfg.Credentials.AccessToken = a.token
	}
	a.cfg = cfg

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.Level(cfg.LogLevel)}))
	slog.SetDefault(logger)
	return nil
}

// client builds an API client. Uploads pass withTimeout false: the request
// lasts as long as the audio takes to send.
func (a *globalArgs) client(withTimeout bool) (*mixcloud.Client, error) {
	httpClient := &http.Client{}
	if withTimeout {
		httpClient.Timeout = a.cfg.API.Timeout
	}
	return mixcloud.NewClient(mixcloud.Config{
		APIRoot:     a.cfg.API.Root,
		Credentials: a.cfg.TokenSource(),
		HTTPClient:  httpClient,
		UserAgent:   "mixcloud-cli/1.0.0",
	})
}

func (a *globalArgs) oauth() (*mixcloud.OAuth, error) {
	return mixcloud.NewOAuth(mixcloud.OAuthConfig{
		ClientID:     a.cfg.OAuth.ClientID,
		ClientSecret: a.cfg.OAuth.ClientSecret,
		RedirectURI:  a.cfg.OAuth.RedirectURI,
		Root:         a.cfg.API.OAuthRoot,
		HTTPClient:   &http.Client{Timeout: a.cfg.API.Timeout},
	})
}

