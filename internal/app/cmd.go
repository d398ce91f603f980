package app

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Command はアプリケーションの起動モードを表す。
type Command string

const (
	// CommandServe はAPIサーバーモードで起動することを示す。
	CommandServe Command = "serve"
	// CommandHealthcheck は起動中のサーバーの /health を確認することを示す。
	// distroless環境でのDockerヘルスチェック用。
	CommandHealthcheck Command = "healthcheck"
	// CommandDiag はスキーマ検出の診断結果を標準出力に書き出すことを示す。
	CommandDiag Command = "diag"
)

// NewRootCommand はcontentgridのルートコマンドを生成する。
// サブコマンド省略時はserveとして動作する。
// logWはログの出力先、outはdiag等の結果の出力先。
func NewRootCommand(logW, out io.Writer) *cobra.Command {
	var configFile string

	serve := func(cmd *cobra.Command, args []string) error {
		cfg, err := Init(logW, configFile)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, cfg)
	}

	root := &cobra.Command{
		Use:           "contentgrid",
		Short:         "Content grid API backed by a Notion database",
		Long:          `contentgrid serves filter facets and a paginated content grid read from a Notion database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          serve,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (YAML); environment variables take precedence")

	serveCmd := &cobra.Command{
		Use:   string(CommandServe),
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}

	var port string
	healthcheckCmd := &cobra.Command{
		Use:   string(CommandHealthcheck),
		Short: "Probe /health of a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == "" {
				port = envPort()
			}
			return runHealthcheck(cmd.Context(), port)
		},
	}
	healthcheckCmd.Flags().StringVar(&port, "port", "", "server port (default: SERVER_PORT, PORT or 8080)")

	diagCmd := &cobra.Command{
		Use:   string(CommandDiag),
		Short: "Print schema detection diagnostics as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := Init(logW, configFile)
			if err != nil {
				return err
			}
			return runDiag(cmd.Context(), cfg, out)
		},
	}

	root.AddCommand(serveCmd, healthcheckCmd, diagCmd)
	return root
}

// Execute はルートコマンドを実行する。
// argsにはos.Args[1:]を渡す。
func Execute(ctx context.Context, args []string) error {
	root := NewRootCommand(os.Stdout, os.Stdout)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// envPort はhealthcheck用にポートを環境変数から読む。
// 設定ファイルは読まない。
func envPort() string {
	for _, name := range []string{"SERVER_PORT", "PORT"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return "8080"
}
