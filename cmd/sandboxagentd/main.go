// Command sandboxagentd is the CLI entrypoint: it resolves configuration,
// builds the sandboxed workspace and tool registry, wires the LLM role
// registry, the Supervisor, the Reasoning Loop, and the Agent Façade, and
// serves the result over stdio or HTTP JSON-RPC.
package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sandboxagent/sandboxagent/internal/agentfacade"
	"github.com/sandboxagent/sandboxagent/internal/config"
	"github.com/sandboxagent/sandboxagent/internal/core/tools"
	"github.com/sandboxagent/sandboxagent/internal/llm"
	"github.com/sandboxagent/sandboxagent/internal/logging"
	"github.com/sandboxagent/sandboxagent/internal/protocol"
	"github.com/sandboxagent/sandboxagent/internal/providers"
	"github.com/sandboxagent/sandboxagent/internal/reasoning"
	"github.com/sandboxagent/sandboxagent/internal/selector"
	"github.com/sandboxagent/sandboxagent/internal/supervisor"
	"github.com/sandboxagent/sandboxagent/internal/workspace"
)

var (
	flagWorkspace  string
	flagDebug      bool
	flagSession    string
	flagEnvProfile string
	flagConfigPath string
)

func main() {
	root := &cobra.Command{
		Use:   "sandboxagentd",
		Short: "A sandboxed, LLM-driven file-operations agent",
	}
	root.PersistentFlags().StringVar(&flagWorkspace, "workspace", "", "sandbox root directory (overrides WORKSPACE_PATH)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "include reasoning steps and error context in responses")
	root.PersistentFlags().StringVar(&flagSession, "session", "", "session label, used by chat as the initial conversation ID")
	root.PersistentFlags().StringVar(&flagEnvProfile, "env", "", "load <profile>.env before reading the environment")
	root.PersistentFlags().StringVar(&flagConfigPath, "config", "", "path to an optional TOML config file")

	root.AddCommand(serveCmd(), toolsCmd(), configCmd(), chatCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildRuntime constructs every long-lived collaborator a command needs
// from an already-resolved configuration: the workspace, tool executor,
// LLM registry, Supervisor, Reasoning Loop, and Agent Façade.
func buildRuntime(ctx context.Context, cfg config.Config) (*agentfacade.Facade, *tools.ToolExecutor, error) {
	logging.Init(cfg.Debug, os.Stderr)

	wsPath, err := cfg.ResolveWorkspacePath(flagWorkspace)
	if err != nil {
		return nil, nil, fmt.Errorf("sandboxagentd: resolving workspace path: %w", err)
	}
	ws, err := workspace.New(wsPath, workspace.DefaultConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("sandboxagentd: initializing workspace: %w", err)
	}

	registry, err := llm.NewRegistry(ctx, cfg.RoleModels, cfg.ToAPIKeysMap())
	if err != nil {
		return nil, nil, fmt.Errorf("sandboxagentd: initializing LLM registry: %w", err)
	}

	analysisClient, _ := registry.ClientFor(providers.RoleFileAnalysis)
	executor := tools.NewToolExecutor(ws, tools.NewToolLogger(), analysisClient)

	agentClient, err := registry.ClientFor(providers.RoleAgent)
	if err != nil {
		return nil, nil, fmt.Errorf("sandboxagentd: no LLM configured for the agent role: %w", err)
	}
	supervisorClient, _ := registry.ClientFor(providers.RoleSupervisor)

	sel := selector.New(agentClient)
	loop := reasoning.New(agentClient, executor, sel, 0)
	sup := supervisor.New(supervisorClient)
	facade := agentfacade.New(sup, loop, cfg.Debug)

	return facade, executor, nil
}

func serveCmd() *cobra.Command {
	var transport string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the agent, serving JSON-RPC over stdio or HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := config.Load(flagConfigPath, flagEnvProfile)
			if err != nil {
				return err
			}
			if flagDebug {
				cfg.Debug = true
			}

			_, executor, err := buildRuntime(ctx, cfg)
			if err != nil {
				return err
			}

			mcpServer := protocol.NewMCPServer(executor)
			metrics := protocol.NewMetrics()

			switch transport {
			case "stdio":
				return protocol.ServeStdio(ctx, mcpServer, metrics, os.Stdin, os.Stdout)
			case "http":
				addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
				httpServer := protocol.NewHTTPServer(mcpServer, metrics)
				srv := &http.Server{Addr: addr, Handler: httpServer}
				errCh := make(chan error, 1)
				go func() { errCh <- srv.ListenAndServe() }()
				select {
				case <-ctx.Done():
					return srv.Close()
				case err := <-errCh:
					return err
				}
			default:
				return fmt.Errorf("sandboxagentd: unknown transport %q (use stdio or http)", transport)
			}
		},
	}
	cmd.Flags().StringVar(&transport, "transport", "stdio", "stdio or http")
	return cmd
}

func toolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Inspect the tool catalog",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every registered tool and its description",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, err := config.Load(flagConfigPath, flagEnvProfile)
			if err != nil {
				return err
			}
			if flagDebug {
				cfg.Debug = true
			}
			_, executor, err := buildRuntime(ctx, cfg)
			if err != nil {
				return err
			}
			for _, d := range executor.Descriptors() {
				fmt.Printf("%-28s %s\n", d.Name, d.Description)
			}
			return nil
		},
	})
	return cmd
}

// chatCmd exercises the Agent Façade directly: one query per line on
// stdin, one rendered AgentResponse per line on stdout. The JSON-RPC
// surface (serve) and this conversational surface are independent
// entrypoints onto the same underlying pipeline, matching how the
// Façade's process_query contract carries no transport opinion of its
// own.
func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive REPL: each line of stdin is one query to the agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := config.Load(flagConfigPath, flagEnvProfile)
			if err != nil {
				return err
			}
			if flagDebug {
				cfg.Debug = true
			}
			facade, _, err := buildRuntime(ctx, cfg)
			if err != nil {
				return err
			}

			conversationID := flagSession
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				query := scanner.Text()
				if query == "" {
					continue
				}
				resp := facade.ProcessQuery(ctx, query, conversationID)
				conversationID = resp.ConversationID
				fmt.Println(resp.Response)
			}
			return scanner.Err()
		},
	}
}

func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration (API keys redacted)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfigPath, flagEnvProfile)
			if err != nil {
				return err
			}
			fmt.Printf("workspace: %s\n", cfg.WorkspacePath)
			fmt.Printf("host:port: %s:%d\n", cfg.Host, cfg.Port)
			fmt.Printf("workers:   %d\n", cfg.Workers)
			fmt.Printf("log_level: %s\n", cfg.LogLevel)
			fmt.Printf("debug:     %v\n", cfg.Debug)
			fmt.Printf("anthropic key set: %v\n", cfg.APIKeys.Anthropic != "")
			fmt.Printf("openai key set:    %v\n", cfg.APIKeys.OpenAI != "")
			fmt.Printf("gemini key set:    %v\n", cfg.APIKeys.Gemini != "")
			return nil
		},
	}
}
