package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/christopherklint97/goclockify/clockify"
	"github.com/christopherklint97/goclockify/internal/config"
	"github.com/christopherklint97/goclockify/internal/export"
	"github.com/christopherklint97/goclockify/internal/timerange"
	"github.com/christopherklint97/goclockify/internal/tui"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:          "goclockify",
	Short:        "Browse and log Clockify time from the terminal",
	Long:         "goclockify lists Clockify workspaces, projects, tasks, tags, clients and time entries, and can log new entries.",
	SilenceUsage: true,
}

var workspacesCmd = &cobra.Command{
	Use:   "workspaces",
	Short: "List your workspaces",
	RunE:  runWorkspaces,
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Show the user the API key belongs to",
	RunE:  runUser,
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects in a workspace",
	RunE:  runProjects,
}

var tasksCmd = &cobra.Command{
	Use:   "tasks <project-id>",
	Short: "List tasks of a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasks,
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List tags in a workspace",
	RunE:  runTags,
}

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "List clients in a workspace",
	RunE:  runClients,
}

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "List time entries",
	Long:  "List time entries of a user in a workspace. --since and --until accept dates or phrases like \"yesterday\" or \"last monday\" and filter on the entry start.",
	RunE:  runEntries,
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Create a time entry",
	RunE:  runLog,
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show every workspace with its projects, tasks, tags, entries and clients",
	RunE:  runSummary,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Open config file in your editor",
	RunE:  runConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/goclockify/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log API requests to stderr")

	for _, cmd := range []*cobra.Command{projectsCmd, tasksCmd, tagsCmd, clientsCmd, entriesCmd, logCmd} {
		cmd.Flags().StringP("workspace", "w", "", "workspace ID (default from config, then your default workspace)")
	}

	entriesCmd.Flags().String("user", "", "user ID (default: you)")
	entriesCmd.Flags().String("since", "", "only entries starting at or after this time")
	entriesCmd.Flags().String("until", "", "only entries starting before this time")
	entriesCmd.Flags().String("ics", "", "also write finished entries to this .ics file")

	logCmd.Flags().StringP("project", "p", "", "project ID")
	logCmd.Flags().String("task", "", "task ID")
	logCmd.Flags().StringP("description", "d", "", "what you worked on")
	logCmd.Flags().String("start", "", "start time, e.g. \"2 hours ago\" (required)")
	logCmd.Flags().String("end", "", "end time (default: now; empty with --running)")
	logCmd.Flags().Bool("running", false, "start a running timer instead of a finished entry")
	logCmd.Flags().Bool("billable", false, "mark the entry billable")
	logCmd.Flags().StringSlice("tag", nil, "tag ID (repeatable)")
	_ = logCmd.MarkFlagRequired("start")

	rootCmd.AddCommand(workspacesCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(clientsCmd)
	rootCmd.AddCommand(entriesCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cfg.Clockify.APIKey != "" {
		return cfg, nil
	}

	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return nil, fmt.Errorf("clockify API key not configured; run 'goclockify config' or set CLOCKIFY_API_KEY")
	}

	key, err := tui.PromptAPIKey(os.Stdin, os.Stderr)
	if err != nil {
		return nil, err
	}
	cfg.Clockify.APIKey = key
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := cfg.Log.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newClockifyClient(cfg *config.Config) *clockify.Client {
	return clockify.NewClient(cfg.Clockify.APIKey, cfg.Clockify.BaseURL, newLogger(cfg))
}

func setup() (*config.Config, *clockify.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	return cfg, newClockifyClient(cfg), nil
}

func resolveWorkspaceID(cmd *cobra.Command, cfg *config.Config, client *clockify.Client) (string, error) {
	if id, _ := cmd.Flags().GetString("workspace"); id != "" {
		return id, nil
	}
	if cfg.Clockify.WorkspaceID != "" {
		return cfg.Clockify.WorkspaceID, nil
	}
	user, err := client.User(cmd.Context())
	if err != nil {
		return "", fmt.Errorf("getting user info: %w", err)
	}
	return user.DefaultWorkspaceID, nil
}

func runWorkspaces(cmd *cobra.Command, args []string) error {
	_, client, err := setup()
	if err != nil {
		return err
	}

	workspaces, err := client.Workspaces(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching workspaces: %w", err)
	}

	if len(workspaces) == 0 {
		fmt.Println("No workspaces found.")
		return nil
	}

	fmt.Printf("Found %d workspaces:\n\n", len(workspaces))
	for _, ws := range workspaces {
		fmt.Printf("  %s  %s  %s\n", tui.Dim(ws.ID), ws.Name, tui.Dim(fmt.Sprintf("(%d members)", len(ws.Memberships))))
	}
	return nil
}

func runUser(cmd *cobra.Command, args []string) error {
	_, client, err := setup()
	if err != nil {
		return err
	}

	user, err := client.User(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching user: %w", err)
	}

	fmt.Println(tui.Heading(user.Name))
	fmt.Printf("  id:                %s\n", user.ID)
	fmt.Printf("  email:             %s\n", user.Email)
	fmt.Printf("  status:            %s\n", user.Status)
	fmt.Printf("  active workspace:  %s\n", user.ActiveWorkspaceID)
	fmt.Printf("  default workspace: %s\n", user.DefaultWorkspaceID)
	return nil
}

func runProjects(cmd *cobra.Command, args []string) error {
	cfg, client, err := setup()
	if err != nil {
		return err
	}
	workspaceID, err := resolveWorkspaceID(cmd, cfg, client)
	if err != nil {
		return err
	}

	projects, err := client.Projects(cmd.Context(), clockify.ID(workspaceID))
	if err != nil {
		return fmt.Errorf("fetching projects: %w", err)
	}

	if len(projects) == 0 {
		fmt.Println("No projects found.")
		return nil
	}

	fmt.Printf("Found %d projects:\n\n", len(projects))
	for _, p := range projects {
		flags := ""
		if p.Archived {
			flags += " [archived]"
		}
		if p.Billable {
			flags += " [billable]"
		}
		fmt.Printf("  %s  %s  %sh%s\n", tui.Dim(p.ID), p.Name, tui.FormatHours(p.Duration), flags)
	}
	return nil
}

func runTasks(cmd *cobra.Command, args []string) error {
	cfg, client, err := setup()
	if err != nil {
		return err
	}
	workspaceID, err := resolveWorkspaceID(cmd, cfg, client)
	if err != nil {
		return err
	}

	tasks, err := client.Tasks(cmd.Context(), clockify.ID(workspaceID), clockify.ID(args[0]))
	if err != nil {
		return fmt.Errorf("fetching tasks: %w", err)
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return nil
	}

	for _, t := range tasks {
		fmt.Printf("  %s  %-30s  %-6s  estimate %s\n", tui.Dim(t.ID), t.Name, t.Status, clockify.FormatDuration(t.Estimate))
	}
	return nil
}

func runTags(cmd *cobra.Command, args []string) error {
	cfg, client, err := setup()
	if err != nil {
		return err
	}
	workspaceID, err := resolveWorkspaceID(cmd, cfg, client)
	if err != nil {
		return err
	}

	tags, err := client.Tags(cmd.Context(), clockify.ID(workspaceID))
	if err != nil {
		return fmt.Errorf("fetching tags: %w", err)
	}

	if len(tags) == 0 {
		fmt.Println("No tags found.")
		return nil
	}
	for _, t := range tags {
		fmt.Printf("  %s  %s\n", tui.Dim(t.ID), t.Name)
	}
	return nil
}

func runClients(cmd *cobra.Command, args []string) error {
	cfg, client, err := setup()
	if err != nil {
		return err
	}
	workspaceID, err := resolveWorkspaceID(cmd, cfg, client)
	if err != nil {
		return err
	}

	clients, err := client.Clients(cmd.Context(), clockify.ID(workspaceID))
	if err != nil {
		return fmt.Errorf("fetching clients: %w", err)
	}

	if len(clients) == 0 {
		fmt.Println("No clients found.")
		return nil
	}
	for _, c := range clients {
		fmt.Printf("  %s  %s\n", tui.Dim(c.ID), c.Name)
	}
	return nil
}

func runEntries(cmd *cobra.Command, args []string) error {
	userID, _ := cmd.Flags().GetString("user")
	since, _ := cmd.Flags().GetString("since")
	until, _ := cmd.Flags().GetString("until")
	icsPath, _ := cmd.Flags().GetString("ics")

	now := time.Now()
	window, err := timerange.ParseRange(since, until, now)
	if err != nil {
		return err
	}

	cfg, client, err := setup()
	if err != nil {
		return err
	}
	workspaceID, err := resolveWorkspaceID(cmd, cfg, client)
	if err != nil {
		return err
	}

	var user clockify.UserRef
	if userID != "" {
		user = clockify.ID(userID)
	}

	entries, err := client.TimeEntries(cmd.Context(), clockify.ID(workspaceID), user)
	if err != nil {
		return fmt.Errorf("fetching time entries: %w", err)
	}
	entries = timerange.Filter(entries, window)

	if len(entries) == 0 {
		fmt.Println("No time entries found.")
		return nil
	}

	var total time.Duration
	for _, e := range entries {
		fmt.Printf("  %s\n", tui.FormatEntry(e))
		if e.Duration != nil {
			total += *e.Duration
		}
	}
	fmt.Printf("\nTotal: %s (%d entries)\n", total.Round(time.Minute), len(entries))

	if icsPath == "" {
		return nil
	}
	return writeICS(cmd.Context(), client, workspaceID, entries, icsPath, now)
}

func writeICS(ctx context.Context, client *clockify.Client, workspaceID string, entries []clockify.TimeEntry, path string, now time.Time) error {
	names := make(map[string]string)
	projects, err := client.Projects(ctx, clockify.ID(workspaceID))
	if err != nil {
		fmt.Fprintln(os.Stderr, tui.Warning(fmt.Sprintf("Warning: project names unavailable: %v", err)))
	}
	for _, p := range projects {
		names[p.ID] = p.Name
	}

	n, err := export.WriteICSFile(path, entries, names, now)
	if err != nil {
		if errors.Is(err, export.ErrNoEvents) {
			fmt.Println(tui.Warning("Nothing exported: every entry is still running."))
			return nil
		}
		return err
	}
	fmt.Printf("Exported %d entries to %s\n", n, path)
	return nil
}

func runLog(cmd *cobra.Command, args []string) error {
	projectID, _ := cmd.Flags().GetString("project")
	taskID, _ := cmd.Flags().GetString("task")
	description, _ := cmd.Flags().GetString("description")
	startExpr, _ := cmd.Flags().GetString("start")
	endExpr, _ := cmd.Flags().GetString("end")
	running, _ := cmd.Flags().GetBool("running")
	billable, _ := cmd.Flags().GetBool("billable")
	tagIDs, _ := cmd.Flags().GetStringSlice("tag")

	if running && endExpr != "" {
		return fmt.Errorf("--end and --running are mutually exclusive")
	}

	now := time.Now()
	start, err := timerange.Parse(startExpr, now)
	if err != nil {
		return err
	}

	entry := clockify.TimeEntryRequest{
		Start:       start,
		Billable:    billable,
		Description: description,
		ProjectID:   projectID,
		TaskID:      taskID,
		TagIDs:      tagIDs,
	}
	if !running {
		end := now
		if endExpr != "" {
			if end, err = timerange.Parse(endExpr, now); err != nil {
				return err
			}
		}
		if !end.After(start) {
			return fmt.Errorf("end %s is not after start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
		}
		entry.End = &end
	}

	cfg, client, err := setup()
	if err != nil {
		return err
	}
	workspaceID, err := resolveWorkspaceID(cmd, cfg, client)
	if err != nil {
		return err
	}

	created, err := client.CreateTimeEntry(cmd.Context(), clockify.ID(workspaceID), entry)
	if err != nil {
		return fmt.Errorf("creating time entry: %w", err)
	}

	fmt.Printf("Logged: %s\n", tui.FormatEntry(*created))
	return nil
}

func runSummary(cmd *cobra.Command, args []string) error {
	_, client, err := setup()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	workspaces, err := client.Workspaces(ctx)
	if err != nil {
		return fmt.Errorf("fetching workspaces: %w", err)
	}
	user, err := client.User(ctx)
	if err != nil {
		return fmt.Errorf("fetching user: %w", err)
	}

	summaries := make([]tui.WorkspaceSummary, 0, len(workspaces))
	for _, ws := range workspaces {
		s, err := tui.CollectSummary(ctx, client, ws, user)
		if err != nil {
			return fmt.Errorf("summarizing workspace %s: %w", ws.Name, err)
		}
		summaries = append(summaries, s)
	}

	fmt.Print(tui.RenderSummary(summaries))
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	if _, err := config.WriteDefault(path); err != nil {
		return err
	}

	if isatty.IsTerminal(os.Stdin.Fd()) {
		cfg, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if cfg.Clockify.APIKey == "" {
			key, err := tui.PromptAPIKey(os.Stdin, os.Stderr)
			if err != nil && !errors.Is(err, tui.ErrPromptCanceled) {
				return err
			}
			if key != "" {
				if err := config.SaveAPIKey(path, key); err != nil {
					return fmt.Errorf("saving API key: %w", err)
				}
			}
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	if resolved, err := exec.LookPath(editor); err == nil {
		editor = resolved
	}

	fmt.Printf("Opening %s with %s...\n", path, editor)

	proc := os.ProcAttr{
		Files: []*os.File{os.Stdin, os.Stdout, os.Stderr},
	}
	process, err := os.StartProcess(editor, []string{editor, path}, &proc)
	if err != nil {
		fmt.Printf("Could not open editor. Config file is at: %s\n", path)
		return nil
	}
	_, err = process.Wait()
	return err
}
