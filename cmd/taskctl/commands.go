package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"taskmanager/internal/client/api"
	"taskmanager/internal/client/board"
	"taskmanager/internal/client/credentials"
	"taskmanager/internal/client/session"
	"taskmanager/internal/infrastructure/logging"
)

var errNotLoggedIn = errors.New("not logged in, run `taskctl login` first")

type app struct {
	out     io.Writer
	in      *bufio.Reader
	logger  *log.Logger
	client  *api.Client
	session *session.Session
}

type command struct {
	name    string
	usage   string
	private bool
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = []command{
	{"register", "register -username NAME -email EMAIL [-password PW]", false, registerCommand},
	{"login", "login -email EMAIL [-password PW]", false, loginCommand},
	{"logout", "logout", false, logoutCommand},
	{"whoami", "whoami", false, whoamiCommand},
	{"tasks", "tasks [-status all|completed|incomplete] [-match TEXT]", true, tasksCommand},
	{"add", "add -title TITLE [-description TEXT] [-category ID] [-tags ID,ID]", true, addCommand},
	{"edit", "edit ID [-title TITLE] [-description TEXT] [-category ID|-no-category] [-tags ID,ID] [-completed=BOOL]", true, editCommand},
	{"toggle", "toggle ID", true, toggleCommand},
	{"rm", "rm ID", true, removeCommand},
	{"search", "search KEYWORD", true, searchCommand},
	{"incomplete", "incomplete", true, incompleteCommand},
	{"categories", "categories", true, categoriesCommand},
	{"add-category", "add-category -name NAME [-color COLOR] [-description TEXT]", true, addCategoryCommand},
	{"edit-category", "edit-category ID [-name NAME] [-color COLOR] [-description TEXT]", true, editCategoryCommand},
	{"rm-category", "rm-category ID", true, removeCategoryCommand},
	{"tags", "tags", true, tagsCommand},
	{"add-tag", "add-tag -name NAME", true, addTagCommand},
	{"edit-tag", "edit-tag ID -name NAME", true, editTagCommand},
	{"rm-tag", "rm-tag ID", true, removeTagCommand},
}

// run parses global flags, restores the session and dispatches one
// subcommand.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("taskctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(fs, stderr) }
	configPath := fs.String("config", "", "Path to taskctl.toml")
	baseURL := fs.String("base-url", "", "API base URL (overrides config)")
	logLevel := fs.String("log-level", "", "Log level (debug|info|warn|error)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := loadConfig(*configPath, *configPath != "")
	if err != nil {
		return err
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	rest := fs.Args()
	if len(rest) == 0 {
		printUsage(fs, stderr)
		return errors.New("missing command")
	}
	name, rest := rest[0], rest[1:]
	if name == "help" {
		printUsage(fs, stdout)
		return nil
	}

	var cmd *command
	for i := range commands {
		if commands[i].name == name {
			cmd = &commands[i]
			break
		}
	}
	if cmd == nil {
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", name)
	}

	logger := logging.New(stderr, logging.Options{Level: cfg.LogLevel, Prefix: "taskctl"})
	store, err := credentials.OpenFileStore(cfg.CredentialsFile, logger)
	if err != nil {
		return fmt.Errorf("opening credentials: %w", err)
	}
	client := api.New(cfg.BaseURL, store,
		api.WithAuthPolicy(cfg.Auth.Policy()),
		api.WithLogger(logger),
	)
	a := &app{
		out:     stdout,
		in:      bufio.NewReader(stdin),
		logger:  logger,
		client:  client,
		session: session.New(store, client.Auth, logger),
	}

	state := a.session.Init()
	if cmd.private && !state.IsAuthenticated {
		return errNotLoggedIn
	}
	return explain(cmd.run(ctx, a, rest))
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Usage: taskctl [flags] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %s\n", c.usage)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

// explain adds a hint to errors a user can act on.
func explain(err error) error {
	var rerr *api.RequestError
	if errors.As(err, &rerr) && rerr.Unauthorized() && rerr.Op != "login" {
		return fmt.Errorf("%w (token rejected, run `taskctl login`)", err)
	}
	return err
}

func (a *app) password(value string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprint(a.out, "Password: ")
	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func registerCommand(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("taskctl register", flag.ContinueOnError)
	username := fs.String("username", "", "Username")
	email := fs.String("email", "", "Email")
	pw := fs.String("password", "", "Password (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	password, err := a.password(*pw)
	if err != nil {
		return err
	}
	res, err := a.session.Register(ctx, api.RegisterRequest{Username: *username, Email: *email, Password: password})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered and logged in as %s <%s>\n", res.Username, res.Email)
	return nil
}

func loginCommand(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("taskctl login", flag.ContinueOnError)
	email := fs.String("email", "", "Email")
	pw := fs.String("password", "", "Password (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	password, err := a.password(*pw)
	if err != nil {
		return err
	}
	res, err := a.session.Login(ctx, api.LoginRequest{Email: *email, Password: password})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s <%s>\n", res.Username, res.Email)
	return nil
}

func logoutCommand(_ context.Context, a *app, _ []string) error {
	a.session.Logout()
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func whoamiCommand(_ context.Context, a *app, _ []string) error {
	st := a.session.State()
	if !st.IsAuthenticated {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s>\n", st.User.Username, st.User.Email)
	return nil
}

func tasksCommand(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("taskctl tasks", flag.ContinueOnError)
	statusFlag := fs.String("status", "all", "Filter by status (all|completed|incomplete)")
	match := fs.String("match", "", "Only titles containing TEXT")
	if err := fs.Parse(args); err != nil {
		return err
	}
	status, err := board.ParseStatus(*statusFlag)
	if err != nil {
		return err
	}

	b := board.NewTasks(a.client.Tasks, a.logger)
	defer b.Close()
	if err := b.Load(ctx); err != nil {
		return err
	}

	tasks := b.Filter(status)
	if *match != "" {
		keep := map[int64]bool{}
		for _, t := range b.Search(*match) {
			keep[t.ID] = true
		}
		filtered := tasks[:0]
		for _, t := range tasks {
			if keep[t.ID] {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}
	printTasks(a.out, tasks)
	return nil
}

func addCommand(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("taskctl add", flag.ContinueOnError)
	title := fs.String("title", "", "Task title")
	description := fs.String("description", "", "Task description")
	category := fs.Int64("category", 0, "Category id")
	tags := fs.String("tags", "", "Comma-separated tag ids")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *title == "" && fs.NArg() > 0 {
		*title = strings.Join(fs.Args(), " ")
	}
	tagIDs, err := parseIDs(*tags)
	if err != nil {
		return err
	}

	in := api.TaskInput{Title: *title, Description: *description, TagIDs: tagIDs}
	if *category != 0 {
		in.CategoryID = category
	}
	b := board.NewTasks(a.client.Tasks, a.logger)
	defer b.Close()
	t, err := b.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created task %d\n", t.ID)
	return nil
}

func editCommand(ctx context.Context, a *app, args []string) error {
	id, args, err := leadingID(args)
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("taskctl edit", flag.ContinueOnError)
	title := fs.String("title", "", "Task title")
	description := fs.String("description", "", "Task description")
	category := fs.Int64("category", 0, "Category id")
	noCategory := fs.Bool("no-category", false, "Clear the category")
	tags := fs.String("tags", "", "Comma-separated tag ids (empty clears)")
	completed := fs.Bool("completed", false, "Completed flag")
	if err := fs.Parse(args); err != nil {
		return err
	}

	current, err := a.client.Tasks.Get(ctx, id)
	if err != nil {
		return err
	}
	in := api.TaskInput{
		Title:       current.Title,
		Description: current.Description,
		Completed:   current.Completed,
		CategoryID:  current.CategoryID,
		TagIDs:      current.TagIDs,
	}

	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			in.Title = *title
		case "description":
			in.Description = *description
		case "category":
			in.CategoryID = category
		case "no-category":
			if *noCategory {
				in.CategoryID = nil
			}
		case "tags":
			in.TagIDs, parseErr = parseIDs(*tags)
		case "completed":
			in.Completed = *completed
		}
	})
	if parseErr != nil {
		return parseErr
	}

	b := board.NewTasks(a.client.Tasks, a.logger)
	defer b.Close()
	t, err := b.Update(ctx, id, in)
	if err != nil {
		return err
	}
	printTasks(a.out, []api.Task{*t})
	return nil
}

func toggleCommand(ctx context.Context, a *app, args []string) error {
	id, _, err := leadingID(args)
	if err != nil {
		return err
	}
	b := board.NewTasks(a.client.Tasks, a.logger)
	defer b.Close()
	t, err := b.Toggle(ctx, id)
	if err != nil {
		return err
	}
	printTasks(a.out, []api.Task{*t})
	return nil
}

func removeCommand(ctx context.Context, a *app, args []string) error {
	id, _, err := leadingID(args)
	if err != nil {
		return err
	}
	b := board.NewTasks(a.client.Tasks, a.logger)
	defer b.Close()
	if err := b.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted task %d\n", id)
	return nil
}

func searchCommand(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		return errors.New("search: keyword required")
	}
	tasks, err := a.client.Tasks.Search(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	printTasks(a.out, tasks)
	return nil
}

func incompleteCommand(ctx context.Context, a *app, _ []string) error {
	tasks, err := a.client.Tasks.Incomplete(ctx)
	if err != nil {
		return err
	}
	printTasks(a.out, tasks)
	return nil
}

func categoriesCommand(ctx context.Context, a *app, _ []string) error {
	b := board.NewCategories(a.client.Categories, a.logger)
	defer b.Close()
	if err := b.Load(ctx); err != nil {
		return err
	}
	items := b.Items()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No categories")
		return nil
	}
	for _, c := range items {
		fmt.Fprintf(a.out, "%4d  %-20s %-8s %s\n", c.ID, c.Name, c.Color, c.Description)
	}
	return nil
}

func addCategoryCommand(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("taskctl add-category", flag.ContinueOnError)
	name := fs.String("name", "", "Category name")
	color := fs.String("color", "", "Display color")
	description := fs.String("description", "", "Description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	b := board.NewCategories(a.client.Categories, a.logger)
	defer b.Close()
	c, err := b.Create(ctx, api.CategoryInput{Name: *name, Color: *color, Description: *description})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created category %d\n", c.ID)
	return nil
}

func editCategoryCommand(ctx context.Context, a *app, args []string) error {
	id, args, err := leadingID(args)
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("taskctl edit-category", flag.ContinueOnError)
	name := fs.String("name", "", "Category name")
	color := fs.String("color", "", "Display color")
	description := fs.String("description", "", "Description")
	if err := fs.Parse(args); err != nil {
		return err
	}

	current, err := a.client.Categories.Get(ctx, id)
	if err != nil {
		return err
	}
	in := api.CategoryInput{Name: current.Name, Color: current.Color, Description: current.Description}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			in.Name = *name
		case "color":
			in.Color = *color
		case "description":
			in.Description = *description
		}
	})

	b := board.NewCategories(a.client.Categories, a.logger)
	defer b.Close()
	c, err := b.Update(ctx, id, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%4d  %-20s %-8s %s\n", c.ID, c.Name, c.Color, c.Description)
	return nil
}

func removeCategoryCommand(ctx context.Context, a *app, args []string) error {
	id, _, err := leadingID(args)
	if err != nil {
		return err
	}
	b := board.NewCategories(a.client.Categories, a.logger)
	defer b.Close()
	if err := b.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted category %d\n", id)
	return nil
}

func tagsCommand(ctx context.Context, a *app, _ []string) error {
	b := board.NewTags(a.client.Tags, a.logger)
	defer b.Close()
	if err := b.Load(ctx); err != nil {
		return err
	}
	items := b.Items()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No tags")
		return nil
	}
	for _, t := range items {
		fmt.Fprintf(a.out, "%4d  %s\n", t.ID, t.Name)
	}
	return nil
}

func addTagCommand(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("taskctl add-tag", flag.ContinueOnError)
	name := fs.String("name", "", "Tag name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	b := board.NewTags(a.client.Tags, a.logger)
	defer b.Close()
	t, err := b.Create(ctx, api.TagInput{Name: *name})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created tag %d\n", t.ID)
	return nil
}

func editTagCommand(ctx context.Context, a *app, args []string) error {
	id, args, err := leadingID(args)
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("taskctl edit-tag", flag.ContinueOnError)
	name := fs.String("name", "", "Tag name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	current, err := a.client.Tags.Get(ctx, id)
	if err != nil {
		return err
	}
	in := api.TagInput{Name: current.Name}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "name" {
			in.Name = *name
		}
	})

	b := board.NewTags(a.client.Tags, a.logger)
	defer b.Close()
	t, err := b.Update(ctx, id, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%4d  %s\n", t.ID, t.Name)
	return nil
}

func removeTagCommand(ctx context.Context, a *app, args []string) error {
	id, _, err := leadingID(args)
	if err != nil {
		return err
	}
	b := board.NewTags(a.client.Tags, a.logger)
	defer b.Close()
	if err := b.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted tag %d\n", id)
	return nil
}

func printTasks(w io.Writer, tasks []api.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks")
		return
	}
	for _, t := range tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		line := fmt.Sprintf("%4d  [%s] %s", t.ID, mark, t.Title)
		if t.CategoryName != "" {
			line += "  @" + t.CategoryName
		}
		if len(t.TagIDs) > 0 {
			ids := make([]string, len(t.TagIDs))
			for i, id := range t.TagIDs {
				ids[i] = strconv.FormatInt(id, 10)
			}
			line += "  #" + strings.Join(ids, ",#")
		}
		fmt.Fprintln(w, line)
	}
}

func leadingID(args []string) (int64, []string, error) {
	if len(args) == 0 {
		return 0, nil, errors.New("id required")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, nil, fmt.Errorf("invalid id %q", args[0])
	}
	return id, args[1:], nil
}

func parseIDs(s string) ([]int64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
