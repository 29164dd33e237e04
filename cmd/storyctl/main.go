package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/storyhub/pkg/client"
	"golang.org/x/term"
)

func main() {
	addr := flag.String("addr", envOr("STORYHUB_ADDR", "http://localhost:8080"), "StoryHub server address")
	flag.Parse()

	app := &App{
		client: client.New(*addr),
		reader: bufio.NewReader(os.Stdin),
	}

	fmt.Printf("storyctl connected to %s\n", *addr)
	fmt.Println("Commands: register, login, whoami, feed, publish, show, save, unsave, saved, quit")

	for {
		fmt.Print("> ")
		line, err := app.reader.ReadString('\n')
		if err != nil {
			return
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "register":
			app.Register()
		case "login":
			app.Login()
		case "whoami":
			app.WhoAmI()
		case "feed":
			app.Feed(fields[1:])
		case "publish":
			app.Publish()
		case "show":
			app.Show(fields[1:])
		case "save":
			app.Save(fields[1:])
		case "unsave":
			app.Unsave(fields[1:])
		case "saved":
			app.Saved()
		case "quit", "exit":
			return
		default:
			fmt.Printf("unknown command %q\n", fields[0])
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// App holds the CLI session state
type App struct {
	client *client.Client
	reader *bufio.Reader
}

func (a *App) prompt(label string) (string, error) {
	fmt.Printf("%s: ", label)
	line, err := a.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (a *App) promptPassword() (string, error) {
	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(password), nil
}

func (a *App) Register() {
	req := client.RegisterRequest{}
	var err error
	if req.Username, err = a.prompt("Username"); err != nil {
		return
	}
	if req.Firstname, err = a.prompt("First name"); err != nil {
		return
	}
	if req.Lastname, err = a.prompt("Last name"); err != nil {
		return
	}
	if req.Email, err = a.prompt("Email"); err != nil {
		return
	}
	if req.Password, err = a.promptPassword(); err != nil {
		fmt.Println(err.Error())
		return
	}

	user, err := a.client.Register(context.Background(), req)
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Printf("registered %s (id %d), now login\n", user.Username, user.ID)
}

func (a *App) Login() {
	username, err := a.prompt("Username")
	if err != nil {
		return
	}
	password, err := a.promptPassword()
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	if err := a.client.Login(context.Background(), username, password); err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Println("logged in")
}

func (a *App) WhoAmI() {
	user, err := a.client.Me(context.Background())
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Printf("%s (%s %s) <%s>\n", user.Username, user.Firstname, user.Lastname, user.Email)
	if user.Bio != "" {
		fmt.Println(user.Bio)
	}
}

// Feed prints one page of the feed; args: [category] [search terms...]
func (a *App) Feed(args []string) {
	query := client.FeedQuery{Page: 1, PageSize: 10}
	if len(args) > 0 {
		query.Category = args[0]
	}
	if len(args) > 1 {
		query.Search = strings.Join(args[1:], " ")
	}

	page, err := a.client.Feed(context.Background(), query)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	fmt.Printf("%d stories (page %d/%d)\n", page.Total, page.Page, page.TotalPages)
	for _, story := range page.Stories {
		fmt.Printf("  #%-4d %-40q by %s [%s]\n", story.ID, story.Title, story.Username, story.Category)
	}
}

func (a *App) Publish() {
	title, err := a.prompt("Title")
	if err != nil {
		return
	}
	category, err := a.prompt("Category")
	if err != nil {
		return
	}
	imagePath, err := a.prompt("Image path (optional)")
	if err != nil {
		return
	}

	fmt.Println("Story text, end with an empty line:")
	var lines []string
	for {
		line, err := a.reader.ReadString('\n')
		if err != nil {
			break
		}
		line = strings.TrimRight(line, "\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
	}

	story, err := a.client.CreateStory(context.Background(), title, strings.Join(lines, "\n"), category, imagePath)
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Printf("published story #%d\n", story.ID)
}

func (a *App) Show(args []string) {
	id, ok := parseIDArg(args)
	if !ok {
		return
	}

	story, err := a.client.StoryByID(context.Background(), id)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	fmt.Printf("#%d %q by %s [%s] %s\n\n%s\n", story.ID, story.Title,
		story.Username, story.Category, story.CreatedAt.Format("2006-01-02"), story.Content)

	// Reading a story marks it read; a failure here is not worth surfacing
	_ = a.client.MarkRead(context.Background(), id)
}

func (a *App) Save(args []string) {
	id, ok := parseIDArg(args)
	if !ok {
		return
	}
	if err := a.client.SaveStory(context.Background(), id); err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Println("saved")
}

func (a *App) Unsave(args []string) {
	id, ok := parseIDArg(args)
	if !ok {
		return
	}
	if err := a.client.UnsaveStory(context.Background(), id); err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Println("unsaved")
}

func (a *App) Saved() {
	me, err := a.client.Me(context.Background())
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	stories, err := a.client.SavedStories(context.Background(), me.ID)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	for _, story := range stories {
		fmt.Printf("  #%-4d %-40q by %s\n", story.ID, story.Title, story.Username)
	}
}

func parseIDArg(args []string) (uint, bool) {
	if len(args) == 0 {
		fmt.Println("usage: <command> <story id>")
		return 0, false
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil || id == 0 {
		fmt.Printf("invalid story id %q\n", args[0])
		return 0, false
	}
	return uint(id), true
}
