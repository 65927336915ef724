package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"go.uber.org/zap"

	"bookstore/internal/book"
	"bookstore/internal/config"
	"bookstore/internal/logging"
	"bookstore/internal/storage"
	"bookstore/internal/user"
)

type options struct {
	users    []string
	staff    []string
	password string
	count    int
}

func main() {
	var (
		configPath = flag.String("config", os.Getenv(config.EnvPrefix+"_CONFIG"), "path to the YAML configuration file")
		users      = flag.String("users", "alice,bob", "comma separated regular users owning the seeded books")
		staff      = flag.String("staff", "admin", "comma separated staff users")
		password   = flag.String("password", "Bookstore1!", "password of every seeded user")
		count      = flag.Int("books", 100, "number of generated books on top of the fixed catalog")
	)
	flag.Parse()

	cfg, err := config.Read(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, flush := logging.New(cfg, "seed")
	defer flush()

	opts := options{
		users:    splitList(*users),
		staff:    splitList(*staff),
		password: *password,
		count:    *count,
	}
	if err := run(context.Background(), cfg, opts, logger); err != nil {
		logger.Error("seed failed", zap.Error(err))
		flush()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts options, logger *zap.Logger) error {
	if len(opts.users) == 0 {
		return errors.New("at least one regular user is required to own the books")
	}

	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	users := user.NewService(store.Users)
	books := book.NewService(store.Books)

	var owners []user.User
	for _, name := range opts.users {
		u, err := ensureUser(ctx, users, name, opts.password, false)
		if err != nil {
			return err
		}
		owners = append(owners, u)
	}
	for _, name := range opts.staff {
		if _, err := ensureUser(ctx, users, name, opts.password, true); err != nil {
			return err
		}
	}
	logger.Info("users ready", zap.Strings("users", opts.users), zap.Strings("staff", opts.staff))

	inputs := append(catalog(), generate(opts.count)...)
	for i, in := range inputs {
		owner := owners[i%len(owners)]
		if _, err := books.Create(ctx, book.Actor{UserID: owner.ID, Staff: owner.IsStaff}, in); err != nil {
			return fmt.Errorf("create book %q: %w", in.Name, err)
		}
		if (i+1)%1000 == 0 {
			logger.Info("seeding books", zap.Int("done", i+1), zap.Int("total", len(inputs)))
		}
	}

	all, err := books.List(ctx, book.Actor{}, book.Query{})
	if err != nil {
		return err
	}
	logger.Info("seed complete", zap.Int("inserted", len(inputs)), zap.Int("total_books", len(all)))
	return nil
}

// ensureUser registers username, or returns the existing account so the
// command can be run more than once.
func ensureUser(ctx context.Context, users *user.Service, username, password string, staff bool) (user.User, error) {
	u, err := users.Register(ctx, user.NewUser{Username: username, Password: password, IsStaff: staff})
	if errors.Is(err, user.ErrAlreadyExists) {
		return users.GetByUsername(ctx, username)
	}
	if err != nil {
		return user.User{}, fmt.Errorf("register %q: %w", username, err)
	}
	return u, nil
}

func catalog() []book.Input {
	rows := []struct{ name, price, author string }{
		{"The Hobbit", "25.00", "J.R.R. Tolkien"},
		{"The Fellowship of the Ring", "29.99", "J.R.R. Tolkien"},
		{"Dune", "150.00", "Frank Herbert"},
		{"Foundation", "18.50", "Isaac Asimov"},
		{"I, Robot", "12.00", "Isaac Asimov"},
		{"Pride and Prejudice", "9.99", "Jane Austen"},
		{"Emma", "9.99", "Jane Austen"},
		{"The Left Hand of Darkness", "21.00", "Ursula K. Le Guin"},
	}
	inputs := make([]book.Input, 0, len(rows))
	for _, r := range rows {
		inputs = append(inputs, newInput(r.name, book.MustPrice(r.price), r.author))
	}
	return inputs
}

var (
	words   = []string{"Adventure", "Mystery", "Journey", "Discovery", "Secrets", "Dreams", "Hope", "Future", "Light", "Time"}
	authors = []string{"Ada Palmer", "Ted Chiang", "N. K. Jemisin", "Liu Cixin", "Octavia Butler", "Iain Banks"}
)

func generate(n int) []book.Input {
	inputs := make([]book.Input, 0, n)
	for i := range n {
		name := fmt.Sprintf("%s of %s, Vol. %d", words[rand.IntN(len(words))], words[rand.IntN(len(words))], i+1)
		cents := 100 + rand.IntN(20000)
		price := book.MustPrice(fmt.Sprintf("%d.%02d", cents/100, cents%100))
		inputs = append(inputs, newInput(name, price, authors[rand.IntN(len(authors))]))
	}
	return inputs
}

func newInput(name string, price book.Price, author string) book.Input {
	return book.Input{Name: name, Price: &price, AuthorName: author}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
