// Package cli provides the interactive SafeStorage command-line shell.
//
// It wires an initialized store into a small REPL: the user registers and
// logs in interactively (passwords are read without echo), then stores and
// retrieves submissions by name. The REPL is started via App.Run(ctx), which
// blocks until the user exits.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/safestorage"
	"github.com/dmitrijs2005/safestorage/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// App binds the REPL commands to a SafeStorage instance.
type App struct {
	store  *safestorage.SafeStorage
	reader *bufio.Reader
}

func NewApp(store *safestorage.SafeStorage) *App {
	return &App{store: store, reader: bufio.NewReader(os.Stdin)}
}

// Run starts the interactive shell and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	fmt.Println("SafeStorage shell (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) isLoggedIn() bool {
	_, ok := a.store.CurrentUser()
	return ok
}

func (a *App) status() string {
	if user, ok := a.store.CurrentUser(); ok {
		return fmt.Sprintf("(%s)", user)
	}
	return ""
}

// Register prompts for a username and password and creates the account.
// The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	report(a.store.Register(ctx, username, string(password)))
	return nil
}

// Login prompts for credentials and opens the session.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	// unknown user and wrong password print the same line so the prompt
	// cannot be used to probe for registered usernames
	switch st := a.store.Login(ctx, username, string(password)); st {
	case safestorage.StatusUserNotFound, safestorage.StatusLoginFailed:
		printlnFn("Error:", safestorage.StatusLoginFailed.String())
	default:
		report(st)
	}
	return nil
}

// Logout closes the active session.
func (a *App) Logout(ctx context.Context) error {
	report(a.store.Logout(ctx))
	return nil
}

// Store saves the file at path under the given submission name.
func (a *App) Store(ctx context.Context, name, path string) error {
	report(a.store.Store(ctx, name, path))
	return nil
}

// Retrieve copies the named submission to path.
func (a *App) Retrieve(ctx context.Context, name, path string) error {
	report(a.store.Retrieve(ctx, name, path))
	return nil
}

// report prints the outcome of an operation to the user.
func report(st safestorage.Status) {
	if st.OK() {
		printlnFn("OK")
		return
	}
	printlnFn("Error:", st.String())
}
