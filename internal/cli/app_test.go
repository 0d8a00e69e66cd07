package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/safestorage"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	store := safestorage.New(safestorage.Options{AppRoot: t.TempDir()})
	require.True(t, store.Init(context.Background()).OK())
	t.Cleanup(func() { store.Deinit(context.Background()) })
	return NewApp(store)
}

func stubInput(t *testing.T, username, password string) {
	t.Helper()
	origText, origPw, origPrint := getSimpleText, getPassword, printlnFn
	t.Cleanup(func() {
		getSimpleText, getPassword, printlnFn = origText, origPw, origPrint
	})
	getSimpleText = func(*bufio.Reader, string, io.Writer) (string, error) {
		return username, nil
	}
	getPassword = func(io.Writer) ([]byte, error) {
		return []byte(password), nil
	}
	printlnFn = func(...any) (int, error) { return 0, nil }
}

func TestAppRegisterLoginStoreRetrieve(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	stubInput(t, "UserA", "PassWord1@")

	require.NoError(t, app.Register(ctx))
	require.False(t, app.isLoggedIn())

	require.NoError(t, app.Login(ctx))
	require.True(t, app.isLoggedIn())
	require.Equal(t, "(UserA)", app.status())

	src := filepath.Join(t.TempDir(), "in.dat")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o660))
	require.NoError(t, app.Store(ctx, "Homework", src))

	dst := filepath.Join(t.TempDir(), "out.dat")
	require.NoError(t, app.Retrieve(ctx, "Homework", dst))
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "payload", string(got))

	require.NoError(t, app.Logout(ctx))
	require.False(t, app.isLoggedIn())
	require.Equal(t, "", app.status())
}

func TestAppReportsFailedOperations(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	var printed []string
	origPrint := printlnFn
	printlnFn = func(args ...any) (int, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, strings.TrimSpace(toString(a)))
		}
		printed = append(printed, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })

	// no session, so the store command must fail
	require.NoError(t, app.Store(ctx, "Homework", "whatever"))
	require.NotEmpty(t, printed)
	require.Contains(t, printed[len(printed)-1], "not logged in")
}

func TestAppLoginDoesNotRevealUnknownUsers(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	stubInput(t, "UserA", "PassWord1@")
	require.NoError(t, app.Register(ctx))

	var printed []string
	printlnFn = func(args ...any) (int, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, toString(a))
		}
		printed = append(printed, strings.Join(parts, " "))
		return 0, nil
	}

	// unknown user
	getSimpleText = func(*bufio.Reader, string, io.Writer) (string, error) {
		return "NoSuch", nil
	}
	require.NoError(t, app.Login(ctx))
	unknownLine := printed[len(printed)-1]

	// known user, wrong password
	getSimpleText = func(*bufio.Reader, string, io.Writer) (string, error) {
		return "UserA", nil
	}
	getPassword = func(io.Writer) ([]byte, error) {
		return []byte("WrongPw1@"), nil
	}
	require.NoError(t, app.Login(ctx))
	wrongPwLine := printed[len(printed)-1]

	require.Equal(t, unknownLine, wrongPwLine)
	require.Contains(t, unknownLine, "login failed")
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
