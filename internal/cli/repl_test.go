package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
}

func (f *fakeExec) record(s string) error { f.calls = append(f.calls, s); return nil }

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(context.Context) error { return f.record("register") }
func (f *fakeExec) List(context.Context) error { return f.record("list") }
func (f *fakeExec) Refresh(context.Context) error { return f.record("refresh") }
func (f *fakeExec) Devices(context.Context) error { return f.record("devices") }
func (f *fakeExec) Clear(context.Context) error { return f.record("clear") }
func (f *fakeExec) Delete(_ context.Context, id string) error {
	return f.record("delete " + id)
}
func (f *fakeExec) Copy(_ context.Context, id string) error { return f.record("copy " + id) }
func (f *fakeExec) Rename(_ context.Context, id, label string) error {
	return f.record("rename " + id + " " + label)
}
func (f *fakeExec) RemoveDevice(_ context.Context, id string) error {
	return f.record("remove " + id)
}
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login")
}

func TestRunREPL_Dispatch(t *testing.T) {
	input := strings.Join([]string{
		"list",
		"register",
		"login",
		"l",
		"refresh",
		"delete 42",
		"delete",
		"copy 7",
		"devices",
		"rename d1 Work laptop",
		"remove d2",
		"clear",
		"bogus",
		"exit",
		"list",
	}, "\n")
	var out bytes.Buffer
	f := &fakeExec{}

	runREPL(context.Background(), f, func() string { return "ok" }, bufio.NewReader(strings.NewReader(input)), &out)

	assert.Equal(t, []string{
		"register",
		"login",
		"list",
		"refresh",
		"delete 42",
		"copy 7",
		"devices",
		"rename d1 Work laptop",
		"remove d2",
		"clear",
	}, f.calls)
	assert.Contains(t, out.String(), "Please login first")
	assert.Contains(t, out.String(), "Usage: delete <clip_id>")
	assert.Contains(t, out.String(), "Unknown command: bogus")
	assert.Contains(t, out.String(), "Bye!")
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	f := &fakeExec{loggedIn: true}
	var out bytes.Buffer
	runREPL(context.Background(), f, func() string { return "" }, bufio.NewReader(strings.NewReader("list")), &out)
	assert.Equal(t, []string{"list"}, f.calls)
}
